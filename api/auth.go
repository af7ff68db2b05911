package api

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
)

const (
	signerKey = "signer"

	// signatureWindow bounds how far a request timestamp may be from the
	// server clock
	signatureWindow = time.Minute

	// usedSignatureCacheSize is the number of signatures remembered to
	// refuse replays inside the window
	usedSignatureCacheSize = 1 << 16
)

// SigningPayload is what a request signature covers: the method, the path
// and the timestamp bind the body to a single route and moment.
func SigningPayload(method, path string, timestamp int64, body []byte) []byte {
	buf := bytes.NewBufferString(fmt.Sprintf("%s\n%s\n%d\n", method, path, timestamp))
	buf.Write(body)
	return buf.Bytes()
}

// SignRequest attaches the identity of key and its signature over the
// request to req. req.Body must hold body.
func SignRequest(req *http.Request, key solana.PrivateKey, body []byte) error {
	return signRequestAt(req, key, body, time.Now())
}

func signRequestAt(req *http.Request, key solana.PrivateKey, body []byte, at time.Time) error {
	timestamp := at.UnixNano() / int64(time.Millisecond)
	sig, err := key.Sign(SigningPayload(req.Method, req.URL.Path, timestamp, body))
	if err != nil {
		return fmt.Errorf("sign request: %w", err)
	}

	req.Header.Set(SignerHeader, key.PublicKey().String())
	req.Header.Set(SignatureHeader, sig.String())
	req.Header.Set(TimestampHeader, strconv.FormatInt(timestamp, 10))
	return nil
}

// verifySigner checks the request signature, its freshness and that it was
// not seen before, then stores the signer in the context. The body is left
// readable for the next handler.
func (s *Server) verifySigner(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, err)
		return
	}
	c.Request.Body = ioutil.NopCloser(bytes.NewReader(body))

	signer, err := solana.PublicKeyFromBase58(c.GetHeader(SignerHeader))
	if err != nil {
		unauthorized(c, "invalid signer")
		return
	}

	timestamp, err := strconv.ParseInt(c.GetHeader(TimestampHeader), 10, 64)
	if err != nil {
		unauthorized(c, "invalid timestamp")
		return
	}
	skew := time.Since(time.Unix(0, timestamp*int64(time.Millisecond)))
	if skew > signatureWindow || skew < -signatureWindow {
		unauthorized(c, "request expired")
		return
	}

	sig, err := solana.SignatureFromBase58(c.GetHeader(SignatureHeader))
	if err != nil || !sig.Verify(signer, SigningPayload(c.Request.Method, c.Request.URL.Path, timestamp, body)) {
		unauthorized(c, "invalid signature")
		return
	}

	if seen, _ := s.usedSigs.ContainsOrAdd(sig, struct{}{}); seen {
		s.logger.WithField("signer", signer.String()).Warn("Replayed request refused")
		unauthorized(c, "request replayed")
		return
	}

	c.Set(signerKey, signer)
	c.Next()
}

func signer(c *gin.Context) solana.PublicKey {
	return c.MustGet(signerKey).(solana.PublicKey)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, &ErrorResponse{Error: msg})
}

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/bitxhub-kit/log"
	"github.com/meshplus/bitxhub-kit/storage/leveldb"
	"github.com/meshplus/unicity-bridge/internal/bridge"
	"github.com/meshplus/unicity-bridge/internal/eventlog"
	"github.com/meshplus/unicity-bridge/internal/host"
	"github.com/meshplus/unicity-bridge/internal/repo"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Unix(1700000000, 0)
}

func TestLockAndWithdraw(t *testing.T) {
	s := prepare(t, true)
	admin := solana.NewWallet().PrivateKey
	user := solana.NewWallet().PrivateKey

	w := signedPost(t, s, admin, InitializeUrl, &InitializeRequest{Admin: admin.PublicKey().String()})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, admin.PublicKey().String(), gjson.GetBytes(w.Body.Bytes(), "admin").String())

	w = post(t, s, AirdropUrl, &AirdropRequest{Account: user.PublicKey().String(), Amount: 1000})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, uint64(1000), gjson.GetBytes(w.Body.Bytes(), "balance").Uint())

	w = signedPost(t, s, user, LockUrl, &LockRequest{Amount: 300, Destination: "unicity_recipient_1"})
	require.Equal(t, http.StatusOK, w.Code)
	res := gjson.ParseBytes(w.Body.Bytes())
	require.Equal(t, uint64(1), res.Get("nonce").Uint())
	require.Equal(t, uint64(300), res.Get("amount").Uint())
	require.Equal(t, user.PublicKey().String(), res.Get("user").String())
	require.Equal(t, "unicity_recipient_1", res.Get("unicity_recipient").String())
	require.Equal(t, 66, len(res.Get("lock_id").String()))

	w = get(t, s, StateUrl)
	require.Equal(t, http.StatusOK, w.Code)
	res = gjson.ParseBytes(w.Body.Bytes())
	require.Equal(t, uint64(300), res.Get("total_locked").Uint())
	require.Equal(t, uint64(1), res.Get("nonce").Uint())
	require.Equal(t, s.program.Addresses().Escrow.String(), res.Get("escrow").String())

	w = get(t, s, VaultUrl)
	require.Equal(t, uint64(300), gjson.GetBytes(w.Body.Bytes(), "balance").Uint())

	w = get(t, s, BalanceUrl+"/"+user.PublicKey().String())
	require.Equal(t, uint64(700), gjson.GetBytes(w.Body.Bytes(), "balance").Uint())

	w = signedPost(t, s, user, WithdrawUrl, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, uint64(6002), gjson.GetBytes(w.Body.Bytes(), "code").Uint())
	require.Equal(t, "Unauthorized", gjson.GetBytes(w.Body.Bytes(), "name").String())

	w = signedPost(t, s, admin, WithdrawUrl, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, uint64(300), gjson.GetBytes(w.Body.Bytes(), "amount").Uint())

	w = get(t, s, VaultUrl)
	require.Equal(t, uint64(0), gjson.GetBytes(w.Body.Bytes(), "balance").Uint())
	w = get(t, s, StateUrl)
	require.Equal(t, uint64(300), gjson.GetBytes(w.Body.Bytes(), "total_locked").Uint())

	w = get(t, s, EventsUrl)
	require.Equal(t, http.StatusOK, w.Code)
	events := gjson.ParseBytes(w.Body.Bytes()).Array()
	require.Equal(t, 3, len(events))
	require.Equal(t, "BridgeInitialized", events[0].Get("name").String())
	require.Equal(t, "TokenLocked", events[1].Get("name").String())
	require.Equal(t, uint64(1), events[1].Get("event.nonce").Uint())
	require.Equal(t, "EmergencyWithdrawal", events[2].Get("name").String())

	w = get(t, s, EventsUrl+"?from=2&limit=1")
	events = gjson.ParseBytes(w.Body.Bytes()).Array()
	require.Equal(t, 1, len(events))
	require.Equal(t, uint64(2), events[0].Get("seq").Uint())

	w = get(t, s, EventsRootUrl)
	require.Equal(t, uint64(3), gjson.GetBytes(w.Body.Bytes(), "count").Uint())
	require.NotEmpty(t, gjson.GetBytes(w.Body.Bytes(), "root").String())
}

func TestLockRejected(t *testing.T) {
	s := prepare(t, true)
	admin := solana.NewWallet().PrivateKey
	user := solana.NewWallet().PrivateKey

	w := signedPost(t, s, user, LockUrl, &LockRequest{Amount: 1, Destination: "w"})
	require.Equal(t, http.StatusNotFound, w.Code)

	signedPost(t, s, admin, InitializeUrl, &InitializeRequest{Admin: admin.PublicKey().String()})
	w = signedPost(t, s, admin, InitializeUrl, &InitializeRequest{Admin: user.PublicKey().String()})
	require.Equal(t, http.StatusConflict, w.Code)

	w = signedPost(t, s, user, LockUrl, &LockRequest{Amount: 0, Destination: "u"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, uint64(6000), gjson.GetBytes(w.Body.Bytes(), "code").Uint())

	long := string(bytes.Repeat([]byte("a"), bridge.MaxRecipientLen+1))
	w = signedPost(t, s, user, LockUrl, &LockRequest{Amount: 1, Destination: long})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, uint64(6001), gjson.GetBytes(w.Body.Bytes(), "code").Uint())

	w = signedPost(t, s, user, LockUrl, &LockRequest{Amount: 1, Destination: "u"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, gjson.GetBytes(w.Body.Bytes(), "code").String())

	w = get(t, s, StateUrl)
	require.Equal(t, uint64(0), gjson.GetBytes(w.Body.Bytes(), "nonce").Uint())
}

func TestSignature(t *testing.T) {
	s := prepare(t, false)
	admin := solana.NewWallet().PrivateKey

	body, err := json.Marshal(&InitializeRequest{Admin: admin.PublicKey().String()})
	require.Nil(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/"+InitializeUrl, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	other := solana.NewWallet().PrivateKey
	req = httptest.NewRequest(http.MethodPost, "/v1/"+InitializeUrl, bytes.NewReader(body))
	require.Nil(t, SignRequest(req, admin, body))
	req.Header.Set(SignerHeader, other.PublicKey().String())
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid signature", gjson.GetBytes(w.Body.Bytes(), "error").String())

	tampered := bytes.ReplaceAll(body, []byte(admin.PublicKey().String()), []byte(other.PublicKey().String()))
	req = httptest.NewRequest(http.MethodPost, "/v1/"+InitializeUrl, bytes.NewReader(tampered))
	require.Nil(t, SignRequest(req, admin, body))
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = get(t, s, StateUrl)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignedRequestReplay(t *testing.T) {
	s := prepare(t, true)
	admin := solana.NewWallet().PrivateKey
	user := solana.NewWallet().PrivateKey

	initReq, initBody := newSignedRequest(t, admin, InitializeUrl, &InitializeRequest{Admin: admin.PublicKey().String()}, time.Now())
	w := serve(s, initReq)
	require.Equal(t, http.StatusOK, w.Code)

	post(t, s, AirdropUrl, &AirdropRequest{Account: user.PublicKey().String(), Amount: 1000})
	w = signedPost(t, s, user, LockUrl, &LockRequest{Amount: 700, Destination: "unicity_recipient"})
	require.Equal(t, http.StatusOK, w.Code)

	// an admin signature taken from another route does not authorize a withdrawal
	w = serve(s, resend(initReq, initBody, WithdrawUrl))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid signature", gjson.GetBytes(w.Body.Bytes(), "error").String())

	w = serve(s, resend(initReq, initBody, InitializeUrl))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "request replayed", gjson.GetBytes(w.Body.Bytes(), "error").String())

	lockReq, lockBody := newSignedRequest(t, user, LockUrl, &LockRequest{Amount: 100, Destination: "unicity_recipient"}, time.Now())
	require.Equal(t, http.StatusOK, serve(s, lockReq).Code)
	w = serve(s, resend(lockReq, lockBody, LockUrl))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = signedPost(t, s, admin, WithdrawUrl, &InitializeRequest{Admin: admin.PublicKey().String()})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, s, VaultUrl)
	require.Equal(t, uint64(800), gjson.GetBytes(w.Body.Bytes(), "balance").Uint())
	w = get(t, s, BalanceUrl+"/"+user.PublicKey().String())
	require.Equal(t, uint64(200), gjson.GetBytes(w.Body.Bytes(), "balance").Uint())

	withdrawReq, _ := newSignedRequest(t, admin, WithdrawUrl, nil, time.Now())
	w = serve(s, withdrawReq)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, uint64(800), gjson.GetBytes(w.Body.Bytes(), "amount").Uint())
	w = serve(s, resend(withdrawReq, nil, WithdrawUrl))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpiredRequest(t *testing.T) {
	s := prepare(t, false)
	admin := solana.NewWallet().PrivateKey
	body := &InitializeRequest{Admin: admin.PublicKey().String()}

	for _, at := range []time.Time{time.Now().Add(-2 * signatureWindow), time.Now().Add(2 * signatureWindow)} {
		req, _ := newSignedRequest(t, admin, InitializeUrl, body, at)
		w := serve(s, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "request expired", gjson.GetBytes(w.Body.Bytes(), "error").String())
	}

	req, _ := newSignedRequest(t, admin, InitializeUrl, body, time.Now())
	req.Header.Del(TimestampHeader)
	require.Equal(t, http.StatusUnauthorized, serve(s, req).Code)

	w := get(t, s, StateUrl)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAirdropDisabled(t *testing.T) {
	s := prepare(t, false)

	w := post(t, s, AirdropUrl, &AirdropRequest{Account: solana.NewWallet().PublicKey().String(), Amount: 1})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = get(t, s, MonitorUrl)
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, gjson.GetBytes(w.Body.Bytes(), "enable").Bool())

	w = get(t, s, BalanceUrl+"/not-a-key")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = get(t, s, EventsUrl+"?limit=-1")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func prepare(t *testing.T, airdrop bool) *Server {
	store, err := leveldb.New(t.TempDir())
	require.Nil(t, err)
	t.Cleanup(func() { store.Close() })

	l, err := eventlog.New(store, log.NewWithModule("event_log"))
	require.Nil(t, err)

	h := host.New(store, l, host.WithClock(fixedClock{}))
	addrs, err := bridge.DeriveAddresses(solana.MustPublicKeyFromBase58(bridge.DefaultProgramID))
	require.Nil(t, err)

	config := repo.DefaultConfig()
	config.Bridge.Airdrop = airdrop

	s, err := NewServer(bridge.New(h, addrs), h, l, nil, config, log.NewWithModule("api_server"))
	require.Nil(t, err)
	return s
}

// signedPost sends v signed by key, a nil v as an empty body
func signedPost(t *testing.T, s *Server, key solana.PrivateKey, url string, v interface{}) *httptest.ResponseRecorder {
	req, _ := newSignedRequest(t, key, url, v, time.Now())
	return serve(s, req)
}

func newSignedRequest(t *testing.T, key solana.PrivateKey, url string, v interface{}, at time.Time) (*http.Request, []byte) {
	var body []byte
	if v != nil {
		var err error
		body, err = json.Marshal(v)
		require.Nil(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/"+url, bytes.NewReader(body))
	require.Nil(t, signRequestAt(req, key, body, at))
	return req, body
}

// resend builds a request to url carrying the body and signature headers of req
func resend(req *http.Request, body []byte, url string) *http.Request {
	replay := httptest.NewRequest(http.MethodPost, "/v1/"+url, bytes.NewReader(body))
	for _, h := range []string{SignerHeader, SignatureHeader, TimestampHeader} {
		replay.Header.Set(h, req.Header.Get(h))
	}
	return replay
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func post(t *testing.T, s *Server, url string, v interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(v)
	require.Nil(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/"+url, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func get(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/"+url, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/unicity-bridge/api"
	"github.com/stretchr/testify/require"
)

func TestHttpPost(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/lock":
			require.Equal(t, key.PublicKey().String(), r.Header.Get(api.SignerHeader))
			require.NotEmpty(t, r.Header.Get(api.SignatureHeader))
			require.NotEmpty(t, r.Header.Get(api.TimestampHeader))
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":6000,"name":"InvalidAmount","error":"Invalid amount: must be greater than 0"}`))
		case "/v1/airdrop":
			require.Empty(t, r.Header.Get(api.SignerHeader))
			w.Write([]byte(`{"balance":10}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"bridge not initialized"}`))
		}
	}))
	defer srv.Close()

	_, err := httpPost(srv.URL+"/v1/lock", []byte(`{"amount":0}`), key)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "InvalidAmount")
	require.Contains(t, err.Error(), "(6000)")

	data, err := httpPost(srv.URL+"/v1/airdrop", []byte(`{}`), nil)
	require.Nil(t, err)
	require.Equal(t, `{"balance":10}`, string(data))

	_, err = httpGet(srv.URL + "/v1/state")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "bridge not initialized")
}

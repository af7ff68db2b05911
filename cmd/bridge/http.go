package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/unicity-bridge/api"
	"github.com/tidwall/gjson"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// httpPost sends data to url, signed by key when key is not nil
func httpPost(url string, data []byte, key solana.PrivateKey) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	if key != nil {
		if err := api.SignRequest(req, key, data); err != nil {
			return nil, err
		}
	}

	return do(req)
}

func httpGet(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	return do(req)
}

func do(req *http.Request) ([]byte, error) {
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", req.URL, err)
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		res := gjson.ParseBytes(data)
		if code := res.Get("code"); code.Exists() {
			return nil, fmt.Errorf("%s %s: %s (%d)", resp.Status, res.Get("name").String(), res.Get("error").String(), code.Uint())
		}
		if msg := res.Get("error"); msg.Exists() {
			return nil, fmt.Errorf("%s: %s", resp.Status, msg.String())
		}
		return nil, fmt.Errorf("%s: %s", resp.Status, string(data))
	}

	return data, nil
}

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"io"
	"net/http"
	"strings"
	"time"
)

type Signer interface {
	Sign(ctx context.Context, sender string, unsigned [][]byte) ([][]byte, error)
}

type signRequest struct {
	Sender string   `json:"sender"`
	Txns   [][]byte `json:"txns"`
}

type signResponse struct {
	Signed [][]byte `json:"signed"`
	Error  string   `json:"error"`
}

type remoteSigner struct {
	url     string
	client  *retryablehttp.Client
	timeout time.Duration
}

// NewRemoteSigner signs through a wallet service exposing POST /sign.
func NewRemoteSigner(url string, timeout int) (Signer, error) {
	if url == "" {
		return nil, errors.New("signer url not configured")
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 0

	return remoteSigner{strings.TrimRight(url, "/"), client, time.Duration(timeout) * time.Second}, nil
}

func (s remoteSigner) Sign(ctx context.Context, sender string, unsigned [][]byte) ([][]byte, error) {
	body, err := json.Marshal(signRequest{sender, unsigned})
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, s.url+"/sign", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Add("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "signer")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var signed signResponse
	if err := json.Unmarshal(data, &signed); err != nil {
		return nil, errors.Wrapf(err, "signer: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK || signed.Error != "" {
		return nil, fmt.Errorf("signer: %s: %s", resp.Status, signed.Error)
	}
	if len(signed.Signed) != len(unsigned) {
		return nil, fmt.Errorf("signer: returned %d of %d transactions", len(signed.Signed), len(unsigned))
	}

	return signed.Signed, nil
}

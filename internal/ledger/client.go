package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	jsonrpcVersion = "2.0"
)

// A rpcClient represents a JSON RPC client (over HTTP(s)).
type rpcClient struct {
	url        string
	httpClient *retryablehttp.Client
	timeout    time.Duration
	debug      bool
	nextId     int64
}

// rpcRequest represent a RCP request
type rpcRequest struct {
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	Id      int64       `json:"id"`
	JsonRpc string      `json:"jsonrpc"`
}

// RPCErrorCode represents an error code to be used as a part of an RPCError
// which is in turn used in a JSON-RPC Response object.
type RPCErrorCode int

// RPCError represents an error that is used as a part of a JSON-RPC Response
// object.
type RPCError struct {
	Code    RPCErrorCode `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

var _, _ error = RPCError{}, (*RPCError)(nil)

func (e RPCError) Error() string {
	return fmt.Sprintf("%d:%s", e.Code, e.Message)
}

type rpcResponse struct {
	Id     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func (rResp rpcResponse) ResultAs(v interface{}) error {
	return json.Unmarshal(rResp.Result, v)
}

func (rResp rpcResponse) IsNull() bool {
	return len(rResp.Result) == 0 || string(rResp.Result) == "null"
}

func NewClient(url string, timeout int, debug bool) (*rpcClient, error) {
	if len(url) == 0 {
		return nil, errors.New("bad call missing argument host")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 3

	return &rpcClient{
		url:        url,
		httpClient: retryClient,
		timeout:    time.Duration(timeout) * time.Second,
		debug:      debug,
	}, nil
}

// call prepare & exec the request
func (c *rpcClient) call(ctx context.Context, method string, params ...interface{}) (*rpcResponse, error) {
	if params == nil {
		params = make([]interface{}, 0)
	}
	rpcR := rpcRequest{method, params, atomic.AddInt64(&c.nextId, 1), jsonrpcVersion}

	payloadBuffer := &bytes.Buffer{}
	if err := json.NewEncoder(payloadBuffer).Encode(rpcR); err != nil {
		return nil, err
	}

	zap.L().With(zap.String("request", rpcR.Method), zap.Int64("id", rpcR.Id)).Debug("Ledger: RPC Request")
	if c.debug {
		zap.L().With(zap.String("request", payloadBuffer.String())).Debug("Ledger: RPC Request")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, c.url, payloadBuffer.Bytes())
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Add("Content-Type", "application/json;charset=utf-8")
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().With(zap.String("request", rpcR.Method), zap.Error(err)).Warn("Ledger: RPC Failure")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if c.debug {
		zap.L().With(zap.String("response", string(data))).Debug("Ledger: RPC Response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ledger: %s: %s", method, resp.Status)
	}

	var rr rpcResponse
	if err := json.Unmarshal(data, &rr); err != nil {
		return nil, err
	}
	if rr.Error != nil {
		return nil, *rr.Error
	}

	return &rr, nil
}

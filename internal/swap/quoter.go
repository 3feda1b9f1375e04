package swap

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"io"
	"net/http"
	"strings"
	"time"
)

type Pool struct {
	PoolId uint64 `json:"poolId"`
	TokenA uint64 `json:"tokenA"`
	TokenB uint64 `json:"tokenB"`
}

func (p Pool) Has(asset uint64) bool {
	return p.TokenA == asset || p.TokenB == asset
}

type QuoteRequest struct {
	Pool      Pool   `json:"pool"`
	Trader    string `json:"trader"`
	Input     uint64 `json:"inputToken"`
	Output    uint64 `json:"outputToken"`
	AmountOut uint64 `json:"amountOut"`
	// Withdraw unwraps the output to the native asset after the swap.
	Withdraw bool `json:"withdraw"`
	// Deposit wraps the input from the native asset before the swap.
	Deposit bool `json:"deposit"`
}

type Quote struct {
	AmountIn   uint64          `json:"amountIn"`
	AmountOut  uint64          `json:"amountOut"`
	Operations []txn.Operation `json:"-"`
}

type Quoter interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
}

type quoteResponse struct {
	AmountIn  uint64 `json:"amountIn"`
	AmountOut uint64 `json:"amountOut"`
	Error     string `json:"error"`
}

type service struct {
	url     string
	client  *retryablehttp.Client
	timeout time.Duration
}

func NewSwapService(url string, timeout int) (Quoter, error) {
	if url == "" {
		return nil, errors.New("swap url not configured")
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3

	return service{strings.TrimRight(url, "/"), client, time.Duration(timeout) * time.Second}, nil
}

// Quote prices an exact output trade and returns the operations that perform
// it, to be placed ahead of the consuming call.
func (s service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if !req.Pool.Has(req.Output) || !req.Pool.Has(req.Input) {
		return nil, errors.Errorf("pool %d does not trade %d for %d", req.Pool.PoolId, req.Input, req.Output)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	httpReq, err := retryablehttp.NewRequest(http.MethodPost, s.url+"/quote", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq = httpReq.WithContext(ctx)
	httpReq.Header.Add("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "swap quote")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var quoted quoteResponse
	if err := json.Unmarshal(data, &quoted); err != nil {
		return nil, errors.Wrapf(err, "swap quote: %s", resp.Status)
	}
	if resp.StatusCode != http.StatusOK || quoted.Error != "" {
		return nil, errors.Errorf("swap quote: %s: %s", resp.Status, quoted.Error)
	}
	if quoted.AmountOut < req.AmountOut {
		return nil, errors.Errorf("swap quote: output %d below required %d", quoted.AmountOut, req.AmountOut)
	}

	zap.L().With(
		zap.Uint64("pool", req.Pool.PoolId),
		zap.Uint64("amountIn", quoted.AmountIn),
		zap.Uint64("amountOut", quoted.AmountOut),
	).Debug("Swap: Quoted")

	return &Quote{
		AmountIn:   quoted.AmountIn,
		AmountOut:  quoted.AmountOut,
		Operations: Operations(req, quoted.AmountIn, quoted.AmountOut),
	}, nil
}

// Operations performs the swap and, when requested, unwraps the output.
func Operations(req QuoteRequest, amountIn, amountOut uint64) []txn.Operation {
	ops := []txn.Operation{
		txn.Swap{
			PoolId:       req.Pool.PoolId,
			InputAsset:   req.Input,
			OutputAsset:  req.Output,
			AmountIn:     amountIn,
			MinAmountOut: req.AmountOut,
			Deposit:      req.Deposit,
		},
	}
	if req.Withdraw {
		ops = append(ops, txn.Withdraw{ContractId: req.Output, Amount: req.AmountOut})
	}
	return ops
}

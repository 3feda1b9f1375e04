package ledger

import (
	"context"
	"encoding/json"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/pkg/errors"
	"strconv"
)

const (
	viewListingByIndex = "v_sale_listingByIndex"
	viewHasBalance     = "hasBalance"
	viewBalanceOf      = "arc200_balanceOf"
	viewManager        = "manager"
)

type Provider struct {
	rpcClient *rpcClient
}

func NewProvider(rpcClient *rpcClient) *Provider {
	return &Provider{rpcClient: rpcClient}
}

func (p *Provider) SimulateGroup(ctx context.Context, g *txn.Group) (*simulationResult, error) {
	response, err := p.rpcClient.call(ctx, "simulateGroup", g)
	if err != nil {
		return nil, err
	}

	var result simulationResult
	if err := response.ResultAs(&result); err != nil {
		return nil, errors.Wrap(err, "simulateGroup result")
	}

	return &result, nil
}

func (p *Provider) SendRawGroup(ctx context.Context, signed [][]byte) (*Confirmation, error) {
	response, err := p.rpcClient.call(ctx, "sendRawGroup", signed)
	if err != nil {
		return nil, err
	}

	var confirmation Confirmation
	if err := response.ResultAs(&confirmation); err != nil {
		return nil, errors.Wrap(err, "sendRawGroup result")
	}

	return &confirmation, nil
}

func (p *Provider) AccountInformation(ctx context.Context, address string) (*AccountInfo, error) {
	response, err := p.rpcClient.call(ctx, "accountInformation", address)
	if err != nil {
		return nil, err
	}

	var info AccountInfo
	if err := response.ResultAs(&info); err != nil {
		return nil, errors.Wrap(err, "accountInformation result")
	}

	return &info, nil
}

func (p *Provider) CallView(ctx context.Context, appId uint64, method string, args ...interface{}) (*rpcResponse, error) {
	if args == nil {
		args = make([]interface{}, 0)
	}
	return p.rpcClient.call(ctx, "callView", viewCall{appId, method, args})
}

// uintResult accepts numbers encoded as JSON numbers or strings.
func uintResult(response *rpcResponse) (uint64, error) {
	var number json.Number
	if err := json.Unmarshal(response.Result, &number); err == nil {
		return strconv.ParseUint(number.String(), 10, 64)
	}

	var s string
	if err := json.Unmarshal(response.Result, &s); err != nil {
		return 0, errors.Errorf("not a number: %s", string(response.Result))
	}
	return strconv.ParseUint(s, 10, 64)
}

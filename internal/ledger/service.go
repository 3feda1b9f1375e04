package ledger

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Client interface {
	txn.Simulator

	Submit(ctx context.Context, signed [][]byte) (*Confirmation, error)
	AccountInfo(ctx context.Context, address string) (*AccountInfo, error)

	ListingByIndex(ctx context.Context, marketplaceId, listingId uint64) (bool, error)
	HasBalance(ctx context.Context, tokenId uint64, address string) (bool, error)
	BalanceOf(ctx context.Context, tokenId uint64, address string) (uint64, error)
	Manager(ctx context.Context, appId uint64) (string, error)
}

type service struct {
	provider *Provider
}

func NewLedgerService(provider *Provider) Client {
	return service{provider}
}

func (s service) Simulate(ctx context.Context, g *txn.Group) (*txn.Simulation, error) {
	result, err := s.provider.SimulateGroup(ctx, g)
	if err != nil {
		return nil, err
	}

	return &txn.Simulation{
		Success:        result.Success,
		FailureMessage: result.FailureMessage,
		EstimatedFee:   result.EstimatedFee,
		Unsigned:       result.Unsigned,
	}, nil
}

func (s service) Submit(ctx context.Context, signed [][]byte) (*Confirmation, error) {
	if len(signed) == 0 {
		return nil, errors.New("nothing to submit")
	}

	confirmation, err := s.provider.SendRawGroup(ctx, signed)
	if err != nil {
		zap.L().With(zap.Int("txns", len(signed)), zap.Error(err)).Error("Ledger: Failed to submit group")
		return nil, err
	}

	zap.L().With(zap.String("txId", confirmation.TxId), zap.Uint64("round", confirmation.ConfirmedRound)).Info("Ledger: Group confirmed")
	return confirmation, nil
}

func (s service) AccountInfo(ctx context.Context, address string) (*AccountInfo, error) {
	return s.provider.AccountInformation(ctx, address)
}

func (s service) ListingByIndex(ctx context.Context, marketplaceId, listingId uint64) (bool, error) {
	response, err := s.provider.CallView(ctx, marketplaceId, viewListingByIndex, listingId)
	if err != nil {
		return false, err
	}
	if response.IsNull() {
		return false, nil
	}

	var listing listingView
	if err := response.ResultAs(&listing); err != nil {
		return false, errors.Wrap(err, viewListingByIndex)
	}

	return listing.ListingId == listingId, nil
}

func (s service) HasBalance(ctx context.Context, tokenId uint64, address string) (bool, error) {
	response, err := s.provider.CallView(ctx, tokenId, viewHasBalance, address)
	if err != nil {
		return false, err
	}

	var has bool
	if err := response.ResultAs(&has); err != nil {
		return false, errors.Wrap(err, viewHasBalance)
	}
	return has, nil
}

func (s service) BalanceOf(ctx context.Context, tokenId uint64, address string) (uint64, error) {
	response, err := s.provider.CallView(ctx, tokenId, viewBalanceOf, address)
	if err != nil {
		return 0, err
	}

	balance, err := uintResult(response)
	return balance, errors.Wrap(err, viewBalanceOf)
}

func (s service) Manager(ctx context.Context, appId uint64) (string, error) {
	response, err := s.provider.CallView(ctx, appId, viewManager)
	if err != nil {
		return "", err
	}

	var manager string
	if err := response.ResultAs(&manager); err != nil {
		return "", errors.Wrap(err, viewManager)
	}
	return manager, nil
}

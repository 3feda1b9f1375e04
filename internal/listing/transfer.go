package listing

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Transfer moves token to another account and removes the owner's listing
// for it in the same group.
func (m manager) Transfer(ctx context.Context, owner string, token entity.Token, to string, listing *entity.Listing) (*txn.Group, error) {
	fctx := failure.NewContext(failure.TransferAction).WithAsset(token.CollectionId, token.TokenId).WithAddress(owner)
	if !txn.ValidAddress(to) {
		return nil, failure.Validation(fctx, "recipient", "malformed address")
	}
	if to == owner {
		return nil, failure.Validation(fctx, "recipient", "recipient is the owner")
	}

	op := txn.Transfer{CollectionId: token.CollectionId, TokenId: token.TokenId, From: owner, To: to}
	return m.dispose(ctx, fctx, owner, token, op, listing)
}

func (m manager) Burn(ctx context.Context, owner string, token entity.Token, listing *entity.Listing) (*txn.Group, error) {
	fctx := failure.NewContext(failure.BurnAction).WithAsset(token.CollectionId, token.TokenId).WithAddress(owner)

	op := txn.Burn{CollectionId: token.CollectionId, TokenId: token.TokenId}
	return m.dispose(ctx, fctx, owner, token, op, listing)
}

func (m manager) dispose(ctx context.Context, fctx failure.Context, owner string, token entity.Token, op txn.Operation, listing *entity.Listing) (*txn.Group, error) {
	if !txn.ValidAddress(owner) {
		return nil, failure.Validation(fctx, "owner", "malformed address")
	}
	if token.Burned {
		return nil, failure.Validation(fctx, "token", "token is burned")
	}
	if token.Owner != "" && token.Owner != owner {
		return nil, failure.Validation(fctx, "owner", "account does not own the token")
	}

	b := txn.NewBuilder(owner).Add(op)

	if listing != nil && listing.Active() && listing.Seller == owner {
		if listing.Slug() != token.Slug() {
			return nil, failure.Validation(fctx, "listing", "listing is for another token")
		}
		fctx = fctx.WithListing(listing.ListingId)
		b.Add(txn.DeleteListing{MarketplaceId: m.marketplaceId(*listing), ListingId: listing.ListingId}).
			Fee(m.config.TransferFee)
	}

	payment, err := m.collectionBoxPayment(ctx, token.CollectionId)
	if err != nil {
		return nil, err
	}
	b.PaymentAmount(payment)

	g, err := m.composer.Compose(ctx, fctx, b)
	if err != nil {
		return nil, err
	}

	zap.L().With(fctx.Fields()...).With(zap.Uint64("payment", payment)).Info("Listing: Disposal group ready")
	return g, nil
}

// collectionBoxPayment funds a balance box on the collection app when the app
// cannot pay for it from its own available balance.
func (m manager) collectionBoxPayment(ctx context.Context, collectionId uint64) (uint64, error) {
	info, err := m.ledger.AccountInfo(ctx, crypto.GetApplicationAddress(collectionId).String())
	if err != nil {
		return 0, errors.Wrap(err, "collection account")
	}
	if info.Available() < m.config.BalanceBoxCost {
		return m.config.BalanceBoxCost, nil
	}
	return 0, nil
}

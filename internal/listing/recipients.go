package listing

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PrepareTokenRecipients returns one group per payout recipient of a token
// listing that holds no balance of currency yet. Each group opens the balance
// with a zero transfer so later payouts do not fail. Submit them before the
// listing.
func (m manager) PrepareTokenRecipients(ctx context.Context, seller string, token entity.Token, currency uint64) ([]*txn.Group, error) {
	fctx := failure.NewContext(failure.RecipientAction).WithAsset(token.CollectionId, token.TokenId).WithAddress(seller)
	if currency == entity.NativeCurrency {
		return nil, nil
	}
	if !txn.ValidAddress(seller) {
		return nil, failure.Validation(fctx, "seller", "malformed address")
	}

	mpManager, err := m.ledger.Manager(ctx, m.config.MarketplaceId)
	if err != nil {
		return nil, errors.Wrap(err, "marketplace manager")
	}

	candidates := []string{mpManager, seller}
	candidates = append(candidates, m.royalty.Resolve(token.Royalties).Recipients(m.config.NullAddress)...)

	seen := make(map[string]bool)
	groups := make([]*txn.Group, 0)
	for _, recipient := range candidates {
		if recipient == "" || seen[recipient] {
			continue
		}
		seen[recipient] = true

		has, err := m.ledger.HasBalance(ctx, currency, recipient)
		if err != nil {
			return nil, errors.Wrapf(err, "balance of %s", recipient)
		}
		if has {
			continue
		}

		b := txn.NewBuilder(seller).
			Add(txn.TokenTransfer{TokenId: currency, To: recipient, Amount: 0}).
			Fee(txn.MinFee).
			PaymentAmount(m.config.BalanceBoxCost)

		g, err := m.composer.Compose(ctx, fctx.WithAddress(recipient), b)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	zap.L().With(fctx.Fields()...).With(zap.Int("groups", len(groups))).Debug("Listing: Token recipients prepared")
	return groups, nil
}

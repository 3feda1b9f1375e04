package purchase

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/ledger"
	"github.com/NautilusNFTs/nautilus-interface/internal/metrics"
	"github.com/NautilusNFTs/nautilus-interface/internal/swap"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	MarketplaceId   uint64
	WrappedNativeId uint64
	NullAddress     string
	BalanceBoxCost  uint64
	CostFloor       uint64
	GroupSize       int
}

// CurrencyPlan says what the buyer pays with. Held is the asset the buyer
// holds (0 for the native asset). Pool is required when Held is not the
// listing's settlement asset.
type CurrencyPlan struct {
	Held uint64
	Pool *swap.Pool
}

type Orchestrator interface {
	Purchase(ctx context.Context, listing entity.Listing, buyer string, plan CurrencyPlan) (*txn.Group, error)
}

type orchestrator struct {
	ledger   ledger.Client
	composer txn.Composer
	quoter   swap.Quoter
	strategy Strategy
	config   Config
}

// NewOrchestrator returns an orchestrator; quoter may be nil when no swap
// service is available.
func NewOrchestrator(ledger ledger.Client, composer txn.Composer, quoter swap.Quoter, strategy Strategy, config Config) Orchestrator {
	if len(strategy) == 0 {
		strategy = DefaultStrategy()
	}
	return orchestrator{ledger, composer, quoter, strategy, config}
}

// Purchase returns a simulated group that buys listing, trying each attempt
// of the strategy in turn. It never submits.
func (o orchestrator) Purchase(ctx context.Context, listing entity.Listing, buyer string, plan CurrencyPlan) (*txn.Group, error) {
	fctx := failure.NewContext(failure.BuyAction).
		WithAsset(listing.CollectionId, listing.TokenId).
		WithListing(listing.ListingId).
		WithAddress(buyer)

	if err := o.validate(listing, buyer, fctx); err != nil {
		return nil, err
	}

	marketplaceId := listing.MarketplaceId
	if marketplaceId == 0 {
		marketplaceId = o.config.MarketplaceId
	}

	available, err := o.ledger.ListingByIndex(ctx, marketplaceId, listing.ListingId)
	if err != nil {
		return nil, errors.Wrap(err, "listing lookup")
	}
	if !available {
		return nil, failure.Validation(fctx, "listing", "listing no longer available")
	}

	p, payment, err := o.plan(ctx, fctx, marketplaceId, listing, buyer, plan)
	if err != nil {
		return nil, err
	}

	var last error
	for i, attempt := range o.strategy {
		b := txn.NewBuilder(buyer).
			Add(attempt.Operations(p)...).
			PaymentAmount(payment).
			ResourceSharing(txn.MergeSharing).
			MaxSize(o.config.GroupSize)

		g, err := o.composer.Compose(ctx, fctx, b)
		if err == nil {
			if i > 0 {
				metrics.PurchaseFallback()
			}
			zap.L().With(fctx.Fields()...).With(zap.String("mode", string(attempt.Mode))).Info("Purchase: Group ready")
			return g, nil
		}

		var simErr *failure.SimulationFailure
		if !errors.As(err, &simErr) {
			return nil, err
		}
		simErr.Mode = string(attempt.Mode)
		metrics.SimulationFailed(string(fctx.Action), simErr.Mode)
		zap.L().With(fctx.Fields()...).With(zap.String("mode", simErr.Mode), zap.String("reason", simErr.Reason)).Warn("Purchase: Attempt failed")
		last = simErr
	}

	if last == nil {
		last = errors.New("no purchase attempts configured")
	}
	return nil, last
}

func (o orchestrator) validate(listing entity.Listing, buyer string, fctx failure.Context) error {
	if !txn.ValidAddress(buyer) {
		return failure.Validation(fctx, "buyer", "malformed address")
	}
	if !listing.Active() {
		return failure.Validation(fctx, "listing", "listing is not active")
	}
	if listing.Seller == buyer {
		return failure.Validation(fctx, "buyer", "buyer is the seller")
	}
	return nil
}

// plan resolves the settlement path and checks balances. Nothing here
// simulates a group.
func (o orchestrator) plan(ctx context.Context, fctx failure.Context, marketplaceId uint64, listing entity.Listing, buyer string, cp CurrencyPlan) (Plan, uint64, error) {
	p := Plan{
		MarketplaceId: marketplaceId,
		ListingId:     listing.ListingId,
		Currency:      listing.Currency,
		Price:         listing.Price,
		EnsurePayment: o.ensurePayment(listing),
	}

	info, err := o.ledger.AccountInfo(ctx, buyer)
	if err != nil {
		return p, 0, errors.Wrap(err, "buyer account")
	}
	available := info.Available()

	paymentToken := listing.Currency
	if listing.PaysNative() {
		paymentToken = o.config.WrappedNativeId
	}

	var payment uint64
	if listing.PaysNative() {
		payment = listing.Price
	}

	direct := cp.Held == listing.Currency
	if direct {
		if listing.PaysNative() {
			required, err := txn.Sum(listing.Price, o.config.CostFloor)
			if err != nil {
				return p, 0, failure.Validation(fctx, "price", err.Error())
			}
			if available < required {
				return p, 0, failure.Balance(fctx, entity.NativeCurrency, required, available)
			}
			return p, payment, nil
		}

		balance, err := o.ledger.BalanceOf(ctx, listing.Currency, buyer)
		if err != nil {
			return p, 0, errors.Wrap(err, "buyer token balance")
		}
		if balance < listing.Price {
			return p, 0, failure.Balance(fctx, listing.Currency, listing.Price, balance)
		}
		if available < o.config.CostFloor {
			return p, 0, failure.Balance(fctx, entity.NativeCurrency, o.config.CostFloor, available)
		}
		p.Extra = []txn.Operation{o.allowance(marketplaceId, listing)}
		return p, payment, nil
	}

	if cp.Pool == nil || o.quoter == nil {
		return p, 0, failure.Validation(fctx, "currency", "listing currency differs from held asset and no pool was given")
	}
	if available < o.config.CostFloor {
		return p, 0, failure.Balance(fctx, entity.NativeCurrency, o.config.CostFloor, available)
	}

	input := cp.Held
	if input == entity.NativeCurrency {
		input = o.config.WrappedNativeId
	}
	if input == paymentToken {
		return p, 0, failure.Validation(fctx, "currency", "held asset already settles the listing")
	}

	quote, err := o.quoter.Quote(ctx, swap.QuoteRequest{
		Pool:      *cp.Pool,
		Trader:    buyer,
		Input:     input,
		Output:    paymentToken,
		AmountOut: listing.Price,
		Withdraw:  listing.PaysNative(),
		Deposit:   cp.Held == entity.NativeCurrency,
	})
	if err != nil {
		return p, 0, errors.Wrap(err, "swap quote")
	}

	if cp.Held == entity.NativeCurrency {
		required, err := txn.Sum(quote.AmountIn, o.config.CostFloor)
		if err != nil {
			return p, 0, failure.Validation(fctx, "amountIn", err.Error())
		}
		if available < required {
			return p, 0, failure.Balance(fctx, entity.NativeCurrency, required, available)
		}
	} else {
		balance, err := o.ledger.BalanceOf(ctx, cp.Held, buyer)
		if err != nil {
			return p, 0, errors.Wrap(err, "buyer token balance")
		}
		if balance < quote.AmountIn {
			return p, 0, failure.Balance(fctx, cp.Held, quote.AmountIn, balance)
		}
	}

	p.Extra = append(p.Extra, quote.Operations...)
	if !listing.PaysNative() {
		p.Extra = append(p.Extra, o.allowance(marketplaceId, listing))
	}

	return p, payment, nil
}

func (o orchestrator) allowance(marketplaceId uint64, listing entity.Listing) txn.Operation {
	return txn.Approve{
		CollectionId: listing.Currency,
		Spender:      crypto.GetApplicationAddress(marketplaceId).String(),
		Amount:       listing.Price,
	}
}

func (o orchestrator) ensurePayment(listing entity.Listing) uint64 {
	recipients := 1
	if listing.Royalties != nil {
		recipients += len(listing.Royalties.Recipients(o.config.NullAddress))
	}
	return o.config.BalanceBoxCost * uint64(recipients)
}

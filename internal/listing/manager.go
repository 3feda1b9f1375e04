package listing

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/event"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/ledger"
	"github.com/NautilusNFTs/nautilus-interface/internal/royalty"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	MarketplaceId  uint64
	NullAddress    string
	ListingBoxCost uint64
	BalanceBoxCost uint64
	MinAvailable   uint64
	ListFee        uint64
	DeleteFee      uint64
	BulkDeleteFee  uint64
	TransferFee    uint64
	GroupSize      int
	BulkRate       float64
	Optins         map[uint64][]uint64
}

type CreateRequest struct {
	Seller   string
	Token    entity.Token
	Price    uint64
	Currency uint64
	// Prior is the seller's existing listing for the same token, replaced in
	// the same group.
	Prior *entity.Listing
}

type Result struct {
	Group *txn.Group
	NoOp  bool
}

type Manager interface {
	Create(ctx context.Context, req CreateRequest) (*txn.Group, error)
	Update(ctx context.Context, listing entity.Listing, token entity.Token, price, currency uint64) (*txn.Group, error)
	Delete(ctx context.Context, seller string, listing entity.Listing) (Result, error)
	BulkDelete(ctx context.Context, seller string, listings []entity.Listing, submitter ledger.Submitter, progress func(Progress)) (*BulkResult, error)
	PrepareTokenRecipients(ctx context.Context, seller string, token entity.Token, currency uint64) ([]*txn.Group, error)
	Transfer(ctx context.Context, owner string, token entity.Token, to string, listing *entity.Listing) (*txn.Group, error)
	Burn(ctx context.Context, owner string, token entity.Token, listing *entity.Listing) (*txn.Group, error)
}

type manager struct {
	ledger   ledger.Client
	composer txn.Composer
	royalty  royalty.Resolver
	bus      *event.Bus
	config   Config
}

func NewManager(ledger ledger.Client, composer txn.Composer, royalty royalty.Resolver, bus *event.Bus, config Config) Manager {
	if config.GroupSize <= 0 {
		config.GroupSize = txn.DefaultMaxSize
	}
	return manager{ledger, composer, royalty, bus, config}
}

func (m manager) marketplaceAddress() string {
	return crypto.GetApplicationAddress(m.config.MarketplaceId).String()
}

func (m manager) Create(ctx context.Context, req CreateRequest) (*txn.Group, error) {
	action := failure.ListAction
	if req.Prior != nil && req.Prior.Active() {
		action = failure.UpdateAction
	}
	fctx := failure.NewContext(action).WithAsset(req.Token.CollectionId, req.Token.TokenId).WithAddress(req.Seller)

	if err := m.validateCreate(fctx, req); err != nil {
		return nil, err
	}

	royalties := m.royalty.Resolve(req.Token.Royalties)
	creators := [entity.RoyaltySlots]txn.Share{}
	for i, b := range royalties.Beneficiaries {
		creators[i] = txn.Share{Points: b.Points, Address: b.Address}
	}

	ops := []txn.Operation{
		txn.Approve{CollectionId: req.Token.CollectionId, TokenId: req.Token.TokenId, Spender: m.marketplaceAddress()},
	}
	if req.Currency == entity.NativeCurrency {
		ops = append(ops, txn.ListNative{
			MarketplaceId: m.config.MarketplaceId,
			CollectionId:  req.Token.CollectionId,
			TokenId:       req.Token.TokenId,
			Price:         req.Price,
			RoyaltyPoints: royalties.RoyaltyPoints,
			Creators:      creators,
		})
	} else {
		ops = append(ops, txn.ListToken{
			MarketplaceId: m.config.MarketplaceId,
			CollectionId:  req.Token.CollectionId,
			TokenId:       req.Token.TokenId,
			Price:         req.Price,
			Currency:      req.Currency,
			RoyaltyPoints: royalties.RoyaltyPoints,
			Creators:      creators,
		})
	}
	if req.Prior != nil && req.Prior.Active() {
		fctx = fctx.WithListing(req.Prior.ListingId)
		ops = append(ops, txn.DeleteListing{MarketplaceId: m.marketplaceId(*req.Prior), ListingId: req.Prior.ListingId})
	}

	fees, err := txn.Times(m.config.ListFee, len(ops))
	if err != nil {
		return nil, failure.Validation(fctx, "fee", err.Error())
	}
	required, err := txn.Sum(m.config.ListingBoxCost, fees)
	if err != nil {
		return nil, failure.Validation(fctx, "fee", err.Error())
	}
	if required < m.config.MinAvailable {
		required = m.config.MinAvailable
	}
	if err := m.requireAvailable(ctx, fctx, req.Seller, required); err != nil {
		return nil, err
	}

	mpManager, err := m.ledger.Manager(ctx, m.config.MarketplaceId)
	if err != nil {
		return nil, errors.Wrap(err, "marketplace manager")
	}
	if mpManager == "" {
		mpManager = m.config.NullAddress
	}

	b := txn.NewBuilder(req.Seller).
		Add(ops...).
		Fee(m.config.ListFee).
		PaymentAmount(m.config.ListingBoxCost).
		Accounts(mpManager).
		Optins(m.config.Optins[req.Token.CollectionId]...).
		MaxSize(m.config.GroupSize)

	g, err := m.composer.Compose(ctx, fctx, b)
	if err != nil {
		return nil, err
	}

	zap.L().With(fctx.Fields()...).With(zap.Uint64("price", req.Price), zap.Uint64("currency", req.Currency)).Info("Listing: Group ready")
	return g, nil
}

// Update replaces listing with a new price and currency. The new listing and
// the deletion of the old one go in one group, so a failure keeps the old one.
func (m manager) Update(ctx context.Context, listing entity.Listing, token entity.Token, price, currency uint64) (*txn.Group, error) {
	fctx := failure.NewContext(failure.UpdateAction).WithAsset(listing.CollectionId, listing.TokenId).WithListing(listing.ListingId)
	if _, err := entity.CanTransition(listing.State(), entity.UpdateListing); err != nil {
		return nil, failure.Validation(fctx, "listing", err.Error())
	}

	return m.Create(ctx, CreateRequest{
		Seller:   listing.Seller,
		Token:    token,
		Price:    price,
		Currency: currency,
		Prior:    &listing,
	})
}

// Delete removes a listing. Deleting a listing that is already gone is a
// no-op, not an error.
func (m manager) Delete(ctx context.Context, seller string, listing entity.Listing) (Result, error) {
	fctx := failure.NewContext(failure.DeleteAction).
		WithAsset(listing.CollectionId, listing.TokenId).
		WithListing(listing.ListingId).
		WithAddress(seller)

	if !txn.ValidAddress(seller) {
		return Result{}, failure.Validation(fctx, "seller", "malformed address")
	}
	if listing.Seller != seller {
		return Result{}, failure.Validation(fctx, "seller", "listing belongs to another account")
	}

	if !listing.Active() {
		zap.L().With(fctx.Fields()...).Info("Listing: Already removed")
		return Result{NoOp: true}, nil
	}

	exists, err := m.ledger.ListingByIndex(ctx, m.marketplaceId(listing), listing.ListingId)
	if err != nil {
		return Result{}, errors.Wrap(err, "listing lookup")
	}
	if !exists {
		zap.L().With(fctx.Fields()...).Info("Listing: Already removed on chain")
		return Result{NoOp: true}, nil
	}

	b := txn.NewBuilder(seller).
		Add(txn.DeleteListing{MarketplaceId: m.marketplaceId(listing), ListingId: listing.ListingId}).
		Fee(m.config.DeleteFee)

	g, err := m.composer.Compose(ctx, fctx, b)
	if err != nil {
		return Result{}, err
	}

	return Result{Group: g}, nil
}

func (m manager) validateCreate(fctx failure.Context, req CreateRequest) error {
	if !txn.ValidAddress(req.Seller) {
		return failure.Validation(fctx, "seller", "malformed address")
	}
	if req.Token.CollectionId == 0 {
		return failure.Validation(fctx, "token", "missing collection")
	}
	if req.Token.Burned {
		return failure.Validation(fctx, "token", "token is burned")
	}
	if req.Token.Owner != "" && req.Token.Owner != req.Seller {
		return failure.Validation(fctx, "seller", "seller does not own the token")
	}
	if req.Price == 0 {
		return failure.Validation(fctx, "price", "price must be positive")
	}

	state := entity.Unlisted
	transition := entity.CreateListing
	if req.Prior != nil && req.Prior.Active() {
		if req.Prior.Slug() != req.Token.Slug() {
			return failure.Validation(fctx, "prior", "prior listing is for another token")
		}
		if req.Prior.Seller != req.Seller {
			return failure.Validation(fctx, "prior", "prior listing belongs to another account")
		}
		state, transition = entity.Listed, entity.UpdateListing
	}
	if _, err := entity.CanTransition(state, transition); err != nil {
		return failure.Validation(fctx, "listing", err.Error())
	}

	return nil
}

func (m manager) requireAvailable(ctx context.Context, fctx failure.Context, address string, required uint64) error {
	info, err := m.ledger.AccountInfo(ctx, address)
	if err != nil {
		return errors.Wrap(err, "account information")
	}
	if available := info.Available(); available < required {
		return failure.Balance(fctx, entity.NativeCurrency, required, available)
	}
	return nil
}

func (m manager) marketplaceId(l entity.Listing) uint64 {
	if l.MarketplaceId != 0 {
		return l.MarketplaceId
	}
	return m.config.MarketplaceId
}

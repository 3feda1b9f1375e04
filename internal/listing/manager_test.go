package listing

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/event"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/ledger"
	"github.com/NautilusNFTs/nautilus-interface/internal/ledger/ledgertest"
	"github.com/NautilusNFTs/nautilus-interface/internal/royalty"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

const (
	marketplaceId uint64 = 29117863
	collectionId  uint64 = 29088600
	tokenVia      uint64 = 302190
	nullAddress          = "G3MSA75OZEJTCCENOJDLDJK7UD7E2K5DNC7FVHCNOV7E3I4DTXTOWDUIFQ"
)

var (
	seller    = types.Address{1}.String()
	other     = types.Address{2}.String()
	creator   = types.Address{3}.String()
	mpManager = types.Address{4}.String()
)

var config = Config{
	MarketplaceId:  marketplaceId,
	NullAddress:    nullAddress,
	ListingBoxCost: 120500,
	BalanceBoxCost: 28500,
	MinAvailable:   123500,
	ListFee:        2000,
	DeleteFee:      3000,
	BulkDeleteFee:  2000,
	TransferFee:    2000,
	GroupSize:      12,
	Optins: map[uint64][]uint64{
		29088600: {29103397},
		29085927: {33611293},
	},
}

func newManager(l *ledgertest.Ledger, bus *event.Bus) Manager {
	return NewManager(l, txn.NewComposer(l), royalty.NewResolver(9500, nullAddress), bus, config)
}

func token(id uint64) entity.Token {
	return entity.Token{CollectionId: collectionId, TokenId: id, Owner: seller}
}

func royaltyBlob(t *testing.T, total, share uint64) string {
	dist := entity.RoyaltyDistribution{RoyaltyPoints: total}
	dist.Beneficiaries[0] = entity.Beneficiary{Points: share, Address: creator}
	blob, err := royalty.Encode(dist, nullAddress)
	require.NoError(t, err)
	return blob
}

func listing(id, tokenId uint64) entity.Listing {
	return entity.Listing{MarketplaceId: marketplaceId, ListingId: id, CollectionId: collectionId, TokenId: tokenId, Seller: seller, Price: 1000000}
}

func listings(n int) []entity.Listing {
	all := make([]entity.Listing, n)
	for i := range all {
		all[i] = listing(uint64(i+1), uint64(i+100))
	}
	return all
}

func TestCreateNativeListing(t *testing.T) {
	l := ledgertest.New().Fund(seller, 1000000)

	g, err := newManager(l, nil).Create(context.Background(), CreateRequest{Seller: seller, Token: token(7), Price: 1000000})
	require.NoError(t, err)

	assert.Equal(t, []txn.Kind{txn.ApproveKind, txn.ListNativeKind}, g.Kinds())
	assert.Equal(t, crypto.GetApplicationAddress(marketplaceId).String(), g.Operations[0].Operation.(txn.Approve).Spender)
	assert.Equal(t, uint64(4000), g.Fee)
	assert.Equal(t, uint64(120500), g.PaymentAmount)
	assert.Equal(t, []string{nullAddress}, g.Accounts)
	assert.Equal(t, []uint64{29103397}, g.Optins)

	list := g.Operations[1].Operation.(txn.ListNative)
	assert.Equal(t, uint64(0), list.RoyaltyPoints)
	assert.Equal(t, nullAddress, list.Creators[0].Address)
}

func TestCreateUsesMarketplaceManagerAccount(t *testing.T) {
	l := ledgertest.New().Fund(seller, 1000000)
	l.Managers[marketplaceId] = mpManager

	g, err := newManager(l, nil).Create(context.Background(), CreateRequest{Seller: seller, Token: token(7), Price: 10})
	require.NoError(t, err)

	assert.Equal(t, []string{mpManager}, g.Accounts)
}

func TestCreateTokenListingClampsRoyalties(t *testing.T) {
	l := ledgertest.New().Fund(seller, 1000000)
	tok := token(7)
	tok.Royalties = royaltyBlob(t, 10000, 10000)

	g, err := newManager(l, nil).Create(context.Background(), CreateRequest{Seller: seller, Token: tok, Price: 5, Currency: tokenVia})
	require.NoError(t, err)

	list := g.Operations[1].Operation.(txn.ListToken)
	assert.Equal(t, tokenVia, list.Currency)
	assert.Equal(t, uint64(9500), list.RoyaltyPoints)
	assert.Equal(t, uint64(9500), list.Creators[0].Points)
	assert.Equal(t, creator, list.Creators[0].Address)
}

func TestCreateReplacesPriorListingLast(t *testing.T) {
	l := ledgertest.New().Fund(seller, 1000000)
	prior := listing(40, 7)

	g, err := newManager(l, nil).Create(context.Background(), CreateRequest{Seller: seller, Token: token(7), Price: 2000000, Prior: &prior})
	require.NoError(t, err)

	assert.Equal(t, []txn.Kind{txn.ApproveKind, txn.ListNativeKind, txn.DeleteListingKind}, g.Kinds())
	assert.Equal(t, uint64(40), g.Operations[2].Operation.(txn.DeleteListing).ListingId)
}

func TestCreateValidation(t *testing.T) {
	l := ledgertest.New().Fund(seller, 1000000)
	m := newManager(l, nil)
	ctx := context.Background()

	_, err := m.Create(ctx, CreateRequest{Seller: seller, Token: token(7), Price: 0})
	assert.True(t, failure.IsValidation(err))

	_, err = m.Create(ctx, CreateRequest{Seller: other, Token: token(7), Price: 10})
	assert.True(t, failure.IsValidation(err))

	prior := listing(40, 8)
	_, err = m.Create(ctx, CreateRequest{Seller: seller, Token: token(7), Price: 10, Prior: &prior})
	assert.True(t, failure.IsValidation(err))

	_, err = m.Create(ctx, CreateRequest{Seller: "nope", Token: token(7), Price: 10})
	assert.True(t, failure.IsValidation(err))

	assert.Empty(t, l.Simulated)
}

func TestCreateInsufficientBalance(t *testing.T) {
	l := ledgertest.New().Fund(seller, 200000)

	_, err := newManager(l, nil).Create(context.Background(), CreateRequest{Seller: seller, Token: token(7), Price: 10})
	var balanceErr *failure.InsufficientBalance
	require.ErrorAs(t, err, &balanceErr)
	assert.Equal(t, uint64(124500), balanceErr.Required)
	assert.Equal(t, uint64(100000), balanceErr.Available)
	assert.Empty(t, l.Simulated)
}

func TestCreateRejectsOverflowingFees(t *testing.T) {
	l := ledgertest.New().Fund(seller, 1000000)
	cfg := config
	cfg.ListFee = math.MaxUint64 / 2

	_, err := NewManager(l, txn.NewComposer(l), royalty.NewResolver(9500, nullAddress), nil, cfg).
		Create(context.Background(), CreateRequest{Seller: seller, Token: token(7), Price: 10})
	assert.True(t, failure.IsValidation(err))
	assert.Empty(t, l.Simulated)
}

func TestUpdateSoldListing(t *testing.T) {
	l := ledgertest.New().Fund(seller, 1000000)
	sold := listing(40, 7)
	sold.Sold = true

	_, err := newManager(l, nil).Update(context.Background(), sold, token(7), 10, 0)
	assert.True(t, failure.IsValidation(err))
}

func TestUpdate(t *testing.T) {
	l := ledgertest.New().Fund(seller, 1000000)

	g, err := newManager(l, nil).Update(context.Background(), listing(40, 7), token(7), 10, tokenVia)
	require.NoError(t, err)

	assert.Equal(t, []txn.Kind{txn.ApproveKind, txn.ListTokenKind, txn.DeleteListingKind}, g.Kinds())
}

func TestDeleteIsIdempotent(t *testing.T) {
	l := ledgertest.New()
	m := newManager(l, nil)

	deleted := listing(40, 7)
	deleted.Deleted = true
	result, err := m.Delete(context.Background(), seller, deleted)
	require.NoError(t, err)
	assert.True(t, result.NoOp)

	result, err = m.Delete(context.Background(), seller, listing(41, 7))
	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Nil(t, result.Group)
	assert.Empty(t, l.Simulated)
}

func TestDelete(t *testing.T) {
	l := ledgertest.New()
	l.Listings[41] = true

	result, err := newManager(l, nil).Delete(context.Background(), seller, listing(41, 7))
	require.NoError(t, err)

	assert.False(t, result.NoOp)
	assert.Equal(t, []txn.Kind{txn.DeleteListingKind}, result.Group.Kinds())
	assert.Equal(t, uint64(3000), result.Group.Fee)
}

func TestDeleteForeignListing(t *testing.T) {
	l := ledgertest.New()

	_, err := newManager(l, nil).Delete(context.Background(), other, listing(41, 7))
	assert.True(t, failure.IsValidation(err))
}

func TestBulkDeleteChunksAndReportsProgress(t *testing.T) {
	l := ledgertest.New()
	bus := event.NewBus()
	submitted := make([]string, 0)
	bus.AddEventListener(event.GroupSubmittedEvent, func(msg interface{}) {
		submitted = append(submitted, msg.(event.GroupSubmitted).TxId)
	})

	progress := make([]Progress, 0)
	result, err := newManager(l, bus).BulkDelete(context.Background(), seller, listings(26), ledger.NewSubmitter(l, ledgertest.Signer{}), func(p Progress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Completed)
	require.Len(t, l.Simulated, 3)
	assert.Equal(t, 12, l.Simulated[0].Size())
	assert.Equal(t, 12, l.Simulated[1].Size())
	assert.Equal(t, 2, l.Simulated[2].Size())
	assert.Equal(t, txn.MergeSharing, l.Simulated[0].ResourceSharing)

	require.Len(t, progress, 3)
	for i, p := range progress {
		assert.Equal(t, i+1, p.Completed)
		assert.Equal(t, 3, p.Total)
	}
	assert.Equal(t, []uint64{25, 26}, progress[2].ListingIds)
	assert.Equal(t, []string{"TX1", "TX2", "TX3"}, submitted)
}

func TestBulkDeleteGroupCount(t *testing.T) {
	for _, n := range []int{1, 12, 13, 24, 25, 37} {
		l := ledgertest.New()
		result, err := newManager(l, nil).BulkDelete(context.Background(), seller, listings(n), ledger.NewSubmitter(l, ledgertest.Signer{}), nil)
		require.NoError(t, err)
		assert.Equal(t, (n+11)/12, result.Total, "n=%d", n)
		assert.Equal(t, result.Total, l.SubmittedCount())
	}
}

func TestBulkDeletePartialFailure(t *testing.T) {
	l := ledgertest.New()
	l.SubmitErr = func(n int) error {
		if n == 2 {
			return errors.New("rejected by wallet")
		}
		return nil
	}

	result, err := newManager(l, nil).BulkDelete(context.Background(), seller, listings(30), ledger.NewSubmitter(l, ledgertest.Signer{}), nil)

	var partial *failure.PartialBatchFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, 1, partial.Completed)
	assert.Equal(t, 3, partial.Total)
	assert.Contains(t, partial.FirstErr.Error(), "rejected by wallet")
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 1, l.SubmittedCount())
}

func TestBulkDeleteFirstChunkFails(t *testing.T) {
	l := ledgertest.New()
	l.Reject = func(g *txn.Group) string { return "listing missing" }

	_, err := newManager(l, nil).BulkDelete(context.Background(), seller, listings(5), ledger.NewSubmitter(l, ledgertest.Signer{}), nil)
	assert.True(t, failure.IsSimulation(err))
	assert.False(t, failure.IsPartialBatch(err))
}

func TestBulkDeleteSkipsForeignAndInactive(t *testing.T) {
	l := ledgertest.New()
	all := listings(3)
	all[0].Seller = other
	all[1].Deleted = true

	result, err := newManager(l, nil).BulkDelete(context.Background(), seller, all, ledger.NewSubmitter(l, ledgertest.Signer{}), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, l.Simulated[0].Size())
}

func TestBulkDeleteCancelled(t *testing.T) {
	l := ledgertest.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newManager(l, nil).BulkDelete(ctx, seller, listings(3), ledger.NewSubmitter(l, ledgertest.Signer{}), nil)
	assert.Error(t, err)
	assert.Equal(t, 0, l.SubmittedCount())
}

func TestPrepareTokenRecipients(t *testing.T) {
	l := ledgertest.New().SetTokenBalance(tokenVia, seller, 5)
	l.Managers[marketplaceId] = mpManager
	tok := token(7)
	tok.Royalties = royaltyBlob(t, 500, 500)

	groups, err := newManager(l, nil).PrepareTokenRecipients(context.Background(), seller, tok, tokenVia)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	for i, want := range []string{mpManager, creator} {
		transfer := groups[i].Operations[0].Operation.(txn.TokenTransfer)
		assert.Equal(t, want, transfer.To)
		assert.Equal(t, uint64(0), transfer.Amount)
		assert.Equal(t, uint64(28500), groups[i].PaymentAmount)
		assert.Equal(t, uint64(1000), groups[i].Fee)
	}
}

func TestPrepareTokenRecipientsNative(t *testing.T) {
	groups, err := newManager(ledgertest.New(), nil).PrepareTokenRecipients(context.Background(), seller, token(7), 0)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestTransferDeletesOwnListing(t *testing.T) {
	l := ledgertest.New()
	active := listing(40, 7)

	g, err := newManager(l, nil).Transfer(context.Background(), seller, token(7), other, &active)
	require.NoError(t, err)

	assert.Equal(t, []txn.Kind{txn.TransferKind, txn.DeleteListingKind}, g.Kinds())
	assert.Equal(t, uint64(4000), g.Fee)
	assert.Equal(t, uint64(28500), g.PaymentAmount)
}

func TestBurnWithFundedCollection(t *testing.T) {
	l := ledgertest.New().Fund(crypto.GetApplicationAddress(collectionId).String(), 200000)

	g, err := newManager(l, nil).Burn(context.Background(), seller, token(7), nil)
	require.NoError(t, err)

	assert.Equal(t, []txn.Kind{txn.BurnKind}, g.Kinds())
	assert.Equal(t, uint64(1000), g.Fee)
	assert.Equal(t, uint64(0), g.PaymentAmount)
}

func TestTransferValidation(t *testing.T) {
	l := ledgertest.New()
	m := newManager(l, nil)

	_, err := m.Transfer(context.Background(), seller, token(7), seller, nil)
	assert.True(t, failure.IsValidation(err))

	_, err = m.Transfer(context.Background(), other, token(7), creator, nil)
	assert.True(t, failure.IsValidation(err))
}

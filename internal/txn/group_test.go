package txn

import (
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

var (
	seller  = types.Address{1}.String()
	buyer   = types.Address{2}.String()
	manager = types.Address{3}.String()
	creator = types.Address{4}.String()
	null    = "G3MSA75OZEJTCCENOJDLDJK7UD7E2K5DNC7FVHCNOV7E3I4DTXTOWDUIFQ"
)

func creators() [3]Share {
	return [3]Share{{Points: 300, Address: creator}, {Address: null}, {Address: null}}
}

func deletes(n int) []Operation {
	ops := make([]Operation, n)
	for i := range ops {
		ops[i] = DeleteListing{MarketplaceId: 29117863, ListingId: uint64(i + 1)}
	}
	return ops
}

func TestBuildOrdersApprovalsFirstAndDeletionsLast(t *testing.T) {
	ops := []Operation{
		DeleteListing{MarketplaceId: 29117863, ListingId: 9},
		ListNative{MarketplaceId: 29117863, CollectionId: 29088600, TokenId: 5, Price: 1000000, RoyaltyPoints: 500, Creators: creators()},
		Approve{CollectionId: 29088600, TokenId: 5, Spender: manager},
	}

	g, err := Build(seller, ops, Options{Fee: 2000, PaymentAmount: 120500})
	require.NoError(t, err)

	assert.Equal(t, []Kind{ApproveKind, ListNativeKind, DeleteListingKind}, g.Kinds())
	assert.Equal(t, uint64(6000), g.Fee)
	assert.Equal(t, uint64(120500), g.PaymentAmount)
}

func TestBuildPrependsSwaps(t *testing.T) {
	ops := []Operation{
		Buy{MarketplaceId: 29117863, ListingId: 3, Currency: 390001, Price: 10},
		Swap{PoolId: 395553, InputAsset: 302190, OutputAsset: 390001, AmountIn: 12},
		Approve{CollectionId: 302190, Spender: manager},
	}

	g, err := Build(buyer, ops, Options{})
	require.NoError(t, err)

	assert.Equal(t, []Kind{ApproveKind, SwapKind, BuyKind}, g.Kinds())
}

func TestBuildFeeFollowsNestedCalls(t *testing.T) {
	g, err := Build(seller, []Operation{Transfer{CollectionId: 1, TokenId: 1, From: seller, To: buyer}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, MinFee, g.Fee)

	g, err = Build(seller, []Operation{
		Transfer{CollectionId: 1, TokenId: 1, From: seller, To: buyer},
		DeleteListing{MarketplaceId: 2, ListingId: 1},
	}, Options{})
	require.NoError(t, err)
	for _, d := range g.Operations {
		assert.Equal(t, NestedCallFee, d.Fee)
	}
	assert.Equal(t, 2*NestedCallFee, g.Fee)
}

func TestBuildAddsOperationPayments(t *testing.T) {
	g, err := Build(buyer, []Operation{
		Buy{MarketplaceId: 2, ListingId: 1, Price: 10, Ensure: true, EnsurePayment: 57000},
	}, Options{PaymentAmount: 1000})
	require.NoError(t, err)

	assert.Equal(t, uint64(58000), g.PaymentAmount)
	assert.Equal(t, uint64(57000), g.Operations[0].Payment)
}

func TestBuildSwapDepositIsPaid(t *testing.T) {
	g, err := Build(buyer, []Operation{
		Swap{PoolId: 395553, InputAsset: 390001, OutputAsset: 302190, AmountIn: 2000000, MinAmountOut: 1000000, Deposit: true},
		Swap{PoolId: 395553, InputAsset: 302190, OutputAsset: 390001, AmountIn: 5000, MinAmountOut: 1000},
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, uint64(2000000), g.Operations[0].Payment)
	assert.Equal(t, uint64(0), g.Operations[1].Payment)
	assert.Equal(t, uint64(2000000), g.PaymentAmount)
}

func TestBuildRejectsOverflowingPayment(t *testing.T) {
	_, err := Build(buyer, []Operation{
		Buy{MarketplaceId: 2, ListingId: 1, Price: 10, Ensure: true, EnsurePayment: math.MaxUint64},
	}, Options{PaymentAmount: 1})
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestSumAndTimes(t *testing.T) {
	total, err := Sum(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)

	_, err = Sum(math.MaxUint64, 1)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	product, err := Times(2000, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(6000), product)

	_, err = Times(math.MaxUint64/2, 3)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	_, err = Times(1, -1)
	assert.Error(t, err)
}

func TestBuildMergeSharingPoolsReferences(t *testing.T) {
	ops := []Operation{
		ListToken{MarketplaceId: 2, CollectionId: 29088600, TokenId: 1, Price: 5, Currency: 302190, RoyaltyPoints: 300, Creators: creators()},
		Approve{CollectionId: 29088600, TokenId: 1, Spender: manager},
	}

	g, err := Build(seller, ops, Options{Accounts: []string{null}, ResourceSharing: MergeSharing, Optins: []uint64{29103397, 29103397}})
	require.NoError(t, err)

	assert.Equal(t, []string{null, manager, creator}, g.Accounts)
	assert.Equal(t, []uint64{29088600, 302190}, g.Apps)
	assert.Equal(t, []uint64{29103397}, g.Optins)
	for _, d := range g.Operations {
		assert.Empty(t, d.Accounts)
		assert.Empty(t, d.Apps)
	}
}

func TestBuildWithoutSharingKeepsReferencesPerOperation(t *testing.T) {
	g, err := Build(seller, []Operation{Approve{CollectionId: 1, Spender: manager}}, Options{})
	require.NoError(t, err)

	assert.Equal(t, NoSharing, g.ResourceSharing)
	assert.Equal(t, []string{manager}, g.Operations[0].Accounts)
	assert.Empty(t, g.Accounts)
}

func TestBuildRejects(t *testing.T) {
	_, err := Build(seller, nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyGroup)

	_, err = Build(seller, deletes(13), Options{})
	assert.ErrorIs(t, err, ErrGroupTooLarge)

	_, err = Build("not-an-address", deletes(1), Options{})
	assert.Error(t, err)

	_, err = Build(seller, []Operation{ListNative{MarketplaceId: 2, CollectionId: 1, Price: 0, Creators: creators()}}, Options{})
	assert.Error(t, err)

	_, err = Build(seller, []Operation{Swap{PoolId: 1, InputAsset: 5, OutputAsset: 5, AmountIn: 1}}, Options{})
	assert.Error(t, err)
}

func TestChunkNeverExceedsSize(t *testing.T) {
	for _, n := range []int{0, 1, 11, 12, 13, 24, 26, 100} {
		chunks := Chunk(deletes(n), 12)
		assert.Len(t, chunks, (n+11)/12, "n=%d", n)

		total := 0
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 12)
			total += len(c)
		}
		assert.Equal(t, n, total)
	}
}

func TestParticipateKeyLengths(t *testing.T) {
	op := Participate{
		ContractId:    1,
		VoteKey:       make([]byte, 32),
		SelectionKey:  make([]byte, 32),
		StateProofKey: make([]byte, 64),
		VoteFirst:     10,
		VoteLast:      20,
		KeyDilution:   5,
	}
	assert.NoError(t, op.Validate())

	op.StateProofKey = make([]byte, 32)
	assert.Error(t, op.Validate())
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(seller).
		Add(DeleteListing{MarketplaceId: 2, ListingId: 1}).
		Fee(3000).
		Accounts(null).
		ResourceSharing(MergeSharing)

	g, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, uint64(3000), g.Fee)
	assert.Equal(t, []string{null}, g.Accounts)
	assert.Equal(t, seller, b.Sender())
}

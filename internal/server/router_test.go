package server

import (
	"context"
	"encoding/json"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/indexer"
	"github.com/NautilusNFTs/nautilus-interface/internal/staking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeIndexer struct {
	indexer.Service
	listings  []entity.Listing
	positions map[uint64]entity.StakePosition
}

func (f fakeIndexer) Listings(_ context.Context, filter indexer.ListingFilter) ([]entity.Listing, error) {
	var out []entity.Listing
	for _, l := range f.listings {
		if l.CollectionId == filter.CollectionId && (!filter.ActiveOnly || l.Active()) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f fakeIndexer) StakePosition(_ context.Context, contractId uint64) (*entity.StakePosition, error) {
	p, ok := f.positions[contractId]
	if !ok {
		return nil, indexer.ErrPositionNotFound
	}
	return &p, nil
}

var (
	programStart = time.Unix(1729180800, 0).UTC()
	position     = entity.StakePosition{ContractId: 555, Owner: "OWNER", Initial: 1000, Total: 1200, Period: 6, DistributionCount: 12}
)

func testRouter() (http.Handler, staking.Valuator, time.Time) {
	valuator := staking.NewValuator(staking.Schedule{ProgramStart: programStart, MonthSeconds: staking.DefaultMonthSeconds, MonthlyThreshold: staking.DefaultMonthlyThreshold})
	now := programStart.Add(30 * 24 * time.Hour)

	p := position
	idx := fakeIndexer{
		listings: []entity.Listing{
			{MarketplaceId: 1, ListingId: 1, CollectionId: 10, TokenId: 555, Price: 900, Staking: &p},
			{MarketplaceId: 1, ListingId: 2, CollectionId: 10, TokenId: 7, Price: 900},
			{MarketplaceId: 1, ListingId: 3, CollectionId: 10, TokenId: 8, Price: 900, Sold: true},
		},
		positions: map[uint64]entity.StakePosition{
			555: position,
			556: {ContractId: 556, Initial: 100, Total: 50},
		},
	}

	return newRouter(handler{idx, valuator, 1, func() time.Time { return now }}), valuator, now
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _, _ := testRouter()

	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMetrics(t *testing.T) {
	h, _, _ := testRouter()

	rec := get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDiscounts(t *testing.T) {
	h, valuator, now := testRouter()

	rec := get(t, h, "/listings/10/discounts")
	require.Equal(t, http.StatusOK, rec.Code)

	var discounts []ListingDiscount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &discounts))
	require.Len(t, discounts, 2)

	value := valuator.TotalTokens(position, now)
	expected, err := staking.Discount(failure.NewContext(failure.ValuationAction), 900, value)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), discounts[0].ListingId)
	assert.Equal(t, value, discounts[0].Value)
	assert.Equal(t, expected.StringFixed(staking.DiscountPlaces), discounts[0].Discount)
	assert.False(t, discounts[0].Indeterminate)

	assert.Equal(t, uint64(2), discounts[1].ListingId)
	assert.True(t, discounts[1].Indeterminate)
	assert.Empty(t, discounts[1].Discount)
}

func TestValuation(t *testing.T) {
	h, valuator, now := testRouter()

	rec := get(t, h, "/positions/555/valuation")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary staking.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	expected := valuator.Describe(position, now)
	assert.Equal(t, expected.TotalTokens, summary.TotalTokens)
	assert.Equal(t, entity.MonthlySchedule, summary.Schedule)
	assert.Equal(t, "7 mo", summary.Lockup)
}

func TestValuationErrors(t *testing.T) {
	h, _, _ := testRouter()

	assert.Equal(t, http.StatusNotFound, get(t, h, "/positions/999/valuation").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(t, h, "/positions/556/valuation").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/positions/abc/valuation").Code)
}

package entity

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    ListingState
		t       ListingTransition
		to      ListingState
		invalid bool
	}{
		{Unlisted, CreateListing, Listed, false},
		{Listed, UpdateListing, Listed, false},
		{Listed, DeleteListing, Unlisted, false},
		{Listed, SellListing, Unlisted, false},
		{Listed, CreateListing, Listed, true},
		{Unlisted, UpdateListing, Unlisted, true},
		{Unlisted, DeleteListing, Unlisted, true},
	}

	for _, tt := range tests {
		to, err := CanTransition(tt.from, tt.t)
		assert.Equal(t, tt.to, to, "%s from %s", tt.t, tt.from)
		if tt.invalid {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		} else {
			assert.NoError(t, err)
		}
	}
}

func TestListingState(t *testing.T) {
	l := Listing{CollectionId: 10, TokenId: 3, Price: 5}
	assert.Equal(t, Listed, l.State())
	assert.True(t, l.PaysNative())
	assert.Equal(t, l.Slug(), Token{CollectionId: 10, TokenId: 3}.Slug())

	l.Sold = true
	assert.Equal(t, Unlisted, l.State())
}

func TestRoyaltyRecipients(t *testing.T) {
	const null = "NULL"
	d := RoyaltyDistribution{
		RoyaltyPoints: 500,
		Beneficiaries: [RoyaltySlots]Beneficiary{
			{Points: 300, Address: "A"},
			{Points: 0, Address: "B"},
			{Points: 200, Address: null},
		},
	}

	assert.Equal(t, uint64(500), d.SharePoints())
	assert.Equal(t, []string{"A"}, d.Recipients(null))
}

func TestStakePosition(t *testing.T) {
	p := StakePosition{Initial: 100, Total: 120, Withdrawable: 20, Period: 6}
	assert.NoError(t, p.Validate())
	assert.Equal(t, MonthlySchedule, p.Schedule(5))
	assert.Equal(t, YearlySchedule, StakePosition{Period: 5}.Schedule(5))
	assert.Equal(t, uint64(1), p.Installments())

	assert.ErrorIs(t, StakePosition{Initial: 100, Total: 50}.Validate(), ErrStakeTotalBelowInitial)
	assert.ErrorIs(t, StakePosition{Initial: 10, Total: 50, Withdrawable: 60}.Validate(), ErrStakeWithdrawableTooLarge)
}

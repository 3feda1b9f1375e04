package entity

import (
	"errors"
	"fmt"
	"github.com/gosimple/slug"
)

const NativeCurrency uint64 = 0

type ListingState string

const (
	Unlisted ListingState = "unlisted"
	Listed   ListingState = "listed"
)

type ListingTransition string

const (
	CreateListing ListingTransition = "create"
	UpdateListing ListingTransition = "update"
	DeleteListing ListingTransition = "delete"
	SellListing   ListingTransition = "sell"
)

var ErrInvalidTransition = errors.New("invalid listing transition")

type Listing struct {
	MarketplaceId uint64               `json:"marketplaceId"`
	ListingId     uint64               `json:"listingId"`
	CollectionId  uint64               `json:"collectionId"`
	TokenId       uint64               `json:"tokenId"`
	Seller        string               `json:"seller"`
	Price         uint64               `json:"price"`
	Currency      uint64               `json:"currency"`
	CreatedAt     int64                `json:"createdAt"`
	Deleted       bool                 `json:"deleted"`
	Sold          bool                 `json:"sold"`
	Royalties     *RoyaltyDistribution `json:"royalties,omitempty"`
	Staking       *StakePosition       `json:"staking,omitempty"`
}

func (l Listing) Active() bool {
	return !l.Deleted && !l.Sold
}

func (l Listing) PaysNative() bool {
	return l.Currency == NativeCurrency
}

func (l Listing) State() ListingState {
	if l.Active() {
		return Listed
	}
	return Unlisted
}

// Slug keys a listing by its asset; only one active listing may exist per slug.
func (l Listing) Slug() string {
	return CreateListingSlug(l.CollectionId, l.TokenId)
}

func CreateListingSlug(collectionId, tokenId uint64) string {
	return slug.Make(fmt.Sprintf("listing-%d-%d", collectionId, tokenId))
}

// CanTransition returns the state reached by applying t to from.
func CanTransition(from ListingState, t ListingTransition) (ListingState, error) {
	switch {
	case from == Unlisted && t == CreateListing:
		return Listed, nil
	case from == Listed && t == UpdateListing:
		return Listed, nil
	case from == Listed && (t == DeleteListing || t == SellListing):
		return Unlisted, nil
	}

	return from, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, t, from)
}

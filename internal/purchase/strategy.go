package purchase

import (
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
)

type Mode string

const (
	// Optimistic skips the balance allocation steps.
	Optimistic Mode = "skip-ensure"
	// Ensure pays for recipient balance allocations up front.
	Ensure Mode = "ensure"
)

// Attempt is one way of assembling the purchase group.
type Attempt struct {
	Mode       Mode
	Operations func(p Plan) []txn.Operation
}

// Strategy lists attempts in the order they are tried.
type Strategy []Attempt

func DefaultStrategy() Strategy {
	return Strategy{
		{Mode: Optimistic, Operations: buyOperations(false)},
		{Mode: Ensure, Operations: buyOperations(true)},
	}
}

// Plan is everything an attempt needs, resolved before the first attempt.
type Plan struct {
	MarketplaceId uint64
	ListingId     uint64
	Currency      uint64
	Price         uint64
	// Extra runs before the buy call: swaps, unwraps and allowances.
	Extra []txn.Operation
	// EnsurePayment covers balance allocation for the seller and royalty
	// recipients.
	EnsurePayment uint64
}

func buyOperations(ensure bool) func(p Plan) []txn.Operation {
	return func(p Plan) []txn.Operation {
		ops := make([]txn.Operation, 0, len(p.Extra)+1)
		ops = append(ops, p.Extra...)

		buy := txn.Buy{
			MarketplaceId: p.MarketplaceId,
			ListingId:     p.ListingId,
			Currency:      p.Currency,
			Price:         p.Price,
			Ensure:        ensure,
		}
		if ensure {
			buy.EnsurePayment = p.EnsurePayment
		}

		return append(ops, buy)
	}
}

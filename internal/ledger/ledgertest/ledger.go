// Package ledgertest provides an in-memory ledger for tests.
package ledgertest

import (
	"context"
	"fmt"
	"github.com/NautilusNFTs/nautilus-interface/internal/ledger"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"sync"
)

type Ledger struct {
	mu sync.Mutex

	Accounts map[string]ledger.AccountInfo
	Listings map[uint64]bool
	Balances map[uint64]map[string]uint64
	Holders  map[uint64]map[string]bool
	Managers map[uint64]string

	// Reject returns the failure message for a group the ledger should refuse,
	// or an empty string to accept it.
	Reject func(g *txn.Group) string
	// SubmitErr fails the n-th submission (1-based) when it returns an error.
	SubmitErr func(n int) error
	Err       error

	Simulated []*txn.Group
	Submitted [][][]byte
}

func New() *Ledger {
	return &Ledger{
		Accounts: make(map[string]ledger.AccountInfo),
		Listings: make(map[uint64]bool),
		Balances: make(map[uint64]map[string]uint64),
		Holders:  make(map[uint64]map[string]bool),
		Managers: make(map[uint64]string),
	}
}

func (l *Ledger) Fund(address string, amount uint64) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Accounts[address] = ledger.AccountInfo{Address: address, Amount: amount, MinBalance: 100000}
	return l
}

func (l *Ledger) SetTokenBalance(tokenId uint64, address string, amount uint64) *Ledger {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Balances[tokenId] == nil {
		l.Balances[tokenId] = make(map[string]uint64)
	}
	if l.Holders[tokenId] == nil {
		l.Holders[tokenId] = make(map[string]bool)
	}
	l.Balances[tokenId][address] = amount
	l.Holders[tokenId][address] = true
	return l
}

func (l *Ledger) Simulate(_ context.Context, g *txn.Group) (*txn.Simulation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Err != nil {
		return nil, l.Err
	}
	l.Simulated = append(l.Simulated, g)

	if l.Reject != nil {
		if msg := l.Reject(g); msg != "" {
			return &txn.Simulation{Success: false, FailureMessage: msg}, nil
		}
	}

	unsigned := make([][]byte, 0, g.Size()+1)
	if g.PaymentAmount > 0 {
		unsigned = append(unsigned, []byte(fmt.Sprintf("pay:%d", g.PaymentAmount)))
	}
	for _, d := range g.Operations {
		unsigned = append(unsigned, []byte(fmt.Sprintf("%s:%d", d.Kind, d.Operation.AppId())))
	}

	return &txn.Simulation{Success: true, EstimatedFee: g.Fee, Unsigned: unsigned}, nil
}

func (l *Ledger) Submit(_ context.Context, signed [][]byte) (*ledger.Confirmation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.Submitted) + 1
	if l.SubmitErr != nil {
		if err := l.SubmitErr(n); err != nil {
			return nil, err
		}
	}
	l.Submitted = append(l.Submitted, signed)

	return &ledger.Confirmation{TxId: fmt.Sprintf("TX%d", n), ConfirmedRound: uint64(1000 + n)}, nil
}

func (l *Ledger) AccountInfo(_ context.Context, address string) (*ledger.AccountInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.Err != nil {
		return nil, l.Err
	}
	info, ok := l.Accounts[address]
	if !ok {
		return &ledger.AccountInfo{Address: address}, nil
	}
	return &info, nil
}

func (l *Ledger) ListingByIndex(_ context.Context, _ uint64, listingId uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Listings[listingId], l.Err
}

func (l *Ledger) HasBalance(_ context.Context, tokenId uint64, address string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Holders[tokenId][address], l.Err
}

func (l *Ledger) BalanceOf(_ context.Context, tokenId uint64, address string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Balances[tokenId][address], l.Err
}

func (l *Ledger) Manager(_ context.Context, appId uint64) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Managers[appId], l.Err
}

func (l *Ledger) SubmittedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Submitted)
}

// Signer echoes transactions back as signed.
type Signer struct {
	Err error
}

func (s Signer) Sign(_ context.Context, _ string, unsigned [][]byte) ([][]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return unsigned, nil
}

var _ ledger.Client = (*Ledger)(nil)
var _ ledger.Signer = Signer{}

package txn

import (
	"github.com/pkg/errors"
	"sort"
)

type ResourceSharing string

const (
	NoSharing    ResourceSharing = "none"
	MergeSharing ResourceSharing = "merge"
)

const (
	MinFee         uint64 = 1000
	NestedCallFee  uint64 = 2000
	DefaultMaxSize        = 12
)

var (
	ErrEmptyGroup    = errors.New("group has no operations")
	ErrGroupTooLarge = errors.New("group exceeds maximum size")
)

type Options struct {
	// Fee is the flat per-operation fee. Zero picks MinFee, or NestedCallFee
	// when any operation triggers nested calls.
	Fee             uint64          `json:"fee"`
	PaymentAmount   uint64          `json:"paymentAmount"`
	Optins          []uint64        `json:"optins"`
	Accounts        []string        `json:"accounts"`
	ResourceSharing ResourceSharing `json:"resourceSharing"`
	MaxSize         int             `json:"maxSize"`
}

type Descriptor struct {
	Kind      Kind      `json:"kind"`
	Operation Operation `json:"operation"`
	Payment   uint64    `json:"payment"`
	Fee       uint64    `json:"fee"`
	Accounts  []string  `json:"accounts,omitempty"`
	Apps      []uint64  `json:"apps,omitempty"`
}

type Simulation struct {
	Success        bool     `json:"success"`
	FailureMessage string   `json:"failureMessage,omitempty"`
	EstimatedFee   uint64   `json:"estimatedFee"`
	Unsigned       [][]byte `json:"unsigned"`
}

type Group struct {
	Sender          string          `json:"sender"`
	Operations      []Descriptor    `json:"operations"`
	Fee             uint64          `json:"fee"`
	PaymentAmount   uint64          `json:"paymentAmount"`
	Optins          []uint64        `json:"optins"`
	Accounts        []string        `json:"accounts"`
	Apps            []uint64        `json:"apps"`
	ResourceSharing ResourceSharing `json:"resourceSharing"`
	Simulation      *Simulation     `json:"simulation,omitempty"`
}

func (g Group) Size() int {
	return len(g.Operations)
}

func (g Group) Kinds() []Kind {
	kinds := make([]Kind, len(g.Operations))
	for i, d := range g.Operations {
		kinds[i] = d.Kind
	}
	return kinds
}

// Build orders ops, attaches fees and payments and applies the sharing
// strategy. It never produces a group larger than the configured size.
func Build(sender string, ops []Operation, opts Options) (*Group, error) {
	if err := validAddress("sender", sender); err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return nil, ErrEmptyGroup
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(ops) > maxSize {
		return nil, errors.Wrapf(ErrGroupTooLarge, "%d operations, maximum %d", len(ops), maxSize)
	}

	nested := false
	for i, op := range ops {
		if op == nil {
			return nil, errors.Errorf("operation %d is nil", i)
		}
		if err := op.Validate(); err != nil {
			return nil, errors.Wrapf(err, "operation %d", i)
		}
		nested = nested || op.NestedCalls()
	}

	ordered := make([]Operation, len(ops))
	copy(ordered, ops)
	sort.SliceStable(ordered, func(i, j int) bool {
		return rank(ordered[i]) < rank(ordered[j])
	})

	fee := opts.Fee
	if fee == 0 {
		fee = MinFee
		if nested {
			fee = NestedCallFee
		}
	}

	sharing := opts.ResourceSharing
	if sharing == "" {
		sharing = NoSharing
	}

	g := &Group{
		Sender:          sender,
		Operations:      make([]Descriptor, 0, len(ordered)),
		PaymentAmount:   opts.PaymentAmount,
		Optins:          uniqueApps(opts.Optins),
		Accounts:        uniqueAccounts(opts.Accounts),
		Apps:            make([]uint64, 0),
		ResourceSharing: sharing,
	}

	for _, op := range ordered {
		accounts, apps := references(op)
		d := Descriptor{
			Kind:      op.Kind(),
			Operation: op,
			Fee:       fee,
			Accounts:  accounts,
			Apps:      apps,
		}
		if payer, ok := op.(Payer); ok {
			d.Payment = payer.Payment()
		}

		if sharing == MergeSharing {
			g.Accounts = uniqueAccounts(append(g.Accounts, d.Accounts...))
			g.Apps = uniqueApps(append(g.Apps, d.Apps...))
			d.Accounts, d.Apps = nil, nil
		}

		var err error
		if g.Fee, err = Sum(g.Fee, d.Fee); err != nil {
			return nil, errors.Wrap(err, "group fee")
		}
		if g.PaymentAmount, err = Sum(g.PaymentAmount, d.Payment); err != nil {
			return nil, errors.Wrap(err, "group payment")
		}
		g.Operations = append(g.Operations, d)
	}

	return g, nil
}

// Chunk splits ops into consecutive slices of at most size operations.
func Chunk(ops []Operation, size int) [][]Operation {
	if size <= 0 {
		size = DefaultMaxSize
	}

	chunks := make([][]Operation, 0, (len(ops)+size-1)/size)
	for start := 0; start < len(ops); start += size {
		end := start + size
		if end > len(ops) {
			end = len(ops)
		}
		chunks = append(chunks, ops[start:end])
	}
	return chunks
}

// rank places approvals before the swaps and calls that consume them, and
// deletions of prior listings last.
func rank(op Operation) int {
	switch op.(type) {
	case Approve, TransferOwnership:
		return 0
	case Swap:
		return 1
	case DeleteListing:
		return 3
	}
	return 2
}

func references(op Operation) ([]string, []uint64) {
	switch o := op.(type) {
	case Approve:
		return []string{o.Spender}, nil
	case Transfer:
		return []string{o.To}, nil
	case ListNative:
		return creatorAccounts(o.Creators), []uint64{o.CollectionId}
	case ListToken:
		return creatorAccounts(o.Creators), []uint64{o.CollectionId, o.Currency}
	case Swap:
		return nil, uniqueApps([]uint64{o.InputAsset, o.OutputAsset})
	case Buy:
		if o.Currency != 0 {
			return nil, []uint64{o.Currency}
		}
	case Mint:
		if o.Delegate != "" {
			return []string{o.To, o.Delegate}, []uint64{o.TokenId}
		}
		return []string{o.To}, []uint64{o.TokenId}
	case TokenTransfer:
		return []string{o.To}, nil
	case TransferOwnership:
		return []string{o.NewOwner}, nil
	}
	return nil, nil
}

func creatorAccounts(creators [3]Share) []string {
	accounts := make([]string, 0, len(creators))
	for _, c := range creators {
		accounts = append(accounts, c.Address)
	}
	return uniqueAccounts(accounts)
}

func uniqueAccounts(accounts []string) []string {
	seen := make(map[string]bool, len(accounts))
	unique := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		unique = append(unique, a)
	}
	return unique
}

func uniqueApps(apps []uint64) []uint64 {
	seen := make(map[uint64]bool, len(apps))
	unique := make([]uint64, 0, len(apps))
	for _, a := range apps {
		if a == 0 || seen[a] {
			continue
		}
		seen[a] = true
		unique = append(unique, a)
	}
	return unique
}

package position

import (
	"context"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/NautilusNFTs/nautilus-interface/internal/txn"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"go.uber.org/zap"
)

type Config struct {
	MinterAppId     uint64
	MintCost        uint64
	MintFee         uint64
	WithdrawFee     uint64
	BulkFee         uint64
	ParticipateFee  uint64
	ParticipateCost uint64
	ChunkSize       int
}

type Keys struct {
	VoteKey       []byte
	SelectionKey  []byte
	StateProofKey []byte
	VoteFirst     uint64
	VoteLast      uint64
	KeyDilution   uint64
}

type Service interface {
	Withdraw(ctx context.Context, owner string, p entity.StakePosition, amount uint64) (*txn.Group, error)
	WithdrawAll(ctx context.Context, owner string, positions []entity.StakePosition) ([]*txn.Group, error)
	Participate(ctx context.Context, owner string, p entity.StakePosition, keys Keys) (*txn.Group, error)
	MintToken(ctx context.Context, owner string, p entity.StakePosition, delegate string) (*txn.Group, error)
}

type service struct {
	composer txn.Composer
	config   Config
}

func NewPositionService(composer txn.Composer, config Config) Service {
	if config.ChunkSize <= 0 {
		config.ChunkSize = 8
	}
	return service{composer, config}
}

func (s service) Withdraw(ctx context.Context, owner string, p entity.StakePosition, amount uint64) (*txn.Group, error) {
	fctx := actionContext(failure.WithdrawAction, owner, p)
	if err := s.validateOwner(fctx, owner, p); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, failure.Validation(fctx, "amount", "amount must be positive")
	}
	if amount > p.Withdrawable {
		return nil, failure.Balance(fctx, entity.NativeCurrency, amount, p.Withdrawable)
	}

	b := txn.NewBuilder(owner).
		Add(txn.Withdraw{ContractId: p.ContractId, Amount: amount}).
		Fee(s.config.WithdrawFee)

	return s.composer.Compose(ctx, fctx, b)
}

// WithdrawAll withdraws everything available from each position, packing
// positions into groups of the configured chunk size.
func (s service) WithdrawAll(ctx context.Context, owner string, positions []entity.StakePosition) ([]*txn.Group, error) {
	fctx := failure.NewContext(failure.WithdrawAction).WithAddress(owner)
	if !txn.ValidAddress(owner) {
		return nil, failure.Validation(fctx, "owner", "malformed address")
	}

	ops := make([]txn.Operation, 0, len(positions))
	for _, p := range positions {
		if p.Owner != owner || p.Withdrawable == 0 {
			continue
		}
		ops = append(ops, txn.Withdraw{ContractId: p.ContractId, Amount: p.Withdrawable})
	}

	groups := make([]*txn.Group, 0)
	for _, chunk := range txn.Chunk(ops, s.config.ChunkSize) {
		b := txn.NewBuilder(owner).
			Add(chunk...).
			Fee(s.config.BulkFee).
			ResourceSharing(txn.MergeSharing).
			MaxSize(s.config.ChunkSize)

		g, err := s.composer.Compose(ctx, fctx, b)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}

	zap.L().With(fctx.Fields()...).With(zap.Int("positions", len(ops)), zap.Int("groups", len(groups))).Info("Position: Withdraw all prepared")
	return groups, nil
}

func (s service) Participate(ctx context.Context, owner string, p entity.StakePosition, keys Keys) (*txn.Group, error) {
	fctx := actionContext(failure.ParticipateAction, owner, p)
	if err := s.validateOwner(fctx, owner, p); err != nil {
		return nil, err
	}

	op := txn.Participate{
		ContractId:       p.ContractId,
		VoteKey:          keys.VoteKey,
		SelectionKey:     keys.SelectionKey,
		StateProofKey:    keys.StateProofKey,
		VoteFirst:        keys.VoteFirst,
		VoteLast:         keys.VoteLast,
		KeyDilution:      keys.KeyDilution,
		ParticipationFee: s.config.ParticipateCost,
	}
	if err := op.Validate(); err != nil {
		return nil, failure.Validation(fctx, "keys", err.Error())
	}

	b := txn.NewBuilder(owner).
		Add(op).
		Fee(s.config.ParticipateFee)

	return s.composer.Compose(ctx, fctx, b)
}

// MintToken hands the position to the minter and mints a token representing
// it to the owner.
func (s service) MintToken(ctx context.Context, owner string, p entity.StakePosition, delegate string) (*txn.Group, error) {
	fctx := actionContext(failure.MintAction, owner, p)
	if err := s.validateOwner(fctx, owner, p); err != nil {
		return nil, err
	}
	if s.config.MinterAppId == 0 {
		return nil, failure.Validation(fctx, "minter", "minter app not configured")
	}
	if delegate != "" && !txn.ValidAddress(delegate) {
		return nil, failure.Validation(fctx, "delegate", "malformed address")
	}

	b := txn.NewBuilder(owner).
		Add(
			txn.TransferOwnership{ContractId: p.ContractId, NewOwner: crypto.GetApplicationAddress(s.config.MinterAppId).String()},
			txn.Mint{MinterId: s.config.MinterAppId, To: owner, TokenId: p.ContractId, Delegate: delegate, MintPayment: s.config.MintCost},
		).
		Fee(s.config.MintFee).
		ResourceSharing(txn.MergeSharing)

	return s.composer.Compose(ctx, fctx, b)
}

func (s service) validateOwner(fctx failure.Context, owner string, p entity.StakePosition) error {
	if !txn.ValidAddress(owner) {
		return failure.Validation(fctx, "owner", "malformed address")
	}
	if p.Owner != owner {
		return failure.Validation(fctx, "owner", "position belongs to another account")
	}
	if err := p.Validate(); err != nil {
		return failure.Validation(fctx, "position", err.Error())
	}
	return nil
}

func actionContext(action failure.Action, owner string, p entity.StakePosition) failure.Context {
	return failure.NewContext(action).WithAsset(p.ContractId, 0).WithAddress(owner)
}

package failure

import (
	"fmt"
	"github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Action string

const (
	ListAction        Action = "list"
	UpdateAction      Action = "update"
	DeleteAction      Action = "delete"
	BulkDeleteAction  Action = "bulk-delete"
	BuyAction         Action = "buy"
	TransferAction    Action = "transfer"
	BurnAction        Action = "burn"
	RecipientAction   Action = "setup-recipient"
	WithdrawAction    Action = "withdraw"
	ParticipateAction Action = "participate"
	MintAction        Action = "mint"
	ValuationAction   Action = "valuation"
)

// Context identifies the action an error belongs to.
type Context struct {
	Id           string `json:"id"`
	Action       Action `json:"action"`
	CollectionId uint64 `json:"collectionId,omitempty"`
	TokenId      uint64 `json:"tokenId,omitempty"`
	ListingId    uint64 `json:"listingId,omitempty"`
	Address      string `json:"address,omitempty"`
}

func NewContext(action Action) Context {
	ctx := Context{Action: action}
	if u, err := uuid.NewV4(); err == nil {
		ctx.Id = u.String()
	}
	return ctx
}

func (c Context) WithAsset(collectionId, tokenId uint64) Context {
	c.CollectionId = collectionId
	c.TokenId = tokenId
	return c
}

func (c Context) WithListing(listingId uint64) Context {
	c.ListingId = listingId
	return c
}

func (c Context) WithAddress(address string) Context {
	c.Address = address
	return c
}

func (c Context) Fields() []zap.Field {
	fields := []zap.Field{zap.String("action", string(c.Action))}
	if c.Id != "" {
		fields = append(fields, zap.String("actionId", c.Id))
	}
	if c.CollectionId != 0 {
		fields = append(fields, zap.Uint64("collectionId", c.CollectionId), zap.Uint64("tokenId", c.TokenId))
	}
	if c.ListingId != 0 {
		fields = append(fields, zap.Uint64("listingId", c.ListingId))
	}
	if c.Address != "" {
		fields = append(fields, zap.String("address", c.Address))
	}
	return fields
}

func (c Context) String() string {
	s := string(c.Action)
	if c.CollectionId != 0 {
		s += fmt.Sprintf(" %d/%d", c.CollectionId, c.TokenId)
	}
	if c.ListingId != 0 {
		s += fmt.Sprintf(" listing %d", c.ListingId)
	}
	return s
}

type ValidationError struct {
	Context
	Field  string
	Reason string
}

func Validation(ctx Context, field, reason string) *ValidationError {
	return &ValidationError{Context: ctx, Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Context, e.Field, e.Reason)
}

type SimulationFailure struct {
	Context
	Mode   string
	Reason string
}

func Simulation(ctx Context, mode, reason string) *SimulationFailure {
	return &SimulationFailure{Context: ctx, Mode: mode, Reason: reason}
}

func (e *SimulationFailure) Error() string {
	if e.Mode != "" {
		return fmt.Sprintf("%s: simulation failed (%s): %s", e.Context, e.Mode, e.Reason)
	}
	return fmt.Sprintf("%s: simulation failed: %s", e.Context, e.Reason)
}

type InsufficientBalance struct {
	Context
	Asset     uint64
	Required  uint64
	Available uint64
}

func Balance(ctx Context, asset, required, available uint64) *InsufficientBalance {
	return &InsufficientBalance{Context: ctx, Asset: asset, Required: required, Available: available}
}

func (e *InsufficientBalance) Error() string {
	return fmt.Sprintf("%s: insufficient balance of asset %d: required %d, available %d", e.Context, e.Asset, e.Required, e.Available)
}

type PartialBatchFailure struct {
	Context
	Completed int
	Total     int
	FirstErr  error
}

func PartialBatch(ctx Context, completed, total int, err error) *PartialBatchFailure {
	return &PartialBatchFailure{Context: ctx, Completed: completed, Total: total, FirstErr: err}
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("%s: %d of %d groups submitted: %v", e.Context, e.Completed, e.Total, e.FirstErr)
}

func (e *PartialBatchFailure) Unwrap() error {
	return e.FirstErr
}

type IndeterminateValuation struct {
	Context
	Reason string
}

func Indeterminate(ctx Context, reason string) *IndeterminateValuation {
	return &IndeterminateValuation{Context: ctx, Reason: reason}
}

func (e *IndeterminateValuation) Error() string {
	return fmt.Sprintf("%s: indeterminate valuation: %s", e.Context, e.Reason)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsSimulation(err error) bool {
	var target *SimulationFailure
	return errors.As(err, &target)
}

func IsInsufficientBalance(err error) bool {
	var target *InsufficientBalance
	return errors.As(err, &target)
}

func IsPartialBatch(err error) bool {
	var target *PartialBatchFailure
	return errors.As(err, &target)
}

func IsIndeterminate(err error) bool {
	var target *IndeterminateValuation
	return errors.As(err, &target)
}

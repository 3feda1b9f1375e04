package staking

import (
	"fmt"
	"github.com/NautilusNFTs/nautilus-interface/internal/entity"
	"github.com/NautilusNFTs/nautilus-interface/internal/failure"
	"github.com/shopspring/decimal"
	"math/big"
	"time"
)

const (
	DefaultMonthSeconds     int64  = 2630000
	DefaultMonthlyThreshold uint64 = 5
	DiscountPlaces          int32  = 2
)

var (
	hundred      = decimal.NewFromInt(100)
	smallestStep = decimal.New(1, -DiscountPlaces)
)

type Schedule struct {
	ProgramStart     time.Time
	MonthSeconds     int64
	MonthlyThreshold uint64
}

func (s Schedule) month() time.Duration {
	seconds := s.MonthSeconds
	if seconds <= 0 {
		seconds = DefaultMonthSeconds
	}
	return time.Duration(seconds) * time.Second
}

type Summary struct {
	ContractId   uint64          `json:"contractId"`
	Schedule     entity.Schedule `json:"schedule"`
	Lockup       string          `json:"lockup"`
	Vesting      string          `json:"vesting"`
	UnlockTime   time.Time       `json:"unlockTime"`
	Elapsed      uint64          `json:"elapsed"`
	Installments uint64          `json:"installments"`
	TotalTokens  uint64          `json:"totalTokens"`
}

type Valuator interface {
	UnlockTime(p entity.StakePosition, at time.Time) time.Time
	ElapsedDistributions(p entity.StakePosition, at time.Time) uint64
	TotalTokensAfter(p entity.StakePosition, elapsed uint64) uint64
	TotalTokens(p entity.StakePosition, at time.Time) uint64
	ListingDiscount(l entity.Listing, at time.Time) (decimal.Decimal, error)
	Describe(p entity.StakePosition, at time.Time) Summary
}

type valuator struct {
	schedule Schedule
}

func NewValuator(schedule Schedule) Valuator {
	return valuator{schedule}
}

func (v valuator) monthly(p entity.StakePosition) bool {
	return p.Schedule(v.schedule.MonthlyThreshold) == entity.MonthlySchedule
}

// lockupEnd is fixed by the lockup period and the program start.
func (v valuator) lockupEnd(p entity.StakePosition) time.Time {
	month := v.schedule.month()
	if v.monthly(p) {
		return v.schedule.ProgramStart.Add(time.Duration(p.Period+1) * month)
	}
	return v.schedule.ProgramStart.Add(time.Duration(p.Period) * 12 * month)
}

func (v valuator) UnlockTime(p entity.StakePosition, at time.Time) time.Time {
	end := v.lockupEnd(p)
	if !v.monthly(p) {
		return end
	}

	next := v.ElapsedDistributions(p, at)
	if next >= p.Installments() {
		next = p.Installments() - 1
	}
	return end.Add(time.Duration(next) * v.schedule.month())
}

func (v valuator) ElapsedDistributions(p entity.StakePosition, at time.Time) uint64 {
	end := v.lockupEnd(p)
	if at.Before(end) {
		return 0
	}
	if !v.monthly(p) {
		return p.Installments()
	}

	elapsed := uint64(at.Sub(end)/v.schedule.month()) + 1
	if elapsed > p.Installments() {
		return p.Installments()
	}
	return elapsed
}

func (v valuator) TotalTokensAfter(p entity.StakePosition, elapsed uint64) uint64 {
	if !v.monthly(p) || p.Total <= p.Initial {
		return p.Total
	}

	installments := p.Installments()
	if elapsed >= installments {
		return p.Total
	}

	accrued := new(big.Int).SetUint64(p.Total - p.Initial)
	accrued.Mul(accrued, new(big.Int).SetUint64(elapsed))
	accrued.Quo(accrued, new(big.Int).SetUint64(installments))

	total := p.Initial + accrued.Uint64()
	if total > p.Total {
		return p.Total
	}
	return total
}

func (v valuator) TotalTokens(p entity.StakePosition, at time.Time) uint64 {
	return v.TotalTokensAfter(p, v.ElapsedDistributions(p, at))
}

func (v valuator) ListingDiscount(l entity.Listing, at time.Time) (decimal.Decimal, error) {
	ctx := failure.NewContext(failure.ValuationAction).WithAsset(l.CollectionId, l.TokenId).WithListing(l.ListingId)
	if l.Staking == nil {
		return decimal.Zero, failure.Indeterminate(ctx, "listing has no stake position")
	}

	return Discount(ctx, l.Price, v.TotalTokens(*l.Staking, at))
}

func (v valuator) Describe(p entity.StakePosition, at time.Time) Summary {
	summary := Summary{
		ContractId:   p.ContractId,
		Schedule:     p.Schedule(v.schedule.MonthlyThreshold),
		UnlockTime:   v.UnlockTime(p, at),
		Elapsed:      v.ElapsedDistributions(p, at),
		Installments: p.Installments(),
		TotalTokens:  v.TotalTokens(p, at),
	}
	if v.monthly(p) {
		summary.Lockup = fmt.Sprintf("%d mo", p.Period+1)
		summary.Vesting = fmt.Sprintf("%d mo", p.Installments())
	} else {
		summary.Lockup = fmt.Sprintf("%d yrs", p.Period)
		summary.Vesting = "12 yrs"
	}
	return summary
}

// Discount is (value - price) / value * 100 rounded to two places, negative
// when the price is above the stake value.
func Discount(ctx failure.Context, price, value uint64) (decimal.Decimal, error) {
	if value == 0 {
		return decimal.Zero, failure.Indeterminate(ctx, "stake value is zero")
	}

	stake := decimal.NewFromBigInt(new(big.Int).SetUint64(value), 0)
	asked := decimal.NewFromBigInt(new(big.Int).SetUint64(price), 0)

	raw := stake.Sub(asked).Mul(hundred).Div(stake)
	rounded := raw.Round(DiscountPlaces)
	// A nonzero difference never rounds to zero, so the sign always follows
	// price against value.
	if rounded.IsZero() && !raw.IsZero() {
		return smallestStep.Mul(decimal.NewFromInt(int64(raw.Sign()))), nil
	}
	return rounded, nil
}

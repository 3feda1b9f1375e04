package entity

import "errors"

type Schedule string

const (
	MonthlySchedule Schedule = "monthly"
	YearlySchedule  Schedule = "yearly"
)

var (
	ErrStakeTotalBelowInitial    = errors.New("stake total below initial amount")
	ErrStakeWithdrawableTooLarge = errors.New("stake withdrawable above total")
)

type StakePosition struct {
	ContractId          uint64 `json:"contractId"`
	ParentId            uint64 `json:"parentId"`
	Owner               string `json:"owner"`
	Delegate            string `json:"delegate"`
	Initial             uint64 `json:"initial"`
	Total               uint64 `json:"total"`
	Period              uint64 `json:"period"`
	DistributionCount   uint64 `json:"distributionCount"`
	Withdrawable        uint64 `json:"withdrawable"`
	ParticipationExpiry uint64 `json:"participationExpiry,omitempty"`
}

func (p StakePosition) Validate() error {
	if p.Total < p.Initial {
		return ErrStakeTotalBelowInitial
	}
	if p.Withdrawable > p.Total {
		return ErrStakeWithdrawableTooLarge
	}
	return nil
}

func (p StakePosition) Schedule(monthlyThreshold uint64) Schedule {
	if p.Period > monthlyThreshold {
		return MonthlySchedule
	}
	return YearlySchedule
}

// Installments is the number of vesting distributions, at least one.
func (p StakePosition) Installments() uint64 {
	if p.DistributionCount == 0 {
		return 1
	}
	return p.DistributionCount
}

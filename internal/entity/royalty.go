package entity

const (
	MaxRoyaltyPoints uint64 = 10000
	RoyaltySlots            = 3
)

type Beneficiary struct {
	Points  uint64 `json:"points"`
	Address string `json:"address"`
}

type RoyaltyDistribution struct {
	RoyaltyPoints uint64                    `json:"royaltyPoints"`
	Beneficiaries [RoyaltySlots]Beneficiary `json:"beneficiaries"`
}

func (r RoyaltyDistribution) SharePoints() uint64 {
	var total uint64
	for _, b := range r.Beneficiaries {
		total += b.Points
	}
	return total
}

// Recipients returns the beneficiaries with a share, skipping the null address.
func (r RoyaltyDistribution) Recipients(nullAddress string) []string {
	recipients := make([]string, 0, RoyaltySlots)
	for _, b := range r.Beneficiaries {
		if b.Points == 0 || b.Address == "" || b.Address == nullAddress {
			continue
		}
		recipients = append(recipients, b.Address)
	}
	return recipients
}

package types

import (
	"fmt"
)

// Params defines rental treasury configuration.
type Params struct {
	// Denom is the native-value denom escrowed for rentals.
	Denom string `json:"denom" yaml:"denom"`
	// RevenueSharePercent of each withdrawal is diverted to the
	// revenue-share recipient instead of the lender.
	RevenueSharePercent uint32 `json:"revenue_share_percent" yaml:"revenue_share_percent"`
	// SystemAccount may activate rentals and raise disputes. Empty restricts
	// those operations to the authority.
	SystemAccount string `json:"system_account" yaml:"system_account"`
	// RevenueShareRecipient receives the revenue share, typically the staking
	// pool's module account. Withdrawals fail while it is unset.
	RevenueShareRecipient string `json:"revenue_share_recipient" yaml:"revenue_share_recipient"`
	Paused                bool   `json:"paused" yaml:"paused"`
}

func DefaultParams() Params {
	return Params{
		Denom:               "unode",
		RevenueSharePercent: 20,
	}
}

// Validate checks param bounds.
func (p Params) Validate() error {
	if p.Denom == "" {
		return fmt.Errorf("denom cannot be empty")
	}
	if p.RevenueSharePercent > 100 {
		return fmt.Errorf("revenue_share_percent cannot exceed 100")
	}
	return nil
}

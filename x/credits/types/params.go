package types

import (
	"fmt"

	math "cosmossdk.io/math"
)

// Params defines credits ledger configuration.
type Params struct {
	// Denom is the native-value denom accepted for deposits.
	Denom string `json:"denom" yaml:"denom"`
	// ExchangeRate is the number of credits minted per unit of deposited value.
	ExchangeRate math.Int `json:"exchange_rate" yaml:"exchange_rate"`
	// SystemAccount is the only principal allowed to reserve credits and
	// transfer from reserves. Empty disables those operations.
	SystemAccount string `json:"system_account" yaml:"system_account"`
}

func DefaultParams() Params {
	return Params{
		Denom:        "unode",
		ExchangeRate: math.NewInt(100_000),
	}
}

// Validate checks param bounds.
func (p Params) Validate() error {
	if p.Denom == "" {
		return fmt.Errorf("denom cannot be empty")
	}
	if p.ExchangeRate.IsNil() || !p.ExchangeRate.IsPositive() {
		return fmt.Errorf("exchange_rate must be positive")
	}
	return nil
}

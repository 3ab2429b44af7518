package types

import (
	"fmt"

	math "cosmossdk.io/math"
)

// GenesisRental pairs a rental id with its record for genesis import/export.
type GenesisRental struct {
	Id     string `json:"id"`
	Rental Rental `json:"rental"`
}

// GenesisState defines the treasury module's genesis state.
type GenesisState struct {
	Params             Params          `json:"params"`
	Rentals            []GenesisRental `json:"rentals,omitempty"`
	TotalRevenueShared math.Int        `json:"total_revenue_shared"`
}

func DefaultGenesis() GenesisState {
	return GenesisState{
		Params:             DefaultParams(),
		TotalRevenueShared: math.ZeroInt(),
	}
}

func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	if gs.TotalRevenueShared.IsNil() || gs.TotalRevenueShared.IsNegative() {
		return fmt.Errorf("total_revenue_shared must be non-negative")
	}
	seen := make(map[string]struct{}, len(gs.Rentals))
	for i, r := range gs.Rentals {
		if r.Id == "" {
			return fmt.Errorf("rental %d: id cannot be empty", i)
		}
		if _, ok := seen[r.Id]; ok {
			return fmt.Errorf("rental %d: duplicate id %q", i, r.Id)
		}
		seen[r.Id] = struct{}{}
		if r.Rental.Renter == "" {
			return fmt.Errorf("rental %q: renter cannot be empty", r.Id)
		}
		if r.Rental.PendingAmount.IsNil() || r.Rental.PendingAmount.IsNegative() {
			return fmt.Errorf("rental %q: pending amount must be non-negative", r.Id)
		}
		if r.Rental.PendingDisputeAmount.IsNil() || r.Rental.PendingDisputeAmount.IsNegative() {
			return fmt.Errorf("rental %q: pending dispute amount must be non-negative", r.Id)
		}
		if r.Rental.PendingAmount.Add(r.Rental.PendingDisputeAmount).GT(r.Rental.TotalAmount) {
			return fmt.Errorf("rental %q: pending amounts exceed total", r.Id)
		}
	}
	return nil
}

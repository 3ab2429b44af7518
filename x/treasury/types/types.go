package types

import (
	math "cosmossdk.io/math"
)

// Rental is an escrow record for one node rental, keyed by a caller-chosen
// unique id. A rental is created inactive by a renter's deposit and becomes
// active once the backend assigns the lender. PendingAmount +
// PendingDisputeAmount never exceeds TotalAmount.
type Rental struct {
	Renter string `json:"renter"`
	Lender string `json:"lender,omitempty"`
	// PendingAmount is the escrowed value not yet withdrawn or disputed.
	PendingAmount math.Int `json:"pending_amount"`
	TotalAmount   math.Int `json:"total_amount"`
	// PendingDisputeAmount is refundable to the renter on claim.
	PendingDisputeAmount math.Int `json:"pending_dispute_amount"`
	TotalDisputeAmount   math.Int `json:"total_dispute_amount"`
	StartTime            int64    `json:"start_time"`
	// EndTime of 0 denotes an open-ended rental withdrawable on demand.
	EndTime int64 `json:"end_time"`
	Ended   bool  `json:"ended"`
	Active  bool  `json:"active"`
}

// NewRental returns the inactive record created by a deposit.
func NewRental(renter string, value math.Int) Rental {
	return Rental{
		Renter:               renter,
		PendingAmount:        value,
		TotalAmount:          value,
		PendingDisputeAmount: math.ZeroInt(),
		TotalDisputeAmount:   math.ZeroInt(),
	}
}

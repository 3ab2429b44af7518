package types

import (
	math "cosmossdk.io/math"
)

// StakeEntry is one deposit of stake tokens by a wallet. Entries are appended
// to the owner's sequence and addressed by a stable index; an exhausted entry
// keeps its slot with a zero amount.
type StakeEntry struct {
	Owner     string   `json:"owner"`
	Amount    math.Int `json:"amount"`
	StartTime int64    `json:"start_time"`
	// LastClaim is the checkpoint of the most recent reward claim. Reward
	// accrual for the entry is computed over (LastClaim, StartTime+period]
	// so a fully claimed entry never pays twice against a refilled pot.
	LastClaim int64 `json:"last_claim"`
}

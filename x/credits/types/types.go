package types

import (
	math "cosmossdk.io/math"
)

// Account is a stored-value account. Reserved never exceeds Balance; the
// difference is the amount available for withdrawal.
type Account struct {
	Balance  math.Int `json:"balance"`
	Reserved math.Int `json:"reserved"`
}

// NewAccount returns a zeroed account.
func NewAccount() Account {
	return Account{Balance: math.ZeroInt(), Reserved: math.ZeroInt()}
}

// Available returns Balance - Reserved.
func (a Account) Available() math.Int {
	return a.Balance.Sub(a.Reserved)
}

package types

import (
	"fmt"

	math "cosmossdk.io/math"
)

// Params defines stakepool configuration. All fields are authority-mutable.
type Params struct {
	// StakeDenom is the token accepted by the pool.
	StakeDenom string `json:"stake_denom" yaml:"stake_denom"`
	// RewardDenom is the native-value denom paid out as rewards.
	RewardDenom string `json:"reward_denom" yaml:"reward_denom"`
	// MaxPerWallet caps the cumulative stake of a single wallet.
	MaxPerWallet math.Int `json:"max_per_wallet" yaml:"max_per_wallet"`
	// MaxTotalStaked caps the pool-wide total.
	MaxTotalStaked math.Int `json:"max_total_staked" yaml:"max_total_staked"`
	// StakingPeriodSeconds is the lock duration of every stake entry.
	StakingPeriodSeconds int64 `json:"staking_period_seconds" yaml:"staking_period_seconds"`
	// EarlyUnstakePenaltyPercent is the penalty charged at elapsed = 0,
	// decaying linearly to zero over the staking period.
	EarlyUnstakePenaltyPercent uint32 `json:"early_unstake_penalty_percent" yaml:"early_unstake_penalty_percent"`
	// DeadWallet receives early-unstake penalties.
	DeadWallet string `json:"dead_wallet" yaml:"dead_wallet"`
	// Paused rejects new stakes when true.
	Paused bool `json:"paused" yaml:"paused"`
}

// DefaultParams returns the limits the pool launched with: 50k GPU tokens per
// wallet, a 5M pool cap and a 30 day lock with a 50% full penalty.
func DefaultParams() Params {
	return Params{
		StakeDenom:                 "ugpu",
		RewardDenom:                "unode",
		MaxPerWallet:               math.NewInt(50_000_000_000),
		MaxTotalStaked:             math.NewInt(5_000_000_000_000),
		StakingPeriodSeconds:       30 * 24 * 60 * 60,
		EarlyUnstakePenaltyPercent: 50,
		DeadWallet:                 "",
		Paused:                     false,
	}
}

// Validate checks param bounds.
func (p Params) Validate() error {
	if p.StakeDenom == "" {
		return fmt.Errorf("stake_denom cannot be empty")
	}
	if p.RewardDenom == "" {
		return fmt.Errorf("reward_denom cannot be empty")
	}
	if p.MaxPerWallet.IsNil() || p.MaxPerWallet.IsNegative() {
		return fmt.Errorf("max_per_wallet must be non-negative")
	}
	if p.MaxTotalStaked.IsNil() || p.MaxTotalStaked.IsNegative() {
		return fmt.Errorf("max_total_staked must be non-negative")
	}
	if p.StakingPeriodSeconds <= 0 {
		return fmt.Errorf("staking_period_seconds must be positive")
	}
	if p.EarlyUnstakePenaltyPercent > 100 {
		return fmt.Errorf("early_unstake_penalty_percent cannot exceed 100")
	}
	return nil
}

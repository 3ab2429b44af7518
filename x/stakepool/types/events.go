package types

const (
	EventStaked        = "stakepool.staked"
	EventUnstaked      = "stakepool.unstaked"
	EventRewardPaid    = "stakepool.reward_paid"
	EventRewardsFunded = "stakepool.rewards_funded"
	EventMigrated      = "stakepool.migrated"
)

const (
	AttrOwner     = "owner"
	AttrAmount    = "amount"
	AttrIndex     = "index"
	AttrPenalty   = "penalty"
	AttrReward    = "reward"
	AttrRecipient = "recipient"
)

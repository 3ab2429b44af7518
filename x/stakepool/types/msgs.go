package types

import (
	"context"
)

// Amounts are carried as decimal strings and parsed with math.NewIntFromString
// so messages survive JSON encoding without precision loss.

type MsgStake struct {
	Creator string `json:"creator"`
	Amount  string `json:"amount"`
}

type MsgStakeResponse struct {
	Index        uint64 `json:"index"`
	WalletStaked string `json:"wallet_staked"`
}

type MsgUnstake struct {
	Creator string `json:"creator"`
	Index   uint64 `json:"index"`
	Amount  string `json:"amount"`
}

type MsgUnstakeResponse struct {
	RemainingStake string `json:"remaining_stake"`
}

type MsgEarlyUnstake struct {
	Creator string `json:"creator"`
	Index   uint64 `json:"index"`
	Amount  string `json:"amount"`
}

type MsgEarlyUnstakeResponse struct {
	Penalty        string `json:"penalty"`
	Returned       string `json:"returned"`
	RemainingStake string `json:"remaining_stake"`
}

type MsgClaimRewards struct {
	Creator string `json:"creator"`
	Index   uint64 `json:"index"`
}

type MsgClaimRewardsResponse struct {
	Reward string `json:"reward"`
}

type MsgFundRewards struct {
	Funder string `json:"funder"`
	Amount string `json:"amount"`
}

type MsgFundRewardsResponse struct{}

type MsgSetMaxPerWallet struct {
	Authority string `json:"authority"`
	Amount    string `json:"amount"`
}

type MsgSetMaxPerWalletResponse struct{}

type MsgSetMaxTotalStaked struct {
	Authority string `json:"authority"`
	Amount    string `json:"amount"`
}

type MsgSetMaxTotalStakedResponse struct{}

type MsgSetPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

type MsgSetPausedResponse struct{}

// MsgMigrate is the emergency sweep: the pool's entire stake-token and
// native-value balance is moved to Recipient. Per-entry records are left as
// they are, so post-sweep reads reflect stale accounting.
type MsgMigrate struct {
	Authority string `json:"authority"`
	Recipient string `json:"recipient"`
}

type MsgMigrateResponse struct{}

type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// MsgServer defines the stakepool Msg service.
type MsgServer interface {
	Stake(ctx context.Context, msg *MsgStake) (*MsgStakeResponse, error)
	Unstake(ctx context.Context, msg *MsgUnstake) (*MsgUnstakeResponse, error)
	EarlyUnstake(ctx context.Context, msg *MsgEarlyUnstake) (*MsgEarlyUnstakeResponse, error)
	ClaimRewards(ctx context.Context, msg *MsgClaimRewards) (*MsgClaimRewardsResponse, error)
	FundRewards(ctx context.Context, msg *MsgFundRewards) (*MsgFundRewardsResponse, error)
	SetMaxPerWallet(ctx context.Context, msg *MsgSetMaxPerWallet) (*MsgSetMaxPerWalletResponse, error)
	SetMaxTotalStaked(ctx context.Context, msg *MsgSetMaxTotalStaked) (*MsgSetMaxTotalStakedResponse, error)
	SetPaused(ctx context.Context, msg *MsgSetPaused) (*MsgSetPausedResponse, error)
	Migrate(ctx context.Context, msg *MsgMigrate) (*MsgMigrateResponse, error)
	UpdateParams(ctx context.Context, msg *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryWalletStakedRequest struct {
	Owner string `json:"owner"`
}

type QueryWalletStakedResponse struct {
	Staked string `json:"staked"`
}

type QueryStakeEntriesRequest struct {
	Owner string `json:"owner"`
}

type QueryStakeEntriesResponse struct {
	Entries []StakeEntry `json:"entries"`
}

type QueryRewardRequest struct {
	Owner string `json:"owner"`
	Index uint64 `json:"index"`
}

type QueryRewardResponse struct {
	Reward string `json:"reward"`
}

type QueryPoolRequest struct{}

type QueryPoolResponse struct {
	TotalStaked   string `json:"total_staked"`
	RewardBalance string `json:"reward_balance"`
}

// QueryServer defines the stakepool Query service.
type QueryServer interface {
	Params(ctx context.Context, req *QueryParamsRequest) (*QueryParamsResponse, error)
	WalletStaked(ctx context.Context, req *QueryWalletStakedRequest) (*QueryWalletStakedResponse, error)
	StakeEntries(ctx context.Context, req *QueryStakeEntriesRequest) (*QueryStakeEntriesResponse, error)
	Reward(ctx context.Context, req *QueryRewardRequest) (*QueryRewardResponse, error)
	Pool(ctx context.Context, req *QueryPoolRequest) (*QueryPoolResponse, error)
}

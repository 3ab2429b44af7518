package keeper_test

import (
	"testing"

	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"nodenet/x/stakepool/keeper"
	"nodenet/x/stakepool/types"
)

func TestMsgStake(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)

	staker := sdk.AccAddress([]byte("staker1_____________"))
	stakerStr, err := f.addressCodec.BytesToString(staker)
	require.NoError(t, err)
	f.fundAccount(staker, "ugpu", 1000)

	testCases := []struct {
		name      string
		input     *types.MsgStake
		expErr    bool
		expErrMsg string
	}{
		{
			name:      "invalid address",
			input:     &types.MsgStake{Creator: "invalid", Amount: "100"},
			expErr:    true,
			expErrMsg: "invalid creator address",
		},
		{
			name:      "zero amount",
			input:     &types.MsgStake{Creator: stakerStr, Amount: "0"},
			expErr:    true,
			expErrMsg: "amount must be greater than 0",
		},
		{
			name:      "malformed amount",
			input:     &types.MsgStake{Creator: stakerStr, Amount: "not-a-number"},
			expErr:    true,
			expErrMsg: "amount must be greater than 0",
		},
		{
			name:      "over wallet limit",
			input:     &types.MsgStake{Creator: stakerStr, Amount: "501"},
			expErr:    true,
			expErrMsg: "staking limit exceeded",
		},
		{
			name:  "successful stake",
			input: &types.MsgStake{Creator: stakerStr, Amount: "100"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := ms.Stake(f.ctx, tc.input)
			if tc.expErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.expErrMsg)
			} else {
				require.NoError(t, err)
				require.Equal(t, "100", resp.WalletStaked)
			}
		})
	}
}

func TestMsgUnstakeLifecycle(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)

	staker := sdk.AccAddress([]byte("staker1_____________"))
	stakerStr, err := f.addressCodec.BytesToString(staker)
	require.NoError(t, err)
	f.fundAccount(staker, "ugpu", 100)

	_, err = ms.Stake(f.ctx, &types.MsgStake{Creator: stakerStr, Amount: "100"})
	require.NoError(t, err)

	_, err = ms.Unstake(f.ctx, &types.MsgUnstake{Creator: stakerStr, Index: 0, Amount: "100"})
	require.ErrorIs(t, err, types.ErrStakeLocked)

	f.advance(stakingPeriod)
	resp, err := ms.Unstake(f.ctx, &types.MsgUnstake{Creator: stakerStr, Index: 0, Amount: "60"})
	require.NoError(t, err)
	require.Equal(t, "40", resp.RemainingStake)
}

func TestMsgEarlyUnstake(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)

	staker := sdk.AccAddress([]byte("staker1_____________"))
	stakerStr, err := f.addressCodec.BytesToString(staker)
	require.NoError(t, err)
	f.fundAccount(staker, "ugpu", 100)

	_, err = ms.Stake(f.ctx, &types.MsgStake{Creator: stakerStr, Amount: "100"})
	require.NoError(t, err)

	f.advance(stakingPeriod / 2)
	resp, err := ms.EarlyUnstake(f.ctx, &types.MsgEarlyUnstake{Creator: stakerStr, Index: 0, Amount: "100"})
	require.NoError(t, err)
	require.Equal(t, "25", resp.Penalty)
	require.Equal(t, "75", resp.Returned)
	require.Equal(t, "0", resp.RemainingStake)
}

func TestMsgClaimRewards(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)

	staker := sdk.AccAddress([]byte("staker1_____________"))
	stakerStr, err := f.addressCodec.BytesToString(staker)
	require.NoError(t, err)
	f.fundAccount(staker, "ugpu", 100)
	f.fundAccount(staker, "unode", 500)

	_, err = ms.Stake(f.ctx, &types.MsgStake{Creator: stakerStr, Amount: "100"})
	require.NoError(t, err)
	_, err = ms.FundRewards(f.ctx, &types.MsgFundRewards{Funder: stakerStr, Amount: "500"})
	require.NoError(t, err)

	f.advance(stakingPeriod)
	resp, err := ms.ClaimRewards(f.ctx, &types.MsgClaimRewards{Creator: stakerStr, Index: 0})
	require.NoError(t, err)
	require.Equal(t, "500", resp.Reward)
}

func TestMsgAdminGating(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)

	intruder := sdk.AccAddress([]byte("intruder____________"))
	intruderStr, err := f.addressCodec.BytesToString(intruder)
	require.NoError(t, err)

	_, err = ms.SetMaxPerWallet(f.ctx, &types.MsgSetMaxPerWallet{Authority: intruderStr, Amount: "1"})
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = ms.SetMaxTotalStaked(f.ctx, &types.MsgSetMaxTotalStaked{Authority: intruderStr, Amount: "1"})
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = ms.SetPaused(f.ctx, &types.MsgSetPaused{Authority: intruderStr, Paused: true})
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = ms.Migrate(f.ctx, &types.MsgMigrate{Authority: intruderStr, Recipient: intruderStr})
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = ms.SetMaxPerWallet(f.ctx, &types.MsgSetMaxPerWallet{Authority: f.authority, Amount: "50000"})
	require.NoError(t, err)
	_, err = ms.SetPaused(f.ctx, &types.MsgSetPaused{Authority: f.authority, Paused: true})
	require.NoError(t, err)

	p, err := f.keeper.GetParams(f.ctx)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(50000), p.MaxPerWallet)
	require.True(t, p.Paused)
}

func TestQueryServer(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)
	qs := keeper.NewQueryServerImpl(f.keeper)

	staker := sdk.AccAddress([]byte("staker1_____________"))
	stakerStr, err := f.addressCodec.BytesToString(staker)
	require.NoError(t, err)
	f.fundAccount(staker, "ugpu", 100)

	_, err = ms.Stake(f.ctx, &types.MsgStake{Creator: stakerStr, Amount: "100"})
	require.NoError(t, err)
	f.fundPool(300_000)
	f.advance(stakingPeriod)

	staked, err := qs.WalletStaked(f.ctx, &types.QueryWalletStakedRequest{Owner: stakerStr})
	require.NoError(t, err)
	require.Equal(t, "100", staked.Staked)

	entries, err := qs.StakeEntries(f.ctx, &types.QueryStakeEntriesRequest{Owner: stakerStr})
	require.NoError(t, err)
	require.Len(t, entries.Entries, 1)

	reward, err := qs.Reward(f.ctx, &types.QueryRewardRequest{Owner: stakerStr, Index: 0})
	require.NoError(t, err)
	require.Equal(t, "300000", reward.Reward)

	pool, err := qs.Pool(f.ctx, &types.QueryPoolRequest{})
	require.NoError(t, err)
	require.Equal(t, "100", pool.TotalStaked)
	require.Equal(t, "300000", pool.RewardBalance)
}

package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"nodenet/x/stakepool/types"
)

type msgServer struct {
	Keeper
}

var _ types.MsgServer = msgServer{}

func NewMsgServerImpl(k Keeper) types.MsgServer {
	return &msgServer{Keeper: k}
}

func parseAmount(amountStr string) (math.Int, error) {
	amt, ok := math.NewIntFromString(amountStr)
	if !ok || !amt.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount
	}
	return amt, nil
}

func (m msgServer) checkAuthority(authority string) error {
	if authority != m.authorityStr {
		return errorsmod.Wrapf(types.ErrUnauthorized, "expected %s, got %s", m.authorityStr, authority)
	}
	return nil
}

func (m msgServer) Stake(ctx context.Context, req *types.MsgStake) (*types.MsgStakeResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidAmount
	}
	amt, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	addr, err := sdk.AccAddressFromBech32(req.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid creator address")
	}
	index, staked, err := m.Keeper.Stake(ctx, addr, amt)
	if err != nil {
		return nil, err
	}
	return &types.MsgStakeResponse{Index: index, WalletStaked: staked.String()}, nil
}

func (m msgServer) Unstake(ctx context.Context, req *types.MsgUnstake) (*types.MsgUnstakeResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidAmount
	}
	amt, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	addr, err := sdk.AccAddressFromBech32(req.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid creator address")
	}
	remaining, err := m.Keeper.Unstake(ctx, addr, req.Index, amt)
	if err != nil {
		return nil, err
	}
	return &types.MsgUnstakeResponse{RemainingStake: remaining.String()}, nil
}

func (m msgServer) EarlyUnstake(ctx context.Context, req *types.MsgEarlyUnstake) (*types.MsgEarlyUnstakeResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidAmount
	}
	amt, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	addr, err := sdk.AccAddressFromBech32(req.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid creator address")
	}
	penalty, returned, err := m.Keeper.EarlyUnstake(ctx, addr, req.Index, amt)
	if err != nil {
		return nil, err
	}
	remaining, err := m.Keeper.WalletStaked(ctx, addr.String())
	if err != nil {
		return nil, err
	}
	return &types.MsgEarlyUnstakeResponse{
		Penalty:        penalty.String(),
		Returned:       returned.String(),
		RemainingStake: remaining.String(),
	}, nil
}

func (m msgServer) ClaimRewards(ctx context.Context, req *types.MsgClaimRewards) (*types.MsgClaimRewardsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidAmount
	}
	addr, err := sdk.AccAddressFromBech32(req.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid creator address")
	}
	reward, err := m.Keeper.ClaimRewards(ctx, addr, req.Index)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimRewardsResponse{Reward: reward.String()}, nil
}

func (m msgServer) FundRewards(ctx context.Context, req *types.MsgFundRewards) (*types.MsgFundRewardsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidAmount
	}
	amt, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	addr, err := sdk.AccAddressFromBech32(req.Funder)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid funder address")
	}
	if err := m.Keeper.FundRewards(ctx, addr, amt); err != nil {
		return nil, err
	}
	return &types.MsgFundRewardsResponse{}, nil
}

func (m msgServer) SetMaxPerWallet(ctx context.Context, req *types.MsgSetMaxPerWallet) (*types.MsgSetMaxPerWalletResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidSigner
	}
	if err := m.checkAuthority(req.Authority); err != nil {
		return nil, err
	}
	amt, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	p, err := m.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	p.MaxPerWallet = amt
	return &types.MsgSetMaxPerWalletResponse{}, m.SetParams(ctx, p)
}

func (m msgServer) SetMaxTotalStaked(ctx context.Context, req *types.MsgSetMaxTotalStaked) (*types.MsgSetMaxTotalStakedResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidSigner
	}
	if err := m.checkAuthority(req.Authority); err != nil {
		return nil, err
	}
	amt, err := parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	p, err := m.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	p.MaxTotalStaked = amt
	return &types.MsgSetMaxTotalStakedResponse{}, m.SetParams(ctx, p)
}

func (m msgServer) SetPaused(ctx context.Context, req *types.MsgSetPaused) (*types.MsgSetPausedResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidSigner
	}
	if err := m.checkAuthority(req.Authority); err != nil {
		return nil, err
	}
	p, err := m.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	p.Paused = req.Paused
	return &types.MsgSetPausedResponse{}, m.SetParams(ctx, p)
}

func (m msgServer) Migrate(ctx context.Context, req *types.MsgMigrate) (*types.MsgMigrateResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidSigner
	}
	if err := m.checkAuthority(req.Authority); err != nil {
		return nil, err
	}
	recipient, err := sdk.AccAddressFromBech32(req.Recipient)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid recipient address")
	}
	if err := m.Keeper.Migrate(ctx, recipient); err != nil {
		return nil, err
	}
	return &types.MsgMigrateResponse{}, nil
}

func (m msgServer) UpdateParams(ctx context.Context, req *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidSigner
	}
	if err := m.checkAuthority(req.Authority); err != nil {
		return nil, err
	}
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, m.SetParams(ctx, req.Params)
}

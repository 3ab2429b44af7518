package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"nodenet/x/stakepool/types"
)

type queryServer struct {
	Keeper
}

var _ types.QueryServer = queryServer{}

func NewQueryServerImpl(k Keeper) types.QueryServer {
	return &queryServer{Keeper: k}
}

func (q queryServer) Params(ctx context.Context, _ *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	p, err := q.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: p}, nil
}

func (q queryServer) WalletStaked(ctx context.Context, req *types.QueryWalletStakedRequest) (*types.QueryWalletStakedResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidAmount
	}
	addr, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid owner address")
	}
	staked, err := q.Keeper.WalletStaked(ctx, addr.String())
	if err != nil {
		return nil, err
	}
	return &types.QueryWalletStakedResponse{Staked: staked.String()}, nil
}

func (q queryServer) StakeEntries(ctx context.Context, req *types.QueryStakeEntriesRequest) (*types.QueryStakeEntriesResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidAmount
	}
	addr, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid owner address")
	}
	entries, err := q.Keeper.StakeEntries(ctx, addr.String())
	if err != nil {
		return nil, err
	}
	return &types.QueryStakeEntriesResponse{Entries: entries}, nil
}

func (q queryServer) Reward(ctx context.Context, req *types.QueryRewardRequest) (*types.QueryRewardResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidAmount
	}
	addr, err := sdk.AccAddressFromBech32(req.Owner)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid owner address")
	}
	reward, err := q.Keeper.CalculateReward(ctx, addr.String(), req.Index)
	if err != nil {
		return nil, err
	}
	return &types.QueryRewardResponse{Reward: reward.String()}, nil
}

func (q queryServer) Pool(ctx context.Context, _ *types.QueryPoolRequest) (*types.QueryPoolResponse, error) {
	p, err := q.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	total, err := q.getTotalStaked(ctx)
	if err != nil {
		return nil, err
	}
	pot := q.bankKeeper.GetBalance(ctx, q.moduleAddress(), p.RewardDenom)
	return &types.QueryPoolResponse{
		TotalStaked:   total.String(),
		RewardBalance: pot.Amount.String(),
	}, nil
}

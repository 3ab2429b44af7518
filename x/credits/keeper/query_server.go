package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	"nodenet/x/credits/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the QueryServer interface
// for the provided Keeper.
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

func (s queryServer) Params(ctx context.Context, req *types.QueryParamsRequest) (*types.QueryParamsResponse, error) {
	p, err := s.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryParamsResponse{Params: p}, nil
}

func (s queryServer) Account(ctx context.Context, req *types.QueryAccountRequest) (*types.QueryAccountResponse, error) {
	if _, err := s.addressCodec.StringToBytes(req.Address); err != nil {
		return nil, errorsmod.Wrap(err, "invalid account address")
	}
	acc, err := s.GetAccount(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	return &types.QueryAccountResponse{
		Balance:   acc.Balance.String(),
		Reserved:  acc.Reserved.String(),
		Available: acc.Available().String(),
	}, nil
}

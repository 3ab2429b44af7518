package keeper

import (
	"context"

	"nodenet/x/treasury/types"
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

func (s queryServer) Rental(ctx context.Context, req *types.QueryRentalRequest) (*types.QueryRentalResponse, error) {
	r, err := s.GetRental(ctx, req.RentalId)
	if err != nil {
		return nil, err
	}
	return &types.QueryRentalResponse{Rental: r}, nil
}

func (s queryServer) TotalRevenueShared(ctx context.Context, req *types.QueryTotalRevenueSharedRequest) (*types.QueryTotalRevenueSharedResponse, error) {
	total, err := s.GetTotalRevenueShared(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryTotalRevenueSharedResponse{Total: total.String()}, nil
}

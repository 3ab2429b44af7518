package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"

	"nodenet/x/treasury/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
// for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func parseAmount(s string) (math.Int, error) {
	amt, ok := math.NewIntFromString(s)
	if !ok {
		return math.Int{}, errorsmod.Wrapf(types.ErrInvalidDeposit, "invalid integer amount %q", s)
	}
	return amt, nil
}

func (s msgServer) checkAuthority(authority string) error {
	if authority != s.authorityStr {
		return errorsmod.Wrapf(types.ErrInvalidSigner, "invalid authority; expected %s, got %s", s.authorityStr, authority)
	}
	return nil
}

func (s msgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	renter, err := s.addressCodec.StringToBytes(msg.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid renter address")
	}
	value, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	if msg.RentalId == "" {
		return nil, errorsmod.Wrap(types.ErrRentalNotFound, "rental id cannot be empty")
	}
	if err := s.Keeper.Deposit(ctx, renter, msg.RentalId, value); err != nil {
		return nil, err
	}
	return &types.MsgDepositResponse{}, nil
}

func (s msgServer) SetRentalInfo(ctx context.Context, msg *types.MsgSetRentalInfo) (*types.MsgSetRentalInfoResponse, error) {
	if _, err := s.addressCodec.StringToBytes(msg.Lender); err != nil {
		return nil, errorsmod.Wrap(err, "invalid lender address")
	}
	if err := s.Keeper.SetRentalInfo(ctx, msg.Creator, msg.RentalId, msg.Lender, msg.EndTime); err != nil {
		return nil, err
	}
	return &types.MsgSetRentalInfoResponse{}, nil
}

func (s msgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	lender, err := s.addressCodec.StringToBytes(msg.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid lender address")
	}
	paid, share, err := s.Keeper.Withdraw(ctx, lender, msg.RentalId)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawResponse{Paid: paid.String(), Share: share.String()}, nil
}

func (s msgServer) RaiseDispute(ctx context.Context, msg *types.MsgRaiseDispute) (*types.MsgRaiseDisputeResponse, error) {
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	pending, err := s.Keeper.RaiseDispute(ctx, msg.Creator, msg.RentalId, amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgRaiseDisputeResponse{PendingDispute: pending.String()}, nil
}

func (s msgServer) ClaimRefund(ctx context.Context, msg *types.MsgClaimRefund) (*types.MsgClaimRefundResponse, error) {
	renter, err := s.addressCodec.StringToBytes(msg.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid renter address")
	}
	refunded, err := s.Keeper.ClaimRefund(ctx, renter, msg.RentalId)
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimRefundResponse{Refunded: refunded.String()}, nil
}

func (s msgServer) SetPaused(ctx context.Context, msg *types.MsgSetPaused) (*types.MsgSetPausedResponse, error) {
	if err := s.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if err := s.Keeper.SetPaused(ctx, msg.Paused); err != nil {
		return nil, err
	}
	return &types.MsgSetPausedResponse{}, nil
}

func (s msgServer) SetRevenueShare(ctx context.Context, msg *types.MsgSetRevenueShare) (*types.MsgSetRevenueShareResponse, error) {
	if err := s.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if err := s.Keeper.SetRevenueShare(ctx, msg.Percent); err != nil {
		return nil, err
	}
	return &types.MsgSetRevenueShareResponse{}, nil
}

func (s msgServer) SetRevenueShareRecipient(ctx context.Context, msg *types.MsgSetRevenueShareRecipient) (*types.MsgSetRevenueShareRecipientResponse, error) {
	if err := s.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if err := s.Keeper.SetRevenueShareRecipient(ctx, msg.Recipient); err != nil {
		return nil, err
	}
	return &types.MsgSetRevenueShareRecipientResponse{}, nil
}

func (s msgServer) SetSystemAccount(ctx context.Context, msg *types.MsgSetSystemAccount) (*types.MsgSetSystemAccountResponse, error) {
	if err := s.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if err := s.Keeper.SetSystemAccount(ctx, msg.Account); err != nil {
		return nil, err
	}
	return &types.MsgSetSystemAccountResponse{}, nil
}

func (s msgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgUpdateParamsResponse, error) {
	if err := s.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	if err := s.SetParams(ctx, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgUpdateParamsResponse{}, nil
}

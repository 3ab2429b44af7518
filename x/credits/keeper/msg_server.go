package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"

	"nodenet/x/credits/types"
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
		return math.Int{}, errorsmod.Wrapf(types.ErrInvalidAmount, "invalid integer amount %q", s)
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
	depositor, err := s.addressCodec.StringToBytes(msg.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid depositor address")
	}
	value, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	credits, newBalance, err := s.Keeper.Deposit(ctx, depositor, value)
	if err != nil {
		return nil, err
	}
	return &types.MsgDepositResponse{Credits: credits.String(), NewBalance: newBalance.String()}, nil
}

func (s msgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	withdrawer, err := s.addressCodec.StringToBytes(msg.Creator)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid withdrawer address")
	}
	credits, err := parseAmount(msg.Credits)
	if err != nil {
		return nil, err
	}
	value, newBalance, err := s.Keeper.Withdraw(ctx, withdrawer, credits)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawResponse{Value: value.String(), NewBalance: newBalance.String()}, nil
}

func (s msgServer) ReserveCredits(ctx context.Context, msg *types.MsgReserveCredits) (*types.MsgReserveCreditsResponse, error) {
	if _, err := s.addressCodec.StringToBytes(msg.Account); err != nil {
		return nil, errorsmod.Wrap(err, "invalid account address")
	}
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	reserved, err := s.Keeper.Reserve(ctx, msg.Creator, msg.Account, amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgReserveCreditsResponse{Reserved: reserved.String()}, nil
}

func (s msgServer) TransferCreditsFromReserve(ctx context.Context, msg *types.MsgTransferCreditsFromReserve) (*types.MsgTransferCreditsFromReserveResponse, error) {
	if _, err := s.addressCodec.StringToBytes(msg.From); err != nil {
		return nil, errorsmod.Wrap(err, "invalid from address")
	}
	if _, err := s.addressCodec.StringToBytes(msg.To); err != nil {
		return nil, errorsmod.Wrap(err, "invalid to address")
	}
	amount, err := parseAmount(msg.Amount)
	if err != nil {
		return nil, err
	}
	dispute, err := parseAmount(msg.DisputeAmount)
	if err != nil {
		return nil, err
	}
	if err := s.Keeper.TransferFromReserve(ctx, msg.Creator, msg.From, msg.To, amount, dispute); err != nil {
		return nil, err
	}
	return &types.MsgTransferCreditsFromReserveResponse{}, nil
}

func (s msgServer) MigrateFunds(ctx context.Context, msg *types.MsgMigrateFunds) (*types.MsgMigrateFundsResponse, error) {
	if err := s.checkAuthority(msg.Authority); err != nil {
		return nil, err
	}
	recipient, err := s.addressCodec.StringToBytes(msg.Authority)
	if err != nil {
		return nil, errorsmod.Wrap(err, "invalid authority address")
	}
	swept, err := s.Keeper.MigrateFunds(ctx, recipient)
	if err != nil {
		return nil, err
	}
	return &types.MsgMigrateFundsResponse{Swept: swept.String()}, nil
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

package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"nodenet/x/treasury/keeper"
	"nodenet/x/treasury/types"
)

func TestMsgDeposit(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)

	renter := sdk.AccAddress([]byte("renter______________"))
	renterStr, err := f.addressCodec.BytesToString(renter)
	require.NoError(t, err)
	f.fundAccount(renter, 100)

	testCases := []struct {
		name      string
		input     *types.MsgDeposit
		expErr    bool
		expErrMsg string
	}{
		{
			name:      "invalid address",
			input:     &types.MsgDeposit{Creator: "invalid", RentalId: "rental-1", Amount: "10"},
			expErr:    true,
			expErrMsg: "invalid renter address",
		},
		{
			name:      "empty rental id",
			input:     &types.MsgDeposit{Creator: renterStr, RentalId: "", Amount: "10"},
			expErr:    true,
			expErrMsg: "rental id cannot be empty",
		},
		{
			name:      "zero amount",
			input:     &types.MsgDeposit{Creator: renterStr, RentalId: "rental-1", Amount: "0"},
			expErr:    true,
			expErrMsg: "deposit must be greater than 0",
		},
		{
			name:  "successful deposit",
			input: &types.MsgDeposit{Creator: renterStr, RentalId: "rental-1", Amount: "10"},
		},
		{
			name:      "duplicate rental",
			input:     &types.MsgDeposit{Creator: renterStr, RentalId: "rental-1", Amount: "10"},
			expErr:    true,
			expErrMsg: "rental already exists",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ms.Deposit(f.ctx, tc.input)
			if tc.expErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.expErrMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMsgRentalLifecycle(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)

	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	renterStr, err := f.addressCodec.BytesToString(renter)
	require.NoError(t, err)
	lenderStr, err := f.addressCodec.BytesToString(lender)
	require.NoError(t, err)
	systemStr := f.system.String()
	f.fundAccount(renter, 100)

	_, err = ms.Deposit(f.ctx, &types.MsgDeposit{Creator: renterStr, RentalId: "rental-1", Amount: "10"})
	require.NoError(t, err)

	_, err = ms.SetRentalInfo(f.ctx, &types.MsgSetRentalInfo{Creator: systemStr, RentalId: "rental-1", Lender: lenderStr, EndTime: 0})
	require.NoError(t, err)

	_, err = ms.RaiseDispute(f.ctx, &types.MsgRaiseDispute{Creator: systemStr, RentalId: "rental-1", Amount: "2"})
	require.NoError(t, err)

	refund, err := ms.ClaimRefund(f.ctx, &types.MsgClaimRefund{Creator: renterStr, RentalId: "rental-1"})
	require.NoError(t, err)
	require.Equal(t, "2", refund.Refunded)

	resp, err := ms.Withdraw(f.ctx, &types.MsgWithdraw{Creator: lenderStr, RentalId: "rental-1"})
	require.NoError(t, err)
	require.Equal(t, "7", resp.Paid)
	require.Equal(t, "1", resp.Share)
}

func TestMsgAdminGating(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)

	intruder := sdk.AccAddress([]byte("intruder____________"))
	intruderStr, err := f.addressCodec.BytesToString(intruder)
	require.NoError(t, err)

	_, err = ms.SetPaused(f.ctx, &types.MsgSetPaused{Authority: intruderStr, Paused: true})
	require.ErrorIs(t, err, types.ErrInvalidSigner)

	_, err = ms.SetRevenueShare(f.ctx, &types.MsgSetRevenueShare{Authority: intruderStr, Percent: 10})
	require.ErrorIs(t, err, types.ErrInvalidSigner)

	_, err = ms.SetRevenueShareRecipient(f.ctx, &types.MsgSetRevenueShareRecipient{Authority: intruderStr, Recipient: intruderStr})
	require.ErrorIs(t, err, types.ErrInvalidSigner)

	_, err = ms.SetSystemAccount(f.ctx, &types.MsgSetSystemAccount{Authority: intruderStr, Account: intruderStr})
	require.ErrorIs(t, err, types.ErrInvalidSigner)

	_, err = ms.SetPaused(f.ctx, &types.MsgSetPaused{Authority: f.authority, Paused: true})
	require.NoError(t, err)

	_, err = ms.SetSystemAccount(f.ctx, &types.MsgSetSystemAccount{Authority: f.authority, Account: intruderStr})
	require.NoError(t, err)

	p, err := f.keeper.GetParams(f.ctx)
	require.NoError(t, err)
	require.Equal(t, intruderStr, p.SystemAccount)
}

func TestQueryServer(t *testing.T) {
	f := initFixture(t)
	ms := keeper.NewMsgServerImpl(f.keeper)
	qs := keeper.NewQueryServerImpl(f.keeper)

	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	renterStr, err := f.addressCodec.BytesToString(renter)
	require.NoError(t, err)
	lenderStr, err := f.addressCodec.BytesToString(lender)
	require.NoError(t, err)
	f.fundAccount(renter, 100)

	pResp, err := qs.Params(f.ctx, &types.QueryParamsRequest{})
	require.NoError(t, err)
	require.Equal(t, uint32(20), pResp.Params.RevenueSharePercent)

	_, err = qs.Rental(f.ctx, &types.QueryRentalRequest{RentalId: "rental-1"})
	require.ErrorIs(t, err, types.ErrRentalNotFound)

	_, err = ms.Deposit(f.ctx, &types.MsgDeposit{Creator: renterStr, RentalId: "rental-1", Amount: "10"})
	require.NoError(t, err)
	_, err = ms.SetRentalInfo(f.ctx, &types.MsgSetRentalInfo{Creator: f.system.String(), RentalId: "rental-1", Lender: lenderStr, EndTime: 0})
	require.NoError(t, err)
	_, err = ms.Withdraw(f.ctx, &types.MsgWithdraw{Creator: lenderStr, RentalId: "rental-1"})
	require.NoError(t, err)

	rResp, err := qs.Rental(f.ctx, &types.QueryRentalRequest{RentalId: "rental-1"})
	require.NoError(t, err)
	require.True(t, rResp.Rental.Ended)

	tResp, err := qs.TotalRevenueShared(f.ctx, &types.QueryTotalRevenueSharedRequest{})
	require.NoError(t, err)
	require.Equal(t, "2", tResp.Total)
}

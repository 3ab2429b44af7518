package keeper_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/core/address"
	math "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	moduletestutil "github.com/cosmos/cosmos-sdk/types/module/testutil"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/require"

	"nodenet/x/treasury/keeper"
	module "nodenet/x/treasury/module"
	"nodenet/x/treasury/types"
)

// MockBankKeeper is a mock implementation of the BankKeeper interface.
// Balances are keyed by bech32 address; module accounts are addressed the
// same way the keeper addresses them.
type MockBankKeeper struct {
	Balances map[string]sdk.Coins
}

func NewMockBankKeeper() *MockBankKeeper {
	return &MockBankKeeper{Balances: make(map[string]sdk.Coins)}
}

func moduleAddr(name string) string {
	return authtypes.NewModuleAddress(name).String()
}

func (m *MockBankKeeper) send(from, to string, amt sdk.Coins) error {
	balance := m.Balances[from]
	if !balance.IsAllGTE(amt) {
		return types.ErrInvalidDeposit
	}
	m.Balances[from] = balance.Sub(amt...)
	m.Balances[to] = m.Balances[to].Add(amt...)
	return nil
}

func (m *MockBankKeeper) SendCoinsFromAccountToModule(_ context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return m.send(senderAddr.String(), moduleAddr(recipientModule), amt)
}

func (m *MockBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return m.send(moduleAddr(senderModule), recipientAddr.String(), amt)
}

func (m *MockBankKeeper) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	bal := m.Balances[addr.String()]
	return sdk.NewCoin(denom, bal.AmountOf(denom))
}

type fixture struct {
	ctx          sdk.Context
	keeper       keeper.Keeper
	addressCodec address.Codec
	bankKeeper   *MockBankKeeper
	authority    string
	system       sdk.AccAddress
	sink         sdk.AccAddress
}

func initFixture(t *testing.T) *fixture {
	t.Helper()

	encCfg := moduletestutil.MakeTestEncodingConfig(module.AppModule{})
	addressCodec := addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix())
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	storeService := runtime.NewKVStoreService(storeKey)
	ctx := testutil.DefaultContextWithDB(t, storeKey, storetypes.NewTransientStoreKey("transient_test")).Ctx
	ctx = ctx.WithBlockTime(time.Unix(1_700_000_000, 0))

	authority := authtypes.NewModuleAddress(types.GovModuleName)
	bankKeeper := NewMockBankKeeper()

	k := keeper.NewKeeper(
		storeService,
		encCfg.Codec,
		addressCodec,
		authority,
		bankKeeper,
	)

	system := sdk.AccAddress([]byte("system______________"))
	sink := sdk.AccAddress([]byte("reward_sink_________"))
	params := types.Params{
		Denom:                 "unode",
		RevenueSharePercent:   20,
		SystemAccount:         system.String(),
		RevenueShareRecipient: sink.String(),
	}
	require.NoError(t, k.SetParams(ctx, params))

	return &fixture{
		ctx:          ctx,
		keeper:       k,
		addressCodec: addressCodec,
		bankKeeper:   bankKeeper,
		authority:    authority.String(),
		system:       system,
		sink:         sink,
	}
}

// advance moves the block time forward by the given number of seconds.
func (f *fixture) advance(seconds int64) {
	f.ctx = f.ctx.WithBlockTime(f.ctx.BlockTime().Add(time.Duration(seconds) * time.Second))
}

func (f *fixture) fundAccount(addr sdk.AccAddress, amount int64) {
	f.bankKeeper.Balances[addr.String()] = f.bankKeeper.Balances[addr.String()].Add(sdk.NewCoin("unode", math.NewInt(amount)))
}

func (f *fixture) balanceOf(addr sdk.AccAddress) math.Int {
	return f.bankKeeper.Balances[addr.String()].AmountOf("unode")
}

func TestDeposit(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	f.fundAccount(renter, 100)

	err := f.keeper.Deposit(f.ctx, renter, "rental-1", math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidDeposit)

	require.NoError(t, f.keeper.Deposit(f.ctx, renter, "rental-1", math.NewInt(10)))

	r, err := f.keeper.GetRental(f.ctx, "rental-1")
	require.NoError(t, err)
	require.Equal(t, renter.String(), r.Renter)
	require.Equal(t, math.NewInt(10), r.PendingAmount)
	require.Equal(t, math.NewInt(10), r.TotalAmount)
	require.False(t, r.Active)
	require.Zero(t, r.StartTime)

	// duplicate ids are rejected even across renters
	err = f.keeper.Deposit(f.ctx, renter, "rental-1", math.NewInt(5))
	require.ErrorIs(t, err, types.ErrDuplicateRental)
	require.Equal(t, math.NewInt(90), f.balanceOf(renter))
}

func TestDepositPaused(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	f.fundAccount(renter, 100)

	require.NoError(t, f.keeper.SetPaused(f.ctx, true))
	err := f.keeper.Deposit(f.ctx, renter, "rental-1", math.NewInt(10))
	require.ErrorIs(t, err, types.ErrTreasuryPaused)
}

func TestSetRentalInfo(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	f.fundAccount(renter, 100)

	err := f.keeper.SetRentalInfo(f.ctx, renter.String(), "rental-1", lender.String(), 0)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	err = f.keeper.SetRentalInfo(f.ctx, f.system.String(), "rental-1", lender.String(), 0)
	require.ErrorIs(t, err, types.ErrRentalNotFound)

	require.NoError(t, f.keeper.Deposit(f.ctx, renter, "rental-1", math.NewInt(10)))
	require.NoError(t, f.keeper.SetRentalInfo(f.ctx, f.system.String(), "rental-1", lender.String(), 0))

	r, err := f.keeper.GetRental(f.ctx, "rental-1")
	require.NoError(t, err)
	require.True(t, r.Active)
	require.Equal(t, lender.String(), r.Lender)
	require.Equal(t, f.ctx.BlockTime().Unix(), r.StartTime)

	// the authority passes the system check too
	require.NoError(t, f.keeper.Deposit(f.ctx, renter, "rental-2", math.NewInt(10)))
	require.NoError(t, f.keeper.SetRentalInfo(f.ctx, f.authority, "rental-2", lender.String(), 0))
}

func TestWithdrawRevenueSplit(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	f.fundAccount(renter, 100)

	require.NoError(t, f.keeper.Deposit(f.ctx, renter, "rental-1", math.NewInt(10)))

	// inactive rentals cannot be withdrawn
	_, _, err := f.keeper.Withdraw(f.ctx, lender, "rental-1")
	require.ErrorIs(t, err, types.ErrRentalNotActive)

	require.NoError(t, f.keeper.SetRentalInfo(f.ctx, f.system.String(), "rental-1", lender.String(), 0))

	_, _, err = f.keeper.Withdraw(f.ctx, renter, "rental-1")
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// 20% of the escrow goes to the revenue sink, the rest to the lender
	paid, share, err := f.keeper.Withdraw(f.ctx, lender, "rental-1")
	require.NoError(t, err)
	require.Equal(t, math.NewInt(8), paid)
	require.Equal(t, math.NewInt(2), share)
	require.Equal(t, math.NewInt(8), f.balanceOf(lender))
	require.Equal(t, math.NewInt(2), f.balanceOf(f.sink))

	total, err := f.keeper.GetTotalRevenueShared(f.ctx)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(2), total)

	r, err := f.keeper.GetRental(f.ctx, "rental-1")
	require.NoError(t, err)
	require.True(t, r.Ended)
	require.True(t, r.PendingAmount.IsZero())

	_, _, err = f.keeper.Withdraw(f.ctx, lender, "rental-1")
	require.ErrorIs(t, err, types.ErrRentalEnded)
}

func TestWithdrawTimedRental(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	f.fundAccount(renter, 100)

	endTime := f.ctx.BlockTime().Unix() + 3600
	require.NoError(t, f.keeper.Deposit(f.ctx, renter, "rental-1", math.NewInt(10)))
	require.NoError(t, f.keeper.SetRentalInfo(f.ctx, f.system.String(), "rental-1", lender.String(), endTime))

	_, _, err := f.keeper.Withdraw(f.ctx, lender, "rental-1")
	require.ErrorIs(t, err, types.ErrRentalNotEnded)

	f.advance(3600)
	paid, _, err := f.keeper.Withdraw(f.ctx, lender, "rental-1")
	require.NoError(t, err)
	require.Equal(t, math.NewInt(8), paid)
}

func TestWithdrawRecipientUnset(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	f.fundAccount(renter, 100)

	p, err := f.keeper.GetParams(f.ctx)
	require.NoError(t, err)
	p.RevenueShareRecipient = ""
	require.NoError(t, f.keeper.SetParams(f.ctx, p))

	require.NoError(t, f.keeper.Deposit(f.ctx, renter, "rental-1", math.NewInt(10)))
	require.NoError(t, f.keeper.SetRentalInfo(f.ctx, f.system.String(), "rental-1", lender.String(), 0))

	_, _, err = f.keeper.Withdraw(f.ctx, lender, "rental-1")
	require.ErrorIs(t, err, types.ErrRecipientUnset)
}

func TestDisputeAndRefund(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	f.fundAccount(renter, 100)

	require.NoError(t, f.keeper.Deposit(f.ctx, renter, "rental-1", math.NewInt(10)))

	_, err := f.keeper.RaiseDispute(f.ctx, f.system.String(), "rental-1", math.NewInt(4))
	require.ErrorIs(t, err, types.ErrRentalNotActive)

	require.NoError(t, f.keeper.SetRentalInfo(f.ctx, f.system.String(), "rental-1", lender.String(), 0))

	_, err = f.keeper.RaiseDispute(f.ctx, lender.String(), "rental-1", math.NewInt(4))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.keeper.RaiseDispute(f.ctx, f.system.String(), "rental-1", math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidDispute)
	_, err = f.keeper.RaiseDispute(f.ctx, f.system.String(), "rental-1", math.NewInt(11))
	require.ErrorIs(t, err, types.ErrInvalidDispute)

	pending, err := f.keeper.RaiseDispute(f.ctx, f.system.String(), "rental-1", math.NewInt(4))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(4), pending)

	r, err := f.keeper.GetRental(f.ctx, "rental-1")
	require.NoError(t, err)
	require.Equal(t, math.NewInt(6), r.PendingAmount)
	require.Equal(t, math.NewInt(4), r.PendingDisputeAmount)
	require.Equal(t, math.NewInt(4), r.TotalDisputeAmount)

	_, err = f.keeper.ClaimRefund(f.ctx, lender, "rental-1")
	require.ErrorIs(t, err, types.ErrUnauthorized)

	refunded, err := f.keeper.ClaimRefund(f.ctx, renter, "rental-1")
	require.NoError(t, err)
	require.Equal(t, math.NewInt(4), refunded)
	require.Equal(t, math.NewInt(94), f.balanceOf(renter))

	_, err = f.keeper.ClaimRefund(f.ctx, renter, "rental-1")
	require.ErrorIs(t, err, types.ErrNoDispute)

	// the disputed slice is gone; the lender settles only the remainder
	paid, share, err := f.keeper.Withdraw(f.ctx, lender, "rental-1")
	require.NoError(t, err)
	require.Equal(t, math.NewInt(5), paid)
	require.Equal(t, math.NewInt(1), share)
}

func TestSetPausedNoOp(t *testing.T) {
	f := initFixture(t)

	err := f.keeper.SetPaused(f.ctx, false)
	require.ErrorIs(t, err, types.ErrNoOp)

	require.NoError(t, f.keeper.SetPaused(f.ctx, true))
	err = f.keeper.SetPaused(f.ctx, true)
	require.ErrorIs(t, err, types.ErrNoOp)
}

func TestSetRevenueShareBounds(t *testing.T) {
	f := initFixture(t)

	err := f.keeper.SetRevenueShare(f.ctx, 101)
	require.ErrorIs(t, err, types.ErrInvalidPercent)

	require.NoError(t, f.keeper.SetRevenueShare(f.ctx, 100))
	p, err := f.keeper.GetParams(f.ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(100), p.RevenueSharePercent)
}

func TestGenesisRoundTrip(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	f.fundAccount(renter, 100)

	require.NoError(t, f.keeper.Deposit(f.ctx, renter, "rental-1", math.NewInt(10)))
	require.NoError(t, f.keeper.SetRentalInfo(f.ctx, f.system.String(), "rental-1", lender.String(), 0))
	_, _, err := f.keeper.Withdraw(f.ctx, lender, "rental-1")
	require.NoError(t, err)

	gs, err := f.keeper.ExportGenesis(f.ctx)
	require.NoError(t, err)
	require.Len(t, gs.Rentals, 1)
	require.Equal(t, math.NewInt(2), gs.TotalRevenueShared)

	f2 := initFixture(t)
	require.NoError(t, f2.keeper.InitGenesis(f2.ctx, gs))

	r, err := f2.keeper.GetRental(f2.ctx, "rental-1")
	require.NoError(t, err)
	require.True(t, r.Ended)
	total, err := f2.keeper.GetTotalRevenueShared(f2.ctx)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(2), total)
}

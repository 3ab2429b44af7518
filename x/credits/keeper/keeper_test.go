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

	"nodenet/x/credits/keeper"
	module "nodenet/x/credits/module"
	"nodenet/x/credits/types"
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
		return types.ErrInsufficientFunds
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
}

const exchangeRate = int64(100_000)

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
	params := types.Params{
		Denom:         "unode",
		ExchangeRate:  math.NewInt(exchangeRate),
		SystemAccount: system.String(),
	}
	require.NoError(t, k.SetParams(ctx, params))

	return &fixture{
		ctx:          ctx,
		keeper:       k,
		addressCodec: addressCodec,
		bankKeeper:   bankKeeper,
		authority:    authority.String(),
		system:       system,
	}
}

func (f *fixture) fundAccount(addr sdk.AccAddress, amount int64) {
	f.bankKeeper.Balances[addr.String()] = f.bankKeeper.Balances[addr.String()].Add(sdk.NewCoin("unode", math.NewInt(amount)))
}

func (f *fixture) balanceOf(addr sdk.AccAddress) math.Int {
	return f.bankKeeper.Balances[addr.String()].AmountOf("unode")
}

func TestDeposit(t *testing.T) {
	f := initFixture(t)
	depositor := sdk.AccAddress([]byte("depositor___________"))
	f.fundAccount(depositor, 10)

	_, _, err := f.keeper.Deposit(f.ctx, depositor, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	credits, newBalance, err := f.keeper.Deposit(f.ctx, depositor, math.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(exchangeRate), credits)
	require.Equal(t, math.NewInt(exchangeRate), newBalance)
	require.Equal(t, math.NewInt(9), f.balanceOf(depositor))

	// deposits accumulate
	_, newBalance, err = f.keeper.Deposit(f.ctx, depositor, math.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(3*exchangeRate), newBalance)

	acc, err := f.keeper.GetAccount(f.ctx, depositor.String())
	require.NoError(t, err)
	require.Equal(t, math.NewInt(3*exchangeRate), acc.Balance)
	require.True(t, acc.Reserved.IsZero())
}

func TestWithdraw(t *testing.T) {
	f := initFixture(t)
	depositor := sdk.AccAddress([]byte("depositor___________"))
	f.fundAccount(depositor, 10)

	_, _, err := f.keeper.Deposit(f.ctx, depositor, math.NewInt(3))
	require.NoError(t, err)

	_, _, err = f.keeper.Withdraw(f.ctx, depositor, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	_, _, err = f.keeper.Withdraw(f.ctx, depositor, math.NewInt(3*exchangeRate+1))
	require.ErrorIs(t, err, types.ErrInsufficientAllowance)

	value, newBalance, err := f.keeper.Withdraw(f.ctx, depositor, math.NewInt(exchangeRate))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1), value)
	require.Equal(t, math.NewInt(2*exchangeRate), newBalance)
	require.Equal(t, math.NewInt(8), f.balanceOf(depositor))
}

func TestWithdrawReservedLocked(t *testing.T) {
	f := initFixture(t)
	depositor := sdk.AccAddress([]byte("depositor___________"))
	f.fundAccount(depositor, 10)

	_, _, err := f.keeper.Deposit(f.ctx, depositor, math.NewInt(2))
	require.NoError(t, err)

	_, err = f.keeper.Reserve(f.ctx, f.system.String(), depositor.String(), math.NewInt(exchangeRate))
	require.NoError(t, err)

	// only the unreserved part of the balance may be withdrawn
	_, _, err = f.keeper.Withdraw(f.ctx, depositor, math.NewInt(2*exchangeRate))
	require.ErrorIs(t, err, types.ErrInsufficientAllowance)

	_, _, err = f.keeper.Withdraw(f.ctx, depositor, math.NewInt(exchangeRate))
	require.NoError(t, err)
}

func TestReserve(t *testing.T) {
	f := initFixture(t)
	depositor := sdk.AccAddress([]byte("depositor___________"))
	other := sdk.AccAddress([]byte("other_______________"))
	f.fundAccount(depositor, 10)

	_, _, err := f.keeper.Deposit(f.ctx, depositor, math.NewInt(1))
	require.NoError(t, err)

	_, err = f.keeper.Reserve(f.ctx, other.String(), depositor.String(), math.NewInt(1))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = f.keeper.Reserve(f.ctx, f.system.String(), depositor.String(), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	// reservations can never exceed the balance
	_, err = f.keeper.Reserve(f.ctx, f.system.String(), depositor.String(), math.NewInt(exchangeRate+1))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	reserved, err := f.keeper.Reserve(f.ctx, f.system.String(), depositor.String(), math.NewInt(60_000))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(60_000), reserved)

	avail, err := f.keeper.AvailableBalance(f.ctx, depositor.String())
	require.NoError(t, err)
	require.Equal(t, math.NewInt(40_000), avail)

	// cumulative reservations are bounded too
	_, err = f.keeper.Reserve(f.ctx, f.system.String(), depositor.String(), math.NewInt(40_001))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
}

func TestReserveSystemUnset(t *testing.T) {
	f := initFixture(t)
	depositor := sdk.AccAddress([]byte("depositor___________"))

	p, err := f.keeper.GetParams(f.ctx)
	require.NoError(t, err)
	p.SystemAccount = ""
	require.NoError(t, f.keeper.SetParams(f.ctx, p))

	_, err = f.keeper.Reserve(f.ctx, f.system.String(), depositor.String(), math.NewInt(1))
	require.ErrorIs(t, err, types.ErrSystemAccountUnset)
}

func TestTransferFromReserve(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	f.fundAccount(renter, 10)

	_, _, err := f.keeper.Deposit(f.ctx, renter, math.NewInt(1))
	require.NoError(t, err)
	_, err = f.keeper.Reserve(f.ctx, f.system.String(), renter.String(), math.NewInt(exchangeRate))
	require.NoError(t, err)

	err = f.keeper.TransferFromReserve(f.ctx, lender.String(), renter.String(), lender.String(), math.NewInt(1), math.ZeroInt())
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// releasing more than is reserved fails
	err = f.keeper.TransferFromReserve(f.ctx, f.system.String(), renter.String(), lender.String(), math.NewInt(95_000), math.NewInt(10_000))
	require.ErrorIs(t, err, types.ErrInsufficientReserve)

	// 90000 settles to the lender, the 10000 dispute share is released back
	err = f.keeper.TransferFromReserve(f.ctx, f.system.String(), renter.String(), lender.String(), math.NewInt(90_000), math.NewInt(10_000))
	require.NoError(t, err)

	renterAcc, err := f.keeper.GetAccount(f.ctx, renter.String())
	require.NoError(t, err)
	require.Equal(t, math.NewInt(10_000), renterAcc.Balance)
	require.True(t, renterAcc.Reserved.IsZero())

	lenderAcc, err := f.keeper.GetAccount(f.ctx, lender.String())
	require.NoError(t, err)
	require.Equal(t, math.NewInt(90_000), lenderAcc.Balance)

	// sub-unit withdrawals truncate to zero native value
	value, newBalance, err := f.keeper.Withdraw(f.ctx, lender, math.NewInt(90_000))
	require.NoError(t, err)
	require.True(t, value.IsZero())
	require.True(t, newBalance.IsZero())
	require.True(t, f.balanceOf(lender).IsZero())
}

func TestTransferFromReservePartial(t *testing.T) {
	f := initFixture(t)
	renter := sdk.AccAddress([]byte("renter______________"))
	lender := sdk.AccAddress([]byte("lender______________"))
	f.fundAccount(renter, 10)

	_, _, err := f.keeper.Deposit(f.ctx, renter, math.NewInt(2))
	require.NoError(t, err)
	_, err = f.keeper.Reserve(f.ctx, f.system.String(), renter.String(), math.NewInt(150_000))
	require.NoError(t, err)

	// settle with no dispute share: reserved drops by exactly the amount
	err = f.keeper.TransferFromReserve(f.ctx, f.system.String(), renter.String(), lender.String(), math.NewInt(100_000), math.ZeroInt())
	require.NoError(t, err)

	renterAcc, err := f.keeper.GetAccount(f.ctx, renter.String())
	require.NoError(t, err)
	require.Equal(t, math.NewInt(100_000), renterAcc.Balance)
	require.Equal(t, math.NewInt(50_000), renterAcc.Reserved)
}

func TestMigrateFunds(t *testing.T) {
	f := initFixture(t)
	depositor := sdk.AccAddress([]byte("depositor___________"))
	recipient := sdk.AccAddress([]byte("recipient___________"))
	f.fundAccount(depositor, 10)

	_, _, err := f.keeper.Deposit(f.ctx, depositor, math.NewInt(7))
	require.NoError(t, err)

	swept, err := f.keeper.MigrateFunds(f.ctx, recipient)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(7), swept)
	require.Equal(t, math.NewInt(7), f.balanceOf(recipient))

	// sweeping an empty ledger is a no-op
	swept, err = f.keeper.MigrateFunds(f.ctx, recipient)
	require.NoError(t, err)
	require.True(t, swept.IsZero())
}

func TestGenesisRoundTrip(t *testing.T) {
	f := initFixture(t)
	depositor := sdk.AccAddress([]byte("depositor___________"))
	f.fundAccount(depositor, 10)

	_, _, err := f.keeper.Deposit(f.ctx, depositor, math.NewInt(3))
	require.NoError(t, err)
	_, err = f.keeper.Reserve(f.ctx, f.system.String(), depositor.String(), math.NewInt(exchangeRate))
	require.NoError(t, err)

	gs, err := f.keeper.ExportGenesis(f.ctx)
	require.NoError(t, err)
	require.Len(t, gs.Accounts, 1)

	f2 := initFixture(t)
	require.NoError(t, f2.keeper.InitGenesis(f2.ctx, gs))

	acc, err := f2.keeper.GetAccount(f2.ctx, depositor.String())
	require.NoError(t, err)
	require.Equal(t, math.NewInt(3*exchangeRate), acc.Balance)
	require.Equal(t, math.NewInt(exchangeRate), acc.Reserved)
}

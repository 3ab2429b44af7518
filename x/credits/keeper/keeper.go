package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/store"
	math "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"nodenet/x/credits/types"
)

type Keeper struct {
	storeService store.KVStoreService
	cdc          codec.Codec
	addressCodec address.Codec
	bankKeeper   types.BankKeeper

	// authority is the address that can update params and sweep the ledger.
	authority    []byte
	authorityStr string

	Schema collections.Schema

	Params   collections.Item[types.Params]
	Accounts collections.Map[string, types.Account]
}

type accountValueCodec struct{}

func (accountValueCodec) Encode(value types.Account) ([]byte, error) { return json.Marshal(value) }
func (accountValueCodec) Decode(bz []byte) (types.Account, error) {
	var a types.Account
	return a, json.Unmarshal(bz, &a)
}
func (c accountValueCodec) EncodeJSON(value types.Account) ([]byte, error) { return c.Encode(value) }
func (c accountValueCodec) DecodeJSON(bz []byte) (types.Account, error)    { return c.Decode(bz) }
func (accountValueCodec) Stringify(value types.Account) string {
	return fmt.Sprintf("balance=%s,reserved=%s", value.Balance.String(), value.Reserved.String())
}
func (accountValueCodec) ValueType() string { return "credits/Account" }

type paramsValueCodec struct{}

func (paramsValueCodec) Encode(value types.Params) ([]byte, error) { return json.Marshal(value) }
func (paramsValueCodec) Decode(bz []byte) (types.Params, error) {
	var p types.Params
	return p, json.Unmarshal(bz, &p)
}
func (c paramsValueCodec) EncodeJSON(value types.Params) ([]byte, error) { return c.Encode(value) }
func (c paramsValueCodec) DecodeJSON(bz []byte) (types.Params, error)    { return c.Decode(bz) }
func (paramsValueCodec) Stringify(value types.Params) string {
	return fmt.Sprintf("denom=%s,rate=%s", value.Denom, value.ExchangeRate.String())
}
func (paramsValueCodec) ValueType() string { return "credits/Params" }

var (
	_ collcodec.ValueCodec[types.Account] = accountValueCodec{}
	_ collcodec.ValueCodec[types.Params]  = paramsValueCodec{}
)

func NewKeeper(
	storeService store.KVStoreService,
	cdc codec.Codec,
	addressCodec address.Codec,
	authority []byte,
	bankKeeper types.BankKeeper,
) Keeper {
	authorityStr, err := addressCodec.BytesToString(authority)
	if err != nil {
		panic(fmt.Sprintf("invalid authority address %x: %s", authority, err))
	}

	sb := collections.NewSchemaBuilder(storeService)

	k := Keeper{
		storeService: storeService,
		cdc:          cdc,
		addressCodec: addressCodec,
		bankKeeper:   bankKeeper,
		authority:    authority,
		authorityStr: authorityStr,

		Params:   collections.NewItem(sb, types.ParamsKey, "params", paramsValueCodec{}),
		Accounts: collections.NewMap(sb, types.AccountKeyPrefix, "accounts", collections.StringKey, accountValueCodec{}),
	}

	schema, err := sb.Build()
	if err != nil {
		panic(err)
	}
	k.Schema = schema

	return k
}

func (k Keeper) Authority() []byte { return k.authority }

// AuthorityString returns the bech32 form of the authority address.
func (k Keeper) AuthorityString() string { return k.authorityStr }

func (k Keeper) moduleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	p, err := k.Params.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DefaultParams(), nil
		}
		return types.Params{}, err
	}
	return p, nil
}

func (k Keeper) SetParams(ctx context.Context, p types.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return k.Params.Set(ctx, p)
}

func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}
	for _, a := range gs.Accounts {
		if err := k.Accounts.Set(ctx, a.Address, a.Account); err != nil {
			return err
		}
	}
	return nil
}

func (k Keeper) ExportGenesis(ctx context.Context) (types.GenesisState, error) {
	p, err := k.GetParams(ctx)
	if err != nil {
		return types.GenesisState{}, err
	}
	var accounts []types.GenesisAccount
	err = k.Accounts.Walk(ctx, nil, func(addr string, a types.Account) (bool, error) {
		accounts = append(accounts, types.GenesisAccount{Address: addr, Account: a})
		return false, nil
	})
	if err != nil {
		return types.GenesisState{}, err
	}
	return types.GenesisState{Params: p, Accounts: accounts}, nil
}

// GetAccount returns the stored-value account for addr, zeroed when the
// account has never been touched.
func (k Keeper) GetAccount(ctx context.Context, addr string) (types.Account, error) {
	a, err := k.Accounts.Get(ctx, addr)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.NewAccount(), nil
		}
		return types.Account{}, err
	}
	return a, nil
}

// AvailableBalance returns balance - reserved for addr.
func (k Keeper) AvailableBalance(ctx context.Context, addr string) (math.Int, error) {
	a, err := k.GetAccount(ctx, addr)
	if err != nil {
		return math.Int{}, err
	}
	return a.Available(), nil
}

func (k Keeper) setAccount(ctx context.Context, addr string, a types.Account) error {
	return k.Accounts.Set(ctx, addr, a)
}

func (k Keeper) requireSystemAccount(ctx context.Context, caller string) error {
	p, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if p.SystemAccount == "" {
		return types.ErrSystemAccountUnset
	}
	if caller != p.SystemAccount {
		return types.ErrUnauthorized
	}
	return nil
}

func (k Keeper) emitBalanceUpdated(ctx context.Context, addr string, newBalance, oldBalance math.Int) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventBalanceUpdated,
			sdk.NewAttribute(types.AttrAccount, addr),
			sdk.NewAttribute(types.AttrNewBalance, newBalance.String()),
			sdk.NewAttribute(types.AttrOldBalance, oldBalance.String()),
		),
	)
}

// Deposit converts value native units into credits at the configured exchange
// rate and adds them to the depositor's balance.
func (k Keeper) Deposit(ctx context.Context, depositor sdk.AccAddress, value math.Int) (credits, newBalance math.Int, err error) {
	if !value.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount
	}
	p, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	deposit := sdk.NewCoins(sdk.NewCoin(p.Denom, value))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, deposit); err != nil {
		return math.Int{}, math.Int{}, err
	}

	addr := depositor.String()
	acc, err := k.GetAccount(ctx, addr)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	credits = value.Mul(p.ExchangeRate)
	old := acc.Balance
	acc.Balance = acc.Balance.Add(credits)
	if err := k.setAccount(ctx, addr, acc); err != nil {
		return math.Int{}, math.Int{}, err
	}

	k.emitBalanceUpdated(ctx, addr, acc.Balance, old)
	return credits, acc.Balance, nil
}

// Withdraw converts credits back to native value at 1/exchangeRate and pays
// it out. Only the unreserved part of the balance may be withdrawn.
func (k Keeper) Withdraw(ctx context.Context, withdrawer sdk.AccAddress, credits math.Int) (value, newBalance math.Int, err error) {
	if !credits.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount
	}
	p, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	addr := withdrawer.String()
	acc, err := k.GetAccount(ctx, addr)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if credits.GT(acc.Available()) {
		return math.Int{}, math.Int{}, types.ErrInsufficientAllowance
	}

	value = credits.Quo(p.ExchangeRate)
	old := acc.Balance
	acc.Balance = acc.Balance.Sub(credits)
	if err := k.setAccount(ctx, addr, acc); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if value.IsPositive() {
		payout := sdk.NewCoins(sdk.NewCoin(p.Denom, value))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, withdrawer, payout); err != nil {
			return math.Int{}, math.Int{}, err
		}
	}

	k.emitBalanceUpdated(ctx, addr, acc.Balance, old)
	return value, acc.Balance, nil
}

// Reserve places a hold on amount credits of target's balance. Only the
// system account may reserve, and a reservation can never exceed the balance.
func (k Keeper) Reserve(ctx context.Context, caller, target string, amount math.Int) (math.Int, error) {
	if err := k.requireSystemAccount(ctx, caller); err != nil {
		return math.Int{}, err
	}
	if !amount.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount
	}
	acc, err := k.GetAccount(ctx, target)
	if err != nil {
		return math.Int{}, err
	}
	if acc.Reserved.Add(amount).GT(acc.Balance) {
		return math.Int{}, types.ErrInsufficientFunds
	}
	acc.Reserved = acc.Reserved.Add(amount)
	if err := k.setAccount(ctx, target, acc); err != nil {
		return math.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventReserved,
			sdk.NewAttribute(types.AttrAccount, target),
			sdk.NewAttribute(types.AttrReserved, acc.Reserved.String()),
		),
	)
	return acc.Reserved, nil
}

// TransferFromReserve settles a reservation: amount credits move from from's
// balance to to's balance, and amount + disputeAmount is released from from's
// reservation. The dispute portion stays with from but becomes available.
func (k Keeper) TransferFromReserve(ctx context.Context, caller, from, to string, amount, disputeAmount math.Int) error {
	if err := k.requireSystemAccount(ctx, caller); err != nil {
		return err
	}
	if !amount.IsPositive() || disputeAmount.IsNegative() {
		return types.ErrInvalidAmount
	}
	release := amount.Add(disputeAmount)

	fromAcc, err := k.GetAccount(ctx, from)
	if err != nil {
		return err
	}
	if release.GT(fromAcc.Reserved) {
		return types.ErrInsufficientReserve
	}
	if amount.GT(fromAcc.Balance) {
		return types.ErrInsufficientFunds
	}

	oldFrom := fromAcc.Balance
	fromAcc.Balance = fromAcc.Balance.Sub(amount)
	fromAcc.Reserved = fromAcc.Reserved.Sub(release)
	if err := k.setAccount(ctx, from, fromAcc); err != nil {
		return err
	}

	toAcc, err := k.GetAccount(ctx, to)
	if err != nil {
		return err
	}
	oldTo := toAcc.Balance
	toAcc.Balance = toAcc.Balance.Add(amount)
	if err := k.setAccount(ctx, to, toAcc); err != nil {
		return err
	}

	k.emitBalanceUpdated(ctx, from, fromAcc.Balance, oldFrom)
	k.emitBalanceUpdated(ctx, to, toAcc.Balance, oldTo)
	return nil
}

// MigrateFunds sweeps the ledger's entire native balance to recipient. This
// is the owner's last-resort escape hatch: per-account records are left
// untouched, so post-sweep balances reflect stale accounting.
func (k Keeper) MigrateFunds(ctx context.Context, recipient sdk.AccAddress) (math.Int, error) {
	p, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	bal := k.bankKeeper.GetBalance(ctx, k.moduleAddress(), p.Denom)
	if bal.Amount.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, sdk.NewCoins(bal)); err != nil {
			return math.Int{}, err
		}
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventFundsMigrated,
			sdk.NewAttribute(types.AttrRecipient, recipient.String()),
			sdk.NewAttribute(types.AttrAmount, bal.Amount.String()),
		),
	)
	return bal.Amount, nil
}

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
	errorsmod "cosmossdk.io/errors"
	math "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"nodenet/x/treasury/types"
)

type Keeper struct {
	storeService store.KVStoreService
	cdc          codec.Codec
	addressCodec address.Codec
	bankKeeper   types.BankKeeper

	// authority is the address that can update params; it also passes the
	// system-account checks so governance can operate the escrow directly.
	authority    []byte
	authorityStr string

	Schema collections.Schema

	Params             collections.Item[types.Params]
	Rentals            collections.Map[string, types.Rental]
	TotalRevenueShared collections.Item[math.Int]
}

type intValueCodec struct{}

func (intValueCodec) Encode(value math.Int) ([]byte, error) { return []byte(value.String()), nil }
func (intValueCodec) Decode(bz []byte) (math.Int, error) {
	if len(bz) == 0 {
		return math.ZeroInt(), nil
	}
	v, ok := math.NewIntFromString(string(bz))
	if !ok {
		return math.Int{}, fmt.Errorf("invalid int: %q", string(bz))
	}
	return v, nil
}
func (c intValueCodec) EncodeJSON(value math.Int) ([]byte, error) { return c.Encode(value) }
func (c intValueCodec) DecodeJSON(bz []byte) (math.Int, error)    { return c.Decode(bz) }
func (intValueCodec) Stringify(value math.Int) string             { return value.String() }
func (intValueCodec) ValueType() string                           { return "treasury/Int" }

type rentalValueCodec struct{}

func (rentalValueCodec) Encode(value types.Rental) ([]byte, error) { return json.Marshal(value) }
func (rentalValueCodec) Decode(bz []byte) (types.Rental, error) {
	var r types.Rental
	return r, json.Unmarshal(bz, &r)
}
func (c rentalValueCodec) EncodeJSON(value types.Rental) ([]byte, error) { return c.Encode(value) }
func (c rentalValueCodec) DecodeJSON(bz []byte) (types.Rental, error)    { return c.Decode(bz) }
func (rentalValueCodec) Stringify(value types.Rental) string {
	return fmt.Sprintf("renter=%s,pending=%s,active=%t", value.Renter, value.PendingAmount.String(), value.Active)
}
func (rentalValueCodec) ValueType() string { return "treasury/Rental" }

type paramsValueCodec struct{}

func (paramsValueCodec) Encode(value types.Params) ([]byte, error) { return json.Marshal(value) }
func (paramsValueCodec) Decode(bz []byte) (types.Params, error) {
	var p types.Params
	return p, json.Unmarshal(bz, &p)
}
func (c paramsValueCodec) EncodeJSON(value types.Params) ([]byte, error) { return c.Encode(value) }
func (c paramsValueCodec) DecodeJSON(bz []byte) (types.Params, error)    { return c.Decode(bz) }
func (paramsValueCodec) Stringify(value types.Params) string {
	return fmt.Sprintf("denom=%s,share=%d", value.Denom, value.RevenueSharePercent)
}
func (paramsValueCodec) ValueType() string { return "treasury/Params" }

var (
	_ collcodec.ValueCodec[math.Int]     = intValueCodec{}
	_ collcodec.ValueCodec[types.Rental] = rentalValueCodec{}
	_ collcodec.ValueCodec[types.Params] = paramsValueCodec{}
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

		Params:             collections.NewItem(sb, types.ParamsKey, "params", paramsValueCodec{}),
		Rentals:            collections.NewMap(sb, types.RentalKeyPrefix, "rentals", collections.StringKey, rentalValueCodec{}),
		TotalRevenueShared: collections.NewItem(sb, types.TotalRevenueSharedKey, "total_revenue_shared", intValueCodec{}),
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

func (k Keeper) GetTotalRevenueShared(ctx context.Context) (math.Int, error) {
	total, err := k.TotalRevenueShared.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.Int{}, err
	}
	return total, nil
}

func (k Keeper) GetRental(ctx context.Context, id string) (types.Rental, error) {
	r, err := k.Rentals.Get(ctx, id)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Rental{}, errorsmod.Wrapf(types.ErrRentalNotFound, "rental %q", id)
		}
		return types.Rental{}, err
	}
	return r, nil
}

func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, gs.Params); err != nil {
		return err
	}
	if err := k.TotalRevenueShared.Set(ctx, gs.TotalRevenueShared); err != nil {
		return err
	}
	for _, r := range gs.Rentals {
		if err := k.Rentals.Set(ctx, r.Id, r.Rental); err != nil {
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
	total, err := k.GetTotalRevenueShared(ctx)
	if err != nil {
		return types.GenesisState{}, err
	}
	var rentals []types.GenesisRental
	err = k.Rentals.Walk(ctx, nil, func(id string, r types.Rental) (bool, error) {
		rentals = append(rentals, types.GenesisRental{Id: id, Rental: r})
		return false, nil
	})
	if err != nil {
		return types.GenesisState{}, err
	}
	return types.GenesisState{Params: p, Rentals: rentals, TotalRevenueShared: total}, nil
}

// requireSystemOrAuthority allows the configured system account and the
// module authority through; everyone else is rejected.
func (k Keeper) requireSystemOrAuthority(ctx context.Context, caller string) error {
	if caller == k.authorityStr {
		return nil
	}
	p, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if p.SystemAccount != "" && caller == p.SystemAccount {
		return nil
	}
	return errorsmod.Wrap(types.ErrUnauthorized, "caller is not the system account or authority")
}

// Deposit escrows value for a new rental under id. The record starts
// inactive; SetRentalInfo assigns the lender and starts the clock.
func (k Keeper) Deposit(ctx context.Context, renter sdk.AccAddress, id string, value math.Int) error {
	p, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if p.Paused {
		return types.ErrTreasuryPaused
	}
	if !value.IsPositive() {
		return types.ErrInvalidDeposit
	}
	exists, err := k.Rentals.Has(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return errorsmod.Wrapf(types.ErrDuplicateRental, "rental %q", id)
	}

	deposit := sdk.NewCoins(sdk.NewCoin(p.Denom, value))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, renter, types.ModuleName, deposit); err != nil {
		return err
	}
	if err := k.Rentals.Set(ctx, id, types.NewRental(renter.String(), value)); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventDeposited,
			sdk.NewAttribute(types.AttrRentalID, id),
			sdk.NewAttribute(types.AttrRenter, renter.String()),
			sdk.NewAttribute(types.AttrAmount, value.String()),
		),
	)
	return nil
}

// SetRentalInfo activates a deposited rental: assigns the lender, sets the
// end time, and records the activation time as the rental start.
func (k Keeper) SetRentalInfo(ctx context.Context, caller, id, lender string, endTime int64) error {
	if err := k.requireSystemOrAuthority(ctx, caller); err != nil {
		return err
	}
	r, err := k.GetRental(ctx, id)
	if err != nil {
		return err
	}
	r.Lender = lender
	r.EndTime = endTime
	r.StartTime = sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
	r.Active = true
	if err := k.Rentals.Set(ctx, id, r); err != nil {
		return err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventRentalActivated,
			sdk.NewAttribute(types.AttrRentalID, id),
			sdk.NewAttribute(types.AttrLender, lender),
		),
	)
	return nil
}

// Withdraw settles an active rental: the revenue share goes to the
// configured recipient, the remainder to the lender. Only the lender may
// withdraw, and only once the end time has passed (an end time of 0 means on
// demand).
func (k Keeper) Withdraw(ctx context.Context, caller sdk.AccAddress, id string) (paid, share math.Int, err error) {
	r, err := k.GetRental(ctx, id)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if !r.Active {
		return math.Int{}, math.Int{}, types.ErrRentalNotActive
	}
	if caller.String() != r.Lender {
		return math.Int{}, math.Int{}, errorsmod.Wrap(types.ErrUnauthorized, "only the lender can withdraw")
	}
	if r.Ended {
		return math.Int{}, math.Int{}, types.ErrRentalEnded
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if r.EndTime != 0 && sdkCtx.BlockTime().Unix() < r.EndTime {
		return math.Int{}, math.Int{}, types.ErrRentalNotEnded
	}
	p, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if p.RevenueShareRecipient == "" {
		return math.Int{}, math.Int{}, types.ErrRecipientUnset
	}
	recipient, err := k.addressCodec.StringToBytes(p.RevenueShareRecipient)
	if err != nil {
		return math.Int{}, math.Int{}, errorsmod.Wrap(err, "invalid revenue share recipient")
	}

	share = r.PendingAmount.Mul(math.NewInt(int64(p.RevenueSharePercent))).Quo(math.NewInt(100))
	paid = r.PendingAmount.Sub(share)

	if paid.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, caller, sdk.NewCoins(sdk.NewCoin(p.Denom, paid))); err != nil {
			return math.Int{}, math.Int{}, err
		}
	}
	if share.IsPositive() {
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sdk.AccAddress(recipient), sdk.NewCoins(sdk.NewCoin(p.Denom, share))); err != nil {
			return math.Int{}, math.Int{}, err
		}
	}

	r.Ended = true
	r.PendingAmount = math.ZeroInt()
	if err := k.Rentals.Set(ctx, id, r); err != nil {
		return math.Int{}, math.Int{}, err
	}
	total, err := k.GetTotalRevenueShared(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if err := k.TotalRevenueShared.Set(ctx, total.Add(share)); err != nil {
		return math.Int{}, math.Int{}, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(types.EventWithdraw,
			sdk.NewAttribute(types.AttrRentalID, id),
			sdk.NewAttribute(types.AttrLender, r.Lender),
			sdk.NewAttribute(types.AttrAmount, paid.String()),
			sdk.NewAttribute(types.AttrShare, share.String()),
		),
	)
	return paid, share, nil
}

// RaiseDispute moves part of a rental's pending escrow into the dispute
// bucket, where the renter can claim it back.
func (k Keeper) RaiseDispute(ctx context.Context, caller, id string, amount math.Int) (math.Int, error) {
	if err := k.requireSystemOrAuthority(ctx, caller); err != nil {
		return math.Int{}, err
	}
	r, err := k.GetRental(ctx, id)
	if err != nil {
		return math.Int{}, err
	}
	if !r.Active {
		return math.Int{}, types.ErrRentalNotActive
	}
	if !amount.IsPositive() || amount.GT(r.PendingAmount) {
		return math.Int{}, types.ErrInvalidDispute
	}

	r.PendingAmount = r.PendingAmount.Sub(amount)
	r.PendingDisputeAmount = r.PendingDisputeAmount.Add(amount)
	r.TotalDisputeAmount = r.TotalDisputeAmount.Add(amount)
	if err := k.Rentals.Set(ctx, id, r); err != nil {
		return math.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventDispute,
			sdk.NewAttribute(types.AttrRentalID, id),
			sdk.NewAttribute(types.AttrAmount, amount.String()),
		),
	)
	return r.PendingDisputeAmount, nil
}

// ClaimRefund pays a rental's pending dispute amount back to the renter.
func (k Keeper) ClaimRefund(ctx context.Context, caller sdk.AccAddress, id string) (math.Int, error) {
	r, err := k.GetRental(ctx, id)
	if err != nil {
		return math.Int{}, err
	}
	if caller.String() != r.Renter {
		return math.Int{}, errorsmod.Wrap(types.ErrUnauthorized, "only the renter can claim a refund")
	}
	if !r.PendingDisputeAmount.IsPositive() {
		return math.Int{}, types.ErrNoDispute
	}
	p, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}

	refund := r.PendingDisputeAmount
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, caller, sdk.NewCoins(sdk.NewCoin(p.Denom, refund))); err != nil {
		return math.Int{}, err
	}
	r.PendingDisputeAmount = math.ZeroInt()
	if err := k.Rentals.Set(ctx, id, r); err != nil {
		return math.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventRefund,
			sdk.NewAttribute(types.AttrRentalID, id),
			sdk.NewAttribute(types.AttrRenter, r.Renter),
			sdk.NewAttribute(types.AttrAmount, refund.String()),
		),
	)
	return refund, nil
}

// SetPaused toggles the deposit gate. Re-setting the current value fails so
// a mistyped governance proposal is visible.
func (k Keeper) SetPaused(ctx context.Context, paused bool) error {
	p, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if p.Paused == paused {
		return types.ErrNoOp
	}
	p.Paused = paused
	return k.Params.Set(ctx, p)
}

func (k Keeper) SetRevenueShare(ctx context.Context, percent uint32) error {
	if percent > 100 {
		return types.ErrInvalidPercent
	}
	p, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	p.RevenueSharePercent = percent
	return k.Params.Set(ctx, p)
}

func (k Keeper) SetRevenueShareRecipient(ctx context.Context, recipient string) error {
	if _, err := k.addressCodec.StringToBytes(recipient); err != nil {
		return errorsmod.Wrap(err, "invalid revenue share recipient")
	}
	p, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	p.RevenueShareRecipient = recipient
	return k.Params.Set(ctx, p)
}

func (k Keeper) SetSystemAccount(ctx context.Context, account string) error {
	if account != "" {
		if _, err := k.addressCodec.StringToBytes(account); err != nil {
			return errorsmod.Wrap(err, "invalid system account")
		}
	}
	p, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	p.SystemAccount = account
	return k.Params.Set(ctx, p)
}

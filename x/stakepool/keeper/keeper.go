package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"cosmossdk.io/collections"
	collcodec "cosmossdk.io/collections/codec"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/store"
	math "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"nodenet/x/stakepool/types"
)

type Keeper struct {
	storeService store.KVStoreService
	cdc          codec.Codec
	addressCodec address.Codec
	bankKeeper   types.BankKeeper

	// authority is the address that can update params and sweep the pool.
	authority    []byte
	authorityStr string

	Schema collections.Schema

	Params      collections.Item[types.Params]
	TotalStaked collections.Item[math.Int]
	// Stakes holds every stake entry keyed by (owner, index). Indices are
	// append-only and never compacted; StakeCounts tracks the next index
	// per owner.
	Stakes      collections.Map[collections.Pair[string, uint64], types.StakeEntry]
	StakeCounts collections.Map[string, uint64]
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
func (intValueCodec) ValueType() string                           { return "stakepool/Int" }

type entryValueCodec struct{}

func (entryValueCodec) Encode(value types.StakeEntry) ([]byte, error) { return json.Marshal(value) }
func (entryValueCodec) Decode(bz []byte) (types.StakeEntry, error) {
	var e types.StakeEntry
	return e, json.Unmarshal(bz, &e)
}
func (c entryValueCodec) EncodeJSON(value types.StakeEntry) ([]byte, error) { return c.Encode(value) }
func (c entryValueCodec) DecodeJSON(bz []byte) (types.StakeEntry, error)    { return c.Decode(bz) }
func (entryValueCodec) Stringify(value types.StakeEntry) string {
	return fmt.Sprintf("owner=%s,amount=%s,start=%d", value.Owner, value.Amount.String(), value.StartTime)
}
func (entryValueCodec) ValueType() string { return "stakepool/StakeEntry" }

type paramsValueCodec struct{}

func (paramsValueCodec) Encode(value types.Params) ([]byte, error) { return json.Marshal(value) }
func (paramsValueCodec) Decode(bz []byte) (types.Params, error) {
	var p types.Params
	return p, json.Unmarshal(bz, &p)
}
func (c paramsValueCodec) EncodeJSON(value types.Params) ([]byte, error) { return c.Encode(value) }
func (c paramsValueCodec) DecodeJSON(bz []byte) (types.Params, error)    { return c.Decode(bz) }
func (paramsValueCodec) Stringify(value types.Params) string {
	return fmt.Sprintf("stake_denom=%s,period=%d", value.StakeDenom, value.StakingPeriodSeconds)
}
func (paramsValueCodec) ValueType() string { return "stakepool/Params" }

var (
	_ collcodec.ValueCodec[math.Int]         = intValueCodec{}
	_ collcodec.ValueCodec[types.StakeEntry] = entryValueCodec{}
	_ collcodec.ValueCodec[types.Params]     = paramsValueCodec{}
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

		Params:      collections.NewItem(sb, types.ParamsKey, "params", paramsValueCodec{}),
		TotalStaked: collections.NewItem(sb, types.TotalStakedKey, "total_staked", intValueCodec{}),
		Stakes: collections.NewMap(sb, types.StakeKeyPrefix, "stakes",
			collections.PairKeyCodec(collections.StringKey, collections.Uint64Key), entryValueCodec{}),
		StakeCounts: collections.NewMap(sb, types.StakeCountPrefix, "stake_counts", collections.StringKey, collections.Uint64Value),
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
	total := math.ZeroInt()
	counts := make(map[string]uint64)
	for _, e := range gs.Entries {
		idx := counts[e.Owner]
		if err := k.Stakes.Set(ctx, collections.Join(e.Owner, idx), e); err != nil {
			return err
		}
		counts[e.Owner] = idx + 1
		total = total.Add(e.Amount)
	}
	for owner, n := range counts {
		if err := k.StakeCounts.Set(ctx, owner, n); err != nil {
			return err
		}
	}
	return k.TotalStaked.Set(ctx, total)
}

func (k Keeper) ExportGenesis(ctx context.Context) (types.GenesisState, error) {
	p, err := k.GetParams(ctx)
	if err != nil {
		return types.GenesisState{}, err
	}
	var entries []types.StakeEntry
	err = k.Stakes.Walk(ctx, nil, func(_ collections.Pair[string, uint64], e types.StakeEntry) (bool, error) {
		entries = append(entries, e)
		return false, nil
	})
	if err != nil {
		return types.GenesisState{}, err
	}
	return types.GenesisState{Params: p, Entries: entries}, nil
}

func (k Keeper) getTotalStaked(ctx context.Context) (math.Int, error) {
	v, err := k.TotalStaked.Get(ctx)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.Int{}, err
	}
	return v, nil
}

func (k Keeper) getStakeCount(ctx context.Context, owner string) (uint64, error) {
	n, err := k.StakeCounts.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// getEntry loads the stake entry at (owner, index), failing with
// ErrInvalidIndex when the index was never assigned.
func (k Keeper) getEntry(ctx context.Context, owner string, index uint64) (types.StakeEntry, error) {
	count, err := k.getStakeCount(ctx, owner)
	if err != nil {
		return types.StakeEntry{}, err
	}
	if index >= count {
		return types.StakeEntry{}, types.ErrInvalidIndex
	}
	return k.Stakes.Get(ctx, collections.Join(owner, index))
}

// WalletStaked returns the sum of all live entry amounts for an owner.
func (k Keeper) WalletStaked(ctx context.Context, owner string) (math.Int, error) {
	total := math.ZeroInt()
	rng := collections.NewPrefixedPairRange[string, uint64](owner)
	err := k.Stakes.Walk(ctx, rng, func(_ collections.Pair[string, uint64], e types.StakeEntry) (bool, error) {
		total = total.Add(e.Amount)
		return false, nil
	})
	if err != nil {
		return math.Int{}, err
	}
	return total, nil
}

// StakeEntries returns the owner's full entry sequence in index order.
func (k Keeper) StakeEntries(ctx context.Context, owner string) ([]types.StakeEntry, error) {
	var entries []types.StakeEntry
	rng := collections.NewPrefixedPairRange[string, uint64](owner)
	err := k.Stakes.Walk(ctx, rng, func(_ collections.Pair[string, uint64], e types.StakeEntry) (bool, error) {
		entries = append(entries, e)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func blockTime(ctx context.Context) int64 {
	return sdk.UnwrapSDKContext(ctx).BlockTime().Unix()
}

// Stake locks amount stake tokens for staker and appends a new entry.
func (k Keeper) Stake(ctx context.Context, staker sdk.AccAddress, amount math.Int) (uint64, math.Int, error) {
	p, err := k.GetParams(ctx)
	if err != nil {
		return 0, math.Int{}, err
	}
	if p.Paused {
		return 0, math.Int{}, types.ErrPoolPaused
	}
	if !amount.IsPositive() {
		return 0, math.Int{}, types.ErrInvalidAmount
	}

	owner := staker.String()
	walletStaked, err := k.WalletStaked(ctx, owner)
	if err != nil {
		return 0, math.Int{}, err
	}
	if amount.GT(p.MaxPerWallet) || walletStaked.Add(amount).GT(p.MaxPerWallet) {
		return 0, math.Int{}, types.ErrLimitExceeded
	}
	total, err := k.getTotalStaked(ctx)
	if err != nil {
		return 0, math.Int{}, err
	}
	if total.Add(amount).GT(p.MaxTotalStaked) {
		return 0, math.Int{}, types.ErrLimitExceeded
	}

	deposit := sdk.NewCoins(sdk.NewCoin(p.StakeDenom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, staker, types.ModuleName, deposit); err != nil {
		return 0, math.Int{}, err
	}

	now := blockTime(ctx)
	index, err := k.getStakeCount(ctx, owner)
	if err != nil {
		return 0, math.Int{}, err
	}
	entry := types.StakeEntry{Owner: owner, Amount: amount, StartTime: now, LastClaim: now}
	if err := k.Stakes.Set(ctx, collections.Join(owner, index), entry); err != nil {
		return 0, math.Int{}, err
	}
	if err := k.StakeCounts.Set(ctx, owner, index+1); err != nil {
		return 0, math.Int{}, err
	}
	if err := k.TotalStaked.Set(ctx, total.Add(amount)); err != nil {
		return 0, math.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventStaked,
			sdk.NewAttribute(types.AttrOwner, owner),
			sdk.NewAttribute(types.AttrAmount, amount.String()),
			sdk.NewAttribute(types.AttrIndex, strconv.FormatUint(index, 10)),
		),
	)

	return index, walletStaked.Add(amount), nil
}

// Unstake releases amount from the entry at index once the lock has elapsed.
// The full amount is returned to the staker, no penalty.
func (k Keeper) Unstake(ctx context.Context, staker sdk.AccAddress, index uint64, amount math.Int) (math.Int, error) {
	p, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	if !amount.IsPositive() {
		return math.Int{}, types.ErrInvalidAmount
	}
	owner := staker.String()
	entry, err := k.getEntry(ctx, owner, index)
	if err != nil {
		return math.Int{}, err
	}
	if amount.GT(entry.Amount) {
		return math.Int{}, types.ErrInsufficientStake
	}
	if blockTime(ctx)-entry.StartTime < p.StakingPeriodSeconds {
		return math.Int{}, types.ErrStakeLocked
	}

	if err := k.reduceEntry(ctx, owner, index, entry, amount); err != nil {
		return math.Int{}, err
	}
	payout := sdk.NewCoins(sdk.NewCoin(p.StakeDenom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, staker, payout); err != nil {
		return math.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventUnstaked,
			sdk.NewAttribute(types.AttrOwner, owner),
			sdk.NewAttribute(types.AttrAmount, amount.String()),
			sdk.NewAttribute(types.AttrIndex, strconv.FormatUint(index, 10)),
		),
	)

	return entry.Amount.Sub(amount), nil
}

// EarlyUnstake releases amount before the lock elapses, charging a penalty
// that decays linearly from the configured percentage to zero over the
// staking period. The penalty is sent to the dead wallet.
func (k Keeper) EarlyUnstake(ctx context.Context, staker sdk.AccAddress, index uint64, amount math.Int) (penalty, returned math.Int, err error) {
	p, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if !amount.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount
	}
	owner := staker.String()
	entry, err := k.getEntry(ctx, owner, index)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if amount.GT(entry.Amount) {
		return math.Int{}, math.Int{}, types.ErrInsufficientStake
	}
	elapsed := blockTime(ctx) - entry.StartTime
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= p.StakingPeriodSeconds {
		return math.Int{}, math.Int{}, types.ErrNotEarly
	}
	if p.DeadWallet == "" {
		return math.Int{}, math.Int{}, types.ErrDeadWalletUnset
	}
	deadAddr, err := k.addressCodec.StringToBytes(p.DeadWallet)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrDeadWalletUnset
	}

	// penaltyPct = pen - elapsed*pen/period, truncating at each division.
	pen := math.NewInt(int64(p.EarlyUnstakePenaltyPercent))
	decayed := math.NewInt(elapsed).Mul(pen).Quo(math.NewInt(p.StakingPeriodSeconds))
	penaltyPct := pen.Sub(decayed)
	penalty = amount.Mul(penaltyPct).Quo(math.NewInt(100))
	returned = amount.Sub(penalty)

	if err := k.reduceEntry(ctx, owner, index, entry, amount); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if penalty.IsPositive() {
		burn := sdk.NewCoins(sdk.NewCoin(p.StakeDenom, penalty))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, sdk.AccAddress(deadAddr), burn); err != nil {
			return math.Int{}, math.Int{}, err
		}
	}
	if returned.IsPositive() {
		payout := sdk.NewCoins(sdk.NewCoin(p.StakeDenom, returned))
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, staker, payout); err != nil {
			return math.Int{}, math.Int{}, err
		}
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventUnstaked,
			sdk.NewAttribute(types.AttrOwner, owner),
			sdk.NewAttribute(types.AttrAmount, amount.String()),
			sdk.NewAttribute(types.AttrIndex, strconv.FormatUint(index, 10)),
			sdk.NewAttribute(types.AttrPenalty, penalty.String()),
		),
	)

	return penalty, returned, nil
}

// reduceEntry decreases the entry's amount and the pool total by amount.
func (k Keeper) reduceEntry(ctx context.Context, owner string, index uint64, entry types.StakeEntry, amount math.Int) error {
	entry.Amount = entry.Amount.Sub(amount)
	if err := k.Stakes.Set(ctx, collections.Join(owner, index), entry); err != nil {
		return err
	}
	total, err := k.getTotalStaked(ctx)
	if err != nil {
		return err
	}
	return k.TotalStaked.Set(ctx, total.Sub(amount))
}

// CalculateReward estimates the entry's current entitlement against the
// pool's native-value balance: pot * amount * claimableSeconds / period /
// totalStaked. claimableSeconds is the unclaimed part of the entry's accrual
// window, capped at the staking period.
func (k Keeper) CalculateReward(ctx context.Context, owner string, index uint64) (math.Int, error) {
	p, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	entry, err := k.getEntry(ctx, owner, index)
	if err != nil {
		return math.Int{}, err
	}
	total, err := k.getTotalStaked(ctx)
	if err != nil {
		return math.Int{}, err
	}
	pot := k.bankKeeper.GetBalance(ctx, k.moduleAddress(), p.RewardDenom).Amount
	if !total.IsPositive() || !pot.IsPositive() || !entry.Amount.IsPositive() {
		return math.ZeroInt(), nil
	}

	now := blockTime(ctx)
	capSeconds := func(t int64) int64 {
		e := t - entry.StartTime
		if e < 0 {
			e = 0
		}
		if e > p.StakingPeriodSeconds {
			e = p.StakingPeriodSeconds
		}
		return e
	}
	claimable := capSeconds(now) - capSeconds(entry.LastClaim)
	if claimable <= 0 {
		return math.ZeroInt(), nil
	}

	reward := pot.Mul(entry.Amount).Mul(math.NewInt(claimable)).
		Quo(math.NewInt(p.StakingPeriodSeconds)).Quo(total)
	return reward, nil
}

// ClaimRewards pays the entry's current reward to the staker and records the
// claim checkpoint.
func (k Keeper) ClaimRewards(ctx context.Context, staker sdk.AccAddress, index uint64) (math.Int, error) {
	p, err := k.GetParams(ctx)
	if err != nil {
		return math.Int{}, err
	}
	owner := staker.String()
	entry, err := k.getEntry(ctx, owner, index)
	if err != nil {
		return math.Int{}, err
	}
	pot := k.bankKeeper.GetBalance(ctx, k.moduleAddress(), p.RewardDenom).Amount
	if !pot.IsPositive() {
		return math.Int{}, types.ErrNoRewards
	}
	reward, err := k.CalculateReward(ctx, owner, index)
	if err != nil {
		return math.Int{}, err
	}
	if !reward.IsPositive() {
		return math.Int{}, types.ErrNoRewards
	}

	payout := sdk.NewCoins(sdk.NewCoin(p.RewardDenom, reward))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, staker, payout); err != nil {
		return math.Int{}, err
	}
	entry.LastClaim = blockTime(ctx)
	if err := k.Stakes.Set(ctx, collections.Join(owner, index), entry); err != nil {
		return math.Int{}, err
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventRewardPaid,
			sdk.NewAttribute(types.AttrOwner, owner),
			sdk.NewAttribute(types.AttrReward, reward.String()),
		),
	)

	return reward, nil
}

// FundRewards moves native value from the funder into the reward pot.
func (k Keeper) FundRewards(ctx context.Context, funder sdk.AccAddress, amount math.Int) error {
	if !amount.IsPositive() {
		return types.ErrInvalidAmount
	}
	p, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	coins := sdk.NewCoins(sdk.NewCoin(p.RewardDenom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, funder, types.ModuleName, coins); err != nil {
		return err
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventRewardsFunded,
			sdk.NewAttribute(types.AttrOwner, funder.String()),
			sdk.NewAttribute(types.AttrAmount, amount.String()),
		),
	)
	return nil
}

// Migrate sweeps the pool's entire stake-token and native-value balance to
// recipient. This is the decommission path: per-entry records are left in
// place, and reward claims starve once the pot is empty.
func (k Keeper) Migrate(ctx context.Context, recipient sdk.AccAddress) error {
	p, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	for _, denom := range []string{p.StakeDenom, p.RewardDenom} {
		bal := k.bankKeeper.GetBalance(ctx, k.moduleAddress(), denom)
		if bal.Amount.IsPositive() {
			if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, sdk.NewCoins(bal)); err != nil {
				return err
			}
		}
	}
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(types.EventMigrated,
			sdk.NewAttribute(types.AttrRecipient, recipient.String()),
		),
	)
	return nil
}

package app

import (
	storetypes "cosmossdk.io/store/types"

	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	creditskeeper "nodenet/x/credits/keeper"
	creditsmodule "nodenet/x/credits/module"
	creditstypes "nodenet/x/credits/types"
	stakepoolkeeper "nodenet/x/stakepool/keeper"
	stakepoolmodule "nodenet/x/stakepool/module"
	stakepooltypes "nodenet/x/stakepool/types"
	treasurykeeper "nodenet/x/treasury/keeper"
	treasurymodule "nodenet/x/treasury/module"
	treasurytypes "nodenet/x/treasury/types"
)

// registerSettlementModules wires the stakepool, credits and treasury modules
// into the app. They carry no proto module configs, so their stores, keepers
// and AppModules are registered by hand after the runtime app is built.
func (app *App) registerSettlementModules() error {
	stakepoolKey := storetypes.NewKVStoreKey(stakepooltypes.StoreKey)
	creditsKey := storetypes.NewKVStoreKey(creditstypes.StoreKey)
	treasuryKey := storetypes.NewKVStoreKey(treasurytypes.StoreKey)

	if err := app.RegisterStores(stakepoolKey, creditsKey, treasuryKey); err != nil {
		return err
	}

	addressCodec := addresscodec.NewBech32Codec(AccountAddressPrefix)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	app.StakepoolKeeper = stakepoolkeeper.NewKeeper(
		runtime.NewKVStoreService(stakepoolKey),
		app.appCodec,
		addressCodec,
		authority,
		app.BankKeeper,
	)
	app.CreditsKeeper = creditskeeper.NewKeeper(
		runtime.NewKVStoreService(creditsKey),
		app.appCodec,
		addressCodec,
		authority,
		app.BankKeeper,
	)
	app.TreasuryKeeper = treasurykeeper.NewKeeper(
		runtime.NewKVStoreService(treasuryKey),
		app.appCodec,
		addressCodec,
		authority,
		app.BankKeeper,
	)

	return app.RegisterModules(
		stakepoolmodule.NewAppModule(app.StakepoolKeeper),
		creditsmodule.NewAppModule(app.CreditsKeeper),
		treasurymodule.NewAppModule(app.TreasuryKeeper),
	)
}

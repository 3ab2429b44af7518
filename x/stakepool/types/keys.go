package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name
	ModuleName = "stakepool"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for the module
	RouterKey = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_stakepool"

	// GovModuleName duplicates the gov module's name to avoid a dependency with x/gov.
	GovModuleName = "gov"
)

var (
	ParamsKey         = collections.NewPrefix("p_stakepool")
	TotalStakedKey    = collections.NewPrefix("t_stakepool")
	StakeKeyPrefix    = collections.NewPrefix("s_stakepool")
	StakeCountPrefix  = collections.NewPrefix("c_stakepool")
)

// KeyPrefix returns a key prefix from a string
func KeyPrefix(p string) []byte { return []byte(p) }

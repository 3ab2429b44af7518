package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name
	ModuleName = "credits"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for the module
	RouterKey = ModuleName

	// MemStoreKey defines the in-memory store key
	MemStoreKey = "mem_credits"

	// GovModuleName duplicates the gov module's name to avoid a dependency with x/gov.
	GovModuleName = "gov"
)

var (
	ParamsKey        = collections.NewPrefix("p_credits")
	AccountKeyPrefix = collections.NewPrefix("a_credits")
)

// KeyPrefix returns a key prefix from a string
func KeyPrefix(p string) []byte { return []byte(p) }

package types

import "fmt"

// GenesisAccount pairs an address with its stored-value account.
type GenesisAccount struct {
	Address string  `json:"address"`
	Account Account `json:"account"`
}

// GenesisState defines the credits module's genesis state.
type GenesisState struct {
	Params   Params           `json:"params"`
	Accounts []GenesisAccount `json:"accounts,omitempty"`
}

func DefaultGenesis() GenesisState {
	return GenesisState{Params: DefaultParams()}
}

func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	for _, a := range gs.Accounts {
		if a.Address == "" {
			return fmt.Errorf("account address cannot be empty")
		}
		if a.Account.Balance.IsNil() || a.Account.Balance.IsNegative() {
			return fmt.Errorf("account %s: balance must be non-negative", a.Address)
		}
		if a.Account.Reserved.IsNil() || a.Account.Reserved.IsNegative() {
			return fmt.Errorf("account %s: reserved must be non-negative", a.Address)
		}
		if a.Account.Reserved.GT(a.Account.Balance) {
			return fmt.Errorf("account %s: reserved exceeds balance", a.Address)
		}
	}
	return nil
}

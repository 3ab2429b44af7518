package types

import "fmt"

// GenesisState defines the stakepool module's genesis state.
type GenesisState struct {
	Params  Params       `json:"params"`
	Entries []StakeEntry `json:"entries,omitempty"`
}

func DefaultGenesis() GenesisState {
	return GenesisState{Params: DefaultParams()}
}

func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}
	for i, e := range gs.Entries {
		if e.Owner == "" {
			return fmt.Errorf("entry %d: owner cannot be empty", i)
		}
		if e.Amount.IsNil() || e.Amount.IsNegative() {
			return fmt.Errorf("entry %d: amount must be non-negative", i)
		}
	}
	return nil
}

package types

import (
	"context"
)

type MsgDeposit struct {
	Creator string `json:"creator"`
	// Amount is the deposited native value, in the ledger denom's base units.
	Amount string `json:"amount"`
}

type MsgDepositResponse struct {
	Credits    string `json:"credits"`
	NewBalance string `json:"new_balance"`
}

type MsgWithdraw struct {
	Creator string `json:"creator"`
	// Credits is the number of credits to convert back to native value.
	Credits string `json:"credits"`
}

type MsgWithdrawResponse struct {
	Value      string `json:"value"`
	NewBalance string `json:"new_balance"`
}

type MsgReserveCredits struct {
	Creator string `json:"creator"`
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type MsgReserveCreditsResponse struct {
	Reserved string `json:"reserved"`
}

// MsgTransferCreditsFromReserve settles a reservation: Amount credits move
// from From's balance to To's balance, and Amount + DisputeAmount is released
// from From's reservation. The dispute portion stays in From's balance but
// becomes available again.
type MsgTransferCreditsFromReserve struct {
	Creator       string `json:"creator"`
	From          string `json:"from"`
	To            string `json:"to"`
	Amount        string `json:"amount"`
	DisputeAmount string `json:"dispute_amount"`
}

type MsgTransferCreditsFromReserveResponse struct{}

type MsgMigrateFunds struct {
	Authority string `json:"authority"`
}

type MsgMigrateFundsResponse struct {
	Swept string `json:"swept"`
}

type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// MsgServer defines the credits Msg service.
type MsgServer interface {
	Deposit(ctx context.Context, msg *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(ctx context.Context, msg *MsgWithdraw) (*MsgWithdrawResponse, error)
	ReserveCredits(ctx context.Context, msg *MsgReserveCredits) (*MsgReserveCreditsResponse, error)
	TransferCreditsFromReserve(ctx context.Context, msg *MsgTransferCreditsFromReserve) (*MsgTransferCreditsFromReserveResponse, error)
	MigrateFunds(ctx context.Context, msg *MsgMigrateFunds) (*MsgMigrateFundsResponse, error)
	UpdateParams(ctx context.Context, msg *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryAccountRequest struct {
	Address string `json:"address"`
}

type QueryAccountResponse struct {
	Balance   string `json:"balance"`
	Reserved  string `json:"reserved"`
	Available string `json:"available"`
}

// QueryServer defines the credits Query service.
type QueryServer interface {
	Params(ctx context.Context, req *QueryParamsRequest) (*QueryParamsResponse, error)
	Account(ctx context.Context, req *QueryAccountRequest) (*QueryAccountResponse, error)
}

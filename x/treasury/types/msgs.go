package types

import (
	"context"
)

type MsgDeposit struct {
	Creator string `json:"creator"`
	// RentalId is a caller-chosen unique escrow key.
	RentalId string `json:"rental_id"`
	// Amount is the escrowed native value, in the treasury denom's base units.
	Amount string `json:"amount"`
}

type MsgDepositResponse struct{}

// MsgSetRentalInfo activates a deposited rental by assigning the lender and
// the rental end time. An end time of 0 makes the rental withdrawable on
// demand.
type MsgSetRentalInfo struct {
	Creator  string `json:"creator"`
	RentalId string `json:"rental_id"`
	Lender   string `json:"lender"`
	EndTime  int64  `json:"end_time"`
}

type MsgSetRentalInfoResponse struct{}

type MsgWithdraw struct {
	Creator  string `json:"creator"`
	RentalId string `json:"rental_id"`
}

type MsgWithdrawResponse struct {
	// Paid is the amount sent to the lender after the revenue share.
	Paid  string `json:"paid"`
	Share string `json:"share"`
}

type MsgRaiseDispute struct {
	Creator  string `json:"creator"`
	RentalId string `json:"rental_id"`
	Amount   string `json:"amount"`
}

type MsgRaiseDisputeResponse struct {
	PendingDispute string `json:"pending_dispute"`
}

type MsgClaimRefund struct {
	Creator  string `json:"creator"`
	RentalId string `json:"rental_id"`
}

type MsgClaimRefundResponse struct {
	Refunded string `json:"refunded"`
}

type MsgSetPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

type MsgSetPausedResponse struct{}

type MsgSetRevenueShare struct {
	Authority string `json:"authority"`
	Percent   uint32 `json:"percent"`
}

type MsgSetRevenueShareResponse struct{}

type MsgSetRevenueShareRecipient struct {
	Authority string `json:"authority"`
	Recipient string `json:"recipient"`
}

type MsgSetRevenueShareRecipientResponse struct{}

type MsgSetSystemAccount struct {
	Authority string `json:"authority"`
	Account   string `json:"account"`
}

type MsgSetSystemAccountResponse struct{}

type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

type MsgUpdateParamsResponse struct{}

// MsgServer defines the treasury Msg service.
type MsgServer interface {
	Deposit(ctx context.Context, msg *MsgDeposit) (*MsgDepositResponse, error)
	SetRentalInfo(ctx context.Context, msg *MsgSetRentalInfo) (*MsgSetRentalInfoResponse, error)
	Withdraw(ctx context.Context, msg *MsgWithdraw) (*MsgWithdrawResponse, error)
	RaiseDispute(ctx context.Context, msg *MsgRaiseDispute) (*MsgRaiseDisputeResponse, error)
	ClaimRefund(ctx context.Context, msg *MsgClaimRefund) (*MsgClaimRefundResponse, error)
	SetPaused(ctx context.Context, msg *MsgSetPaused) (*MsgSetPausedResponse, error)
	SetRevenueShare(ctx context.Context, msg *MsgSetRevenueShare) (*MsgSetRevenueShareResponse, error)
	SetRevenueShareRecipient(ctx context.Context, msg *MsgSetRevenueShareRecipient) (*MsgSetRevenueShareRecipientResponse, error)
	SetSystemAccount(ctx context.Context, msg *MsgSetSystemAccount) (*MsgSetSystemAccountResponse, error)
	UpdateParams(ctx context.Context, msg *MsgUpdateParams) (*MsgUpdateParamsResponse, error)
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryRentalRequest struct {
	RentalId string `json:"rental_id"`
}

type QueryRentalResponse struct {
	Rental Rental `json:"rental"`
}

type QueryTotalRevenueSharedRequest struct{}

type QueryTotalRevenueSharedResponse struct {
	Total string `json:"total"`
}

// QueryServer defines the treasury Query service.
type QueryServer interface {
	Params(ctx context.Context, req *QueryParamsRequest) (*QueryParamsResponse, error)
	Rental(ctx context.Context, req *QueryRentalRequest) (*QueryRentalResponse, error)
	TotalRevenueShared(ctx context.Context, req *QueryTotalRevenueSharedRequest) (*QueryTotalRevenueSharedResponse, error)
}

package types

const (
	EventDeposited       = "treasury.deposited"
	EventRentalActivated = "treasury.rental_activated"
	EventWithdraw        = "treasury.withdraw"
	EventDispute         = "treasury.dispute"
	EventRefund          = "treasury.refund"
)

const (
	AttrRentalID = "rental_id"
	AttrRenter   = "renter"
	AttrLender   = "lender"
	AttrAmount   = "amount"
	AttrShare    = "share"
)

package types

const (
	EventBalanceUpdated = "credits.balance_updated"
	EventReserved       = "credits.reserved"
	EventFundsMigrated  = "credits.funds_migrated"
)

const (
	AttrAccount    = "account"
	AttrNewBalance = "new_balance"
	AttrOldBalance = "old_balance"
	AttrReserved   = "reserved"
	AttrAmount     = "amount"
	AttrRecipient  = "recipient"
)

package types

// Event types
const (
	EventTypeDeposit       = "lockvault_deposit"
	EventTypeWithdraw      = "lockvault_withdraw"
	EventTypeHarvest       = "lockvault_harvest"
	EventTypeSweep         = "lockvault_sweep"
	EventTypeParams        = "lockvault_update_params"
	EventTypePaused        = "lockvault_set_paused"
	EventTypeTreasury      = "lockvault_set_treasury"
	EventTypeRecoverTokens = "lockvault_recover_tokens"
)

// Event attribute keys
const (
	AttributeKeyUser          = "user"
	AttributeKeyAmount        = "amount"
	AttributeKeyShares        = "shares"
	AttributeKeyLockEnd       = "lock_end"
	AttributeKeyPricePerShare = "price_per_share"
	AttributeKeyPerformFee    = "performance_fee"
	AttributeKeyCallFee       = "call_fee"
	AttributeKeyActionID      = "action_id"
)

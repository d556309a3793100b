package types

// Event types
const (
	EventTypeDeposit           = "farm_deposit"
	EventTypeWithdraw          = "farm_withdraw"
	EventTypeEmergencyWithdraw = "farm_emergency_withdraw"
	EventTypeHarvest           = "farm_harvest"
	EventTypeSettle            = "farm_settle"
	EventTypeAddPool           = "farm_add_pool"
	EventTypeSetPool           = "farm_set_pool"
	EventTypeEmissionRate      = "farm_update_emission_rate"
	EventTypeSplits            = "farm_update_splits"
	EventTypeSetRecipient      = "farm_set_recipient"
	EventTypePaused            = "farm_set_paused"
	EventTypeRecoverTokens     = "farm_recover_tokens"
	EventTypeRewarderFailed    = "farm_rewarder_failed"
	EventTypeReserveShortfall  = "farm_reserve_shortfall"
)

// Event attribute keys
const (
	AttributeKeyPoolID    = "pool_id"
	AttributeKeyUser      = "user"
	AttributeKeyAmount    = "amount"
	AttributeKeyFee       = "fee"
	AttributeKeyReward    = "reward"
	AttributeKeyShortfall = "shortfall"
	AttributeKeyRewarder  = "rewarder"
	AttributeKeyError     = "error"
)

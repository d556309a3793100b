package types

// QueryUnderlyingResponse splits the vault's underlying balance
type QueryUnderlyingResponse struct {
	Idle   string `json:"idle"`
	Staked string `json:"staked"`
	Total  string `json:"total"`
}

// QueryUserInfoResponse is a depositor's record with its current value
type QueryUserInfoResponse struct {
	User         *UserInfo `json:"user"`
	CurrentValue string    `json:"current_value"`
	Locked       bool      `json:"locked"`
}

// QueryPricePerShareResponse is the 1e18-scaled price per share
type QueryPricePerShareResponse struct {
	PricePerShare string `json:"price_per_share"`
	TotalShares   string `json:"total_shares"`
}

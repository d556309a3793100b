package types

// QueryPoolsResponse lists pools with the total weight
type QueryPoolsResponse struct {
	Pools       []*Pool `json:"pools"`
	Total       uint64  `json:"total"`
	TotalWeight uint64  `json:"total_weight"`
}

// QueryPositionResponse is a user's position and its pending reward
type QueryPositionResponse struct {
	Position      *UserPosition `json:"position"`
	PendingReward string        `json:"pending_reward"`
}

// QueryPendingRewardResponse is the pending primary and secondary reward
type QueryPendingRewardResponse struct {
	PoolID          uint64 `json:"pool_id"`
	User            string `json:"user"`
	Pending         string `json:"pending"`
	RewarderPending string `json:"rewarder_pending,omitempty"`
}

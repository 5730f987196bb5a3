package model

// StateResponse is the payload served to clients.
type StateResponse struct {
	ServerTimeMs     int64    `json:"serverTimeMs"`
	AsOfMs           int64    `json:"asOfMs"`
	Block            uint64   `json:"block"`
	Difficulty       float64  `json:"difficulty"`
	Supply           float64  `json:"supply"`
	Hashrate         Hashrate `json:"hashrate"`
	CurrentReward    float64  `json:"currentReward"`
	NextReward       float64  `json:"nextReward"`
	NextHalvingBlock uint64   `json:"nextHalvingBlock"`
	NextHalvingName  string   `json:"nextHalvingName,omitempty"`
	BlocksRemaining  uint64   `json:"blocksRemaining"`
	ProgressPct      float64  `json:"progressPct"`
	TargetHalvingTs  int64    `json:"targetHalvingTs"`
	AvgBlocksPer24h  float64  `json:"avgBlocksPer24h"`
	ActualBlockTime  float64  `json:"actualBlockTime"`
}

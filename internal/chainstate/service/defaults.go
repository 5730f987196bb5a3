package service

import "time"

const (
	defaultSampleWindow     uint64 = 100
	defaultNominalBlockTime        = 600 * time.Second

	secondsPerDay = 86400

	sourceDirect     = "direct"
	sourceSummary    = "summary"
	sourceUnresolved = "unresolved"

	fieldHeight     = "height"
	fieldDifficulty = "difficulty"
	fieldHashrate   = "hashrate"
	fieldSupply     = "supply"
)

// Summary keys carrying the height, in order of preference.
var summaryHeightKeys = []string{"blocks", "blockcount", "height"}

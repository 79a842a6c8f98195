package config

const (
	DefaultTimeZone = "Asia/Bangkok"

	// Nightly full recompute after the marketplaces finish their own
	// settlement batches.
	DefaultRecomputeSchedule = "30 2 * * *"

	BatchSize = 1000
)

package config

import "runtime"

// minSegment is the smallest number of values worth handing to one worker;
// below it goroutine scheduling costs more than the comparisons.
const minSegment = 64

// ApplyAdaptiveDefaults resolves settings left at their automatic value.
// Only Workers is adaptive today: zero becomes EstimateWorkers.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateWorkers(cfg.ChunkSize)
	}
	return cfg
}

// EstimateWorkers picks a worker count for chunks of chunkSize values: one
// per CPU, but never so many that a worker gets fewer than minSegment values.
func EstimateWorkers(chunkSize int) int {
	return estimateWorkers(runtime.NumCPU(), chunkSize)
}

func estimateWorkers(numCPU, chunkSize int) int {
	limit := chunkSize / minSegment
	workers := min(numCPU, limit)
	if workers < 1 {
		return 1
	}
	return workers
}

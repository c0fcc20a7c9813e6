package renderer

import "time"

// RenderStats summarizes progress after a completed pass
type RenderStats struct {
	Pass             int           `json:"pass"`
	TotalSamples     int64         `json:"total_samples"`
	Elapsed          time.Duration `json:"elapsed_ns"`
	SamplesPerSecond float64       `json:"samples_per_second"`
	Degraded         bool          `json:"degraded"`
}

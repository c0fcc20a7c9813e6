package lights

import (
	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// PowerSampler selects lights with probability proportional to their
// emitted power, so bright or large lights receive more shadow rays.
// The same weights drive both selection and the combined PDF used for
// multiple-importance-sampling weights, which keeps the estimator
// consistent.
type PowerSampler struct {
	lights  []core.Light
	weights []float64 // Normalized selection probabilities
}

// NewPowerSampler creates a sampler over the given lights. Lights with
// zero power fall back to uniform weighting (every weight equal), which
// only happens for degenerate scenes that validation would reject.
func NewPowerSampler(lightList []core.Light) *PowerSampler {
	weights := make([]float64, len(lightList))
	total := 0.0
	for i, light := range lightList {
		weights[i] = light.Power()
		total += weights[i]
	}

	if total <= 0 {
		uniform := 1.0 / float64(max(1, len(lightList)))
		for i := range weights {
			weights[i] = uniform
		}
	} else {
		for i := range weights {
			weights[i] /= total
		}
	}

	return &PowerSampler{lights: lightList, weights: weights}
}

// Count returns the number of lights
func (ps *PowerSampler) Count() int {
	return len(ps.lights)
}

// Probability returns the selection probability of the light at index i
func (ps *PowerSampler) Probability(i int) float64 {
	if i < 0 || i >= len(ps.weights) {
		return 0
	}
	return ps.weights[i]
}

// Pick selects a light from the cumulative weight distribution.
// Returns the light, its selection probability, and its index.
func (ps *PowerSampler) Pick(u float64) (core.Light, float64, int) {
	if len(ps.lights) == 0 {
		return nil, 0, -1
	}

	cumulative := 0.0
	for i, w := range ps.weights {
		cumulative += w
		if u <= cumulative {
			return ps.lights[i], w, i
		}
	}

	// Rounding pushed u past the final bucket
	last := len(ps.lights) - 1
	return ps.lights[last], ps.weights[last], last
}

// Sample selects a light and draws a point on it for next-event
// estimation. The returned sample's PDF is the per-light solid-angle
// density; the selection probability is returned separately so callers
// can fold it into the estimator and MIS weights explicitly.
func (ps *PowerSampler) Sample(point core.Vec3, sampler core.Sampler) (core.LightSample, float64, bool) {
	light, selectionProb, _ := ps.Pick(sampler.Get1D())
	if light == nil || selectionProb <= 0 {
		return core.LightSample{}, 0, false
	}

	sample := light.Sample(point, sampler.Get2D())
	if sample.PDF <= 0 {
		return core.LightSample{}, 0, false
	}
	return sample, selectionProb, true
}

// PDF returns the combined solid-angle density of sampling the given
// direction from the shading point under this sampler's selection
// strategy: Σ P(light) · pdf_light(direction). Used as the light-strategy
// density in MIS weights for BRDF-sampled directions.
func (ps *PowerSampler) PDF(point, direction core.Vec3) float64 {
	total := 0.0
	for i, light := range ps.lights {
		if pdf := light.PDF(point, direction); pdf > 0 {
			total += pdf * ps.weights[i]
		}
	}
	return total
}

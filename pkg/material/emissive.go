package material

import (
	"fmt"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// Emissive represents a light-emitting material. A shape carrying an
// emissive material is picked up as a light source at scene-build time.
type Emissive struct {
	Radiance core.Vec3
}

// NewEmissive creates a new emissive material
func NewEmissive(radiance core.Vec3) *Emissive {
	return &Emissive{Radiance: radiance}
}

// Validate rejects emissive materials that emit nothing
func (e *Emissive) Validate() error {
	if e.Radiance.IsZero() {
		return fmt.Errorf("emissive material has zero radiance")
	}
	if !e.Radiance.IsFinite() {
		return fmt.Errorf("emissive radiance is not finite")
	}
	return nil
}

// Scatter absorbs the ray: emissive surfaces only emit
func (e *Emissive) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// Emit returns the emitted radiance
func (e *Emissive) Emit() core.Vec3 {
	return e.Radiance
}

// EvaluateBRDF returns zero: lights emit, they do not reflect
func (e *Emissive) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// PDF returns zero since emissive materials never scatter
func (e *Emissive) PDF(incomingDir, outgoingDir, normal core.Vec3) float64 {
	return 0
}

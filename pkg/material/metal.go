package material

import (
	"fmt"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// Metal represents a specular material. Fuzz 0 is a perfect mirror;
// larger values perturb the reflection for a rougher look.
type Metal struct {
	Albedo core.Vec3
	Fuzz   float64
}

// NewMetal creates a new metal material with fuzz clamped to [0, 1]
func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	if fuzz < 0 {
		fuzz = 0
	}
	if fuzz > 1 {
		fuzz = 1
	}
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// Validate rejects zero-albedo metals, which absorb every path
func (m *Metal) Validate() error {
	if m.Albedo.IsZero() {
		return fmt.Errorf("metal material has zero albedo and no emission")
	}
	if !m.Albedo.IsFinite() {
		return fmt.Errorf("metal albedo is not finite")
	}
	return nil
}

// Scatter reflects the incoming ray about the surface normal. The BRDF is
// a delta distribution: PDF is reported as 0 and the integrator treats
// the sampled direction as having implicit density 1, so the attenuation
// is the plain albedo with no cosine or π factors.
func (m *Metal) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	reflected := reflect(rayIn.Direction.Normalize(), hit.Normal)

	if m.Fuzz > 0 {
		offset := core.SampleUniformSphere(sampler.Get2D()).Multiply(m.Fuzz * sampler.Get1D())
		reflected = reflected.Add(offset)
	}

	// Rays scattered below the surface are absorbed
	if reflected.Dot(hit.Normal) <= 0 {
		return core.ScatterResult{}, false
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, reflected.Normalize()),
		Attenuation: m.Albedo,
		PDF:         0,
	}, true
}

// EvaluateBRDF returns zero: a delta BRDF contributes nothing for any
// explicitly chosen direction pair
func (m *Metal) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// PDF returns zero: delta distributions cannot be evaluated
func (m *Metal) PDF(incomingDir, outgoingDir, normal core.Vec3) float64 {
	return 0
}

// reflect calculates the reflection of v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

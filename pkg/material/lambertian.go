package material

import (
	"fmt"
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Validate rejects a "black hole" configuration: zero albedo on a
// non-emissive material absorbs every path that touches it.
func (l *Lambertian) Validate() error {
	if l.Albedo.IsZero() {
		return fmt.Errorf("lambertian material has zero albedo and no emission")
	}
	if !l.Albedo.IsFinite() {
		return fmt.Errorf("lambertian albedo is not finite")
	}
	return nil
}

// Scatter samples a cosine-weighted direction in the hemisphere around
// the surface normal. With pdf = cosθ/π and BRDF = albedo/π the cosine
// term of the estimator divides out, which is the point of the
// importance sampling.
func (l *Lambertian) Scatter(rayIn core.Ray, hit core.HitRecord, sampler core.Sampler) (core.ScatterResult, bool) {
	direction := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	cosTheta := direction.Dot(hit.Normal)
	if cosTheta < 0 {
		cosTheta = 0
	}

	return core.ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: l.Albedo.Multiply(1.0 / math.Pi),
		PDF:         cosTheta / math.Pi,
	}, true
}

// EvaluateBRDF returns the constant lambertian BRDF, albedo/π, for
// directions above the surface
func (l *Lambertian) EvaluateBRDF(incomingDir, outgoingDir, normal core.Vec3) core.Vec3 {
	if outgoingDir.Dot(normal) <= 0 {
		return core.Vec3{}
	}
	return l.Albedo.Multiply(1.0 / math.Pi)
}

// PDF returns the cosine-weighted density for the outgoing direction
func (l *Lambertian) PDF(incomingDir, outgoingDir, normal core.Vec3) float64 {
	cosTheta := outgoingDir.Dot(normal)
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

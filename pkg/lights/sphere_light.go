package lights

import (
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/geometry"
)

// SphereLight is the sampling view over an emissive sphere
type SphereLight struct {
	sphere   *geometry.Sphere
	emission core.Vec3
}

// NewSphereLight creates a light view over an emissive sphere
func NewSphereLight(sphere *geometry.Sphere) *SphereLight {
	return &SphereLight{
		sphere:   sphere,
		emission: emittedRadiance(sphere.Material),
	}
}

// Sample draws a point on the sphere as seen from the shading point.
// From outside, only the visible cone is sampled; from inside, the whole
// surface uniformly.
func (sl *SphereLight) Sample(point core.Vec3, sample core.Vec2) core.LightSample {
	toCenter := sl.sphere.Center.Subtract(point)
	distanceToCenter := toCenter.Length()

	if distanceToCenter <= sl.sphere.Radius {
		return sl.sampleUniform(point, sample)
	}
	return sl.sampleVisibleCone(point, toCenter, distanceToCenter, sample)
}

// sampleUniform draws a uniform point on the full surface, for shading
// points inside the sphere. The shading point sees the inner face, so
// the normal handed to the solid-angle conversion points inward.
func (sl *SphereLight) sampleUniform(point core.Vec3, sample core.Vec2) core.LightSample {
	localDir := core.SampleUniformSphere(sample)
	surfacePoint := sl.sphere.Center.Add(localDir.Multiply(sl.sphere.Radius))

	return areaSample(point, surfacePoint, localDir.Negate(), sl.emission, sl.sphere.Area())
}

func (sl *SphereLight) sampleVisibleCone(point, toCenter core.Vec3, distanceToCenter float64, sample core.Vec2) core.LightSample {
	w := toCenter.Multiply(1.0 / distanceToCenter)

	sinThetaMax := sl.sphere.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))

	direction := core.SampleCone(w, cosThetaMax, sample)

	// Project the cone sample onto the sphere surface
	hit, ok := sl.sphere.Hit(core.NewRay(point, direction), 1e-4, math.Inf(1))
	if !ok {
		// Grazing numerical miss at the cone edge
		return core.LightSample{}
	}

	return core.LightSample{
		Point:     hit.Point,
		Normal:    hit.Normal,
		Direction: direction,
		Distance:  hit.T,
		Emission:  sl.emission,
		PDF:       core.UniformConePDF(cosThetaMax),
	}
}

// PDF returns the solid-angle density of sampling the given direction
// toward this light from the shading point
func (sl *SphereLight) PDF(point, direction core.Vec3) float64 {
	hit, ok := sl.sphere.Hit(core.NewRay(point, direction), 1e-4, math.Inf(1))
	if !ok {
		return 0
	}

	toCenter := sl.sphere.Center.Subtract(point)
	distanceToCenter := toCenter.Length()
	if distanceToCenter <= sl.sphere.Radius {
		return areaPDF(point, hit, sl.sphere.Area())
	}

	sinThetaMax := sl.sphere.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))
	return core.UniformConePDF(cosThetaMax)
}

// Power returns emitted power for selection weighting
func (sl *SphereLight) Power() float64 {
	return sl.emission.Luminance() * sl.sphere.Area()
}

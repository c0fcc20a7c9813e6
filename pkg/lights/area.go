package lights

import (
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// emittedRadiance reads the emission off a light's material, or zero if
// the material does not emit. Lights are derived from emissive shapes, so
// outside of construction bugs this is always non-zero.
func emittedRadiance(m core.Material) core.Vec3 {
	if emitter, ok := m.(core.Emitter); ok {
		return emitter.Emit()
	}
	return core.Vec3{}
}

// areaSample converts a uniformly chosen surface point into a
// solid-angle light sample as seen from the shading point. Returns a
// zero-PDF sample when the shading point faces the light's back side or
// the geometry is degenerate; callers skip such samples.
func areaSample(shadingPoint, surfacePoint, surfaceNormal core.Vec3, emission core.Vec3, area float64) core.LightSample {
	toLight := surfacePoint.Subtract(shadingPoint)
	distanceSquared := toLight.LengthSquared()
	if distanceSquared < 1e-12 {
		return core.LightSample{}
	}
	distance := math.Sqrt(distanceSquared)
	direction := toLight.Multiply(1.0 / distance)

	// Cosine at the light surface; emission is one-sided
	cosLight := surfaceNormal.Dot(direction.Negate())
	if cosLight <= 1e-9 {
		return core.LightSample{}
	}

	// Uniform-area density converted to solid angle: r² / (cosθ · A)
	pdf := distanceSquared / (cosLight * area)

	return core.LightSample{
		Point:     surfacePoint,
		Normal:    surfaceNormal,
		Direction: direction,
		Distance:  distance,
		Emission:  emission,
		PDF:       pdf,
	}
}

// areaPDF computes the solid-angle density for a direction that hits an
// area light at the given record, for uniform-area sampling
func areaPDF(shadingPoint core.Vec3, hit *core.HitRecord, area float64) float64 {
	toLight := hit.Point.Subtract(shadingPoint)
	distanceSquared := toLight.LengthSquared()
	if distanceSquared < 1e-12 || area <= 0 {
		return 0
	}
	direction := toLight.Multiply(1.0 / math.Sqrt(distanceSquared))
	cosLight := math.Abs(hit.Normal.Dot(direction))
	if cosLight <= 1e-9 {
		return 0
	}
	return distanceSquared / (cosLight * area)
}

package lights

import (
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/geometry"
)

// QuadLight is the sampling view over an emissive quad
type QuadLight struct {
	quad     *geometry.Quad
	emission core.Vec3
	area     float64
}

// NewQuadLight creates a light view over an emissive quad
func NewQuadLight(quad *geometry.Quad) *QuadLight {
	return &QuadLight{
		quad:     quad,
		emission: emittedRadiance(quad.Material),
		area:     quad.Area(),
	}
}

// Sample draws a uniform point on the quad surface
func (ql *QuadLight) Sample(point core.Vec3, sample core.Vec2) core.LightSample {
	surfacePoint := ql.quad.PointAt(sample.X, sample.Y)

	// Emission is one-sided along the quad normal; flip toward the shading
	// point so both orientations light correctly.
	normal := ql.quad.Normal
	if surfacePoint.Subtract(point).Dot(normal) > 0 {
		normal = normal.Negate()
	}

	return areaSample(point, surfacePoint, normal, ql.emission, ql.area)
}

// PDF returns the solid-angle density of sampling the given direction
// toward this light from the shading point
func (ql *QuadLight) PDF(point, direction core.Vec3) float64 {
	hit, ok := ql.quad.Hit(core.NewRay(point, direction), 1e-4, math.Inf(1))
	if !ok {
		return 0
	}
	return areaPDF(point, hit, ql.area)
}

// Power returns emitted power for selection weighting
func (ql *QuadLight) Power() float64 {
	return ql.emission.Luminance() * ql.area
}

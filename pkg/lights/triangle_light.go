package lights

import (
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/geometry"
)

// TriangleLight is the sampling view over an emissive triangle
type TriangleLight struct {
	triangle *geometry.Triangle
	emission core.Vec3
	area     float64
}

// NewTriangleLight creates a light view over an emissive triangle
func NewTriangleLight(triangle *geometry.Triangle) *TriangleLight {
	return &TriangleLight{
		triangle: triangle,
		emission: emittedRadiance(triangle.Material),
		area:     triangle.Area(),
	}
}

// Sample draws a uniform point on the triangle via barycentric warping
func (tl *TriangleLight) Sample(point core.Vec3, sample core.Vec2) core.LightSample {
	su := math.Sqrt(sample.X)
	a := 1.0 - su
	b := sample.Y * su

	surfacePoint := tl.triangle.V0.Multiply(a).
		Add(tl.triangle.V1.Multiply(b)).
		Add(tl.triangle.V2.Multiply(1.0 - a - b))

	normal := tl.triangle.Normal()
	if surfacePoint.Subtract(point).Dot(normal) > 0 {
		normal = normal.Negate()
	}

	return areaSample(point, surfacePoint, normal, tl.emission, tl.area)
}

// PDF returns the solid-angle density of sampling the given direction
// toward this light from the shading point
func (tl *TriangleLight) PDF(point, direction core.Vec3) float64 {
	hit, ok := tl.triangle.Hit(core.NewRay(point, direction), 1e-4, math.Inf(1))
	if !ok {
		return 0
	}
	return areaPDF(point, hit, tl.area)
}

// Power returns emitted power for selection weighting
func (tl *TriangleLight) Power() float64 {
	return tl.emission.Luminance() * tl.area
}

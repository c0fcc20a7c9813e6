package geometry

import (
	"fmt"
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// Plane represents an infinite plane defined by a point and a normal
type Plane struct {
	Point    core.Vec3
	Normal   core.Vec3 // Normalized in NewPlane
	Material core.Material
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, material core.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Material: material,
	}
}

// Validate rejects planes with a degenerate normal at scene-build time.
// NewPlane normalizes, so a zero input normal shows up here as a zero vector.
func (p *Plane) Validate() error {
	if p.Normal.IsZero() || !p.Normal.IsFinite() {
		return fmt.Errorf("plane at %v has a degenerate normal", p.Point)
	}
	return validateMaterial(p.Material)
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray parallel to the plane
	if math.Abs(denominator) < 1e-9 {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hit := &core.HitRecord{
		T:        t,
		Point:    ray.At(t),
		Material: p.Material,
	}
	hit.SetFaceNormal(ray, p.Normal)

	return hit, true
}

// BoundingBox returns a large but finite box for this plane so it can
// participate in BVH construction
func (p *Plane) BoundingBox() core.AABB {
	const extent = 1e6
	return core.NewAABB(
		core.NewVec3(-extent, -extent, -extent),
		core.NewVec3(extent, extent, extent),
	)
}

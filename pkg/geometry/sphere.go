package geometry

import (
	"fmt"
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// Sphere represents an implicit sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: material}
}

// Validate rejects degenerate spheres at scene-build time
func (s *Sphere) Validate() error {
	if !(s.Radius > 0) {
		return fmt.Errorf("sphere at %v: radius must be positive, got %v", s.Center, s.Radius)
	}
	if !s.Center.IsFinite() || math.IsNaN(s.Radius) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("sphere has non-finite geometry")
	}
	return validateMaterial(s.Material)
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2·halfB·t + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	// Try the nearer root first
	sqrtD := math.Sqrt(discriminant)
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hit := &core.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}
	outwardNormal := hit.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)

	return hit, true
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// Area returns the surface area of the sphere
func (s *Sphere) Area() float64 {
	return 4.0 * math.Pi * s.Radius * s.Radius
}

// validateMaterial rejects materials no light path could ever leave:
// a material that neither reflects nor emits absorbs every ray silently,
// which almost always indicates a scene-construction mistake.
func validateMaterial(m core.Material) error {
	if m == nil {
		return fmt.Errorf("shape has no material")
	}
	v, ok := m.(core.Validator)
	if !ok {
		return nil
	}
	return v.Validate()
}

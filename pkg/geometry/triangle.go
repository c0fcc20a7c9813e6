package geometry

import (
	"fmt"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3
	Material   core.Material
	normal     core.Vec3 // Cached geometric normal
	bbox       core.AABB // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3, material core.Material) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, Material: material}

	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)
	t.normal = edge1.Cross(edge2).Normalize()

	// Pad so axis-aligned triangles keep a non-zero extent
	const pad = 1e-4
	box := core.NewAABBFromPoints(v0, v1, v2)
	t.bbox = core.NewAABB(
		box.Min.Subtract(core.NewVec3(pad, pad, pad)),
		box.Max.Add(core.NewVec3(pad, pad, pad)),
	)

	return t
}

// Validate rejects zero-area triangles at scene-build time
func (t *Triangle) Validate() error {
	if t.Area() < 1e-12 {
		return fmt.Errorf("triangle (%v, %v, %v) has zero area", t.V0, t.V1, t.V2)
	}
	if !t.V0.IsFinite() || !t.V1.IsFinite() || !t.V2.IsFinite() {
		return fmt.Errorf("triangle has non-finite vertices")
	}
	return validateMaterial(t.Material)
}

// Hit tests ray-triangle intersection using the Möller-Trumbore algorithm
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	const epsilon = 1e-9

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Determinant near zero: ray lies in the plane of the triangle
	if a > -epsilon && a < epsilon {
		return nil, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return nil, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return nil, false
	}

	tHit := f * edge2.Dot(q)
	if tHit < tMin || tHit > tMax {
		return nil, false
	}

	hit := &core.HitRecord{
		T:        tHit,
		Point:    ray.At(tHit),
		Material: t.Material,
	}
	hit.SetFaceNormal(ray, t.normal)

	return hit, true
}

// BoundingBox returns the cached bounding box for this triangle
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the cached geometric normal
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

// Area returns the surface area of the triangle
func (t *Triangle) Area() float64 {
	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	return 0.5 * edge1.Cross(edge2).Length()
}

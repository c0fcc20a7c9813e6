package geometry

import (
	"fmt"
	"math"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3
	U        core.Vec3 // First edge vector
	V        core.Vec3 // Second edge vector
	Normal   core.Vec3 // Unit normal, U × V direction
	Material core.Material

	d float64   // Plane equation constant: normal · x = d
	w core.Vec3 // Cached vector for planar coordinate extraction
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, material core.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	q := &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: material,
		d:        normal.Dot(corner),
	}
	if denom := normal.Dot(cross); denom != 0 {
		q.w = normal.Multiply(1.0 / denom)
	}
	return q
}

// Validate rejects zero-area quads at scene-build time
func (q *Quad) Validate() error {
	if q.Area() < 1e-12 {
		return fmt.Errorf("quad at %v has zero area (u=%v, v=%v)", q.Corner, q.U, q.V)
	}
	if !q.Corner.IsFinite() || !q.U.IsFinite() || !q.V.IsFinite() {
		return fmt.Errorf("quad has non-finite geometry")
	}
	return validateMaterial(q.Material)
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Ray parallel to the quad's plane
	if math.Abs(denominator) < 1e-9 {
		return nil, false
	}

	t := (q.d - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	// Planar coordinates of the hit point relative to the corner
	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)
	alpha := q.w.Dot(hitVector.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hitVector))

	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	hit := &core.HitRecord{
		T:        t,
		Point:    hitPoint,
		Material: q.Material,
	}
	hit.SetFaceNormal(ray, q.Normal)

	return hit, true
}

// BoundingBox returns the bounding box of the quad's four corners,
// padded slightly so axis-aligned quads keep a non-zero extent
func (q *Quad) BoundingBox() core.AABB {
	box := core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	)
	const pad = 1e-4
	return core.NewAABB(
		box.Min.Subtract(core.NewVec3(pad, pad, pad)),
		box.Max.Add(core.NewVec3(pad, pad, pad)),
	)
}

// PointAt returns the surface point at planar coordinates (a, b) in [0,1]²
func (q *Quad) PointAt(a, b float64) core.Vec3 {
	return q.Corner.Add(q.U.Multiply(a)).Add(q.V.Multiply(b))
}

// Area returns the surface area of the quad: |U × V|
func (q *Quad) Area() float64 {
	return q.U.Cross(q.V).Length()
}

package scene

import (
	"fmt"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/geometry"
	"github.com/arvehn/go-interactive-pathtracer/pkg/lights"
)

// Scene owns all primitives and derived light views for the lifetime of
// a render. After Build succeeds the scene is immutable and safe for
// unsynchronized concurrent reads from any number of workers.
type Scene struct {
	Shapes     []core.Shape
	Background core.Vec3 // Constant environment radiance for rays that miss

	// Populated by Build
	Lights       []core.Light
	LightSampler *lights.PowerSampler

	bvh   *geometry.BVH
	built bool
}

// New creates an empty scene with the given background radiance
func New(background core.Vec3) *Scene {
	return &Scene{Background: background}
}

// Add appends shapes to the scene. Must happen before Build.
func (s *Scene) Add(shapes ...core.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Build validates the scene, derives light views from emissive shapes,
// and constructs the intersection index. Degenerate geometry and
// black-hole materials are rejected here so they can never surface as
// runtime failures mid-render. Build must succeed before any render
// session starts.
func (s *Scene) Build() error {
	if len(s.Shapes) == 0 {
		return fmt.Errorf("scene has no shapes")
	}

	s.Lights = s.Lights[:0]
	for i, shape := range s.Shapes {
		if v, ok := shape.(core.Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("shape %d: %w", i, err)
			}
		}

		light, err := deriveLight(shape)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		if light != nil {
			s.Lights = append(s.Lights, light)
		}
	}

	s.bvh = geometry.NewBVH(s.Shapes)
	s.LightSampler = lights.NewPowerSampler(s.Lights)
	s.built = true
	return nil
}

// deriveLight wraps an emissive shape in its sampling view. Shapes whose
// material does not emit derive no light. Unbounded emissive shapes have
// no finite power to weight selection by and are rejected.
func deriveLight(shape core.Shape) (core.Light, error) {
	emissive := func(m core.Material) bool {
		e, ok := m.(core.Emitter)
		return ok && !e.Emit().IsZero()
	}

	switch g := shape.(type) {
	case *geometry.Sphere:
		if emissive(g.Material) {
			return lights.NewSphereLight(g), nil
		}
	case *geometry.Quad:
		if emissive(g.Material) {
			return lights.NewQuadLight(g), nil
		}
	case *geometry.Triangle:
		if emissive(g.Material) {
			return lights.NewTriangleLight(g), nil
		}
	case *geometry.Plane:
		if emissive(g.Material) {
			return nil, fmt.Errorf("emissive planes are unbounded and cannot be sampled as lights")
		}
	}
	return nil, nil
}

// Hit returns the closest intersection with t in (tMin, tMax), or false.
// Behaves identically to a linear scan over all shapes.
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	return s.bvh.Hit(ray, tMin, tMax)
}

// Built reports whether Build has completed successfully
func (s *Scene) Built() bool {
	return s.built
}

// WorldCenter returns the center of the scene's bounding volume
func (s *Scene) WorldCenter() core.Vec3 {
	return s.bvh.Center
}

// WorldRadius returns the radius of the scene's bounding volume
func (s *Scene) WorldRadius() float64 {
	return s.bvh.Radius
}

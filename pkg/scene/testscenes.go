package scene

import (
	"fmt"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/geometry"
	"github.com/arvehn/go-interactive-pathtracer/pkg/material"
)

// NewDefaultScene builds the standard demo: a matte ground plane proxy,
// a few spheres with mixed materials, and a quad light overhead.
func NewDefaultScene() (*Scene, error) {
	s := New(core.NewVec3(0.05, 0.07, 0.10))

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	matte := material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3))
	mirror := material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0)
	brushed := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)
	lamp := material.NewEmissive(core.NewVec3(12, 11, 10))

	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground),
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, matte),
		geometry.NewSphere(core.NewVec3(-2.2, 1, 0), 1, mirror),
		geometry.NewSphere(core.NewVec3(2.2, 1, 0), 1, brushed),
		geometry.NewQuad(core.NewVec3(-1, 4, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), lamp),
	)

	if err := s.Build(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewCornellScene builds a Cornell-style box: five diffuse walls, two
// inner spheres, and a quad light in the ceiling.
func NewCornellScene() (*Scene, error) {
	s := New(core.NewVec3(0, 0, 0))

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))
	lamp := material.NewEmissive(core.NewVec3(15, 15, 15))

	s.Add(
		// floor, ceiling, back wall
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(556, 0, 0), core.NewVec3(0, 0, 556), white),
		geometry.NewQuad(core.NewVec3(0, 556, 0), core.NewVec3(556, 0, 0), core.NewVec3(0, 0, 556), white),
		geometry.NewQuad(core.NewVec3(0, 0, 556), core.NewVec3(556, 0, 0), core.NewVec3(0, 556, 0), white),
		// left (red) and right (green) walls
		geometry.NewQuad(core.NewVec3(556, 0, 0), core.NewVec3(0, 556, 0), core.NewVec3(0, 0, 556), red),
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 556, 0), core.NewVec3(0, 0, 556), green),
		// ceiling light, inset
		geometry.NewQuad(core.NewVec3(213, 554, 227), core.NewVec3(130, 0, 0), core.NewVec3(0, 0, 105), lamp),
		// inner spheres
		geometry.NewSphere(core.NewVec3(185, 90, 170), 90, white),
		geometry.NewSphere(core.NewVec3(370, 120, 370), 120, material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.05)),
	)

	if err := s.Build(); err != nil {
		return nil, err
	}
	return s, nil
}

// ByName resolves a named test scene
func ByName(name string) (*Scene, error) {
	switch name {
	case "default", "":
		return NewDefaultScene()
	case "cornell":
		return NewCornellScene()
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}

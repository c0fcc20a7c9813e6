package scene

import (
	"strings"
	"testing"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
	"github.com/arvehn/go-interactive-pathtracer/pkg/geometry"
	"github.com/arvehn/go-interactive-pathtracer/pkg/material"
)

func TestBuildEmptySceneFails(t *testing.T) {
	s := New(core.NewVec3(0, 0, 0))
	if err := s.Build(); err == nil {
		t.Error("expected error building empty scene")
	}
}

func TestBuildRejectsInvalidShapes(t *testing.T) {
	white := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))

	tests := []struct {
		name  string
		shape core.Shape
	}{
		{"zero radius sphere", geometry.NewSphere(core.NewVec3(0, 0, 0), 0, white)},
		{"negative radius sphere", geometry.NewSphere(core.NewVec3(0, 0, 0), -1, white)},
		{"nil material", geometry.NewSphere(core.NewVec3(0, 0, 0), 1, nil)},
		{"black albedo", geometry.NewSphere(core.NewVec3(0, 0, 0), 1,
			material.NewLambertian(core.NewVec3(0, 0, 0)))},
		{"degenerate triangle", geometry.NewTriangle(
			core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), white)},
		{"degenerate quad", geometry.NewQuad(
			core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(2, 0, 0), white)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(core.NewVec3(0, 0, 0))
			s.Add(geometry.NewSphere(core.NewVec3(5, 5, 5), 1, white)) // valid companion
			s.Add(tt.shape)
			if err := s.Build(); err == nil {
				t.Error("expected Build to reject invalid shape")
			}
		})
	}
}

func TestBuildDerivesLights(t *testing.T) {
	white := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
	lamp := material.NewEmissive(core.NewVec3(5, 5, 5))

	s := New(core.NewVec3(0, 0, 0))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, white),
		geometry.NewSphere(core.NewVec3(0, 5, 0), 1, lamp),
		geometry.NewQuad(core.NewVec3(-1, 8, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), lamp),
		geometry.NewTriangle(core.NewVec3(3, 0, 0), core.NewVec3(4, 0, 0), core.NewVec3(3, 1, 0), lamp),
		geometry.NewPlane(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0), white),
	)
	if err := s.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := len(s.Lights); got != 3 {
		t.Errorf("expected 3 derived lights, got %d", got)
	}
	if s.LightSampler == nil || s.LightSampler.Count() != 3 {
		t.Error("light sampler not populated from derived lights")
	}
}

func TestBuildRejectsEmissivePlane(t *testing.T) {
	lamp := material.NewEmissive(core.NewVec3(5, 5, 5))
	s := New(core.NewVec3(0, 0, 0))
	s.Add(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), lamp))

	err := s.Build()
	if err == nil {
		t.Fatal("expected error for emissive plane")
	}
	if !strings.Contains(err.Error(), "unbounded") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestSceneHitMatchesShapes(t *testing.T) {
	white := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
	s := New(core.NewVec3(0, 0, 0))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 0, -5), 1, white),
		geometry.NewSphere(core.NewVec3(0, 0, -10), 1, white),
	)
	if err := s.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, ok := s.Hit(ray, 0.001, 1e9)
	if !ok {
		t.Fatal("expected hit")
	}
	if diff := hit.T - 4; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected closest hit at t=4, got %v", hit.T)
	}
}

func TestNamedScenes(t *testing.T) {
	for _, name := range []string{"default", "cornell"} {
		s, err := ByName(name)
		if err != nil {
			t.Fatalf("scene %q: %v", name, err)
		}
		if !s.Built() {
			t.Errorf("scene %q not built", name)
		}
		if len(s.Lights) == 0 {
			t.Errorf("scene %q has no lights", name)
		}
	}

	if _, err := ByName("nope"); err == nil {
		t.Error("expected error for unknown scene name")
	}
}

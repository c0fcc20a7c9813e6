package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

func testHit(normal core.Vec3) core.HitRecord {
	return core.HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    normal,
		T:         1,
		FrontFace: true,
	}
}

func TestLambertianScatter(t *testing.T) {
	albedo := core.NewVec3(0.7, 0.5, 0.3)
	mat := NewLambertian(albedo)
	normal := core.NewVec3(0, 1, 0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	for i := 0; i < 1000; i++ {
		scatter, ok := mat.Scatter(rayIn, testHit(normal), sampler)
		if !ok {
			t.Fatal("lambertian must always scatter")
		}
		if scatter.IsSpecular() {
			t.Fatal("lambertian scatter reported as specular")
		}

		dir := scatter.Scattered.Direction
		cosTheta := dir.Dot(normal)
		if cosTheta < 0 {
			t.Fatalf("scattered below surface: %v", dir)
		}

		// PDF must match the cosine-weighted sampling density
		wantPDF := cosTheta / math.Pi
		if math.Abs(scatter.PDF-wantPDF) > 1e-9 {
			t.Fatalf("pdf = %v, want %v", scatter.PDF, wantPDF)
		}

		// BRDF is albedo/π
		want := albedo.Multiply(1.0 / math.Pi)
		if scatter.Attenuation != want {
			t.Fatalf("attenuation = %v, want %v", scatter.Attenuation, want)
		}
	}
}

func TestLambertianPDFMatchesScatter(t *testing.T) {
	mat := NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	normal := core.NewVec3(0, 1, 0)
	in := core.NewVec3(0, -1, 0)

	out := core.NewVec3(0, 1, 0) // Straight up: pdf = 1/π
	if pdf := mat.PDF(in, out, normal); math.Abs(pdf-1.0/math.Pi) > 1e-12 {
		t.Errorf("pdf straight up = %v, want %v", pdf, 1.0/math.Pi)
	}

	below := core.NewVec3(0, -1, 0)
	if pdf := mat.PDF(in, below, normal); pdf != 0 {
		t.Errorf("pdf below surface = %v, want 0", pdf)
	}
	if brdf := mat.EvaluateBRDF(in, below, normal); !brdf.IsZero() {
		t.Errorf("brdf below surface = %v, want zero", brdf)
	}
}

func TestMetalMirrorReflection(t *testing.T) {
	mat := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0)
	normal := core.NewVec3(0, 1, 0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))

	// 45 degree incoming ray reflects to 45 degrees on the other side
	in := core.NewVec3(1, -1, 0).Normalize()
	scatter, ok := mat.Scatter(core.NewRay(core.NewVec3(-1, 1, 0), in), testHit(normal), sampler)
	if !ok {
		t.Fatal("expected mirror to scatter")
	}
	if !scatter.IsSpecular() {
		t.Error("mirror scatter must be specular")
	}

	want := core.NewVec3(1, 1, 0).Normalize()
	if scatter.Scattered.Direction.Subtract(want).Length() > 1e-9 {
		t.Errorf("reflected = %v, want %v", scatter.Scattered.Direction, want)
	}
	if scatter.Attenuation != mat.Albedo {
		t.Errorf("attenuation = %v, want albedo", scatter.Attenuation)
	}
}

func TestMetalGrazingAbsorption(t *testing.T) {
	// Heavy fuzz can push the reflection below the surface; those rays
	// are absorbed rather than transported.
	mat := NewMetal(core.NewVec3(0.9, 0.9, 0.9), 1.0)
	normal := core.NewVec3(0, 1, 0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(2)))
	in := core.NewVec3(1, -0.01, 0).Normalize()

	absorbed := 0
	for i := 0; i < 500; i++ {
		if _, ok := mat.Scatter(core.NewRay(core.Vec3{}, in), testHit(normal), sampler); !ok {
			absorbed++
		}
	}
	if absorbed == 0 {
		t.Error("expected some absorption at grazing incidence with full fuzz")
	}
}

func TestEmissive(t *testing.T) {
	radiance := core.NewVec3(4, 3, 2)
	mat := NewEmissive(radiance)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(3)))

	if _, ok := mat.Scatter(core.Ray{}, testHit(core.NewVec3(0, 1, 0)), sampler); ok {
		t.Error("emissive material must not scatter")
	}
	if got := mat.Emit(); got != radiance {
		t.Errorf("Emit = %v, want %v", got, radiance)
	}

	// Emissive satisfies the Emitter interface used for light derivation
	var _ core.Emitter = mat
}

func TestMaterialValidation(t *testing.T) {
	if err := NewLambertian(core.Vec3{}).Validate(); err == nil {
		t.Error("zero-albedo lambertian accepted")
	}
	if err := NewLambertian(core.NewVec3(0.5, 0.5, 0.5)).Validate(); err != nil {
		t.Errorf("valid lambertian rejected: %v", err)
	}
	if err := NewMetal(core.Vec3{}, 0).Validate(); err == nil {
		t.Error("zero-albedo metal accepted")
	}
	if err := NewEmissive(core.Vec3{}).Validate(); err == nil {
		t.Error("zero-radiance emissive accepted")
	}
}

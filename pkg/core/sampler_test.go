package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleCosineHemisphere(t *testing.T) {
	normal := NewVec3(0, 1, 0)
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	const n = 20000
	sumCos := 0.0
	for i := 0; i < n; i++ {
		dir := SampleCosineHemisphere(normal, sampler.Get2D())

		if math.Abs(dir.Length()-1.0) > 1e-9 {
			t.Fatalf("direction not normalized: length %v", dir.Length())
		}
		cos := dir.Dot(normal)
		if cos < 0 {
			t.Fatalf("direction below hemisphere: %v", dir)
		}
		sumCos += cos
	}

	// Cosine-weighted samples have E[cosθ] = 2/3
	mean := sumCos / n
	if math.Abs(mean-2.0/3.0) > 0.01 {
		t.Errorf("mean cosine %v, want ~0.667", mean)
	}
}

func TestSampleUniformSphere(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(7)))

	const n = 20000
	var sum Vec3
	for i := 0; i < n; i++ {
		dir := SampleUniformSphere(sampler.Get2D())
		if math.Abs(dir.Length()-1.0) > 1e-9 {
			t.Fatalf("direction not normalized: length %v", dir.Length())
		}
		sum = sum.Add(dir)
	}

	// Uniform directions average out near the origin
	mean := sum.Multiply(1.0 / n)
	if mean.Length() > 0.02 {
		t.Errorf("mean direction %v too far from zero", mean)
	}
}

func TestSampleCone(t *testing.T) {
	axis := NewVec3(0, 0, 1)
	cosThetaMax := math.Cos(math.Pi / 6) // 30 degree cone
	sampler := NewRandomSampler(rand.New(rand.NewSource(3)))

	for i := 0; i < 1000; i++ {
		dir := SampleCone(axis, cosThetaMax, sampler.Get2D())
		if dir.Dot(axis) < cosThetaMax-1e-9 {
			t.Fatalf("direction %v outside cone", dir)
		}
	}
}

func TestPowerHeuristic(t *testing.T) {
	// Equal densities split the weight evenly
	if w := PowerHeuristic(1, 1.0, 1, 1.0); math.Abs(w-0.5) > 1e-12 {
		t.Errorf("equal pdfs: got %v, want 0.5", w)
	}
	// A dominant strategy takes nearly all the weight
	if w := PowerHeuristic(1, 10.0, 1, 0.1); w < 0.99 {
		t.Errorf("dominant pdf: got %v, want ~1", w)
	}
	// Both zero must not divide by zero
	if w := PowerHeuristic(1, 0, 1, 0); w != 0 {
		t.Errorf("zero pdfs: got %v, want 0", w)
	}
	// Weights of complementary calls sum to one
	a := PowerHeuristic(1, 0.3, 1, 0.7)
	b := PowerHeuristic(1, 0.7, 1, 0.3)
	if math.Abs(a+b-1.0) > 1e-12 {
		t.Errorf("weights do not sum to 1: %v + %v", a, b)
	}
}

package core

import (
	"math"
	"testing"
)

func TestVec3Operations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	if got := a.Add(b); got != NewVec3(5, 7, 9) {
		t.Errorf("Add: got %v", got)
	}
	if got := b.Subtract(a); got != NewVec3(3, 3, 3) {
		t.Errorf("Subtract: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot: got %v, want 32", got)
	}
	if got := a.Cross(b); got != NewVec3(-3, 6, -3) {
		t.Errorf("Cross: got %v", got)
	}
	if got := a.MultiplyVec(b); got != NewVec3(4, 10, 18) {
		t.Errorf("MultiplyVec: got %v", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	if math.Abs(v.Length()-1.0) > 1e-12 {
		t.Errorf("Normalize: length %v, want 1", v.Length())
	}

	// Zero vector normalizes to itself rather than producing NaN
	if got := (Vec3{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize zero: got %v", got)
	}
}

func TestVec3Luminance(t *testing.T) {
	// White has luminance 1 under Rec.709 weights
	if got := NewVec3(1, 1, 1).Luminance(); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Luminance(white): got %v, want 1", got)
	}
	// Green carries the most weight
	if NewVec3(0, 1, 0).Luminance() <= NewVec3(1, 0, 0).Luminance() {
		t.Error("expected green luminance > red luminance")
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN vector reported finite")
	}
	if NewVec3(0, math.Inf(1), 0).IsFinite() {
		t.Error("Inf vector reported finite")
	}
}

func TestRayAt(t *testing.T) {
	ray := NewRay(NewVec3(1, 0, 0), NewVec3(0, 1, 0))
	if got := ray.At(2.5); got != NewVec3(1, 2.5, 0) {
		t.Errorf("At: got %v", got)
	}
}

func TestAABBHit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name string
		ray  Ray
		want bool
	}{
		{"through center", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"misses", NewRay(NewVec3(5, 5, -5), NewVec3(0, 0, 1)), false},
		{"parallel inside slab", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, 1)), true},
		{"parallel outside slab", NewRay(NewVec3(0, 5, -5), NewVec3(0, 0, 1)), false},
		{"pointing away", NewRay(NewVec3(0, 0, -5), NewVec3(0, 0, -1)), false},
	}

	for _, tt := range tests {
		if got := box.Hit(tt.ray, 0.001, 1e6); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAABBUnion(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(-1, 2, 0), NewVec3(0, 3, 4))
	u := a.Union(b)
	if u.Min != NewVec3(-1, 0, 0) || u.Max != NewVec3(1, 3, 4) {
		t.Errorf("Union: got %v", u)
	}
}

package geometry

import (
	"sort"

	"github.com/arvehn/go-interactive-pathtracer/pkg/core"
)

// BVH is a bounding volume hierarchy over scene shapes. It is built once
// at scene-construction time and is read-only afterwards, so it can be
// shared freely across worker goroutines. Externally it behaves exactly
// like a linear scan over the shapes: the closest hit in (tMin, tMax).
type BVH struct {
	root   *bvhNode
	Bounds core.AABB
	Center core.Vec3
	Radius float64
}

type bvhNode struct {
	bounds core.AABB
	left   *bvhNode
	right  *bvhNode
	shapes []core.Shape // Non-nil only for leaves
}

// Shapes below this count are kept in a leaf and scanned linearly
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []core.Shape) *BVH {
	bvh := &BVH{}
	if len(shapes) == 0 {
		return bvh
	}

	// Copy so sorting during construction never mutates the caller's slice
	sorted := make([]core.Shape, len(shapes))
	copy(sorted, shapes)

	bvh.root = buildNode(sorted)
	bvh.Bounds = bvh.root.bounds
	bvh.Center = bvh.Bounds.Center()
	bvh.Radius = bvh.Bounds.Size().Length() * 0.5
	return bvh
}

func buildNode(shapes []core.Shape) *bvhNode {
	bounds := shapes[0].BoundingBox()
	for _, s := range shapes[1:] {
		bounds = bounds.Union(s.BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &bvhNode{bounds: bounds, shapes: shapes}
	}

	// Median split along the longest axis
	axis := bounds.LongestAxis()
	sort.Slice(shapes, func(i, j int) bool {
		ci := shapes[i].BoundingBox().Center()
		cj := shapes[j].BoundingBox().Center()
		switch axis {
		case 0:
			return ci.X < cj.X
		case 1:
			return ci.Y < cj.Y
		default:
			return ci.Z < cj.Z
		}
	})

	mid := len(shapes) / 2
	return &bvhNode{
		bounds: bounds,
		left:   buildNode(shapes[:mid]),
		right:  buildNode(shapes[mid:]),
	}
}

// Hit returns the closest intersection with t in (tMin, tMax), or false
func (b *BVH) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if b.root == nil {
		return nil, false
	}
	return b.root.hit(ray, tMin, tMax)
}

func (n *bvhNode) hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	if !n.bounds.Hit(ray, tMin, tMax) {
		return nil, false
	}

	if n.shapes != nil {
		var closest *core.HitRecord
		closestT := tMax
		for _, shape := range n.shapes {
			if hit, ok := shape.Hit(ray, tMin, closestT); ok {
				closest = hit
				closestT = hit.T
			}
		}
		return closest, closest != nil
	}

	leftHit, leftOk := n.left.hit(ray, tMin, tMax)
	if leftOk {
		tMax = leftHit.T
	}
	rightHit, rightOk := n.right.hit(ray, tMin, tMax)
	if rightOk {
		return rightHit, true
	}
	return leftHit, leftOk
}

package geometry

import (
	"math"

	mathpkg "github.com/df07/go-analytic-raytracer/pkg/math"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []indexedShape // Leaf shapes (nil for internal nodes)
}

// indexedShape remembers where a shape sits in the scene order
type indexedShape struct {
	shape Shape
	box   AABB
	index int
}

// BVH represents a Bounding Volume Hierarchy for nearest-hit queries.
// Unbounded shapes (planes) are kept in a flat list and always tested.
type BVH struct {
	Root      *BVHNode
	Unbounded []indexedShape
}

// Hit is the result of a nearest-hit query
type Hit struct {
	T     float64 // Ray parameter of the hit (+Inf on a miss)
	Index int     // Scene index of the shape hit (-1 on a miss)
	Tests int     // Ray/shape intersection tests performed
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 4

// NewBVH constructs a BVH from a slice of shapes. The slice is not modified.
func NewBVH(shapes []Shape) *BVH {
	bvh := &BVH{}
	var bounded []indexedShape

	for i, shape := range shapes {
		if box, ok := shape.BoundingBox(); ok {
			bounded = append(bounded, indexedShape{shape: shape, box: box, index: i})
		} else {
			bvh.Unbounded = append(bvh.Unbounded, indexedShape{shape: shape, index: i})
		}
	}

	if len(bounded) > 0 {
		bvh.Root = buildBVH(bounded)
	}
	return bvh
}

// buildBVH recursively builds the BVH using median splits along the
// longest axis
func buildBVH(shapes []indexedShape) *BVHNode {
	boundingBox := shapes[0].box
	for _, s := range shapes[1:] {
		boundingBox = boundingBox.Union(s.box)
	}

	// Base case: few shapes - create leaf node with all shapes
	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	axis := boundingBox.LongestAxis()
	lo, hi := axisValue(boundingBox.Min, axis), axisValue(boundingBox.Max, axis)
	if hi <= lo {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	splitPos := (lo + hi) * 0.5
	var leftShapes, rightShapes []indexedShape
	for _, s := range shapes {
		if axisValue(s.box.Center(), axis) < splitPos {
			leftShapes = append(leftShapes, s)
		} else {
			rightShapes = append(rightShapes, s)
		}
	}

	// Ensure we don't create empty partitions
	if len(leftShapes) == 0 || len(rightShapes) == 0 {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(leftShapes),
		Right:       buildBVH(rightShapes),
	}
}

func axisValue(v mathpkg.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Closest returns the nearest intersection with t > tMin. Ties keep the
// shape that comes first in scene order.
func (bvh *BVH) Closest(ray mathpkg.Ray, tMin float64) Hit {
	hit := Hit{T: math.Inf(1), Index: -1}

	for _, s := range bvh.Unbounded {
		hit.test(ray, s, tMin)
	}
	if bvh.Root != nil {
		bvh.hitNode(bvh.Root, ray, tMin, &hit)
	}
	return hit
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray mathpkg.Ray, tMin float64, hit *Hit) {
	if !node.BoundingBox.Hit(ray, tMin, hit.T) {
		return
	}

	if node.Shapes != nil {
		for _, s := range node.Shapes {
			if s.box.Hit(ray, tMin, hit.T) {
				hit.test(ray, s, tMin)
			}
		}
		return
	}

	if node.Left != nil {
		bvh.hitNode(node.Left, ray, tMin, hit)
	}
	if node.Right != nil {
		bvh.hitNode(node.Right, ray, tMin, hit)
	}
}

// test intersects one shape and keeps it when it is nearer
func (hit *Hit) test(ray mathpkg.Ray, s indexedShape, tMin float64) {
	hit.Tests++
	t, err := Intersect(ray, s.shape)
	if err != nil || t <= tMin {
		return
	}
	if t < hit.T || (t == hit.T && s.index < hit.Index) {
		hit.T = t
		hit.Index = s.index
	}
}

// BoundingBox returns the bounds of all bounded shapes
func (bvh *BVH) BoundingBox() (AABB, bool) {
	if bvh.Root == nil {
		return AABB{}, false
	}
	return bvh.Root.BoundingBox, true
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

// getStats returns statistics about the BVH structure
func (bvh *BVH) getStats() bvhStats {
	stats := bvhStats{}
	if bvh.Root != nil {
		bvh.collectStats(bvh.Root, 0, &stats)
	}
	return stats
}

// collectStats recursively collects statistics about the BVH
func (bvh *BVH) collectStats(node *BVHNode, depth int, stats *bvhStats) {
	stats.totalNodes++
	stats.maxDepth = max(stats.maxDepth, depth)

	if node.Shapes != nil {
		stats.leafNodes++
		stats.totalShapes += len(node.Shapes)
		return
	}
	if node.Left != nil {
		bvh.collectStats(node.Left, depth+1, stats)
	}
	if node.Right != nil {
		bvh.collectStats(node.Right, depth+1, stats)
	}
}

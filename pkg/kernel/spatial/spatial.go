// Package spatial implements the bulk-loaded R-tree broad phase of §4.5,
// wrapping the teacher's own indirect dependency dhconnelly/rtreego. The
// only query geode needs is pair enumeration between two independently
// built trees: given trees A and B, produce every (triA, triB) index pair
// whose AABBs overlap, the entry point every boolean operation's broad
// phase goes through.
package spatial

import (
	"github.com/chazu/geode/pkg/geom"
	"github.com/dhconnelly/rtreego"
)

// triBox is the Spatial value stored in the tree: a triangle index paired
// with its AABB, so a SearchIntersect result can be mapped straight back
// to the originating triangle.
type triBox struct {
	index int
	rect  rtreego.Rect
}

func (b triBox) Bounds() rtreego.Rect { return b.rect }

// Index is a bulk-loaded R-tree over one mesh's triangle bounding boxes.
type Index struct {
	tree *rtreego.Rtree
}

func toRect(bb geom.BoundingBox) rtreego.Rect {
	const pad = 1e-12
	d := bb.Diagonal()
	lengths := []float64{
		maxf(d.X, pad),
		maxf(d.Y, pad),
		maxf(d.Z, pad),
	}
	p := rtreego.Point{bb.Min.X, bb.Min.Y, bb.Min.Z}
	r, err := rtreego.NewRect(p, lengths)
	if err != nil {
		// Degenerate (zero-size) box; pad uniformly and retry. NewRect
		// only fails on non-positive lengths, which the maxf floor above
		// should already prevent, but stay defensive.
		r, _ = rtreego.NewRect(p, []float64{pad, pad, pad})
	}
	return r
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Build bulk-loads an R-tree over the given triangle bounding boxes, using
// rtreego's OMT bulk-load constructor (passing the objects directly to
// NewTree triggers bulk loading rather than incremental insertion), per
// §4.5's "sort-tile-recursive or equivalent" requirement. nodeCapacity
// sets the branching factor.
func Build(boxes []geom.BoundingBox, nodeCapacity int) *Index {
	if nodeCapacity < 2 {
		nodeCapacity = 16
	}
	minChildren := nodeCapacity / 2
	if minChildren < 1 {
		minChildren = 1
	}
	objs := make([]rtreego.Spatial, len(boxes))
	for i, bb := range boxes {
		objs[i] = triBox{index: i, rect: toRect(bb)}
	}
	return &Index{tree: rtreego.NewTree(3, minChildren, nodeCapacity, objs...)}
}

// Pair is one candidate (triA, triB) index pair whose bounding boxes
// overlap.
type Pair struct {
	A, B int
}

// CandidatePairs enumerates every (triA, triB) pair whose AABBs overlap,
// by querying b's tree with every box in a's set — O(n log n + k) per §4.5,
// where k is the number of candidate pairs returned. a and b are the raw
// per-triangle boxes the trees were built from (needed since rtreego
// doesn't expose bulk iteration, only range queries).
func CandidatePairs(aBoxes []geom.BoundingBox, bIndex *Index) []Pair {
	var pairs []Pair
	for i, bb := range aBoxes {
		rect := toRect(bb)
		hits := bIndex.tree.SearchIntersect(rect)
		for _, h := range hits {
			pairs = append(pairs, Pair{A: i, B: h.(triBox).index})
		}
	}
	return pairs
}

// Size returns the number of triangles indexed.
func (idx *Index) Size() int { return idx.tree.Size() }

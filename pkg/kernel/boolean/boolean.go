// Package boolean implements the robust CSG boolean engine of §4.6: broad
// phase via pkg/kernel/spatial, exact-predicate intersection computation,
// topology reconstruction by per-triangle convex re-triangulation, a
// winding-number inside/outside classification, and per-triangle
// provenance propagation. No input manifold is ever mutated; every
// operation returns a new *mesh.Manifold.
package boolean

import (
	"errors"
	"fmt"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
	"github.com/chazu/geode/pkg/kernel/spatial"
	"github.com/samber/lo"
)

// Op selects the CSG combinator (§4.6).
type Op int

const (
	Union Op = iota
	Difference
	Intersection
)

// ErrBooleanTimeout is returned when topology reconstruction exceeds
// cfg.MaxBooleanIterations (§5, §7).
var ErrBooleanTimeout = errors.New("boolean: exceeded MaxBooleanIterations")

// ErrResultTooLarge is returned when the reconstructed mesh would exceed
// cfg.MaxTriangles (§5, §7).
var ErrResultTooLarge = errors.New("boolean: result exceeds MaxTriangles")

// BooleanFailed wraps a failed validation of the reconstructed mesh (§4.6
// Phase 5): the kernel does not attempt heuristic repair beyond the one
// explicit Merge retry.
type BooleanFailed struct {
	Op    Op
	Cause error
}

func (e *BooleanFailed) Error() string {
	return fmt.Sprintf("boolean: %v failed validation: %v", e.Op, e.Cause)
}
func (e *BooleanFailed) Unwrap() error { return e.Cause }

func (op Op) String() string {
	switch op {
	case Union:
		return "union"
	case Difference:
		return "difference"
	case Intersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// refinedTri is one output triangle of the topology-reconstruction pass,
// still tagged to the side (A or B) and original triangle it descended
// from, for both classification and provenance propagation (§4.6 Phase 4).
type refinedTri struct {
	verts    [3]geom.Vec3
	id       uint32
	fromA    bool
	parent   int // index of the original (pre-split) triangle
	coincide int // index, in the other mesh's ORIGINAL triangles, of a
	// fully-coincident coplanar twin, or -1
}

// Compute runs the 5-phase algorithm of §4.6 for one boolean operation.
func Compute(op Op, a, b *mesh.Manifold, cfg geomconfig.Config) (*mesh.Manifold, error) {
	if a.IsEmpty() && b.IsEmpty() {
		return mesh.Empty, nil
	}
	switch op {
	case Union:
		if a.IsEmpty() {
			return b.Clone(), nil
		}
		if b.IsEmpty() {
			return a.Clone(), nil
		}
	case Difference:
		if a.IsEmpty() {
			return mesh.Empty, nil
		}
		if b.IsEmpty() {
			return a.Clone(), nil
		}
	case Intersection:
		if a.IsEmpty() || b.IsEmpty() {
			return mesh.Empty, nil
		}
	}

	am, bm := a.Mesh(), b.Mesh()
	if !am.ComputeBBox().Intersects(bm.ComputeBBox()) {
		// Quick reject (§4.1's bbox carve-out): the solids cannot
		// overlap at all, so the operator's result follows trivially
		// without running the intersection pipeline.
		switch op {
		case Union:
			return combineDisjoint(a, b, cfg)
		case Difference:
			return a.Clone(), nil
		case Intersection:
			return mesh.Empty, nil
		}
	}

	// Phase 1: broad phase.
	aBoxes := triangleBoxes(am)
	bBoxes := triangleBoxes(bm)
	bIndex := spatial.Build(bBoxes, cfg.RTreeNodeCapacity)
	pairs := spatial.CandidatePairs(aBoxes, bIndex)

	// Phase 2: intersection computation.
	chordsA := make([][]segment, am.TriangleCount())
	chordsB := make([][]segment, bm.TriangleCount())
	coincidentAtoB := make(map[int]int)
	coincidentBtoA := make(map[int]int)

	iterations := 0
	for _, pr := range pairs {
		iterations++
		if cfg.MaxBooleanIterations > 0 && iterations > cfg.MaxBooleanIterations {
			return nil, ErrBooleanTimeout
		}
		triA := am.TrianglePositions(pr.A)
		triB := bm.TrianglePositions(pr.B)
		seg, ok, coplanar := triTriIntersect(triA, triB)
		if coplanar {
			overlap := coplanarOverlapArea(triA, triB)
			if overlap.fullyCoincident {
				coincidentAtoB[pr.A] = pr.B
				coincidentBtoA[pr.B] = pr.A
			}
			continue
		}
		if !ok {
			continue
		}
		chordsA[pr.A] = append(chordsA[pr.A], seg)
		chordsB[pr.B] = append(chordsB[pr.B], seg)
	}

	// Phase 3: topology reconstruction (per-triangle split).
	refinedA := refine(am, chordsA, true, coincidentAtoB)
	refinedB := refine(bm, chordsB, false, coincidentBtoA)

	bPositions := bm.AllTrianglePositions()
	aPositions := am.AllTrianglePositions()

	kept := selectTriangles(op, refinedA, refinedB, aPositions, bPositions, am.ComputeBBox().Union(bm.ComputeBBox()).Diagonal().Length())

	if cfg.MaxTriangles > 0 && len(kept) > cfg.MaxTriangles {
		return nil, ErrResultTooLarge
	}

	result, err := buildManifold(kept, cfg)
	if err != nil {
		return nil, &BooleanFailed{Op: op, Cause: err}
	}
	return result, nil
}

// combineDisjoint builds the union of two manifolds known not to overlap
// at all: simple triangle-soup concatenation, skipping the intersection
// pipeline entirely.
func combineDisjoint(a, b *mesh.Manifold, cfg geomconfig.Config) (*mesh.Manifold, error) {
	am, bm := a.Mesh(), b.Mesh()
	var positions []geom.Vec3
	var triangles [][3]int
	var ids []uint32
	for t := 0; t < am.TriangleCount(); t++ {
		vi := am.TriangleVertices(t)
		base := len(positions)
		positions = append(positions, am.Vertices[vi[0]], am.Vertices[vi[1]], am.Vertices[vi[2]])
		triangles = append(triangles, [3]int{base, base + 1, base + 2})
		ids = append(ids, am.OriginalID[t])
	}
	for t := 0; t < bm.TriangleCount(); t++ {
		vi := bm.TriangleVertices(t)
		base := len(positions)
		positions = append(positions, bm.Vertices[vi[0]], bm.Vertices[vi[1]], bm.Vertices[vi[2]])
		triangles = append(triangles, [3]int{base, base + 1, base + 2})
		ids = append(ids, bm.OriginalID[t])
	}
	return mesh.FromTriangleSoup(positions, triangles, ids, cfg)
}

func triangleBoxes(m *mesh.HalfEdgeMesh) []geom.BoundingBox {
	boxes := make([]geom.BoundingBox, m.TriangleCount())
	for t := range boxes {
		p := m.TrianglePositions(t)
		bb := geom.EmptyBoundingBox()
		bb = bb.ExpandPoint(p[0]).ExpandPoint(p[1]).ExpandPoint(p[2])
		boxes[t] = bb
	}
	return boxes
}

// refine splits every triangle of m that has recorded chords and tags
// each resulting sub-triangle with its provenance, per §4.6 Phase 3/4.
func refine(m *mesh.HalfEdgeMesh, chords [][]segment, fromA bool, coincident map[int]int) []refinedTri {
	var out []refinedTri
	for t := 0; t < m.TriangleCount(); t++ {
		tri := m.TrianglePositions(t)
		twin, hasCoincident := coincident[t]
		if !hasCoincident {
			twin = -1
		}
		for _, sub := range splitTriangle(tri, chords[t]) {
			out = append(out, refinedTri{
				verts:    sub,
				id:       m.OriginalID[t],
				fromA:    fromA,
				parent:   t,
				coincide: twin,
			})
		}
	}
	return out
}

// buildManifold assembles the kept triangles into a validated Manifold,
// merging near-coincident vertices along the intersection curve via
// BuildFromTriangleSoup's tolerance dedup, and falling back to the one
// explicit Merge repair pass (§4.2) before giving up.
func buildManifold(kept []refinedTri, cfg geomconfig.Config) (*mesh.Manifold, error) {
	if len(kept) == 0 {
		return mesh.Empty, nil
	}
	positions := make([]geom.Vec3, 0, len(kept)*3)
	triangles := make([][3]int, len(kept))
	ids := make([]uint32, len(kept))
	for i, rt := range kept {
		base := len(positions)
		positions = append(positions, rt.verts[0], rt.verts[1], rt.verts[2])
		triangles[i] = [3]int{base, base + 1, base + 2}
		ids[i] = rt.id
	}
	m, err := mesh.BuildFromTriangleSoup(positions, triangles, ids, cfg)
	if err != nil {
		return nil, err
	}
	if errs := m.Validate(cfg); len(errs) > 0 {
		repaired, ok := m.Merge(cfg.MinEdgeLength*10, cfg)
		if !ok {
			return nil, errs[0]
		}
		m = repaired
	}
	return mesh.NewManifold(m), nil
}

// BatchUnion reduces N manifolds to their union via a balanced pairwise
// tree (§4.6): at every step it combines the two smallest pending
// manifolds by triangle count, rather than a left fold, to minimize
// intermediate triangle counts.
func BatchUnion(manifolds []*mesh.Manifold, cfg geomconfig.Config) (*mesh.Manifold, error) {
	pending := lo.Filter(manifolds, func(m *mesh.Manifold, _ int) bool { return m != nil && !m.IsEmpty() })
	if len(pending) == 0 {
		return mesh.Empty, nil
	}
	for len(pending) > 1 {
		// Find the two smallest pending manifolds by triangle count.
		smallestIdx, secondIdx := -1, -1
		for idx, m := range pending {
			if smallestIdx == -1 || m.TriangleCount() < pending[smallestIdx].TriangleCount() {
				secondIdx = smallestIdx
				smallestIdx = idx
			} else if secondIdx == -1 || m.TriangleCount() < pending[secondIdx].TriangleCount() {
				secondIdx = idx
			}
		}
		combined, err := Compute(Union, pending[smallestIdx], pending[secondIdx], cfg)
		if err != nil {
			return nil, err
		}
		next := make([]*mesh.Manifold, 0, len(pending)-1)
		for idx, m := range pending {
			if idx == smallestIdx || idx == secondIdx {
				continue
			}
			next = append(next, m)
		}
		next = append(next, combined)
		pending = next
	}
	return pending[0], nil
}

// BatchIntersection reduces N manifolds to their intersection via the same
// balanced smallest-pair tree as BatchUnion (§4.6 asks for "a parallel
// pairwise reduction (balanced tree)... for both"). An empty intersection
// anywhere in the tree short-circuits the whole reduction, since
// intersecting anything further with an empty manifold stays empty.
func BatchIntersection(manifolds []*mesh.Manifold, cfg geomconfig.Config) (*mesh.Manifold, error) {
	pending := lo.Filter(manifolds, func(m *mesh.Manifold, _ int) bool { return m != nil })
	if len(pending) == 0 {
		return mesh.Empty, nil
	}
	for _, m := range pending {
		if m.IsEmpty() {
			return mesh.Empty, nil
		}
	}
	for len(pending) > 1 {
		smallestIdx, secondIdx := -1, -1
		for idx, m := range pending {
			if smallestIdx == -1 || m.TriangleCount() < pending[smallestIdx].TriangleCount() {
				secondIdx = smallestIdx
				smallestIdx = idx
			} else if secondIdx == -1 || m.TriangleCount() < pending[secondIdx].TriangleCount() {
				secondIdx = idx
			}
		}
		combined, err := Compute(Intersection, pending[smallestIdx], pending[secondIdx], cfg)
		if err != nil {
			return nil, err
		}
		if combined.IsEmpty() {
			return mesh.Empty, nil
		}
		next := make([]*mesh.Manifold, 0, len(pending)-1)
		for idx, m := range pending {
			if idx == smallestIdx || idx == secondIdx {
				continue
			}
			next = append(next, m)
		}
		next = append(next, combined)
		pending = next
	}
	return pending[0], nil
}

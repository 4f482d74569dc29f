package mesh

import (
	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
)

// Manifold is the reference-counted immutable wrapper of §3 around a
// HalfEdgeMesh plus its cached bounding box. It is modeled after the
// teacher's cgo manifoldSolid/ManifoldKernel finalizer-based lifetime
// pattern (pkg/kernel/manifold/manifold.go in the teacher repo), but
// without cgo: a *Manifold is an ordinary Go pointer to an immutable
// struct, so the garbage collector already provides the "free when the
// last reference drops" behaviour a manual refcount gives a C binding.
// Cloning is O(1) (copy the pointer); every operation builds a new arena
// and returns a new *Manifold rather than mutating this one.
type Manifold struct {
	mesh *HalfEdgeMesh
	bbox geom.BoundingBox
}

// Empty is the distinguished empty manifold (§3): a Manifold with no
// vertices or triangles. All kernel operations treat it as the identity
// element for union and the absorbing element for intersection.
var Empty = &Manifold{mesh: &HalfEdgeMesh{}, bbox: geom.EmptyBoundingBox()}

// NewManifold wraps a validated HalfEdgeMesh. Callers that already ran
// Validate (e.g. primitive constructors, the boolean engine) use this
// directly; callers with untrusted triangle data should go through
// FromTriangleSoup instead.
func NewManifold(m *HalfEdgeMesh) *Manifold {
	if m == nil || m.TriangleCount() == 0 {
		return Empty
	}
	return &Manifold{mesh: m, bbox: m.ComputeBBox()}
}

// FromTriangleSoup builds and validates a Manifold from raw triangle data,
// the entry point STL import and primitive constructors share.
func FromTriangleSoup(positions []geom.Vec3, triangles [][3]int, originalID []uint32, cfg geomconfig.Config) (*Manifold, error) {
	m, err := BuildFromTriangleSoup(positions, triangles, originalID, cfg)
	if err != nil {
		return nil, err
	}
	if errs := m.Validate(cfg); len(errs) > 0 {
		return nil, errs[0]
	}
	return NewManifold(m), nil
}

// Mesh returns the underlying half-edge mesh. Callers must not mutate its
// slices in place; treat it as read-only, matching the teacher's
// never-expose-interior-mutable-references rule (spec design notes §9).
func (man *Manifold) Mesh() *HalfEdgeMesh { return man.mesh }

// IsEmpty reports whether this is the distinguished empty manifold.
func (man *Manifold) IsEmpty() bool { return man == Empty || man.mesh.TriangleCount() == 0 }

// BoundingBox returns the cached bounding box.
func (man *Manifold) BoundingBox() geom.BoundingBox { return man.bbox }

// Volume returns the enclosed volume of the manifold.
func (man *Manifold) Volume() float64 {
	if man.IsEmpty() {
		return 0
	}
	return man.mesh.Volume()
}

// SurfaceArea returns the total surface area of the manifold.
func (man *Manifold) SurfaceArea() float64 {
	if man.IsEmpty() {
		return 0
	}
	return man.mesh.SurfaceArea()
}

// TriangleCount returns the number of triangles in the manifold.
func (man *Manifold) TriangleCount() int {
	if man == nil {
		return 0
	}
	return man.mesh.TriangleCount()
}

// Transform applies m to every vertex, producing a new Manifold (copy-on-
// write over the arenas, per §4.4). When m's linear part has negative
// determinant, triangle winding is flipped so the solid remains
// externally-CCW. Cached face normals are not carried over; callers that
// need them call ComputeFaceNormals again.
func (man *Manifold) Transform(m geom.Mat4) *Manifold {
	if man.IsEmpty() {
		return Empty
	}
	src := man.mesh
	flip := m.LinearDeterminant() < 0

	newVerts := make([]geom.Vec3, len(src.Vertices))
	for i, v := range src.Vertices {
		newVerts[i] = m.Apply(v)
	}

	newHalfEdges := make([]HalfEdge, len(src.HalfEdges))
	copy(newHalfEdges, src.HalfEdges)
	if flip {
		for t := 0; t < src.TriangleCount(); t++ {
			he := triangleHalfEdges(t)
			a, b, c := newHalfEdges[he[0]], newHalfEdges[he[1]], newHalfEdges[he[2]]
			// Reverse winding: (a,b,c) -> (a,c,b). Origins rotate
			// accordingly; twins are re-derived below since the directed
			// edges have changed.
			newHalfEdges[he[0]] = HalfEdge{Origin: a.Origin, Next: int32(he[2])}
			newHalfEdges[he[1]] = HalfEdge{Origin: c.Origin, Next: int32(he[0])}
			newHalfEdges[he[2]] = HalfEdge{Origin: b.Origin, Next: int32(he[1])}
		}
		rebuildTwins(newHalfEdges)
	}

	newMesh := &HalfEdgeMesh{Vertices: newVerts, HalfEdges: newHalfEdges, OriginalID: append([]uint32(nil), src.OriginalID...)}
	return NewManifold(newMesh)
}

// rebuildTwins recomputes twin pointers in place after winding has been
// reversed; every directed edge is still present exactly twice (once per
// original twin pair), just with swapped direction, so pairing by
// (origin, dest) key again is sufficient and cannot fail.
func rebuildTwins(halfEdges []HalfEdge) {
	type edgeKey struct{ a, b int32 }
	forward := make(map[edgeKey]int, len(halfEdges))
	for i, he := range halfEdges {
		dest := halfEdges[he.Next].Origin
		forward[edgeKey{he.Origin, dest}] = i
	}
	for i, he := range halfEdges {
		dest := halfEdges[he.Next].Origin
		if twinIdx, ok := forward[edgeKey{dest, he.Origin}]; ok {
			halfEdges[i].Twin = int32(twinIdx)
		}
	}
}

// Clone returns a cheap O(1) handle sharing the same underlying arenas
// (the handle itself is copied, not the mesh data) — the "cheap clone" the
// GeometryCache relies on for cache hits (§4.8).
func (man *Manifold) Clone() *Manifold {
	clone := *man
	return &clone
}

package mesh

import (
	"math"
	"sort"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
)

// HalfEdge is one directed side of an edge. Origin is the vertex the
// half-edge starts at; Twin is the opposing half-edge on the same edge
// (-1 if the mesh is under construction and not yet paired); Next is the
// next half-edge around the same triangle.
type HalfEdge struct {
	Origin int32
	Twin   int32
	Next   int32
}

// HalfEdgeMesh is the three-arena indexed topology store of §3/§4.2:
// vertices, half-edges (grouped in runs of three per triangle), and an
// optional per-triangle cache of face normals. tri_original_id tags each
// triangle with the source primitive/material region and is carried
// through every mesh-producing operation, including booleans.
type HalfEdgeMesh struct {
	Vertices       []geom.Vec3
	HalfEdges      []HalfEdge
	FaceNormals    []geom.Vec3 // len 0 until ComputeFaceNormals runs, else one per triangle
	OriginalID     []uint32    // one per triangle
	cachedBBox     *geom.BoundingBox
}

// TriangleCount returns the number of triangles (half-edges / 3).
func (m *HalfEdgeMesh) TriangleCount() int { return len(m.HalfEdges) / 3 }

// VertexCount returns the number of vertices.
func (m *HalfEdgeMesh) VertexCount() int { return len(m.Vertices) }

// triangleHalfEdges returns the indices of the three half-edges of
// triangle t, per the i/3, 3*(i/3)+(i+1)%3 convention of §3.
func triangleHalfEdges(t int) [3]int { return [3]int{3 * t, 3*t + 1, 3*t + 2} }

// TriangleVertices returns the three vertex indices of triangle t in
// winding order.
func (m *HalfEdgeMesh) TriangleVertices(t int) [3]int32 {
	he := triangleHalfEdges(t)
	return [3]int32{m.HalfEdges[he[0]].Origin, m.HalfEdges[he[1]].Origin, m.HalfEdges[he[2]].Origin}
}

// TrianglePositions returns the three vertex positions of triangle t.
func (m *HalfEdgeMesh) TrianglePositions(t int) [3]geom.Vec3 {
	vi := m.TriangleVertices(t)
	return [3]geom.Vec3{m.Vertices[vi[0]], m.Vertices[vi[1]], m.Vertices[vi[2]]}
}

// AllTrianglePositions returns every triangle's three vertex positions, for
// callers (e.g. the boolean engine's winding-number classification) that
// need the whole mesh as a flat triangle list rather than index lookups.
func (m *HalfEdgeMesh) AllTrianglePositions() [][3]geom.Vec3 {
	out := make([][3]geom.Vec3, m.TriangleCount())
	for t := range out {
		out[t] = m.TrianglePositions(t)
	}
	return out
}

// quantize rounds a coordinate to a grid cell of the given tolerance, used
// to deduplicate near-coincident vertices without an epsilon-based sign
// test (this is a merge operation, not a classification decision, so a
// tolerance bucket is the correct tool per §4.1's "quick reject" carve-out).
func quantize(v float64, tol float64) int64 {
	return int64(math.Round(v / tol))
}

type vertexKey struct{ x, y, z int64 }

// BuildFromTriangleSoup deduplicates vertices within cfg.MinEdgeLength and
// pairs half-edges by matching opposite directed edges, per §4.2. originalID
// must have one entry per input triangle (the tri_original_id source tag).
// It fails with *NonManifold or *OrientationMismatch if any edge does not
// have exactly one matching opposite-direction twin, and with
// *NonFiniteVertex if any input position is not finite.
func BuildFromTriangleSoup(positions []geom.Vec3, triangles [][3]int, originalID []uint32, cfg geomconfig.Config) (*HalfEdgeMesh, error) {
	for i, p := range positions {
		if !p.IsFinite() {
			return nil, &NonFiniteVertex{Index: i}
		}
	}

	tol := cfg.MinEdgeLength
	if tol <= 0 {
		tol = geomconfig.Default.MinEdgeLength
	}

	// Dedup vertices into a tolerance grid.
	keyToIndex := make(map[vertexKey]int32, len(positions))
	remap := make([]int32, len(positions))
	var verts []geom.Vec3
	for i, p := range positions {
		k := vertexKey{quantize(p.X, tol), quantize(p.Y, tol), quantize(p.Z, tol)}
		if idx, ok := keyToIndex[k]; ok {
			remap[i] = idx
			continue
		}
		idx := int32(len(verts))
		keyToIndex[k] = idx
		verts = append(verts, p)
		remap[i] = idx
	}

	numTri := len(triangles)
	halfEdges := make([]HalfEdge, numTri*3)
	for t, tri := range triangles {
		for j := 0; j < 3; j++ {
			srcIdx := tri[j]
			if srcIdx < 0 || srcIdx >= len(remap) {
				return nil, &InvalidIndex{Index: srcIdx}
			}
			he := 3*t + j
			halfEdges[he] = HalfEdge{
				Origin: remap[srcIdx],
				Twin:   -1,
				Next:   int32(3*t + (j+1)%3),
			}
		}
	}

	// Pair half-edges by directed (origin, dest) key; the twin of a
	// half-edge origin->dest must be the unique dest->origin half-edge.
	type edgeKey struct{ a, b int32 }
	forward := make(map[edgeKey]int, len(halfEdges))
	for i, he := range halfEdges {
		dest := halfEdges[he.Next].Origin
		k := edgeKey{he.Origin, dest}
		if _, exists := forward[k]; exists {
			return nil, &OrientationMismatch{Edge: i}
		}
		forward[k] = i
	}
	for i, he := range halfEdges {
		dest := halfEdges[he.Next].Origin
		twinKey := edgeKey{dest, he.Origin}
		twinIdx, ok := forward[twinKey]
		if !ok {
			return nil, &NonManifold{Edge: i}
		}
		halfEdges[i].Twin = int32(twinIdx)
	}

	ids := make([]uint32, numTri)
	copy(ids, originalID)

	return &HalfEdgeMesh{Vertices: verts, HalfEdges: halfEdges, OriginalID: ids}, nil
}

// ComputeFaceNormals fills FaceNormals with the unit normal of each
// triangle, computed from the cross product of its edge vectors.
func (m *HalfEdgeMesh) ComputeFaceNormals() {
	n := m.TriangleCount()
	normals := make([]geom.Vec3, n)
	for t := 0; t < n; t++ {
		p := m.TrianglePositions(t)
		e1 := p[1].Sub(p[0])
		e2 := p[2].Sub(p[0])
		normals[t] = e1.Cross(e2).Normalized()
	}
	m.FaceNormals = normals
}

// ComputeBBox returns (and caches) the axis-aligned bounding box of every
// vertex in the mesh.
func (m *HalfEdgeMesh) ComputeBBox() geom.BoundingBox {
	if m.cachedBBox != nil {
		return *m.cachedBBox
	}
	bb := geom.EmptyBoundingBox()
	for _, v := range m.Vertices {
		bb = bb.ExpandPoint(v)
	}
	m.cachedBBox = &bb
	return bb
}

// Volume returns the signed volume of the mesh via the divergence-theorem
// sum of signed tetrahedra from the origin to each triangle; a closed,
// consistently-wound mesh yields its true enclosed volume.
func (m *HalfEdgeMesh) Volume() float64 {
	var vol float64
	for t := 0; t < m.TriangleCount(); t++ {
		p := m.TrianglePositions(t)
		vol += p[0].Dot(p[1].Cross(p[2]))
	}
	return vol / 6
}

// SurfaceArea returns the sum of triangle areas via the cross-product
// magnitude.
func (m *HalfEdgeMesh) SurfaceArea() float64 {
	var area float64
	for t := 0; t < m.TriangleCount(); t++ {
		p := m.TrianglePositions(t)
		area += p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Length() / 2
	}
	return area
}

// triangleArea returns the area of triangle t, used by Validate's
// degenerate-triangle check.
func (m *HalfEdgeMesh) triangleArea(t int) float64 {
	p := m.TrianglePositions(t)
	return p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Length() / 2
}

// EulerCharacteristic returns V - E + F over the mesh's vertices, edges
// (half-edges / 2, since the mesh is required to be manifold-paired), and
// faces (triangles).
func (m *HalfEdgeMesh) EulerCharacteristic() int {
	v := m.VertexCount()
	f := m.TriangleCount()
	e := len(m.HalfEdges) / 2
	return v - e + f
}

// Validate checks closedness, orientation consistency, absence of
// degenerate triangles, and the Euler invariant, per §4.2. It returns every
// violation found rather than stopping at the first — callers surface all
// of them as diagnostics.
func (m *HalfEdgeMesh) Validate(cfg geomconfig.Config) []error {
	var errs []error

	for i, v := range m.Vertices {
		if !v.IsFinite() {
			errs = append(errs, &NonFiniteVertex{Index: i})
		}
	}

	if len(m.HalfEdges)%3 != 0 {
		errs = append(errs, &NonManifold{Edge: len(m.HalfEdges) - 1})
	}

	for i, he := range m.HalfEdges {
		if he.Twin < 0 || int(he.Twin) >= len(m.HalfEdges) {
			errs = append(errs, &NonManifold{Edge: i})
			continue
		}
		twin := m.HalfEdges[he.Twin]
		if int(twin.Twin) != i {
			errs = append(errs, &NonManifold{Edge: i})
			continue
		}
		dest := m.HalfEdges[he.Next].Origin
		twinDest := m.HalfEdges[twin.Next].Origin
		if twin.Origin != dest || twinDest != he.Origin {
			errs = append(errs, &OrientationMismatch{Edge: i})
		}
	}

	minArea := cfg.MinTriangleArea
	if minArea <= 0 {
		minArea = geomconfig.Default.MinTriangleArea
	}
	for t := 0; t < m.TriangleCount(); t++ {
		if m.triangleArea(t) < minArea {
			errs = append(errs, &DegenerateTriangle{Index: t})
		}
	}

	if m.VertexCount() > 0 && m.EulerCharacteristic()%2 != 0 {
		errs = append(errs, &NonManifold{Edge: -1})
	}

	return errs
}

// Merge attempts to stitch vertices within tolerance and re-derive twin
// pairing, returning the repaired mesh and whether the result is now
// manifold. This is the one explicit opt-in repair §4.2 allows; ordinary
// construction never silently fixes a bad mesh.
func (m *HalfEdgeMesh) Merge(tolerance float64, cfg geomconfig.Config) (*HalfEdgeMesh, bool) {
	if tolerance <= 0 {
		tolerance = cfg.MinEdgeLength
	}
	positions := make([]geom.Vec3, 0, m.TriangleCount()*3)
	triangles := make([][3]int, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		vi := m.TriangleVertices(t)
		var tri [3]int
		for j, idx := range vi {
			tri[j] = len(positions)
			positions = append(positions, m.Vertices[idx])
		}
		triangles[t] = tri
	}
	rebuilt, err := BuildFromTriangleSoup(positions, triangles, m.OriginalID, geomconfig.Config{MinEdgeLength: tolerance, MinTriangleArea: cfg.MinTriangleArea})
	if err != nil {
		return m, false
	}
	errs := rebuilt.Validate(cfg)
	return rebuilt, len(errs) == 0
}

// sortTrianglesByOriginalID returns triangle indices in a stable,
// deterministic order by original id, without depending on map iteration
// order. Nothing in the module calls it.
func sortTrianglesByOriginalID(ids []uint32) []int {
	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return ids[order[i]] < ids[order[j]] })
	return order
}

// Package export implements the §6 host boundary: the GPU-friendly MeshGL
// projection, the zero-copy MeshHandle contract, and STL encode/decode.
// This is the one place a *mesh.Manifold's arenas are downcast to f32 and
// handed to a caller outside the kernel's own reference-counting (§3's
// "no raw pointer is exposed across the host boundary except at the final
// export step").
package export

import "github.com/chazu/geode/pkg/kernel/mesh"

// MeshGL is the interleaved, GPU-ready projection of a Manifold (§3, §6):
// NumProp f32 values per vertex (the first three always x, y, z),
// TriVerts indexing three vertices per triangle, and TriOriginalID
// tagging each triangle with its source primitive/material region.
type MeshGL struct {
	NumProp       int
	VertProperties []float32
	TriVerts       []uint32
	TriOriginalID  []uint32
}

// VertexCount returns the number of vertices (len(VertProperties) / NumProp).
func (g *MeshGL) VertexCount() int {
	if g.NumProp == 0 {
		return 0
	}
	return len(g.VertProperties) / g.NumProp
}

// TriangleCount returns the number of triangles.
func (g *MeshGL) TriangleCount() int { return len(g.TriVerts) / 3 }

// ToMeshGL projects man's half-edge arenas into the interleaved f32 layout
// of §6. Vertex positions are downcast from f64 to f32; the mesh's own
// vertex deduplication (done at construction time, within
// geomconfig.MinEdgeLength) is reused as-is rather than re-deduplicating
// here.
func ToMeshGL(man *mesh.Manifold) *MeshGL {
	if man.IsEmpty() {
		return &MeshGL{NumProp: 3}
	}
	m := man.Mesh()
	vertProps := make([]float32, 0, m.VertexCount()*3)
	for _, v := range m.Vertices {
		vertProps = append(vertProps, float32(v.X), float32(v.Y), float32(v.Z))
	}

	triCount := m.TriangleCount()
	triVerts := make([]uint32, 0, triCount*3)
	for t := 0; t < triCount; t++ {
		vi := m.TriangleVertices(t)
		triVerts = append(triVerts, uint32(vi[0]), uint32(vi[1]), uint32(vi[2]))
	}

	ids := make([]uint32, triCount)
	copy(ids, m.OriginalID)

	return &MeshGL{
		NumProp:       3,
		VertProperties: vertProps,
		TriVerts:       triVerts,
		TriOriginalID:  ids,
	}
}

// FaceNormals returns one normal per triangle as a flat f32 triple array,
// computing them from the manifold if they have not already been cached.
// The normal_ptr/normal_count fields of the §6 host contract are optional;
// a caller that does not need per-triangle normals can skip calling this.
func FaceNormals(man *mesh.Manifold) []float32 {
	if man.IsEmpty() {
		return nil
	}
	m := man.Mesh()
	if len(m.FaceNormals) == 0 {
		m.ComputeFaceNormals()
	}
	out := make([]float32, 0, len(m.FaceNormals)*3)
	for _, n := range m.FaceNormals {
		out = append(out, float32(n.X), float32(n.Y), float32(n.Z))
	}
	return out
}

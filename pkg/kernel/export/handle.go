package export

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

// MeshHandle is the §6 zero-copy host contract: an opaque identity over a
// MeshGL projection. In a WASM host this identity would carry linear-
// memory offsets (vertex_ptr/index_ptr/id_ptr/normal_ptr); in this Go
// binding the host reads the same data directly through the handle's
// accessor methods instead of dereferencing raw offsets, but the lifetime
// contract is the same one named in §3/§6: the handle's buffers remain
// live and stable until Release is called, and Release invalidates every
// accessor.
type MeshHandle struct {
	ID uuid.UUID

	vertexData []float32
	indices    []uint32
	ids        []uint32
	normals    []float32

	released bool
}

// registry tracks live handles so Release can be validated and so a host
// binding can enumerate outstanding handles for leak diagnostics.
var (
	registryMu sync.Mutex
	registry   = make(map[uuid.UUID]*MeshHandle)
)

// Export produces a MeshHandle over man, registering it as live. withNormals
// additionally computes and attaches per-triangle normals (normal_ptr in
// §6's contract; zero/absent when withNormals is false).
func Export(man *mesh.Manifold, withNormals bool) *MeshHandle {
	gl := ToMeshGL(man)
	h := &MeshHandle{
		ID:         uuid.New(),
		vertexData: gl.VertProperties,
		indices:    gl.TriVerts,
		ids:        gl.TriOriginalID,
	}
	if withNormals {
		h.normals = FaceNormals(man)
	}

	registryMu.Lock()
	registry[h.ID] = h
	registryMu.Unlock()
	return h
}

// Lookup returns the live handle for id, or nil if it does not exist or
// has already been released.
func Lookup(id uuid.UUID) *MeshHandle {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry[id]
}

// Release invalidates h: its accessors return nil afterward, and its ID
// is removed from the registry. Calling Release twice is a no-op.
func (h *MeshHandle) Release() {
	registryMu.Lock()
	defer registryMu.Unlock()
	if h.released {
		return
	}
	h.released = true
	h.vertexData = nil
	h.indices = nil
	h.ids = nil
	h.normals = nil
	delete(registry, h.ID)
}

// VertexBuffer returns the interleaved [x0,y0,z0,...] f32 vertex buffer
// (vertex_ptr/vertex_count in §6), or nil if the handle has been released.
func (h *MeshHandle) VertexBuffer() []float32 { return h.vertexData }

// IndexBuffer returns the u32 triangle-index buffer (index_ptr/index_count).
func (h *MeshHandle) IndexBuffer() []uint32 { return h.indices }

// OriginalIDBuffer returns the per-triangle tri_original_id buffer
// (id_ptr/id_count).
func (h *MeshHandle) OriginalIDBuffer() []uint32 { return h.ids }

// NormalBuffer returns the per-triangle normal buffer (normal_ptr/
// normal_count), or nil if Export was called with withNormals=false.
func (h *MeshHandle) NormalBuffer() []float32 { return h.normals }

// VertexCount returns the number of f32 triples in the vertex buffer.
func (h *MeshHandle) VertexCount() int { return len(h.vertexData) / 3 }

// TriangleCount returns the number of triangles (IndexBuffer() / 3).
func (h *MeshHandle) TriangleCount() int { return len(h.indices) / 3 }

func (h *MeshHandle) String() string {
	return fmt.Sprintf("MeshHandle{%s, %d verts, %d tris}", h.ID, h.VertexCount(), h.TriangleCount())
}

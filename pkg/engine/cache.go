package engine

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/chazu/geode/pkg/ir"
	"github.com/glycerine/blake2b"
)

// GeometryCache maps a 64-bit content hash of (IR subtree, ambient
// bindings) to a shared *Value, per §3/§4.8. Entries are never mutated;
// eviction, the cache's one optional size-bounding policy (§3), removes
// the oldest-inserted entries first until the cumulative triangle count
// fits; Get does not refresh an entry's position, so eviction follows
// insertion order, not recency of use. Reads take the shared lock; writes hold the
// exclusive lock only long enough to insert one completed entry (§5) —
// the entry itself, once inserted, is an immutable reference-counted
// Manifold/CrossSection any number of readers can share concurrently.
type GeometryCache struct {
	mu         sync.RWMutex
	entries    map[uint64]*cacheEntry
	order      []uint64 // insertion order, oldest first
	triangles  int
	maxTriangles int // 0 = unbounded
}

type cacheEntry struct {
	key   uint64
	value Value
	tris  int
}

// NewCache returns an empty cache. maxTriangles of 0 disables eviction.
func NewCache(maxTriangles int) *GeometryCache {
	return &GeometryCache{
		entries:      make(map[uint64]*cacheEntry),
		maxTriangles: maxTriangles,
	}
}

// Get returns the cached value for key and whether it was present. The
// caller receives the same reference-counted Manifold/CrossSection every
// hit; Value wraps plain Go pointers, so "clone" is just copying the
// struct (§4.8's "a cheap clone of the stored Manifold").
func (c *GeometryCache) Get(key uint64) (Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return Value{}, false
	}
	return e.value, true
}

// Put inserts a completed evaluation result under key, evicting the
// oldest-inserted entries first if maxTriangles is exceeded.
func (c *GeometryCache) Put(key uint64, v Value) {
	tris := valueTriangleCount(v)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		return
	}
	c.entries[key] = &cacheEntry{key: key, value: v, tris: tris}
	c.order = append(c.order, key)
	c.triangles += tris

	for c.maxTriangles > 0 && c.triangles > c.maxTriangles && len(c.order) > 1 {
		oldest := c.order[0]
		c.order = c.order[1:]
		if e, ok := c.entries[oldest]; ok {
			c.triangles -= e.tris
			delete(c.entries, oldest)
		}
	}
}

// Clear empties the cache, per §9's "explicitly clearable" lifecycle note.
func (c *GeometryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheEntry)
	c.order = nil
	c.triangles = 0
}

func valueTriangleCount(v Value) int {
	if v.Is3D {
		return v.Solid.TriangleCount()
	}
	if v.Section == nil {
		return 0
	}
	n := 0
	for _, contour := range v.Section.Contours {
		n += len(contour)
	}
	return n
}

// cacheKey hashes the structural content of node plus the free variables
// (here: the ambient $fn/$fa/$fs/$t the subtree can observe) into a
// 64-bit key via blake2b truncated to its first 8 bytes, per §3/§4.8.
// hashNode is a pure function of the node's structure, so structurally
// equal subtrees under equal bindings get the same key. The cache stores
// only the key, not the node, and Get makes no equality check on a hit:
// two different inputs whose 64-bit keys collided would share one entry.
// With a blake2b prefix such a collision is astronomically unlikely.
func cacheKey(node *ir.Node, ctx EvaluationContext) uint64 {
	h, _ := blake2b.New256(nil)
	hashNode(h, node)
	binary.Write(h, binary.LittleEndian, ctx.Fn)
	binary.Write(h, binary.LittleEndian, ctx.Fa)
	binary.Write(h, binary.LittleEndian, ctx.Fs)
	binary.Write(h, binary.LittleEndian, ctx.T)
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}

type byteWriter interface {
	Write(p []byte) (int, error)
}

func hashNode(w byteWriter, n *ir.Node) {
	if n == nil {
		w.Write([]byte{0})
		return
	}
	writeInt(w, int(n.Kind))
	switch n.Kind {
	case ir.KindPrimitive:
		writeInt(w, int(n.Primitive))
		hashPrimitiveParams(w, n.PrimArgs)
	case ir.KindTransform:
		writeInt(w, int(n.Transform))
		hashTransformParams(w, n.XformArgs)
	case ir.KindBoolean:
		writeInt(w, int(n.Boolean))
	case ir.KindSpecial:
		writeInt(w, int(n.Special))
		hashSpecialParams(w, n.SpecialArgs)
	}
	writeInt(w, len(n.Children))
	for _, child := range n.Children {
		hashNode(w, child)
	}
}

func writeInt(w byteWriter, v int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	w.Write(buf[:])
}

func writeFloat(w byteWriter, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	w.Write(buf[:])
}

func hashPrimitiveParams(w byteWriter, p ir.PrimitiveParams) {
	for _, f := range p.Size {
		writeFloat(w, f)
	}
	writeBool(w, p.Center)
	writeFloat(w, p.Radius)
	writeFloat(w, p.Height)
	writeFloat(w, p.RBottom)
	writeFloat(w, p.RTop)
	for _, f := range p.SizeXY {
		writeFloat(w, f)
	}
	writeInt(w, len(p.Points))
	for _, pt := range p.Points {
		for _, f := range pt {
			writeFloat(w, f)
		}
	}
	writeInt(w, len(p.Faces))
	for _, face := range p.Faces {
		writeInt(w, len(face))
		for _, idx := range face {
			writeInt(w, idx)
		}
	}
	writeInt(w, len(p.Points2D))
	for _, pt := range p.Points2D {
		for _, f := range pt {
			writeFloat(w, f)
		}
	}
	writeInt(w, len(p.Paths))
	for _, path := range p.Paths {
		writeInt(w, len(path))
		for _, idx := range path {
			writeInt(w, idx)
		}
	}
	writeInt(w, p.Fn)
	writeFloat(w, p.Fa)
	writeFloat(w, p.Fs)
}

func hashTransformParams(w byteWriter, p ir.TransformParams) {
	for _, f := range p.Vector {
		writeFloat(w, f)
	}
	for _, f := range p.Axis {
		writeFloat(w, f)
	}
	writeFloat(w, p.Angle)
	for _, f := range p.Euler {
		writeFloat(w, f)
	}
	for _, row := range p.Matrix {
		for _, f := range row {
			writeFloat(w, f)
		}
	}
	for _, b := range p.Auto {
		writeBool(w, b)
	}
}

func hashSpecialParams(w byteWriter, p ir.SpecialParams) {
	writeFloat(w, p.Height)
	writeFloat(w, p.Twist)
	writeInt(w, p.Slices)
	for _, f := range p.TopScale {
		writeFloat(w, f)
	}
	writeFloat(w, p.Angle)
	writeBool(w, p.Cut)
	w.Write([]byte(p.Path))
	w.Write([]byte(p.Text))
	writeFloat(w, p.Size)
	writeInt(w, p.Fn)
	writeFloat(w, p.Fa)
	writeFloat(w, p.Fs)
}

func writeBool(w byteWriter, b bool) {
	if b {
		w.Write([]byte{1})
	} else {
		w.Write([]byte{0})
	}
}

package export

import (
	"bytes"
	"testing"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
	"github.com/chazu/geode/pkg/kernel/primitive"
)

func testCube(t *testing.T) *mesh.Manifold {
	t.Helper()
	m, err := primitive.Cube(geom.Vec3{X: 2, Y: 2, Z: 2}, true, 1, geomconfig.Default)
	if err != nil {
		t.Fatalf("building test cube: %v", err)
	}
	return m
}

func TestToMeshGLShapes(t *testing.T) {
	m := testCube(t)
	gl := ToMeshGL(m)
	if gl.NumProp != 3 {
		t.Fatalf("NumProp = %d, want 3", gl.NumProp)
	}
	if gl.VertexCount() != m.Mesh().VertexCount() {
		t.Errorf("VertexCount = %d, want %d", gl.VertexCount(), m.Mesh().VertexCount())
	}
	if gl.TriangleCount() != m.TriangleCount() {
		t.Errorf("TriangleCount = %d, want %d", gl.TriangleCount(), m.TriangleCount())
	}
	if len(gl.TriOriginalID) != gl.TriangleCount() {
		t.Errorf("len(TriOriginalID) = %d, want %d", len(gl.TriOriginalID), gl.TriangleCount())
	}
}

func TestMeshHandleLifecycle(t *testing.T) {
	m := testCube(t)
	h := Export(m, true)

	if Lookup(h.ID) != h {
		t.Fatal("exported handle not registered")
	}
	if h.VertexCount() == 0 || h.TriangleCount() == 0 {
		t.Fatal("handle reports empty buffers for a non-empty manifold")
	}
	if len(h.NormalBuffer()) != h.TriangleCount()*3 {
		t.Errorf("normal buffer len = %d, want %d", len(h.NormalBuffer()), h.TriangleCount()*3)
	}

	h.Release()
	if Lookup(h.ID) != nil {
		t.Error("handle still registered after Release")
	}
	if h.VertexBuffer() != nil || h.IndexBuffer() != nil {
		t.Error("released handle still exposes buffers")
	}

	h.Release() // idempotent
}

func TestSTLBinaryRoundTrip(t *testing.T) {
	m := testCube(t)

	var buf bytes.Buffer
	if err := WriteBinary(&buf, m, "test cube"); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	got, err := Import(&buf, geomconfig.Default)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got.TriangleCount() != m.TriangleCount() {
		t.Errorf("round-tripped triangle count = %d, want %d", got.TriangleCount(), m.TriangleCount())
	}
	wantVol, gotVol := m.Volume(), got.Volume()
	if diff := wantVol - gotVol; diff < -1e-6 || diff > 1e-6 {
		t.Errorf("round-tripped volume = %v, want %v", gotVol, wantVol)
	}
}

func TestSTLASCIIRoundTrip(t *testing.T) {
	m := testCube(t)

	var buf bytes.Buffer
	if err := WriteASCII(&buf, m, "test cube"); err != nil {
		t.Fatalf("WriteASCII: %v", err)
	}

	got, err := Import(&buf, geomconfig.Default)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got.TriangleCount() != m.TriangleCount() {
		t.Errorf("round-tripped triangle count = %d, want %d", got.TriangleCount(), m.TriangleCount())
	}
}

func TestTryMergeOnDuplicatedVertices(t *testing.T) {
	m := testCube(t)

	var buf bytes.Buffer
	if err := WriteBinary(&buf, m, "test cube"); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	got, err := TryMerge(&buf, 1e-6, geomconfig.Default)
	if err != nil {
		t.Fatalf("TryMerge: %v", err)
	}
	if got.IsEmpty() {
		t.Fatal("try_merge produced an empty manifold")
	}
}

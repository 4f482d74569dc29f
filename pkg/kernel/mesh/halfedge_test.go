package mesh

import (
	"math"
	"testing"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
)

// tetrahedronSoup returns the triangle soup of a regular-ish tetrahedron,
// wound so every face is CCW from outside, a minimal closed manifold.
func tetrahedronSoup() ([]geom.Vec3, [][3]int) {
	positions := []geom.Vec3{
		geom.NewVec3(0, 0, 0),
		geom.NewVec3(1, 0, 0),
		geom.NewVec3(0, 1, 0),
		geom.NewVec3(0, 0, 1),
	}
	triangles := [][3]int{
		{0, 2, 1}, // base, viewed from below (-z), CCW from outside
		{0, 1, 3},
		{1, 2, 3},
		{2, 0, 3},
	}
	return positions, triangles
}

func TestBuildFromTriangleSoupTetrahedron(t *testing.T) {
	positions, triangles := tetrahedronSoup()
	m, err := BuildFromTriangleSoup(positions, triangles, []uint32{1, 1, 1, 1}, geomconfig.Default)
	if err != nil {
		t.Fatalf("BuildFromTriangleSoup() error = %v", err)
	}
	if m.VertexCount() != 4 {
		t.Fatalf("VertexCount() = %d, want 4", m.VertexCount())
	}
	if m.TriangleCount() != 4 {
		t.Fatalf("TriangleCount() = %d, want 4", m.TriangleCount())
	}
	if errs := m.Validate(geomconfig.Default); len(errs) != 0 {
		t.Fatalf("Validate() = %v, want no errors", errs)
	}
}

func TestBuildFromTriangleSoupDedupesVertices(t *testing.T) {
	positions, triangles := tetrahedronSoup()
	// Duplicate every vertex with a sub-tolerance perturbation; expect dedup.
	dup := make([]geom.Vec3, 0, len(positions)*2)
	dupTriangles := make([][3]int, len(triangles))
	for i, tri := range triangles {
		var out [3]int
		for j, vi := range tri {
			idx := len(dup)
			dup = append(dup, positions[vi].Add(geom.NewVec3(1e-10, 0, 0)))
			out[j] = idx
		}
		dupTriangles[i] = out
	}
	m, err := BuildFromTriangleSoup(dup, dupTriangles, []uint32{1, 1, 1, 1}, geomconfig.Default)
	if err != nil {
		t.Fatalf("BuildFromTriangleSoup() error = %v", err)
	}
	if m.VertexCount() != 4 {
		t.Fatalf("VertexCount() = %d, want 4 after dedup", m.VertexCount())
	}
}

func TestBuildFromTriangleSoupRejectsNonFinite(t *testing.T) {
	positions := []geom.Vec3{geom.NewVec3(0, 0, 0), {}, {}}
	positions[1] = geom.NewVec3(1, 0, 0)
	positions[2] = geom.Vec3{X: 0, Y: math.Inf(1), Z: 0}
	_, err := BuildFromTriangleSoup(positions, [][3]int{{0, 1, 2}}, []uint32{1}, geomconfig.Default)
	if err == nil {
		t.Fatal("expected error for non-finite vertex")
	}
	if _, ok := err.(*NonFiniteVertex); !ok {
		t.Fatalf("error = %T, want *NonFiniteVertex", err)
	}
}

func TestBuildFromTriangleSoupRejectsOpenMesh(t *testing.T) {
	// A single triangle has edges with no twin: non-manifold.
	positions := []geom.Vec3{geom.NewVec3(0, 0, 0), geom.NewVec3(1, 0, 0), geom.NewVec3(0, 1, 0)}
	_, err := BuildFromTriangleSoup(positions, [][3]int{{0, 1, 2}}, []uint32{1}, geomconfig.Default)
	if err == nil {
		t.Fatal("expected non-manifold error for an open single triangle")
	}
}

func TestTetrahedronVolumeIsPositive(t *testing.T) {
	positions, triangles := tetrahedronSoup()
	m, err := BuildFromTriangleSoup(positions, triangles, []uint32{1, 1, 1, 1}, geomconfig.Default)
	if err != nil {
		t.Fatalf("BuildFromTriangleSoup() error = %v", err)
	}
	want := 1.0 / 6.0 // volume of this unit right tetrahedron
	if got := m.Volume(); !almostEqual(got, want, 1e-9) {
		t.Fatalf("Volume() = %v, want %v", got, want)
	}
}

func TestEulerCharacteristicOfTetrahedronIsTwo(t *testing.T) {
	positions, triangles := tetrahedronSoup()
	m, err := BuildFromTriangleSoup(positions, triangles, []uint32{1, 1, 1, 1}, geomconfig.Default)
	if err != nil {
		t.Fatalf("BuildFromTriangleSoup() error = %v", err)
	}
	if got := m.EulerCharacteristic(); got != 2 {
		t.Fatalf("EulerCharacteristic() = %d, want 2", got)
	}
}

func almostEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

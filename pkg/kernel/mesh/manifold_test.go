package mesh

import (
	"testing"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
)

func buildTetrahedronManifold(t *testing.T) *Manifold {
	t.Helper()
	positions, triangles := tetrahedronSoup()
	m, err := FromTriangleSoup(positions, triangles, []uint32{1, 1, 1, 1}, geomconfig.Default)
	if err != nil {
		t.Fatalf("FromTriangleSoup() error = %v", err)
	}
	return m
}

func TestManifoldEmptyIsDistinguished(t *testing.T) {
	if !Empty.IsEmpty() {
		t.Fatal("Empty.IsEmpty() = false")
	}
	if Empty.Volume() != 0 {
		t.Fatalf("Empty.Volume() = %v, want 0", Empty.Volume())
	}
	if Empty.TriangleCount() != 0 {
		t.Fatalf("Empty.TriangleCount() = %d, want 0", Empty.TriangleCount())
	}
}

func TestManifoldTransformTranslatePreservesVolume(t *testing.T) {
	m := buildTetrahedronManifold(t)
	translated := m.Transform(geom.Translate(geom.NewVec3(5, 5, 5)))
	if !almostEqual(translated.Volume(), m.Volume(), 1e-9) {
		t.Fatalf("translated volume = %v, want %v", translated.Volume(), m.Volume())
	}
	if errs := translated.Mesh().Validate(geomconfig.Default); len(errs) != 0 {
		t.Fatalf("translated mesh Validate() = %v", errs)
	}
}

func TestManifoldTransformMirrorFlipsWindingKeepsManifold(t *testing.T) {
	m := buildTetrahedronManifold(t)
	mirrored := m.Transform(geom.Scale(geom.NewVec3(-1, 1, 1)))
	if errs := mirrored.Mesh().Validate(geomconfig.Default); len(errs) != 0 {
		t.Fatalf("mirrored mesh Validate() = %v, want no errors (winding should be re-flipped)", errs)
	}
	// Volume magnitude is preserved under a mirror; sign stays positive
	// because winding was corrected.
	if !almostEqual(mirrored.Volume(), m.Volume(), 1e-9) {
		t.Fatalf("mirrored volume = %v, want %v", mirrored.Volume(), m.Volume())
	}
}

func TestManifoldTransformScalePositiveDeterminant(t *testing.T) {
	m := buildTetrahedronManifold(t)
	scaled := m.Transform(geom.Scale(geom.NewVec3(2, 2, 2)))
	want := m.Volume() * 8
	if !almostEqual(scaled.Volume(), want, 1e-9) {
		t.Fatalf("scaled volume = %v, want %v", scaled.Volume(), want)
	}
}

func TestManifoldCloneSharesArenas(t *testing.T) {
	m := buildTetrahedronManifold(t)
	clone := m.Clone()
	if clone.Mesh() != m.Mesh() {
		t.Fatal("Clone() should share the same underlying mesh pointer")
	}
}

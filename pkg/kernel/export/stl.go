package export

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/mesh"
)

// stlHeaderSize is the fixed binary-STL header length (§6): 80 bytes,
// conventionally ASCII but otherwise uninterpreted.
const stlHeaderSize = 80

// stlASCIIPrefix is checked against the first bytes of a file to
// distinguish ASCII from binary STL (§6: "auto-detects by inspecting the
// first 5 bytes").
const stlASCIIPrefix = "solid"

// WriteBinary writes man as binary STL (§6): an 80-byte header, a
// little-endian u32 triangle count, then per triangle a f32 normal
// followed by three f32 vertices and a 2-byte attribute field (always
// zero here; no reader in this package or the examples assigns it
// meaning).
func WriteBinary(w io.Writer, man *mesh.Manifold, header string) error {
	var hdr [stlHeaderSize]byte
	copy(hdr[:], header)
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("export: writing stl header: %w", err)
	}

	triCount := man.TriangleCount()
	if err := binary.Write(w, binary.LittleEndian, uint32(triCount)); err != nil {
		return fmt.Errorf("export: writing stl triangle count: %w", err)
	}
	if triCount == 0 {
		return nil
	}

	m := man.Mesh()
	if len(m.FaceNormals) != triCount {
		m.ComputeFaceNormals()
	}

	for t := 0; t < triCount; t++ {
		n := m.FaceNormals[t]
		p := m.TrianglePositions(t)
		if err := writeVec3(w, n); err != nil {
			return err
		}
		for _, v := range p {
			if err := writeVec3(w, v); err != nil {
				return err
			}
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return fmt.Errorf("export: writing stl attribute byte count: %w", err)
		}
	}
	return nil
}

func writeVec3(w io.Writer, v geom.Vec3) error {
	vals := [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	return binary.Write(w, binary.LittleEndian, vals)
}

// WriteASCII writes man as an ASCII STL file, the "straightforward line-
// oriented alternative" named in §6.
func WriteASCII(w io.Writer, man *mesh.Manifold, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)

	triCount := man.TriangleCount()
	if triCount > 0 {
		m := man.Mesh()
		if len(m.FaceNormals) != triCount {
			m.ComputeFaceNormals()
		}
		for t := 0; t < triCount; t++ {
			n := m.FaceNormals[t]
			p := m.TrianglePositions(t)
			fmt.Fprintf(bw, "  facet normal %g %g %g\n", n.X, n.Y, n.Z)
			fmt.Fprintln(bw, "    outer loop")
			for _, v := range p {
				fmt.Fprintf(bw, "      vertex %g %g %g\n", v.X, v.Y, v.Z)
			}
			fmt.Fprintln(bw, "    endloop")
			fmt.Fprintln(bw, "  endfacet")
		}
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}

// rawTriangle is a parsed STL facet before it is handed to triangle-soup
// construction; it carries no provenance (plain STL has no
// tri_original_id equivalent), so Import assigns id 0 to everything.
type rawTriangle struct {
	v [3]geom.Vec3
}

// Import reads an STL file (binary or ASCII, auto-detected per §6) and
// builds a Manifold via triangle-soup construction. If the resulting mesh
// fails validation, it returns the validation error unchanged rather than
// attempting a repair — per §6, that repair is the separate, explicit
// TryMerge entry point.
func Import(r io.Reader, cfg geomconfig.Config) (*mesh.Manifold, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("export: reading stl: %w", err)
	}

	var tris []rawTriangle
	if len(data) >= len(stlASCIIPrefix) && string(data[:len(stlASCIIPrefix)]) == stlASCIIPrefix {
		tris, err = parseASCII(data)
	} else {
		tris, err = parseBinary(data)
	}
	if err != nil {
		return nil, err
	}

	positions, triangles := toTriangleSoup(tris)
	ids := make([]uint32, len(triangles))
	return mesh.FromTriangleSoup(positions, triangles, ids, cfg)
}

// TryMerge is the §6 fallback when Import's strict triangle-soup
// construction fails: it re-parses the same bytes, builds the mesh
// without validation, and attempts HalfEdgeMesh.Merge's tolerance-based
// vertex stitching, grounded on the edge-reconciliation approach in
// fulgurant's STL reader (other_examples). It returns an error if the
// stitched result is still not manifold.
func TryMerge(r io.Reader, tolerance float64, cfg geomconfig.Config) (*mesh.Manifold, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("export: reading stl: %w", err)
	}

	var tris []rawTriangle
	if len(data) >= len(stlASCIIPrefix) && string(data[:len(stlASCIIPrefix)]) == stlASCIIPrefix {
		tris, err = parseASCII(data)
	} else {
		tris, err = parseBinary(data)
	}
	if err != nil {
		return nil, err
	}

	positions, triangles := toTriangleSoup(tris)
	ids := make([]uint32, len(triangles))

	loose := geomconfig.Config{MinEdgeLength: tolerance, MinTriangleArea: cfg.MinTriangleArea}
	built, err := mesh.BuildFromTriangleSoup(positions, triangles, ids, loose)
	if err != nil {
		return nil, fmt.Errorf("export: try_merge: triangle soup unusable: %w", err)
	}

	repaired, ok := built.Merge(tolerance, cfg)
	if !ok {
		return nil, fmt.Errorf("export: try_merge: mesh still non-manifold after tolerance %g stitching", tolerance)
	}
	return mesh.NewManifold(repaired), nil
}

func toTriangleSoup(tris []rawTriangle) ([]geom.Vec3, [][3]int) {
	positions := make([]geom.Vec3, 0, len(tris)*3)
	triangles := make([][3]int, len(tris))
	for i, tr := range tris {
		var t [3]int
		for j, v := range tr.v {
			t[j] = len(positions)
			positions = append(positions, v)
		}
		triangles[i] = t
	}
	return positions, triangles
}

func parseBinary(data []byte) ([]rawTriangle, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, fmt.Errorf("export: binary stl too short")
	}
	r := bytes.NewReader(data[stlHeaderSize:])
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("export: reading binary stl triangle count: %w", err)
	}

	tris := make([]rawTriangle, count)
	for i := uint32(0); i < count; i++ {
		var normal [3]float32
		if err := binary.Read(r, binary.LittleEndian, &normal); err != nil {
			return nil, fmt.Errorf("export: reading binary stl facet %d normal: %w", i, err)
		}
		var tri rawTriangle
		for j := 0; j < 3; j++ {
			var v [3]float32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("export: reading binary stl facet %d vertex %d: %w", i, j, err)
			}
			tri.v[j] = geom.Vec3{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
		}
		var attr uint16
		if err := binary.Read(r, binary.LittleEndian, &attr); err != nil {
			return nil, fmt.Errorf("export: reading binary stl facet %d attribute: %w", i, err)
		}
		tris[i] = tri
	}
	return tris, nil
}

func parseASCII(data []byte) ([]rawTriangle, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	var tris []rawTriangle
	var cur rawTriangle
	vertexCount := 0

	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			vertexCount = 0
			cur = rawTriangle{}
		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("export: malformed ascii stl vertex line")
			}
			var x, y, z float64
			if _, err := fmt.Sscanf(strings.Join(fields[1:4], " "), "%g %g %g", &x, &y, &z); err != nil {
				return nil, fmt.Errorf("export: parsing ascii stl vertex: %w", err)
			}
			if vertexCount < 3 {
				cur.v[vertexCount] = geom.Vec3{X: x, Y: y, Z: z}
			}
			vertexCount++
		case "endfacet":
			if vertexCount != 3 {
				return nil, fmt.Errorf("export: ascii stl facet with %d vertices, want 3", vertexCount)
			}
			tris = append(tris, cur)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("export: scanning ascii stl: %w", err)
	}
	return tris, nil
}

package geom

import "testing"

func TestBoundingBoxEmpty(t *testing.T) {
	if !EmptyBoundingBox().Empty() {
		t.Fatal("EmptyBoundingBox() should report Empty() == true")
	}
	box := BoundingBoxFromPoint(NewVec3(1, 1, 1))
	if box.Empty() {
		t.Fatal("a single-point box should not be empty")
	}
}

func TestBoundingBoxUnionWithEmptyIsIdentity(t *testing.T) {
	box := BoundingBox{Min: NewVec3(0, 0, 0), Max: NewVec3(1, 1, 1)}
	got := EmptyBoundingBox().Union(box)
	if got != box {
		t.Fatalf("Union(empty, box) = %v, want %v", got, box)
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	a := BoundingBox{Min: NewVec3(0, 0, 0), Max: NewVec3(1, 1, 1)}
	b := BoundingBox{Min: NewVec3(-1, 2, -5), Max: NewVec3(0.5, 3, 0)}
	got := a.Union(b)
	want := BoundingBox{Min: NewVec3(-1, 0, -5), Max: NewVec3(1, 3, 1)}
	if got != want {
		t.Fatalf("Union = %v, want %v", got, want)
	}
}

func TestBoundingBoxIntersectsTouchingFaces(t *testing.T) {
	a := BoundingBox{Min: NewVec3(0, 0, 0), Max: NewVec3(1, 1, 1)}
	b := BoundingBox{Min: NewVec3(1, 0, 0), Max: NewVec3(2, 1, 1)}
	if !a.Intersects(b) {
		t.Fatal("boxes sharing a face should count as intersecting")
	}
	c := BoundingBox{Min: NewVec3(2, 0, 0), Max: NewVec3(3, 1, 1)}
	if a.Intersects(c) {
		t.Fatal("disjoint boxes reported as intersecting")
	}
}

func TestBoundingBoxContains(t *testing.T) {
	box := BoundingBox{Min: NewVec3(0, 0, 0), Max: NewVec3(10, 10, 10)}
	if !box.Contains(NewVec3(5, 5, 5)) {
		t.Fatal("box should contain its center")
	}
	if box.Contains(NewVec3(11, 0, 0)) {
		t.Fatal("box should not contain a point outside its extent")
	}
}

func TestBoundingBoxTransformRotate90(t *testing.T) {
	box := BoundingBox{Min: NewVec3(0, 0, 0), Max: NewVec3(2, 1, 1)}
	rotated := box.Transform(RotateZ(1.5707963267948966)) // 90 degrees
	want := BoundingBox{Min: NewVec3(-1, 0, 0), Max: NewVec3(0, 2, 1)}
	if !vecClose(rotated.Min, want.Min, 1e-9) || !vecClose(rotated.Max, want.Max, 1e-9) {
		t.Fatalf("Transform(rotate 90) = %v, want %v", rotated, want)
	}
}

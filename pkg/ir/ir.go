// Package ir defines GeometryIR (§3, §6): the fully-evaluated, tagged tree
// the evaluator walks. By the time a tree reaches this package no variable,
// range, loop, or conditional remains — that resolution happens in the
// lexer/parser/lowering front end this component treats as out of scope
// (spec §1). Every node is one of Primitive, Transform, Boolean, or
// Special, matching the closed-sum-type design of spec §9: dispatch is a
// switch over Kind, never a virtual call or inheritance hierarchy.
package ir

// Span is a byte range into the original source text, carried by every
// node purely for diagnostics (§3, §7); the kernel never interprets it.
type Span struct {
	Start, End int
}

// PrimitiveKind enumerates the primitive constructors of §4.3.
type PrimitiveKind int

const (
	Cube PrimitiveKind = iota
	Sphere
	Cylinder
	Polyhedron
	Square
	Circle
	Polygon
)

// TransformKind enumerates the affine operations of §4.4.
type TransformKind int

const (
	Translate TransformKind = iota
	Rotate
	Scale
	Mirror
	Resize
	MultMatrix
)

// BooleanKind enumerates the CSG combinators of §4.6.
type BooleanKind int

const (
	Union BooleanKind = iota
	Difference
	Intersection
)

// SpecialKind enumerates the non-primitive, non-transform, non-boolean
// operations of §4.7/§4.8: hull, minkowski, linear/rotate extrude,
// projection, import, render, and text.
type SpecialKind int

const (
	Hull SpecialKind = iota
	Minkowski
	LinearExtrude
	RotateExtrude
	Projection
	Import
	Render
	Text
)

// PrimitiveParams bundles every primitive constructor's parameters in one
// struct; Kind determines which fields are meaningful. Fn/Fa/Fs override
// the evaluation context's ambient $fn/$fa/$fs (§4.8) for this node only
// when non-zero.
type PrimitiveParams struct {
	// Cube
	Size   [3]float64
	Center bool

	// Sphere / Circle
	Radius float64

	// Cylinder
	Height  float64
	RBottom float64
	RTop    float64

	// Square
	SizeXY [2]float64

	// Polyhedron
	Points [][3]float64
	Faces  [][]int

	// Polygon
	Points2D [][2]float64
	Paths    [][]int

	Fn int
	Fa float64
	Fs float64

	// Name is the source primitive/material id seed; the evaluator
	// assigns the actual tri_original_id, this is advisory only.
	Name string
}

// TransformParams bundles every transform's parameters; Kind determines
// which fields apply.
type TransformParams struct {
	Vector [3]float64 // translate/scale target, mirror normal, resize new size
	Axis   [3]float64 // rotate: non-zero axis selects axis-angle form
	Angle  float64    // rotate: degrees around Axis; unused when Axis is zero
	Euler  [3]float64 // rotate: used when Axis is the zero vector
	Matrix [4][4]float64
	Auto   [3]bool // resize: which axes to scale proportionally
}

// SpecialParams bundles parameters for hull/minkowski/extrude/projection/
// import/render/text nodes.
type SpecialParams struct {
	Height    float64 // linear_extrude
	Twist     float64 // linear_extrude, degrees
	Slices    int     // linear_extrude / rotate_extrude segment count
	TopScale  [2]float64
	Angle     float64 // rotate_extrude sweep, degrees (360 = full revolution)
	Cut       bool    // projection
	Path      string  // import
	Text      string  // text (unsupported; evaluator returns ErrUnsupportedOperation)
	Size      float64 // text font size
	Fn        int
	Fa        float64
	Fs        float64
}

// Node is one node of the geometry IR: exactly one of the four kinds
// below, selected by Kind. Children holds child nodes for Transform (one
// child), Boolean (N children), and Special (N children, or zero for leaf
// specials like import/text).
type Node struct {
	Kind NodeKind
	Span Span

	Primitive PrimitiveKind
	PrimArgs  PrimitiveParams

	Transform TransformKind
	XformArgs TransformParams

	Boolean BooleanKind

	Special     SpecialKind
	SpecialArgs SpecialParams

	Children []*Node
}

// NodeKind is the outer tag distinguishing the four IR node variants.
type NodeKind int

const (
	KindPrimitive NodeKind = iota
	KindTransform
	KindBoolean
	KindSpecial
)

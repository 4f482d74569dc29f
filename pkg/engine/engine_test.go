package engine

import (
	"math"
	"testing"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/ir"
)

func cubeNode(x, y, z float64, center bool) *ir.Node {
	return &ir.Node{
		Kind:      ir.KindPrimitive,
		Primitive: ir.Cube,
		PrimArgs:  ir.PrimitiveParams{Size: [3]float64{x, y, z}, Center: center},
	}
}

func sphereNode(r float64, fn int) *ir.Node {
	return &ir.Node{
		Kind:      ir.KindPrimitive,
		Primitive: ir.Sphere,
		PrimArgs:  ir.PrimitiveParams{Radius: r, Fn: fn},
	}
}

func translateNode(x, y, z float64, child *ir.Node) *ir.Node {
	return &ir.Node{
		Kind:      ir.KindTransform,
		Transform: ir.Translate,
		XformArgs: ir.TransformParams{Vector: [3]float64{x, y, z}},
		Children:  []*ir.Node{child},
	}
}

func boolNode(kind ir.BooleanKind, children ...*ir.Node) *ir.Node {
	return &ir.Node{Kind: ir.KindBoolean, Boolean: kind, Children: children}
}

func TestEvalCubeVolume(t *testing.T) {
	ev := NewEvaluator(geomconfig.Default)
	ctx := NewContext(geomconfig.Default, DefaultRecursionLimit)

	v, diags := ev.Eval(cubeNode(2, 3, 4, false), ctx)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !v.Is3D {
		t.Fatal("expected 3D value")
	}
	if got := v.Solid.Volume(); math.Abs(got-24.0) > 1e-9 {
		t.Errorf("volume = %v, want 24.0", got)
	}
	bb := v.BoundingBox()
	if bb.Max.X-bb.Min.X <= 0 {
		t.Errorf("bounding box looks degenerate: %+v", bb)
	}
}

func TestEvalCubeInvalidSize(t *testing.T) {
	ev := NewEvaluator(geomconfig.Default)
	ctx := NewContext(geomconfig.Default, DefaultRecursionLimit)

	_, diags := ev.Eval(cubeNode(0, 1, 1, false), ctx)
	if len(diags) == 0 || diags[0].Severity != ir.Error {
		t.Fatalf("expected an error diagnostic for zero size, got %v", diags)
	}
}

func TestEvalSphereVolumeApprox(t *testing.T) {
	ev := NewEvaluator(geomconfig.Default)
	ctx := NewContext(geomconfig.Default, DefaultRecursionLimit)

	r := 1.2
	v, diags := ev.Eval(sphereNode(r, 32), ctx)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := 4.0 / 3.0 * math.Pi * r * r * r
	got := v.Solid.Volume()
	if math.Abs(got-want)/want > 0.01 {
		t.Errorf("sphere volume = %v, want ~%v (1%% tol)", got, want)
	}
}

func TestEvalUnionSharedFace(t *testing.T) {
	ev := NewEvaluator(geomconfig.Default)
	ctx := NewContext(geomconfig.Default, DefaultRecursionLimit)

	a := cubeNode(1, 1, 1, false)
	b := translateNode(1, 0, 0, cubeNode(1, 1, 1, false))
	v, diags := ev.Eval(boolNode(ir.Union, a, b), ctx)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if math.Abs(v.Solid.Volume()-2.0) > 1e-6 {
		t.Errorf("union volume = %v, want 2.0", v.Solid.Volume())
	}
}

func TestEvalDifferenceSelf(t *testing.T) {
	ev := NewEvaluator(geomconfig.Default)
	ctx := NewContext(geomconfig.Default, DefaultRecursionLimit)

	a := cubeNode(2, 2, 2, true)
	node := boolNode(ir.Difference, a, a)
	v, diags := ev.Eval(node, ctx)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !v.IsEmpty() {
		t.Errorf("A - A should be empty, got volume %v", v.Solid.Volume())
	}
}

func TestCacheHitReturnsSameContent(t *testing.T) {
	ev := NewEvaluator(geomconfig.Default)
	ctx := NewContext(geomconfig.Default, DefaultRecursionLimit)

	node := cubeNode(2, 3, 4, false)
	v1, _ := ev.Eval(node, ctx)
	v2, _ := ev.Eval(node, ctx)

	if v1.Solid.TriangleCount() != v2.Solid.TriangleCount() {
		t.Fatalf("cache hit returned different triangle counts: %d vs %d", v1.Solid.TriangleCount(), v2.Solid.TriangleCount())
	}
	if math.Abs(v1.Solid.Volume()-v2.Solid.Volume()) > 1e-12 {
		t.Errorf("cache hit returned different volumes: %v vs %v", v1.Solid.Volume(), v2.Solid.Volume())
	}
}

func TestEngineEvaluateSuccess(t *testing.T) {
	eng := NewEngine(geomconfig.Default)
	v, diags, err := eng.Evaluate(cubeNode(2, 2, 2, false))
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if math.Abs(v.Solid.Volume()-8.0) > 1e-9 {
		t.Errorf("volume = %v, want 8.0", v.Solid.Volume())
	}
}

func TestEngineEvaluateNilRoot(t *testing.T) {
	eng := NewEngine(geomconfig.Default)
	v, diags, err := eng.Evaluate(nil)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !v.IsEmpty() {
		t.Error("nil root should evaluate to the empty value")
	}
}

func TestEvalRecursionDepthExceeded(t *testing.T) {
	ev := NewEvaluator(geomconfig.Default)
	ctx := NewContext(geomconfig.Default, 3)

	node := translateNode(1, 0, 0, translateNode(1, 0, 0, translateNode(1, 0, 0, translateNode(1, 0, 0, cubeNode(1, 1, 1, false)))))
	_, diags := ev.Eval(node, ctx)
	if len(diags) == 0 {
		t.Fatal("expected a recursion-depth diagnostic")
	}
	found := false
	for _, d := range diags {
		if d.Message == ErrRecursionDepthExceeded.Error() {
			found = true
		}
	}
	if !found {
		t.Errorf("expected ErrRecursionDepthExceeded diagnostic, got %v", diags)
	}
}

func TestEvalUnsupportedMinkowski(t *testing.T) {
	ev := NewEvaluator(geomconfig.Default)
	ctx := NewContext(geomconfig.Default, DefaultRecursionLimit)

	node := &ir.Node{
		Kind:    ir.KindSpecial,
		Special: ir.Minkowski,
		Children: []*ir.Node{cubeNode(1, 1, 1, false), cubeNode(1, 1, 1, false)},
	}
	_, diags := ev.Eval(node, ctx)
	if len(diags) == 0 || diags[0].Message != ErrUnsupportedOperation.Error() {
		t.Fatalf("expected ErrUnsupportedOperation diagnostic, got %v", diags)
	}
}

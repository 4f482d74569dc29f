package engine

import (
	"errors"
	"sync"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/ir"
	"github.com/chazu/geode/pkg/kernel/boolean"
	"github.com/chazu/geode/pkg/kernel/hull"
	"github.com/chazu/geode/pkg/kernel/mesh"
	"github.com/chazu/geode/pkg/kernel/primitive"
	"github.com/chazu/geode/pkg/kernel/transform"
	"github.com/chazu/geode/pkg/kernel/xsect"
)

// ErrUnsupportedOperation is returned for IR nodes spec.md §9 explicitly
// defers: Special{Kind: Minkowski} and Special{Kind: Text}.
var ErrUnsupportedOperation = errors.New("engine: unsupported operation")

// ErrRecursionDepthExceeded is the §7 error kind for an IR tree deeper
// than the evaluator's configured limit.
var ErrRecursionDepthExceeded = errors.New("engine: recursion depth exceeded")

// Evaluator walks a GeometryIR tree and drives the kernel packages to
// produce Values, consulting Cache. It is the stateful, reusable half of
// evaluation — an Engine wraps one in a timeout/panic-recovery/generation
// envelope for a single top-level call (§4.8's "cache persists across
// evaluator invocations so long as the evaluator instance is kept alive").
type Evaluator struct {
	Cache *GeometryCache
	Cfg   geomconfig.Config

	idMu    sync.Mutex
	idTable map[*ir.Node]uint32
	nextID  uint32
}

// NewEvaluator returns an Evaluator with a fresh cache over cfg.
func NewEvaluator(cfg geomconfig.Config) *Evaluator {
	return &Evaluator{
		Cache:   NewCache(cfg.MaxTriangles),
		Cfg:     cfg,
		idTable: make(map[*ir.Node]uint32),
	}
}

// idFor returns the stable tri_original_id for a primitive IR node,
// allocating one the first time this node pointer is seen. Since the IR
// is reused across incremental edits (§4.8), the same node keeps the
// same id for the evaluator's lifetime, which is what lets downstream
// colour/material assignment stay stable across re-evaluation.
func (e *Evaluator) idFor(node *ir.Node) uint32 {
	e.idMu.Lock()
	defer e.idMu.Unlock()
	if id, ok := e.idTable[node]; ok {
		return id
	}
	e.nextID++
	e.idTable[node] = e.nextID
	return e.nextID
}

// Eval recursively evaluates node under ctx, consulting the cache first.
// It never panics on malformed IR; errors are reported as Diagnostics
// attached to the responsible node's Span (§7), and a failing subtree
// evaluates to the empty Value so sibling subtrees under a Boolean or
// Special node can still be evaluated and reported independently.
func (e *Evaluator) Eval(node *ir.Node, ctx EvaluationContext) (Value, []ir.Diagnostic) {
	if node == nil {
		return Value{}, nil
	}
	if ctx.Cancelled() {
		return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "evaluation cancelled", Span: node.Span}}
	}
	next, ok := ctx.descend()
	if !ok {
		return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: ErrRecursionDepthExceeded.Error(), Span: node.Span}}
	}
	ctx = next

	key := cacheKey(node, ctx)
	if v, ok := e.Cache.Get(key); ok {
		return v, nil
	}

	var v Value
	var diags []ir.Diagnostic
	switch node.Kind {
	case ir.KindPrimitive:
		v, diags = e.evalPrimitive(node, ctx)
	case ir.KindTransform:
		v, diags = e.evalTransform(node, ctx)
	case ir.KindBoolean:
		v, diags = e.evalBoolean(node, ctx)
	case ir.KindSpecial:
		v, diags = e.evalSpecial(node, ctx)
	default:
		diags = []ir.Diagnostic{{Severity: ir.Error, Message: "unknown IR node kind", Span: node.Span}}
	}

	hasError := false
	for _, d := range diags {
		if d.Severity == ir.Error {
			hasError = true
			break
		}
	}
	if !hasError {
		e.Cache.Put(key, v)
	}
	return v, diags
}

func errDiag(node *ir.Node, format string, err error) []ir.Diagnostic {
	return []ir.Diagnostic{{Severity: ir.Error, Message: format + ": " + err.Error(), Span: node.Span}}
}

func (e *Evaluator) evalPrimitive(node *ir.Node, ctx EvaluationContext) (Value, []ir.Diagnostic) {
	p := node.PrimArgs
	ctx = ctx.withFnFaFs(p.Fn, p.Fa, p.Fs)
	id := e.idFor(node)

	switch node.Primitive {
	case ir.Cube:
		size := geom.Vec3{X: p.Size[0], Y: p.Size[1], Z: p.Size[2]}
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "cube: size must be componentwise positive", Span: node.Span}}
		}
		m, err := primitive.Cube(size, p.Center, id, e.Cfg)
		if err != nil {
			return Value{}, errDiag(node, "cube", err)
		}
		return Solid3D(m), nil

	case ir.Sphere:
		if p.Radius <= 0 {
			return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "sphere: radius must be positive", Span: node.Span}}
		}
		m, err := primitive.Sphere(p.Radius, ctx.Fn, ctx.Fa, ctx.Fs, id, e.Cfg)
		if err != nil {
			return Value{}, errDiag(node, "sphere", err)
		}
		return Solid3D(m), nil

	case ir.Cylinder:
		if p.Height <= 0 || p.RBottom < 0 || p.RTop < 0 || (p.RBottom == 0 && p.RTop == 0) {
			return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "cylinder: invalid height/radius", Span: node.Span}}
		}
		m, err := primitive.Cylinder(p.Height, p.RBottom, p.RTop, ctx.Fn, ctx.Fa, ctx.Fs, p.Center, id, e.Cfg)
		if err != nil {
			return Value{}, errDiag(node, "cylinder", err)
		}
		return Solid3D(m), nil

	case ir.Polyhedron:
		pts := make([]geom.Vec3, len(p.Points))
		for i, pt := range p.Points {
			pts[i] = geom.Vec3{X: pt[0], Y: pt[1], Z: pt[2]}
		}
		m, err := primitive.Polyhedron(pts, p.Faces, id, e.Cfg)
		if err != nil {
			return Value{}, errDiag(node, "polyhedron", err)
		}
		return Solid3D(m), nil

	case ir.Square:
		size := geom.Vec2{X: p.SizeXY[0], Y: p.SizeXY[1]}
		if size.X <= 0 || size.Y <= 0 {
			return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "square: size must be componentwise positive", Span: node.Span}}
		}
		c, err := primitive.Square(size, p.Center, e.Cfg)
		if err != nil {
			return Value{}, errDiag(node, "square", err)
		}
		return Solid2D(c), nil

	case ir.Circle:
		if p.Radius <= 0 {
			return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "circle: radius must be positive", Span: node.Span}}
		}
		c, err := primitive.Circle(p.Radius, ctx.Fn, ctx.Fa, ctx.Fs, e.Cfg)
		if err != nil {
			return Value{}, errDiag(node, "circle", err)
		}
		return Solid2D(c), nil

	case ir.Polygon:
		pts := make([]geom.Vec2, len(p.Points2D))
		for i, pt := range p.Points2D {
			pts[i] = geom.Vec2{X: pt[0], Y: pt[1]}
		}
		c, err := primitive.Polygon(pts, p.Paths)
		if err != nil {
			return Value{}, errDiag(node, "polygon", err)
		}
		return Solid2D(c), nil
	}
	return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "unknown primitive kind", Span: node.Span}}
}

func (e *Evaluator) evalTransform(node *ir.Node, ctx EvaluationContext) (Value, []ir.Diagnostic) {
	if len(node.Children) != 1 {
		return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "transform requires exactly one child", Span: node.Span}}
	}
	child, diags := e.Eval(node.Children[0], ctx)
	if child.IsEmpty() {
		return child, diags
	}

	if node.Transform == ir.Resize {
		p := node.XformArgs
		newSize := geom.Vec3{X: p.Vector[0], Y: p.Vector[1], Z: p.Vector[2]}
		if !child.Is3D {
			diags = append(diags, ir.Diagnostic{Severity: ir.Error, Message: "resize: 2D cross-sections are not yet supported", Span: node.Span})
			return Value{}, diags
		}
		m, err := transform.Resize(child.Solid, newSize, p.Auto)
		if err != nil {
			return Value{}, append(diags, errDiag(node, "resize", err)...)
		}
		return Solid3D(m), diags
	}

	mat, err := buildTransformMatrix(node)
	if err != nil {
		return Value{}, append(diags, errDiag(node, "transform", err)...)
	}

	if child.Is3D {
		return Solid3D(child.Solid.Transform(mat)), diags
	}
	return Solid2D(transform2D(child.Section, mat)), diags
}

// buildTransformMatrix builds the Mat4 for a Transform node directly from
// pkg/geom's matrix constructors (and mirrorMatrix) rather than through
// pkg/kernel/transform — here we need the bare matrix since it must also
// drive the 2D projection path for CrossSection children.
func buildTransformMatrix(node *ir.Node) (geom.Mat4, error) {
	p := node.XformArgs
	switch node.Transform {
	case ir.Translate:
		return geom.Translate(geom.Vec3{X: p.Vector[0], Y: p.Vector[1], Z: p.Vector[2]}), nil
	case ir.Rotate:
		axis := geom.Vec3{X: p.Axis[0], Y: p.Axis[1], Z: p.Axis[2]}
		if axis != (geom.Vec3{}) {
			return geom.RotateAxisAngle(axis, p.Angle*3.141592653589793/180), nil
		}
		return geom.EulerXYZ(p.Euler[0], p.Euler[1], p.Euler[2]), nil
	case ir.Scale:
		v := geom.Vec3{X: p.Vector[0], Y: p.Vector[1], Z: p.Vector[2]}
		if v.X == 0 || v.Y == 0 || v.Z == 0 {
			return geom.Mat4{}, errors.New("scale factors must be non-zero")
		}
		return geom.Scale(v), nil
	case ir.Mirror:
		n := geom.Vec3{X: p.Vector[0], Y: p.Vector[1], Z: p.Vector[2]}.Normalized()
		return mirrorMatrix(n), nil
	case ir.MultMatrix:
		return geom.Mat4(p.Matrix), nil
	}
	return geom.Identity(), errors.New("unknown transform kind")
}

func mirrorMatrix(n geom.Vec3) geom.Mat4 {
	m := geom.Identity()
	m[0][0] = 1 - 2*n.X*n.X
	m[0][1] = -2 * n.X * n.Y
	m[0][2] = -2 * n.X * n.Z
	m[1][0] = -2 * n.Y * n.X
	m[1][1] = 1 - 2*n.Y*n.Y
	m[1][2] = -2 * n.Y * n.Z
	m[2][0] = -2 * n.Z * n.X
	m[2][1] = -2 * n.Z * n.Y
	m[2][2] = 1 - 2*n.Z*n.Z
	return m
}

// transform2D applies the xy-projection of mat to every point of a
// CrossSection's contours — the 2D analogue of Manifold.Transform for
// shapes built before an extrude (§4.4 applies to both dimensionalities;
// only the 3D path needs winding-flip bookkeeping since CrossSection has
// no half-edge twins to rebuild).
func transform2D(c *xsect.CrossSection, mat geom.Mat4) *xsect.CrossSection {
	return c.Transform(func(p geom.Vec2) geom.Vec2 {
		v := mat.Apply(geom.Vec3{X: p.X, Y: p.Y, Z: 0})
		return geom.Vec2{X: v.X, Y: v.Y}
	})
}

func (e *Evaluator) evalBoolean(node *ir.Node, ctx EvaluationContext) (Value, []ir.Diagnostic) {
	var diags []ir.Diagnostic
	var values []Value
	for _, child := range node.Children {
		v, d := e.Eval(child, ctx)
		diags = append(diags, d...)
		values = append(values, v)
	}
	if len(values) == 0 {
		return Value{}, diags
	}

	is3D := values[0].Is3D
	for _, v := range values {
		if !v.IsEmpty() {
			is3D = v.Is3D
			break
		}
	}

	if is3D {
		v, err := e.boolean3D(node.Boolean, values)
		if err != nil {
			diags = append(diags, errDiag(node, "boolean", err)...)
			return Value{}, diags
		}
		return Solid3D(v), diags
	}
	return Solid2D(boolean2D(node.Boolean, values)), diags
}

func (e *Evaluator) boolean3D(op ir.BooleanKind, values []Value) (*mesh.Manifold, error) {
	manifolds := make([]*mesh.Manifold, 0, len(values))
	for _, v := range values {
		if v.Is3D && v.Solid != nil {
			manifolds = append(manifolds, v.Solid)
		} else if !v.IsEmpty() {
			manifolds = append(manifolds, mesh.Empty)
		}
	}
	if len(manifolds) == 0 {
		return mesh.Empty, nil
	}
	switch op {
	case ir.Union:
		return boolean.BatchUnion(manifolds, e.Cfg)
	case ir.Intersection:
		return boolean.BatchIntersection(manifolds, e.Cfg)
	case ir.Difference:
		if len(manifolds) == 1 {
			return manifolds[0], nil
		}
		rest, err := boolean.BatchUnion(manifolds[1:], e.Cfg)
		if err != nil {
			return nil, err
		}
		return boolean.Compute(boolean.Difference, manifolds[0], rest, e.Cfg)
	}
	return nil, errors.New("unknown boolean kind")
}

func boolean2D(op ir.BooleanKind, values []Value) *xsect.CrossSection {
	sections := make([]*xsect.CrossSection, 0, len(values))
	for _, v := range values {
		if !v.Is3D && v.Section != nil {
			sections = append(sections, v.Section)
		}
	}
	if len(sections) == 0 {
		return xsect.Empty
	}
	acc := sections[0]
	for _, s := range sections[1:] {
		switch op {
		case ir.Union:
			acc = xsect.Union(acc, s)
		case ir.Difference:
			acc = xsect.Difference(acc, s)
		case ir.Intersection:
			acc = xsect.Intersection(acc, s)
		}
	}
	return acc
}

func (e *Evaluator) evalSpecial(node *ir.Node, ctx EvaluationContext) (Value, []ir.Diagnostic) {
	p := node.SpecialArgs
	ctx = ctx.withFnFaFs(p.Fn, p.Fa, p.Fs)

	switch node.Special {
	case ir.Minkowski, ir.Text:
		return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: ErrUnsupportedOperation.Error(), Span: node.Span}}

	case ir.Hull:
		return e.evalHull(node, ctx)

	case ir.LinearExtrude:
		return e.evalLinearExtrude(node, ctx)

	case ir.RotateExtrude:
		return e.evalRotateExtrude(node, ctx)

	case ir.Projection:
		return e.evalProjection(node, ctx)

	case ir.Render:
		// render() forces full CSG evaluation instead of a preview; the
		// evaluator never previews, so this is semantically the identity
		// over its single child.
		if len(node.Children) != 1 {
			return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "render requires exactly one child", Span: node.Span}}
		}
		return e.Eval(node.Children[0], ctx)

	case ir.Import:
		return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "import: use pkg/kernel/export.Import at the host boundary, not the IR evaluator", Span: node.Span}}
	}
	return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "unknown special kind", Span: node.Span}}
}

func (e *Evaluator) evalHull(node *ir.Node, ctx EvaluationContext) (Value, []ir.Diagnostic) {
	var diags []ir.Diagnostic
	var values []Value
	for _, child := range node.Children {
		v, d := e.Eval(child, ctx)
		diags = append(diags, d...)
		values = append(values, v)
	}
	is3D := false
	for _, v := range values {
		if v.Is3D && !v.IsEmpty() {
			is3D = true
		}
	}
	if is3D {
		var pts []geom.Vec3
		for _, v := range values {
			if v.Is3D && v.Solid != nil {
				pts = append(pts, v.Solid.Mesh().Vertices...)
			}
		}
		m, err := hull.Compute3D(pts, e.Cfg)
		if err != nil {
			diags = append(diags, errDiag(node, "hull", err)...)
			return Value{}, diags
		}
		return Solid3D(m), diags
	}
	var pts2 []geom.Vec2
	for _, v := range values {
		if !v.Is3D && v.Section != nil {
			for _, contour := range v.Section.Contours {
				pts2 = append(pts2, contour...)
			}
		}
	}
	return Solid2D(xsect.Hull2D(pts2)), diags
}

func (e *Evaluator) evalLinearExtrude(node *ir.Node, ctx EvaluationContext) (Value, []ir.Diagnostic) {
	if len(node.Children) != 1 {
		return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "linear_extrude requires exactly one child", Span: node.Span}}
	}
	child, diags := e.Eval(node.Children[0], ctx)
	if child.Is3D {
		diags = append(diags, ir.Diagnostic{Severity: ir.Error, Message: "linear_extrude requires a 2D child", Span: node.Span})
		return Value{}, diags
	}
	p := node.SpecialArgs
	m, err := xsect.LinearExtrude(child.Section, xsect.LinearExtrudeParams{
		Height: p.Height,
		Twist:  p.Twist,
		Slices: p.Slices,
		Scale:  geom.Vec2{X: p.TopScale[0], Y: p.TopScale[1]},
	}, e.Cfg)
	if err != nil {
		diags = append(diags, errDiag(node, "linear_extrude", err)...)
		return Value{}, diags
	}
	return Solid3D(m), diags
}

func (e *Evaluator) evalRotateExtrude(node *ir.Node, ctx EvaluationContext) (Value, []ir.Diagnostic) {
	if len(node.Children) != 1 {
		return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "rotate_extrude requires exactly one child", Span: node.Span}}
	}
	child, diags := e.Eval(node.Children[0], ctx)
	if child.Is3D {
		diags = append(diags, ir.Diagnostic{Severity: ir.Error, Message: "rotate_extrude requires a 2D child", Span: node.Span})
		return Value{}, diags
	}
	p := node.SpecialArgs
	m, err := xsect.RotateExtrude(child.Section, xsect.RotateExtrudeParams{
		Angle:    p.Angle,
		Segments: p.Slices,
	}, e.Cfg)
	if err != nil {
		diags = append(diags, errDiag(node, "rotate_extrude", err)...)
		return Value{}, diags
	}
	return Solid3D(m), diags
}

func (e *Evaluator) evalProjection(node *ir.Node, ctx EvaluationContext) (Value, []ir.Diagnostic) {
	if len(node.Children) != 1 {
		return Value{}, []ir.Diagnostic{{Severity: ir.Error, Message: "projection requires exactly one child", Span: node.Span}}
	}
	child, diags := e.Eval(node.Children[0], ctx)
	if !child.Is3D {
		diags = append(diags, ir.Diagnostic{Severity: ir.Error, Message: "projection requires a 3D child", Span: node.Span})
		return Value{}, diags
	}
	p := node.SpecialArgs
	if p.Cut {
		return Solid2D(xsect.Slice(child.Solid, 0, e.Cfg)), diags
	}
	return Solid2D(projectFlatten(child.Solid, e.Cfg)), diags
}

// projectFlatten implements projection(cut=false): every triangle is
// dropped onto the xy plane and the results are 2D-unioned together
// (§4.7). This is the expensive, non-cut path; callers projecting large
// meshes should prefer cut=true where the geometry allows it.
func projectFlatten(m *mesh.Manifold, cfg geomconfig.Config) *xsect.CrossSection {
	if m.IsEmpty() {
		return xsect.Empty
	}
	hm := m.Mesh()
	acc := xsect.Empty
	for t := 0; t < hm.TriangleCount(); t++ {
		tri := hm.TrianglePositions(t)
		contour := []geom.Vec2{
			{X: tri[0].X, Y: tri[0].Y},
			{X: tri[1].X, Y: tri[1].Y},
			{X: tri[2].X, Y: tri[2].Y},
		}
		flat := xsect.New([][]geom.Vec2{contour})
		if acc.IsEmpty() {
			acc = flat
		} else {
			acc = xsect.Union(acc, flat)
		}
	}
	return acc
}

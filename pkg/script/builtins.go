package script

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/geode/pkg/ir"
)

// node wraps n as the Sexp returned from a builtin, the CSG-domain
// counterpart of the teacher's &sexpNodeRef{...} return values.
func node(n *ir.Node) zygo.Sexp { return &sexpNode{node: n} }

// fnFaFsFromKw reads the optional $fn/$fa/$fs keyword overrides shared by
// every circular primitive and extrude builtin (§4.8).
func fnFaFsFromKw(pa kwArgs) (fn int, fa, fs float64, err error) {
	if v, ok := pa.kw["fn"]; ok {
		if fn, err = toInt(v); err != nil {
			return 0, 0, 0, fmt.Errorf("$fn: %w", err)
		}
	}
	if v, ok := pa.kw["fa"]; ok {
		if fa, err = toFloat64(v); err != nil {
			return 0, 0, 0, fmt.Errorf("$fa: %w", err)
		}
	}
	if v, ok := pa.kw["fs"]; ok {
		if fs, err = toFloat64(v); err != nil {
			return 0, 0, 0, fmt.Errorf("$fs: %w", err)
		}
	}
	return fn, fa, fs, nil
}

// RegisterBuiltins installs every CSG constructor of spec §4 into env: the
// primitives, affine transforms, booleans, and the hull/extrude/projection
// specials. Source must be preprocessed with preprocessSource (Run does
// this) so that :keyword tokens have already become "__kw_keyword"
// literals.
func RegisterBuiltins(env *zygo.Zlisp) {
	registerPrimitives(env)
	registerTransforms(env)
	registerBooleans(env)
	registerSpecials(env)
}

// -----------------------------------------------------------------------
// Primitives (§4.3)
// -----------------------------------------------------------------------

func registerPrimitives(env *zygo.Zlisp) {
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size [3]float64
		center := false

		if len(pa.positional) > 0 {
			if f, err := toFloat64(pa.positional[0]); err == nil {
				size = [3]float64{f, f, f}
			} else if v, err := toVec3(pa.positional[0]); err == nil {
				size = v
			} else {
				return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
			}
		}
		if v, ok := pa.kw["size"]; ok {
			if f, err := toFloat64(v); err == nil {
				size = [3]float64{f, f, f}
			} else if vec, err := toVec3(v); err == nil {
				size = vec
			} else {
				return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
			}
		}
		if v, ok := pa.kw["center"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cube: center: %w", err)
			}
			center = b
		}

		return node(&ir.Node{
			Kind:      ir.KindPrimitive,
			Primitive: ir.Cube,
			PrimArgs:  ir.PrimitiveParams{Size: size, Center: center},
		}), nil
	})

	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var radius float64
		if len(pa.positional) > 0 {
			r, err := toFloat64(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: r: %w", err)
			}
			radius = r
		}
		if v, ok := pa.kw["r"]; ok {
			r, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: r: %w", err)
			}
			radius = r
		}
		if v, ok := pa.kw["d"]; ok {
			d, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sphere: d: %w", err)
			}
			radius = d / 2
		}
		fn, fa, fs, err := fnFaFsFromKw(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}

		return node(&ir.Node{
			Kind:      ir.KindPrimitive,
			Primitive: ir.Sphere,
			PrimArgs:  ir.PrimitiveParams{Radius: radius, Fn: fn, Fa: fa, Fs: fs},
		}), nil
	})

	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var height, rBottom, rTop float64
		center := false

		if v, ok := pa.kw["h"]; ok {
			h, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: h: %w", err)
			}
			height = h
		}
		rBottom, rTop = -1, -1
		if v, ok := pa.kw["r"]; ok {
			r, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: r: %w", err)
			}
			rBottom, rTop = r, r
		}
		if v, ok := pa.kw["r1"]; ok {
			r, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: r1: %w", err)
			}
			rBottom = r
		}
		if v, ok := pa.kw["r2"]; ok {
			r, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: r2: %w", err)
			}
			rTop = r
		}
		if rBottom < 0 {
			rBottom = 1
		}
		if rTop < 0 {
			rTop = rBottom
		}
		if v, ok := pa.kw["center"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: center: %w", err)
			}
			center = b
		}
		fn, fa, fs, err := fnFaFsFromKw(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}

		return node(&ir.Node{
			Kind:      ir.KindPrimitive,
			Primitive: ir.Cylinder,
			PrimArgs: ir.PrimitiveParams{
				Height: height, RBottom: rBottom, RTop: rTop, Center: center,
				Fn: fn, Fa: fa, Fs: fs,
			},
		}), nil
	})

	env.AddFunction("polyhedron", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ptsSexp, ok := pa.kw["points"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("polyhedron: requires :points")
		}
		facesSexp, ok := pa.kw["faces"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("polyhedron: requires :faces")
		}

		ptItems, err := sexpListToSlice(ptsSexp)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: points: %w", err)
		}
		points := make([][3]float64, len(ptItems))
		for i, p := range ptItems {
			v, err := toVec3(p)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polyhedron: point %d: %w", i, err)
			}
			points[i] = v
		}

		faceItems, err := sexpListToSlice(facesSexp)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polyhedron: faces: %w", err)
		}
		faces := make([][]int, len(faceItems))
		for i, f := range faceItems {
			idxItems, err := sexpListToSlice(f)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polyhedron: face %d: %w", i, err)
			}
			idx := make([]int, len(idxItems))
			for j, it := range idxItems {
				n, err := toInt(it)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("polyhedron: face %d index %d: %w", i, j, err)
				}
				idx[j] = n
			}
			faces[i] = idx
		}

		return node(&ir.Node{
			Kind:      ir.KindPrimitive,
			Primitive: ir.Polyhedron,
			PrimArgs:  ir.PrimitiveParams{Points: points, Faces: faces},
		}), nil
	})

	env.AddFunction("square", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size [2]float64
		center := false

		if len(pa.positional) > 0 {
			if f, err := toFloat64(pa.positional[0]); err == nil {
				size = [2]float64{f, f}
			} else if v, err := toVec2(pa.positional[0]); err == nil {
				size = v
			} else {
				return zygo.SexpNull, fmt.Errorf("square: size: %w", err)
			}
		}
		if v, ok := pa.kw["size"]; ok {
			if f, err := toFloat64(v); err == nil {
				size = [2]float64{f, f}
			} else if vec, err := toVec2(v); err == nil {
				size = vec
			} else {
				return zygo.SexpNull, fmt.Errorf("square: size: %w", err)
			}
		}
		if v, ok := pa.kw["center"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("square: center: %w", err)
			}
			center = b
		}

		return node(&ir.Node{
			Kind:      ir.KindPrimitive,
			Primitive: ir.Square,
			PrimArgs:  ir.PrimitiveParams{SizeXY: size, Center: center},
		}), nil
	})

	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var radius float64
		if len(pa.positional) > 0 {
			r, err := toFloat64(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: r: %w", err)
			}
			radius = r
		}
		if v, ok := pa.kw["r"]; ok {
			r, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: r: %w", err)
			}
			radius = r
		}
		if v, ok := pa.kw["d"]; ok {
			d, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("circle: d: %w", err)
			}
			radius = d / 2
		}
		fn, fa, fs, err := fnFaFsFromKw(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: %w", err)
		}

		return node(&ir.Node{
			Kind:      ir.KindPrimitive,
			Primitive: ir.Circle,
			PrimArgs:  ir.PrimitiveParams{Radius: radius, Fn: fn, Fa: fa, Fs: fs},
		}), nil
	})

	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		ptsSexp, ok := pa.kw["points"]
		if !ok {
			if len(pa.positional) == 0 {
				return zygo.SexpNull, fmt.Errorf("polygon: requires :points")
			}
			ptsSexp = pa.positional[0]
		}
		ptItems, err := sexpListToSlice(ptsSexp)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: points: %w", err)
		}
		points := make([][2]float64, len(ptItems))
		for i, p := range ptItems {
			v, err := toVec2(p)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: point %d: %w", i, err)
			}
			points[i] = v
		}

		var paths [][]int
		if pathsSexp, ok := pa.kw["paths"]; ok {
			pathItems, err := sexpListToSlice(pathsSexp)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: paths: %w", err)
			}
			paths = make([][]int, len(pathItems))
			for i, p := range pathItems {
				idxItems, err := sexpListToSlice(p)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("polygon: path %d: %w", i, err)
				}
				idx := make([]int, len(idxItems))
				for j, it := range idxItems {
					n, err := toInt(it)
					if err != nil {
						return zygo.SexpNull, fmt.Errorf("polygon: path %d index %d: %w", i, j, err)
					}
					idx[j] = n
				}
				paths[i] = idx
			}
		}

		return node(&ir.Node{
			Kind:      ir.KindPrimitive,
			Primitive: ir.Polygon,
			PrimArgs:  ir.PrimitiveParams{Points2D: points, Paths: paths},
		}), nil
	})
}

// -----------------------------------------------------------------------
// Transforms (§4.4) — each takes the child node as its last argument so
// calls read as (translate '(1 0 0) child).
// -----------------------------------------------------------------------

func registerTransforms(env *zygo.Zlisp) {
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate: requires a vector and a child node")
		}
		v, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		child, err := toNode(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return node(&ir.Node{
			Kind:      ir.KindTransform,
			Transform: ir.Translate,
			XformArgs: ir.TransformParams{Vector: v},
			Children:  []*ir.Node{child},
		}), nil
	})

	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("rotate: requires an angle/axis and a child node")
		}
		child, err := toNode(pa.positional[len(pa.positional)-1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}

		var params ir.TransformParams
		first := pa.positional[0]
		if angle, err := toFloat64(first); err == nil {
			if axis, ok := pa.kw["v"]; ok {
				axisVec, err := toVec3(axis)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("rotate: v: %w", err)
				}
				params.Axis = axisVec
				params.Angle = angle
			} else {
				params.Euler = [3]float64{0, 0, angle}
			}
		} else if euler, err := toVec3(first); err == nil {
			params.Euler = euler
		} else {
			return zygo.SexpNull, fmt.Errorf("rotate: expected angle or euler vector")
		}

		return node(&ir.Node{
			Kind:      ir.KindTransform,
			Transform: ir.Rotate,
			XformArgs: params,
			Children:  []*ir.Node{child},
		}), nil
	})

	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("scale: requires a vector and a child node")
		}
		v, err := toVec3(args[0])
		if err != nil {
			if f, ferr := toFloat64(args[0]); ferr == nil {
				v = [3]float64{f, f, f}
			} else {
				return zygo.SexpNull, fmt.Errorf("scale: %w", err)
			}
		}
		child, err := toNode(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		return node(&ir.Node{
			Kind:      ir.KindTransform,
			Transform: ir.Scale,
			XformArgs: ir.TransformParams{Vector: v},
			Children:  []*ir.Node{child},
		}), nil
	})

	env.AddFunction("mirror", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("mirror: requires a normal vector and a child node")
		}
		v, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mirror: %w", err)
		}
		child, err := toNode(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mirror: %w", err)
		}
		return node(&ir.Node{
			Kind:      ir.KindTransform,
			Transform: ir.Mirror,
			XformArgs: ir.TransformParams{Vector: v},
			Children:  []*ir.Node{child},
		}), nil
	})

	env.AddFunction("resize", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("resize: requires a size vector and a child node")
		}
		size, err := toVec3(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("resize: size: %w", err)
		}
		child, err := toNode(pa.positional[len(pa.positional)-1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("resize: %w", err)
		}
		var auto [3]bool
		if v, ok := pa.kw["auto"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("resize: auto: %w", err)
			}
			for i, it := range items {
				if i >= 3 {
					break
				}
				b, err := toBool(it)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("resize: auto[%d]: %w", i, err)
				}
				auto[i] = b
			}
		}
		return node(&ir.Node{
			Kind:      ir.KindTransform,
			Transform: ir.Resize,
			XformArgs: ir.TransformParams{Vector: size, Auto: auto},
			Children:  []*ir.Node{child},
		}), nil
	})
}

// -----------------------------------------------------------------------
// Booleans (§4.6) — variadic, N child nodes reduced pairwise by the engine.
// -----------------------------------------------------------------------

func registerBooleans(env *zygo.Zlisp) {
	reg := func(opName string, kind ir.BooleanKind) {
		env.AddFunction(opName, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			children, err := toNodes(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", opName, err)
			}
			if len(children) == 0 {
				return zygo.SexpNull, fmt.Errorf("%s: requires at least one child", opName)
			}
			return node(&ir.Node{Kind: ir.KindBoolean, Boolean: kind, Children: children}), nil
		})
	}
	reg("union", ir.Union)
	reg("difference", ir.Difference)
	reg("intersection", ir.Intersection)
}

// -----------------------------------------------------------------------
// Specials (§4.7/§4.8)
// -----------------------------------------------------------------------

func registerSpecials(env *zygo.Zlisp) {
	env.AddFunction("hull", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		children, err := toNodes(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hull: %w", err)
		}
		return node(&ir.Node{Kind: ir.KindSpecial, Special: ir.Hull, Children: children}), nil
	})

	env.AddFunction("minkowski", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		children, err := toNodes(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("minkowski: %w", err)
		}
		return node(&ir.Node{Kind: ir.KindSpecial, Special: ir.Minkowski, Children: children}), nil
	})

	env.AddFunction("linear_extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("linear_extrude: requires a child cross-section")
		}
		child, err := toNode(pa.positional[len(pa.positional)-1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("linear_extrude: %w", err)
		}

		params := ir.SpecialParams{Slices: 1, TopScale: [2]float64{1, 1}}
		if v, ok := pa.kw["height"]; ok {
			h, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("linear_extrude: height: %w", err)
			}
			params.Height = h
		}
		if v, ok := pa.kw["twist"]; ok {
			t, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("linear_extrude: twist: %w", err)
			}
			params.Twist = t
		}
		if v, ok := pa.kw["slices"]; ok {
			s, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("linear_extrude: slices: %w", err)
			}
			params.Slices = s
		}
		if v, ok := pa.kw["scale"]; ok {
			if f, err := toFloat64(v); err == nil {
				params.TopScale = [2]float64{f, f}
			} else if vec, err := toVec2(v); err == nil {
				params.TopScale = vec
			} else {
				return zygo.SexpNull, fmt.Errorf("linear_extrude: scale: %w", err)
			}
		}

		return node(&ir.Node{
			Kind: ir.KindSpecial, Special: ir.LinearExtrude,
			SpecialArgs: params, Children: []*ir.Node{child},
		}), nil
	})

	env.AddFunction("rotate_extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("rotate_extrude: requires a child cross-section")
		}
		child, err := toNode(pa.positional[len(pa.positional)-1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate_extrude: %w", err)
		}

		params := ir.SpecialParams{Angle: 360}
		if v, ok := pa.kw["angle"]; ok {
			a, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rotate_extrude: angle: %w", err)
			}
			params.Angle = a
		}
		fn, fa, fs, err := fnFaFsFromKw(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate_extrude: %w", err)
		}
		params.Fn, params.Fa, params.Fs = fn, fa, fs

		return node(&ir.Node{
			Kind: ir.KindSpecial, Special: ir.RotateExtrude,
			SpecialArgs: params, Children: []*ir.Node{child},
		}), nil
	})

	env.AddFunction("projection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			return zygo.SexpNull, fmt.Errorf("projection: requires a child solid")
		}
		child, err := toNode(pa.positional[len(pa.positional)-1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("projection: %w", err)
		}
		cut := false
		if v, ok := pa.kw["cut"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("projection: cut: %w", err)
			}
			cut = b
		}
		return node(&ir.Node{
			Kind: ir.KindSpecial, Special: ir.Projection,
			SpecialArgs: ir.SpecialParams{Cut: cut}, Children: []*ir.Node{child},
		}), nil
	})

	env.AddFunction("render", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		children, err := toNodes(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("render: %w", err)
		}
		return node(&ir.Node{Kind: ir.KindSpecial, Special: ir.Render, Children: children}), nil
	})

	env.AddFunction("import", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var path string
		if len(pa.positional) > 0 {
			p, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("import: path: %w", err)
			}
			path = p
		}
		if v, ok := pa.kw["file"]; ok {
			p, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("import: file: %w", err)
			}
			path = p
		}
		return node(&ir.Node{
			Kind: ir.KindSpecial, Special: ir.Import,
			SpecialArgs: ir.SpecialParams{Path: path},
		}), nil
	})
}

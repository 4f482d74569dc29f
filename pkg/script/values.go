package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/geode/pkg/ir"
)

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// sexpNode wraps an *ir.Node so a builtin's return value can be nested
// inside the next s-expression, the way sexpNodeRef wraps a graph.NodeID
// in the teacher's DSL.
type sexpNode struct {
	node *ir.Node
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(ir-node kind=%d)", n.node.Kind)
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// isKW checks if a Sexp is a preprocessed keyword string, returning the
// keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments, keywords
// identified by the __kw_ prefix preprocessSource adds.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVec3 extracts [3]float64 from a 3-element list/array of numbers.
func toVec3(s zygo.Sexp) ([3]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return [3]float64{}, err
	}
	if len(items) != 3 {
		return [3]float64{}, fmt.Errorf("expected a 3-element vector, got %d elements", len(items))
	}
	var out [3]float64
	for i, it := range items {
		f, err := toFloat64(it)
		if err != nil {
			return [3]float64{}, fmt.Errorf("vector element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// toVec2 extracts [2]float64 from a 2-element list/array of numbers.
func toVec2(s zygo.Sexp) ([2]float64, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return [2]float64{}, err
	}
	if len(items) != 2 {
		return [2]float64{}, fmt.Errorf("expected a 2-element vector, got %d elements", len(items))
	}
	var out [2]float64
	for i, it := range items {
		f, err := toFloat64(it)
		if err != nil {
			return [2]float64{}, fmt.Errorf("vector element %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// toNode extracts an *ir.Node from a sexpNode.
func toNode(s zygo.Sexp) (*ir.Node, error) {
	if n, ok := s.(*sexpNode); ok {
		return n.node, nil
	}
	return nil, fmt.Errorf("expected a geometry node, got %T (%s)", s, s.SexpString(nil))
}

// toNodes extracts an *ir.Node from every element of args, in order.
func toNodes(args []zygo.Sexp) ([]*ir.Node, error) {
	out := make([]*ir.Node, 0, len(args))
	for i, a := range args {
		n, err := toNode(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// Package engine implements the evaluator of §4.8: it walks a GeometryIR
// tree and drives the kernel (primitives, transforms, booleans, 2D/
// extrusion) to produce Manifolds and CrossSections, consulting a
// GeometryCache keyed on IR-subtree content so that editing a translate
// at the top of a tree does not re-tessellate an unrelated dense sphere
// child. The package follows the teacher's Engine shape (pkg/engine/
// engine.go, pkg/engine/timeout.go in chazu/lignin): a bounded-time
// evaluation call running in a goroutine, panic recovery, and a
// generation counter that discards stale results superseded by a newer
// edit, generalized here from Lisp-source-to-DesignGraph evaluation to
// GeometryIR-to-Manifold evaluation.
package engine

import (
	"sync/atomic"

	"github.com/chazu/geode/internal/geomconfig"
)

// EvaluationContext carries the ambient special-variable stack ($fn, $fa,
// $fs, $t) and recursion-depth bookkeeping of §4.8 down through a
// recursive Eval call. It is passed by value; each recursive descent
// copies and, where an IR node overrides Fn/Fa/Fs, adjusts its own copy
// without mutating the parent's.
type EvaluationContext struct {
	Fn int
	Fa float64
	Fs float64
	T  float64 // $t, the animation parameter; 0 outside an animated render

	depth     int
	maxDepth  int
	cancelled *atomic.Bool
}

// NewContext returns the root EvaluationContext: the kernel's configured
// $fn/$fa/$fs defaults, $t = 0, and the given recursion-depth limit
// (spec §4.8's "configured recursion-depth limit", §5's cooperative
// cancellation flag shared by every node this evaluation visits).
func NewContext(cfg geomconfig.Config, maxDepth int) EvaluationContext {
	return EvaluationContext{
		Fn:        cfg.DefaultFN,
		Fa:        cfg.DefaultFA,
		Fs:        cfg.DefaultFS,
		maxDepth:  maxDepth,
		cancelled: new(atomic.Bool),
	}
}

// Cancel sets the cooperative cancellation flag (§5): checked at every
// Eval call here. The kernel packages never see the flag, so a kernel
// operation already running when Cancel is called runs to completion.
func (c EvaluationContext) Cancel() { c.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called for this evaluation.
func (c EvaluationContext) Cancelled() bool {
	return c.cancelled != nil && c.cancelled.Load()
}

// descend returns a copy one recursion level deeper, erroring if the
// configured depth limit (§9 "Evaluator recursion vs. deep IRs") would be
// exceeded.
func (c EvaluationContext) descend() (EvaluationContext, bool) {
	c.depth++
	if c.maxDepth > 0 && c.depth > c.maxDepth {
		return c, false
	}
	return c, true
}

// withFnFaFs returns a copy with Fn/Fa/Fs overridden by any non-zero
// values a node supplies, per §3 PrimitiveParams/SpecialParams doc
// comments ("override the evaluation context's ambient $fn/$fa/$fs for
// this node only when non-zero").
func (c EvaluationContext) withFnFaFs(fn int, fa, fs float64) EvaluationContext {
	if fn > 0 {
		c.Fn = fn
	}
	if fa > 0 {
		c.Fa = fa
	}
	if fs > 0 {
		c.Fs = fs
	}
	return c
}

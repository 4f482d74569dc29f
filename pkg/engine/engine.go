package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/ir"
)

// EvalTimeout is the hard limit for a single top-level evaluation,
// bounding the pathological case the §5 "no operation may suspend
// mid-computation" rule doesn't otherwise cover: an IR tree whose
// boolean/extrude work simply takes too long.
const EvalTimeout = 30 * time.Second

// DefaultRecursionLimit bounds IR recursion depth (§4.8, §9) for hosts
// that do not configure their own.
const DefaultRecursionLimit = 10_000

// Engine wraps an Evaluator in the teacher's generation-counter/timeout/
// panic-recovery envelope (chazu/lignin's engine.Engine.Evaluate +
// waitWithTimeout), generalized from Lisp-source evaluation to
// GeometryIR evaluation. It is safe for concurrent use; each call runs
// in its own goroutine so a slow or hung evaluation cannot block a
// subsequent one, and the generation counter discards a stale result
// that finishes after a newer call has already superseded it.
type Engine struct {
	Eval *Evaluator

	mu         sync.Mutex
	generation uint64
}

// NewEngine returns an Engine with a fresh Evaluator/GeometryCache over
// cfg.
func NewEngine(cfg geomconfig.Config) *Engine {
	return &Engine{Eval: NewEvaluator(cfg)}
}

type evalResult struct {
	value Value
	diags []ir.Diagnostic
	err   error
}

// Evaluate runs root through the evaluator with a bounded time budget,
// recovering from internal panics (§7's InternalError) and returning a
// "superseded" error if a newer Evaluate call started before this one
// finished.
//
// Return semantics mirror the teacher's: on success, (value, nil, nil);
// on recoverable evaluation errors, (value, diagnostics, nil), where value
// is whatever the evaluator still produced (empty when the root itself
// failed, partial when only some subtrees failed); on a
// fatal failure (timeout, panic, superseded), (zero value, nil, error).
func (e *Engine) Evaluate(root *ir.Node) (Value, []ir.Diagnostic, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)
	ctx := NewContext(e.Eval.Cfg, DefaultRecursionLimit)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("internal error: panic during evaluation: %v", r)}
			}
		}()
		v, diags := e.Eval.Eval(root, ctx)
		ch <- evalResult{value: v, diags: diags}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

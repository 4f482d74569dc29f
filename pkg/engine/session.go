package engine

import (
	"time"

	"github.com/bep/debounce"
	"github.com/chazu/geode/pkg/ir"
)

// DefaultDebounceInterval coalesces bursts of interactive edits (e.g. a
// host streaming one new IR tree per keystroke) before the next
// re-evaluation actually runs — the production mechanism that makes
// interactive editing viable (§4.8), generalized from the teacher's
// generation-counter staleness check (which discards superseded work
// after the fact) to discarding superseded work before it is even
// started.
const DefaultDebounceInterval = 120 * time.Millisecond

// EditSession wraps an Engine with edit-burst debouncing for a single
// interactive editing stream. Recompute is called once per edit; the
// underlying Engine.Evaluate only actually runs once the caller has gone
// quiet for DefaultDebounceInterval, and only for the most recently
// submitted root.
type EditSession struct {
	engine    *Engine
	debounced func(func())

	mu   chan struct{} // 1-buffered mutex guarding latest/callback
	latest *ir.Node
	onResult func(Value, []ir.Diagnostic, error)
}

// NewEditSession returns an EditSession over engine. onResult is called
// from the debounced goroutine every time a debounced Recompute actually
// runs; it must not block.
func NewEditSession(engine *Engine, onResult func(Value, []ir.Diagnostic, error)) *EditSession {
	s := &EditSession{
		engine:   engine,
		debounced: debounce.New(DefaultDebounceInterval),
		mu:       make(chan struct{}, 1),
		onResult: onResult,
	}
	s.mu <- struct{}{}
	return s
}

// Recompute submits root as the latest edit. If called again before the
// debounce interval elapses, only the last-submitted root is evaluated.
func (s *EditSession) Recompute(root *ir.Node) {
	<-s.mu
	s.latest = root
	s.mu <- struct{}{}

	s.debounced(func() {
		<-s.mu
		root := s.latest
		s.mu <- struct{}{}

		v, diags, err := s.engine.Evaluate(root)
		s.onResult(v, diags, err)
	})
}

// Cache exposes the session's GeometryCache for explicit clearing (§9)
// between unrelated editing sessions sharing one process.
func (s *EditSession) Cache() *GeometryCache { return s.engine.Eval.Cache }

package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/geode/pkg/ir"
)

// waitWithTimeout waits for a result from ch, returning a timeout error
// if evaluation exceeds EvalTimeout, and discarding a result that arrives
// after a newer generation has already started (the goroutine that
// produced it may still be running; its eventual result is simply
// dropped when it completes).
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (Value, []ir.Diagnostic, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return Value{}, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.value, res.diags, res.err

	case <-timer.C:
		return Value{}, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}

package ir

// Severity classifies a Diagnostic (§3, §7).
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is the host-facing error/warning envelope of §3: every
// diagnostic the evaluator or kernel emits carries the span of the
// responsible IR node, which the front end maps back to a line/column pair.
type Diagnostic struct {
	Severity Severity
	Message  string
	Span     Span
	Hint     string
}

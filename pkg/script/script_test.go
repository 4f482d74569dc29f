package script

import (
	"testing"

	"github.com/chazu/geode/pkg/ir"
)

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(cube :size 2)`,
			expect: `(cube "__kw_size" 2)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(linear-extrude :height 10)`,
			expect: `(linear_extrude "__kw_height" 10)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; a comment`,
			expect: `// a comment`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestRunCube(t *testing.T) {
	in := NewInterpreter()
	n, errs, err := in.Run(`(cube :size (list 2 3 4) :center true)`)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected script errors: %v", errs)
	}
	if n.Kind != ir.KindPrimitive || n.Primitive != ir.Cube {
		t.Fatalf("unexpected node: %+v", n)
	}
	if n.PrimArgs.Size != [3]float64{2, 3, 4} || !n.PrimArgs.Center {
		t.Errorf("unexpected cube params: %+v", n.PrimArgs)
	}
}

func TestRunUnionOfTranslatedCubes(t *testing.T) {
	in := NewInterpreter()
	src := `(union (cube :size 1) (translate (list 1 0 0) (cube :size 1)))`
	n, errs, err := in.Run(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("unexpected script errors: %v", errs)
	}
	if n.Kind != ir.KindBoolean || n.Boolean != ir.Union {
		t.Fatalf("unexpected node: %+v", n)
	}
	if len(n.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(n.Children))
	}
}

func TestRunSyntaxError(t *testing.T) {
	in := NewInterpreter()
	_, errs, err := in.Run(`(cube (((`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(errs) == 0 {
		t.Fatal("expected a syntax error")
	}
}

func TestRunEmptySource(t *testing.T) {
	in := NewInterpreter()
	n, errs, err := in.Run("   \n  ")
	if err != nil || len(errs) != 0 {
		t.Fatalf("unexpected error(s): %v %v", errs, err)
	}
	if n != nil {
		t.Errorf("expected nil node for empty source, got %+v", n)
	}
}

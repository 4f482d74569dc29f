// Command geode-repl is an interactive line-oriented geometry console: it
// reads script source one form at a time, evaluates it to GeometryIR and
// then to a Manifold/CrossSection, and reports a one-line summary — the
// CLI-tooling analogue of the teacher's DSL, restyled for CSG (§4, §6).
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/glycerine/liner"

	"github.com/chazu/geode/internal/geomconfig"
	"github.com/chazu/geode/pkg/engine"
	"github.com/chazu/geode/pkg/kernel/export"
	"github.com/chazu/geode/pkg/script"
)

const historyFile = ".geode_history"

func main() {
	os.Exit(run())
}

func run() int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	interp := script.NewInterpreter()
	eng := engine.NewEngine(geomconfig.Default)
	var last engine.Value

	fmt.Println("geode interactive console — :help for commands, :quit to exit")

	var pending strings.Builder
	for {
		prompt := "geode> "
		if pending.Len() > 0 {
			prompt = "   ... "
		}
		text, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			return 0
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "error reading input:", err)
			return 1
		}
		line.AppendHistory(text)

		trimmed := strings.TrimSpace(text)
		if pending.Len() == 0 && strings.HasPrefix(trimmed, ":") {
			if handleCommand(trimmed, &last) {
				return 0
			}
			continue
		}

		pending.WriteString(text)
		pending.WriteString("\n")
		if !balanced(pending.String()) {
			continue
		}

		source := pending.String()
		pending.Reset()

		root, scriptErrs, err := interp.Run(source)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fatal:", err)
			continue
		}
		if len(scriptErrs) > 0 {
			for _, e := range scriptErrs {
				fmt.Fprintln(os.Stderr, "error:", e.Error())
			}
			continue
		}
		if root == nil {
			continue
		}

		v, diags, err := eng.Evaluate(root)
		if err != nil {
			fmt.Fprintln(os.Stderr, "fatal:", err)
			continue
		}
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "%s: %s\n", d.Severity, d.Message)
		}
		last = v
		printSummary(v)
	}
}

func handleCommand(cmd string, last *engine.Value) (quit bool) {
	fields := strings.Fields(cmd)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Println("commands: :help, :quit, :export <path.stl>")
		fmt.Println("otherwise, enter a geometry expression, e.g. (cube :size 10)")
	case ":export":
		if len(fields) < 2 {
			fmt.Fprintln(os.Stderr, "usage: :export <path.stl>")
			return false
		}
		if last.Solid == nil || !last.Is3D {
			fmt.Fprintln(os.Stderr, "export: no 3D result to export yet")
			return false
		}
		f, err := os.Create(fields[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			return false
		}
		defer f.Close()
		if err := export.WriteBinary(f, last.Solid, "geode"); err != nil {
			fmt.Fprintln(os.Stderr, "export:", err)
			return false
		}
		fmt.Println("wrote", fields[1])
	default:
		fmt.Fprintln(os.Stderr, "unknown command:", fields[0])
	}
	return false
}

func printSummary(v engine.Value) {
	if v.IsEmpty() {
		fmt.Println("=> empty")
		return
	}
	if v.Is3D {
		fmt.Printf("=> solid: %d triangles, volume %.4f\n", v.Solid.TriangleCount(), v.Solid.Volume())
		return
	}
	fmt.Printf("=> cross-section: %d contours, area %.4f\n", len(v.Section.Contours), v.Section.Area())
}

// balanced reports whether s has as many closing parens as opening ones,
// the console's cue to stop collecting a multi-line form and evaluate it.
func balanced(s string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return depth <= 0
}

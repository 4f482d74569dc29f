package xsectsvg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/xsect"
)

func TestWriteSquare(t *testing.T) {
	cs := xsect.New([][]geom.Vec2{{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}})

	var buf bytes.Buffer
	Write(&buf, cs, DefaultOptions)

	out := buf.String()
	if !strings.Contains(out, "<svg") {
		t.Fatal("expected an <svg> element")
	}
	if !strings.Contains(out, "<polygon") {
		t.Fatal("expected a <polygon> element for the contour")
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, xsect.Empty, DefaultOptions)
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatal("expected an <svg> element even for an empty cross-section")
	}
}

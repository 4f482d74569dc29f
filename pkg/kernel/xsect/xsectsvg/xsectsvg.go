// Package xsectsvg renders a CrossSection's contours to SVG for debugging
// triangulation, offset, and boolean failures during development. It is
// not an export format the kernel supports (spec §1 restricts
// serialisation to STL); this package exists purely for tests and local
// inspection.
package xsectsvg

import (
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/chazu/geode/pkg/geom"
	"github.com/chazu/geode/pkg/kernel/xsect"
)

// Options controls the rendered canvas.
type Options struct {
	Width, Height int
	Margin        float64
	Stroke        string
	Fill          string
}

// DefaultOptions is a reasonable canvas size for an interactively-inspected
// cross-section.
var DefaultOptions = Options{Width: 512, Height: 512, Margin: 16, Stroke: "black", Fill: "none"}

// Write renders cs to w as an SVG document, one <polygon> per contour, fit
// to the canvas with Options.Margin of padding on every side. An empty
// cross-section renders an empty canvas rather than erroring.
func Write(w io.Writer, cs *xsect.CrossSection, opt Options) {
	canvas := svg.New(w)
	canvas.Start(opt.Width, opt.Height)
	defer canvas.End()

	if cs.IsEmpty() {
		return
	}

	bbox := cs.BoundingBox()
	spanX := bbox.Max.X - bbox.Min.X
	spanY := bbox.Max.Y - bbox.Min.Y
	if spanX <= 0 {
		spanX = 1
	}
	if spanY <= 0 {
		spanY = 1
	}
	usableW := float64(opt.Width) - 2*opt.Margin
	usableH := float64(opt.Height) - 2*opt.Margin
	scale := math.Min(usableW/spanX, usableH/spanY)

	project := func(p geom.Vec2) (int, int) {
		x := opt.Margin + (p.X-bbox.Min.X)*scale
		// SVG's y axis points down; flip so the rendering matches the
		// cross-section's own right-handed 2D coordinate convention.
		y := opt.Margin + (bbox.Max.Y-p.Y)*scale
		return int(math.Round(x)), int(math.Round(y))
	}

	for _, contour := range cs.Contours {
		xs := make([]int, len(contour))
		ys := make([]int, len(contour))
		for i, p := range contour {
			xs[i], ys[i] = project(p)
		}
		canvas.Polygon(xs, ys, "fill:"+opt.Fill+";stroke:"+opt.Stroke+";stroke-width:1")
	}
}

// Package export renders stored attitude traces and horizon snapshots as
// SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/flightcore/internal/viz"
)

// Series is one named trace to draw.
type Series struct {
	Name   string
	Values []float64
	Color  string
}

var palette = []string{"#00d7ff", "#ffd700", "#ff5f87", "#87ff5f", "#af87ff", "#ff8700"}

// CanvasToSVG converts a braille canvas to SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// HorizonSVG draws the attitude indicator for one instant.
func HorizonSVG(rollDeg, pitchDeg float64) string {
	c := viz.NewCanvas(40, 12)
	c.Horizon(rollDeg, pitchDeg)
	return CanvasToSVG(c, 6)
}

// TraceSVG plots every series against times on a shared y axis, with a
// zero line and a legend.
func TraceSVG(w io.Writer, times []float64, series []Series, width, height int) error {
	if len(times) < 2 {
		return errors.New("trace needs at least two samples")
	}
	for _, s := range series {
		if len(s.Values) != len(times) {
			return errors.Errorf("series %s has %d samples, want %d", s.Name, len(s.Values), len(times))
		}
	}

	minT, maxT := times[0], times[len(times)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
	}
	if math.IsInf(minY, 0) {
		minY, maxY = -1, 1
	}

	rangeT := maxT - minT
	if rangeT == 0 {
		rangeT = 1
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	px := func(t float64) float64 { return (t - minT) / rangeT * float64(width) }
	py := func(v float64) float64 { return float64(height) - (v-minY)/rangeY*float64(height) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if minY < 0 && maxY > 0 {
		fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\" stroke=\"#444\" stroke-dasharray=\"4 4\"/>\n", py(0), width, py(0))
	}

	for i, s := range series {
		color := s.Color
		if color == "" {
			color = palette[i%len(palette)]
		}

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
		for j, v := range s.Values {
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", px(times[j]), py(v))
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", px(times[j]), py(v))
			}
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, "<text x=\"8\" y=\"%d\" fill=\"%s\" font-family=\"monospace\" font-size=\"12\">%s</text>\n", 16+14*i, color, s.Name)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "write svg")
}

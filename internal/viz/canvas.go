package viz

import (
	"math"
	"strings"

	"github.com/san-kum/flightcore/internal/numeric"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights a sub-pixel. The canvas is (Width*2) x (Height*4) sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Horizon draws an attitude indicator: the horizon line banked by roll and
// shifted by pitch, a pitch ladder every 10 degrees, and a fixed aircraft
// symbol in the middle. Angles are in degrees.
func (c *Canvas) Horizon(rollDeg, pitchDeg float64) {
	w, h := c.Width*2, c.Height*4
	cx, cy := w/2, h/2
	pxPerDeg := float64(h) / 60

	rad := numeric.Deg2Rad(-rollDeg)
	cos, sin := math.Cos(rad), math.Sin(rad)

	// Screen y grows downward; nose up moves the horizon down.
	line := func(offsetDeg, halfLen float64) {
		oy := (pitchDeg - offsetDeg) * pxPerDeg
		x0 := -halfLen*cos - oy*sin
		y0 := -halfLen*sin + oy*cos
		x1 := halfLen*cos - oy*sin
		y1 := halfLen*sin + oy*cos
		c.DrawLine(cx+int(x0), cy+int(y0), cx+int(x1), cy+int(y1))
	}

	line(0, float64(w))
	for _, deg := range []float64{-20, -10, 10, 20} {
		line(deg, float64(w)/10)
	}

	c.DrawLine(cx-12, cy, cx-4, cy)
	c.DrawLine(cx+4, cy, cx+12, cy)
	c.Set(cx, cy)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

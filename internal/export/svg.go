package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/viz"
)

const background = "#0a0a0a"

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per dot,
// coloured by the cell level when colors is non-empty.
func CanvasToSVG(canvas *viz.Canvas, scale float64, colors []string) string {
	if canvas == nil {
		return ""
	}

	width := int(float64(canvas.Width) * scale * 2)   // 2 sub-pixels per char
	height := int(float64(canvas.Height) * scale * 4) // 4 sub-pixels per char

	var sb strings.Builder
	header(&sb, width, height)

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
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			fill := dotColor(colors, canvas.Level[row][col])

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill))
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func dotColor(colors []string, level int) string {
	if len(colors) == 0 {
		return "#00ff00"
	}
	if level < 0 {
		level = 0
	}
	if level >= len(colors) {
		level = len(colors) - 1
	}
	return colors[level]
}

// Series is one labelled column of a time series plot.
type Series struct {
	Label  string
	Values []float64
}

type bounds struct {
	minX, maxX, minY, maxY float64
}

// pad widens the bounds by ten percent and replaces empty ranges.
func (b *bounds) pad() {
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if !(rangeX > 0) {
		rangeX = 1
	}
	if !(rangeY > 0) {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
}

// TimeSeriesSVG draws one polyline per series against times with a legend.
// Non-finite samples break the line.
func TimeSeriesSVG(times []float64, series []Series, width, height int) string {
	if len(times) < 2 || len(series) == 0 {
		return ""
	}

	b := bounds{minX: times[0], maxX: times[len(times)-1], minY: math.Inf(1), maxY: math.Inf(-1)}
	for _, s := range series {
		for _, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			b.minY = math.Min(b.minY, v)
			b.maxY = math.Max(b.maxY, v)
		}
	}
	if math.IsInf(b.minY, 1) {
		b.minY, b.maxY = 0, 0
	}
	b.pad()
	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY

	var sb strings.Builder
	header(&sb, width, height)

	colors := viz.CoolWarmHex(len(series))
	for i, s := range series {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="`, colors[i]))
		pen := false
		for k, v := range s.Values {
			if k >= len(times) {
				break
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				pen = false
				continue
			}
			x := (times[k] - b.minX) / rangeX * float64(width)
			y := float64(height) - (v-b.minY)/rangeY*float64(height)
			if !pen {
				if k > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
				pen = true
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(`"/>
`)
		sb.WriteString(fmt.Sprintf(`<text x="10" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 20+16*i, colors[i], s.Label))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ScatterSVG projects points through the scatter camera and draws one
// circle per point, coloured by its value bucket.
func ScatterSVG(s *viz.Scatter, points []oracle.Vec3, values []float64, width, height int) string {
	if s == nil || len(points) == 0 {
		return ""
	}

	colors := viz.CoolWarmHex(len(s.Palette))
	levels := viz.Bucket(values, len(colors))

	type dot struct {
		x, y  int
		depth float64
		fill  string
	}
	dots := make([]dot, 0, len(points))
	for i, p := range viz.Normalize(points) {
		x, y, d, ok := s.Camera.Project(p, width, height)
		if !ok {
			continue
		}
		lvl := 0
		if i < len(levels) {
			lvl = levels[i]
		}
		dots = append(dots, dot{x, y, d, dotColor(colors, lvl)})
	}
	sort.SliceStable(dots, func(i, j int) bool { return dots[i].depth < dots[j].depth })

	var sb strings.Builder
	header(&sb, width, height)
	for _, d := range dots {
		sb.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="2" fill="%s"/>
`, d.x, d.y, d.fill))
	}
	sb.WriteString("</svg>")
	return sb.String()
}

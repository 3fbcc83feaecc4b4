package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	// Verification verdicts
	StatusPass = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusFail = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))
)

// Diverging cool to warm endpoints
const (
	coolColor = "#3b4cc0"
	midColor  = "#dddddd"
	warmColor = "#b40426"
)

// CoolWarm returns n foreground styles running blue through grey to red.
func CoolWarm(n int) []lipgloss.Style {
	if n <= 0 {
		return nil
	}
	out := make([]lipgloss.Style, n)
	for i, hex := range CoolWarmHex(n) {
		out[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return out
}

// CoolWarmHex returns the hex colours behind CoolWarm.
func CoolWarmHex(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		t := 0.5
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		if t < 0.5 {
			out[i] = lerpHex(coolColor, midColor, t*2)
		} else {
			out[i] = lerpHex(midColor, warmColor, (t-0.5)*2)
		}
	}
	return out
}

// Legend renders a one-line palette key between lo and hi.
func Legend(label string, lo, hi float64, palette []lipgloss.Style) string {
	var b strings.Builder
	b.WriteString(MetricLabel.Render(label + " "))
	b.WriteString(MetricValue.Render(formatFloat(lo)) + " ")
	for _, s := range palette {
		b.WriteString(s.Render("█"))
	}
	b.WriteString(" " + MetricValue.Render(formatFloat(hi)))
	return b.String()
}

// Separator renders a muted rule.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}

func lerpHex(from, to string, t float64) string {
	sr, sg, sb := parseHex(from)
	er, eg, eb := parseHex(to)
	mix := func(a, b int) int { return int(math.Round(float64(a) + t*float64(b-a))) }
	return hexColor(mix(sr, er), mix(sg, eg), mix(sb, eb))
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	r = parseHexByte(hex[1:3])
	g = parseHexByte(hex[3:5])
	b = parseHexByte(hex[5:7])
	return
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		if c >= '0' && c <= '9' {
			val += int(c - '0')
		} else if c >= 'a' && c <= 'f' {
			val += int(c - 'a' + 10)
		} else if c >= 'A' && c <= 'F' {
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}

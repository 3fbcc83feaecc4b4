package viz

import (
	"math"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

// Camera manages 3D projection to a 2D plane.
type Camera struct {
	Distance         float64
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 50, Near: 0.1, RotX: -0.5, RotY: 0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// ZoomBy zooms in for positive steps and out for negative ones.
func (c *Camera) ZoomBy(steps int) {
	for ; steps > 0; steps-- {
		c.ZoomIn()
	}
	for ; steps < 0; steps++ {
		c.ZoomOut()
	}
}

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p oracle.Vec3) oracle.Vec3 {
	x, y, z := p[0], p[1], p[2]
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	y, z = y*cx-z*sx, y*sx+z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	x, z = x*cy+z*sy, -x*sy+z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	x, y = x*cz-y*sz, x*sz+y*cz
	return oracle.Vec3{x, y, z}
}

// Project converts world coordinates to screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p oracle.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot[2] >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot[2])
	minDim := math.Min(float64(sw), float64(sh))
	pScale := minDim / 3.0
	sx := int(rot[0]*scale*pScale) + sw/2
	sy := int(-rot[1]*scale*pScale) + sh/2
	return sx, sy, rot[2], sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// Normalize centres points on their bounding box and scales the largest
// half extent to one. Degenerate clouds collapse to the origin.
func Normalize(points []oracle.Vec3) []oracle.Vec3 {
	if len(points) == 0 {
		return nil
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for i := range p {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	centre := lo.Add(hi).Scale(0.5)
	half := 0.0
	for i := range lo {
		half = math.Max(half, (hi[i]-lo[i])/2)
	}
	inv := 0.0
	if half > 0 {
		inv = 1 / half
	}

	out := make([]oracle.Vec3, len(points))
	for i, p := range points {
		out[i] = p.Sub(centre).Scale(inv)
	}
	return out
}

// Bucket maps values onto levels [0, n) by linear position between their
// minimum and maximum. Non-finite values land in bucket zero.
func Bucket(values []float64, n int) []int {
	out := make([]int, len(values))
	if n <= 1 || len(values) == 0 {
		return out
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !(hi > lo) {
		return out
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		b := int((v - lo) / (hi - lo) * float64(n))
		if b >= n {
			b = n - 1
		}
		out[i] = b
	}
	return out
}

// Scatter renders a 3D point cloud onto a Braille canvas, each dot
// coloured by its value bucket.
type Scatter struct {
	Width, Height int
	Camera        *Camera
	Palette       []lipgloss.Style
}

func NewScatter(w, h int) *Scatter {
	cam := NewCamera()
	// keeps the rotated unit cube inside the frame
	cam.Zoom = 1 / math.Sqrt(3)
	return &Scatter{Width: w, Height: h, Camera: cam, Palette: CoolWarm(8)}
}

type projected struct {
	x, y  int
	depth float64
	level int
}

// Draw projects the points onto a fresh canvas, far points first.
func (s *Scatter) Draw(points []oracle.Vec3, values []float64) *Canvas {
	c := NewCanvas(s.Width, s.Height)
	levels := Bucket(values, len(s.Palette))
	norm := Normalize(points)

	sw, sh := s.Width*2, s.Height*4
	proj := make([]projected, 0, len(norm))
	for i, p := range norm {
		x, y, d, ok := s.Camera.Project(p, sw, sh)
		if !ok {
			continue
		}
		lvl := 0
		if i < len(levels) {
			lvl = levels[i]
		}
		proj = append(proj, projected{x, y, d, lvl})
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, p := range proj {
		c.SetLevel(p.x, p.y, p.level)
	}
	return c
}

// Render draws the points and returns the coloured Braille text.
func (s *Scatter) Render(points []oracle.Vec3, values []float64) string {
	return s.Draw(points, values).Render(s.Palette)
}

package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/sampling"
)

func TestCanvasSetLevel(t *testing.T) {
	c := NewCanvas(4, 2)
	c.SetLevel(0, 0, 2)
	c.SetLevel(1, 3, 5)
	c.SetLevel(100, 100, 7) // out of range

	assert.Equal(t, rune(0x2800|0x1|0x80), c.Grid[0][0])
	assert.Equal(t, 5, c.Level[0][0])
	assert.Equal(t, -1, c.Level[1][3])

	c.Clear()
	assert.Equal(t, rune(blank), c.Grid[0][0])
	assert.Equal(t, -1, c.Level[0][0])
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(5, 1)
	c.DrawLine(0, 0, 9, 0)
	for col := 0; col < 5; col++ {
		assert.Equal(t, rune(0x2800|0x1|0x8), c.Grid[0][col])
	}
	assert.Len(t, strings.Split(strings.TrimRight(c.String(), "\n"), "\n"), 1)
}

func TestCoolWarmHex(t *testing.T) {
	hex := CoolWarmHex(3)
	assert.Equal(t, []string{coolColor, midColor, warmColor}, hex)
	assert.Len(t, CoolWarm(8), 8)
	assert.Nil(t, CoolWarm(0))
	assert.Equal(t, []string{midColor}, CoolWarmHex(1))
}

func TestBucket(t *testing.T) {
	got := Bucket([]float64{0, 0.5, 1, math.NaN(), 0.99}, 4)
	assert.Equal(t, []int{0, 2, 3, 0, 3}, got)

	assert.Equal(t, []int{0, 0}, Bucket([]float64{2, 2}, 4))
}

func TestNormalize(t *testing.T) {
	pts := Normalize([]oracle.Vec3{{1, 2, 3}, {3, 2, 4}})
	require.Len(t, pts, 2)
	assert.Equal(t, oracle.Vec3{-1, 0, -0.5}, pts[0])
	assert.Equal(t, oracle.Vec3{1, 0, 0.5}, pts[1])

	flat := Normalize([]oracle.Vec3{{5, 5, 5}, {5, 5, 5}})
	assert.Equal(t, oracle.Vec3{}, flat[0])
	assert.Nil(t, Normalize(nil))
}

func TestCameraProjectCentre(t *testing.T) {
	cam := NewCamera()
	x, y, _, ok := cam.Project(oracle.Vec3{}, 80, 40)
	assert.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, 20, y)
}

func TestCameraRotateAndZoom(t *testing.T) {
	cam := &Camera{Distance: 50, Near: 0.1, Zoom: 1}
	cam.RotateZ(math.Pi / 2)
	p := cam.RotatePoint(oracle.Vec3{1, 0, 0})
	assert.InDelta(t, 0, p[0], 1e-12)
	assert.InDelta(t, 1, p[1], 1e-12)

	cam.RotateX(0.25)
	cam.RotateY(-0.5)
	assert.InDelta(t, 0.25, cam.RotX, 1e-15)
	assert.InDelta(t, -0.5, cam.RotY, 1e-15)

	cam.ZoomBy(2)
	assert.InDelta(t, 1.44, cam.Zoom, 1e-12)
	cam.ZoomBy(-2)
	assert.InDelta(t, 1, cam.Zoom, 1e-12)
	cam.ZoomBy(100)
	assert.Equal(t, 10.0, cam.Zoom)
	cam.ZoomBy(-100)
	assert.Equal(t, 0.1, cam.Zoom)
}

func TestScatterOfTaskTrajectory(t *testing.T) {
	ts, err := oracle.NewTaskSpace(oracle.UnitScale, oracle.Vec3{1, 1, 1})
	require.NoError(t, err)

	n := 400
	points := make([]oracle.Vec3, n)
	speeds := make([]float64, n)
	for i := range points {
		tt := float64(i) * ts.Period() / float64(n)
		points[i] = ts.X(tt)
		speeds[i] = ts.XD(tt).Norm()
	}

	s := NewScatter(40, 20)
	c := s.Draw(points, speeds)

	dots, hot := 0, false
	for i := range c.Grid {
		for j := range c.Grid[i] {
			if c.Grid[i][j] != blank {
				dots++
			}
			if c.Level[i][j] == len(s.Palette)-1 {
				hot = true
			}
		}
	}
	assert.Greater(t, dots, 10)
	assert.True(t, hot, "fastest bucket never drawn")
	assert.NotEmpty(t, s.Render(points, speeds))
}

func TestPlotGroup(t *testing.T) {
	j, err := oracle.NewJointSpace(oracle.UnitScale, oracle.Vec3{})
	require.NoError(t, err)
	grid, err := sampling.Linspace(0, 10, 100)
	require.NoError(t, err)
	res, err := sampling.NewSampler(nil).Sample(t.Context(), []oracle.Channel{j.Channel()}, grid)
	require.NoError(t, err)

	g, err := res.Group("q_d")
	require.NoError(t, err)
	out := PlotGroup(res, g, 60, 8)
	assert.Contains(t, out, "q_d [rad/s]: q1_d, q2_d, q3_d")
}

func TestLegendAndSeparator(t *testing.T) {
	assert.Contains(t, Legend("speed", 0, 1.5, CoolWarm(4)), "speed")
	assert.NotEmpty(t, Separator(2))
}

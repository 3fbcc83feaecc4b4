package sampling

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLinspace(t *testing.T) {
	ts, err := Linspace(0, 10, 1000)
	require.NoError(t, err)
	assert.Len(t, ts, 1000)
	assert.Equal(t, 0.0, ts[0])
	assert.Equal(t, 10.0, ts[999])
	assert.InDelta(t, 10.0/999, ts[1], 1e-15)

	ts, err = Linspace(2, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, ts)

	ts, err = Linspace(1, -1, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, -1}, ts)
}

func TestLinspaceRejects(t *testing.T) {
	tests := []struct {
		name        string
		start, stop float64
		n           int
	}{
		{"zero samples", 0, 1, 0},
		{"negative samples", 0, 1, -4},
		{"nan start", math.NaN(), 1, 10},
		{"inf stop", 0, math.Inf(1), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Linspace(tt.start, tt.stop, tt.n)
			assert.ErrorIs(t, err, ErrBadGrid)
		})
	}
}

func TestSampleTaskSpace(t *testing.T) {
	ts, err := oracle.NewTaskSpace(oracle.UnitScale, oracle.Vec3{1, 1, 1})
	require.NoError(t, err)

	grid, err := Linspace(0, 10, 2000)
	require.NoError(t, err)

	res, err := NewSampler(nil).Sample(context.Background(), ts.Channels(), grid)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"x", "y", "z", "x_d", "y_d", "z_d", "x_dd", "y_dd", "z_dd",
		"theta", "theta_d", "theta_dd",
	}, res.Columns)
	require.Len(t, res.Rows, len(grid))
	require.Len(t, res.Groups, 6)

	for i, tm := range grid {
		row := res.Rows[i]
		require.Len(t, row, 12)
		assert.Equal(t, ts.X(tm).Slice(), row[0:3])
		assert.Equal(t, ts.XDD(tm).Slice(), row[6:9])
		assert.Equal(t, ts.ThetaD(tm), row[10])
	}

	g, err := res.Group("x_d")
	require.NoError(t, err)
	assert.Equal(t, Group{Name: "x_d", Units: "m/s", Order: 1, Offset: 3, Dim: 3}, g)

	norms := res.Norms(g)
	assert.InDelta(t, ts.XD(grid[17]).Norm(), norms[17], 1e-15)
	assert.Equal(t, res.Column(9), func() []float64 {
		out := make([]float64, len(grid))
		for i, tm := range grid {
			out[i] = ts.Theta(tm)
		}
		return out
	}())

	_, err = res.Group("nope")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestSampleErrors(t *testing.T) {
	s := NewSampler(nil)
	j, err := oracle.NewJointSpace(oracle.UnitScale, oracle.Vec3{})
	require.NoError(t, err)

	_, err = s.Sample(context.Background(), nil, []float64{0})
	assert.ErrorIs(t, err, ErrNoChannels)

	_, err = s.Sample(context.Background(), []oracle.Channel{j.Channel()}, nil)
	assert.ErrorIs(t, err, ErrBadGrid)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	grid, _ := Linspace(0, 1, 5000)
	_, err = s.Sample(ctx, []oracle.Channel{j.Channel()}, grid)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 255, 1000, 4099} {
		var count int64
		seen := make([]int32, n)
		err := ParallelFor(context.Background(), n, 16, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&seen[i], 1)
				atomic.AddInt64(&count, 1)
			}
		})
		require.NoError(t, err)
		assert.Equal(t, int64(n), count, "n=%d", n)
		for i, v := range seen {
			assert.Equal(t, int32(1), v, "index %d visited %d times", i, v)
		}
	}
}

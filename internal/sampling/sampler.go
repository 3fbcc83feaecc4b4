// Package sampling batch-evaluates oracle channels over a time grid.
package sampling

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

var (
	ErrBadGrid     = errors.New("sampling: invalid time grid")
	ErrNoChannels  = errors.New("sampling: no channels to sample")
	ErrUnknownName = errors.New("sampling: unknown column group")
)

var orderSuffix = [3]string{"", "_d", "_dd"}

// Group is a contiguous block of columns holding one derivative order of one
// channel, e.g. the velocities x_d, y_d, z_d.
type Group struct {
	Name   string `json:"name"`
	Units  string `json:"units"`
	Order  int    `json:"order"`
	Offset int    `json:"offset"`
	Dim    int    `json:"dim"`
}

// Result holds one row per time sample.
type Result struct {
	Times   []float64   `json:"times"`
	Columns []string    `json:"columns"`
	Groups  []Group     `json:"groups"`
	Rows    [][]float64 `json:"rows"`
}

// Linspace returns n evenly spaced samples over [start, stop], both
// endpoints included.
func Linspace(start, stop float64, n int) ([]float64, error) {
	if n < 1 || math.IsNaN(start) || math.IsNaN(stop) || math.IsInf(start, 0) || math.IsInf(stop, 0) {
		return nil, fmt.Errorf("%w: start=%v stop=%v n=%d", ErrBadGrid, start, stop, n)
	}
	ts := make([]float64, n)
	if n == 1 {
		ts[0] = start
		return ts, nil
	}
	step := (stop - start) / float64(n-1)
	for i := range ts {
		ts[i] = start + float64(i)*step
	}
	ts[n-1] = stop
	return ts, nil
}

type Sampler struct {
	logger   *zap.Logger
	minChunk int
}

// NewSampler returns a sampler; a nil logger discards log output.
func NewSampler(logger *zap.Logger) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{logger: logger, minChunk: 256}
}

// Sample evaluates position, velocity and acceleration of every channel at
// every time in ts. Rows are in the order of ts.
func (s *Sampler) Sample(ctx context.Context, channels []oracle.Channel, ts []float64) (*Result, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("%w: no samples", ErrBadGrid)
	}

	res := &Result{Times: append([]float64(nil), ts...)}
	width := 0
	for _, ch := range channels {
		for order := 0; order <= 2; order++ {
			res.Groups = append(res.Groups, Group{
				Name:   ch.Name + orderSuffix[order],
				Units:  unitsFor(ch.Units, order),
				Order:  order,
				Offset: width,
				Dim:    ch.Dim(),
			})
			for _, label := range ch.Labels {
				res.Columns = append(res.Columns, label+orderSuffix[order])
			}
			width += ch.Dim()
		}
	}

	start := time.Now()
	res.Rows = make([][]float64, len(ts))
	err := ParallelFor(ctx, len(ts), s.minChunk, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			row := make([]float64, 0, width)
			for _, ch := range channels {
				for order := 0; order <= 2; order++ {
					row = append(row, ch.Order(order)(ts[i])...)
				}
			}
			res.Rows[i] = row
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("sampled channels",
		zap.Int("channels", len(channels)),
		zap.Int("samples", len(ts)),
		zap.Int("columns", width),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func unitsFor(units string, order int) string {
	switch order {
	case 1:
		return units + "/s"
	case 2:
		return units + "/s^2"
	default:
		return units
	}
}

// Group looks up a column group by name, e.g. "q_d".
func (r *Result) Group(name string) (Group, error) {
	for _, g := range r.Groups {
		if g.Name == name {
			return g, nil
		}
	}
	return Group{}, fmt.Errorf("%w: %s", ErrUnknownName, name)
}

// Column returns column idx across all rows.
func (r *Result) Column(idx int) []float64 {
	out := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Vectors returns the group's components per row.
func (r *Result) Vectors(g Group) [][]float64 {
	out := make([][]float64, len(r.Rows))
	for i, row := range r.Rows {
		if g.Offset+g.Dim <= len(row) {
			out[i] = row[g.Offset : g.Offset+g.Dim]
		}
	}
	return out
}

// Norms returns the Euclidean norm of the group per row.
func (r *Result) Norms(g Group) []float64 {
	out := make([]float64, len(r.Rows))
	for i, v := range r.Vectors(g) {
		sum := 0.0
		for _, x := range v {
			sum += x * x
		}
		out[i] = math.Sqrt(sum)
	}
	return out
}

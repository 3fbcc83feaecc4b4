package metrics

import (
	"math"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/harmonic"
	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

// DerivativeResidual tracks the largest gap between the analytic derivative
// of the given order and the central difference of the order below it.
// eps is a step in phase units: the time step is eps*Period/2pi. The gap is
// divided by max(1, bound of the order).
type DerivativeResidual struct {
	name     string
	ch       oracle.Channel
	order    int
	step     float64
	norm     float64
	maxError float64
}

func NewDerivativeResidual(ch oracle.Channel, order int, eps float64) *DerivativeResidual {
	if order < 1 {
		order = 1
	}
	if order > 2 {
		order = 2
	}
	step := eps
	if ch.Period > 0 {
		step = eps * ch.Period / harmonic.BasePeriod
	}
	return &DerivativeResidual{
		name:  ch.Name + "_" + orderNames[order] + "_residual",
		ch:    ch,
		order: order,
		step:  step,
		norm:  normFor(ch, order),
	}
}

// Step returns the time step of the central difference.
func (d *DerivativeResidual) Step() float64 { return d.step }

func normFor(ch oracle.Channel, order int) float64 {
	m := ch.Magnitude(order)
	if !(m > 1) {
		return 1
	}
	return m
}

func (d *DerivativeResidual) Name() string { return d.name }

func (d *DerivativeResidual) Observe(t float64) {
	lower := d.ch.Order(d.order - 1)
	hi, lo := lower(t+d.step), lower(t-d.step)
	diff := make([]float64, len(hi))
	for i := range hi {
		diff[i] = (hi[i] - lo[i]) / (2 * d.step)
	}
	d.maxError = math.Max(d.maxError, maxAbsDiff(diff, d.ch.Order(d.order)(t))/d.norm)
}

func (d *DerivativeResidual) Value() float64 { return d.maxError }

func (d *DerivativeResidual) Reset() {
	d.maxError = 0
}

// PeriodicityResidual tracks the largest |f(t+T) - f(t)| for one order,
// divided by max(1, bound of the order).
type PeriodicityResidual struct {
	name     string
	ch       oracle.Channel
	order    int
	norm     float64
	maxError float64
}

func NewPeriodicityResidual(ch oracle.Channel, order int) *PeriodicityResidual {
	if order < 0 || order > 2 {
		order = 0
	}
	return &PeriodicityResidual{
		name:  ch.Name + "_" + orderNames[order] + "_period_residual",
		ch:    ch,
		order: order,
		norm:  normFor(ch, order),
	}
}

func (p *PeriodicityResidual) Name() string { return p.name }

func (p *PeriodicityResidual) Observe(t float64) {
	f := p.ch.Order(p.order)
	p.maxError = math.Max(p.maxError, maxAbsDiff(f(t+p.ch.Period), f(t))/p.norm)
}

func (p *PeriodicityResidual) Value() float64 { return p.maxError }
func (p *PeriodicityResidual) Reset()         { p.maxError = 0 }

// Peak tracks the largest Euclidean norm of one order, e.g. peak speed.
type Peak struct {
	name  string
	ch    oracle.Channel
	order int
	peak  float64
}

func NewPeak(ch oracle.Channel, order int) *Peak {
	if order < 0 || order > 2 {
		order = 0
	}
	return &Peak{name: ch.Name + "_" + orderNames[order] + "_peak", ch: ch, order: order}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(t float64) {
	sum := 0.0
	for _, v := range p.ch.Order(p.order)(t) {
		sum += v * v
	}
	p.peak = math.Max(p.peak, math.Sqrt(sum))
}

func (p *Peak) Value() float64 { return p.peak }
func (p *Peak) Reset()         { p.peak = 0 }

// OffsetResidual compares a channel built with an offset against the same
// channel without one: position must differ by exactly the offset and the
// derivatives must not differ at all.
type OffsetResidual struct {
	plain, shifted oracle.Channel
	offset         []float64
	maxError       float64
}

func NewOffsetResidual(plain, shifted oracle.Channel, offset []float64) *OffsetResidual {
	return &OffsetResidual{plain: plain, shifted: shifted, offset: offset}
}

func (o *OffsetResidual) Name() string { return o.plain.Name + "_offset_residual" }

func (o *OffsetResidual) Observe(t float64) {
	p := o.plain.Position(t)
	for i := range p {
		if i < len(o.offset) {
			p[i] += o.offset[i]
		}
	}
	o.maxError = math.Max(o.maxError, maxAbsDiff(p, o.shifted.Position(t)))
	o.maxError = math.Max(o.maxError, maxAbsDiff(o.plain.Velocity(t), o.shifted.Velocity(t)))
	o.maxError = math.Max(o.maxError, maxAbsDiff(o.plain.Acceleration(t), o.shifted.Acceleration(t)))
}

func (o *OffsetResidual) Value() float64 { return o.maxError }
func (o *OffsetResidual) Reset()         { o.maxError = 0 }

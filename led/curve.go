package led

import (
	"math"
)

// Curve maps a phase in [0,1] to an eased sample in [0,1]. Ported from
// original_source/frontbox/src/led/curve.rs.
type Curve interface {
	Sample(phase float64) float64
}

func clampPhase(phase float64) float64 {
	return math.Max(0, math.Min(1, phase))
}

type linearCurve struct{}

func (linearCurve) Sample(phase float64) float64 { return clampPhase(phase) }

// Linear is the identity curve.
var Linear Curve = linearCurve{}

type constantCurve struct{ value float64 }

// Constant always samples to value, ignoring phase.
func Constant(value float64) Curve { return constantCurve{value} }

func (c constantCurve) Sample(float64) float64 { return c.value }

type quadraticInCurve struct{}

func (quadraticInCurve) Sample(phase float64) float64 {
	p := clampPhase(phase)
	return p * p
}

var QuadraticIn Curve = quadraticInCurve{}

type quadraticOutCurve struct{}

func (quadraticOutCurve) Sample(phase float64) float64 {
	p := clampPhase(phase)
	return 1 - (1-p)*(1-p)
}

var QuadraticOut Curve = quadraticOutCurve{}

type quadraticInOutCurve struct{}

func (quadraticInOutCurve) Sample(phase float64) float64 {
	p := clampPhase(phase)
	if p < 0.5 {
		return 2 * p * p
	}
	v := -2*p + 2
	return 1 - v*v/2
}

var QuadraticInOut Curve = quadraticInOutCurve{}

type exponentialInCurve struct{}

func (exponentialInCurve) Sample(phase float64) float64 {
	p := clampPhase(phase)
	if p == 0 {
		return 0
	}
	return math.Pow(2, 10*p-10)
}

var ExponentialIn Curve = exponentialInCurve{}

type exponentialOutCurve struct{}

func (exponentialOutCurve) Sample(phase float64) float64 {
	p := clampPhase(phase)
	if p == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*p)
}

var ExponentialOut Curve = exponentialOutCurve{}

type exponentialInOutCurve struct{}

func (exponentialInOutCurve) Sample(phase float64) float64 {
	p := clampPhase(phase)
	switch {
	case p == 0:
		return 0
	case p == 1:
		return 1
	case p < 0.5:
		return math.Pow(2, 20*p-10) / 2
	default:
		return (2 - math.Pow(2, -20*p+10)) / 2
	}
}

var ExponentialInOut Curve = exponentialInOutCurve{}

type sinusoidCurve struct{}

func (sinusoidCurve) Sample(phase float64) float64 {
	p := clampPhase(phase)
	return 1 - (math.Cos(p*2*math.Pi)+1)/2
}

var Sinusoid Curve = sinusoidCurve{}

type stepsCurve struct{ n int }

// Steps rounds the phase to the nearest multiple of 1/n, giving n+1
// discrete levels from 0 to 1.
func Steps(n int) Curve { return stepsCurve{n} }

func (c stepsCurve) Sample(phase float64) float64 {
	p := clampPhase(phase)
	denom := c.n
	if denom < 1 {
		denom = 1
	}
	return math.Round(p*float64(c.n)) / float64(denom)
}

type reverseCurve struct{ inner Curve }

// Reverse samples 1 - inner.Sample(phase).
func Reverse(inner Curve) Curve { return reverseCurve{inner} }

func (c reverseCurve) Sample(phase float64) float64 {
	return 1 - c.inner.Sample(phase)
}

type remapCurve struct{ a, b Curve }

// Remap samples a.Sample(phase) * b.Sample(phase).
func Remap(a, b Curve) Curve { return remapCurve{a, b} }

func (c remapCurve) Sample(phase float64) float64 {
	return c.a.Sample(phase) * c.b.Sample(phase)
}

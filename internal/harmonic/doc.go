// Package harmonic builds smooth periodic signals from a small table of
// sinusoidal terms together with their exact time derivatives.
//
// A [Series] is the unscaled base waveform
//
//	g(t) = Mean + sum_k A_k * sin(n_k*t + phi_k)
//
// with integer frequency ratios n_k, so g has period 2*pi. [Compose] applies
// a spatial scale sf and a temporal scale sw:
//
//	f(t) = sf * g(sw*t)
//
// and every derivative order is obtained term by term with the chain rule:
//
//	f^(k)(t) = sf * sum_k A_k * (n_k*sw)^k * sin(n_k*sw*t + phi_k + k*pi/2)
//
// # Example
//
//	s := harmonic.Series{Terms: []harmonic.Term{{Amplitude: 1, Ratio: 1}}}
//	sig, _ := harmonic.Compose(s, 2.0, 0.5)
//	sig.Position(1.0)     // 2*sin(0.5)
//	sig.Velocity(1.0)     // 2*0.5*cos(0.5)
//	sig.Acceleration(1.0) // -2*0.25*sin(0.5)
//
// # Thread Safety
//
// [Signal] is an immutable value; all methods are safe for concurrent use.
package harmonic

package oracle

import (
	"math"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/harmonic"
)

// JointGait is one waveform per joint, q1 to q3.
type JointGait [3]harmonic.Series

// CorneliaGait drives the three flipper joints of the Cornelia turtle robot:
// q1 sweeps the flipper fore and aft, q2 lifts it a quarter cycle ahead of
// the sweep, q3 feathers it half a cycle behind.
var CorneliaGait = JointGait{
	{
		Terms: []harmonic.Term{
			{Amplitude: 0.9, Ratio: 1, Phase: 0},
			{Amplitude: 0.2, Ratio: 2, Phase: math.Pi / 2},
		},
	},
	{
		Mean: 0.1,
		Terms: []harmonic.Term{
			{Amplitude: 0.5, Ratio: 1, Phase: math.Pi / 2},
			{Amplitude: 0.1, Ratio: 3, Phase: 0},
		},
	},
	{
		Terms: []harmonic.Term{
			{Amplitude: 0.6, Ratio: 1, Phase: math.Pi},
			{Amplitude: 0.15, Ratio: 2, Phase: -math.Pi / 2},
		},
	},
}

// Stroke is the flipper path, one waveform per Cartesian axis, plus the
// twist angle about the flipper's long axis.
type Stroke struct {
	Position [3]harmonic.Series
	Twist    harmonic.Series
}

// GreenSeaTurtleStroke is a figure-eight power and recovery stroke: x holds
// the fundamental, z the second harmonic, and the twist leads the sweep by
// a quarter cycle so the flipper pitches into the power stroke.
var GreenSeaTurtleStroke = Stroke{
	Position: [3]harmonic.Series{
		{
			Terms: []harmonic.Term{
				{Amplitude: 0.25, Ratio: 1, Phase: 0},
				{Amplitude: 0.03, Ratio: 3, Phase: math.Pi / 2},
			},
		},
		{
			Mean: -0.05,
			Terms: []harmonic.Term{
				{Amplitude: 0.08, Ratio: 1, Phase: math.Pi / 2},
			},
		},
		{
			Terms: []harmonic.Term{
				{Amplitude: 0.12, Ratio: 2, Phase: 0},
				{Amplitude: 0.02, Ratio: 1, Phase: math.Pi / 2},
			},
		},
	},
	Twist: harmonic.Series{
		Terms: []harmonic.Term{
			{Amplitude: 0.7, Ratio: 1, Phase: math.Pi / 2},
			{Amplitude: 0.1, Ratio: 2, Phase: 0},
		},
	},
}

package metrics

import (
	"math"
	"time"

	"github.com/swdee/go-golfswing/phase"
)

// Stale flags metrics that could not be computed for a frame and hold
// their last known good value instead
type Stale uint8

const (
	StaleSeparation Stale = 1 << iota
	StaleWeightShift
	StaleGroundForce
	StaleBalance
	StaleVelocity
)

// Has reports whether all flags in m are set
func (s Stale) Has(m Stale) bool {
	return s&m == m
}

// Defaults reported before the first successful computation of a metric
const (
	DefaultSeparation  = 0.0
	DefaultWeightShift = 0.5
	DefaultGroundForce = 0.0
)

// DefaultBalance assumes a balanced stance until the feet are seen
var DefaultBalance = Balance{Score: 1, Inside: true}

// Snapshot is the metric set computed for one frame.  It is a value type
// holding no references so it can be shared freely once returned.
type Snapshot struct {
	Seq       uint64        `msgpack:"seq" json:"seq"`
	Timestamp time.Duration `msgpack:"ts" json:"timestamp"`
	Phase     phase.Phase   `msgpack:"phase" json:"phase"`
	// ShoulderAngle and HipAngle are the line rotations in degrees
	ShoulderAngle float64 `msgpack:"shoulder_angle" json:"shoulder_angle"`
	HipAngle      float64 `msgpack:"hip_angle" json:"hip_angle"`
	// Separation is the smoothed shoulder to hip separation in degrees
	Separation float64 `msgpack:"separation" json:"separation"`
	// PeakSeparation is the largest separation since address
	PeakSeparation float64 `msgpack:"peak_separation" json:"peak_separation"`
	// WristSpeed is the lead wrist speed in normalized units per second
	WristSpeed  float64     `msgpack:"wrist_speed" json:"wrist_speed"`
	Sequence    Sequence    `msgpack:"sequence" json:"sequence"`
	Power       Power       `msgpack:"power" json:"power"`
	WeightShift float64     `msgpack:"weight_shift" json:"weight_shift"`
	GroundForce float64     `msgpack:"ground_force" json:"ground_force"`
	Balance     Balance     `msgpack:"balance" json:"balance"`
	// EnergyTransfer in [0,1] combines sequence efficiency with the club
	// to pelvis velocity gain
	EnergyTransfer float64     `msgpack:"energy_transfer" json:"energy_transfer"`
	Consistency    Consistency `msgpack:"consistency" json:"consistency"`
	Timing         Timing      `msgpack:"timing" json:"timing"`
	// Composite is the overall swing score from 0 to 100
	Composite float64 `msgpack:"composite" json:"composite"`
	Stale     Stale   `msgpack:"stale" json:"stale"`
}

// composite weights
const (
	weightSeparation  = 0.20
	weightSequence    = 0.25
	weightEnergy      = 0.15
	weightBalance     = 0.15
	weightTempo       = 0.15
	weightConsistency = 0.10
)

// compositeScore combines the available metrics into a 0 to 100 score,
// metrics not yet available are left out of the weighting
func compositeScore(s *Snapshot, cfg Config) float64 {

	var sum, weights float64

	add := func(w, v float64) {
		sum += w * clamp(v, 0, 1)
		weights += w
	}

	if s.PeakSeparation > 0 {
		add(weightSeparation, s.PeakSeparation/cfg.TargetSeparation)
	}

	if s.Sequence.Valid {
		add(weightSequence, s.Sequence.Efficiency)
		add(weightEnergy, s.EnergyTransfer)
	}

	add(weightBalance, s.Balance.Score)

	if s.Timing.TempoValid {
		add(weightTempo, 1-math.Abs(s.Timing.Tempo-cfg.TargetTempo)/cfg.TargetTempo)
	}

	if s.Consistency.Valid {
		add(weightConsistency, s.Consistency.Score)
	}

	if weights == 0 {
		return 0
	}

	return 100 * sum / weights
}

// energyTransfer scores how much of the pelvis rotation speed is amplified
// into the club
func energyTransfer(seq Sequence, idealGain float64) float64 {

	pelvis := seq.PeakVelocity[Pelvis]

	if !seq.Valid || pelvis <= 0 {
		return 0
	}

	gain := seq.PeakVelocity[Club] / pelvis

	return seq.Efficiency * clamp(gain/idealGain, 0, 1)
}

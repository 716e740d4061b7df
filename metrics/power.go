package metrics

import (
	"math"

	"github.com/swdee/go-golfswing/phase"
	"gonum.org/v1/gonum/floats"
)

// segmentMass is the fraction of body mass moved by each segment, the club
// segment covers the hands plus an allowance for the club itself
var segmentMass = [NumSegments]float64{
	Pelvis:   0.142,
	Torso:    0.355,
	LeadArm:  0.050,
	TrailArm: 0.050,
	Club:     0.020,
}

// Power is a relative power index, not a physical unit.  It scales
// linearly with segment angular velocity.
type Power struct {
	// Current is the index for the latest frame
	Current float64 `msgpack:"current" json:"current"`
	// ByPhase is the peak index reached in each phase of the current swing
	ByPhase [phase.NumPhases]float64 `msgpack:"by_phase" json:"by_phase"`
	// Total is the sum of ByPhase
	Total float64 `msgpack:"total" json:"total"`
}

// segmentPower combines angular velocities in degrees per second with the
// segment mass distribution and lengths into a single index
func segmentPower(bodyMass float64, vel [NumSegments]float64, ok [NumSegments]bool, length [NumSegments]float64) float64 {

	var terms [NumSegments]float64

	for i := 0; i < NumSegments; i++ {
		if !ok[i] || !finite(vel[i]) || !finite(length[i]) {
			continue
		}

		rad := vel[i] * math.Pi / 180
		terms[i] = bodyMass * segmentMass[i] * rad * length[i]
	}

	return floats.Sum(terms[:])
}

// record adds a frame's power to the breakdown for the phase it occurred in
func (p *Power) record(ph phase.Phase, v float64) {

	p.Current = v

	if ph < 0 || ph >= phase.NumPhases {
		return
	}

	if v > p.ByPhase[ph] {
		p.ByPhase[ph] = v
	}

	p.Total = floats.Sum(p.ByPhase[:])
}

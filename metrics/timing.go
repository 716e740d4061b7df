package metrics

import (
	"time"

	"github.com/swdee/go-golfswing/phase"
)

// Timing is the duration of each phase of the current swing
type Timing struct {
	Durations [phase.NumPhases]time.Duration `msgpack:"durations" json:"durations"`
	// Tempo is the backswing to downswing duration ratio, takeaway to
	// transition over transition to impact
	Tempo      float64 `msgpack:"tempo" json:"tempo"`
	TempoValid bool    `msgpack:"tempo_valid" json:"tempo_valid"`
}

// frameDuration converts a frame count to a duration at the capture rate
func frameDuration(frames uint64, frameRate float64) time.Duration {
	return time.Duration(float64(frames) / frameRate * float64(time.Second))
}

// TimingOf measures the phases in cycle, the transitions of one swing in
// order.  The last phase is measured up to seq.
func TimingOf(cycle []phase.Entry, seq uint64, frameRate float64) Timing {

	var t Timing

	if frameRate <= 0 || len(cycle) == 0 {
		return t
	}

	var entered [phase.NumPhases]uint64
	var seen [phase.NumPhases]bool

	for i, e := range cycle {
		end := seq

		if i+1 < len(cycle) {
			end = cycle[i+1].Seq
		}

		if end < e.Seq || e.Phase < 0 || e.Phase >= phase.NumPhases {
			continue
		}

		t.Durations[e.Phase] += frameDuration(end-e.Seq, frameRate)

		if !seen[e.Phase] {
			entered[e.Phase] = e.Seq
			seen[e.Phase] = true
		}
	}

	if !seen[phase.Transition] || !seen[phase.Impact] {
		return t
	}

	// a swing detected straight into backswing has no takeaway entry
	start, ok := entered[phase.Takeaway], seen[phase.Takeaway]

	if !ok {
		start, ok = entered[phase.Backswing], seen[phase.Backswing]
	}

	if !ok {
		return t
	}

	back := float64(entered[phase.Transition]) - float64(start)
	down := float64(entered[phase.Impact]) - float64(entered[phase.Transition])

	if back > 0 && down > 0 {
		t.Tempo = back / down
		t.TempoValid = true
	}

	return t
}

package benchmark

import (
	"math"

	"github.com/swdee/go-golfswing/metrics"
)

// Metric is a snapshot value scored against a reference band
type Metric int

const (
	PeakSeparation Metric = iota
	SequenceEfficiency
	Tempo
	EnergyTransfer
	Balance
	Consistency

	// NumMetrics is the number of benchmarked metrics
	NumMetrics = 6
)

var metricNames = [NumMetrics]string{
	"peak_separation",
	"sequence_efficiency",
	"tempo",
	"energy_transfer",
	"balance",
	"consistency",
}

// String returns the metric name
func (m Metric) String() string {
	if m < 0 || m >= NumMetrics {
		return "unknown"
	}

	return metricNames[m]
}

// weights combine the metric scores into the overall score
var weights = [NumMetrics]float64{
	PeakSeparation:     0.20,
	SequenceEfficiency: 0.25,
	Tempo:              0.15,
	EnergyTransfer:     0.15,
	Balance:            0.15,
	Consistency:        0.10,
}

// Band is the ideal range of a metric
type Band struct {
	Low  float64 `msgpack:"low" json:"low"`
	High float64 `msgpack:"high" json:"high"`
}

// Contains reports whether v is within the band
func (b Band) Contains(v float64) bool {
	return v >= b.Low && v <= b.High
}

// Score returns 1 inside the band falling linearly to 0 one band width
// outside it
func (b Band) Score(v float64) float64 {

	if math.IsNaN(v) {
		return 0
	}

	if b.Contains(v) {
		return 1
	}

	width := math.Max(b.High-b.Low, 1e-9)

	return math.Max(0, 1-math.Abs(b.Delta(v))/width)
}

// Delta returns the change needed to bring v into the band, positive when
// v must increase and 0 when already inside
func (b Band) Delta(v float64) float64 {
	switch {
	case v < b.Low:
		return b.Low - v
	case v > b.High:
		return b.High - v
	}

	return 0
}

// Comparison is the result of benchmarking one snapshot
type Comparison struct {
	Skill SkillLevel `msgpack:"skill" json:"skill"`
	Club  Club       `msgpack:"club" json:"club"`
	// Overall is the weighted score from 0 to 10
	Overall float64 `msgpack:"overall" json:"overall"`
	// Scores are the per metric scores in [0,1]
	Scores [NumMetrics]float64 `msgpack:"scores" json:"scores"`
	// Deltas are the improvements needed to reach each band
	Deltas [NumMetrics]float64 `msgpack:"deltas" json:"deltas"`
	// Available marks metrics the snapshot had a value for, unavailable
	// metrics are left out of the overall score
	Available [NumMetrics]bool `msgpack:"available" json:"available"`
}

// values extracts the benchmarked metrics from a snapshot
func values(s metrics.Snapshot) (v [NumMetrics]float64, ok [NumMetrics]bool) {

	v[PeakSeparation], ok[PeakSeparation] = s.PeakSeparation, s.PeakSeparation > 0
	v[SequenceEfficiency], ok[SequenceEfficiency] = s.Sequence.Efficiency, s.Sequence.Valid
	v[Tempo], ok[Tempo] = s.Timing.Tempo, s.Timing.TempoValid
	v[EnergyTransfer], ok[EnergyTransfer] = s.EnergyTransfer, s.Sequence.Valid
	v[Balance], ok[Balance] = s.Balance.Score, true
	v[Consistency], ok[Consistency] = s.Consistency.Score, s.Consistency.Valid

	return v, ok
}

// Compare scores a snapshot against the reference bands for the skill
// level and club.  It has no side effects.
func Compare(s metrics.Snapshot, skill SkillLevel, club Club) Comparison {

	res := Comparison{Skill: skill, Club: club}

	vals, ok := values(s)

	var sum, total float64

	for m := Metric(0); m < NumMetrics; m++ {
		if !ok[m] {
			continue
		}

		band := Reference(m, skill, club)

		res.Available[m] = true
		res.Scores[m] = band.Score(vals[m])
		res.Deltas[m] = band.Delta(vals[m])

		sum += weights[m] * res.Scores[m]
		total += weights[m]
	}

	if total > 0 {
		res.Overall = 10 * sum / total
	}

	return res
}

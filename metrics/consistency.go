package metrics

import (
	"math"
	"time"

	"github.com/swdee/go-golfswing/smoothing"
	"gonum.org/v1/gonum/stat"
)

// SwingSummary holds the values of one completed swing used to judge
// consistency across swings
type SwingSummary struct {
	Seq                uint64        `msgpack:"seq" json:"seq"`
	PeakSeparation     float64       `msgpack:"peak_separation" json:"peak_separation"`
	Tempo              float64       `msgpack:"tempo" json:"tempo"`
	SequenceEfficiency float64       `msgpack:"sequence_efficiency" json:"sequence_efficiency"`
	TotalPower         float64       `msgpack:"total_power" json:"total_power"`
	Backswing          time.Duration `msgpack:"backswing" json:"backswing"`
	Composite          float64       `msgpack:"composite" json:"composite"`
}

// values returns the tracked metrics of the summary
func (s SwingSummary) values() []float64 {
	return []float64{
		s.PeakSeparation,
		s.Tempo,
		s.SequenceEfficiency,
		s.TotalPower,
		s.Backswing.Seconds(),
	}
}

// Consistency scores how repeatable recent swings are
type Consistency struct {
	// Score is in [0,1], 1 when every tracked metric is identical across
	// the compared swings
	Score float64 `msgpack:"score" json:"score"`
	// Trend compares the latest scores to older ones
	Trend smoothing.Trend `msgpack:"trend" json:"trend"`
	// Swings is the number of swings the score was computed over
	Swings int `msgpack:"swings" json:"swings"`
	// Valid is false until at least two swings have completed
	Valid bool `msgpack:"valid" json:"valid"`
}

// ConsistencyScore returns the consistency of the given swings.  Each
// tracked metric scores 1 minus its coefficient of variation scaled by
// tolerance, clamped to [0,1], and the scores are averaged.
func ConsistencyScore(swings []SwingSummary, tolerance float64) (float64, bool) {

	if len(swings) < 2 || tolerance <= 0 {
		return 0, false
	}

	n := len(swings[0].values())
	column := make([]float64, len(swings))
	scores := make([]float64, 0, n)

	for m := 0; m < n; m++ {
		for i, s := range swings {
			column[i] = s.values()[m]
		}

		mean, std := stat.MeanStdDev(column, nil)

		if !finite(mean) || !finite(std) {
			continue
		}

		if math.Abs(mean) < 1e-9 {
			// metric absent in every swing carries no information
			if std < 1e-9 {
				continue
			}
			scores = append(scores, 0)
			continue
		}

		cv := std / math.Abs(mean)
		scores = append(scores, 1-math.Min(1, cv/tolerance))
	}

	if len(scores) == 0 {
		return 0, false
	}

	return stat.Mean(scores, nil), true
}

// consistencyTrend compares the mean of the most recent scores to the mean
// of the older ones, differences within band are Stable
func consistencyTrend(scores *smoothing.Series, recent int, band float64) smoothing.Trend {

	vals := scores.Values(scores.Len())

	if len(vals) < recent+1 {
		return smoothing.Stable
	}

	split := len(vals) - recent
	diff := stat.Mean(vals[split:], nil) - stat.Mean(vals[:split], nil)

	switch {
	case diff > band:
		return smoothing.Rising
	case diff < -band:
		return smoothing.Falling
	}

	return smoothing.Stable
}

package overlay

import (
	"fmt"

	golfswing "github.com/swdee/go-golfswing"
)

// Lines returns the heads up display text for a result.  Metrics that are
// not available yet are left out.
func Lines(res golfswing.Result) []string {

	m := res.Metrics

	lines := []string{
		fmt.Sprintf("Phase: %s", res.Phase),
		fmt.Sprintf("X-Factor: %.1f° (peak %.1f°)", m.Separation, m.PeakSeparation),
	}

	if m.Timing.TempoValid {
		lines = append(lines, fmt.Sprintf("Tempo: %.1f:1", m.Timing.Tempo))
	}

	if m.Sequence.Valid {
		seq := "optimal"

		if !m.Sequence.Optimal {
			seq = "out of order"
		}

		lines = append(lines, fmt.Sprintf("Sequence: %.0f%% %s", m.Sequence.Efficiency*100, seq))
	}

	lines = append(lines,
		fmt.Sprintf("Weight: %.0f%% lead", m.WeightShift*100),
		fmt.Sprintf("Balance: %.2f", m.Balance.Score),
	)

	if m.Consistency.Valid {
		lines = append(lines, fmt.Sprintf("Consistency: %.0f%% %s (%d swings)",
			m.Consistency.Score*100, m.Consistency.Trend, m.Consistency.Swings))
	}

	lines = append(lines, fmt.Sprintf("Score: %.0f  %.1f/10 vs %s %s",
		m.Composite, res.Comparison.Overall, res.Comparison.Skill, res.Comparison.Club))

	return lines
}

package benchmark

import (
	"math"
	"testing"

	"github.com/swdee/go-golfswing/metrics"
)

// proSnapshot returns a snapshot inside every professional driver band
func proSnapshot() metrics.Snapshot {

	var s metrics.Snapshot

	s.PeakSeparation = 47
	s.Sequence.Valid = true
	s.Sequence.Efficiency = 1
	s.EnergyTransfer = 0.9
	s.Balance.Score = 0.95
	s.Timing.Tempo = 3
	s.Timing.TempoValid = true
	s.Consistency.Valid = true
	s.Consistency.Score = 0.95

	return s
}

func TestBandScore(t *testing.T) {

	b := Band{Low: 40, High: 50}

	tests := []struct {
		v     float64
		score float64
		delta float64
	}{
		{45, 1, 0},
		{40, 1, 0},
		{35, 0.5, 5},
		{55, 0.5, -5},
		{70, 0, -20},
	}

	for _, tc := range tests {
		if got := b.Score(tc.v); math.Abs(got-tc.score) > 1e-12 {
			t.Errorf("score(%v): expected %v, got %v", tc.v, tc.score, got)
		}

		if got := b.Delta(tc.v); got != tc.delta {
			t.Errorf("delta(%v): expected %v, got %v", tc.v, tc.delta, got)
		}
	}

	if b.Score(math.NaN()) != 0 {
		t.Errorf("expected NaN to score 0")
	}
}

func TestCompareProfessional(t *testing.T) {

	res := Compare(proSnapshot(), Professional, Driver)

	if math.Abs(res.Overall-10) > 1e-9 {
		t.Errorf("expected perfect score, got %v", res.Overall)
	}

	for m := Metric(0); m < NumMetrics; m++ {
		if !res.Available[m] || res.Deltas[m] != 0 {
			t.Errorf("%s: expected available with no delta, got %v", m, res.Deltas[m])
		}
	}

	// deterministic
	if again := Compare(proSnapshot(), Professional, Driver); again != res {
		t.Errorf("repeated comparison differs")
	}
}

func TestCompareSkillLevels(t *testing.T) {

	s := proSnapshot()
	s.PeakSeparation = 30
	s.Sequence.Efficiency = 0.7

	beginner := Compare(s, Beginner, Driver)
	pro := Compare(s, Professional, Driver)

	if beginner.Overall <= pro.Overall {
		t.Errorf("expected the same swing to score higher against beginner bands, %v <= %v",
			beginner.Overall, pro.Overall)
	}

	if pro.Deltas[PeakSeparation] != 10 {
		t.Errorf("expected 10 degrees more separation needed, got %v", pro.Deltas[PeakSeparation])
	}

	if pro.Overall < 0 || pro.Overall > 10 {
		t.Errorf("overall out of range: %v", pro.Overall)
	}
}

func TestCompareUnavailable(t *testing.T) {

	var s metrics.Snapshot
	s.Balance.Score = 1

	res := Compare(s, Intermediate, Iron)

	if res.Available[SequenceEfficiency] || res.Available[Tempo] || res.Available[Consistency] {
		t.Errorf("expected missing metrics to be unavailable: %+v", res.Available)
	}

	// only balance is scored
	if math.Abs(res.Overall-10) > 1e-9 {
		t.Errorf("expected overall from balance alone, got %v", res.Overall)
	}
}

func TestReferenceClubOffsets(t *testing.T) {

	driver := Reference(PeakSeparation, Professional, Driver)
	wedge := Reference(PeakSeparation, Professional, Wedge)

	if wedge.High >= driver.High {
		t.Errorf("expected wedge separation band below driver, %v >= %v", wedge, driver)
	}

	if Reference(Balance, Advanced, Wedge) != Reference(Balance, Advanced, Driver) {
		t.Errorf("balance band should not depend on club")
	}

	if Reference(Tempo, SkillLevel(99), Club(-1)) != Reference(Tempo, Beginner, Driver) {
		t.Errorf("expected fallback band for out of range inputs")
	}
}

func TestParse(t *testing.T) {

	if s, err := ParseSkillLevel("Pro"); err != nil || s != Professional {
		t.Errorf("expected professional, got %v %v", s, err)
	}

	if c, err := ParseClub(" wedge "); err != nil || c != Wedge {
		t.Errorf("expected wedge, got %v %v", c, err)
	}

	if _, err := ParseClub("putter"); err == nil {
		t.Errorf("expected error for unknown club")
	}

	var s SkillLevel

	if err := s.UnmarshalText([]byte("advanced")); err != nil || s != Advanced {
		t.Errorf("expected advanced, got %v %v", s, err)
	}
}

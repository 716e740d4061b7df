package benchmark

// base bands per metric and skill level for a driver
var baseBands = [NumMetrics][numSkills]Band{
	PeakSeparation: {
		Beginner:     {20, 40},
		Intermediate: {28, 45},
		Advanced:     {35, 50},
		Professional: {40, 55},
	},
	SequenceEfficiency: {
		Beginner:     {0.50, 1},
		Intermediate: {0.66, 1},
		Advanced:     {0.83, 1},
		Professional: {0.95, 1},
	},
	Tempo: {
		Beginner:     {2.0, 4.0},
		Intermediate: {2.3, 3.7},
		Advanced:     {2.6, 3.4},
		Professional: {2.8, 3.2},
	},
	EnergyTransfer: {
		Beginner:     {0.35, 1},
		Intermediate: {0.50, 1},
		Advanced:     {0.65, 1},
		Professional: {0.80, 1},
	},
	Balance: {
		Beginner:     {0.5, 1},
		Intermediate: {0.6, 1},
		Advanced:     {0.7, 1},
		Professional: {0.8, 1},
	},
	Consistency: {
		Beginner:     {0.50, 1},
		Intermediate: {0.65, 1},
		Advanced:     {0.80, 1},
		Professional: {0.90, 1},
	},
}

// separationOffset shortens the separation band for shorter clubs, which
// are swung with less turn
var separationOffset = [numClubs]float64{
	Driver: 0,
	Wood:   -2,
	Iron:   -5,
	Wedge:  -10,
}

// tempoOffset shifts the tempo band for clubs with a shorter backswing
var tempoOffset = [numClubs]float64{
	Driver: 0,
	Wood:   0,
	Iron:   -0.1,
	Wedge:  -0.3,
}

// bands is the full lookup table keyed by metric, skill level and club
var bands = buildBands()

func buildBands() (t [NumMetrics][numSkills][numClubs]Band) {

	for m := 0; m < NumMetrics; m++ {
		for s := 0; s < numSkills; s++ {
			for c := 0; c < numClubs; c++ {
				b := baseBands[m][s]

				switch Metric(m) {
				case PeakSeparation:
					b.Low += separationOffset[c]
					b.High += separationOffset[c]
				case Tempo:
					b.Low += tempoOffset[c]
					b.High += tempoOffset[c]
				}

				t[m][s][c] = b
			}
		}
	}

	return t
}

// Reference returns the ideal band of a metric for a skill level and club.
// Out of range skill levels and clubs fall back to beginner and driver.
func Reference(m Metric, skill SkillLevel, club Club) Band {

	if m < 0 || m >= NumMetrics {
		return Band{}
	}

	if skill < 0 || skill >= numSkills {
		skill = Beginner
	}

	if club < 0 || club >= numClubs {
		club = Driver
	}

	return bands[m][skill][club]
}

package pose

import "fmt"

// Validation defines the rules a frame must pass before it is used for
// phase detection and metrics
type Validation struct {
	// MinVisibility is the visibility score a landmark needs to count as seen
	MinVisibility float64 `yaml:"min_visibility"`
	// MinVisible is the minimum number of seen landmarks in the frame
	MinVisible int `yaml:"min_visible"`
	// Required landmarks must all be seen, the shoulder and hip pairs are
	// needed for any rotation measurement
	Required []LandmarkID `yaml:"-"`
}

// RequiredLandmarks is the minimum landmark set a pose source must deliver
var RequiredLandmarks = []LandmarkID{
	Nose,
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

// DefaultValidation returns validation rules requiring both shoulder and hip
// pairs and at least 8 visible landmarks with a score of 0.5
func DefaultValidation() Validation {
	return Validation{
		MinVisibility: 0.5,
		MinVisible:    8,
		Required:      []LandmarkID{LeftShoulder, RightShoulder, LeftHip, RightHip},
	}
}

// Verify checks the validation parameters are usable
func (v Validation) Verify() error {

	if v.MinVisibility < 0 || v.MinVisibility > 1 {
		return fmt.Errorf("min_visibility must be within [0,1], got %v", v.MinVisibility)
	}

	if v.MinVisible < 0 || v.MinVisible > NumLandmarks {
		return fmt.Errorf("min_visible must be within [0,%d], got %d", NumLandmarks, v.MinVisible)
	}

	for _, id := range v.Required {
		if !id.Valid() {
			return fmt.Errorf("required landmark %v is not a canonical landmark", id)
		}
	}

	return nil
}

// Check returns a copy of the frame with Valid set, along with the required
// landmarks that were missing or below the visibility threshold
func (v Validation) Check(f Frame) (Frame, []LandmarkID) {

	var missing []LandmarkID

	for _, id := range v.Required {
		if _, ok := f.Visible(id, v.MinVisibility); !ok {
			missing = append(missing, id)
		}
	}

	f.Valid = len(missing) == 0 && f.CountVisible(v.MinVisibility) >= v.MinVisible

	return f, missing
}

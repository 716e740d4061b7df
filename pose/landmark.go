package pose

import (
	"fmt"
	"strings"
)

// LandmarkID identifies a named body joint.  Values follow the 33 point
// MediaPipe BlazePose topology so pose sources using that model can copy
// indices straight across.
type LandmarkID int

const (
	Nose LandmarkID = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex

	// NumLandmarks is the number of landmarks in a Frame
	NumLandmarks = 33

	// NoLandmark marks a vendor keypoint that has no canonical equivalent
	NoLandmark LandmarkID = -1
)

var landmarkNames = [NumLandmarks]string{
	"nose",
	"left_eye_inner",
	"left_eye",
	"left_eye_outer",
	"right_eye_inner",
	"right_eye",
	"right_eye_outer",
	"left_ear",
	"right_ear",
	"mouth_left",
	"mouth_right",
	"left_shoulder",
	"right_shoulder",
	"left_elbow",
	"right_elbow",
	"left_wrist",
	"right_wrist",
	"left_pinky",
	"right_pinky",
	"left_index",
	"right_index",
	"left_thumb",
	"right_thumb",
	"left_hip",
	"right_hip",
	"left_knee",
	"right_knee",
	"left_ankle",
	"right_ankle",
	"left_heel",
	"right_heel",
	"left_foot_index",
	"right_foot_index",
}

// String returns the snake case name of the landmark
func (id LandmarkID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("landmark(%d)", int(id))
	}

	return landmarkNames[id]
}

// Valid reports whether the id is within the canonical landmark set
func (id LandmarkID) Valid() bool {
	return id >= 0 && id < NumLandmarks
}

// Opposite returns the landmark on the other side of the body, eg: the
// opposite of LeftWrist is RightWrist.  Midline landmarks return themselves.
func (id LandmarkID) Opposite() LandmarkID {

	switch {
	case id == Nose || !id.Valid():
		return id
	case id >= LeftEyeInner && id <= LeftEyeOuter:
		return id + 3
	case id >= RightEyeInner && id <= RightEyeOuter:
		return id - 3
	}

	// remaining landmarks alternate left, right starting at LeftEar
	if (id-LeftEar)%2 == 0 {
		return id + 1
	}

	return id - 1
}

// ParseLandmark returns the LandmarkID for the given name.  Matching is case
// insensitive and accepts both "left_wrist" and "left wrist" forms.
func ParseLandmark(name string) (LandmarkID, error) {

	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")

	for i, n := range landmarkNames {
		if n == norm {
			return LandmarkID(i), nil
		}
	}

	return NoLandmark, fmt.Errorf("unknown landmark name %q", name)
}

// Handedness defines which side of the body leads the swing
type Handedness int

const (
	// RightHanded golfers lead with the left side of the body
	RightHanded Handedness = 0
	// LeftHanded golfers lead with the right side of the body
	LeftHanded Handedness = 1
)

// String returns the config name of the handedness
func (h Handedness) String() string {
	if h == LeftHanded {
		return "left"
	}

	return "right"
}

// ParseHandedness parses "right" or "left"
func ParseHandedness(s string) (Handedness, error) {

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "right", "right_handed", "rh":
		return RightHanded, nil
	case "left", "left_handed", "lh":
		return LeftHanded, nil
	}

	return RightHanded, fmt.Errorf("unknown handedness %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (h Handedness) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (h *Handedness) UnmarshalText(b []byte) error {
	v, err := ParseHandedness(string(b))

	if err != nil {
		return err
	}

	*h = v
	return nil
}

// Lead takes a left side landmark and returns the lead side landmark for
// this handedness
func (h Handedness) Lead(left LandmarkID) LandmarkID {
	if h == LeftHanded {
		return left.Opposite()
	}

	return left
}

// Trail takes a left side landmark and returns the trail side landmark for
// this handedness
func (h Handedness) Trail(left LandmarkID) LandmarkID {
	if h == LeftHanded {
		return left
	}

	return left.Opposite()
}

package pose

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// standingFrame returns a frame of a golfer standing square to the camera
// with every required landmark visible
func standingFrame(seq uint64) Frame {
	return NewFrame(seq, time.Duration(seq)*33*time.Millisecond,
		Landmark{ID: Nose, Point: Point{X: 0.5, Y: 0.2}, Visibility: 0.99},
		Landmark{ID: LeftShoulder, Point: Point{X: 0.4, Y: 0.3}, Visibility: 0.95},
		Landmark{ID: RightShoulder, Point: Point{X: 0.6, Y: 0.3}, Visibility: 0.95},
		Landmark{ID: LeftElbow, Point: Point{X: 0.42, Y: 0.42}, Visibility: 0.9},
		Landmark{ID: RightElbow, Point: Point{X: 0.58, Y: 0.42}, Visibility: 0.9},
		Landmark{ID: LeftWrist, Point: Point{X: 0.48, Y: 0.55}, Visibility: 0.9},
		Landmark{ID: RightWrist, Point: Point{X: 0.52, Y: 0.55}, Visibility: 0.9},
		Landmark{ID: LeftHip, Point: Point{X: 0.44, Y: 0.55}, Visibility: 0.95},
		Landmark{ID: RightHip, Point: Point{X: 0.56, Y: 0.55}, Visibility: 0.95},
		Landmark{ID: LeftKnee, Point: Point{X: 0.43, Y: 0.72}, Visibility: 0.9},
		Landmark{ID: RightKnee, Point: Point{X: 0.57, Y: 0.72}, Visibility: 0.9},
		Landmark{ID: LeftAnkle, Point: Point{X: 0.42, Y: 0.9}, Visibility: 0.9},
		Landmark{ID: RightAnkle, Point: Point{X: 0.58, Y: 0.9}, Visibility: 0.9},
	)
}

func TestOppositeIsInvolution(t *testing.T) {

	for i := 0; i < NumLandmarks; i++ {
		id := LandmarkID(i)

		if got := id.Opposite().Opposite(); got != id {
			t.Errorf("%v: opposite of opposite is %v", id, got)
		}
	}

	pairs := map[LandmarkID]LandmarkID{
		Nose:          Nose,
		LeftEye:       RightEye,
		LeftShoulder:  RightShoulder,
		RightWrist:    LeftWrist,
		LeftFootIndex: RightFootIndex,
		MouthRight:    MouthLeft,
	}

	for in, want := range pairs {
		if got := in.Opposite(); got != want {
			t.Errorf("expected opposite of %v to be %v, got %v", in, want, got)
		}
	}
}

func TestParseLandmark(t *testing.T) {

	for i := 0; i < NumLandmarks; i++ {
		id := LandmarkID(i)
		got, err := ParseLandmark(id.String())

		if err != nil || got != id {
			t.Errorf("round trip of %v failed: got %v, err %v", id, got, err)
		}
	}

	if got, err := ParseLandmark("Left Wrist"); err != nil || got != LeftWrist {
		t.Errorf("expected LeftWrist, got %v, err %v", got, err)
	}

	if _, err := ParseLandmark("tail"); err == nil {
		t.Errorf("expected error for unknown landmark")
	}
}

func TestHandednessLeadTrail(t *testing.T) {

	if RightHanded.Lead(LeftShoulder) != LeftShoulder || RightHanded.Trail(LeftShoulder) != RightShoulder {
		t.Errorf("right handed golfer should lead with the left shoulder")
	}

	if LeftHanded.Lead(LeftShoulder) != RightShoulder || LeftHanded.Trail(LeftShoulder) != LeftShoulder {
		t.Errorf("left handed golfer should lead with the right shoulder")
	}
}

func TestFrameWithWithout(t *testing.T) {

	f := standingFrame(1)

	if f.Len() != 13 {
		t.Fatalf("expected 13 landmarks, got %d", f.Len())
	}

	g := f.Without(LeftWrist)

	if _, ok := g.Get(LeftWrist); ok {
		t.Errorf("expected LeftWrist removed")
	}

	// original frame is a value and remains untouched
	if _, ok := f.Get(LeftWrist); !ok {
		t.Errorf("Without modified the original frame")
	}

	h := g.With(Landmark{ID: LeftWrist, Point: Point{X: 0.1}, Visibility: 0.3})

	if _, ok := h.Visible(LeftWrist, 0.5); ok {
		t.Errorf("low visibility landmark should not be visible")
	}

	if p, ok := h.Visible(LeftWrist, 0.2); !ok || p.X != 0.1 {
		t.Errorf("expected LeftWrist visible at x=0.1, got %v %v", p, ok)
	}
}

func TestVisibleRejectsNaN(t *testing.T) {

	f := standingFrame(1).With(Landmark{ID: Nose, Point: Point{X: math.NaN()}, Visibility: 1})

	if _, ok := f.Visible(Nose, 0); ok {
		t.Errorf("NaN landmark should not be visible")
	}
}

func TestMirror(t *testing.T) {

	f := standingFrame(3)
	m := f.Mirror()

	ls, _ := f.Get(LeftShoulder)
	mrs, ok := m.Get(RightShoulder)

	if !ok || mrs.Point != ls.Point {
		t.Errorf("mirrored right shoulder should hold left shoulder position")
	}

	if m.Seq != f.Seq || m.Timestamp != f.Timestamp || m.Len() != f.Len() {
		t.Errorf("mirror changed frame metadata")
	}
}

func TestValidationCheck(t *testing.T) {

	v := DefaultValidation()

	f, missing := v.Check(standingFrame(1))

	if !f.Valid || len(missing) != 0 {
		t.Errorf("expected valid frame, missing %v", missing)
	}

	f, missing = v.Check(standingFrame(1).Without(LeftHip))

	if f.Valid || len(missing) != 1 || missing[0] != LeftHip {
		t.Errorf("expected invalid frame missing LeftHip, got %v %v", f.Valid, missing)
	}

	// required set present but too few landmarks overall
	sparse := NewFrame(1, 0,
		Landmark{ID: LeftShoulder, Visibility: 1},
		Landmark{ID: RightShoulder, Visibility: 1},
		Landmark{ID: LeftHip, Visibility: 1},
		Landmark{ID: RightHip, Visibility: 1},
	)

	if f, _ := v.Check(sparse); f.Valid {
		t.Errorf("expected sparse frame to be invalid")
	}

	if err := (Validation{MinVisibility: 2}).Verify(); err == nil {
		t.Errorf("expected error for visibility above 1")
	}
}

func TestConverterCOCO(t *testing.T) {

	kps := make([]KeyPoint, len(COCO17Layout))

	for i := range kps {
		kps[i] = KeyPoint{X: float64(i * 10), Y: float64(i * 20), Score: 0.8}
	}

	conv := Converter{Layout: COCO17Layout, Width: 640, Height: 480}
	f, err := conv.Convert(kps, 7, time.Second)

	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	if f.Seq != 7 || f.Timestamp != time.Second || f.Len() != 17 {
		t.Errorf("unexpected frame %d %v %d", f.Seq, f.Timestamp, f.Len())
	}

	// keypoint 9 is the left wrist in COCO order
	lw, ok := f.Get(LeftWrist)

	if !ok || lw.X != 90.0/640 || lw.Y != 180.0/480 {
		t.Errorf("unexpected left wrist %+v", lw)
	}

	if _, err := conv.Convert(kps[:5], 0, 0); !errors.Is(err, ErrLayout) {
		t.Errorf("expected ErrLayout, got %v", err)
	}
}

func TestSelectSubject(t *testing.T) {

	near := standingFrame(1)
	far := NewFrame(1, 0,
		Landmark{ID: LeftHip, Point: Point{X: 0.9, Y: 0.5}, Visibility: 1},
		Landmark{ID: RightHip, Point: Point{X: 0.95, Y: 0.5}, Visibility: 1},
	)

	prev := standingFrame(0)

	got, err := SelectSubject([]Frame{far, near}, &prev, 0.5)

	if err != nil || got.Len() != near.Len() {
		t.Errorf("expected the nearest candidate, got %d landmarks, err %v", got.Len(), err)
	}

	// without a reference the widest pose wins
	got, err = SelectSubject([]Frame{far, near}, nil, 0.5)

	if err != nil || got.Len() != near.Len() {
		t.Errorf("expected the widest candidate, got %d landmarks, err %v", got.Len(), err)
	}

	if _, err := SelectSubject(nil, nil, 0.5); !errors.Is(err, ErrNoSubject) {
		t.Errorf("expected ErrNoSubject, got %v", err)
	}
}

func TestLoadLayout(t *testing.T) {

	file := filepath.Join(t.TempDir(), "layout.txt")
	content := "# custom model\nnose\n-\nleft wrist\nright_wrist\n\n"

	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	layout, err := LoadLayout(file)

	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := Layout{Nose, NoLandmark, LeftWrist, RightWrist}

	if len(layout) != len(want) {
		t.Fatalf("expected %v, got %v", want, layout)
	}

	for i := range want {
		if layout[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], layout[i])
		}
	}

	bad := filepath.Join(t.TempDir(), "bad.txt")
	_ = os.WriteFile(bad, []byte("elbow\n"), 0o644)

	if _, err := LoadLayout(bad); !errors.Is(err, ErrLayout) {
		t.Errorf("expected ErrLayout, got %v", err)
	}
}

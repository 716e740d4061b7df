// Package overlay prepares what is drawn over swing video: the skeleton
// topology, the lead wrist trail and the heads up display text.  It has no
// dependency on a video library, the render package draws it with OpenCV.
package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/swdee/go-golfswing/pose"
)

// Bone is a line drawn between two landmarks
type Bone struct {
	From pose.LandmarkID
	To   pose.LandmarkID
}

// Bones is the skeleton drawn over the golfer
var Bones = []Bone{
	{pose.LeftShoulder, pose.RightShoulder},
	{pose.LeftShoulder, pose.LeftElbow},
	{pose.LeftElbow, pose.LeftWrist},
	{pose.RightShoulder, pose.RightElbow},
	{pose.RightElbow, pose.RightWrist},
	{pose.LeftShoulder, pose.LeftHip},
	{pose.RightShoulder, pose.RightHip},
	{pose.LeftHip, pose.RightHip},
	{pose.LeftHip, pose.LeftKnee},
	{pose.LeftKnee, pose.LeftAnkle},
	{pose.RightHip, pose.RightKnee},
	{pose.RightKnee, pose.RightAnkle},
	{pose.LeftAnkle, pose.LeftHeel},
	{pose.LeftHeel, pose.LeftFootIndex},
	{pose.LeftAnkle, pose.LeftFootIndex},
	{pose.RightAnkle, pose.RightHeel},
	{pose.RightHeel, pose.RightFootIndex},
	{pose.RightAnkle, pose.RightFootIndex},
}

// Color returns the bone colour, bones crossing the body use the centre
// colour
func (b Bone) Color(hand pose.Handedness) color.RGBA {

	from := JointColor(b.From, hand)

	if from != JointColor(b.To, hand) {
		return CentreColor
	}

	return from
}

// Segment is a bone resolved to pixel coordinates
type Segment struct {
	From  image.Point
	To    image.Point
	Color color.RGBA
}

// Joint is a landmark resolved to pixel coordinates
type Joint struct {
	ID    pose.LandmarkID
	At    image.Point
	Color color.RGBA
}

// ToPixel converts a normalized point to pixel coordinates of an image of
// the given size
func ToPixel(p pose.Point, width, height int) image.Point {
	return image.Pt(
		int(math.Round(p.X*float64(width))),
		int(math.Round(p.Y*float64(height))),
	)
}

// Skeleton resolves the bones and joints of a frame that are visible,
// skipping any bone with a landmark below minVisibility
func Skeleton(f pose.Frame, hand pose.Handedness, minVisibility float64,
	width, height int) ([]Segment, []Joint) {

	var segs []Segment

	for _, b := range Bones {
		from, ok1 := f.Visible(b.From, minVisibility)
		to, ok2 := f.Visible(b.To, minVisibility)

		if !ok1 || !ok2 {
			continue
		}

		segs = append(segs, Segment{
			From:  ToPixel(from, width, height),
			To:    ToPixel(to, width, height),
			Color: b.Color(hand),
		})
	}

	var joints []Joint

	for _, lm := range f.Landmarks() {
		p, ok := f.Visible(lm.ID, minVisibility)

		if !ok {
			continue
		}

		joints = append(joints, Joint{
			ID:    lm.ID,
			At:    ToPixel(p, width, height),
			Color: JointColor(lm.ID, hand),
		})
	}

	return segs, joints
}

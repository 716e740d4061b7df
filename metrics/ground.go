package metrics

import (
	"math"
	"sort"

	clipper "github.com/ctessum/go.clipper"
	"github.com/swdee/go-golfswing/pose"
)

// WeightShift returns the fraction of weight over the lead foot in [0,1]
// estimated from where the hip centre sits between the ankles.  0.5 is an
// even stance.
func WeightShift(f pose.Frame, hand pose.Handedness, minVisibility float64) (float64, bool) {

	lead, ok1 := f.Visible(hand.Lead(pose.LeftAnkle), minVisibility)
	trail, ok2 := f.Visible(hand.Trail(pose.LeftAnkle), minVisibility)
	hips, ok3 := f.Midpoint(pose.LeftHip, pose.RightHip, minVisibility)

	if !ok1 || !ok2 || !ok3 {
		return 0, false
	}

	span := lead.X - trail.X

	if math.Abs(span) < minLineLength {
		return 0, false
	}

	return clamp((hips.X-trail.X)/span, 0, 1), true
}

// GroundForce estimates the vertical ground reaction from the hip centre
// acceleration over three consecutive samples dt seconds apart.  The
// result is in body heights per second squared, positive when the hips
// accelerate upward, so 0 is a steady stance.
func GroundForce(y0, y1, y2, height, dt float64) (float64, bool) {

	if dt <= 0 || height < minLineLength {
		return 0, false
	}

	// image y grows downward
	accel := -(y2 - 2*y1 + y0) / (dt * dt)
	force := accel / height

	if !finite(force) {
		return 0, false
	}

	return force, true
}

// bodyHeight is the nose to ankle centre distance used to normalize
// accelerations
func bodyHeight(f pose.Frame, minVisibility float64) (float64, bool) {

	nose, ok1 := f.Visible(pose.Nose, minVisibility)
	ankles, ok2 := f.Midpoint(pose.LeftAnkle, pose.RightAnkle, minVisibility)

	if !ok1 || !ok2 {
		return 0, false
	}

	return nose.Distance(ankles), true
}

// Balance describes where the centre of mass sits over the base of support
type Balance struct {
	// Score is 1 with the centre of mass over the middle of the stance,
	// falling to 0 at the edge of the margin
	Score float64 `msgpack:"score" json:"score"`
	// Inside is true when the centre of mass is within the base of support
	// expanded by the margin
	Inside bool `msgpack:"inside" json:"inside"`
}

// footLandmarks make up the base of support
var footLandmarks = []pose.LandmarkID{
	pose.LeftAnkle, pose.RightAnkle,
	pose.LeftHeel, pose.RightHeel,
	pose.LeftFootIndex, pose.RightFootIndex,
}

// polygonScale converts normalized coordinates to clipper integer units
const polygonScale = 10000

// BaseOfSupport returns the ground plane polygon spanned by the feet,
// expanded outward by margin.  The ground plane uses x and depth.
func BaseOfSupport(f pose.Frame, margin, minVisibility float64) ([]pose.Point, bool) {

	var pts []pose.Point

	for _, id := range footLandmarks {
		if p, ok := f.Visible(id, minVisibility); ok {
			pts = append(pts, pose.Point{X: p.X, Z: p.Z})
		}
	}

	if len(pts) < 2 {
		return nil, false
	}

	hull := convexHull(pts)

	if polygonArea(hull)*polygonScale*polygonScale < 1 {
		// feet without depth collapse to a line, give it unit thickness so
		// the offset has an interior to grow from
		hull = lineBox(hull)
	}

	var path clipper.Path

	for _, p := range hull {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math.Round(p.X * polygonScale)),
			Y: clipper.CInt(math.Round(p.Z * polygonScale)),
		})
	}

	co := clipper.NewClipperOffset()
	co.AddPath(path, clipper.JtRound, clipper.EtClosedPolygon)

	solution := co.Execute(margin * polygonScale)

	// keep the largest outline
	var best clipper.Path
	bestArea := -1.0

	for _, sol := range solution {
		if a := math.Abs(clipperArea(sol)); a > bestArea {
			best = sol
			bestArea = a
		}
	}

	if len(best) < 3 {
		return nil, false
	}

	out := make([]pose.Point, len(best))

	for i, pt := range best {
		out[i] = pose.Point{
			X: float64(pt.X) / polygonScale,
			Z: float64(pt.Y) / polygonScale,
		}
	}

	return out, true
}

// BalanceOf scores the centre of mass, approximated as the midpoint of the
// hip and shoulder centres, against the base of support
func BalanceOf(f pose.Frame, margin, minVisibility float64) (Balance, bool) {

	hips, ok1 := f.Midpoint(pose.LeftHip, pose.RightHip, minVisibility)
	shoulders, ok2 := f.Midpoint(pose.LeftShoulder, pose.RightShoulder, minVisibility)

	if !ok1 || !ok2 {
		return Balance{}, false
	}

	poly, ok := BaseOfSupport(f, margin, minVisibility)

	if !ok {
		return Balance{}, false
	}

	com := hips.Midpoint(shoulders)
	pt := pose.Point{X: com.X, Z: com.Z}

	minX, maxX := poly[0].X, poly[0].X

	for _, p := range poly[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}

	half := (maxX - minX) / 2

	if half <= 0 {
		return Balance{}, false
	}

	inside := pointInPolygon(pt, poly)
	score := 0.0

	if inside {
		centre := (maxX + minX) / 2
		score = clamp(1-math.Abs(pt.X-centre)/half, 0, 1)
	}

	return Balance{Score: score, Inside: inside}, true
}

// convexHull returns the hull of points in the x,z plane in counter
// clockwise order using the monotone chain method
func convexHull(pts []pose.Point) []pose.Point {

	ps := make([]pose.Point, len(pts))
	copy(ps, pts)

	sort.Slice(ps, func(i, j int) bool {
		if ps[i].X == ps[j].X {
			return ps[i].Z < ps[j].Z
		}
		return ps[i].X < ps[j].X
	})

	if len(ps) < 3 {
		return ps
	}

	cross := func(o, a, b pose.Point) float64 {
		return (a.X-o.X)*(b.Z-o.Z) - (a.Z-o.Z)*(b.X-o.X)
	}

	hull := make([]pose.Point, 0, 2*len(ps))

	for _, p := range ps {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	lower := len(hull) + 1

	for i := len(ps) - 2; i >= 0; i-- {
		p := ps[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

// lineBox returns a thin rectangle around the extent of a degenerate hull
func lineBox(pts []pose.Point) []pose.Point {

	minX, maxX := pts[0].X, pts[0].X
	minZ, maxZ := pts[0].Z, pts[0].Z

	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minZ = math.Min(minZ, p.Z)
		maxZ = math.Max(maxZ, p.Z)
	}

	const unit = 1.0 / polygonScale

	return []pose.Point{
		{X: minX - unit, Z: minZ - unit},
		{X: maxX + unit, Z: minZ - unit},
		{X: maxX + unit, Z: maxZ + unit},
		{X: minX - unit, Z: maxZ + unit},
	}
}

// polygonArea returns the signed shoelace area in the x,z plane
func polygonArea(pts []pose.Point) float64 {

	var a float64

	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i].X*pts[j].Z - pts[j].X*pts[i].Z
	}

	return a / 2
}

// clipperArea returns the signed area of a clipper path
func clipperArea(path clipper.Path) float64 {

	var a float64

	for i := range path {
		j := (i + 1) % len(path)
		a += float64(path[i].X)*float64(path[j].Y) - float64(path[j].X)*float64(path[i].Y)
	}

	return a / 2
}

// pointInPolygon is an even-odd ray casting test in the x,z plane
func pointInPolygon(p pose.Point, poly []pose.Point) bool {

	inside := false

	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]

		if (a.Z > p.Z) != (b.Z > p.Z) &&
			p.X < (b.X-a.X)*(p.Z-a.Z)/(b.Z-a.Z)+a.X {
			inside = !inside
		}
	}

	return inside
}

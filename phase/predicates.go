package phase

import (
	"math"

	"github.com/swdee/go-golfswing/smoothing"
)

// Scalars are the per frame values derived from the pose that drive phase
// detection
type Scalars struct {
	// ShoulderAngle is the shoulder line rotation in degrees
	ShoulderAngle float64
	// HipAngle is the hip line rotation in degrees
	HipAngle float64
	// Separation is the smoothed shoulder to hip separation in degrees
	Separation float64
	// WristHeight is how far the lead wrist is above the lead shoulder in
	// normalized image units, negative when below
	WristHeight float64
	// WristSpeed is the lead wrist speed in normalized units per second
	WristSpeed float64
}

// Context is the input to each predicate
type Context struct {
	// Current is the phase of the previous frame
	Current Phase
	// Scalars of this frame
	Scalars Scalars
	// Turn is the shoulder rotation relative to the address posture
	Turn float64
	// Separation holds recent smoothed separation samples, this frame last
	Separation *smoothing.Series
	// FramesInPhase counts frames spent in Current
	FramesInPhase int
	// StillFrames counts consecutive frames with the lead wrist at rest
	StillFrames int
	// Thresholds tune the predicates
	Thresholds Thresholds
}

// Predicate reports whether a frame belongs to a phase
type Predicate func(ctx *Context) bool

// Rule pairs a phase with the predicate that detects it
type Rule struct {
	Name  string
	Phase Phase
	Match Predicate
}

// DefaultRules returns the detection rules in priority order.  Address and
// setup come first since they gate every later transition.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "address", Phase: Address, Match: IsAddress},
		{Name: "setup", Phase: Setup, Match: IsSetup},
		{Name: "takeaway", Phase: Takeaway, Match: IsTakeaway},
		{Name: "backswing", Phase: Backswing, Match: IsBackswing},
		{Name: "transition", Phase: Transition, Match: IsTransition},
		{Name: "downswing", Phase: Downswing, Match: IsDownswing},
		{Name: "impact", Phase: Impact, Match: IsImpact},
		{Name: "follow_through", Phase: FollowThrough, Match: IsFollowThrough},
	}
}

// IsAddress matches a golfer standing still over the ball with shoulders
// and hips square.  Once at address the shoulders must not have started
// turning.
func IsAddress(ctx *Context) bool {

	th := ctx.Thresholds

	if !ctx.Current.Between(Setup, Address) {
		return false
	}

	if ctx.StillFrames < th.AddressStillFrames {
		return false
	}

	if math.Abs(ctx.Scalars.Separation) > th.AddressMaxSeparation {
		return false
	}

	if ctx.Current == Address && math.Abs(ctx.Turn) >= th.TakeawayMinTurn {
		return false
	}

	return true
}

// IsSetup holds the golfer in setup until the address posture is found
func IsSetup(ctx *Context) bool {
	return ctx.Current == Setup
}

// IsTakeaway matches the start of the shoulder turn away from the ball
func IsTakeaway(ctx *Context) bool {
	return ctx.Current.Between(Address, Takeaway) &&
		ctx.Turn >= ctx.Thresholds.TakeawayMinTurn &&
		ctx.Turn < ctx.Thresholds.BackswingMinTurn
}

// IsBackswing matches a full shoulder turn while the separation is still
// building
func IsBackswing(ctx *Context) bool {
	return ctx.Current.Between(Address, Backswing) &&
		ctx.Turn >= ctx.Thresholds.BackswingMinTurn &&
		!separationPeaked(ctx)
}

// IsTransition matches the frame the separation angle is seen to have
// peaked and started to unwind.  This is a local maximum detector over the
// trailing window rather than a fixed angle.
func IsTransition(ctx *Context) bool {
	return ctx.Current == Backswing && separationPeaked(ctx)
}

// IsDownswing matches the unwinding separation before the shoulders return
// to square
func IsDownswing(ctx *Context) bool {

	if !ctx.Current.Between(Transition, Downswing) {
		return false
	}

	if ctx.Turn <= ctx.Thresholds.ImpactMaxTurn {
		return false
	}

	return ctx.Current == Downswing || ctx.Separation.Falling(2)
}

// IsImpact matches the shoulders returning to their address rotation
func IsImpact(ctx *Context) bool {
	return ctx.Current.Between(Transition, Downswing) &&
		ctx.Turn <= ctx.Thresholds.ImpactMaxTurn
}

// IsFollowThrough matches continued motion after impact
func IsFollowThrough(ctx *Context) bool {
	return ctx.Current.Between(Impact, FollowThrough) &&
		ctx.Scalars.WristSpeed >= ctx.Thresholds.FinishSpeed
}

// separationPeaked checks for a local maximum in the separation series
// that is large enough to be a real backswing
func separationPeaked(ctx *Context) bool {

	if ctx.Separation == nil {
		return false
	}

	th := ctx.Thresholds
	peak, _, ok := ctx.Separation.LocalMax(th.TransitionWindow, th.TransitionMinFalling)

	return ok && peak >= th.TransitionMinSeparation
}

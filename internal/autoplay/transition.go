package autoplay

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"vaxmap/internal/versor"
)

// TargetRotation is the rotation that brings (lon, lat) to the middle of
// the globe, tipped by tilt degrees so the view looks slightly down on it.
func TargetRotation(lon, lat, tilt float64) [3]float64 {
	return [3]float64{-lon, tilt - lat, 0}
}

// Transition eases the globe from one rotation to another along the
// shorter great arc. Progress follows a critically damped spring and snaps
// to the target once the duration has elapsed.
type Transition struct {
	from, to versor.Versor
	target   [3]float64

	duration time.Duration
	frame    time.Duration
	elapsed  time.Duration

	spring   harmonica.Spring
	pos, vel float64
}

// NewTransition prepares a transition stepped at fps frames per second.
func NewTransition(from, to [3]float64, duration time.Duration, fps int) *Transition {
	if fps <= 0 {
		fps = 30
	}
	secs := duration.Seconds()
	if secs <= 0 {
		secs = 1
	}
	// a critically damped spring is within a few percent after 6/ω seconds
	return &Transition{
		from:     versor.FromRotation(from),
		to:       versor.FromRotation(to),
		target:   to,
		duration: duration,
		frame:    time.Second / time.Duration(fps),
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 6/secs, 1.0),
	}
}

// Frame is the delay between steps.
func (t *Transition) Frame() time.Duration { return t.frame }

// Done reports whether the target was reached.
func (t *Transition) Done() bool { return t.elapsed >= t.duration }

// Target is the final rotation.
func (t *Transition) Target() [3]float64 { return t.target }

// Step advances one frame and returns the rotation to draw.
func (t *Transition) Step() (r [3]float64, done bool) {
	t.elapsed += t.frame
	if t.Done() {
		t.pos = 1
		return t.target, true
	}
	t.pos, t.vel = t.spring.Update(t.pos, t.vel, 1)
	return versor.Slerp(t.from, t.to, math.Max(0, math.Min(1, t.pos))).Rotation(), false
}

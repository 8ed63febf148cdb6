package chart

import (
	"context"
	"time"

	"vaxmap/internal/autoplay"
	"vaxmap/internal/logging"
)

const sequentialOrder = "sequential"

// StartAutoplay starts the globe tour and returns the generation its ticks
// carry. started is false on flat variants, when nothing can be toured, or
// when a tour is already running, whose generation is returned instead.
func (c *Chart) StartAutoplay() (gen uint64, started bool) {
	if !c.variant.Globe() || len(c.markers) == 0 {
		return 0, false
	}
	gen, started = c.player.Start()
	if started {
		c.log.Debug(context.Background(), "autoplay started",
			logging.Any("gen", gen),
			logging.Int("countries", len(c.markers)),
		)
	}
	return gen, started
}

// StopAutoplay stops the tour. It reports whether one was running, so a
// caller stopping twice sees true once.
func (c *Chart) StopAutoplay() bool {
	c.tour = nil
	if !c.player.Stop() {
		return false
	}
	c.log.Debug(context.Background(), "autoplay stopped", logging.Int("cycles", c.player.Cycles()))
	return true
}

func (c *Chart) AutoplayRunning() bool { return c.player.Running() }

// AutoplayInterval is the time between tour ticks.
func (c *Chart) AutoplayInterval() time.Duration { return c.player.Interval() }

// AutoplayTick advances the tour of generation gen to its next country
// and starts the transition toward it. It returns false when gen is stale
// or the tour ended; the host then stops scheduling ticks.
func (c *Chart) AutoplayTick(gen uint64) bool {
	if !c.player.Tick(gen) {
		return false
	}
	if len(c.markers) == 0 {
		c.StopAutoplay()
		return false
	}
	var i int
	if c.props.Autoplay.Order == sequentialOrder {
		i = c.player.Next(len(c.markers))
	} else {
		i = c.player.Pick(len(c.markers), c.rng)
	}
	key := c.markers[i]
	d := c.drawn[key]

	a := c.props.Autoplay
	c.tour = autoplay.NewTransition(c.currentRotation(), targetRotation(d, c.props.Globe.Tilt),
		time.Duration(a.Duration)*time.Millisecond, a.FPS)
	c.highlight = key
	c.drawOverlay()
	return true
}

// Touring reports whether a transition is under way. Its frames keep
// coming from the chain that started it, even when the next tick replaces
// the transition.
func (c *Chart) Touring() bool { return c.tour != nil }

// AutoplayFrame advances the running transition by one frame and redraws.
// It returns whether more frames follow.
func (c *Chart) AutoplayFrame(gen uint64) bool {
	if !c.player.Valid(gen) || c.tour == nil {
		return false
	}
	r, done := c.tour.Step()
	c.rotation, c.rotated = r, true
	if done {
		c.tour = nil
	}
	c.redraw()
	return !done
}

// FrameInterval is the delay between transition frames.
func (c *Chart) FrameInterval() time.Duration {
	if c.tour != nil {
		return c.tour.Frame()
	}
	fps := c.props.Autoplay.FPS
	if fps <= 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

func targetRotation(d drawnCountry, tilt float64) [3]float64 {
	return autoplay.TargetRotation(d.country.Centroid.Lon(), d.country.Centroid.Lat(), tilt)
}

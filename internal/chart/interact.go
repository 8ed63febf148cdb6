package chart

import (
	"math"

	"vaxmap/internal/versor"
)

// clickSlop is how far, in target units, a press may travel and still
// count as a click.
const clickSlop = 3

const (
	minZoom = 0.5
	maxZoom = 16
)

type pointerState struct {
	down           bool
	moved          bool
	startX, startY float64
	lastX, lastY   float64
}

// Pick returns the key of the country whose cell holds the target point.
// Points off the map, or nearest to an ocean reset site, pick nothing.
func (c *Chart) Pick(x, y float64) (string, bool) {
	if c.proj == nil || c.tess == nil {
		return "", false
	}
	lon, lat, ok := c.proj.Invert(x, y)
	if !ok {
		return "", false
	}
	s, ok := c.tess.Locate(lon, lat)
	if !ok || s.Reset {
		return "", false
	}
	return s.Key, true
}

// PointerDown starts a press. It always stops autoplay; on globe variants
// it also starts a rotation gesture.
func (c *Chart) PointerDown(ptrs []versor.Pointer) {
	c.StopAutoplay()
	x, y, ok := average(ptrs)
	if !ok {
		return
	}
	c.pointer = pointerState{down: true, startX: x, startY: y, lastX: x, lastY: y}
	if c.variant.Globe() && c.proj != nil {
		c.gesture.LockHorizon = c.props.Globe.LockHorizon
		c.gesture.ResetThreshold = c.props.Globe.ResetThreshold
		c.gesture.Start(ptrs, c.proj)
	}
}

// PointerMove drags while pressed and hovers otherwise. It reports whether
// the target changed.
func (c *Chart) PointerMove(ptrs []versor.Pointer) bool {
	x, y, ok := average(ptrs)
	if !ok {
		return false
	}
	if !c.pointer.down {
		if !c.variant.Interactive() || c.player.Running() {
			return false
		}
		before := c.highlight
		key, _ := c.Pick(x, y)
		c.Highlight(key)
		return c.highlight != before
	}

	p := &c.pointer
	if math.Hypot(x-p.startX, y-p.startY) > clickSlop {
		p.moved = true
	}
	dx, dy := x-p.lastX, y-p.lastY
	p.lastX, p.lastY = x, y
	if !p.moved {
		return false
	}

	switch {
	case c.variant.Globe():
		if !c.gesture.Active() && !c.gesture.Start(ptrs, c.proj) {
			return false
		}
		r, ok := c.gesture.Move(ptrs, c.proj)
		if !ok {
			return false
		}
		c.rotation, c.rotated = r, true
		c.redraw()
		return true
	case c.variant == FlatInteractive:
		c.Pan(dx, dy)
		return true
	}
	return false
}

// PointerUp ends a press. A press that did not travel is a click and
// picks the country under it.
func (c *Chart) PointerUp() bool {
	p := c.pointer
	if !p.down {
		return false
	}
	c.pointer = pointerState{}
	c.gesture.End()
	if p.moved || !c.variant.Interactive() {
		return false
	}
	before := c.highlight
	key, _ := c.Pick(p.lastX, p.lastY)
	c.Highlight(key)
	return c.highlight != before
}

// Pan moves the view by dx, dy target units. Globes turn instead, one
// degree per scale unit.
func (c *Chart) Pan(dx, dy float64) {
	if c.variant.Globe() {
		k := 100.0
		if c.proj != nil && c.proj.Scale() > 0 {
			k = c.proj.Scale()
		}
		r := c.currentRotation()
		r[0] += dx / k * 180 / math.Pi
		r[1] = math.Max(-90, math.Min(90, r[1]-dy/k*180/math.Pi))
		c.rotation, c.rotated = r, true
	} else {
		c.panX += dx
		c.panY += dy
	}
	c.redraw()
}

// Zoom scales the view by f about the middle of the map.
func (c *Chart) Zoom(f float64) {
	if !(f > 0) || math.IsInf(f, 0) {
		return
	}
	z := math.Max(minZoom, math.Min(maxZoom, c.zoom*f))
	f = z / c.zoom
	c.zoom = z
	c.panX *= f
	c.panY *= f
	c.redraw()
}

// ResetView drops pan, zoom and interactive rotation.
func (c *Chart) ResetView() {
	c.zoom, c.panX, c.panY = 1, 0, 0
	c.rotated = false
	c.redraw()
}

// Focus highlights a country and, on a globe, turns it to face the viewer.
func (c *Chart) Focus(key string) {
	d, ok := c.drawn[key]
	if !ok {
		return
	}
	if c.variant.Globe() && d.country.HasCentroid {
		c.rotation = targetRotation(d, c.props.Globe.Tilt)
		c.rotated = true
		c.highlight = key
		c.redraw()
		return
	}
	c.Highlight(key)
}

func average(ptrs []versor.Pointer) (x, y float64, ok bool) {
	if len(ptrs) == 0 {
		return 0, 0, false
	}
	for _, p := range ptrs {
		x += p.X
		y += p.Y
	}
	n := float64(len(ptrs))
	return x / n, y / n, true
}

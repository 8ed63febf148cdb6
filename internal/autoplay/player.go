// Package autoplay drives the rotating-globe tour: a recurring tick that
// picks the next country and a transition that turns the globe toward it.
package autoplay

import (
	"math/rand/v2"
	"time"
)

// Player owns the autoplay timer of one chart. It does not run timers
// itself; the host schedules ticks tagged with the generation Start
// returned and drops ticks whose generation is no longer valid.
type Player struct {
	interval  time.Duration
	maxCycles int

	running bool
	gen     uint64
	cycles  int
	current int
}

// NewPlayer returns a stopped player. maxCycles 0 runs until stopped.
func NewPlayer(interval time.Duration, maxCycles int) *Player {
	return &Player{interval: interval, maxCycles: maxCycles, current: -1}
}

// Start begins a tick chain. When the player is already running it keeps
// the live chain and reports started false, so at most one chain exists.
func (p *Player) Start() (gen uint64, started bool) {
	if p.running {
		return p.gen, false
	}
	p.gen++
	p.running = true
	p.cycles = 0
	return p.gen, true
}

// Stop halts the player and invalidates pending ticks. It reports whether
// the player was running.
func (p *Player) Stop() bool {
	if !p.running {
		return false
	}
	p.running = false
	p.gen++
	return true
}

func (p *Player) Running() bool { return p.running }

// Valid reports whether gen belongs to the live chain.
func (p *Player) Valid(gen uint64) bool { return p.running && gen == p.gen }

// Tick counts one cycle of the chain gen. It returns false for a stale
// generation, or when the cycle limit was reached, in which case the
// player stops.
func (p *Player) Tick(gen uint64) bool {
	if !p.Valid(gen) {
		return false
	}
	if p.maxCycles > 0 && p.cycles >= p.maxCycles {
		p.Stop()
		return false
	}
	p.cycles++
	return true
}

func (p *Player) Cycles() int { return p.cycles }

func (p *Player) Interval() time.Duration { return p.interval }

// SetLimits changes the interval and the cycle limit without touching the
// live chain.
func (p *Player) SetLimits(interval time.Duration, maxCycles int) {
	p.interval = interval
	p.maxCycles = maxCycles
}

// Current is the index last returned by Pick, or -1.
func (p *Player) Current() int { return p.current }

// Next advances to the index after the current one, wrapping at n.
func (p *Player) Next(n int) int {
	if n <= 0 {
		p.current = -1
		return -1
	}
	p.current = (p.current + 1) % n
	return p.current
}

// Pick chooses a random index in [0, n), different from the current one
// whenever n > 1. It returns -1 when n is 0.
func (p *Player) Pick(n int, rng *rand.Rand) int {
	if n <= 0 {
		p.current = -1
		return -1
	}
	if n == 1 {
		p.current = 0
		return 0
	}
	var i int
	if p.current >= 0 && p.current < n {
		// draw from the other n-1 indexes
		i = rng.IntN(n - 1)
		if i >= p.current {
			i++
		}
	} else {
		i = rng.IntN(n)
	}
	p.current = i
	return i
}

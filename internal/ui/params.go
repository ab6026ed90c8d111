package ui

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/litescript/ls-timing/internal/geometry"
	"github.com/litescript/ls-timing/internal/timing"
)

const (
	// panFraction is how much of the sweep span one ←/→ press moves.
	panFraction = 0.1
	dutyStep    = 0.01
	heightStep  = 10e3 // m
	minHeight   = heightStep

	diagramCacheSize   = 8
	diagramCacheBudget = 128 << 20 // bytes
)

// Params fully determine one diagram.
type Params struct {
	Start     float64
	Stop      float64
	Step      float64
	DutyCycle float64
	Platform  geometry.Platform
}

func (p Params) String() string {
	return fmt.Sprintf("%.0f-%.0f Hz step %.0f  duty %.0f%%  %s",
		p.Start, p.Stop, p.Step, p.DutyCycle*100, p.Platform)
}

// Pan shifts the sweep window by steps pan increments. The window never
// moves below zero PRF; ok is false when the shift was refused.
func (p Params) Pan(steps int) (Params, bool) {
	shift := (p.Stop - p.Start) * panFraction
	if shift <= 0 {
		shift = p.Step
	}
	shift *= float64(steps)
	if p.Start+shift <= 0 {
		return p, false
	}
	p.Start += shift
	p.Stop += shift
	return p, true
}

// AdjustDuty changes the duty cycle by delta, clamped at zero.
func (p Params) AdjustDuty(delta float64) Params {
	p.DutyCycle = max(p.DutyCycle+delta, 0)
	return p
}

// AdjustHeight changes the platform height by delta; ok is false when the
// result would drop below minHeight.
func (p Params) AdjustHeight(delta float64) (Params, bool) {
	if p.Platform.Height+delta < minHeight {
		return p, false
	}
	p.Platform.Height += delta
	return p, true
}

// DiagramCache keeps recently composed diagrams keyed by their parameters.
// It holds at most size diagrams and evicts the least recently used ones
// while their combined Footprint exceeds the byte budget. The newest diagram
// is always kept.
type DiagramCache struct {
	lru    *lru.Cache[Params, cacheEntry]
	budget int
	bytes  int
	hits   int
	misses int
}

type cacheEntry struct {
	diagram *timing.Diagram
	bytes   int
}

// NewDiagramCache creates a cache of at most size diagrams and budget bytes.
func NewDiagramCache(size, budget int) (*DiagramCache, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("diagram cache: budget %d must be positive", budget)
	}
	c := &DiagramCache{budget: budget}
	l, err := lru.NewWithEvict(size, func(_ Params, e cacheEntry) {
		c.bytes -= e.bytes
	})
	if err != nil {
		return nil, fmt.Errorf("diagram cache: %w", err)
	}
	c.lru = l
	return c, nil
}

// Get returns the diagram for p, building it on a miss. Failed builds are
// not cached.
func (c *DiagramCache) Get(p Params) (*timing.Diagram, error) {
	if e, ok := c.lru.Get(p); ok {
		c.hits++
		return e.diagram, nil
	}
	c.misses++

	axis, err := geometry.PRFAxis(p.Start, p.Stop, p.Step)
	if err != nil {
		return nil, err
	}
	d, err := timing.Build(axis, p.DutyCycle, p.Platform)
	if err != nil {
		return nil, err
	}

	e := cacheEntry{diagram: d, bytes: d.Footprint()}
	c.lru.Add(p, e)
	c.bytes += e.bytes
	for c.bytes > c.budget && c.lru.Len() > 1 {
		c.lru.RemoveOldest()
	}
	return d, nil
}

// Len reports how many diagrams are cached.
func (c *DiagramCache) Len() int {
	return c.lru.Len()
}

// Bytes reports the estimated size of all cached diagrams.
func (c *DiagramCache) Bytes() int {
	return c.bytes
}

// Stats reports cache hits and misses.
func (c *DiagramCache) Stats() (hits, misses int) {
	return c.hits, c.misses
}

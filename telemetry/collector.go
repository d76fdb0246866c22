package telemetry

import "github.com/pthm-cable/ink/fluid"

// Collector accumulates activity within tick windows and produces FieldStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32
	sampler         *FieldSampler

	// Counters for the current window
	commands int
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int32, cells int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: windowTicks,
		sampler:     NewFieldSampler(cells),
	}
}

// RecordCommands counts stimulus commands applied this tick.
func (c *Collector) RecordCommands(n int) {
	c.commands += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush samples g, attaches the window counters and starts a new window.
func (c *Collector) Flush(currentTick int32, g *fluid.Grid, emitters int) FieldStats {
	stats := c.sampler.Sample(g)
	stats.WindowStartTick = c.windowStartTick
	stats.WindowEndTick = currentTick
	stats.Commands = c.commands
	stats.Emitters = emitters

	c.windowStartTick = currentTick
	c.commands = 0
	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}

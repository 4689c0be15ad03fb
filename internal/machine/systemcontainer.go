package machine

import (
	"time"

	"github.com/tstone/frontbox-go/led"
)

// timer tracks one named countdown/repeat owned by a SystemContainer.
type timer struct {
	target      time.Duration
	accumulated time.Duration
	mode        TimerMode
}

// SystemContainer is the framework-owned wrapper around a System,
// carrying its globally unique listener id and its private timer map.
// Grounded on original_source/frontbox/src/systems/system_container.rs.
type SystemContainer struct {
	ID     uint64
	Inner  System
	timers map[string]*timer
}

// NewSystemContainer wraps sys with a fresh id.
func NewSystemContainer(id uint64, sys System) *SystemContainer {
	return &SystemContainer{ID: id, Inner: sys, timers: map[string]*timer{}}
}

// SetTimer installs or replaces a named timer.
func (c *SystemContainer) SetTimer(name string, duration time.Duration, mode TimerMode) {
	c.timers[name] = &timer{target: duration, mode: mode}
}

// ClearTimer removes a named timer.
func (c *SystemContainer) ClearTimer(name string) {
	delete(c.timers, name)
}

// AdvanceTimers advances every timer by dt and returns the names that
// crossed their target this tick; OneShot timers are removed immediately
// after being reported (spec.md §3 invariant 5: delivered exactly once).
func (c *SystemContainer) AdvanceTimers(dt time.Duration) []string {
	var completed []string
	for name, t := range c.timers {
		t.accumulated += dt
		if t.accumulated < t.target {
			continue
		}
		completed = append(completed, name)
		if t.mode == OneShot {
			delete(c.timers, name)
		} else {
			t.accumulated -= t.target
		}
	}
	return completed
}

// Tick invokes the System's OnTick callback, if implemented.
func (c *SystemContainer) Tick(dt time.Duration, ctx *Context) {
	if onTick, ok := c.Inner.(OnTick); ok {
		onTick.OnTick(dt, ctx)
	}
}

// FireTimer invokes the System's OnTimer callback, if implemented.
func (c *SystemContainer) FireTimer(name string, ctx *Context) {
	if onTimer, ok := c.Inner.(OnTimer); ok {
		onTimer.OnTimer(name, ctx)
	}
}

// Leds collects this container's LED declarations for the current tick.
func (c *SystemContainer) Leds(dt time.Duration) map[string]led.State {
	if producer, ok := c.Inner.(LedProducer); ok {
		return producer.Leds(dt)
	}
	return nil
}

// Startup/Shutdown invoke the System's optional lifecycle hooks.
func (c *SystemContainer) Startup(ctx *Context) {
	if hook, ok := c.Inner.(OnStartup); ok {
		hook.OnStartup(ctx)
	}
}

func (c *SystemContainer) Shutdown(ctx *Context) {
	if hook, ok := c.Inner.(OnShutdown); ok {
		hook.OnShutdown(ctx)
	}
}

// CloneWithID deep-copies the inner System and wraps it in a fresh
// container carrying newID, used when a PlayerDistrict materializes a
// new player's scene from the initial template.
func (c *SystemContainer) CloneWithID(newID uint64) *SystemContainer {
	return NewSystemContainer(newID, c.Inner.Clone())
}

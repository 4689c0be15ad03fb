package machine

import (
	"sync/atomic"
	"time"
)

// Watchdog runs a background ticking goroutine that pushes WatchdogTick
// commands into the machine's queue at a configured interval, but only
// while enabled. It never touches shared Machine state directly.
// Grounded on original_source/frontbox/src/machine/watchdog.rs.
type Watchdog struct {
	enabled atomic.Bool
	stop    chan struct{}
}

// NewWatchdog builds a disabled Watchdog.
func NewWatchdog() *Watchdog {
	return &Watchdog{stop: make(chan struct{})}
}

// Enable/Disable toggle whether Run pushes ticks.
func (w *Watchdog) Enable()  { w.enabled.Store(true) }
func (w *Watchdog) Disable() { w.enabled.Store(false) }

// Run ticks every interval until Stop is called, sending a WatchdogTick
// command whenever the watchdog is enabled at tick time.
func (w *Watchdog) Run(interval time.Duration, queue chan<- MachineCommand) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if w.enabled.Load() {
				select {
				case queue <- MachineCommand{Kind: CmdWatchdogTick}:
				default:
				}
			}
		}
	}
}

// Stop ends the Run loop.
func (w *Watchdog) Stop() {
	close(w.stop)
}

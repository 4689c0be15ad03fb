package machine

import (
	"time"

	"github.com/tstone/frontbox-go/led"
)

// System is a user-authored unit of behavior. Every callback is optional;
// Go models this with narrow interfaces a System may additionally
// implement, type-asserted by the SystemContainer, rather than one fat
// interface with no-op default methods (the Rust source uses default
// trait methods — Go's nearest idiom is optional-interface detection,
// already used for io.Closer-style composition in the standard library).
type System interface {
	// Clone returns an independent copy with no shared mutable state,
	// used by PlayerDistrict when allocating a new player's scene.
	Clone() System
}

// OnStartup is implemented by Systems that need setup when their
// container enters a District.
type OnStartup interface {
	OnStartup(ctx *Context)
}

// OnShutdown is implemented by Systems that need teardown when their
// container leaves a District.
type OnShutdown interface {
	OnShutdown(ctx *Context)
}

// OnTick is implemented by Systems that act every SystemTick.
type OnTick interface {
	OnTick(dt time.Duration, ctx *Context)
}

// OnTimer is implemented by Systems that react to their own timers
// completing.
type OnTimer interface {
	OnTimer(name string, ctx *Context)
}

// LedProducer is implemented by Systems that declare LED state.
type LedProducer interface {
	Leds(dt time.Duration) map[string]led.State
}

// OnConfigChange is implemented by Systems that react to config updates.
type OnConfigChange interface {
	OnConfigChange(key string, ctx *Context)
}

// TimerMode selects whether a timer fires once or repeatedly.
type TimerMode uint8

const (
	OneShot TimerMode = iota
	Repeating
)

// GameState is present while a game is in progress.
type GameState struct {
	ActivePlayer uint8
	PlayerCount  uint8
}

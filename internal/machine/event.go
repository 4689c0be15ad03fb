package machine

// Event is the marker interface every built-in and user-defined event
// implements. Subscriptions are keyed by the event's concrete Go type
// (via reflect.TypeOf), the Go analogue of the Rust source's TypeId-based
// dispatch. Grounded on original_source/frontbox/src/machine/event.rs.
type Event interface {
	isFrontboxEvent()
}

type baseEvent struct{}

func (baseEvent) isFrontboxEvent() {}

// SwitchClosed fires when a switch transitions to Closed.
type SwitchClosed struct {
	baseEvent
	Switch string
}

// SwitchOpened fires when a switch transitions to Open.
type SwitchOpened struct {
	baseEvent
	Switch string
}

// TimerComplete fires when a SystemContainer's named timer crosses its
// target; it is always targeted to the owning container, never broadcast.
type TimerComplete struct {
	baseEvent
	Name string
}

// GameStarted fires once when StartGame executes.
type GameStarted struct{ baseEvent }

// GameEnded fires once when EndGame executes.
type GameEnded struct{ baseEvent }

// PlayerAdded fires when AddPlayer executes, carrying the new total.
type PlayerAdded struct {
	baseEvent
	PlayerCount uint8
}

// Package hardware models the addressable I/O surface of the mainboard
// and expansion bus: switches, drivers, power levels, and expansion
// boards with their LED ports.
package hardware

import "math"

// MaxHardwareID is the boundary below which a switch id refers to a real
// hardware input. Virtual switches are allocated at or above it, counted
// downward from the platform's maximum id.
const MaxHardwareID = 1 << 16

// MaxVirtualSwitches bounds how many virtual switches the Builder may
// register before it panics with ErrCapacity.
const MaxVirtualSwitches = 255

// virtualIDCeiling is the id virtual switch allocation counts down from,
// mirroring the Rust source's usize::MAX counting-down scheme scaled to
// a realistic Go id space.
const virtualIDCeiling = math.MaxUint32

// NextVirtualID returns the n-th (0-indexed) virtual switch id.
func NextVirtualID(n int) uint32 {
	return virtualIDCeiling - uint32(n)
}

// SwitchReportingMode controls whether a switch's reported state is
// taken verbatim, inverted, or not reported at all.
type SwitchReportingMode uint8

const (
	ReportNone SwitchReportingMode = iota
	ReportNormal
	ReportInverted
)

// Switch is an immutable identity: a unique id paired with a unique name.
type Switch struct {
	ID   uint32
	Name string
}

// SwitchConfig carries the debounce/inversion parameters attached to a
// configured switch. Nil Debounce* values mean "use the device default"
// (2ms close / 20ms open, returned by CloseMs/OpenMs, which
// protocol.NewConfigureSwitchCommand reads).
type SwitchConfig struct {
	Inverted      bool
	DebounceClose *uint32 // milliseconds; nil -> default
	DebounceOpen  *uint32 // milliseconds; nil -> default
	Reporting     SwitchReportingMode
}

// DefaultDebounceCloseMs / DefaultDebounceOpenMs are the device defaults
// applied when a SwitchConfig leaves debounce unset.
const (
	DefaultDebounceCloseMs uint32 = 2
	DefaultDebounceOpenMs  uint32 = 20
)

func (c SwitchConfig) CloseMs() uint32 {
	if c.DebounceClose != nil {
		return *c.DebounceClose
	}
	return DefaultDebounceCloseMs
}

func (c SwitchConfig) OpenMs() uint32 {
	if c.DebounceOpen != nil {
		return *c.DebounceOpen
	}
	return DefaultDebounceOpenMs
}

// SwitchState is Open or Closed.
type SwitchState uint8

const (
	Open SwitchState = iota
	Closed
)

func (s SwitchState) String() string {
	if s == Closed {
		return "Closed"
	}
	return "Open"
}

package machine

import (
	"github.com/tstone/frontbox-go/hardware"
)

// SwitchContext is the single authoritative record of every switch's
// current state, indexed both by id and by name, with per-switch config
// (inversion, debounce, reporting mode). Grounded on
// original_source/frontbox/src/machine/switch_context.rs.
type SwitchContext struct {
	byID     map[uint32]*hardware.Switch
	byName   map[string]*hardware.Switch
	isClosed map[uint32]bool
	configs  map[uint32]hardware.SwitchConfig

	nextVirtual int
}

// NewSwitchContext builds an empty context.
func NewSwitchContext() *SwitchContext {
	return &SwitchContext{
		byID:     map[uint32]*hardware.Switch{},
		byName:   map[string]*hardware.Switch{},
		isClosed: map[uint32]bool{},
		configs:  map[uint32]hardware.SwitchConfig{},
	}
}

// Register adds a configured (hardware) switch to both indexes.
func (sc *SwitchContext) Register(sw hardware.Switch, cfg hardware.SwitchConfig) {
	s := sw
	sc.byID[sw.ID] = &s
	sc.byName[sw.Name] = &s
	sc.configs[sw.ID] = cfg
}

// AddVirtualSwitch registers a switch whose id is outside the hardware
// range (package-private in the Rust source; exported here since Go has
// no crate-private visibility, but callers outside the Builder should
// not call it directly).
func (sc *SwitchContext) AddVirtualSwitch(name string) (hardware.Switch, error) {
	if sc.nextVirtual >= hardware.MaxVirtualSwitches {
		return hardware.Switch{}, errCapacity
	}
	id := hardware.NextVirtualID(sc.nextVirtual)
	sc.nextVirtual++
	sw := hardware.Switch{ID: id, Name: name}
	sc.Register(sw, hardware.SwitchConfig{})
	return sw, nil
}

// UpdateSwitchState applies one asynchronous hardware event verbatim:
// the device has already applied its configured inversion, so state is
// taken as-is.
func (sc *SwitchContext) UpdateSwitchState(id uint32, state hardware.SwitchState) {
	sc.isClosed[id] = state == hardware.Closed
}

// UpdateSwitchStates applies a bulk report, XOR-ing each switch's
// configured inversion in (bulk reports never have inversion applied by
// the device).
func (sc *SwitchContext) UpdateSwitchStates(report map[uint32]hardware.SwitchState) {
	for id, state := range report {
		closed := state == hardware.Closed
		if cfg, ok := sc.configs[id]; ok && cfg.Inverted {
			closed = !closed
		}
		sc.isClosed[id] = closed
	}
}

// IsClosedByID reports a switch's current state by id.
func (sc *SwitchContext) IsClosedByID(id uint32) (bool, bool) {
	v, ok := sc.isClosed[id]
	return v, ok
}

// IsClosedByName reports a switch's current state by name.
func (sc *SwitchContext) IsClosedByName(name string) *bool {
	sw, ok := sc.byName[name]
	if !ok {
		return nil
	}
	v, ok := sc.isClosed[sw.ID]
	if !ok {
		return nil
	}
	return &v
}

// IsOpenByName is the complement of IsClosedByName.
func (sc *SwitchContext) IsOpenByName(name string) *bool {
	closed := sc.IsClosedByName(name)
	if closed == nil {
		return nil
	}
	open := !*closed
	return &open
}

// NameByID resolves a switch id back to its name, if known.
func (sc *SwitchContext) NameByID(id uint32) (string, bool) {
	sw, ok := sc.byID[id]
	if !ok {
		return "", false
	}
	return sw.Name, true
}

// IDByName resolves a switch name to its id, if known.
func (sc *SwitchContext) IDByName(name string) (uint32, bool) {
	sw, ok := sc.byName[name]
	if !ok {
		return 0, false
	}
	return sw.ID, true
}

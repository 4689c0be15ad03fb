package machine

import (
	"reflect"
	"time"

	"github.com/tstone/frontbox-go/hardware"
)

// Context bridges Systems to the Machine for the duration of one
// callback. Every mutating method enqueues a MachineCommand rather than
// touching shared state directly (spec.md §4.7/§5). Grounded on
// original_source/frontbox/src/machine/context.rs.
type Context struct {
	sender      chan<- MachineCommand
	stores      map[string]*StoreContext
	switches    *SwitchContext
	gameState   *GameState
	config      *ConfigContext
	listenerID  uint64
	districtKey string
}

// NewContext builds a Context for one callback invocation.
func NewContext(
	sender chan<- MachineCommand,
	stores map[string]*Store,
	switches *SwitchContext,
	gameState *GameState,
	config *MachineConfig,
	listenerID uint64,
	districtKey string,
) *Context {
	storeContexts := make(map[string]*StoreContext, len(stores))
	for key, store := range stores {
		storeContexts[key] = &StoreContext{sender: sender, store: store, districtKey: key}
	}
	return &Context{
		sender:      sender,
		stores:      storeContexts,
		switches:    switches,
		gameState:   gameState,
		config:      &ConfigContext{sender: sender, config: config},
		listenerID:  listenerID,
		districtKey: districtKey,
	}
}

func (c *Context) Config() *ConfigContext { return c.config }

// KeyedStore returns the StoreContext for a named district.
func (c *Context) KeyedStore(key string) (*StoreContext, bool) {
	sc, ok := c.stores[key]
	return sc, ok
}

// Store returns the StoreContext for the calling listener's own district.
func (c *Context) Store() *StoreContext {
	return c.stores[c.districtKey]
}

func (c *Context) IsSwitchClosed(name string) *bool { return c.switches.IsClosedByName(name) }
func (c *Context) IsSwitchOpen(name string) *bool   { return c.switches.IsOpenByName(name) }

func (c *Context) IsGameStarted() bool { return c.gameState != nil }

func (c *Context) ActivePlayer() (uint8, bool) {
	if c.gameState == nil {
		return 0, false
	}
	return c.gameState.ActivePlayer, true
}

func (c *Context) send(cmd MachineCommand) {
	select {
	case c.sender <- cmd:
	default:
		// The command queue is a buffered channel (256 slots in
		// NewMachine); when it is full the enqueue is dropped rather
		// than blocking the caller (spec.md §3 invariant 6: no user
		// System blocks).
	}
}

func (c *Context) SetTimer(name string, duration time.Duration, mode TimerMode) {
	c.send(MachineCommand{Kind: CmdSetTimer, DistrictKey: c.districtKey, SystemID: c.listenerID, TimerName: name, TimerDur: duration, TimerMode: mode})
}

func (c *Context) ClearTimer(name string) {
	c.send(MachineCommand{Kind: CmdClearTimer, DistrictKey: c.districtKey, SystemID: c.listenerID, TimerName: name})
}

func (c *Context) StartGame()     { c.send(MachineCommand{Kind: CmdStartGame}) }
func (c *Context) EndGame()       { c.send(MachineCommand{Kind: CmdEndGame}) }
func (c *Context) AddPlayer()     { c.send(MachineCommand{Kind: CmdAddPlayer}) }
func (c *Context) AdvancePlayer() { c.send(MachineCommand{Kind: CmdAdvancePlayer}) }

func (c *Context) InsertDistrict(key string, factory func() District) {
	c.send(MachineCommand{Kind: CmdInsertDistrict, DistrictKey: key, DistrictFactory: factory})
}

func (c *Context) RemoveDistrict(key string) {
	c.send(MachineCommand{Kind: CmdRemoveDistrict, DistrictKey: key})
}

func (c *Context) AddSystem(sys System) {
	c.send(MachineCommand{Kind: CmdAddSystem, DistrictKey: c.districtKey, System: sys})
}

func (c *Context) ReplaceSystem(sys System) {
	c.send(MachineCommand{Kind: CmdReplaceSystem, DistrictKey: c.districtKey, SystemID: c.listenerID, System: sys})
}

func (c *Context) TerminateSystem() {
	c.send(MachineCommand{Kind: CmdTerminateSystem, DistrictKey: c.districtKey, SystemID: c.listenerID})
}

func (c *Context) ConfigureDriver(name string, cfg hardware.DriverConfig) {
	c.send(MachineCommand{Kind: CmdConfigureDriver, DriverName: name, DriverCfg: cfg})
}

func (c *Context) TriggerDriver(name string, mode hardware.DriverTriggerControlMode) {
	c.send(MachineCommand{Kind: CmdTriggerDriver, DriverName: name, TriggerMode: mode})
}

// TriggerDelayedDriver triggers a driver after delay has elapsed; the
// delay is honored cooperatively inside command execution (spec.md
// §4.8), not by a separate timer.
func (c *Context) TriggerDelayedDriver(name string, mode hardware.DriverTriggerControlMode, delay time.Duration) {
	d := delay
	c.send(MachineCommand{Kind: CmdTriggerDriver, DriverName: name, TriggerMode: mode, TriggerDelay: &d})
}

// Subscribe registers callback for events of type T.
func Subscribe[T Event](c *Context, callback func(T, *Context)) {
	var zero T
	eventType := reflect.TypeOf(zero)
	c.send(MachineCommand{
		Kind:        CmdSubscribeEvent,
		DistrictKey: c.districtKey,
		SystemID:    c.listenerID,
		EventType:   eventType,
		Callback: func(e Event, ctx *Context) {
			if typed, ok := e.(T); ok {
				callback(typed, ctx)
			}
		},
	})
}

// Unsubscribe removes the calling listener's subscription to T.
func Unsubscribe[T Event](c *Context) {
	var zero T
	c.send(MachineCommand{Kind: CmdUnsubscribeEvent, SystemID: c.listenerID, EventType: reflect.TypeOf(zero)})
}

// Emit broadcasts event to every subscriber of its concrete type.
func (c *Context) Emit(event Event) {
	c.send(MachineCommand{Kind: CmdEmitEvent, Event: event})
}

// target sends event only to the listeners named in targets. Mirrors the
// Rust source's pub(crate) visibility: unexported, so it is not part of
// the public Context surface. Timer completion does not go through it;
// the Machine emits TimerComplete through the dispatcher directly.
func (c *Context) target(targets map[uint64]bool, event Event) {
	c.send(MachineCommand{Kind: CmdTargetEvent, Targets: targets, Event: event})
}

// StoreContext is a read-mostly view of one district's Store: direct
// reads, mutation only via an enqueued closure.
type StoreContext struct {
	sender      chan<- MachineCommand
	store       *Store
	districtKey string
}

func (sc *StoreContext) Exists() bool { return sc.store != nil }

func StoreGet[T any](sc *StoreContext) (T, bool) {
	return Get[T](sc.store)
}

// With enqueues a mutator to run against this district's Store during
// command execution.
func (sc *StoreContext) With(mutator func(*Store)) {
	select {
	case sc.sender <- MachineCommand{Kind: CmdStoreWrite, DistrictKey: sc.districtKey, StoreMutator: mutator}:
	default:
	}
}

// ConfigContext is the capability bag's view of MachineConfig: direct
// reads, mutation only via an enqueued SetConfigValue command.
type ConfigContext struct {
	sender chan<- MachineCommand
	config *MachineConfig
}

func (cc *ConfigContext) Get(key string) (ConfigValue, bool) {
	return cc.config.GetValue(key)
}

func (cc *ConfigContext) Set(key string, value ConfigValue) {
	select {
	case cc.sender <- MachineCommand{Kind: CmdSetConfigValue, ConfigKey: key, ConfigValue: value}:
	default:
	}
}

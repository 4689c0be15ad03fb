package machine

import (
	"errors"
	"time"

	"github.com/tstone/frontbox-go/hardware"
	"github.com/tstone/frontbox-go/internal/diagnostics"
	"github.com/tstone/frontbox-go/led"
	"github.com/tstone/frontbox-go/protocol"
	"github.com/tstone/frontbox-go/term"
)

// Machine is the single-threaded runtime owning both serial ports, all
// Districts, the switch context, dispatcher, config, and watchdog.
// Grounded on original_source/frontbox-main/src/mainboard.rs's
// tokio::select! loop.
type Machine struct {
	ioPort  *protocol.Port
	expPort *protocol.Port

	switches   *SwitchContext
	districts  map[string]District
	dispatcher *Dispatcher
	config     *MachineConfig
	watchdog   *Watchdog
	renderer   *led.Renderer
	drivers    map[string]hardware.Driver
	boards     []hardware.ExpansionBoard
	keyToSwitch map[rune]string

	gameState *GameState

	commandQueue chan MachineCommand
	shuttingDown bool

	diag *diagnostics.Hub
}

// SetDiagnosticsHub attaches a read-only WebSocket broadcast hub; nil
// (the default) disables diagnostics entirely with no overhead beyond a
// nil check per event.
func (m *Machine) SetDiagnosticsHub(h *diagnostics.Hub) {
	m.diag = h
}

// NewMachine builds a Machine ready for the Builder to configure.
func NewMachine(ioPort, expPort *protocol.Port, addresses map[string]led.Address) *Machine {
	return &Machine{
		ioPort:      ioPort,
		expPort:     expPort,
		switches:    NewSwitchContext(),
		districts:   map[string]District{},
		dispatcher:  NewDispatcher(),
		config:      NewMachineConfig(),
		watchdog:    NewWatchdog(),
		renderer:    led.NewRenderer(addresses),
		drivers:     map[string]hardware.Driver{},
		keyToSwitch: map[rune]string{},
		commandQueue: make(chan MachineCommand, 256),
	}
}

func (m *Machine) Switches() *SwitchContext  { return m.switches }
func (m *Machine) Config() *MachineConfig    { return m.config }
func (m *Machine) Queue() chan<- MachineCommand { return m.commandQueue }

// InsertDistrict registers a District under key, for use by the Builder
// before Run starts (after Run starts, use InsertDistrict command).
func (m *Machine) InsertDistrict(key string, d District) {
	m.districts[key] = d
}

// RegisterDriver records a configured driver for later TriggerDriver
// lookups.
func (m *Machine) RegisterDriver(d hardware.Driver) {
	m.drivers[d.Name] = d
}

// RegisterBoards records the expansion boards configured at boot, used
// by ResetExpansionNetwork.
func (m *Machine) RegisterBoards(boards []hardware.ExpansionBoard) {
	m.boards = boards
}

// MapKey binds a keyboard key to a switch name (virtual or hardware).
func (m *Machine) MapKey(key rune, switchName string) {
	m.keyToSwitch[key] = switchName
}

func (m *Machine) newContext(listenerID uint64, districtKey string) *Context {
	stores := make(map[string]*Store, len(m.districts))
	for key, d := range m.districts {
		stores[key] = d.CurrentStore()
	}
	return NewContext(m.commandQueue, stores, m.switches, m.gameState, m.config, listenerID, districtKey)
}

func (m *Machine) findContainer(id uint64) (*SystemContainer, string, bool) {
	for key, d := range m.districts {
		for _, c := range d.CurrentScene() {
			if c.ID == id {
				return c, key, true
			}
		}
	}
	return nil, "", false
}

// Run drains the command queue until a Shutdown command executes. It
// also starts the Machine's own watchdog ticker and serial ingestion
// loop, so both live for exactly the Machine's lifetime; callers may
// additionally feed Key commands (and their own synthetic commands)
// from other goroutines.
func (m *Machine) Run() {
	tick := 1000 * time.Millisecond
	if v, ok := m.config.GetValue("watchdog.tick_ms"); ok {
		tick = time.Duration(v.AsInteger()) * time.Millisecond
	}
	go m.watchdog.Run(tick, m.commandQueue)
	go m.readHardwareEvents()

	for cmd := range m.commandQueue {
		m.execute(cmd)
		if m.shuttingDown {
			return
		}
	}
}

// readHardwareEvents is the Machine-owned serial ingestion loop: it
// blocks on ioPort.ReadEvent(), decodes each record as a switch
// transition, and enqueues it as a HardwareEvent command so real "-L"/
// "/L" closures interleave with every other command in strict arrival
// order. Exits once the io port is closed at shutdown.
func (m *Machine) readHardwareEvents() {
	for {
		rec, err := m.ioPort.ReadEvent()
		if err != nil {
			if errors.Is(err, protocol.ErrPortClosed) {
				return
			}
			continue
		}
		evt, matched, err := protocol.ParseSwitchEvent(rec)
		if err != nil || !matched {
			continue
		}
		select {
		case m.commandQueue <- MachineCommand{Kind: CmdHardwareEvent, HardwareEvent: evt}:
		default:
			term.Warnf("machine: command queue full, dropping hardware event for switch %d", evt.SwitchID)
		}
	}
}

func (m *Machine) execute(cmd MachineCommand) {
	switch cmd.Kind {
	case CmdStartGame:
		m.doStartGame()
	case CmdEndGame:
		m.doEndGame()
	case CmdAddPlayer:
		m.doAddPlayer()
	case CmdAdvancePlayer:
		m.doAdvancePlayer()

	case CmdInsertDistrict:
		m.districts[cmd.DistrictKey] = cmd.DistrictFactory()
	case CmdRemoveDistrict:
		m.dispatcher.RemoveDistrictListeners(cmd.DistrictKey)
		delete(m.districts, cmd.DistrictKey)
	case CmdAddSystem:
		if d, ok := m.districts[cmd.DistrictKey]; ok {
			d.AddSystem(NewSystemContainer(NextListenerID(), cmd.System))
		} else {
			term.Warnf("machine: AddSystem: unknown district %q", cmd.DistrictKey)
		}
	case CmdReplaceSystem:
		if d, ok := m.districts[cmd.DistrictKey]; ok {
			d.ReplaceSystem(cmd.SystemID, NewSystemContainer(cmd.SystemID, cmd.System))
		}
	case CmdTerminateSystem:
		if d, ok := m.districts[cmd.DistrictKey]; ok {
			m.dispatcher.UnsubscribeAll(cmd.SystemID)
			d.TerminateSystem(cmd.SystemID)
		}

	case CmdConfigureDriver:
		m.doConfigureDriver(cmd.DriverName, cmd.DriverCfg)
	case CmdTriggerDriver:
		m.doTriggerDriver(cmd.DriverName, cmd.TriggerMode, cmd.TriggerDelay)
	case CmdHardwareEvent:
		m.doHardwareEvent(cmd.HardwareEvent)
	case CmdKey:
		m.doKey(cmd.KeyEvent)
	case CmdResetExpansionNetwork:
		m.doResetExpansionNetwork()

	case CmdSetTimer:
		if c, _, ok := m.findContainer(cmd.SystemID); ok {
			c.SetTimer(cmd.TimerName, cmd.TimerDur, cmd.TimerMode)
		}
	case CmdClearTimer:
		if c, _, ok := m.findContainer(cmd.SystemID); ok {
			c.ClearTimer(cmd.TimerName)
		}
	case CmdSystemTick:
		m.doSystemTick(cmd.TimerDur)
	case CmdWatchdogTick:
		m.doWatchdogTick()

	case CmdSubscribeEvent:
		m.dispatcher.Subscribe(cmd.EventType, cmd.SystemID, cmd.DistrictKey, cmd.Callback)
	case CmdUnsubscribeEvent:
		m.dispatcher.Unsubscribe(cmd.EventType, cmd.SystemID)
	case CmdEmitEvent:
		m.dispatcher.Emit(nil, cmd.Event, m.newContext)
	case CmdTargetEvent:
		m.dispatcher.Emit(cmd.Targets, cmd.Event, m.newContext)

	case CmdStoreWrite:
		if d, ok := m.districts[cmd.DistrictKey]; ok {
			cmd.StoreMutator(d.CurrentStore())
		}
	case CmdSetConfigValue:
		m.config.SetValue(cmd.ConfigKey, cmd.ConfigValue)
		m.notifyConfigChange(cmd.ConfigKey)
	case CmdShutdown:
		m.doShutdown()
	}
}

func (m *Machine) doStartGame() {
	m.gameState = &GameState{PlayerCount: 1, ActivePlayer: 0}
	m.watchdog.Enable()
	if report, err := m.ioPort.Request(protocol.ReportSwitchesCommand{}, "sa", time.Second); err == nil {
		if states, err := protocol.ParseSwitchReport(report.Body); err == nil {
			m.switches.UpdateSwitchStates(states)
		}
	}
	for _, d := range m.districts {
		d.OnDistrictEnter(m.containerContext)
	}
	m.dispatcher.Emit(nil, GameStarted{}, m.newContext)
	if m.diag != nil {
		m.diag.Broadcast(diagnostics.Event{Type: diagnostics.EventGame, Data: map[string]any{"state": "started"}})
	}
}

func (m *Machine) doEndGame() {
	for _, d := range m.districts {
		d.OnDistrictExit(m.containerContext)
	}
	m.watchdog.Disable()
	m.gameState = nil
	m.dispatcher.Emit(nil, GameEnded{}, m.newContext)
	if m.diag != nil {
		m.diag.Broadcast(diagnostics.Event{Type: diagnostics.EventGame, Data: map[string]any{"state": "ended"}})
	}
}

func (m *Machine) doAddPlayer() {
	if m.gameState == nil {
		return
	}
	m.gameState.PlayerCount++
	newIdx := m.gameState.PlayerCount - 1
	for _, d := range m.districts {
		d.OnAddPlayer(newIdx)
	}
	m.dispatcher.Emit(nil, PlayerAdded{PlayerCount: m.gameState.PlayerCount}, m.newContext)
}

func (m *Machine) doAdvancePlayer() {
	if m.gameState == nil || m.gameState.PlayerCount == 0 {
		return
	}
	m.gameState.ActivePlayer = (m.gameState.ActivePlayer + 1) % m.gameState.PlayerCount
	for _, d := range m.districts {
		d.OnChangePlayer(m.gameState.ActivePlayer)
	}
}

func (m *Machine) containerContext(c *SystemContainer) *Context {
	_, key, _ := m.findContainer(c.ID)
	return m.newContext(c.ID, key)
}

func (m *Machine) doConfigureDriver(name string, cfg hardware.DriverConfig) {
	driver, ok := m.drivers[name]
	if !ok {
		term.Warnf("machine: ConfigureDriver: unknown driver %q", name)
		return
	}
	wire, err := cfg.ToWire(driver.ID)
	if err != nil {
		term.Errorf("machine: ConfigureDriver %q: %v", name, err)
		return
	}
	rec, err := m.ioPort.Request(protocol.RawCommand(wire), "dl", time.Second)
	if err != nil {
		term.Errorf("machine: ConfigureDriver %q: %v", name, err)
		return
	}
	if status, err := protocol.ParseStatusReply(rec); err != nil || status != protocol.Processed {
		term.Errorf("machine: ConfigureDriver %q rejected: %v", name, err)
		return
	}
	driver.Config = cfg
	m.drivers[name] = driver
}

func (m *Machine) doTriggerDriver(name string, mode hardware.DriverTriggerControlMode, delay *time.Duration) {
	driver, ok := m.drivers[name]
	if !ok {
		term.Warnf("machine: TriggerDriver: unknown driver %q", name)
		return
	}
	if delay != nil {
		time.Sleep(*delay) // cooperative: intentionally serializes the queue, per spec.md §4.8
	}
	cmd := protocol.TriggerDriverCommand{DriverID: driver.ID, Mode: mode}
	if err := m.ioPort.Send(cmd.ToWire()); err != nil {
		term.Errorf("machine: TriggerDriver %q: %v", name, err)
	}
}

func (m *Machine) doHardwareEvent(evt protocol.SwitchEvent) {
	name, ok := m.switches.NameByID(evt.SwitchID)
	if !ok {
		term.Warnf("machine: hardware event for unknown switch id %d", evt.SwitchID)
		return
	}
	m.switches.UpdateSwitchState(evt.SwitchID, evt.State)
	if evt.State == hardware.Closed {
		m.dispatcher.Emit(nil, SwitchClosed{Switch: name}, m.newContext)
	} else {
		m.dispatcher.Emit(nil, SwitchOpened{Switch: name}, m.newContext)
	}
	if m.diag != nil {
		m.diag.Broadcast(diagnostics.Event{Type: diagnostics.EventSwitch, Data: map[string]any{
			"switch": name, "closed": evt.State == hardware.Closed,
		}})
	}
}

func (m *Machine) doKey(key rune) {
	name, ok := m.keyToSwitch[key]
	if !ok {
		return
	}
	id, ok := m.switches.IDByName(name)
	if !ok {
		return
	}
	closed, _ := m.switches.IsClosedByID(id)
	next := hardware.Open
	if !closed {
		next = hardware.Closed
	}
	m.doHardwareEvent(protocol.SwitchEvent{SwitchID: id, State: next})
}

func (m *Machine) doResetExpansionNetwork() {
	for _, board := range m.boards {
		cmd := protocol.BoardResetCommand{Board: board.Address, Breakout: board.Breakout}
		if err := m.expPort.Send(cmd.ToWire()); err != nil {
			term.Errorf("machine: ResetExpansionNetwork board %d: %v", board.Address, err)
		}
	}
}

func (m *Machine) doSystemTick(dt time.Duration) {
	decl := led.Declarations{}
	for key, d := range m.districts {
		for _, c := range d.CurrentScene() {
			completed := c.AdvanceTimers(dt)
			for _, name := range completed {
				ctx := m.newContext(c.ID, key)
				c.FireTimer(name, ctx)
				m.dispatcher.Emit(map[uint64]bool{c.ID: true}, TimerComplete{Name: name}, m.newContext)
			}
			ctx := m.newContext(c.ID, key)
			c.Tick(dt, ctx)
			if leds := c.Leds(dt); leds != nil {
				decl[c.ID] = leds
			}
		}
	}
	for _, cmd := range m.renderer.Render(dt, decl) {
		if err := m.expPort.Send(cmd.ToWire()); err != nil {
			term.Errorf("machine: SetLed: %v", err)
		}
		if m.diag != nil {
			m.diag.Broadcast(diagnostics.Event{Type: diagnostics.EventLed, Data: cmd})
		}
	}
}

func (m *Machine) doWatchdogTick() {
	const watchdogMillis = 1250
	cmd := protocol.WatchdogSet(watchdogMillis)
	rec, err := m.ioPort.Request(cmd, "wd", time.Second)
	if err != nil {
		term.Warnf("machine: watchdog tick: %v", err)
		return
	}
	if _, err := protocol.ParseWatchdogReply(rec); err != nil {
		term.Warnf("machine: watchdog reply parse: %v", err)
	}
}

func (m *Machine) notifyConfigChange(key string) {
	for dKey, d := range m.districts {
		for _, c := range d.CurrentScene() {
			if hook, ok := c.Inner.(OnConfigChange); ok {
				hook.OnConfigChange(key, m.newContext(c.ID, dKey))
			}
		}
	}
}

func (m *Machine) doShutdown() {
	m.watchdog.Disable()
	m.ioPort.Send(protocol.WatchdogDisable().ToWire())
	m.doResetExpansionNetwork()
	m.watchdog.Stop()
	m.ioPort.Close()
	m.expPort.Close()
	m.shuttingDown = true
}

package machine

import (
	"fmt"
	"time"

	"github.com/tstone/frontbox-go/hardware"
	"github.com/tstone/frontbox-go/led"
	"github.com/tstone/frontbox-go/protocol"
	"github.com/tstone/frontbox-go/term"
)

// SwitchSpec is one switch configured during boot.
type SwitchSpec struct {
	ID        uint32
	Name      string
	Config    hardware.SwitchConfig
}

// DriverSpec is one driver configured during boot.
type DriverSpec struct {
	ID     uint32
	Name   string
	Config hardware.DriverConfig
}

// KeyMapping binds a keyboard rune to a virtual switch name, registered
// alongside the switch itself.
type KeyMapping struct {
	Key        rune
	SwitchName string
}

// Builder assembles a Machine through the boot handshake described in
// spec.md §4.10. Each Step fails fast (panics) if the hardware rejects a
// boot command, matching the teacher main.go's checkVersion/
// autoDetectPort retry-then-fatal posture.
type Builder struct {
	ioPortName  string
	expPortName string
	platform    hardware.FastPlatform
	verbose     bool

	switches     []SwitchSpec
	virtualNames []string
	keyMappings  []KeyMapping
	drivers      []DriverSpec
	boards       []hardware.ExpansionBoard
	ledAddresses map[string]led.Address
}

// NewBuilder begins a Builder targeting the given serial device paths.
func NewBuilder(ioPortName, expPortName string, platform hardware.FastPlatform) *Builder {
	return &Builder{
		ioPortName:   ioPortName,
		expPortName:  expPortName,
		platform:     platform,
		verbose:      true,
		ledAddresses: map[string]led.Address{},
	}
}

// Verbose toggles switch-reporting verbosity sent with ConfigureHardware.
func (b *Builder) Verbose(v bool) *Builder {
	b.verbose = v
	return b
}

// WithSwitch registers a hardware switch to configure at boot.
func (b *Builder) WithSwitch(spec SwitchSpec) *Builder {
	b.switches = append(b.switches, spec)
	return b
}

// WithVirtualSwitch registers a software-only switch with no hardware id,
// typically driven by a keyboard mapping.
func (b *Builder) WithVirtualSwitch(name string) *Builder {
	b.virtualNames = append(b.virtualNames, name)
	return b
}

// WithKeyMapping binds a keyboard key to a switch name (virtual or
// hardware) once the Machine is running.
func (b *Builder) WithKeyMapping(key rune, switchName string) *Builder {
	b.keyMappings = append(b.keyMappings, KeyMapping{Key: key, SwitchName: switchName})
	return b
}

// WithDriver registers a driver to configure at boot.
func (b *Builder) WithDriver(spec DriverSpec) *Builder {
	b.drivers = append(b.drivers, spec)
	return b
}

// WithExpansionBoard registers an expansion board; its LedPorts are wired
// to named LEDs at the given starting Address.
func (b *Builder) WithExpansionBoard(board hardware.ExpansionBoard) *Builder {
	b.boards = append(b.boards, board)
	for _, port := range board.LedPorts {
		for i, name := range port.Leds {
			b.ledAddresses[name] = led.Address{
				Board:    board.Address,
				Breakout: board.Breakout,
				Port:     port.Port,
				Index:    uint16(port.Start + i),
			}
		}
	}
	return b
}

// Build runs the full boot handshake and returns a running-ready Machine.
// Every step panics on a rejected command, per spec.md §4.10's "each step
// fails fast to panic if hardware rejects the command".
func (b *Builder) Build() (*Machine, error) {
	ioPort, err := protocol.OpenPort(b.ioPortName)
	if err != nil {
		return nil, fmt.Errorf("machine: open io port: %w", err)
	}

	report := protocol.RequestUntilMatch(ioPort, protocol.IdCommand{}, "id", 500*time.Millisecond,
		func(rec protocol.Record) (protocol.IdReport, bool) {
			r, err := protocol.ParseIdReply(rec)
			if err != nil {
				return protocol.IdReport{}, false
			}
			return r, true
		})
	term.Infof("machine: boot: processor=%s product=%s firmware=%s", report.Processor, report.Product, report.Firmware)

	chCmd := protocol.ConfigureHardwareCommand{Platform: b.platform, Verbose: b.verbose}
	chRec, err := ioPort.Request(chCmd, "ch", time.Second)
	if err != nil {
		panic(fmt.Sprintf("machine: boot: ConfigureHardware: %v", err))
	}
	if status, err := protocol.ParseStatusReply(chRec); err != nil || status != protocol.Processed {
		panic(fmt.Sprintf("machine: boot: ConfigureHardware rejected: %v", err))
	}

	protocol.RequestUntilMatch(ioPort, protocol.WatchdogSet(1250), "wd", time.Second,
		func(rec protocol.Record) (struct{}, bool) {
			reply, err := protocol.ParseWatchdogReply(rec)
			if err != nil || reply.Kind != protocol.WatchdogProcessed {
				return struct{}{}, false
			}
			return struct{}{}, true
		})

	switches := NewSwitchContext()
	for _, spec := range b.switches {
		switches.Register(hardware.Switch{ID: spec.ID, Name: spec.Name}, spec.Config)
		slCmd := protocol.NewConfigureSwitchCommand(spec.ID, spec.Config)
		rec, err := ioPort.Request(slCmd, "sl", time.Second)
		if err != nil {
			panic(fmt.Sprintf("machine: boot: ConfigureSwitch %q: %v", spec.Name, err))
		}
		if status, err := protocol.ParseStatusReply(rec); err != nil || status != protocol.Processed {
			panic(fmt.Sprintf("machine: boot: ConfigureSwitch %q rejected: %v", spec.Name, err))
		}
	}
	for _, name := range b.virtualNames {
		if _, err := switches.AddVirtualSwitch(name); err != nil {
			panic(fmt.Sprintf("machine: boot: virtual switch %q: %v", name, err))
		}
	}

	saRec, err := ioPort.Request(protocol.ReportSwitchesCommand{}, "sa", time.Second)
	if err != nil {
		panic(fmt.Sprintf("machine: boot: ReportSwitches: %v", err))
	}
	states, err := protocol.ParseSwitchReport(saRec.Body)
	if err != nil {
		panic(fmt.Sprintf("machine: boot: ReportSwitches parse: %v", err))
	}
	switches.UpdateSwitchStates(states)

	drivers := map[string]hardware.Driver{}
	for _, spec := range b.drivers {
		driver := hardware.Driver{ID: spec.ID, Name: spec.Name, Config: spec.Config}
		wire, err := spec.Config.ToWire(spec.ID)
		if err != nil {
			panic(fmt.Sprintf("machine: boot: ConfigureDriver %q: %v", spec.Name, err))
		}
		rec, err := ioPort.Request(protocol.RawCommand(wire), "dl", time.Second)
		if err != nil {
			panic(fmt.Sprintf("machine: boot: ConfigureDriver %q: %v", spec.Name, err))
		}
		if status, err := protocol.ParseStatusReply(rec); err != nil || status != protocol.Processed {
			panic(fmt.Sprintf("machine: boot: ConfigureDriver %q rejected: %v", spec.Name, err))
		}
		drivers[spec.Name] = driver
	}

	expPort, err := protocol.OpenPort(b.expPortName)
	if err != nil {
		return nil, fmt.Errorf("machine: open expansion port: %w", err)
	}
	for _, board := range b.boards {
		if board.Breakout != nil {
			continue
		}
		resetCmd := protocol.BoardResetCommand{Board: board.Address, Breakout: board.Breakout}
		if err := expPort.Send(resetCmd.ToWire()); err != nil {
			panic(fmt.Sprintf("machine: boot: BoardReset %d: %v", board.Address, err))
		}
		for _, port := range board.LedPorts {
			cfgCmd := protocol.ConfigureLedPortCommand{
				Board:    board.Address,
				Breakout: board.Breakout,
				Port:     port.Port,
				LedType:  port.LedType,
				Start:    port.Start,
				Count:    len(port.Leds),
			}
			if err := expPort.Send(cfgCmd.ToWire()); err != nil {
				panic(fmt.Sprintf("machine: boot: ConfigureLedPort board=%d port=%d: %v", board.Address, port.Port, err))
			}
		}
	}

	m := NewMachine(ioPort, expPort, b.ledAddresses)
	m.switches = switches
	for name, d := range drivers {
		m.drivers[name] = d
	}
	m.RegisterBoards(b.boards)
	for _, mapping := range b.keyMappings {
		m.MapKey(mapping.Key, mapping.SwitchName)
	}
	return m, nil
}

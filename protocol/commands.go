package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tstone/frontbox-go/hardware"
)

// Command is anything that can render itself onto the wire. Most commands
// additionally expose a typed reply parser (ParseXReply functions below)
// rather than a single polymorphic Reply type, since Go has no sum type
// to carry heterogeneous reply shapes the way the Rust source's
// `Reply` enum does.
type Command interface {
	ToWire() string
}

// ReplyStatus is the generic Processed|Failed shape most boot commands
// reply with.
type ReplyStatus uint8

const (
	Processed ReplyStatus = iota
	Failed
)

// ParseStatusReply parses a bare "P"/"F" body.
func ParseStatusReply(rec Record) (ReplyStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(rec.Body)) {
	case "P":
		return Processed, nil
	case "F":
		return Failed, ErrProtocolFailed
	default:
		return 0, ErrProtocolParse
	}
}

// IdCommand requests the processor/product/firmware identification.
type IdCommand struct{}

func (IdCommand) ToWire() string { return "ID:\r" }

// IdReport is the parsed reply to IdCommand.
type IdReport struct {
	Processor string
	Product   string
	Firmware  string
}

// ParseIdReply parses "FP-CPU-002  3208 2.00" style bodies: processor,
// product, and firmware separated by whitespace.
func ParseIdReply(rec Record) (IdReport, error) {
	fields := strings.Fields(rec.Body)
	if len(fields) < 3 {
		return IdReport{}, ErrProtocolParse
	}
	return IdReport{
		Processor: fields[0],
		Product:   fields[1],
		Firmware:  fields[2],
	}, nil
}

// ConfigureHardwareCommand selects the platform and switch reporting
// verbosity. platform and verbose are both rendered in decimal, per the
// literal boot scenario "CH:2000,1\r".
type ConfigureHardwareCommand struct {
	Platform hardware.FastPlatform
	Verbose  bool
}

func (c ConfigureHardwareCommand) ToWire() string {
	v := 0
	if c.Verbose {
		v = 1
	}
	return fmt.Sprintf("CH:%d,%d\r", c.Platform, v)
}

// WatchdogCommand is a tagged union of set/disable/query, each rendering
// to a distinct "WD:" body.
type WatchdogCommand struct {
	query   bool
	disable bool
	millis  uint32
}

// WatchdogSet arms the watchdog for the given duration.
func WatchdogSet(millis uint32) WatchdogCommand {
	return WatchdogCommand{millis: millis}
}

// WatchdogDisable disarms the watchdog (duration zero).
func WatchdogDisable() WatchdogCommand {
	return WatchdogCommand{disable: true}
}

// WatchdogQuery asks for remaining time without changing it.
func WatchdogQuery() WatchdogCommand {
	return WatchdogCommand{query: true}
}

func (c WatchdogCommand) ToWire() string {
	if c.query {
		return "WD:\r"
	}
	ms := c.millis
	if c.disable {
		ms = 0
	}
	return fmt.Sprintf("WD:%X\r", ms)
}

// WatchdogReplyKind discriminates the five possible watchdog reply shapes.
type WatchdogReplyKind uint8

const (
	WatchdogProcessed WatchdogReplyKind = iota
	WatchdogFailed
	WatchdogDisabled
	WatchdogExpired
	WatchdogRemaining
)

type WatchdogReply struct {
	Kind      WatchdogReplyKind
	Remaining uint32 // valid when Kind == WatchdogRemaining
}

// ParseWatchdogReply implements the exact literal/decimal switch from
// spec.md §4.2: "00000000" disabled, "FFFFFFFF" expired, "p"/"f"
// processed/failed (case-insensitive), else decimal milliseconds.
func ParseWatchdogReply(rec Record) (WatchdogReply, error) {
	body := strings.TrimSpace(rec.Body)
	switch strings.ToUpper(body) {
	case "P":
		return WatchdogReply{Kind: WatchdogProcessed}, nil
	case "F":
		return WatchdogReply{Kind: WatchdogFailed}, nil
	case "00000000":
		return WatchdogReply{Kind: WatchdogDisabled}, nil
	case "FFFFFFFF":
		return WatchdogReply{Kind: WatchdogExpired}, nil
	}
	n, err := strconv.ParseUint(body, 10, 32)
	if err != nil {
		return WatchdogReply{}, ErrProtocolParse
	}
	return WatchdogReply{Kind: WatchdogRemaining, Remaining: uint32(n)}, nil
}

// ReportSwitchesCommand requests the full closed/open bitmap.
type ReportSwitchesCommand struct{}

func (ReportSwitchesCommand) ToWire() string { return "SA:\r" }

// ConfigureSwitchCommand sets reporting mode and debounce for one switch.
// Layout: "SL:{id:X},{reporting_u8},{close_ms:X},{open_ms:X}". Confirmed:
// id=10, ReportNormal, defaults -> "SL:A,1,2,14".
type ConfigureSwitchCommand struct {
	ID        uint32
	Reporting hardware.SwitchReportingMode
	CloseMs   uint32
	OpenMs    uint32
}

// NewConfigureSwitchCommand applies device defaults (2ms/20ms) when the
// given SwitchConfig leaves debounce unset.
func NewConfigureSwitchCommand(id uint32, cfg hardware.SwitchConfig) ConfigureSwitchCommand {
	return ConfigureSwitchCommand{
		ID:        id,
		Reporting: cfg.Reporting,
		CloseMs:   cfg.CloseMs(),
		OpenMs:    cfg.OpenMs(),
	}
}

func (c ConfigureSwitchCommand) ToWire() string {
	return fmt.Sprintf("SL:%X,%d,%X,%X\r", c.ID, c.Reporting, c.CloseMs, c.OpenMs)
}

// TriggerDriverCommand fires a configured driver in Auto/Manual/On/Off
// mode, optionally naming the switch id that originated the trigger.
type TriggerDriverCommand struct {
	DriverID uint32
	Mode     hardware.DriverTriggerControlMode
	SwitchID *uint32
}

func (c TriggerDriverCommand) ToWire() string {
	if c.SwitchID != nil {
		return fmt.Sprintf("TL:%X,%d,%X\r", c.DriverID, c.Mode, *c.SwitchID)
	}
	return fmt.Sprintf("TL:%X,%d\r", c.DriverID, c.Mode)
}

// BoardResetCommand restores an expansion board to its power-on defaults.
type BoardResetCommand struct {
	Board    uint8
	Breakout *uint8
}

func (c BoardResetCommand) ToWire() string {
	return fmt.Sprintf("BR@%s:\r", hardware.ExpansionAddr(c.Board, c.Breakout))
}

// ConfigureLedPortCommand assigns LED type/count to a port on a board.
// Layout: "ER@{addr}:{port:X},{led_type_u8},{start},{count}". Confirmed:
// board=1, breakout=2, port=3, SK6812, start=4, count=5 ->
// "ER@12:3,1,4,5".
type ConfigureLedPortCommand struct {
	Board    uint8
	Breakout *uint8
	Port     uint8
	LedType  hardware.LedType
	Start    int
	Count    int
}

func (c ConfigureLedPortCommand) ToWire() string {
	return fmt.Sprintf("ER@%s:%X,%d,%d,%d\r",
		hardware.ExpansionAddr(c.Board, c.Breakout), c.Port, c.LedType, c.Start, c.Count)
}

// SetLedEntry is one (index, color) pair within a SetLedCommand batch.
type SetLedEntry struct {
	Index uint16
	Hex   string // RRGGBB or RRGGBBWW, uppercase
}

// SetLedCommand pushes color updates to one (board, breakout, port); the
// renderer fills each one with at most led.BatchSize (24) entries.
type SetLedCommand struct {
	Board    uint8
	Breakout *uint8
	Port     uint8
	Entries  []SetLedEntry
}

func (c SetLedCommand) ToWire() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "LS@%s:%X", hardware.ExpansionAddr(c.Board, c.Breakout), c.Port)
	for _, e := range c.Entries {
		fmt.Fprintf(&sb, ",%X=%s", e.Index, e.Hex)
	}
	sb.WriteString("\r")
	return sb.String()
}

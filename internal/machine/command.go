package machine

import (
	"reflect"
	"time"

	"github.com/tstone/frontbox-go/hardware"
	"github.com/tstone/frontbox-go/protocol"
)

// CommandKind discriminates MachineCommand's payload, the Go analogue of
// the Rust source's MachineCommand enum (spec.md §4.8's exhaustive
// taxonomy). Go has no tagged union, so this is modeled the way the
// teacher models its request/response DTOs in internal/server/types.go:
// one struct, one discriminant, only the relevant fields populated.
type CommandKind uint8

const (
	CmdStartGame CommandKind = iota
	CmdEndGame
	CmdAddPlayer
	CmdAdvancePlayer

	CmdInsertDistrict
	CmdRemoveDistrict
	CmdAddSystem
	CmdReplaceSystem
	CmdTerminateSystem

	CmdConfigureDriver
	CmdTriggerDriver
	CmdHardwareEvent
	CmdKey
	CmdResetExpansionNetwork

	CmdSetTimer
	CmdClearTimer
	CmdSystemTick
	CmdWatchdogTick

	CmdSubscribeEvent
	CmdUnsubscribeEvent
	CmdEmitEvent
	CmdTargetEvent

	CmdStoreWrite
	CmdSetConfigValue
	CmdShutdown
)

// MachineCommand is the single message type flowing through the
// command queue; Context methods enqueue these instead of mutating
// shared state directly.
type MachineCommand struct {
	Kind CommandKind

	DistrictKey string
	SystemID    uint64

	DistrictFactory func() District
	System          System

	DriverName string
	DriverCfg  hardware.DriverConfig
	TriggerMode hardware.DriverTriggerControlMode
	TriggerDelay *time.Duration

	HardwareEvent protocol.SwitchEvent
	KeyEvent      rune

	TimerName string
	TimerDur  time.Duration
	TimerMode TimerMode

	EventType reflect.Type
	Event     Event
	Targets   map[uint64]bool
	Callback  func(Event, *Context)

	StoreMutator func(*Store)
	ConfigKey    string
	ConfigValue  ConfigValue
}

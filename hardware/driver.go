package hardware

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnconfirmedWireFormat is returned by ToWire on DriverConfig variants
// whose serialized layout is sketched but never confirmed against a real
// device in the source this framework was distilled from. Only Pulse's
// layout is confirmed; see DESIGN.md Open Question 3.
var ErrUnconfirmedWireFormat = errors.New("hardware: wire format not confirmed for this driver variant")

// Driver is a solenoid/lamp output channel with a timing profile.
type Driver struct {
	ID     uint32
	Name   string
	Config DriverConfig
}

// DriverConfig is the tagged-variant driver behavior. Go models the Rust
// enum as an interface implemented by one struct per variant.
type DriverConfig interface {
	// ToWire renders the "DL:..." configuration command body for the
	// given driver id. Variants without a confirmed wire layout return
	// ErrUnconfirmedWireFormat.
	ToWire(id uint32) (string, error)
}

// driverTypePulse is the literal sub-type field the Pulse wire format
// carries as its fourth comma-separated field.
const driverTypePulse = 0x10

// DisabledConfig turns a driver output off entirely.
type DisabledConfig struct{}

func (DisabledConfig) ToWire(id uint32) (string, error) {
	return fmt.Sprintf("DL:%X,0\r", id), nil
}

// PulseConfig is a single timed pulse, optionally switch-triggered, with
// an initial and secondary PWM phase followed by a rest period.
type PulseConfig struct {
	SwitchID            *uint32
	InvertSwitch        bool
	Enabled             bool
	OneShot             bool
	DisableSwitch       bool
	InitialPWMLength    time.Duration
	InitialPWMPower     Power
	SecondaryPWMLength  time.Duration
	SecondaryPWMPower   Power
	Rest                time.Duration
}

// PulseBuilder constructs a PulseConfig with the documented defaults:
// initial_pwm_length=10ms at full power, no secondary phase, no rest.
type PulseBuilder struct {
	cfg PulseConfig
}

func NewPulse() *PulseBuilder {
	return &PulseBuilder{cfg: PulseConfig{
		Enabled:          true,
		OneShot:          true,
		InitialPWMLength: 10 * time.Millisecond,
		InitialPWMPower:  PowerFull(),
		SecondaryPWMPower: PowerOff(),
	}}
}

func (b *PulseBuilder) Switch(id uint32, invert bool) *PulseBuilder {
	b.cfg.SwitchID = &id
	b.cfg.InvertSwitch = invert
	return b
}

func (b *PulseBuilder) DisableSwitchAfterFire(v bool) *PulseBuilder {
	b.cfg.DisableSwitch = v
	return b
}

func (b *PulseBuilder) Initial(length time.Duration, power Power) *PulseBuilder {
	b.cfg.InitialPWMLength = length
	b.cfg.InitialPWMPower = power
	return b
}

func (b *PulseBuilder) Secondary(length time.Duration, power Power) *PulseBuilder {
	b.cfg.SecondaryPWMLength = length
	b.cfg.SecondaryPWMPower = power
	return b
}

func (b *PulseBuilder) Rest(d time.Duration) *PulseBuilder {
	b.cfg.Rest = d
	return b
}

func (b *PulseBuilder) Build() PulseConfig {
	return b.cfg
}

func (c PulseConfig) flags() uint32 {
	var f uint32
	if c.Enabled {
		f |= 1 << 0
	}
	if c.DisableSwitch {
		f |= 1 << 1
	}
	if c.OneShot {
		f |= 1 << 3
	}
	if c.InvertSwitch {
		f |= 1 << 4
	}
	return f
}

// ToWire renders "DL:<id>,<flags>,<switch_id>,10,<init_ms>,<init_pow>,
// <sec_ms>,<sec_pow>,<rest_ms>" all-uppercase-hex. Confirmed against the
// literal example: switch 5 inverted, init (100ms,full), sec (50ms,50%),
// rest 500ms, driver id 10 -> "DL:A,19,5,10,64,FF,32,7F,1F4".
func (c PulseConfig) ToWire(id uint32) (string, error) {
	switchID := uint32(0)
	if c.SwitchID != nil {
		switchID = *c.SwitchID
	}
	return fmt.Sprintf("DL:%X,%X,%X,%X,%X,%X,%X,%X,%X\r",
		id,
		c.flags(),
		switchID,
		driverTypePulse,
		c.InitialPWMLength.Milliseconds(),
		c.InitialPWMPower.Value(),
		c.SecondaryPWMLength.Milliseconds(),
		c.SecondaryPWMPower.Value(),
		c.Rest.Milliseconds(),
	), nil
}

// PulseHoldConfig pulses then holds at a lower power indefinitely.
type PulseHoldConfig struct {
	SwitchID         *uint32
	InitialPWMLength time.Duration
	InitialPWMPower  Power
	HoldPower        Power
}

func (PulseHoldConfig) ToWire(uint32) (string, error) { return "", ErrUnconfirmedWireFormat }

// PulseHoldCancelConfig pulses, holds, and releases when OffSwitch opens.
type PulseHoldCancelConfig struct {
	SwitchID         *uint32
	OffSwitch        uint32 // required
	InitialPWMLength time.Duration
	InitialPWMPower  Power
	HoldPower        Power
}

func (PulseHoldCancelConfig) ToWire(uint32) (string, error) { return "", ErrUnconfirmedWireFormat }

// LongPulseConfig is a single extended-duration pulse.
type LongPulseConfig struct {
	SwitchID *uint32
	Length   time.Duration
	Power    Power
}

func (LongPulseConfig) ToWire(uint32) (string, error) { return "", ErrUnconfirmedWireFormat }

// FlipperMainDirectConfig drives a flipper main coil directly from its
// activation switch, releasing when EOSSwitch (end-of-stroke) closes.
type FlipperMainDirectConfig struct {
	SwitchID   uint32
	EOSSwitch  uint32 // required
	PulsePower Power
	HoldPower  Power
}

func (FlipperMainDirectConfig) ToWire(uint32) (string, error) { return "", ErrUnconfirmedWireFormat }

// FlipperHoldDirectConfig drives a flipper hold coil directly from its
// activation switch.
type FlipperHoldDirectConfig struct {
	SwitchID  uint32
	HoldPower Power
}

func (FlipperHoldDirectConfig) ToWire(uint32) (string, error) { return "", ErrUnconfirmedWireFormat }

// DriverTriggerControlMode selects how a TriggerDriver command should
// drive the configured output.
type DriverTriggerControlMode uint8

const (
	TriggerAuto DriverTriggerControlMode = iota
	TriggerManual
	TriggerOn
	TriggerOff
)

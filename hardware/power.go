package hardware

// Power is an 8-bit drive level sent to the mainboard for driver pulses.
type Power struct {
	value uint8
}

// PowerPercent clamps p to [0,100] and scales it linearly to a byte:
// power = clamp(p,0,100) * 255 / 100.
func PowerPercent(p int) Power {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return Power{value: uint8(p * 255 / 100)}
}

// PowerFull is full drive (255).
func PowerFull() Power { return Power{value: 255} }

// PowerOff is no drive (0).
func PowerOff() Power { return Power{value: 0} }

// Value returns the raw 8-bit level.
func (p Power) Value() uint8 { return p.value }

// HighPower is a 16-bit supplemental variant (ported from
// original_source/src/hardware/power.rs, not present in spec.md's Power
// type) for expansion hardware with finer-grained PWM resolution.
type HighPower struct {
	value uint16
}

// HighPowerPercent clamps p to [0,100] and scales linearly to 16 bits:
// power = clamp(p,0,100) * 65535 / 100.
func HighPowerPercent(p int) HighPower {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return HighPower{value: uint16(p * 65535 / 100)}
}

func (p HighPower) Value() uint16 { return p.value }

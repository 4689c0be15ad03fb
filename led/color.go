// Package led implements LED declaration aggregation, conflict
// resolution, animation, and batched wire emission (C10).
package led

import "fmt"

// Color is a 24-bit RGB value with an optional white channel for RGBW
// strips. The zero Color is black, matching Off's Rust default.
type Color struct {
	R, G, B, W uint8
	HasW       bool
}

// Black is the default/zero color; LedState.Off renders as Black.
var Black = Color{}

// RGB builds an opaque 24-bit color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// RGBW builds a 32-bit color for white-channel LEDs.
func RGBW(r, g, b, w uint8) Color { return Color{R: r, G: g, B: b, W: w, HasW: true} }

// Hex renders uppercase RRGGBB or RRGGBBWW per spec.md §6.
func (c Color) Hex() string {
	if c.HasW {
		return fmt.Sprintf("%02X%02X%02X%02X", c.R, c.G, c.B, c.W)
	}
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// IsBlack reports whether c is indistinguishable from Off.
func (c Color) IsBlack() bool {
	return c == Black
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// Mix blends a and b at parameter t in [0,1]; t=0.5 is the midpoint.
// Interpolation uses it; MixResolver averages through its own mixPair.
func (c Color) Mix(other Color, t float64) Color {
	hasW := c.HasW || other.HasW
	mixed := Color{
		R:    lerpByte(c.R, other.R, t),
		G:    lerpByte(c.G, other.G, t),
		B:    lerpByte(c.B, other.B, t),
		HasW: hasW,
	}
	if hasW {
		mixed.W = lerpByte(c.W, other.W, t)
	}
	return mixed
}

// State is On(color) or Off.
type State struct {
	On    bool
	Color Color
}

// Off is the canonical off state.
var Off = State{}

// On builds an On state carrying color.
func On(c Color) State { return State{On: true, Color: c} }

// EffectiveColor returns Black for Off states, matching the resolvers'
// treatment of Off as contributing black to a mix.
func (s State) EffectiveColor() Color {
	if !s.On {
		return Black
	}
	return s.Color
}

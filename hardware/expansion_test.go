package hardware

import "testing"

func TestExpansionAddrNoBreakout(t *testing.T) {
	if got := ExpansionAddr(1, nil); got != "1" {
		t.Errorf("ExpansionAddr(1, nil) = %q, want %q", got, "1")
	}
}

func TestExpansionAddrWithBreakout(t *testing.T) {
	bo := uint8(2)
	if got := ExpansionAddr(1, &bo); got != "12" {
		t.Errorf("ExpansionAddr(1, &2) = %q, want %q", got, "12")
	}
}

func TestJumperAddresses(t *testing.T) {
	if got := FpExp0061(false, false).Address; got != 0x10 {
		t.Errorf("FpExp0061(false,false).Address = %#X, want 0x10", got)
	}
	if got := FpExp0061(true, true).Address; got != 0x13 {
		t.Errorf("FpExp0061(true,true).Address = %#X, want 0x13", got)
	}
}

func TestWithLedPort(t *testing.T) {
	b := Neutron().WithLedPort(LedPortSpec{Port: 1, Start: 0, LedType: SK6812, Leds: []string{"a", "b"}})
	if len(b.LedPorts) != 1 || len(b.LedPorts[0].Leds) != 2 {
		t.Fatalf("WithLedPort did not append expected port spec: %+v", b.LedPorts)
	}
}

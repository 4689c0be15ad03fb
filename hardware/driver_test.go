package hardware

import (
	"errors"
	"testing"
	"time"
)

func TestPulseConfigToWire(t *testing.T) {
	cfg := NewPulse().
		Switch(5, true).
		Initial(100*time.Millisecond, PowerFull()).
		Secondary(50*time.Millisecond, PowerPercent(50)).
		Rest(500 * time.Millisecond).
		Build()

	wire, err := cfg.ToWire(10)
	if err != nil {
		t.Fatalf("ToWire: %v", err)
	}
	want := "DL:A,19,5,10,64,FF,32,7F,1F4\r"
	if wire != want {
		t.Errorf("ToWire() = %q, want %q", wire, want)
	}
}

func TestDisabledConfigToWire(t *testing.T) {
	wire, err := DisabledConfig{}.ToWire(3)
	if err != nil {
		t.Fatalf("ToWire: %v", err)
	}
	if wire != "DL:3,0\r" {
		t.Errorf("ToWire() = %q", wire)
	}
}

func TestUnconfirmedVariantsReturnSentinel(t *testing.T) {
	variants := []DriverConfig{
		PulseHoldConfig{},
		PulseHoldCancelConfig{},
		LongPulseConfig{},
		FlipperMainDirectConfig{},
		FlipperHoldDirectConfig{},
	}
	for _, v := range variants {
		if _, err := v.ToWire(1); !errors.Is(err, ErrUnconfirmedWireFormat) {
			t.Errorf("%T.ToWire() error = %v, want ErrUnconfirmedWireFormat", v, err)
		}
	}
}

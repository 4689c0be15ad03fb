package machine

import (
	"errors"
	"testing"

	"github.com/tstone/frontbox-go/hardware"
)

func TestSwitchContextRegisterAndLookup(t *testing.T) {
	sc := NewSwitchContext()
	sc.Register(hardware.Switch{ID: 10, Name: "start_button"}, hardware.SwitchConfig{})

	id, ok := sc.IDByName("start_button")
	if !ok || id != 10 {
		t.Fatalf("IDByName = %d, %v, want 10, true", id, ok)
	}
	name, ok := sc.NameByID(10)
	if !ok || name != "start_button" {
		t.Fatalf("NameByID = %q, %v, want start_button, true", name, ok)
	}
}

func TestSwitchContextUpdateSwitchStateIsVerbatim(t *testing.T) {
	sc := NewSwitchContext()
	sc.Register(hardware.Switch{ID: 1, Name: "flipper_l"}, hardware.SwitchConfig{Inverted: true})

	sc.UpdateSwitchState(1, hardware.Closed)
	closed, ok := sc.IsClosedByID(1)
	if !ok || !closed {
		t.Error("UpdateSwitchState should apply the event state as-is, ignoring Inverted")
	}
}

func TestSwitchContextUpdateSwitchStatesAppliesInversion(t *testing.T) {
	sc := NewSwitchContext()
	sc.Register(hardware.Switch{ID: 1, Name: "inverted_sw"}, hardware.SwitchConfig{Inverted: true})
	sc.Register(hardware.Switch{ID: 2, Name: "normal_sw"}, hardware.SwitchConfig{})

	sc.UpdateSwitchStates(map[uint32]hardware.SwitchState{
		1: hardware.Closed,
		2: hardware.Closed,
	})

	if v := *sc.IsClosedByName("inverted_sw"); v {
		t.Error("inverted switch reported Closed should read as open after XOR-ing Inverted")
	}
	if v := *sc.IsClosedByName("normal_sw"); !v {
		t.Error("non-inverted switch reported Closed should read as closed")
	}
}

func TestSwitchContextIsOpenByNameComplementsClosed(t *testing.T) {
	sc := NewSwitchContext()
	sc.Register(hardware.Switch{ID: 1, Name: "sw"}, hardware.SwitchConfig{})
	sc.UpdateSwitchState(1, hardware.Open)

	if v := sc.IsOpenByName("sw"); v == nil || !*v {
		t.Errorf("IsOpenByName = %v, want true", v)
	}
}

func TestSwitchContextUnknownNameReturnsNil(t *testing.T) {
	sc := NewSwitchContext()
	if sc.IsClosedByName("nope") != nil {
		t.Error("IsClosedByName for an unregistered name should return nil")
	}
	if sc.IsOpenByName("nope") != nil {
		t.Error("IsOpenByName for an unregistered name should return nil")
	}
}

func TestAddVirtualSwitchRegistersAndCounts(t *testing.T) {
	sc := NewSwitchContext()
	sw, err := sc.AddVirtualSwitch("start_button")
	if err != nil {
		t.Fatalf("AddVirtualSwitch: %v", err)
	}
	if sw.Name != "start_button" {
		t.Errorf("virtual switch name = %q, want start_button", sw.Name)
	}
	if id, ok := sc.IDByName("start_button"); !ok || id != sw.ID {
		t.Error("AddVirtualSwitch should register the switch under its name")
	}
}

func TestAddVirtualSwitchExhaustsCapacity(t *testing.T) {
	sc := NewSwitchContext()
	for i := 0; i < hardware.MaxVirtualSwitches; i++ {
		if _, err := sc.AddVirtualSwitch("sw"); err != nil {
			t.Fatalf("AddVirtualSwitch #%d unexpectedly failed: %v", i, err)
		}
	}
	_, err := sc.AddVirtualSwitch("overflow")
	if !errors.Is(err, errCapacity) {
		t.Errorf("AddVirtualSwitch past capacity = %v, want errCapacity", err)
	}
}

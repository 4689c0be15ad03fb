package protocol

import (
	"testing"

	"github.com/tstone/frontbox-go/hardware"
)

func TestParseSwitchEventClosed(t *testing.T) {
	evt, matched, err := ParseSwitchEvent(Record{Prefix: "-L", Body: "1A"})
	if err != nil || !matched {
		t.Fatalf("ParseSwitchEvent: matched=%v err=%v", matched, err)
	}
	if evt.SwitchID != 0x1A || evt.State != hardware.Closed {
		t.Errorf("ParseSwitchEvent = %+v", evt)
	}
}

func TestParseSwitchEventOpen(t *testing.T) {
	evt, matched, err := ParseSwitchEvent(Record{Prefix: "/L", Body: "1A"})
	if err != nil || !matched {
		t.Fatalf("ParseSwitchEvent: matched=%v err=%v", matched, err)
	}
	if evt.State != hardware.Open {
		t.Errorf("ParseSwitchEvent = %+v, want Open", evt)
	}
}

func TestParseSwitchEventUnmatchedPrefix(t *testing.T) {
	_, matched, err := ParseSwitchEvent(Record{Prefix: "ID", Body: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched {
		t.Error("expected matched=false for a non-switch-event prefix")
	}
}

// TestParseSwitchReportBoundary exercises the boundary case from the
// bit-order scenario: a closed switch at index 39 within a 16-byte report.
func TestParseSwitchReportBoundary(t *testing.T) {
	body := "10,00000000800000000000000000000000"
	states, err := ParseSwitchReport(body)
	if err != nil {
		t.Fatalf("ParseSwitchReport: %v", err)
	}
	if states[39] != hardware.Closed {
		t.Errorf("switch 39 = %v, want Closed", states[39])
	}
	if states[38] != hardware.Open {
		t.Errorf("switch 38 = %v, want Open", states[38])
	}
}

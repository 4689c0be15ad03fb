package machine

import (
	"testing"
	"time"

	"github.com/tstone/frontbox-go/led"
)

type recordingSystem struct {
	startups, shutdowns, ticks, timers int
	lastTimerName                      string
	ledColor                           led.State
}

func (s *recordingSystem) Clone() System { return &recordingSystem{ledColor: s.ledColor} }
func (s *recordingSystem) OnStartup(ctx *Context)                  { s.startups++ }
func (s *recordingSystem) OnShutdown(ctx *Context)                 { s.shutdowns++ }
func (s *recordingSystem) OnTick(dt time.Duration, ctx *Context)    { s.ticks++ }
func (s *recordingSystem) OnTimer(name string, ctx *Context)        { s.timers++; s.lastTimerName = name }
func (s *recordingSystem) Leds(dt time.Duration) map[string]led.State {
	return map[string]led.State{"status": s.ledColor}
}

type bareSystem struct{}

func (bareSystem) Clone() System { return bareSystem{} }

func TestSystemContainerOptionalHooksAreDetected(t *testing.T) {
	sys := &recordingSystem{ledColor: led.On(led.RGB(1, 2, 3))}
	c := NewSystemContainer(1, sys)

	c.Startup(nil)
	c.Tick(10*time.Millisecond, nil)
	c.FireTimer("flash", nil)
	c.Shutdown(nil)

	if sys.startups != 1 || sys.ticks != 1 || sys.timers != 1 || sys.shutdowns != 1 {
		t.Errorf("hook call counts = %+v, want all 1", sys)
	}
	if sys.lastTimerName != "flash" {
		t.Errorf("FireTimer name = %q, want flash", sys.lastTimerName)
	}

	leds := c.Leds(0)
	if leds["status"] != sys.ledColor {
		t.Errorf("Leds() = %+v, want status=%+v", leds, sys.ledColor)
	}
}

func TestSystemContainerBareSystemIgnoresHooks(t *testing.T) {
	c := NewSystemContainer(1, bareSystem{})
	// None of these should panic even though bareSystem implements none
	// of the optional interfaces.
	c.Startup(nil)
	c.Tick(0, nil)
	c.FireTimer("x", nil)
	c.Shutdown(nil)
	if leds := c.Leds(0); leds != nil {
		t.Errorf("Leds() on a non-LedProducer = %+v, want nil", leds)
	}
}

func TestAdvanceTimersOneShotFiresOnceThenClears(t *testing.T) {
	c := NewSystemContainer(1, bareSystem{})
	c.SetTimer("boom", 100*time.Millisecond, OneShot)

	completed := c.AdvanceTimers(50 * time.Millisecond)
	if len(completed) != 0 {
		t.Fatalf("AdvanceTimers before target = %v, want none completed", completed)
	}

	completed = c.AdvanceTimers(60 * time.Millisecond)
	if len(completed) != 1 || completed[0] != "boom" {
		t.Fatalf("AdvanceTimers crossing target = %v, want [boom]", completed)
	}

	completed = c.AdvanceTimers(1 * time.Second)
	if len(completed) != 0 {
		t.Errorf("OneShot timer fired again after completion: %v", completed)
	}
}

func TestAdvanceTimersRepeatingFiresEveryPeriod(t *testing.T) {
	c := NewSystemContainer(1, bareSystem{})
	c.SetTimer("tick", 100*time.Millisecond, Repeating)

	first := c.AdvanceTimers(100 * time.Millisecond)
	if len(first) != 1 || first[0] != "tick" {
		t.Fatalf("first AdvanceTimers = %v, want [tick]", first)
	}

	second := c.AdvanceTimers(100 * time.Millisecond)
	if len(second) != 1 || second[0] != "tick" {
		t.Fatalf("second AdvanceTimers = %v, want [tick] again (repeating)", second)
	}
}

func TestClearTimerRemovesBeforeFiring(t *testing.T) {
	c := NewSystemContainer(1, bareSystem{})
	c.SetTimer("boom", 10*time.Millisecond, OneShot)
	c.ClearTimer("boom")

	completed := c.AdvanceTimers(100 * time.Millisecond)
	if len(completed) != 0 {
		t.Errorf("cleared timer fired: %v", completed)
	}
}

func TestCloneWithIDProducesIndependentCopy(t *testing.T) {
	original := &recordingSystem{ledColor: led.On(led.RGB(9, 9, 9))}
	c := NewSystemContainer(1, original)

	clone := c.CloneWithID(2)
	if clone.ID != 2 {
		t.Errorf("CloneWithID id = %d, want 2", clone.ID)
	}
	clone.Tick(0, nil)

	clonedSys := clone.Inner.(*recordingSystem)
	if clonedSys.ticks != 1 {
		t.Errorf("clone's OnTick not called")
	}
	if original.ticks != 0 {
		t.Error("Tick on the clone affected the original System's state")
	}
}

package machine

import (
	"testing"
	"time"
)

func TestWatchdogRunPushesTicksOnlyWhenEnabled(t *testing.T) {
	w := NewWatchdog()
	queue := make(chan MachineCommand, 8)

	go w.Run(5*time.Millisecond, queue)
	defer w.Stop()

	// Disabled: no ticks should be pushed.
	time.Sleep(20 * time.Millisecond)
	if len(queue) != 0 {
		t.Fatalf("queue has %d commands while disabled, want 0", len(queue))
	}

	w.Enable()
	select {
	case cmd := <-queue:
		if cmd.Kind != CmdWatchdogTick {
			t.Errorf("pushed command kind = %v, want CmdWatchdogTick", cmd.Kind)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("no tick pushed within 200ms of Enable")
	}

	w.Disable()
	for len(queue) > 0 {
		<-queue
	}
	time.Sleep(20 * time.Millisecond)
	if len(queue) != 0 {
		t.Errorf("queue has %d commands after Disable, want 0", len(queue))
	}
}

func TestWatchdogStopEndsRunLoop(t *testing.T) {
	w := NewWatchdog()
	queue := make(chan MachineCommand, 8)
	done := make(chan struct{})

	go func() {
		w.Run(5*time.Millisecond, queue)
		close(done)
	}()

	w.Stop()
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("Run did not return within 200ms of Stop")
	}
}

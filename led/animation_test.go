package led

import (
	"testing"
	"time"
)

func TestInterpolationAdvancesTowardTo(t *testing.T) {
	a := NewInterpolation(RGB(0, 0, 0), RGB(100, 0, 0), 100*time.Millisecond, Linear)

	a.Advance(50 * time.Millisecond)
	if got := a.Color().R; got != 50 {
		t.Errorf("halfway Color().R = %d, want 50", got)
	}
	if a.Done() {
		t.Error("non-looping Interpolation should not be Done before Duration elapses")
	}

	a.Advance(50 * time.Millisecond)
	if got := a.Color().R; got != 100 {
		t.Errorf("full Color().R = %d, want 100", got)
	}
	if !a.Done() {
		t.Error("non-looping Interpolation should be Done once elapsed >= Duration")
	}
}

func TestInterpolationLoopWrapsElapsed(t *testing.T) {
	a := NewInterpolation(RGB(0, 0, 0), RGB(100, 0, 0), 100*time.Millisecond, Linear)
	a.Loop = true

	a.Advance(150 * time.Millisecond)
	if a.Done() {
		t.Error("looping Interpolation is never Done")
	}
	if got := a.Color().R; got != 50 {
		t.Errorf("wrapped Color().R = %d, want 50 (150ms %% 100ms = 50ms elapsed)", got)
	}
}

func TestInterpolationNilCurveDefaultsToLinear(t *testing.T) {
	a := NewInterpolation(RGB(0, 0, 0), RGB(100, 0, 0), 100*time.Millisecond, nil)
	a.Advance(25 * time.Millisecond)
	if got := a.Color().R; got != 25 {
		t.Errorf("default-curve Color().R = %d, want 25 (linear)", got)
	}
}

func TestSequenceStepsThroughHoldingDurations(t *testing.T) {
	seq := NewSequence([]SequenceStep{
		{Color: RGB(255, 0, 0), Duration: 10 * time.Millisecond},
		{Color: RGB(0, 255, 0), Duration: 10 * time.Millisecond},
	}, false)

	if got := seq.Color(); got != RGB(255, 0, 0) {
		t.Fatalf("initial Color = %+v, want red", got)
	}

	seq.Advance(10 * time.Millisecond)
	if got := seq.Color(); got != RGB(0, 255, 0) {
		t.Errorf("Color after first step elapses = %+v, want green", got)
	}

	seq.Advance(10 * time.Millisecond)
	if !seq.Done() {
		t.Error("non-looping Sequence should be Done once past its last step")
	}
	if got := seq.Color(); got != RGB(0, 255, 0) {
		t.Errorf("Color once Done = %+v, want the last step's color held", got)
	}
}

func TestSequenceLoopsBackToStart(t *testing.T) {
	seq := NewSequence([]SequenceStep{
		{Color: RGB(255, 0, 0), Duration: 10 * time.Millisecond},
		{Color: RGB(0, 255, 0), Duration: 10 * time.Millisecond},
	}, true)

	seq.Advance(20 * time.Millisecond)
	if seq.Done() {
		t.Error("a looping Sequence is never Done")
	}
	if got := seq.Color(); got != RGB(255, 0, 0) {
		t.Errorf("Color after wrapping past the last step = %+v, want red again", got)
	}
}

func TestSequenceEmptyStepsIsBlack(t *testing.T) {
	seq := NewSequence(nil, false)
	if got := seq.Color(); got != Black {
		t.Errorf("Color() of an empty Sequence = %+v, want Black", got)
	}
}

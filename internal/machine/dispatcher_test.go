package machine

import (
	"reflect"
	"testing"
)

type fakeEvent struct{ N int }
type otherEvent struct{}

func (fakeEvent) isFrontboxEvent()  {}
func (otherEvent) isFrontboxEvent() {}

func newTestContext(listenerID uint64, districtKey string) *Context {
	return &Context{listenerID: listenerID, districtKey: districtKey}
}

func TestDispatcherEmitInvokesSubscriber(t *testing.T) {
	d := NewDispatcher()
	var got fakeEvent
	var gotCtx *Context
	d.Subscribe(reflect.TypeOf(fakeEvent{}), 1, "main", func(e Event, ctx *Context) {
		got = e.(fakeEvent)
		gotCtx = ctx
	})

	d.Emit(nil, fakeEvent{N: 7}, newTestContext)

	if got.N != 7 {
		t.Errorf("subscriber received %+v, want N=7", got)
	}
	if gotCtx == nil || gotCtx.districtKey != "main" {
		t.Errorf("subscriber context = %+v, want districtKey=main", gotCtx)
	}
}

func TestDispatcherEmitFiltersByTargets(t *testing.T) {
	d := NewDispatcher()
	var calledA, calledB bool
	d.Subscribe(reflect.TypeOf(fakeEvent{}), 1, "main", func(Event, *Context) { calledA = true })
	d.Subscribe(reflect.TypeOf(fakeEvent{}), 2, "main", func(Event, *Context) { calledB = true })

	d.Emit(map[uint64]bool{2: true}, fakeEvent{}, newTestContext)

	if calledA {
		t.Error("listener 1 should not have been invoked, target set excluded it")
	}
	if !calledB {
		t.Error("listener 2 should have been invoked, it was in the target set")
	}
}

func TestDispatcherEmitIgnoresOtherEventTypes(t *testing.T) {
	d := NewDispatcher()
	called := false
	d.Subscribe(reflect.TypeOf(fakeEvent{}), 1, "main", func(Event, *Context) { called = true })

	d.Emit(nil, otherEvent{}, newTestContext)

	if called {
		t.Error("subscriber to fakeEvent should not fire for otherEvent")
	}
}

func TestDispatcherUnsubscribeRemovesOnlyThatEventType(t *testing.T) {
	d := NewDispatcher()
	var fakeCalled, otherCalled bool
	d.Subscribe(reflect.TypeOf(fakeEvent{}), 1, "main", func(Event, *Context) { fakeCalled = true })
	d.Subscribe(reflect.TypeOf(otherEvent{}), 1, "main", func(Event, *Context) { otherCalled = true })

	d.Unsubscribe(reflect.TypeOf(fakeEvent{}), 1)

	d.Emit(nil, fakeEvent{}, newTestContext)
	d.Emit(nil, otherEvent{}, newTestContext)

	if fakeCalled {
		t.Error("fakeEvent subscription should have been removed")
	}
	if !otherCalled {
		t.Error("otherEvent subscription should survive an Unsubscribe of a different event type")
	}
}

func TestDispatcherUnsubscribeAllRemovesEveryEventType(t *testing.T) {
	d := NewDispatcher()
	var fakeCalled, otherCalled bool
	d.Subscribe(reflect.TypeOf(fakeEvent{}), 1, "main", func(Event, *Context) { fakeCalled = true })
	d.Subscribe(reflect.TypeOf(otherEvent{}), 1, "main", func(Event, *Context) { otherCalled = true })

	d.UnsubscribeAll(1)

	d.Emit(nil, fakeEvent{}, newTestContext)
	d.Emit(nil, otherEvent{}, newTestContext)

	if fakeCalled || otherCalled {
		t.Error("UnsubscribeAll should remove subscriptions regardless of event type")
	}
	if _, ok := d.districtOfID[1]; ok {
		t.Error("UnsubscribeAll should also drop the districtOfID entry")
	}
}

func TestDispatcherRemoveDistrictListeners(t *testing.T) {
	d := NewDispatcher()
	var aCalled, bCalled bool
	d.Subscribe(reflect.TypeOf(fakeEvent{}), 1, "districtA", func(Event, *Context) { aCalled = true })
	d.Subscribe(reflect.TypeOf(fakeEvent{}), 2, "districtB", func(Event, *Context) { bCalled = true })

	d.RemoveDistrictListeners("districtA")
	d.Emit(nil, fakeEvent{}, newTestContext)

	if aCalled {
		t.Error("districtA's listener should have been removed")
	}
	if !bCalled {
		t.Error("districtB's listener should be unaffected")
	}
}

package machine

import "reflect"

// listener pairs a subscription callback with the SystemContainer id
// that registered it.
type listener struct {
	id       uint64
	callback func(Event, *Context)
}

// Dispatcher routes emitted Events to subscribed listeners by the
// event's concrete type. Grounded on
// original_source/frontbox/src/machine/dispatcher.rs.
type Dispatcher struct {
	listeners      map[reflect.Type][]listener
	districtOfID   map[uint64]string
}

// NewDispatcher builds an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners:    map[reflect.Type][]listener{},
		districtOfID: map[uint64]string{},
	}
}

// Subscribe registers callback for events of eventType, owned by
// systemID within districtKey.
func (d *Dispatcher) Subscribe(eventType reflect.Type, systemID uint64, districtKey string, callback func(Event, *Context)) {
	d.listeners[eventType] = append(d.listeners[eventType], listener{id: systemID, callback: callback})
	d.districtOfID[systemID] = districtKey
}

// Unsubscribe removes systemID's subscription to eventType.
func (d *Dispatcher) Unsubscribe(eventType reflect.Type, systemID uint64) {
	listeners := d.listeners[eventType]
	out := listeners[:0]
	for _, l := range listeners {
		if l.id != systemID {
			out = append(out, l)
		}
	}
	d.listeners[eventType] = out
	// Keep the district mapping while systemID still has subscriptions to
	// other event types, so RemoveDistrictListeners can still find them.
	for _, ls := range d.listeners {
		for _, l := range ls {
			if l.id == systemID {
				return
			}
		}
	}
	delete(d.districtOfID, systemID)
}

// Emit invokes every listener for event's type whose id is in targets
// (nil targets means "every subscriber"), constructing a fresh Context
// per matching listener via newContext.
func (d *Dispatcher) Emit(targets map[uint64]bool, event Event, newContext func(listenerID uint64, districtKey string) *Context) {
	eventType := reflect.TypeOf(event)
	for _, l := range d.listeners[eventType] {
		if targets != nil && !targets[l.id] {
			continue
		}
		ctx := newContext(l.id, d.districtOfID[l.id])
		l.callback(event, ctx)
	}
}

// UnsubscribeAll drops every subscription owned by systemID, regardless
// of event type. Used when a System is terminated rather than merely
// unsubscribing from one event.
func (d *Dispatcher) UnsubscribeAll(systemID uint64) {
	delete(d.districtOfID, systemID)
	for eventType, listeners := range d.listeners {
		out := listeners[:0]
		for _, l := range listeners {
			if l.id != systemID {
				out = append(out, l)
			}
		}
		d.listeners[eventType] = out
	}
}

// RemoveDistrictListeners atomically drops every subscription owned by
// districtKey.
func (d *Dispatcher) RemoveDistrictListeners(districtKey string) {
	var toRemove []uint64
	for id, key := range d.districtOfID {
		if key == districtKey {
			toRemove = append(toRemove, id)
		}
	}
	remove := map[uint64]bool{}
	for _, id := range toRemove {
		remove[id] = true
		delete(d.districtOfID, id)
	}
	for eventType, listeners := range d.listeners {
		out := listeners[:0]
		for _, l := range listeners {
			if !remove[l.id] {
				out = append(out, l)
			}
		}
		d.listeners[eventType] = out
	}
}

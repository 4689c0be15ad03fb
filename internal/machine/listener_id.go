package machine

import "sync/atomic"

// listenerIDCounter is the one genuinely process-wide piece of state in
// the runtime (spec.md §9 "Global state"): a monotonic source of unique
// SystemContainer/subscription ids.
var listenerIDCounter uint64

// NextListenerID returns a fresh, globally unique, never-reused id.
func NextListenerID() uint64 {
	return atomic.AddUint64(&listenerIDCounter, 1)
}

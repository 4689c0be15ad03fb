package led

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// SystemState pairs one system's declared LED state with the id of the
// SystemContainer that declared it (used to break ties deterministically
// across ticks).
type SystemState struct {
	SystemID uint64
	State    State
}

// Resolver decides how two or more Systems' conflicting declarations for
// the same LED name compose into one State.
type Resolver interface {
	// Resolve is called once per conflicted LED name per tick. states
	// arrives in no particular order; the resolvers in this package sort
	// it by SystemID ascending themselves.
	Resolve(name string, states []SystemState, dt time.Duration) State
}

func sortedBySystemID(states []SystemState) []SystemState {
	out := make([]SystemState, len(states))
	copy(out, states)
	sort.Slice(out, func(i, j int) bool { return out[i].SystemID < out[j].SystemID })
	return out
}

// AlternateDefaultDuration is the default dwell time before the
// Alternate resolver advances to the next conflicting system.
const AlternateDefaultDuration = 225 * time.Millisecond

type alternateEntry struct {
	systemID uint64
	elapsed  time.Duration
}

// AlternateResolver is the default conflict policy: it shows each
// conflicting system's state in turn, holding each for Duration before
// advancing.
type AlternateResolver struct {
	Duration time.Duration

	last map[string]*alternateEntry
}

// NewAlternateResolver builds a resolver using the default dwell time.
func NewAlternateResolver() *AlternateResolver {
	return &AlternateResolver{Duration: AlternateDefaultDuration, last: map[string]*alternateEntry{}}
}

func (r *AlternateResolver) Resolve(name string, states []SystemState, dt time.Duration) State {
	if r.last == nil {
		r.last = map[string]*alternateEntry{}
	}
	ordered := sortedBySystemID(states)
	switch len(ordered) {
	case 0:
		delete(r.last, name)
		return Off
	case 1:
		return ordered[0].State
	}

	duration := r.Duration
	if duration <= 0 {
		duration = AlternateDefaultDuration
	}

	entry, seen := r.last[name]
	if !seen {
		entry = &alternateEntry{systemID: ordered[0].SystemID, elapsed: 0}
		r.last[name] = entry
		return ordered[0].State
	}

	entry.elapsed += dt
	if entry.elapsed >= duration {
		idx := indexOfSystem(ordered, entry.systemID)
		next := (idx + 1) % len(ordered)
		entry.systemID = ordered[next].SystemID
		entry.elapsed = 0
	}

	for _, s := range ordered {
		if s.SystemID == entry.systemID {
			return s.State
		}
	}
	// The previously-winning system no longer declares this LED; fall
	// back to Off rather than guessing a replacement.
	return Off
}

func indexOfSystem(states []SystemState, id uint64) int {
	for i, s := range states {
		if s.SystemID == id {
			return i
		}
	}
	return 0
}

// MixResolver blends conflicting declarations by recursive pairwise
// midpoint mixing. Folding is left-to-right over adjacent pairs
// (windows of 2) and is therefore NOT commutative for three or more
// inputs — preserved as specified; see DESIGN.md Open Question 2.
type MixResolver struct{}

func (MixResolver) Resolve(name string, states []SystemState, dt time.Duration) State {
	ordered := sortedBySystemID(states)
	switch len(ordered) {
	case 0:
		return Off
	case 1:
		return ordered[0].State
	}

	colors := make([]Color, len(ordered))
	for i, s := range ordered {
		colors[i] = s.State.EffectiveColor()
	}
	for len(colors) > 1 {
		next := make([]Color, 0, len(colors)-1)
		for i := 0; i+1 < len(colors); i++ {
			next = append(next, mixPair(colors[i], colors[i+1]))
		}
		colors = next
	}
	result := colors[0]
	if result.IsBlack() {
		return Off
	}
	return On(result)
}

// mixPair averages two colors channel-by-channel at the midpoint (t=0.5)
// using gonum/stat.Mean rather than hand-rolled arithmetic. MixResolver
// is its only caller.
func mixPair(a, b Color) Color {
	hasW := a.HasW || b.HasW
	mixed := Color{
		R:    uint8(stat.Mean([]float64{float64(a.R), float64(b.R)}, nil)),
		G:    uint8(stat.Mean([]float64{float64(a.G), float64(b.G)}, nil)),
		B:    uint8(stat.Mean([]float64{float64(a.B), float64(b.B)}, nil)),
		HasW: hasW,
	}
	if hasW {
		mixed.W = uint8(stat.Mean([]float64{float64(a.W), float64(b.W)}, nil))
	}
	return mixed
}

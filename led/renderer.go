package led

import (
	"sort"
	"time"

	"github.com/tstone/frontbox-go/protocol"
	"github.com/tstone/frontbox-go/term"
)

// BatchSize bounds how many (index, color) entries one SetLed wire
// command carries. Fixed by spec.md §4.9/§8 at 24 — this supersedes the
// older 12 found in original_source/src/led/led_renderer.rs, since
// spec.md governs testable properties.
const BatchSize = 24

// Address locates one LED within the expansion addressing scheme:
// board + optional breakout + port + index within that port.
type Address struct {
	Board    uint8
	Breakout *uint8
	Port     uint8
	Index    uint16
}

func (a Address) groupKey() [3]uint16 {
	bo := uint16(0xFF)
	if a.Breakout != nil {
		bo = uint16(*a.Breakout)
	}
	return [3]uint16{uint16(a.Board), bo, uint16(a.Port)}
}

// Declarations is the per-tick input: each SystemContainer's leds(dt)
// result, keyed by its listener id.
type Declarations map[uint64]map[string]State

// Renderer aggregates per-system LED declarations, resolves conflicts,
// diffs against the previous frame, and batches the result into SetLed
// wire commands. Grounded on original_source/src/led/led_renderer.rs.
type Renderer struct {
	addresses map[string]Address
	resolver  Resolver
	prevSet   map[string]bool
}

// NewRenderer builds a Renderer over the given name->Address map, using
// AlternateResolver by default (spec.md §4.9).
func NewRenderer(addresses map[string]Address) *Renderer {
	return &Renderer{
		addresses: addresses,
		resolver:  NewAlternateResolver(),
		prevSet:   map[string]bool{},
	}
}

// SetResolver overrides the conflict resolution policy.
func (r *Renderer) SetResolver(resolver Resolver) {
	r.resolver = resolver
}

// Render resolves one tick's declarations into batched SetLed commands.
func (r *Renderer) Render(dt time.Duration, decl Declarations) []protocol.SetLedCommand {
	byName := map[string][]SystemState{}
	for systemID, leds := range decl {
		for name, state := range leds {
			byName[name] = append(byName[name], SystemState{SystemID: systemID, State: state})
		}
	}

	resolved := map[string]State{}
	for name, states := range byName {
		if len(states) == 1 {
			resolved[name] = states[0].State
			continue
		}
		resolved[name] = r.resolver.Resolve(name, states, dt)
	}

	setThisFrame := map[string]bool{}
	for name, state := range resolved {
		if state.On && !state.Color.IsBlack() {
			setThisFrame[name] = true
		}
	}
	for name := range r.prevSet {
		if !setThisFrame[name] {
			if _, stillDeclared := resolved[name]; !stillDeclared {
				resolved[name] = Off
			}
		}
	}
	r.prevSet = setThisFrame

	return r.batch(resolved)
}

func (r *Renderer) batch(resolved map[string]State) []protocol.SetLedCommand {
	type groupKeyed struct {
		addr Address
		hex  string
	}
	groups := map[[3]uint16][]groupKeyed{}

	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		addr, ok := r.addresses[name]
		if !ok {
			term.Warnf("led: unknown LED %q, skipping", name)
			continue
		}
		key := addr.groupKey()
		groups[key] = append(groups[key], groupKeyed{addr: addr, hex: resolved[name].EffectiveColor().Hex()})
	}

	var out []protocol.SetLedCommand
	for _, entries := range groups {
		board := entries[0].addr.Board
		breakout := entries[0].addr.Breakout
		port := entries[0].addr.Port
		for start := 0; start < len(entries); start += BatchSize {
			end := start + BatchSize
			if end > len(entries) {
				end = len(entries)
			}
			cmd := protocol.SetLedCommand{Board: board, Breakout: breakout, Port: port}
			for _, e := range entries[start:end] {
				cmd.Entries = append(cmd.Entries, protocol.SetLedEntry{Index: e.addr.Index, Hex: e.hex})
			}
			out = append(out, cmd)
		}
	}
	return out
}

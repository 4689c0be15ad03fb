package led

import (
	"fmt"
	"testing"
	"time"
)

func nameFor(i int) string {
	return fmt.Sprintf("led%02d", i)
}

func TestRendererSingleSystemNoConflict(t *testing.T) {
	r := NewRenderer(map[string]Address{"a": {Board: 1, Port: 0, Index: 0}})
	decl := Declarations{1: {"a": On(RGB(255, 0, 0))}}
	cmds := r.Render(10*time.Millisecond, decl)
	if len(cmds) != 1 || len(cmds[0].Entries) != 1 {
		t.Fatalf("Render = %+v", cmds)
	}
	if cmds[0].Entries[0].Hex != "FF0000" {
		t.Errorf("entry hex = %q, want FF0000", cmds[0].Entries[0].Hex)
	}
}

func TestRendererDiffsOffAgainstPreviousFrame(t *testing.T) {
	r := NewRenderer(map[string]Address{"a": {Board: 1, Port: 0, Index: 0}})
	r.Render(0, Declarations{1: {"a": On(RGB(1, 2, 3))}})

	cmds := r.Render(0, Declarations{}) // system stops declaring the LED
	if len(cmds) != 1 || len(cmds[0].Entries) != 1 {
		t.Fatalf("Render after drop = %+v", cmds)
	}
	if cmds[0].Entries[0].Hex != "000000" {
		t.Errorf("dropped LED should render Off (000000), got %q", cmds[0].Entries[0].Hex)
	}
}

func TestRendererBatchesBySizeLimit(t *testing.T) {
	addrs := map[string]Address{}
	decl := map[string]State{}
	for i := 0; i < 30; i++ {
		name := nameFor(i)
		addrs[name] = Address{Board: 1, Port: 0, Index: uint16(i)}
		decl[name] = On(RGB(1, 1, 1))
	}
	r := NewRenderer(addrs)
	cmds := r.Render(0, Declarations{1: decl})
	if len(cmds) != 2 {
		t.Fatalf("Render batch count = %d, want 2 (ceil(30/24))", len(cmds))
	}
	total := len(cmds[0].Entries) + len(cmds[1].Entries)
	if total != 30 {
		t.Errorf("total entries across batches = %d, want 30", total)
	}
}

func TestRendererSkipsUnknownLedName(t *testing.T) {
	r := NewRenderer(map[string]Address{})
	cmds := r.Render(0, Declarations{1: {"unknown": On(RGB(1, 1, 1))}})
	if len(cmds) != 0 {
		t.Errorf("Render with unknown LED name = %+v, want no commands", cmds)
	}
}

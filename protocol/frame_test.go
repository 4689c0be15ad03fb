package protocol

import "testing"

func TestParseRecordWithAddr(t *testing.T) {
	rec, ok := ParseRecord("ER@12:3,1,4,5")
	if !ok {
		t.Fatal("ParseRecord returned ok=false")
	}
	if rec.Prefix != "ER" || !rec.HasAddr || rec.Addr != "12" || rec.Body != "3,1,4,5" {
		t.Errorf("ParseRecord = %+v", rec)
	}
}

func TestParseRecordWithoutAddr(t *testing.T) {
	rec, ok := ParseRecord("CH:2000,1")
	if !ok {
		t.Fatal("ParseRecord returned ok=false")
	}
	if rec.Prefix != "CH" || rec.HasAddr || rec.Body != "2000,1" {
		t.Errorf("ParseRecord = %+v", rec)
	}
}

func TestParseRecordMalformed(t *testing.T) {
	if _, ok := ParseRecord("no colon here"); ok {
		t.Error("expected ok=false for a line with no ':'")
	}
}

func TestPrefixMatchesCaseInsensitive(t *testing.T) {
	if !PrefixMatches("ID", "id") {
		t.Error("PrefixMatches should be case-insensitive")
	}
	if PrefixMatches("ID", "CH") {
		t.Error("PrefixMatches should not match differing prefixes")
	}
}

func TestSplitLines(t *testing.T) {
	lines, rest := SplitLines("ID:\rCH:2000,1\rtrailin")
	want := []string{"ID:", "CH:2000,1"}
	if len(lines) != len(want) {
		t.Fatalf("SplitLines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("SplitLines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
	if rest != "trailin" {
		t.Errorf("SplitLines rest = %q, want %q", rest, "trailin")
	}
}

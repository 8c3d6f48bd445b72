package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestStreamTracerEmitsAtLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPass, FormatText)

	sp := Begin(tr, ScopePass, "decorate", 0)
	sp.End("3 classes")
	Point(tr, ScopeRef, "proxy:m.Node", "miss")

	out := buf.String()
	if !strings.Contains(out, "decorate") {
		t.Fatalf("expected pass span in output, got %q", out)
	}
	if strings.Contains(out, "proxy:m.Node") {
		t.Fatalf("ref-scope event should be filtered at pass level, got %q", out)
	}
}

func TestNopTracerDisabled(t *testing.T) {
	if Nop.Enabled() {
		t.Fatalf("nop tracer must be disabled")
	}
	sp := Begin(Nop, ScopeEngine, "noop", 0)
	if sp.ID() != 0 {
		t.Fatalf("inert span should have zero ID")
	}
	sp.End("")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("detail")
	if err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel(detail) = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("bogus"); err == nil {
		t.Fatalf("expected error for bogus level")
	}
}

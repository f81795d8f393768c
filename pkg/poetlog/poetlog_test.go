package poetlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kpeeters/poet/pkg/poetmath"
)

func TestPushFlushesOnWrap(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRing(2, 1, &buf)

	if err := ring.Push(Record{Tag: 0, LowerID: -1, UpperID: -1}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no flush before the ring wraps, got %q", buf.String())
	}

	if err := ring.Push(Record{Tag: 1, LowerID: 0, UpperID: 1}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a 2-row batch, got %d lines: %q", len(lines), buf.String())
	}
}

func TestFlushOnlyEmitsWrittenSlots(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRing(4, 1, &buf)

	if err := ring.Push(Record{Tag: 0, ActRate: poetmath.FromFloat64(1), LowerID: -1, UpperID: -1}); err != nil {
		t.Fatal(err)
	}
	if err := ring.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the single written slot to flush, got %d lines", len(lines))
	}
}

func TestFlushIsNoOpWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRing(4, 1, &buf)
	if err := ring.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output from flushing an empty ring, got %q", buf.String())
	}
}

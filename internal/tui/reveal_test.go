package tui

import (
	"strings"
	"testing"
)

func TestTypewriter_PrefixesGrowAndTerminate(t *testing.T) {
	tw := newTypewriter(2)
	full := "The quick brown fox"
	gen := tw.Start(full)

	var prev string
	for i := 0; i < 1000; i++ {
		prefix, done, ok := tw.Tick(gen)
		if !ok {
			t.Fatal("live generation reported as stale")
		}
		if len(prefix) < len(prev) {
			t.Fatalf("prefix shrank: %q -> %q", prev, prefix)
		}
		if !strings.HasPrefix(full, prefix) {
			t.Fatalf("%q is not a prefix of the full string", prefix)
		}
		prev = prefix
		if done {
			if prefix != full {
				t.Fatalf("terminal content = %q, want %q", prefix, full)
			}
			return
		}
	}
	t.Fatal("reveal never terminated")
}

func TestTypewriter_RuneSafe(t *testing.T) {
	tw := newTypewriter(1)
	full := "héllo — 世界"
	gen := tw.Start(full)
	for {
		prefix, done, ok := tw.Tick(gen)
		if !ok {
			t.Fatal("live generation reported as stale")
		}
		if strings.ContainsRune(prefix, '�') {
			t.Fatalf("prefix %q split a rune", prefix)
		}
		if done {
			if prefix != full {
				t.Fatalf("terminal content = %q, want %q", prefix, full)
			}
			return
		}
	}
}

func TestTypewriter_SecondRevealSupersedesFirst(t *testing.T) {
	tw := newTypewriter(3)
	gen1 := tw.Start("first answer text")
	if _, _, ok := tw.Tick(gen1); !ok {
		t.Fatal("first generation should be live before restart")
	}

	gen2 := tw.Start("second")

	// Ticks scheduled under the first generation must be dropped outright.
	if prefix, _, ok := tw.Tick(gen1); ok {
		t.Fatalf("stale tick accepted, produced %q", prefix)
	}

	var final string
	for {
		prefix, done, ok := tw.Tick(gen2)
		if !ok {
			t.Fatal("second generation reported as stale")
		}
		final = prefix
		if done {
			break
		}
	}
	if final != "second" {
		t.Fatalf("final text = %q, want the second reveal's own string", final)
	}
}

func TestTypewriter_StopInvalidatesTicks(t *testing.T) {
	tw := newTypewriter(2)
	gen := tw.Start("to be cancelled")
	tw.Stop()

	if _, _, ok := tw.Tick(gen); ok {
		t.Fatal("tick accepted after Stop")
	}
	if tw.Active() {
		t.Fatal("typewriter still active after Stop")
	}
}

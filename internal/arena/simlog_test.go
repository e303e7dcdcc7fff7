package arena

import (
	"strings"
	"testing"
)

func TestEpisodeLog_FilterAndCount(t *testing.T) {
	l := NewEpisodeLog()
	l.Add(1, "bot", "bot", "mode_change", "navigate → engage", 0)
	l.Add(5, "bot", "path", "recompute", "", 12)
	l.Add(9, "bot", "bot", "mode_change", "engage → evade", 0)
	l.Add(9, "player", "fire", "shot", "", 0)

	if got := l.Count("bot", "mode_change"); got != 2 {
		t.Fatalf("expected 2 mode changes, got %d", got)
	}
	if got := l.Count("path", ""); got != 1 {
		t.Fatalf("category-only filter should match 1, got %d", got)
	}
	if got := len(l.Filter("", "shot")); got != 1 {
		t.Fatalf("key-only filter should match 1, got %d", got)
	}
}

func TestEpisodeLog_FirstTickAndHasEntry(t *testing.T) {
	l := NewEpisodeLog()
	l.Add(3, "bot", "bot", "mode_change", "navigate → engage", 0)
	l.Add(8, "bot", "bot", "mode_change", "engage → navigate", 0)

	if got := l.FirstTick("bot", "mode_change"); got != 3 {
		t.Fatalf("expected first mode change at tick 3, got %d", got)
	}
	if got := l.FirstTick("hit", "tank_destroyed"); got != -1 {
		t.Fatalf("missing category should report -1, got %d", got)
	}
	if !l.HasEntry("bot", "mode_change", "engage") {
		t.Fatal("substring match on value should succeed")
	}
	if l.HasEntry("bot", "mode_change", "evade") {
		t.Fatal("absent value substring should not match")
	}
}

func TestEpisodeLog_ResetKeepsNothing(t *testing.T) {
	l := NewEpisodeLog()
	l.Add(1, "player", "fire", "shot", "", 0)
	l.Reset()
	if len(l.Entries()) != 0 {
		t.Fatalf("reset log should be empty, has %d entries", len(l.Entries()))
	}
}

func TestEpisodeLog_FormatContainsEntries(t *testing.T) {
	l := NewEpisodeLog()
	l.Add(42, "bot", "bot", "mode_change", "navigate → engage", 0)
	out := l.Format()
	if !strings.Contains(out, "T=042") || !strings.Contains(out, "mode_change") {
		t.Fatalf("formatted log missing fields:\n%s", out)
	}
}

func TestAction_ValidBounds(t *testing.T) {
	for a := ActionNoOp; a < Action(NumActions); a++ {
		if !a.Valid() {
			t.Fatalf("action %s should be valid", a)
		}
	}
	if Action(-1).Valid() || Action(NumActions).Valid() {
		t.Fatal("out-of-range actions should be invalid")
	}
}

func TestOutcome_Strings(t *testing.T) {
	cases := map[Outcome]string{
		OutcomeNone:      "none",
		OutcomeWin:       "win",
		OutcomeLoss:      "loss",
		OutcomeDraw:      "draw",
		OutcomeTruncated: "truncated",
	}
	for o, want := range cases {
		if got := o.String(); got != want {
			t.Fatalf("Outcome(%d).String() = %q, want %q", o, got, want)
		}
	}
}

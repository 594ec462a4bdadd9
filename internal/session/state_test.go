package session

import (
	"testing"

	"github.com/kennithz884/snapmind/internal/models"
)

func TestInitialState(t *testing.T) {
	s := New()
	if s.ActiveTab() != TabBrain {
		t.Errorf("initial tab = %q, want brain", s.ActiveTab())
	}
	if s.Selected() != "" {
		t.Error("nothing should be selected initially")
	}
	if _, searched := s.Match(); searched {
		t.Error("initial state should be not-yet-searched")
	}
	if s.Locked() {
		t.Error("initial state should be unlocked")
	}
}

func TestSwitchTab_IgnoresUnknown(t *testing.T) {
	s := New()
	s.SwitchTab(TabSearch)
	if s.ActiveTab() != TabSearch {
		t.Fatalf("tab = %q", s.ActiveTab())
	}
	s.SwitchTab(Tab("bogus"))
	if s.ActiveTab() != TabSearch {
		t.Error("unknown tab should be ignored")
	}
}

func TestSelect_ClearsTranscriptOnChange(t *testing.T) {
	s := New()
	s.Select("a")
	s.AppendMessage("a", models.ChatMessage{Role: models.RoleUser, Content: "hi"})

	// Re-selecting the same record keeps the transcript.
	s.Select("a")
	if len(s.Transcript("a")) != 1 {
		t.Error("re-select should keep transcript")
	}

	// Selecting a different record clears it.
	s.Select("b")
	if len(s.Transcript("b")) != 0 {
		t.Error("new selection should start with empty transcript")
	}
	if len(s.Transcript("a")) != 0 {
		t.Error("old record transcript should be gone")
	}
}

func TestAppendMessage_DiscardsStaleReply(t *testing.T) {
	s := New()
	s.Select("a")
	if !s.AppendMessage("a", models.ChatMessage{Role: models.RoleUser, Content: "q"}) {
		t.Fatal("append for current selection should succeed")
	}

	// User navigates away before the reply lands.
	s.Select("b")
	if s.AppendMessage("a", models.ChatMessage{Role: models.RoleAssistant, Content: "late"}) {
		t.Error("reply for a stale selection must be discarded")
	}
	if len(s.Transcript("b")) != 0 {
		t.Error("stale reply must not leak into the new transcript")
	}
}

func TestMatchSentinel(t *testing.T) {
	s := New()

	s.SetMatch("rec-1")
	id, searched := s.Match()
	if id != "rec-1" || !searched {
		t.Errorf("match = %q/%v", id, searched)
	}

	// No-match is distinct from not-searched.
	s.SetMatch("")
	id, searched = s.Match()
	if id != "" || !searched {
		t.Error("empty match should still count as searched")
	}

	s.ClearMatch()
	if _, searched := s.Match(); searched {
		t.Error("ClearMatch should reset to not-searched")
	}
}

func TestLockUnlock(t *testing.T) {
	s := New()
	s.Lock()
	if !s.Locked() {
		t.Error("should be locked")
	}
	s.Unlock()
	if s.Locked() {
		t.Error("should be unlocked")
	}
}

func TestTranscript_ReturnsCopy(t *testing.T) {
	s := New()
	s.Select("a")
	s.AppendMessage("a", models.ChatMessage{Role: models.RoleUser, Content: "q"})

	tr := s.Transcript("a")
	tr[0].Content = "mutated"
	if s.Transcript("a")[0].Content != "q" {
		t.Error("Transcript must return a copy")
	}
}

// Package session holds the UI-facing application state: active tab,
// selected record, chat transcript, and last search result. All mutation
// goes through transition methods on State; there are no package globals.
package session

import (
	"sync"

	"github.com/kennithz884/snapmind/internal/models"
)

// Tab identifies one of the four top-level views.
type Tab string

const (
	TabBrain    Tab = "brain"
	TabLibrary  Tab = "library"
	TabSearch   Tab = "search"
	TabSettings Tab = "settings"
)

func validTab(t Tab) bool {
	switch t {
	case TabBrain, TabLibrary, TabSearch, TabSettings:
		return true
	}
	return false
}

// State is the single mutable view-layer state. A mutex serializes all
// transitions so catalog/transcript/selection updates happen on one
// logical timeline.
type State struct {
	mu sync.Mutex

	activeTab  Tab
	selectedID string
	transcript []models.ChatMessage
	lastMatch  string
	searched   bool
	locked     bool
	memoryIdx  int
}

// New returns the initial state: brain tab, nothing selected, unlocked.
func New() *State {
	return &State{activeTab: TabBrain}
}

// SwitchTab activates a tab. Unknown tabs are ignored.
func (s *State) SwitchTab(t Tab) {
	if !validTab(t) {
		return
	}
	s.mu.Lock()
	s.activeTab = t
	s.mu.Unlock()
}

// ActiveTab returns the current tab.
func (s *State) ActiveTab() Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeTab
}

// Select marks a record as the detail-overlay subject. Changing selection
// clears the transcript; re-selecting the current record keeps it.
func (s *State) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID != id {
		s.transcript = nil
	}
	s.selectedID = id
}

// ClearSelection closes the detail overlay and drops the transcript.
func (s *State) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = ""
	s.transcript = nil
}

// Selected returns the currently selected record id, empty when none.
func (s *State) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// AppendMessage appends a transcript entry for the given record. The entry
// is discarded (returning false) when that record is no longer selected,
// which is how in-flight chat replies for a stale selection are dropped.
func (s *State) AppendMessage(forID string, msg models.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID != forID {
		return false
	}
	s.transcript = append(s.transcript, msg)
	return true
}

// Transcript returns a copy of the transcript for the given record, empty
// when it is not the current selection.
func (s *State) Transcript(forID string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID != forID {
		return []models.ChatMessage{}
	}
	out := make([]models.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// SetMatch records a search outcome. An empty id is the no-match sentinel;
// it is still distinct from "never searched".
func (s *State) SetMatch(id string) {
	s.mu.Lock()
	s.lastMatch = id
	s.searched = true
	s.mu.Unlock()
}

// ClearMatch resets to the not-yet-searched state.
func (s *State) ClearMatch() {
	s.mu.Lock()
	s.lastMatch = ""
	s.searched = false
	s.mu.Unlock()
}

// Match returns the last search result and whether a search happened.
func (s *State) Match() (id string, searched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMatch, s.searched
}

// Lock engages the biometric-lock screen.
func (s *State) Lock() {
	s.mu.Lock()
	s.locked = true
	s.mu.Unlock()
}

// Unlock dismisses the lock screen.
func (s *State) Unlock() {
	s.mu.Lock()
	s.locked = false
	s.mu.Unlock()
}

// Locked reports whether the lock screen is active.
func (s *State) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// SetMemoryIdx stores the resurfaced-memory cursor.
func (s *State) SetMemoryIdx(i int) {
	s.mu.Lock()
	s.memoryIdx = i
	s.mu.Unlock()
}

// MemoryIdx returns the resurfaced-memory cursor.
func (s *State) MemoryIdx() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memoryIdx
}

package server

import "github.com/becomeliminal/agenter-go/core"

const historyLimit = 100

// session holds per-connection state. It is created when a client
// connects and discarded when the socket closes.
type session struct {
	// states maps tab id to the latest cognitive state recalled for
	// that tab.
	states map[int]core.CognitiveState

	history []string
	// historyIndex is the cursor into history during navigation.
	// len(history) means the cursor is on the live draft.
	historyIndex int
	// draft preserves the in-progress input when the user starts
	// navigating back through history.
	draft string
}

func newSession() *session {
	return &session{
		states:       make(map[int]core.CognitiveState),
		historyIndex: 0,
	}
}

func (s *session) setState(tabID int, state core.CognitiveState) {
	s.states[tabID] = state
}

func (s *session) state(tabID int) (core.CognitiveState, bool) {
	state, ok := s.states[tabID]
	return state, ok
}

func (s *session) clearStates() {
	s.states = make(map[int]core.CognitiveState)
}

// addHistory records a submitted input and resets the navigation
// cursor. Consecutive duplicates are collapsed.
func (s *session) addHistory(entry string) {
	if entry == "" {
		return
	}
	if n := len(s.history); n > 0 && s.history[n-1] == entry {
		s.historyIndex = len(s.history)
		s.draft = ""
		return
	}
	s.history = append(s.history, entry)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
	s.historyIndex = len(s.history)
	s.draft = ""
}

// historyPrev moves the cursor one entry back. The current draft is
// preserved on the first step so historyNext can restore it.
func (s *session) historyPrev(currentDraft string) (text string, ok bool) {
	if len(s.history) == 0 || s.historyIndex == 0 {
		return "", false
	}
	if s.historyIndex == len(s.history) {
		s.draft = currentDraft
	}
	s.historyIndex--
	return s.history[s.historyIndex], true
}

// historyNext moves the cursor one entry forward, returning the saved
// draft once the cursor passes the newest entry.
func (s *session) historyNext() (text string, ok bool) {
	if s.historyIndex >= len(s.history) {
		return "", false
	}
	s.historyIndex++
	if s.historyIndex == len(s.history) {
		return s.draft, true
	}
	return s.history[s.historyIndex], true
}

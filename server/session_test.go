package server

import (
	"fmt"
	"testing"

	"github.com/becomeliminal/agenter-go/core"
)

func TestSessionHistoryNavigation(t *testing.T) {
	sess := newSession()
	sess.addHistory("first")
	sess.addHistory("second")

	text, ok := sess.historyPrev("my draft")
	if !ok || text != "second" {
		t.Fatalf("Expected newest entry, got %q ok=%v", text, ok)
	}
	text, ok = sess.historyPrev("")
	if !ok || text != "first" {
		t.Fatalf("Expected oldest entry, got %q ok=%v", text, ok)
	}
	if _, ok := sess.historyPrev(""); ok {
		t.Fatal("Expected no entries past the oldest")
	}

	text, ok = sess.historyNext()
	if !ok || text != "second" {
		t.Fatalf("Expected forward step to newest, got %q ok=%v", text, ok)
	}
	// Stepping past the newest restores the preserved draft.
	text, ok = sess.historyNext()
	if !ok || text != "my draft" {
		t.Fatalf("Expected preserved draft, got %q ok=%v", text, ok)
	}
	if _, ok := sess.historyNext(); ok {
		t.Fatal("Expected no entries past the draft")
	}
}

func TestSessionHistoryCollapsesDuplicates(t *testing.T) {
	sess := newSession()
	sess.addHistory("same")
	sess.addHistory("same")

	if len(sess.history) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(sess.history))
	}
}

func TestSessionHistoryBounded(t *testing.T) {
	sess := newSession()
	for i := 0; i < historyLimit+20; i++ {
		sess.addHistory(fmt.Sprintf("entry %d", i))
	}
	if len(sess.history) != historyLimit {
		t.Fatalf("Expected history capped at %d, got %d", historyLimit, len(sess.history))
	}
	if sess.history[len(sess.history)-1] != fmt.Sprintf("entry %d", historyLimit+19) {
		t.Errorf("Expected newest entry kept, got %q", sess.history[len(sess.history)-1])
	}
}

func TestSessionStatesPerTab(t *testing.T) {
	sess := newSession()
	state := core.CognitiveState{
		CurrentGoal:      "goal",
		PlanStatus:       []string{"step (done)"},
		KeyFacts:         []string{},
		LastActionResult: "done",
	}
	sess.setState(2, state)

	if _, ok := sess.state(1); ok {
		t.Fatal("Tab 1 must not see tab 2's state")
	}
	got, ok := sess.state(2)
	if !ok || got.CurrentGoal != "goal" {
		t.Fatalf("Expected stored state, got %+v ok=%v", got, ok)
	}

	sess.clearStates()
	if _, ok := sess.state(2); ok {
		t.Fatal("Expected states cleared")
	}
}

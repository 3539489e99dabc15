package core

import "testing"

func TestNewFact(t *testing.T) {
	fact := NewFact(FactUserMsg, "hello", map[string]interface{}{"k": "v"})

	if fact.ID == "" {
		t.Error("Expected a generated id")
	}
	if fact.Timestamp <= 0 {
		t.Error("Expected a positive timestamp")
	}
	if !fact.Valid() {
		t.Errorf("New fact must be valid: %+v", fact)
	}
}

func TestFactValid(t *testing.T) {
	tests := []struct {
		name string
		fact ObjectiveFact
		want bool
	}{
		{"ok", ObjectiveFact{ID: "a", Timestamp: 1, Type: FactUserMsg, Content: "x"}, true},
		{"missing id", ObjectiveFact{Timestamp: 1, Type: FactUserMsg}, false},
		{"zero timestamp", ObjectiveFact{ID: "a", Type: FactUserMsg}, false},
		{"unknown type", ObjectiveFact{ID: "a", Timestamp: 1, Type: "BOGUS"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fact.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestCognitiveStateValid(t *testing.T) {
	state := CognitiveState{
		CurrentGoal:      "goal",
		PlanStatus:       []string{},
		KeyFacts:         []string{},
		LastActionResult: "none",
	}
	if !state.Valid() {
		t.Errorf("Expected valid state: %+v", state)
	}

	state.PlanStatus = nil
	if state.Valid() {
		t.Error("Nil plan must be invalid")
	}

	state.PlanStatus = []string{}
	state.CurrentGoal = ""
	if state.Valid() {
		t.Error("Empty goal must be invalid")
	}
}

func TestExecutorDecisionValid(t *testing.T) {
	if !(ExecutorDecision{Action: ActionDone}).Valid() {
		t.Error("DONE needs no target path")
	}
	if (ExecutorDecision{Action: ActionCreateFile}).Valid() {
		t.Error("File actions need a target path")
	}
	if !(ExecutorDecision{Action: ActionReadFile, TargetPath: "/tmp/x"}).Valid() {
		t.Error("READ_FILE with a path must be valid")
	}
	if (ExecutorDecision{Action: "NOPE", TargetPath: "/tmp/x"}).Valid() {
		t.Error("Unknown actions must be invalid")
	}
}

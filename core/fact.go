package core

import (
	"time"

	"github.com/google/uuid"
)

// FactType classifies an entry in the objective fact log.
type FactType string

const (
	FactUserMsg     FactType = "USER_MSG"
	FactAIThought   FactType = "AI_THOUGHT"
	FactToolResult  FactType = "TOOL_RESULT"
	FactSystemEvent FactType = "SYSTEM_EVENT"
)

// ObjectiveFact is one immutable, timestamped event in the append-only
// fact log. Facts are never mutated after creation; ids are globally
// unique and never reused.
type ObjectiveFact struct {
	ID        string                 `json:"id"`
	Timestamp int64                  `json:"timestamp"` // unix milliseconds
	Type      FactType               `json:"type"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewFact creates a fact with a fresh id and the current timestamp.
func NewFact(factType FactType, content string, metadata map[string]interface{}) ObjectiveFact {
	return ObjectiveFact{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Type:      factType,
		Content:   content,
		Metadata:  metadata,
	}
}

// Valid reports whether the fact is structurally usable. Readers of the
// persisted log drop invalid records instead of failing.
func (f ObjectiveFact) Valid() bool {
	if f.ID == "" || f.Timestamp <= 0 {
		return false
	}
	switch f.Type {
	case FactUserMsg, FactAIThought, FactToolResult, FactSystemEvent:
		return true
	}
	return false
}

// CognitiveState is the bounded summary reconstructed on every recall:
// what the agent is doing, where the plan stands, what matters, and
// what just happened. A recall always produces a fresh value.
type CognitiveState struct {
	CurrentGoal      string   `json:"current_goal"`
	PlanStatus       []string `json:"plan_status"`
	KeyFacts         []string `json:"key_facts"`
	LastActionResult string   `json:"last_action_result"`
}

// Valid reports whether all required fields are present in the shape
// the executor and responder expect. Slices may be empty but not nil.
func (s CognitiveState) Valid() bool {
	return s.CurrentGoal != "" && s.PlanStatus != nil && s.KeyFacts != nil && s.LastActionResult != ""
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat message sent to a completion capability.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ActionType is one of the file actions the executor can choose.
type ActionType string

const (
	ActionCreateFile ActionType = "CREATE_FILE"
	ActionReadFile   ActionType = "READ_FILE"
	ActionDeleteFile ActionType = "DELETE_FILE"
	ActionDone       ActionType = "DONE"
)

// ExecutorDecision is the executor's parsed choice of next action.
type ExecutorDecision struct {
	Action     ActionType `json:"action"`
	Reasoning  string     `json:"reasoning"`
	TargetPath string     `json:"target_path"`
}

// Valid reports whether the decision names a known action.
func (d ExecutorDecision) Valid() bool {
	switch d.Action {
	case ActionCreateFile, ActionReadFile, ActionDeleteFile, ActionDone:
		return d.TargetPath != "" || d.Action == ActionDone
	}
	return false
}

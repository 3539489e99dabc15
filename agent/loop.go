// Package agent drives the recall-then-act loop used by the CLI demo.
// Each iteration recalls a fresh cognitive state from the fact log,
// asks the executor model to choose one file action from that state
// alone, performs it, and records the outcome as new facts.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/becomeliminal/agenter-go/cognition"
	"github.com/becomeliminal/agenter-go/config"
	"github.com/becomeliminal/agenter-go/core"
	"github.com/becomeliminal/agenter-go/llm"
	"github.com/becomeliminal/agenter-go/memory"
	"github.com/becomeliminal/agenter-go/recall"
)

// Loop is the executor loop. The executor holds no conversational
// state between iterations; everything it knows arrives through the
// recalled cognitive state.
type Loop struct {
	store      *memory.FactStore
	rememberer *recall.Rememberer
	completer  llm.Completer
	model      string
	targetPath string
}

func NewLoop(store *memory.FactStore, rememberer *recall.Rememberer, completer llm.Completer, model, targetPath string) *Loop {
	return &Loop{
		store:      store,
		rememberer: rememberer,
		completer:  completer,
		model:      model,
		targetPath: targetPath,
	}
}

// Step runs one recall-decide-act iteration. It returns the decision
// and whether the loop should continue.
func (l *Loop) Step(ctx context.Context, trigger string) (core.ExecutorDecision, bool, error) {
	state, err := l.rememberer.Recall(ctx, trigger)
	if err != nil {
		return core.ExecutorDecision{}, false, fmt.Errorf("recall state: %w", err)
	}
	log.Printf("[AGENT] Recalled goal: %s", state.CurrentGoal)

	decision, err := l.decide(ctx, state)
	if err != nil {
		return core.ExecutorDecision{}, false, fmt.Errorf("decide action: %w", err)
	}
	log.Printf("[AGENT] Decision: %s (%s)", decision.Action, decision.Reasoning)

	thought := core.NewFact(core.FactAIThought,
		fmt.Sprintf("Decision: %s. %s", decision.Action, decision.Reasoning), nil)
	if err := l.store.Append(ctx, thought); err != nil {
		return decision, false, fmt.Errorf("persist decision: %w", err)
	}

	if decision.Action == core.ActionDone {
		return decision, false, nil
	}

	outcome := l.execute(decision)
	log.Printf("[AGENT] %s", outcome)

	result := core.NewFact(core.FactToolResult, outcome, map[string]interface{}{
		"action":      string(decision.Action),
		"target_path": decision.TargetPath,
	})
	if err := l.store.Append(ctx, result); err != nil {
		return decision, false, fmt.Errorf("persist outcome: %w", err)
	}
	return decision, true, nil
}

// decide asks the executor model for the next action. An unparseable
// or invalid reply falls back to a keyword heuristic over the goal so
// the loop still terminates.
func (l *Loop) decide(ctx context.Context, state core.CognitiveState) (core.ExecutorDecision, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return core.ExecutorDecision{}, fmt.Errorf("marshal state: %w", err)
	}

	req := &llm.Request{
		Model:  l.model,
		System: config.ExecutorPrompt,
		Messages: []core.Message{{
			Role: core.RoleUser,
			Content: fmt.Sprintf("TARGET_PATH=%s\nCOGNITIVE_STATE_JSON=%s",
				l.targetPath, stateJSON),
		}},
	}
	raw, err := l.completer.Complete(ctx, req)
	if err != nil {
		return core.ExecutorDecision{}, err
	}

	if block, ok := cognition.ExtractJSONBlock(raw); ok {
		var decision core.ExecutorDecision
		if err := json.Unmarshal(block, &decision); err == nil && decision.Valid() {
			if decision.TargetPath == "" {
				decision.TargetPath = l.targetPath
			}
			return decision, nil
		}
	}
	log.Printf("[AGENT] Unparseable decision, falling back to goal keywords")
	return l.fallbackDecision(state), nil
}

func (l *Loop) fallbackDecision(state core.CognitiveState) core.ExecutorDecision {
	goal := core.NormalizeText(state.CurrentGoal)
	last := core.NormalizeText(state.LastActionResult)

	decision := core.ExecutorDecision{
		Reasoning:  "Derived from goal keywords",
		TargetPath: l.targetPath,
	}
	switch {
	case strings.Contains(goal, "creat") && !strings.Contains(last, "created"):
		decision.Action = core.ActionCreateFile
	case strings.Contains(goal, "read") && !strings.Contains(last, "read"):
		decision.Action = core.ActionReadFile
	case strings.Contains(goal, "delet") && !strings.Contains(last, "deleted"):
		decision.Action = core.ActionDeleteFile
	default:
		decision.Action = core.ActionDone
		decision.TargetPath = ""
	}
	return decision
}

// execute performs the chosen file action and returns the outcome
// sentence recorded as a TOOL_RESULT fact. Missing files are reported,
// not treated as loop failures.
func (l *Loop) execute(decision core.ExecutorDecision) string {
	path := decision.TargetPath
	switch decision.Action {
	case core.ActionCreateFile:
		if err := os.WriteFile(path, []byte("Hello World"), 0o644); err != nil {
			return fmt.Sprintf("Create failed at %s: %v", path, err)
		}
		return fmt.Sprintf("Created file at %s", path)
	case core.ActionReadFile:
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Sprintf("Read failed, file missing at %s", path)
		}
		return fmt.Sprintf("Read file at %s: %s", path, strings.TrimSpace(string(data)))
	case core.ActionDeleteFile:
		if err := os.Remove(path); err != nil {
			return fmt.Sprintf("Delete skipped, file missing at %s", path)
		}
		return fmt.Sprintf("Deleted file at %s", path)
	default:
		return "No action required"
	}
}

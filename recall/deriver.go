package recall

import (
	"fmt"
	"sort"
	"strings"

	"github.com/becomeliminal/agenter-go/core"
)

// fileMilestones are detected in fixed order; the current goal is the
// first unmet one.
var fileMilestones = []struct {
	label  string
	marker string
}{
	{label: "Create file", marker: "created file"},
	{label: "Read file", marker: "read file"},
	{label: "Delete file", marker: "deleted file"},
}

// DeriveState builds a cognitive state directly from the facts, with
// no model involved. It is the fallback whenever orchestration output
// cannot be parsed into the required shape.
func DeriveState(facts []core.ObjectiveFact) core.CognitiveState {
	texts := make([]string, 0, len(facts))
	for _, fact := range facts {
		texts = append(texts, core.NormalizeText(fact.Content))
	}

	met := make([]bool, len(fileMilestones))
	for i, milestone := range fileMilestones {
		for _, text := range texts {
			if strings.Contains(text, milestone.marker) {
				met[i] = true
				break
			}
		}
	}

	goal := "All tasks completed"
	for i, milestone := range fileMilestones {
		if !met[i] {
			goal = milestone.label
			break
		}
	}

	plan := make([]string, 0, len(fileMilestones))
	for i, milestone := range fileMilestones {
		tag := "todo"
		if met[i] {
			tag = "done"
		}
		plan = append(plan, fmt.Sprintf("%s (%s)", milestone.label, tag))
	}

	return core.CognitiveState{
		CurrentGoal:      goal,
		PlanStatus:       plan,
		KeyFacts:         deriveKeyFacts(facts),
		LastActionResult: deriveLastAction(facts),
	}
}

// deriveKeyFacts renders the last 5 user messages and tool results in
// chronological order.
func deriveKeyFacts(facts []core.ObjectiveFact) []string {
	sorted := make([]core.ObjectiveFact, len(facts))
	copy(sorted, facts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	var filtered []core.ObjectiveFact
	for _, fact := range sorted {
		if fact.Type == core.FactUserMsg || fact.Type == core.FactToolResult {
			filtered = append(filtered, fact)
		}
	}
	if len(filtered) > 5 {
		filtered = filtered[len(filtered)-5:]
	}

	keyFacts := make([]string, 0, len(filtered))
	for _, fact := range filtered {
		keyFacts = append(keyFacts, fmt.Sprintf("[%s] %s", fact.Type, fact.Content))
	}
	return keyFacts
}

// deriveLastAction returns the most recent tool result's content.
func deriveLastAction(facts []core.ObjectiveFact) string {
	for i := len(facts) - 1; i >= 0; i-- {
		if facts[i].Type == core.FactToolResult {
			return facts[i].Content
		}
	}
	return "No action yet"
}

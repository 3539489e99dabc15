package recall

import (
	"strings"

	"github.com/becomeliminal/agenter-go/cognition"
	"github.com/becomeliminal/agenter-go/core"
)

// completionTerms mark a working-memory entry as describing a finished
// action.
var completionTerms = []string{"completed", "complete", "done", "success", "created", "deleted", "finished"}

// buildFinalState derives the final CognitiveState from the run
// accumulator: high-priority emotional content first, then working
// memory, with goal and plan inferred from keywords.
func buildFinalState(state *runState) core.CognitiveState {
	entries := state.memory.Entries()

	// Key facts: high-priority emotion contents, then the first 5
	// working-memory entries, deduplicated, capped at 10.
	var keyFacts []string
	seen := make(map[string]bool)
	appendFact := func(fact string) {
		if fact == "" || seen[fact] || len(keyFacts) >= 10 {
			return
		}
		seen[fact] = true
		keyFacts = append(keyFacts, fact)
	}
	for _, tagged := range state.emotions {
		if tagged.Emotion.Priority == cognition.PriorityHigh {
			appendFact(tagged.Content)
		}
	}
	for i, entry := range entries {
		if i >= 5 {
			break
		}
		appendFact(entry)
	}
	if keyFacts == nil {
		keyFacts = []string{}
	}

	return core.CognitiveState{
		CurrentGoal:      inferGoal(state.trigger, entries),
		PlanStatus:       inferPlan(entries),
		KeyFacts:         keyFacts,
		LastActionResult: findLastAction(entries),
	}
}

// inferGoal maps trigger and working-memory keywords to a short goal
// statement.
func inferGoal(trigger string, entries []string) string {
	text := core.NormalizeText(trigger + " " + strings.Join(entries, " "))
	switch {
	case containsAny(text, "name", "who am i", "identity", "call me"):
		return "Clarify the user's identity and answer the name question"
	case containsAny(text, "file", "create", "write"):
		return "Help the user complete the file task"
	default:
		return "Respond to: " + core.Truncate(trigger, 30)
	}
}

// inferPlan renders a three-step plan when working memory mentions any
// file action, falling back to the generic recall plan.
func inferPlan(entries []string) []string {
	type step struct {
		label string
		stem  string
	}
	steps := []step{
		{label: "Create file", stem: "creat"},
		{label: "Read file", stem: "read"},
		{label: "Delete file", stem: "delet"},
	}

	mentioned := false
	for _, s := range steps {
		if stemPresent(entries, s.stem) {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return []string{
			"Understand the request (done)",
			"Retrieve related information (done)",
			"Compose the answer (active)",
		}
	}

	plan := make([]string, 0, len(steps))
	for _, s := range steps {
		tag := "todo"
		if stemDone(entries, s.stem) {
			tag = "done"
		}
		plan = append(plan, s.label+" ("+tag+")")
	}
	return plan
}

// findLastAction returns the first working-memory entry that reads
// like a finished action.
func findLastAction(entries []string) string {
	for _, entry := range entries {
		if containsAny(core.NormalizeText(entry), completionTerms...) {
			return entry
		}
	}
	return "No recent action"
}

func stemPresent(entries []string, stem string) bool {
	for _, entry := range entries {
		if strings.Contains(core.NormalizeText(entry), stem) {
			return true
		}
	}
	return false
}

// stemDone reports whether some entry mentions the action stem
// together with a completion term.
func stemDone(entries []string, stem string) bool {
	for _, entry := range entries {
		text := core.NormalizeText(entry)
		if strings.Contains(text, stem) && containsAny(text, completionTerms...) {
			return true
		}
	}
	return false
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

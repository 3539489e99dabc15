// Package cognition provides the registry of narrow text-completion
// capabilities the recall orchestrator fans out to. The five tools are
// not distinct control flows: each is one polymorphic capability
// carrying its own prompt template, sampling parameters, and expected
// output schema, dispatched through a single invoke path.
package cognition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/becomeliminal/agenter-go/config"
	"github.com/becomeliminal/agenter-go/core"
	"github.com/becomeliminal/agenter-go/llm"
)

// ErrNoJSON reports a completion response with no extractable JSON
// object. It is a hard failure: the registry does not retry, and a
// recall round that hits it terminates with an interrupt.
var ErrNoJSON = errors.New("no JSON object in response")

// ToolName identifies one cognition tool variant.
type ToolName string

const (
	ToolActivation         ToolName = "activation"
	ToolWorkingMemory      ToolName = "working-memory"
	ToolEmotionTagging     ToolName = "emotion-tagging"
	ToolComparison         ToolName = "comparison"
	ToolMetacognitiveCheck ToolName = "metacognitive-check"
)

// Tool is one configured cognition capability.
type Tool struct {
	Name   ToolName
	Config config.ToolConfig
	Schema map[string]interface{}
}

// Registry holds the configured tools behind one completion transport.
type Registry struct {
	completer llm.Completer
	tools     map[ToolName]Tool
}

// NewRegistry builds the five standard tools from the runtime config.
func NewRegistry(completer llm.Completer, cfg *config.Config) *Registry {
	tools := map[ToolName]Tool{
		ToolActivation: {
			Name:   ToolActivation,
			Config: cfg.Activation,
			Schema: Object(map[string]interface{}{
				"memories": Array(map[string]interface{}{
					"content":       String("memory fragment"),
					"relevance":     Number("0-1"),
					"emotional_tag": String("optional"),
					"timestamp":     String("optional"),
				}),
				"activation_pattern": String("how these memories were associated"),
			}),
		},
		ToolWorkingMemory: {
			Name:   ToolWorkingMemory,
			Config: cfg.WorkingMemory,
			Schema: Object(map[string]interface{}{
				"slots":      Array("string or null"),
				"operations": Array("string"),
				"reason":     String("decision rationale"),
			}),
		},
		ToolEmotionTagging: {
			Name:   ToolEmotionTagging,
			Config: cfg.Emotion,
			Schema: Object(map[string]interface{}{
				"valence":  StringEnum("positive", "negative", "neutral"),
				"arousal":  Number("0-1"),
				"priority": StringEnum("high", "medium", "low"),
				"reason":   String("analysis rationale"),
			}),
		},
		ToolComparison: {
			Name:   ToolComparison,
			Config: cfg.Comparison,
			Schema: Object(map[string]interface{}{
				"similarity":  Number("0-1"),
				"differences": Array("string"),
				"conclusion":  String("overall conclusion"),
			}),
		},
		ToolMetacognitiveCheck: {
			Name:   ToolMetacognitiveCheck,
			Config: cfg.Orchestrator,
			Schema: Object(map[string]interface{}{
				"should_continue":   Boolean(),
				"gaps":              Array("string"),
				"suggested_queries": Array("string"),
				"confidence":        Number("0-1"),
			}),
		},
	}
	return &Registry{completer: completer, tools: tools}
}

// invoke runs one tool: one completion call, extract the first
// balanced JSON block, parse into out.
func (r *Registry) invoke(ctx context.Context, name ToolName, userContent string, out interface{}) error {
	tool, ok := r.tools[name]
	if !ok {
		return fmt.Errorf("unknown cognition tool: %s", name)
	}

	schemaJSON, err := json.Marshal(tool.Schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	req := &llm.Request{
		Model:       tool.Config.Model,
		System:      tool.Config.SystemPrompt,
		Temperature: tool.Config.Temperature,
		TopP:        tool.Config.TopP,
		MaxTokens:   tool.Config.MaxTokens,
		Messages: []core.Message{{
			Role:    core.RoleUser,
			Content: fmt.Sprintf("%s\n\nReturn exactly one JSON object in this format: %s", userContent, schemaJSON),
		}},
	}

	raw, err := r.completer.Complete(ctx, req)
	if err != nil {
		return fmt.Errorf("%s completion: %w", name, err)
	}

	block, ok := ExtractJSONBlock(raw)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNoJSON)
	}
	if err := json.Unmarshal(block, out); err != nil {
		return fmt.Errorf("%s: parse result: %w", name, err)
	}
	return nil
}

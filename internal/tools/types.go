// Package tools defines the Tool type shared by the HTTP API and the
// assistant, and the insurance tools built on it.
package tools

import (
	"context"

	"github.com/agentic-insurtech/insurtech/internal/activity"
)

// Tool represents a callable function the LLM or an API client can invoke.
// Execute returns a JSON document.
type Tool struct {
	Name        string
	Description string
	Agent       activity.AgentType
	InputSchema map[string]interface{}
	Execute     func(ctx context.Context, input map[string]interface{}) (string, error)
}

// Info is the listing view of a tool.
type Info struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Agent       activity.AgentType     `json:"agent"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

func (t Tool) Info() Info {
	return Info{Name: t.Name, Description: t.Description, Agent: t.Agent, InputSchema: t.InputSchema}
}

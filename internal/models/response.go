package models

import (
	"github.com/agentic-insurtech/insurtech/internal/tools"
)

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ToolListResponse is returned by GET /api/v1/tools
type ToolListResponse struct {
	Status string       `json:"status"`
	Count  int          `json:"count"`
	Tools  []tools.Info `json:"tools"`
}

// AssistantResponse is returned by POST /api/v1/assistant
type AssistantResponse struct {
	Status        string                 `json:"status"`
	Prompt        string                 `json:"prompt"`
	Agent         string                 `json:"agent,omitempty"`
	Answer        *string                `json:"answer,omitempty"`
	AgentMetadata map[string]interface{} `json:"agent_metadata"`
}

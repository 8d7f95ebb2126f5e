// Package activity records what the agents did and derives performance
// metrics from the record.
package activity

import (
	"context"
	"time"
)

// AgentType identifies which agent a tool or activity belongs to.
type AgentType string

const (
	AgentUnderwriting AgentType = "underwriting"
	AgentClaims       AgentType = "claims"
	AgentCustomer     AgentType = "customer"
)

// AgentTypes lists every agent in display order.
var AgentTypes = []AgentType{AgentUnderwriting, AgentClaims, AgentCustomer}

// DisplayName is the human-facing agent name.
func (a AgentType) DisplayName() string {
	switch a {
	case AgentUnderwriting:
		return "Underwriting Analyzer"
	case AgentClaims:
		return "Claims Processor"
	case AgentCustomer:
		return "Customer Assistant"
	default:
		return string(a)
	}
}

// Valid reports whether a is one of the known agents.
func (a AgentType) Valid() bool {
	for _, t := range AgentTypes {
		if a == t {
			return true
		}
	}
	return false
}

// Entry is one recorded agent action.
type Entry struct {
	ID            string    `json:"id" bigquery:"id"`
	AgentType     AgentType `json:"agent_type" bigquery:"agent_type"`
	Action        string    `json:"action" bigquery:"action"`
	Tool          string    `json:"tool,omitempty" bigquery:"tool"`
	Success       bool      `json:"success" bigquery:"success"`
	ExecutionTime float64   `json:"execution_time" bigquery:"execution_time"` // seconds
	InputHash     string    `json:"input_hash,omitempty" bigquery:"input_hash"`
	Error         string    `json:"error,omitempty" bigquery:"error"`
	CreatedAt     time.Time `json:"created_at" bigquery:"created_at"`
}

// Recorder persists entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Closer is implemented by recorders holding external connections.
type Closer interface {
	Close() error
}

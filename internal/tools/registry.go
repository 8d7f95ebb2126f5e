package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/security"
)

// ErrUnknownTool is returned when no tool has the requested name.
var ErrUnknownTool = errors.New("unknown tool")

// Registry holds the available tools and records every invocation as an
// agent activity.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	recorder activity.Recorder
	audit    *security.AuditLogger
	now      func() time.Time
}

// NewRegistry creates a registry. recorder and audit may be nil.
func NewRegistry(recorder activity.Recorder, audit *security.AuditLogger, tools ...Tool) *Registry {
	r := &Registry{
		tools:    make(map[string]Tool, len(tools)),
		recorder: recorder,
		audit:    audit,
		now:      time.Now,
	}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds t, replacing any tool with the same name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns every tool sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ForAgent returns the tools belonging to agent, sorted by name.
func (r *Registry) ForAgent(agent activity.AgentType) []Tool {
	var out []Tool
	for _, t := range r.List() {
		if t.Agent == agent {
			out = append(out, t)
		}
	}
	return out
}

// Invoke runs the named tool and returns its JSON result, which is an
// {"error": ...} document when the tool fails. Only an unknown name is
// reported as a Go error.
func (r *Registry) Invoke(ctx context.Context, name string, raw []byte) ([]byte, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	start := r.now()
	out, runErr := run(ctx, t, raw)
	elapsed := r.now().Sub(start)

	entry := activity.Entry{
		ID:            uuid.NewString(),
		AgentType:     t.Agent,
		Action:        t.Name,
		Tool:          t.Name,
		Success:       runErr == nil,
		ExecutionTime: elapsed.Seconds(),
		InputHash:     security.Hash(string(raw)),
		CreatedAt:     start.UTC(),
	}
	if runErr != nil {
		entry.Error = runErr.Error()
		out = errorJSON(runErr)
	}

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, entry); err != nil {
			log.Warn().Err(err).Str("tool", name).Msg("failed to record activity")
		}
	}
	r.audit.LogToolInvocation(name, string(t.Agent), raw, security.APIKeyFromContext(ctx),
		elapsed.Milliseconds(), entry.Success, entry.Error)

	return out, nil
}

package security

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs security-relevant events with hashed identifiers
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// LogToolInvocation records one tool call. Arguments and API key are hashed
// so that policyholder details never reach the log.
func (a *AuditLogger) LogToolInvocation(
	tool, agent string,
	args []byte,
	apiKey string,
	executionTimeMs int64,
	success bool,
	errMsg string,
) {
	if a == nil || !a.enabled {
		return
	}
	evt := log.Info().
		Str("event", "tool_audit").
		Str("tool", tool).
		Str("agent", agent).
		Str("args_hash", Hash(string(args))).
		Str("api_key_hash", Hash(apiKey)).
		Int64("execution_time_ms", executionTimeMs).
		Bool("success", success)

	if errMsg != "" {
		evt = evt.Str("error", errMsg)
	}
	evt.Msg("audit")
}

// LogAssistantRequest records an assistant run
func (a *AuditLogger) LogAssistantRequest(
	prompt, apiKey, agent string,
	validationPassed bool,
	toolCalls int,
	executionTimeMs int64,
) {
	if a == nil || !a.enabled {
		return
	}
	log.Info().
		Str("event", "assistant_audit").
		Str("prompt_hash", Hash(prompt)).
		Str("api_key_hash", Hash(apiKey)).
		Str("agent", agent).
		Bool("validation_passed", validationPassed).
		Int("tool_calls", toolCalls).
		Int64("execution_time_ms", executionTimeMs).
		Msg("assistant audit")
}

// Hash returns the first 16 hex characters of the SHA-256 of s.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:8])
}

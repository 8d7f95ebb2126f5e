package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/models"
	"github.com/agentic-insurtech/insurtech/internal/policy"
	"github.com/agentic-insurtech/insurtech/internal/security"
	"github.com/agentic-insurtech/insurtech/internal/service"
	"github.com/agentic-insurtech/insurtech/internal/tools"
)

// maxPreloadedPolicies caps how many referenced policies are summarized into
// the system prompt.
const maxPreloadedPolicies = 3

const rules = `
RULES:
1. Use the tools for every number you report; never invent policy details, scores or premiums
2. Tool results are JSON; an "error" field means the call failed, explain that plainly
3. Never reveal a policyholder's contact details to anyone but the policyholder
4. Answer in plain language and keep it short`

var agentPrompts = map[activity.AgentType]string{
	activity.AgentUnderwriting: `You are the Underwriting Analyzer, an expert insurance underwriter.
Your job is to assess insurance risk for a customer's items and location and recommend coverage and pricing.
Use risk_assessment_tool with item counts by category, and pass the customer's address as location or the location attributes you can infer.`,
	activity.AgentClaims: `You are the Claims Processor, a skilled claims adjuster with a keen eye for detail.
Your job is to process insurance claims quickly and accurately while identifying potential fraud.
Use fraud_detection_tool on the claim, the policy start date and the customer's claim history.
Use claim_amount_tool to estimate the payout for the claimed items and document_analysis_tool to read any document text the customer pastes.`,
	activity.AgentCustomer: `You are the Customer Assistant, a friendly and knowledgeable support specialist.
Your job is to help customers understand their policies and coverage and answer their questions.
Use policy_lookup_tool and coverage_summary_tool to find policies, and sentiment_analysis_tool when the customer sounds upset.`,
}

// Runner runs the tool loop. *Assistant implements it.
type Runner interface {
	Run(ctx context.Context, systemPrompt, userPrompt string, agentTools []tools.Tool) (Result, error)
}

// AssistantHandler orchestrates the prompt → route → tool loop pipeline
type AssistantHandler struct {
	runner      Runner
	model       string
	registry    *tools.Registry
	policies    *policy.Service
	router      *service.IntentRouter
	piiDetector *security.PIIDetector
	promptVal   *security.PromptValidator
	auditLogger *security.AuditLogger
	recorder    activity.Recorder
}

// NewAssistantHandler creates a handler with all security components wired in
func NewAssistantHandler(
	runner Runner,
	model string,
	registry *tools.Registry,
	policies *policy.Service,
	router *service.IntentRouter,
	piiDetector *security.PIIDetector,
	promptVal *security.PromptValidator,
	auditLogger *security.AuditLogger,
	recorder activity.Recorder,
) *AssistantHandler {
	return &AssistantHandler{
		runner:      runner,
		model:       model,
		registry:    registry,
		policies:    policies,
		router:      router,
		piiDetector: piiDetector,
		promptVal:   promptVal,
		auditLogger: auditLogger,
		recorder:    recorder,
	}
}

// Handle processes an assistant request. When the request is rejected the
// returned response explains why alongside the error.
func (h *AssistantHandler) Handle(ctx context.Context, req *models.AssistantRequest, apiKey string) (*models.AssistantResponse, error) {
	start := time.Now()
	metadata := map[string]interface{}{
		"model":  h.model,
		"method": "agent",
	}
	reject := func(err error) (*models.AssistantResponse, error) {
		h.auditLogger.LogAssistantRequest(req.Prompt, apiKey, "", false, 0, time.Since(start).Milliseconds())
		return &models.AssistantResponse{Status: "error", Prompt: req.Prompt, AgentMetadata: metadata}, err
	}

	// 1. PII detection
	if found, kw := h.piiDetector.Detect(req.Prompt); found {
		metadata["pii_check"] = "blocked: " + kw
		return reject(fmt.Errorf("PII detected in prompt: %s", kw))
	}
	metadata["pii_check"] = "passed"

	// 2. Prompt validation
	if vr := h.promptVal.Validate(req.Prompt); !vr.Valid {
		metadata["prompt_validation"] = "blocked: " + vr.Message
		return reject(fmt.Errorf("prompt validation failed: %s", vr.Message))
	}
	metadata["prompt_validation"] = "passed"

	// 3. Pick the agent
	agentType, err := h.route(req, metadata)
	if err != nil {
		return reject(err)
	}

	// 4. Tools and system prompt
	agentTools := h.registry.ForAgent(agentType)
	ids := security.ExtractIdentifiers(req.Prompt)
	if !ids.Empty() {
		metadata["identifiers"] = ids
	}
	systemPrompt := h.buildSystemPrompt(ctx, agentType, ids)

	// 5. Run the tool loop
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(req.Timeout)*time.Second)
	defer cancel()

	res, runErr := h.runner.Run(runCtx, systemPrompt, req.Prompt, agentTools)
	elapsed := time.Since(start)
	metadata["tools_used"] = res.ToolsUsed
	metadata["iterations"] = res.Iterations
	metadata["execution_time_ms"] = elapsed.Milliseconds()

	h.auditLogger.LogAssistantRequest(req.Prompt, apiKey, string(agentType), true, len(res.ToolsUsed), elapsed.Milliseconds())
	h.record(ctx, agentType, req.Prompt, start, elapsed, runErr)

	if runErr != nil {
		return nil, fmt.Errorf("agent run: %w", runErr)
	}

	answer := res.Answer
	return &models.AssistantResponse{
		Status:        "success",
		Prompt:        req.Prompt,
		Agent:         agentType.DisplayName(),
		Answer:        &answer,
		AgentMetadata: metadata,
	}, nil
}

func (h *AssistantHandler) route(req *models.AssistantRequest, metadata map[string]interface{}) (activity.AgentType, error) {
	if req.Agent != nil && *req.Agent != "" {
		a := activity.AgentType(strings.ToLower(*req.Agent))
		if !a.Valid() {
			return "", fmt.Errorf("unknown agent %q", *req.Agent)
		}
		metadata["routing_confidence"] = 1.0
		metadata["routing_reasoning"] = "explicitly specified by user"
		return a, nil
	}
	routing := h.router.Route(req.Prompt)
	metadata["routing_confidence"] = routing.Confidence
	metadata["routing_reasoning"] = routing.Reasoning
	return routing.Agent, nil
}

// buildSystemPrompt returns the agent prompt, pre-loaded with the coverage
// summary of every policy the prompt references so the model can often
// answer without a lookup.
func (h *AssistantHandler) buildSystemPrompt(ctx context.Context, agentType activity.AgentType, ids security.Identifiers) string {
	var sb strings.Builder
	sb.WriteString(agentPrompts[agentType])
	sb.WriteString("\n")
	sb.WriteString(rules)

	if h.policies == nil || len(ids.PolicyNumbers) == 0 {
		return sb.String()
	}

	var loaded int
	for _, number := range ids.PolicyNumbers {
		if loaded == maxPreloadedPolicies {
			break
		}
		sum, err := h.policies.CoverageSummary(ctx, number)
		if err != nil {
			log.Warn().Err(err).Str("policy", number).Msg("pre-load coverage summary failed")
			continue
		}
		if !sum.Found {
			continue
		}
		b, err := json.Marshal(sum)
		if err != nil {
			continue
		}
		if loaded == 0 {
			sb.WriteString("\n\n## Referenced policies\nCoverage summaries for the policies in the request:\n")
		}
		sb.WriteString("\n")
		sb.Write(b)
		loaded++
	}
	return sb.String()
}

func (h *AssistantHandler) record(ctx context.Context, agentType activity.AgentType, prompt string, start time.Time, elapsed time.Duration, runErr error) {
	if h.recorder == nil {
		return
	}
	e := activity.Entry{
		ID:            uuid.NewString(),
		AgentType:     agentType,
		Action:        "Assistant Run",
		Success:       runErr == nil,
		ExecutionTime: elapsed.Seconds(),
		InputHash:     security.Hash(prompt),
		CreatedAt:     start.UTC(),
	}
	if runErr != nil {
		e.Error = runErr.Error()
	}
	if err := h.recorder.Record(ctx, e); err != nil {
		log.Warn().Err(err).Msg("failed to record assistant activity")
	}
}

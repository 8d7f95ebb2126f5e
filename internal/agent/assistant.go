// Package agent runs the LLM tool loop behind the insurance assistant.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"

	"github.com/agentic-insurtech/insurtech/internal/tools"
)

const (
	defaultModel     = "claude-sonnet-4-6"
	defaultMaxTokens = 4096
	maxIterations    = 10
	// forceAnswerAfter is the iteration after which the model must answer
	// without further tool calls.
	forceAnswerAfter = 7

	forceAnswerPrompt = "You have enough information. Give your final answer now without calling any more tools."
)

// Executor runs a tool by name with raw JSON arguments and returns its JSON
// result. *tools.Registry implements it.
type Executor interface {
	Invoke(ctx context.Context, name string, raw []byte) ([]byte, error)
}

// ToolCall represents a tool invocation request from the LLM
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// Result is the outcome of one assistant run.
type Result struct {
	Answer     string
	ToolsUsed  []string
	Iterations int
}

// Assistant wraps the Anthropic SDK for a multi-turn tool-calling loop
type Assistant struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	exec      Executor
}

// NewAssistant creates an assistant backed by Anthropic Claude or a
// compatible provider. Tool calls are executed through exec.
func NewAssistant(apiKey, model, baseURL string, exec Executor, extra ...option.RequestOption) *Assistant {
	if model == "" {
		model = defaultModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)
	return &Assistant{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: defaultMaxTokens,
		exec:      exec,
	}
}

// Model returns the configured model name.
func (a *Assistant) Model() string { return a.model }

// Run executes the agent loop until the model stops calling tools. Only the
// tools in agentTools are offered to and callable by the model.
func (a *Assistant) Run(ctx context.Context, systemPrompt, userPrompt string, agentTools []tools.Tool) (Result, error) {
	allowed := make(map[string]bool, len(agentTools))
	toolParams := make([]anthropic.ToolUnionUnionParam, len(agentTools))
	for i, t := range agentTools {
		allowed[t.Name] = true
		schema := map[string]interface{}{
			"type":       "object",
			"properties": t.InputSchema["properties"],
		}
		if required, ok := t.InputSchema["required"]; ok {
			schema["required"] = required
		}
		toolParams[i] = anthropic.ToolParam{
			Name:        anthropic.String(t.Name),
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.F[interface{}](schema),
		}
	}

	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
	}

	var res Result
	for iter := 0; iter < maxIterations; iter++ {
		res.Iterations = iter + 1

		params := a.params(systemPrompt, messages)
		if len(toolParams) > 0 {
			params.Tools = anthropic.F(toolParams)
		}
		resp, err := a.client.Messages.New(ctx, params)
		if err != nil {
			return res, fmt.Errorf("LLM call failed: %w", err)
		}

		text, calls := splitContent(resp)
		log.Debug().
			Int("iter", iter).
			Str("stop_reason", string(resp.StopReason)).
			Int("tool_calls", len(calls)).
			Msg("assistant iteration")

		if resp.StopReason != "tool_use" || len(calls) == 0 {
			res.Answer = text
			return res, nil
		}

		messages = append(messages, resp.ToParam())

		if iter >= forceAnswerAfter {
			// Every tool_use must be answered by a tool_result in the next turn.
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(calls)+1)
			for _, tc := range calls {
				blocks = append(blocks, anthropic.NewToolResultBlock(tc.ID, errorResult("skipped: tool budget exhausted"), true))
			}
			blocks = append(blocks, anthropic.NewTextBlock(forceAnswerPrompt))
			messages = append(messages, anthropic.NewUserMessage(blocks...))

			// Tools stay declared since the history references them.
			finalParams := params
			finalParams.Messages = anthropic.F(messages)
			final, err := a.client.Messages.New(ctx, finalParams)
			if err != nil {
				return res, fmt.Errorf("final answer call failed: %w", err)
			}
			finalText, _ := splitContent(final)
			res.Answer = text + finalText
			return res, nil
		}

		results := make([]anthropic.ContentBlockParamUnion, 0, len(calls))
		for _, tc := range calls {
			res.ToolsUsed = append(res.ToolsUsed, tc.Name)
			out, isErr := a.execute(ctx, tc, allowed)
			results = append(results, anthropic.NewToolResultBlock(tc.ID, out, isErr))
		}
		messages = append(messages, anthropic.NewUserMessage(results...))
	}

	return res, fmt.Errorf("agent loop exceeded max iterations (%d)", maxIterations)
}

func (a *Assistant) params(systemPrompt string, messages []anthropic.MessageParam) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(a.model)),
		MaxTokens: anthropic.F(int64(a.maxTokens)),
		Messages:  anthropic.F(messages),
	}
	if systemPrompt != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{anthropic.NewTextBlock(systemPrompt)})
	}
	return params
}

// execute runs one tool call and reports whether the result is an error.
func (a *Assistant) execute(ctx context.Context, tc ToolCall, allowed map[string]bool) (string, bool) {
	if !allowed[tc.Name] {
		log.Warn().Str("tool", tc.Name).Msg("model requested a tool it was not offered")
		return errorResult("unknown tool: " + tc.Name), true
	}
	out, err := a.exec.Invoke(ctx, tc.Name, tc.Input)
	if err != nil {
		log.Warn().Err(err).Str("tool", tc.Name).Msg("tool execution error")
		return errorResult(err.Error()), true
	}
	var probe struct {
		Error *string `json:"error"`
	}
	isErr := json.Unmarshal(out, &probe) == nil && probe.Error != nil
	return string(out), isErr
}

func errorResult(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

func splitContent(resp *anthropic.Message) (string, []ToolCall) {
	var text string
	var calls []ToolCall
	for _, block := range resp.Content {
		switch b := block.AsUnion().(type) {
		case anthropic.TextBlock:
			text += b.Text
		case anthropic.ToolUseBlock:
			calls = append(calls, ToolCall{ID: b.ID, Name: b.Name, Input: b.Input})
		}
	}
	return text, calls
}

package tools

import (
	"context"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/fraud"
	"github.com/agentic-insurtech/insurtech/internal/sentiment"
)

// FraudDetectionTool scores a claim for fraud indicators
func FraudDetectionTool(d *fraud.Detector) Tool {
	return Tool{
		Name:        "fraud_detection_tool",
		Description: "Score a claim for fraud indicators (new policy, weekend report, vague description, many items, frequent claims, water damage without weather, theft without police report).",
		Agent:       activity.AgentClaims,
		InputSchema: objectSchema([]string{"claim_data", "policy_data", "customer_history"}, map[string]interface{}{
			"claim_data":       prop("object", "Claim with description, report_date (YYYY-MM-DD), items and police_report"),
			"policy_data":      prop("object", "Policy with start_date (YYYY-MM-DD)"),
			"customer_history": prop("object", "History with recent_claims"),
		}),
		Execute: func(_ context.Context, input map[string]interface{}) (string, error) {
			var (
				claim fraud.Claim
				pol   fraud.PolicyInfo
				hist  fraud.History
			)
			if err := decodeArg(input, "claim_data", &claim, true); err != nil {
				return "", err
			}
			if err := decodeArg(input, "policy_data", &pol, true); err != nil {
				return "", err
			}
			if err := decodeArg(input, "customer_history", &hist, true); err != nil {
				return "", err
			}
			return marshal(d.Detect(claim, pol, hist))
		},
	}
}

type sentimentResult struct {
	sentiment.Result
	EscalationPriority sentiment.Priority `json:"escalation_priority"`
}

// SentimentAnalysisTool reads the tone of a customer message
func SentimentAnalysisTool() Tool {
	return Tool{
		Name:        "sentiment_analysis_tool",
		Description: "Analyze the sentiment of customer text: label, score in [-1, 1], dominant emotions, key phrases and the escalation priority it implies.",
		Agent:       activity.AgentCustomer,
		InputSchema: objectSchema([]string{"text"}, map[string]interface{}{
			"text": prop("string", "Customer message"),
		}),
		Execute: func(_ context.Context, input map[string]interface{}) (string, error) {
			text, err := stringArg(input, "text")
			if err != nil {
				return "", err
			}
			if text == "" {
				return "", errMissing("text")
			}
			r := sentiment.Analyze(text)
			return marshal(sentimentResult{Result: r, EscalationPriority: sentiment.EscalationPriority(r)})
		},
	}
}

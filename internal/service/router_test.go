package service_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/sentiment"
	"github.com/agentic-insurtech/insurtech/internal/service"
)

func TestIntentRouter_Underwriting(t *testing.T) {
	r := service.NewIntentRouter()

	prompts := []string{
		"Can you assess the risk for my electronics and jewelry?",
		"I need a quote to insure my furniture in a flood zone",
		"What premium for 3 appliances in an urban location?",
	}
	for _, p := range prompts {
		res := r.Route(p)
		if res.Agent != activity.AgentUnderwriting {
			t.Errorf("expected underwriting for %q, got %q (confidence %.2f: %s)",
				p, res.Agent, res.Confidence, res.Reasoning)
		}
	}
}

func TestIntentRouter_Claims(t *testing.T) {
	r := service.NewIntentRouter()

	prompts := []string{
		"I want to file a claim, my laptop was stolen",
		"There was fire damage in my kitchen after an accident",
		"Burglary last night, police report attached",
	}
	for _, p := range prompts {
		res := r.Route(p)
		if res.Agent != activity.AgentClaims {
			t.Errorf("expected claims for %q, got %q (confidence %.2f: %s)",
				p, res.Agent, res.Confidence, res.Reasoning)
		}
	}
}

func TestIntentRouter_Customer(t *testing.T) {
	r := service.NewIntentRouter()

	prompts := []string{
		"When does my policy expire?",
		"I can't login to my account, please help",
		"What is my deductible and when is the next payment due?",
	}
	for _, p := range prompts {
		res := r.Route(p)
		if res.Agent != activity.AgentCustomer {
			t.Errorf("expected customer for %q, got %q (confidence %.2f: %s)",
				p, res.Agent, res.Confidence, res.Reasoning)
		}
		if res.Confidence <= 0 || res.Reasoning == "" {
			t.Errorf("missing confidence or reasoning for %q", p)
		}
	}
}

func TestIntentRouter_NoKeywords(t *testing.T) {
	r := service.NewIntentRouter()
	res := r.Route("hello world")
	if res.Agent != activity.AgentCustomer || res.Confidence != 0.5 {
		t.Errorf("default should be the customer agent, got %s (%.2f)", res.Agent, res.Confidence)
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		query string
		want  service.QueryCategory
	}{
		{"What is my deductible?", service.CategoryPolicyInfo},
		{"Has my claim been approved yet?", service.CategoryClaimStatus},
		{"Why is my bill so expensive?", service.CategoryBilling},
		{"I forgot my password and can't access the website", service.CategoryTechnicalSupport},
		{"Does it protect against theft?", service.CategoryCoverageQuestion},
		{"I am dissatisfied, this is a mistake", service.CategoryComplaint},
		{"Good morning", service.CategoryGeneralInquiry},
		{"policy claim", service.CategoryPolicyInfo}, // tie goes to the first category
		{"late payment", service.CategoryBilling},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := service.Categorize(tt.query); got != tt.want {
				t.Errorf("Categorize(%q) = %s, want %s", tt.query, got, tt.want)
			}
		})
	}
}

var escIDRe = regexp.MustCompile(`^ESC-20250601-\d{4}$`)

func TestEscalate(t *testing.T) {
	store := service.NewMemoryEscalations()
	log := activity.NewMemoryLog(10)
	e := service.NewEscalator(store, log).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) })

	esc, err := e.Escalate(context.Background(), "This is terrible and awful, I am angry", "POL-20250101-1234")
	if err != nil {
		t.Fatal(err)
	}
	if !escIDRe.MatchString(esc.EscalationID) {
		t.Errorf("escalation id = %q", esc.EscalationID)
	}
	if esc.Priority != sentiment.PriorityHigh || esc.Sentiment != sentiment.Negative {
		t.Errorf("priority = %s, sentiment = %s", esc.Priority, esc.Sentiment)
	}
	if esc.Status != "Pending" || esc.PolicyNumber != "POL-20250101-1234" || esc.ID == "" {
		t.Errorf("escalation = %+v", esc)
	}
	if saved := store.All(); len(saved) != 1 || saved[0].EscalationID != esc.EscalationID {
		t.Errorf("saved = %+v", saved)
	}
	if entries := log.Entries(); len(entries) != 1 || !entries[0].Success || entries[0].AgentType != activity.AgentCustomer {
		t.Errorf("activity = %+v", entries)
	}

	again, _ := e.Escalate(context.Background(), "This is terrible and awful, I am angry", "")
	if again.EscalationID != esc.EscalationID {
		t.Error("escalation id should be derived from date and query")
	}
}

func TestEscalatePositiveIsLowPriority(t *testing.T) {
	e := service.NewEscalator(service.NewMemoryEscalations(), nil)
	esc, err := e.Escalate(context.Background(), "Thanks, great and helpful service", "")
	if err != nil {
		t.Fatal(err)
	}
	if esc.Priority != sentiment.PriorityLow {
		t.Errorf("priority = %s, want Low", esc.Priority)
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, service.Escalation) error { return errors.New("db down") }

func TestEscalateStoreFailureIsNotFatal(t *testing.T) {
	e := service.NewEscalator(failingStore{}, nil)
	if _, err := e.Escalate(context.Background(), "where is my refund", ""); err != nil {
		t.Errorf("store failure should not fail the escalation: %v", err)
	}
}

func TestEscalateEmptyQuery(t *testing.T) {
	log := activity.NewMemoryLog(10)
	e := service.NewEscalator(service.NewMemoryEscalations(), log)
	if _, err := e.Escalate(context.Background(), "   ", ""); !errors.Is(err, service.ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}
	if entries := log.Entries(); len(entries) != 1 || entries[0].Success {
		t.Errorf("failed escalation should be recorded, got %+v", entries)
	}
}

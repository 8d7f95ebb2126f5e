package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/security"
	"github.com/agentic-insurtech/insurtech/internal/sentiment"
)

// ErrEmptyQuery is returned when an escalation has no query text.
var ErrEmptyQuery = errors.New("query is required")

const escalationPending = "Pending"

// Escalation is a customer query handed over to a human agent.
type Escalation struct {
	ID             string             `json:"id"`
	EscalationID   string             `json:"escalation_id"`
	Query          string             `json:"query"`
	PolicyNumber   string             `json:"policy_number,omitempty"`
	Category       QueryCategory      `json:"category"`
	Priority       sentiment.Priority `json:"priority"`
	Sentiment      sentiment.Label    `json:"sentiment"`
	SentimentScore float64            `json:"sentiment_score"`
	Status         string             `json:"status"`
	Response       string             `json:"response"`
	CreatedAt      time.Time          `json:"created_at"`
}

// EscalationStore persists escalations.
type EscalationStore interface {
	Save(ctx context.Context, e Escalation) error
}

// Escalator turns customer queries into prioritized escalations.
type Escalator struct {
	store    EscalationStore
	recorder activity.Recorder
	now      func() time.Time
}

// NewEscalator creates an Escalator. recorder may be nil.
func NewEscalator(store EscalationStore, recorder activity.Recorder) *Escalator {
	return &Escalator{store: store, recorder: recorder, now: time.Now}
}

// WithClock replaces the escalator clock, for tests.
func (e *Escalator) WithClock(now func() time.Time) *Escalator {
	e.now = now
	return e
}

// Escalate analyses the sentiment of query, derives the priority and saves
// the escalation. A storage failure is logged and does not fail the
// escalation.
func (e *Escalator) Escalate(ctx context.Context, query, policyNumber string) (Escalation, error) {
	start := e.now()
	query = strings.TrimSpace(query)
	if query == "" {
		e.record(ctx, start, false, ErrEmptyQuery.Error(), query)
		return Escalation{}, ErrEmptyQuery
	}

	s := sentiment.Analyze(query)
	esc := Escalation{
		ID:             uuid.NewString(),
		EscalationID:   escalationID(start, query),
		Query:          query,
		PolicyNumber:   strings.TrimSpace(policyNumber),
		Category:       Categorize(query),
		Priority:       sentiment.EscalationPriority(s),
		Sentiment:      s.Sentiment,
		SentimentScore: s.Score,
		Status:         escalationPending,
		CreatedAt:      start.UTC(),
	}
	esc.Response = fmt.Sprintf(
		"Your query has been escalated to a human agent. A customer service representative will contact you shortly.\n\nEscalation ID: %s\nPriority: %s\n\nThank you for your patience.",
		esc.EscalationID, esc.Priority)

	if err := e.store.Save(ctx, esc); err != nil {
		log.Warn().Err(err).Str("escalation_id", esc.EscalationID).Msg("failed to save escalation")
	}
	e.record(ctx, start, true, "", query)
	return esc, nil
}

func (e *Escalator) record(ctx context.Context, start time.Time, ok bool, errMsg, query string) {
	if e.recorder == nil {
		return
	}
	entry := activity.Entry{
		ID:            uuid.NewString(),
		AgentType:     activity.AgentCustomer,
		Action:        "Query Escalation",
		Success:       ok,
		ExecutionTime: e.now().Sub(start).Seconds(),
		InputHash:     security.Hash(query),
		Error:         errMsg,
		CreatedAt:     start.UTC(),
	}
	if err := e.recorder.Record(ctx, entry); err != nil {
		log.Warn().Err(err).Msg("failed to record escalation activity")
	}
}

// escalationID formats ESC-YYYYMMDD-NNNN where NNNN is derived from the query.
func escalationID(at time.Time, query string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(query))
	return fmt.Sprintf("ESC-%s-%04d", at.UTC().Format("20060102"), h.Sum32()%10000)
}

// MemoryEscalations keeps escalations in process.
type MemoryEscalations struct {
	mu    sync.Mutex
	items []Escalation
}

func NewMemoryEscalations() *MemoryEscalations {
	return &MemoryEscalations{}
}

func (m *MemoryEscalations) Save(_ context.Context, e Escalation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, e)
	return nil
}

// All returns the saved escalations in insertion order.
func (m *MemoryEscalations) All() []Escalation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Escalation(nil), m.items...)
}

const createEscalationsTable = `CREATE TABLE IF NOT EXISTS escalations (
	id              UUID PRIMARY KEY,
	escalation_id   TEXT NOT NULL,
	query           TEXT NOT NULL,
	policy_number   TEXT NOT NULL DEFAULT '',
	category        TEXT NOT NULL,
	priority        TEXT NOT NULL,
	sentiment       TEXT NOT NULL,
	sentiment_score DOUBLE PRECISION NOT NULL,
	status          TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
)`

// PostgresEscalations stores escalations in the escalations table.
type PostgresEscalations struct {
	pool *pgxpool.Pool
}

func NewPostgresEscalations(pool *pgxpool.Pool) *PostgresEscalations {
	return &PostgresEscalations{pool: pool}
}

// EnsureSchema creates the escalations table if needed.
func (p *PostgresEscalations) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, createEscalationsTable); err != nil {
		return fmt.Errorf("create escalations table: %w", err)
	}
	return nil
}

func (p *PostgresEscalations) Save(ctx context.Context, e Escalation) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO escalations
		(id, escalation_id, query, policy_number, category, priority, sentiment, sentiment_score, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.EscalationID, e.Query, e.PolicyNumber, string(e.Category), string(e.Priority),
		string(e.Sentiment), e.SentimentScore, e.Status, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert escalation: %w", err)
	}
	return nil
}

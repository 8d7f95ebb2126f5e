package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createActivitiesTable = `CREATE TABLE IF NOT EXISTS agent_activities (
	id             UUID PRIMARY KEY,
	agent_type     TEXT NOT NULL,
	action         TEXT NOT NULL,
	tool           TEXT NOT NULL DEFAULT '',
	success        BOOLEAN NOT NULL,
	execution_time DOUBLE PRECISION NOT NULL,
	input_hash     TEXT NOT NULL DEFAULT '',
	error          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL
)`

const insertActivity = `INSERT INTO agent_activities
	(id, agent_type, action, tool, success, execution_time, input_hash, error, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// PostgresRecorder inserts entries into the agent_activities table.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

// EnsureSchema creates the agent_activities table if needed.
func (p *PostgresRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, createActivitiesTable); err != nil {
		return fmt.Errorf("create agent_activities table: %w", err)
	}
	return nil
}

func (p *PostgresRecorder) Record(ctx context.Context, e Entry) error {
	_, err := p.pool.Exec(ctx, insertActivity,
		e.ID, string(e.AgentType), e.Action, e.Tool, e.Success,
		e.ExecutionTime, e.InputHash, e.Error, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const policyColumns = `policy_number, policy_type, coverage_amount::float8, premium_amount::float8,
	start_date::text, end_date::text, status, policyholder::text, coverage_details::text`

const createPoliciesTable = `CREATE TABLE IF NOT EXISTS policies (
	policy_number    TEXT PRIMARY KEY,
	policy_type      TEXT NOT NULL,
	coverage_amount  NUMERIC(14,2) NOT NULL,
	premium_amount   NUMERIC(14,2) NOT NULL,
	start_date       TEXT NOT NULL,
	end_date         TEXT NOT NULL,
	status           TEXT NOT NULL,
	policyholder     JSONB NOT NULL,
	coverage_details JSONB NOT NULL DEFAULT '{}'
)`

const insertPolicy = `INSERT INTO policies (policy_number, policy_type, coverage_amount, premium_amount,
	start_date, end_date, status, policyholder, coverage_details)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb)
ON CONFLICT (policy_number) DO NOTHING`

// PostgresStore reads policies from a Postgres "policies" table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the policies table if needed and inserts the given
// seed policies that are not already present.
func (s *PostgresStore) EnsureSchema(ctx context.Context, seed []Policy) error {
	if _, err := s.pool.Exec(ctx, createPoliciesTable); err != nil {
		return fmt.Errorf("create policies table: %w", err)
	}
	for _, p := range seed {
		holder, err := json.Marshal(p.Policyholder)
		if err != nil {
			return fmt.Errorf("marshal policyholder %s: %w", p.PolicyNumber, err)
		}
		details, err := json.Marshal(p.CoverageDetails)
		if err != nil {
			return fmt.Errorf("marshal coverage details %s: %w", p.PolicyNumber, err)
		}
		if _, err := s.pool.Exec(ctx, insertPolicy,
			p.PolicyNumber, p.PolicyType, p.CoverageAmount, p.PremiumAmount,
			p.StartDate, p.EndDate, p.Status, string(holder), string(details),
		); err != nil {
			return fmt.Errorf("seed policy %s: %w", p.PolicyNumber, err)
		}
	}
	log.Info().Int("seeded", len(seed)).Msg("policies table ready")
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, number string) (Policy, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+policyColumns+` FROM policies WHERE policy_number = $1`, number)
	p, err := scanPolicy(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Policy{}, ErrNotFound
	}
	if err != nil {
		return Policy{}, fmt.Errorf("query policy: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Policy, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+policyColumns+` FROM policies ORDER BY policy_number`)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}
	defer rows.Close()

	var out []Policy
	for rows.Next() {
		p, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policies: %w", err)
	}
	return out, nil
}

// TestConnection pings the database.
func (s *PostgresStore) TestConnection(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func scanPolicy(row pgx.Row) (Policy, error) {
	var (
		p       Policy
		holder  string
		details string
	)
	if err := row.Scan(
		&p.PolicyNumber, &p.PolicyType, &p.CoverageAmount, &p.PremiumAmount,
		&p.StartDate, &p.EndDate, &p.Status, &holder, &details,
	); err != nil {
		return Policy{}, err
	}
	if err := json.Unmarshal([]byte(holder), &p.Policyholder); err != nil {
		return Policy{}, fmt.Errorf("decode policyholder: %w", err)
	}
	if err := json.Unmarshal([]byte(details), &p.CoverageDetails); err != nil {
		return Policy{}, fmt.Errorf("decode coverage details: %w", err)
	}
	return p, nil
}

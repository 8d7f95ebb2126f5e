package server

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/agentic-insurtech/insurtech/internal/activity"
	"github.com/agentic-insurtech/insurtech/internal/agent"
	"github.com/agentic-insurtech/insurtech/internal/config"
	"github.com/agentic-insurtech/insurtech/internal/fraud"
	"github.com/agentic-insurtech/insurtech/internal/handler"
	"github.com/agentic-insurtech/insurtech/internal/policy"
	"github.com/agentic-insurtech/insurtech/internal/risk"
	"github.com/agentic-insurtech/insurtech/internal/security"
	"github.com/agentic-insurtech/insurtech/internal/service"
	"github.com/agentic-insurtech/insurtech/internal/tools"
)

// dependencies holds the wired components shared by the routes.
type dependencies struct {
	pool      *pgxpool.Pool
	fanout    *activity.Fanout
	memoryLog *activity.MemoryLog
	health    map[string]handler.HealthChecker

	riskModel *risk.Model
	policies  *policy.Service
	escalator *service.Escalator
	registry  *tools.Registry
	masker    *security.DataMasker
	assistant *agent.AssistantHandler
}

func buildDependencies(ctx context.Context, cfg *config.Config) (*dependencies, error) {
	d := &dependencies{
		fanout:    activity.NewFanout(),
		memoryLog: activity.NewMemoryLog(cfg.ActivityLogSize),
		health:    map[string]handler.HealthChecker{},
	}
	d.fanout.Add("memory", d.memoryLog)

	// ─── Storage ────────────────────────────────────────────────────────────────
	var store policy.Store = policy.NewSampleStore()
	var escalations service.EscalationStore = service.NewMemoryEscalations()
	d.health["postgres"] = nil

	if cfg.DatabaseURL != "" {
		if pool, err := connectPostgres(ctx, cfg.DatabaseURL); err != nil {
			log.Warn().Err(err).Msg("PostgreSQL unavailable - using in-memory sample policies")
			d.health["postgres"] = unreachable{err: err}
		} else {
			d.pool = pool
			pgStore := policy.NewPostgresStore(pool)
			pgRecorder := activity.NewPostgresRecorder(pool)
			pgEscalations := service.NewPostgresEscalations(pool)

			if err := pgStore.EnsureSchema(ctx, policy.SamplePolicies()); err != nil {
				log.Warn().Err(err).Msg("failed to prepare policies table")
			}
			if err := pgRecorder.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to prepare agent_activity table")
			}
			if err := pgEscalations.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to prepare escalations table")
			}

			store = pgStore
			escalations = pgEscalations
			d.fanout.Add("postgres", pgRecorder)
			d.health["postgres"] = pgStore
		}
	} else {
		log.Warn().Msg("DATABASE_URL not set - using in-memory sample policies")
	}

	if cfg.PolicyCacheTTL > 0 {
		store = policy.NewCachedStore(store, cfg.PolicyCacheTTL)
	}

	// ─── Activity sinks ─────────────────────────────────────────────────────────
	d.health["elasticsearch"] = nil
	if cfg.ElasticsearchEnabled {
		es, err := activity.NewElasticsearchRecorder(activity.ElasticsearchConfig{
			Scheme:     cfg.ElasticsearchScheme,
			Host:       cfg.ElasticsearchHost,
			Port:       cfg.ElasticsearchPort,
			User:       cfg.ElasticsearchUser,
			Password:   cfg.ElasticsearchPassword,
			MaxRetries: cfg.ElasticsearchMaxRetries,
			Index:      cfg.ElasticsearchIndex,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Elasticsearch activity sink unavailable")
			d.health["elasticsearch"] = unreachable{err: err}
		} else {
			d.fanout.Add("elasticsearch", es)
			d.health["elasticsearch"] = es
		}
	}

	d.health["bigquery"] = nil
	if cfg.GCPProjectID != "" {
		bq, err := activity.NewBigQueryRecorder(ctx, cfg.GCPProjectID, cfg.GoogleApplicationCredentials, cfg.BigQueryDataset, cfg.BigQueryTable)
		if err != nil {
			log.Warn().Err(err).Msg("BigQuery activity sink unavailable")
			d.health["bigquery"] = unreachable{err: err}
		} else {
			if err := bq.EnsureTable(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to prepare BigQuery activity table")
			}
			d.fanout.Add("bigquery", bq)
			d.health["bigquery"] = bq
		}
	}

	// ─── Security ───────────────────────────────────────────────────────────────
	var piiKeywords []string
	if cfg.EnablePIIDetection {
		piiKeywords = cfg.PIIKeywords
	}
	piiDetector := security.NewPIIDetector(piiKeywords)
	promptVal := security.NewPromptValidator()
	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)
	if cfg.EnableDataMasking {
		d.masker = security.NewDataMasker(cfg.SensitiveFields)
	}

	// ─── Domain ─────────────────────────────────────────────────────────────────
	d.riskModel = risk.NewModel(risk.Params{
		BaseRisk:        cfg.BaseRisk,
		BaseCoverage:    cfg.BaseCoverage,
		PerItemCoverage: cfg.PerItemCoverage,
		PremiumRate:     cfg.PremiumRate,
	})
	d.policies = policy.NewService(store)
	d.escalator = service.NewEscalator(escalations, d.fanout)
	d.registry = tools.NewRegistry(d.fanout, auditLogger,
		tools.RiskAssessmentTool(d.riskModel),
		tools.PolicyLookupTool(d.policies),
		tools.CoverageSummaryTool(d.policies),
		tools.FraudDetectionTool(fraud.NewDetector(nil)),
		tools.SentimentAnalysisTool(),
		tools.ClaimAmountTool(d.policies),
		tools.DocumentAnalysisTool(),
	)

	// ─── AI Agent ────────────────────────────────────────────────────────────────
	if cfg.AnthropicAPIKey != "" {
		assistant := agent.NewAssistant(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL, d.registry)
		d.assistant = agent.NewAssistantHandler(
			assistant, assistant.Model(), d.registry, d.policies, service.NewIntentRouter(),
			piiDetector, promptVal, auditLogger, d.fanout,
		)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - assistant disabled")
	}

	log.Info().
		Bool("postgres_enabled", d.pool != nil).
		Strs("activity_sinks", d.fanout.Sinks()).
		Bool("assistant_enabled", d.assistant != nil).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Bool("data_masking", cfg.EnableDataMasking).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Bool("pii_detection", cfg.EnablePIIDetection).
		Int("tools", len(d.registry.List())).
		Msg("service configuration")

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - API routes are open")
	}
	return d, nil
}

// unreachable reports a configured backend that could not be set up at
// startup, so health shows it as failing rather than disabled.
type unreachable struct{ err error }

func (u unreachable) TestConnection(context.Context) error {
	return fmt.Errorf("not connected: %w", u.err)
}

func connectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

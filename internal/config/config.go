package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Target is the expected success rate (percent) and execution time for one agent.
type Target struct {
	SuccessRate float64 `json:"success_rate"`
	TimeSeconds float64 `json:"time_seconds"`
}

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	APIPrefix   string `json:"api_prefix"`
	LogLevel    string `json:"log_level"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header"`
	APIKeys      []string `json:"api_keys"`
	EnableAuth   bool     `json:"enable_auth"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Policy storage
	DatabaseURL    string        `json:"database_url"`
	PolicyCacheTTL time.Duration `json:"-"` // file: "policy_cache_ttl" as a duration string

	// Risk model
	BaseRisk        float64 `json:"base_risk"`
	BaseCoverage    float64 `json:"base_coverage"`
	PerItemCoverage float64 `json:"per_item_coverage"`
	PremiumRate     float64 `json:"premium_rate"`

	// Security
	EnableDataMasking  bool     `json:"enable_data_masking"`
	SensitiveFields    []string `json:"sensitive_fields"`
	EnablePIIDetection bool     `json:"enable_pii_detection"`
	PIIKeywords        []string `json:"pii_keywords"`
	EnableAuditLogging bool     `json:"enable_audit_logging"`

	// Agent activity
	ActivityLogSize int               `json:"activity_log_size"`
	AgentTargets    map[string]Target `json:"agent_targets"`

	// Elasticsearch activity sink
	ElasticsearchEnabled    bool   `json:"elasticsearch_enabled"`
	ElasticsearchHost       string `json:"elasticsearch_host"`
	ElasticsearchPort       int    `json:"elasticsearch_port"`
	ElasticsearchScheme     string `json:"elasticsearch_scheme"`
	ElasticsearchUser       string `json:"elasticsearch_user"`
	ElasticsearchPassword   string `json:"elasticsearch_password"`
	ElasticsearchMaxRetries int    `json:"elasticsearch_max_retries"`
	ElasticsearchIndex      string `json:"elasticsearch_index"`

	// BigQuery activity sink
	GCPProjectID                 string `json:"gcp_project_id"`
	GoogleApplicationCredentials string `json:"google_application_credentials"`
	BigQueryDataset              string `json:"bigquery_dataset"`
	BigQueryTable                string `json:"bigquery_table"`

	// AI / LLM
	AnthropicAPIKey  string `json:"anthropic_api_key"`
	AnthropicBaseURL string `json:"anthropic_base_url"`
	AnthropicModel   string `json:"anthropic_model"`
	AgentTimeout     int    `json:"agent_timeout"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:                    DefaultHost,
		Port:                    DefaultPort,
		Environment:             DefaultEnvironment,
		APIPrefix:               DefaultAPIPrefix,
		LogLevel:                DefaultLogLevel,
		CORSOrigins:             DefaultCORSOrigins,
		APIKeyHeader:            "X-API-Key",
		EnableAuth:              true,
		RateLimitPerMinute:      DefaultRateLimitPerMinute,
		PolicyCacheTTL:          DefaultPolicyCacheTTL,
		BaseRisk:                DefaultBaseRisk,
		BaseCoverage:            DefaultBaseCoverage,
		PerItemCoverage:         DefaultPerItemCoverage,
		PremiumRate:             DefaultPremiumRate,
		EnableDataMasking:       false,
		SensitiveFields:         DefaultSensitiveFields,
		EnablePIIDetection:      true,
		PIIKeywords:             DefaultPIIKeywords,
		EnableAuditLogging:      true,
		ActivityLogSize:         DefaultActivityLogSize,
		AgentTargets:            copyTargets(DefaultTargets),
		ElasticsearchPort:       DefaultElasticsearchPort,
		ElasticsearchScheme:     DefaultElasticsearchScheme,
		ElasticsearchMaxRetries: DefaultElasticsearchMaxRetries,
		ElasticsearchIndex:      DefaultElasticsearchIndex,
		BigQueryDataset:         DefaultBigQueryDataset,
		BigQueryTable:           DefaultBigQueryTable,
		AnthropicModel:          DefaultAnthropicModel,
		AgentTimeout:            DefaultAgentTimeout,
	}

	if path := getEnv("INSURTECH_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.BaseRisk < 0 {
		return fmt.Errorf("base_risk must not be negative, got %v", c.BaseRisk)
	}
	if c.PremiumRate <= 0 {
		return fmt.Errorf("premium_rate must be positive, got %v", c.PremiumRate)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate_limit_per_minute must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// IsDevelopment reports whether human-readable console logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "" || c.Environment == "development"
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return err
	}

	// Durations are written the same way as in the environment, e.g. "5m".
	var durations struct {
		PolicyCacheTTL *string `json:"policy_cache_ttl"`
	}
	if err := json.Unmarshal(data, &durations); err != nil {
		return fmt.Errorf("policy_cache_ttl must be a duration string: %w", err)
	}
	if durations.PolicyCacheTTL != nil {
		d, err := time.ParseDuration(*durations.PolicyCacheTTL)
		if err != nil {
			return fmt.Errorf("policy_cache_ttl: %w", err)
		}
		cfg.PolicyCacheTTL = d
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("INSURTECH_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("INSURTECH_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("PORT", ""); v != "" && getEnv("INSURTECH_PORT", "") == "" {
		// Heroku-style platforms inject PORT.
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("INSURTECH_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("INSURTECH_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("INSURTECH_API_KEYS", ""); v != "" {
		cfg.APIKeys = splitList(v)
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = parseBool(v)
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("INSURTECH_CORS_ORIGINS", ""); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	if v := getEnv("DATABASE_URL", ""); v != "" {
		cfg.DatabaseURL = v
	}
	if v := getEnv("POLICY_CACHE_TTL", ""); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PolicyCacheTTL = d
		}
	}
	if v := getEnv("RISK_BASE", ""); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.BaseRisk = f
		}
	}
	if v := getEnv("ENABLE_DATA_MASKING", ""); v != "" {
		cfg.EnableDataMasking = parseBool(v)
	}
	if v := getEnv("ENABLE_AUDIT_LOGGING", ""); v != "" {
		cfg.EnableAuditLogging = parseBool(v)
	}
	if v := getEnv("ELASTICSEARCH_ENABLED", ""); v != "" {
		cfg.ElasticsearchEnabled = parseBool(v)
	}
	if v := getEnv("ELASTICSEARCH_HOST", ""); v != "" {
		cfg.ElasticsearchHost = v
	}
	if v := getEnv("ELASTICSEARCH_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.ElasticsearchPort = p
		}
	}
	if v := getEnv("ELASTICSEARCH_SCHEME", ""); v != "" {
		cfg.ElasticsearchScheme = v
	}
	if v := getEnv("ELASTICSEARCH_USER", ""); v != "" {
		cfg.ElasticsearchUser = v
	}
	if v := getEnv("ELASTICSEARCH_PASSWORD", ""); v != "" {
		cfg.ElasticsearchPassword = v
	}
	if v := getEnv("ELASTICSEARCH_INDEX", ""); v != "" {
		cfg.ElasticsearchIndex = v
	}
	if v := getEnv("GCP_PROJECT_ID", ""); v != "" {
		cfg.GCPProjectID = v
	}
	if v := getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""); v != "" {
		cfg.GoogleApplicationCredentials = v
	}
	if v := getEnv("BIGQUERY_DATASET", ""); v != "" {
		cfg.BigQueryDataset = v
	}
	if v := getEnv("BIGQUERY_TABLE", ""); v != "" {
		cfg.BigQueryTable = v
	}
	if v := getEnv("ANTHROPIC_API_KEY", ""); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := getEnv("ANTHROPIC_BASE_URL", ""); v != "" {
		cfg.AnthropicBaseURL = v
	}
	if v := getEnv("ANTHROPIC_MODEL", ""); v != "" {
		cfg.AnthropicModel = v
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func parseBool(v string) bool {
	return v == "true" || v == "1"
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func copyTargets(src map[string]Target) map[string]Target {
	dst := make(map[string]Target, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

package config

import "time"

const (
	DefaultHost        = "0.0.0.0"
	DefaultPort        = 8000
	DefaultEnvironment = "development"
	DefaultAPIPrefix   = "/api/v1"
	DefaultLogLevel    = "info"

	DefaultRateLimitPerMinute = 60

	DefaultPolicyCacheTTL = 5 * time.Minute

	DefaultActivityLogSize = 1000

	DefaultElasticsearchPort       = 9200
	DefaultElasticsearchScheme     = "http"
	DefaultElasticsearchMaxRetries = 3
	DefaultElasticsearchIndex      = "agent-activities"

	DefaultBigQueryDataset = "insurtech"
	DefaultBigQueryTable   = "agent_activities"

	DefaultAnthropicModel = "claude-sonnet-4-6"
	DefaultAgentTimeout   = 120 // seconds

	// Risk model constants
	DefaultBaseRisk        = 1.0
	DefaultBaseCoverage    = 50000
	DefaultPerItemCoverage = 1000
	DefaultPremiumRate     = 0.02
)

var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

var DefaultSensitiveFields = []string{"email", "phone"}

var DefaultPIIKeywords = []string{
	"password", "ssn", "social security", "credit card",
	"bank account", "pin code", "private key", "access token",
}

// DefaultTargets are the per-agent performance targets shown next to the
// measured metrics.
var DefaultTargets = map[string]Target{
	"underwriting": {SuccessRate: 75, TimeSeconds: 2.1},
	"claims":       {SuccessRate: 85, TimeSeconds: 1.8},
	"customer":     {SuccessRate: 60, TimeSeconds: 3.2},
}

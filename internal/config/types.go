package config

// QualityTier controls the model selection and trade-off between speed/cost and quality.
type QualityTier string

const (
	QualityLite   QualityTier = "lite"
	QualityNormal QualityTier = "normal"
	QualityMax    QualityTier = "max"
)

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderGoogle    ProviderType = "google"
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOllama    ProviderType = "ollama"
)

// Config is the top-level stratos configuration, corresponding to .stratos.yml.
type Config struct {
	Provider    ProviderType `yaml:"provider" koanf:"provider"`
	Model       string       `yaml:"model" koanf:"model"`
	Quality     QualityTier  `yaml:"quality" koanf:"quality"`
	Temperature float64      `yaml:"temperature" koanf:"temperature"`
	MaxTokens   int          `yaml:"max_tokens" koanf:"max_tokens"`
	// RequestsPerMinute throttles calls to the provider; 0 is unlimited.
	RequestsPerMinute int `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	// MaxRetries retries transient provider failures at the transport; 0 disables.
	MaxRetries    int          `yaml:"max_retries" koanf:"max_retries"`
	SchemaVersion string       `yaml:"schema_version" koanf:"schema_version"`
	Server        ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds settings for `stratos server`.
type ServerConfig struct {
	Port                  int      `yaml:"port" koanf:"port"`
	AllowAllOrigins       bool     `yaml:"allow_all_origins" koanf:"allow_all_origins"`
	AllowedOrigins        []string `yaml:"allowed_origins,omitempty" koanf:"allowed_origins"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds" koanf:"request_timeout_seconds"`
}

// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Paywall       PaywallConfig           `mapstructure:"paywall"`
	Trial         TrialConfig             `mapstructure:"trial"`
	Subscription  SubscriptionConfig      `mapstructure:"subscription"`
	LeaseIntel    LeaseIntelConfig        `mapstructure:"lease_intel"`
	Analytics     AnalyticsConfig         `mapstructure:"analytics"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Server        ServerConfig            `mapstructure:"server"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Domain Configuration Sections ---

// PaywallConfig drives the access gate.
type PaywallConfig struct {
	// FreeViewLimit is the number of property views before the paywall opens.
	// A value <= 0 disables the view trigger.
	FreeViewLimit int    `mapstructure:"free_view_limit"`
	StateTTL      int    `mapstructure:"state_ttl"` // seconds, 0 keeps state forever
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// TrialConfig drives the free trial manager.
type TrialConfig struct {
	DurationHours int `mapstructure:"duration_hours"`
	QueryLimit    int `mapstructure:"query_limit"`
	// StateTTL must outlive the trial so an expired trial still reads as
	// expired. 0 keeps state forever.
	StateTTL  int    `mapstructure:"state_ttl"` // seconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// SubscriptionConfig drives the validate-subscription cache.
type SubscriptionConfig struct {
	CacheTTL int `mapstructure:"cache_ttl"` // seconds
}

// LeaseIntelConfig selects where lease intelligence is read from.
type LeaseIntelConfig struct {
	Source      string `mapstructure:"source"` // "http" or "elasticsearch"
	BaseURL     string `mapstructure:"base_url"`
	Index       string `mapstructure:"index"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
	Concurrency int    `mapstructure:"concurrency"`
}

// AnalyticsConfig configures the paywall impression sink.
type AnalyticsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

// NotificationConfig holds settings for unlock receipts.
type NotificationConfig struct {
	SES struct {
		Enabled   bool   `mapstructure:"enabled"`
		Region    string `mapstructure:"region"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"ses"`
}

// ObservabilityConfig holds tracing settings.
type ObservabilityConfig struct {
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

package types

import "time"

// Config represents the application configuration that can be loaded from a file
// and overlaid by environment variables.
type Config struct {
	AWS          AWSConfig          `json:"aws" yaml:"aws" toml:"aws"`
	Athena       AthenaConfig       `json:"athena" yaml:"athena" toml:"athena"`
	EventBridge  EventBridgeConfig  `json:"event_bridge" yaml:"event_bridge" toml:"event_bridge"`
	Notification NotificationConfig `json:"notification" yaml:"notification" toml:"notification"`
	Logging      LoggingConfig      `json:"logging" yaml:"logging" toml:"logging"`
}

// AWSConfig controls how SDK clients are built.
type AWSConfig struct {
	Region      string `json:"region" yaml:"region" toml:"region"`
	Profile     string `json:"profile" yaml:"profile" toml:"profile"`
	MaxAttempts int    `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts"`
}

// AthenaConfig contains the CUR table location and query polling settings.
type AthenaConfig struct {
	Table          string   `json:"table" yaml:"table" toml:"table"`
	Database       string   `json:"database" yaml:"database" toml:"database"`
	OutputLocation string   `json:"output_location" yaml:"output_location" toml:"output_location"`
	WorkGroup      string   `json:"workgroup" yaml:"workgroup" toml:"workgroup"`
	PollInterval   Duration `json:"poll_interval" yaml:"poll_interval" toml:"poll_interval"`
	QueryTimeout   Duration `json:"query_timeout" yaml:"query_timeout" toml:"query_timeout"`
}

// EventBridgeConfig identifies where enriched reports are published.
type EventBridgeConfig struct {
	BusName    string `json:"bus_name" yaml:"bus_name" toml:"bus_name"`
	Source     string `json:"source" yaml:"source" toml:"source"`
	DetailType string `json:"detail_type" yaml:"detail_type" toml:"detail_type"`
}

// Notification channels.
const (
	ChannelEmail = "email"
	ChannelTopic = "topic"
	ChannelBoth  = "both"
)

// NotificationConfig contains the delivery settings for the dispatcher.
type NotificationConfig struct {
	Channel    string `json:"channel" yaml:"channel" toml:"channel"`
	Sender     string `json:"sender" yaml:"sender" toml:"sender"`
	Recipients string `json:"recipients" yaml:"recipients" toml:"recipients"`
	TopicARN   string `json:"topic_arn" yaml:"topic_arn" toml:"topic_arn"`
	Subject    string `json:"subject" yaml:"subject" toml:"subject"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" toml:"level"`
	Format string `json:"format" yaml:"format" toml:"format"` // json or console
}

const (
	DefaultPollInterval = time.Second
	DefaultQueryTimeout = 5 * time.Minute
	DefaultMaxAttempts  = 5
	DefaultSubject      = "AWS Cost Anomaly Detection Alert"
)

// ApplyDefaults fills every optional setting that is still unset.
func (c *Config) ApplyDefaults() {
	if c.AWS.MaxAttempts <= 0 {
		c.AWS.MaxAttempts = DefaultMaxAttempts
	}
	if c.Athena.PollInterval <= 0 {
		c.Athena.PollInterval = Duration(DefaultPollInterval)
	}
	if c.Athena.QueryTimeout <= 0 {
		c.Athena.QueryTimeout = Duration(DefaultQueryTimeout)
	}
	if c.Notification.Channel == "" {
		c.Notification.Channel = ChannelEmail
	}
	if c.Notification.Subject == "" {
		c.Notification.Subject = DefaultSubject
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// DefaultConfig returns a Config with every optional setting populated.
func DefaultConfig() *Config {
	return &Config{
		AWS: AWSConfig{MaxAttempts: DefaultMaxAttempts},
		Athena: AthenaConfig{
			PollInterval: Duration(DefaultPollInterval),
			QueryTimeout: Duration(DefaultQueryTimeout),
		},
		Notification: NotificationConfig{
			Channel: ChannelEmail,
			Subject: DefaultSubject,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

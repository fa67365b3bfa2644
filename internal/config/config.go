package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderTwilio = "twilio"
	ProviderMemory = "memory"
)

type Config struct {
	Server       ServerConfig     `yaml:"server"`
	Provider     ProviderConfig   `yaml:"provider"`
	Conference   ConferenceConfig `yaml:"conference"`
	Participants []string         `yaml:"participants"`
	Token        TokenConfig      `yaml:"token"`
	MQTT         MQTTConfig       `yaml:"mqtt"`
	Log          LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	BaseURL         string        `yaml:"base_url"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type ProviderConfig struct {
	Kind        string `yaml:"kind"`
	AccountSID  string `yaml:"account_sid"`
	APIKey      string `yaml:"api_key"`
	APISecret   string `yaml:"api_secret"`
	CallerID    string `yaml:"caller_id"`
	TwimlAppSID string `yaml:"twiml_app_sid"`
}

type ConferenceConfig struct {
	Name            string        `yaml:"name"`
	HostIdentity    string        `yaml:"host_identity"`
	Greeting        string        `yaml:"greeting"`
	PauseSeconds    int           `yaml:"pause_seconds"`
	ResolveInterval time.Duration `yaml:"resolve_interval"`
	ResolveAttempts int           `yaml:"resolve_attempts"`
	PublishTimeout  time.Duration `yaml:"publish_timeout"`
	DispatchLimit   int           `yaml:"dispatch_limit"`
}

type TokenConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         int    `yaml:"qos"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

// VoiceURL is the voice-decision webhook the provider calls for outbound legs.
func (s ServerConfig) VoiceURL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/voice"
}

// StatusURL is the status-notification webhook.
func (s ServerConfig) StatusURL() string {
	return strings.TrimRight(s.BaseURL, "/") + "/call-status"
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			BaseURL:         "http://localhost:8080/api/v1",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 5 * time.Second,
		},
		Provider: ProviderConfig{
			Kind: ProviderTwilio,
		},
		Conference: ConferenceConfig{
			HostIdentity:    "host",
			PauseSeconds:    5,
			ResolveInterval: time.Second,
			ResolveAttempts: 10,
			PublishTimeout:  15 * time.Second,
			DispatchLimit:   16,
		},
		Token: TokenConfig{
			TTL: time.Hour,
		},
		MQTT: MQTTConfig{
			Broker:      "tcp://localhost:1883",
			ClientID:    "confbridge",
			TopicPrefix: "confbridge",
			QoS:         1,
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load reads an optional YAML file on top of the defaults, then applies
// environment overrides (a .env file in the working directory is honored).
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Provider.AccountSID, "TWILIO_ACCOUNT_SID")
	set(&c.Provider.APIKey, "TWILIO_API_KEY")
	set(&c.Provider.APISecret, "TWILIO_API_SECRET")
	set(&c.Provider.CallerID, "TWILIO_CALLER_ID")
	set(&c.Provider.TwimlAppSID, "TWILIO_TWIML_APP_SID")
	set(&c.Server.BaseURL, "BASE_URL")

	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}
	switch c.Provider.Kind {
	case ProviderMemory:
	case ProviderTwilio:
		if c.Provider.AccountSID == "" {
			return fmt.Errorf("provider.account_sid is required")
		}
		if c.Provider.APIKey == "" {
			return fmt.Errorf("provider.api_key is required")
		}
		if c.Provider.APISecret == "" {
			return fmt.Errorf("provider.api_secret is required")
		}
	default:
		return fmt.Errorf("provider.kind must be %q or %q, got %q", ProviderTwilio, ProviderMemory, c.Provider.Kind)
	}
	if c.Provider.CallerID == "" {
		return fmt.Errorf("provider.caller_id is required")
	}
	if c.Conference.HostIdentity == "" {
		return fmt.Errorf("conference.host_identity is required")
	}
	if c.Conference.ResolveAttempts < 1 {
		return fmt.Errorf("conference.resolve_attempts must be at least 1, got %d", c.Conference.ResolveAttempts)
	}
	if c.Conference.ResolveInterval <= 0 {
		return fmt.Errorf("conference.resolve_interval must be positive")
	}
	// resolving a conference is bounded by publish_timeout too
	if budget := c.Conference.ResolveInterval * time.Duration(c.Conference.ResolveAttempts); c.Conference.PublishTimeout <= budget {
		return fmt.Errorf("conference.publish_timeout must exceed resolve_interval * resolve_attempts (%s), got %s", budget, c.Conference.PublishTimeout)
	}
	for i, n := range c.Participants {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("participants[%d] is empty", i)
		}
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required")
		}
		if c.MQTT.ClientID == "" {
			return fmt.Errorf("mqtt.client_id is required")
		}
		if c.MQTT.TopicPrefix == "" {
			return fmt.Errorf("mqtt.topic_prefix is required")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.MQTT.QoS)
		}
	}
	return nil
}

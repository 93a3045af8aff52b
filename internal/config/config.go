// Package config provides YAML-based configuration loading for pressyard.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/zulandar/pressyard/internal/station"
	"gopkg.in/yaml.v3"
)

// Config is the top-level pressyard configuration, loaded from press.yaml.
type Config struct {
	Database    DatabaseConfig `yaml:"database"`
	Language    string         `yaml:"language"`
	SystemEmail string         `yaml:"system_email"`
	Gates       []GateConfig   `yaml:"gates"`
	API         APIConfig      `yaml:"api"`
	Notify      NotifyConfig   `yaml:"notify"`
	Digest      DigestConfig   `yaml:"digest"`
}

// DatabaseConfig holds connection settings for the production database.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// Path is the SQLite file used when Driver is "sqlite".
	Path string `yaml:"path"`
}

// GateConfig restricts which actions of the From station may contribute to
// a From -> To classification.
type GateConfig struct {
	From    int    `yaml:"from"`
	To      int    `yaml:"to"`
	Actions []uint `yaml:"actions"`
}

// APIConfig configures the read-only HTTP API.
type APIConfig struct {
	Port int `yaml:"port"`
}

// NotifyConfig configures outbound notification sinks.
type NotifyConfig struct {
	Platform string        `yaml:"platform"`
	Slack    SlackConfig   `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
	Breaker  BreakerConfig `yaml:"breaker"`
}

// SlackConfig holds Slack credentials and the target channel.
type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// DiscordConfig holds Discord credentials and the target channel.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// BreakerConfig tunes the circuit breaker in front of a sink.
type BreakerConfig struct {
	MaxFailures    uint32 `yaml:"max_failures"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DigestConfig schedules the station queue digest.
type DigestConfig struct {
	Schedule string `yaml:"schedule"`
	Stations []int  `yaml:"stations"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AllowedActions returns the action allow-list for a From -> To pair.
// ok is false when no gate is configured for the pair.
func (c *Config) AllowedActions(from, to station.Station) (actions []uint, ok bool) {
	for _, g := range c.Gates {
		if g.From == int(from) && g.To == int(to) {
			return g.Actions, true
		}
	}
	return nil, false
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Driver == "mysql" {
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = "press.db"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.Notify.Platform == "" {
		c.Notify.Platform = "log"
	}
	if c.Notify.Breaker.MaxFailures == 0 {
		c.Notify.Breaker.MaxFailures = 5
	}
	if c.Notify.Breaker.TimeoutSeconds == 0 {
		c.Notify.Breaker.TimeoutSeconds = 60
	}
	if c.Digest.Schedule == "" {
		c.Digest.Schedule = "0 8 * * 1-5"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.Database.Driver {
	case "mysql":
		if c.Database.Name == "" {
			errs = append(errs, "database.name is required")
		}
	case "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}
	switch c.Language {
	case "en", "bg", "fr":
	default:
		errs = append(errs, fmt.Sprintf("language %q is not supported", c.Language))
	}
	for i, g := range c.Gates {
		if !station.Station(g.From).Valid() {
			errs = append(errs, fmt.Sprintf("gates[%d].from %d is not a station", i, g.From))
		}
		if !station.Station(g.To).Valid() {
			errs = append(errs, fmt.Sprintf("gates[%d].to %d is not a station", i, g.To))
		}
	}
	switch c.Notify.Platform {
	case "log":
	case "slack":
		if c.Notify.Slack.BotToken == "" || c.Notify.Slack.Channel == "" {
			errs = append(errs, "notify.slack.bot_token and notify.slack.channel are required")
		}
	case "discord":
		if c.Notify.Discord.BotToken == "" || c.Notify.Discord.ChannelID == "" {
			errs = append(errs, "notify.discord.bot_token and notify.discord.channel_id are required")
		}
	default:
		errs = append(errs, fmt.Sprintf("notify.platform %q is not supported", c.Notify.Platform))
	}
	for i, s := range c.Digest.Stations {
		if !station.Station(s).Valid() {
			errs = append(errs, fmt.Sprintf("digest.stations[%d] %d is not a station", i, s))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

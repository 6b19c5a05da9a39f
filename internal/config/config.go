package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Insights  InsightsConfig  `mapstructure:"insights"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	Audience  string        `mapstructure:"audience"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// InsightsConfig selects the narrative generator strategy. Mode is
// "remote" or "local"; remote without an api_key degrades to local.
type InsightsConfig struct {
	Mode    string        `mapstructure:"mode"`
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type AnalyticsConfig struct {
	WeekStart   string        `mapstructure:"week_start"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

// WeekStartDay maps the configured weekday name onto time.Weekday,
// defaulting to Monday.
func (a *AnalyticsConfig) WeekStartDay() time.Weekday {
	switch strings.ToLower(a.WeekStart) {
	case "sunday":
		return time.Sunday
	case "saturday":
		return time.Saturday
	default:
		return time.Monday
	}
}

// Load reads configuration from an optional yaml file plus
// TASKPLANNER_-prefixed environment variables. A missing file is fine;
// defaults and env cover everything.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TASKPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8008)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("database.path", "task-planner.db")
	v.SetDefault("auth.jwt_secret", "development-insecure-secret-change-me")
	v.SetDefault("auth.issuer", "task-planner-api")
	v.SetDefault("auth.audience", "task-planner-clients")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("insights.mode", "local")
	v.SetDefault("insights.timeout", 30*time.Second)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("analytics.week_start", "monday")
	v.SetDefault("analytics.snapshot_ttl", time.Minute)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

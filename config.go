package personachat

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the service configuration, loaded from an optional YAML file
// overridden by PERSONACHAT_* environment variables.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	LogLevel   string `mapstructure:"log_level"`

	Engine struct {
		Backend string        `mapstructure:"backend"` // "llamacpp" | "hosted"
		URL     string        `mapstructure:"url"`
		Model   string        `mapstructure:"model"`
		Device  string        `mapstructure:"device"`
		APIKey  string        `mapstructure:"api_key"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"engine"`

	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	MaxConcurrent     int           `mapstructure:"max_concurrent"`

	Redis struct {
		Addr     string        `mapstructure:"addr"` // empty = in-memory history
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`

	PersonaPack string `mapstructure:"persona_pack"` // optional YAML catalog overlay
}

// LoadConfig reads configuration from path (optional, "" skips the file)
// and the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", ":8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("engine.backend", "llamacpp")
	v.SetDefault("engine.url", "http://127.0.0.1:8080")
	v.SetDefault("engine.model", "gemma-2b-it")
	v.SetDefault("engine.device", "cpu")
	v.SetDefault("engine.api_key", "")
	v.SetDefault("engine.timeout", 120*time.Second)
	v.SetDefault("generation_timeout", 60*time.Second)
	v.SetDefault("max_concurrent", 4)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("persona_pack", "")

	v.SetEnvPrefix("PERSONACHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Engine.Backend != "llamacpp" && cfg.Engine.Backend != "hosted" {
		return nil, fmt.Errorf("unknown engine backend %q", cfg.Engine.Backend)
	}
	return &cfg, nil
}

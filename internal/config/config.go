package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	DB       DBConfig       `mapstructure:"db"`
	Protocol ProtocolConfig `mapstructure:"protocol"`
	Bank     BankConfig     `mapstructure:"bank"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Stream   StreamConfig   `mapstructure:"stream"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	HTTPAddr string `mapstructure:"http_addr"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type DBConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Timezone        string        `mapstructure:"timezone"`
}

// ProtocolConfig is the immutable deployment configuration: who administers
// markets, where fees go, what denomination settles bets, and how long before
// the scheduled start bets stop being accepted.
type ProtocolConfig struct {
	AdminAccount    string        `mapstructure:"admin_account"`
	TreasuryAccount string        `mapstructure:"treasury_account"`
	FeeBps          int64         `mapstructure:"fee_bps"`
	Denom           string        `mapstructure:"denom"`
	BetCutoff       time.Duration `mapstructure:"bet_cutoff"`
}

type BankConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DispatchConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Spec      string `mapstructure:"spec"`
	BatchSize int    `mapstructure:"batch_size"`
}

type StreamConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("server.http_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("protocol.fee_bps", 0)
	v.SetDefault("protocol.denom", "usd")
	v.SetDefault("protocol.bet_cutoff", "5m")
	v.SetDefault("bank.base_url", "http://localhost:9090")
	v.SetDefault("bank.timeout", "15s")
	v.SetDefault("dispatch.enabled", true)
	v.SetDefault("dispatch.spec", "@every 30s")
	v.SetDefault("dispatch.batch_size", 100)
	v.SetDefault("stream.enabled", true)

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Protocol.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c ProtocolConfig) Validate() error {
	if strings.TrimSpace(c.AdminAccount) == "" {
		return fmt.Errorf("protocol.admin_account is required")
	}
	if strings.TrimSpace(c.TreasuryAccount) == "" {
		return fmt.Errorf("protocol.treasury_account is required")
	}
	if c.FeeBps < 0 || c.FeeBps > 10000 {
		return fmt.Errorf("protocol.fee_bps must be within [0,10000], got %d", c.FeeBps)
	}
	if strings.TrimSpace(c.Denom) == "" {
		return fmt.Errorf("protocol.denom is required")
	}
	return nil
}

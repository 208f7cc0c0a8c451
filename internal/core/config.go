package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var conf CoreConfig
	if err = toml.Unmarshal(raw, &conf); err != nil {
		panic(err)
	}
	conf.SetDefaults()
	return conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	c.SetDefaults()
	return c
}

type CoreConfig struct {
	Addr     string   `toml:"addr"`
	Log      Log      `toml:"log"`
	Postgres PGConfig `toml:"postgres"`
	Redis    Redis    `toml:"redis"`

	Activation Activation `toml:"activation"`
	Journal    Journal    `toml:"journal"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("PEER_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.Activation.FromENV()
	c.Journal.FromENV()
}

func (c *CoreConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":33033"
	}
	c.Activation.SetDefaults()
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("PEER_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

// Redis is optional, an empty address keeps locks in process.
type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func (r *Redis) FromENV() {
	r.Addr = os.Getenv("PEER_API_REDIS_ADDR")
	r.Password = os.Getenv("PEER_API_REDIS_PASSWORD")
	r.DB, _ = strconv.Atoi(os.Getenv("PEER_API_REDIS_DB"))
}

func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type Activation struct {
	// Cron is a five field cron expression.
	Cron        string        `toml:"cron"`
	Lead        time.Duration `toml:"lead"`
	Timeout     time.Duration `toml:"timeout"`
	Concurrency int           `toml:"concurrency"`
	Attempts    uint          `toml:"attempts"`
	RetryDelay  time.Duration `toml:"retry_delay"`
}

func (a *Activation) FromENV() {
	a.Cron = os.Getenv("PEER_API_ACTIVATION_CRON")
	a.Lead, _ = time.ParseDuration(os.Getenv("PEER_API_ACTIVATION_LEAD"))
	a.Timeout, _ = time.ParseDuration(os.Getenv("PEER_API_ACTIVATION_TIMEOUT"))
	a.Concurrency, _ = strconv.Atoi(os.Getenv("PEER_API_ACTIVATION_CONCURRENCY"))
}

func (a *Activation) SetDefaults() {
	if a.Cron == "" {
		a.Cron = "*/5 * * * *"
	}
	if a.Lead <= 0 {
		a.Lead = 15 * time.Minute
	}
	if a.Timeout <= 0 {
		a.Timeout = 30 * time.Second
	}
	if a.Concurrency <= 0 {
		a.Concurrency = 4
	}
	if a.Attempts == 0 {
		a.Attempts = 3
	}
	if a.RetryDelay <= 0 {
		a.RetryDelay = 500 * time.Millisecond
	}
}

type Journal struct {
	Timezone string `toml:"timezone"`
}

func (j *Journal) FromENV() {
	j.Timezone = os.Getenv("PEER_API_JOURNAL_TIMEZONE")
}

// Location resolves the timezone journal dates are read in, UTC when unset.
func (j Journal) Location() *time.Location {
	if j.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(j.Timezone)
	if err != nil {
		slog.Warn("unknown journal timezone, fallback to UTC", slog.String("timezone", j.Timezone), slog.String("error", err.Error()))
		return time.UTC
	}
	return loc
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("PEER_API_LOG_LEVEL")
	l.Path = os.Getenv("PEER_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

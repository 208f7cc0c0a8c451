package core

import (
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/breeew/peer-api/internal/core/srv"
	"github.com/breeew/peer-api/internal/store"
	"github.com/breeew/peer-api/internal/store/sqlstore"
	"github.com/breeew/peer-api/pkg/i18n"
)

type Core struct {
	cfg CoreConfig
	srv *srv.Srv

	stores    func() store.Provider
	localizer *i18n.Localizer

	metrics *Metrics
	clock   func() time.Time
	Plugins
}

func MustSetupCore(cfg CoreConfig) *Core {
	setupLogger(cfg.Log)

	core := NewCore(cfg, nil)
	// setup store
	setupPostgresStore(core)
	return core
}

// NewCore builds a core on top of an already prepared store provider.
func NewCore(cfg CoreConfig, provider store.Provider) *Core {
	cfg.SetDefaults()
	return &Core{
		cfg:       cfg,
		srv:       srv.SetupSrvs(),
		stores:    func() store.Provider { return provider },
		localizer: i18n.NewLocalizer("en", "zh-CN"),
		metrics:   NewMetrics("peer-api", "core"),
		clock:     time.Now,
	}
}

func setupLogger(cfg Log) {
	var writer io.Writer = os.Stdout
	if cfg.Path != "" {
		writer = &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}
	l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(l)
}

func setupPostgresStore(core *Core) {
	p := sqlstore.MustSetup(core.cfg.Postgres)
	core.stores = func() store.Provider { return p() }
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

func (s *Core) Store() store.Provider {
	return s.stores()
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

func (s *Core) Localizer() *i18n.Localizer {
	return s.localizer
}

// Now is the instant every window check is made against.
func (s *Core) Now() time.Time {
	return s.clock()
}

func (s *Core) SetClock(f func() time.Time) {
	s.clock = f
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rn-academy/progress-hub/config"
	"github.com/rn-academy/progress-hub/internal/application/command"
	"github.com/rn-academy/progress-hub/internal/application/eventhandler"
	"github.com/rn-academy/progress-hub/internal/application/query"
	"github.com/rn-academy/progress-hub/internal/domain/curriculum"
	"github.com/rn-academy/progress-hub/internal/domain/notification"
	"github.com/rn-academy/progress-hub/internal/domain/progress"
	"github.com/rn-academy/progress-hub/internal/domain/shared"
	"github.com/rn-academy/progress-hub/internal/infrastructure/messaging"
	"github.com/rn-academy/progress-hub/internal/infrastructure/metrics"
	"github.com/rn-academy/progress-hub/internal/infrastructure/notify"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/keys"
	"github.com/rn-academy/progress-hub/internal/infrastructure/persistence/ledger"
	httpserver "github.com/rn-academy/progress-hub/internal/interface/http"
	"github.com/rn-academy/progress-hub/pkg/logger"
	"github.com/rn-academy/progress-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION WIRING
// ══════════════════════════════════════════════════════════════════════════════

// bootOptions overrides parts of the wiring. Zero values use the config.
type bootOptions struct {
	// Serve logs notifications instead of queueing them for the terminal.
	Serve bool

	// Verbose keeps info-level logs in CLI mode.
	Verbose bool

	LogOutput io.Writer
	Clock     shared.Clock
	Store     backend
}

// app holds every wired component.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   backend
	keys    keys.Builder
	clock   shared.Clock
	catalog *curriculum.Catalog
	metrics *metrics.Metrics
	bus     *messaging.InMemoryEventBus
	inbox   *notify.Inbox
	health  *httpserver.HealthChecker

	progress *command.ProgressHandler
	planner  *command.PlannerHandler
	queries  *query.Handler
}

func bootstrap(ctx context.Context, cfg *config.Config, opts bootOptions) (*app, error) {
	log := newLogger(cfg, opts)

	catalog, err := loadCatalog(cfg.App.CurriculumPath)
	if err != nil {
		return nil, err
	}

	st := opts.Store
	if st == nil {
		st, err = openStore(ctx, cfg.Storage, log)
		if err != nil {
			return nil, err
		}
	}

	m := metrics.New()
	var kv shared.Store = st
	busCfg := eventBusConfig(cfg, opts, log)
	if cfg.Observability.MetricsEnabled {
		kv = m.InstrumentStore(st)
		busCfg.Observer = m
	}
	bus := messaging.NewInMemoryEventBus(busCfg)

	a := &app{
		cfg:     cfg,
		log:     log,
		store:   st,
		keys:    keys.NewBuilder(cfg.Storage.Namespace),
		clock:   opts.Clock,
		catalog: catalog,
		metrics: m,
		bus:     bus,
		inbox:   notify.NewInbox(notify.DefaultInboxSize),
		health:  httpserver.NewHealthChecker(cfg.App.Version),
	}
	if a.clock == nil {
		a.clock = timeutil.NewSystemClock(cfg.App.Location)
	}

	if err := a.subscribe(opts.Serve); err != nil {
		_ = a.Close()
		return nil, err
	}

	progressRepo := ledger.NewProgressRepository(kv, a.keys)
	plannerRepo := ledger.NewPlannerRepository(kv, a.keys)
	checker := progress.NewAchievementChecker(nil)

	deps := command.Dependencies{
		Progress:  progressRepo,
		Planner:   plannerRepo,
		Catalog:   catalog,
		Checker:   checker,
		Clock:     a.clock,
		Publisher: bus,
		Logger:    log,
	}
	a.progress = command.NewProgressHandler(deps)
	a.planner = command.NewPlannerHandler(deps)
	a.queries = query.NewHandler(query.Dependencies{
		Progress: progressRepo,
		Planner:  plannerRepo,
		Catalog:  catalog,
		Checker:  checker,
		Clock:    a.clock,
		Logger:   log,
	})

	a.health.AddCheck("store", st.Ping)

	log.Debug("application wired",
		logger.String("backend", cfg.Storage.Backend),
		logger.String("namespace", a.keys.Namespace()),
		logger.Int("lessons", catalog.TotalLessons()),
	)
	return a, nil
}

func (a *app) subscribe(serve bool) error {
	if a.cfg.Observability.MetricsEnabled {
		if err := a.metrics.Subscribe(a.bus); err != nil {
			return fmt.Errorf("subscribe metrics: %w", err)
		}
	}

	var sender notification.Sender = a.inbox
	if serve {
		sender = notify.NewLogSender(a.log)
	}
	return eventhandler.Register(a.bus, sender, a.log, eventhandler.DefaultConfig())
}

// eventBusConfig dispatches on a worker pool only in serve mode; a CLI
// command exits right after publishing.
func eventBusConfig(cfg *config.Config, opts bootOptions, log *logger.Logger) messaging.InMemoryEventBusConfig {
	busCfg := messaging.DefaultInMemoryEventBusConfig()
	busCfg.Logger = log
	if opts.Serve && cfg.Events.Async {
		busCfg.AsyncMode = true
		busCfg.WorkerPoolSize = cfg.Events.Workers
	}
	return busCfg
}

// Close releases the bus and the store.
func (a *app) Close() error {
	var errs []error
	if err := a.bus.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	_ = a.log.Sync()
	return errors.Join(errs...)
}

func newLogger(cfg *config.Config, opts bootOptions) *logger.Logger {
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}

	level := logger.ParseLevel(cfg.Observability.LogLevel)
	format := cfg.Observability.LogFormat
	if !opts.Serve {
		// the terminal is for results; logs only when something is wrong
		format = "console"
		if !opts.Verbose && level < logger.LevelWarn {
			level = logger.LevelWarn
		}
	}

	return logger.New(logger.Options{
		Output:    out,
		Level:     level,
		Format:    format,
		AddCaller: cfg.IsDevelopment(),
	}).With(logger.String("app", cfg.App.Name))
}

func loadCatalog(path string) (*curriculum.Catalog, error) {
	if path == "" {
		return curriculum.Default()
	}
	c, err := curriculum.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load curriculum %s: %w", path, err)
	}
	return c, nil
}

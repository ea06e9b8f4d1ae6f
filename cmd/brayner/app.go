package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/brayner/brayner/config"
	"github.com/brayner/brayner/internal/application/auth"
	"github.com/brayner/brayner/internal/application/coach"
	"github.com/brayner/brayner/internal/application/command"
	"github.com/brayner/brayner/internal/application/eventhandler"
	"github.com/brayner/brayner/internal/application/ledger"
	"github.com/brayner/brayner/internal/application/saga"
	"github.com/brayner/brayner/internal/application/settings"
	"github.com/brayner/brayner/internal/application/vault"
	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/notification"
	"github.com/brayner/brayner/internal/domain/task"
	"github.com/brayner/brayner/internal/infrastructure/external/gemini"
	"github.com/brayner/brayner/internal/infrastructure/external/telegram"
	"github.com/brayner/brayner/internal/infrastructure/messaging"
	"github.com/brayner/brayner/internal/infrastructure/persistence/file"
	"github.com/brayner/brayner/internal/infrastructure/persistence/postgres"
	"github.com/brayner/brayner/internal/infrastructure/persistence/redis"
	"github.com/brayner/brayner/internal/infrastructure/persistence/sqlite"
	"github.com/brayner/brayner/internal/infrastructure/persistence/store"
	"github.com/brayner/brayner/internal/infrastructure/service"
	"github.com/brayner/brayner/pkg/logger"
	"github.com/brayner/brayner/pkg/timeutil"
)

// app holds every service a command may need. It is built once per
// invocation and torn down by close.
type app struct {
	cfg *config.Config
	log *logger.Logger
	out io.Writer

	store    *store.Store
	bus      *messaging.InMemoryEventBus
	recorder *messaging.Recorder

	auth     *auth.Registry
	ledger   *ledger.Ledger
	saga     *saga.OnboardingSaga
	vault    *vault.Service
	settings *settings.Service
	prefs    *command.UpdatePreferencesHandler
	coach    *coach.Service
	notifier *service.NotificationService

	closers []func()
}

// appOptions lets tests replace the pieces that touch the outside world.
type appOptions struct {
	Backend document.Backend
	Clock   timeutil.Clock
	Model   coach.Model
}

func newApp(ctx context.Context, cfg *config.Config, log *logger.Logger, out io.Writer, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, log: log, out: out}

	timeutil.SetLocation(cfg.App.Location)

	clock := opts.Clock
	if clock == nil {
		clock = timeutil.SystemClock{}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 1. STORE
	// ─────────────────────────────────────────────────────────────────────────
	backend := opts.Backend
	if backend == nil {
		b, err := a.openBackend(ctx)
		if err != nil {
			a.close()
			return nil, err
		}
		backend = b
	}
	a.store = store.New(backend, log)
	log.Debug("store ready", logger.Backend(backend.Name()))

	// ─────────────────────────────────────────────────────────────────────────
	// 2. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log
	a.bus = messaging.NewInMemoryEventBus(busConfig)
	a.closers = append(a.closers, func() { _ = a.bus.Close() })

	a.recorder = &messaging.Recorder{}
	if err := a.bus.SubscribeAll(a.recorder.Handle); err != nil {
		a.close()
		return nil, fmt.Errorf("subscribe recorder: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. NOTIFICATIONS
	// ─────────────────────────────────────────────────────────────────────────
	channel, err := a.openChannel()
	if err != nil {
		a.close()
		return nil, err
	}
	gate := notification.Gate{
		Permission:        cfg.Notifications.Permission,
		RespectQuietHours: cfg.Notifications.RespectQuietHours,
	}
	a.notifier = service.NewNotificationService(a.store, channel, gate, clock, log)

	handler := eventhandler.NewNotificationHandler(a.notifier, a.store, log)
	handler.SetFilter(func(t notification.Type) bool {
		return cfg.Features.NotificationEnabled(t.String())
	})
	if err := handler.Register(a.bus); err != nil {
		a.close()
		return nil, err
	}
	if err := eventhandler.NewAuditLog(log).Register(a.bus); err != nil {
		a.close()
		return nil, err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	a.auth = auth.NewRegistry(a.store, a.bus, clock, log, auth.DefaultConfig())
	a.ledger = ledger.NewLedger(a.store, task.NewGenerator(nil), clock, a.bus, log)
	a.saga = saga.NewOnboardingSaga(a.auth, a.store, log)
	a.vault = vault.NewService(a.store, clock, log)
	a.settings = settings.NewService(a.store, log)
	a.prefs = command.NewUpdatePreferencesHandler(a.settings)

	model := opts.Model
	if model == nil && cfg.CoachEnabled() {
		m, err := a.openModel(ctx)
		if err != nil {
			// The coach still answers with fallbacks.
			log.Warn("coach model unavailable", logger.Err(err))
		} else {
			model = m
		}
	}
	a.coach = coach.NewService(a.store, model, a.ledger, coach.Features{
		Chat:     cfg.Features.IsEnabled(config.FeatureCoachChat),
		Analysis: cfg.Features.IsEnabled(config.FeatureCoachAnalysis),
	}, log)

	return a, nil
}

// openBackend connects the configured document backend.
func (a *app) openBackend(ctx context.Context) (document.Backend, error) {
	sc := a.cfg.Store

	var backend document.Backend
	switch sc.Driver {
	case config.DriverMemory:
		return store.NewMemoryBackend(), nil

	case config.DriverFile:
		b, err := file.New(a.cfg.App.DataDir, sc.Key)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return b, nil

	case config.DriverSQLite:
		path := sc.Path
		if path == "" {
			path = filepath.Join(a.cfg.App.DataDir, "brayner.db")
		}
		b, err := sqlite.Open(ctx, path, sc.Key)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, func() { _ = b.Close() })
		return b, nil

	case config.DriverPostgres:
		pgConfig := postgres.DefaultConfig()
		pgConfig.URL = sc.PostgresURL
		conn, err := postgres.NewConnection(ctx, pgConfig)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, conn.Close)

		migrator := postgres.NewMigrator(conn)
		if err := migrator.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		if status, err := migrator.Status(ctx); err != nil {
			a.log.Warn("failed to get migration status", logger.Err(err))
		} else {
			applied := 0
			for _, m := range status {
				if m.IsApplied {
					applied++
				}
			}
			a.log.Debug("migrations completed", logger.Int("applied", applied), logger.Int("total", len(status)))
		}
		backend = postgres.NewDocumentBackend(conn, sc.Key)

	case config.DriverRedis:
		redisConfig := redis.DefaultConfig()
		redisConfig.URL = sc.RedisURL
		b, err := redis.NewBackend(ctx, redisConfig, sc.Key)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = b.Close() })
		backend = b

	default:
		return nil, fmt.Errorf("unknown store driver %q", sc.Driver)
	}

	if sc.Resilient {
		return store.NewResilientBackend(backend, a.log), nil
	}
	return backend, nil
}

// openChannel builds the configured notification channel.
func (a *app) openChannel() (notification.Channel, error) {
	nc := a.cfg.Notifications
	switch nc.Channel {
	case config.ChannelLog:
		return service.NewLogChannel(a.log), nil
	case config.ChannelConsole:
		return service.NewConsoleChannel(a.out), nil
	case config.ChannelTelegram:
		tgConfig := telegram.DefaultClientConfig(nc.TelegramToken, nc.TelegramChatID)
		tgConfig.Logger = a.log
		return telegram.NewClient(tgConfig), nil
	default:
		return nil, fmt.Errorf("unknown notification channel %q", nc.Channel)
	}
}

func (a *app) openModel(ctx context.Context) (coach.Model, error) {
	cc := a.cfg.Coach
	gc := gemini.DefaultClientConfig(cc.APIKey)
	gc.ChatModel = cc.ChatModel
	gc.AnalysisModel = cc.AnalysisModel
	gc.Timeout = cc.Timeout
	gc.MaxAttempts = cc.MaxAttempts
	if cc.RequestsPerMinute > 0 {
		gc.RateLimiterConfig.RequestsPerMinute = cc.RequestsPerMinute
	}
	gc.Logger = a.log

	client, err := gemini.NewClient(ctx, gc)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Package main runs the colony bot: character creation and ship computer
// commands over Telnet and Telegram.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/config"
	"github.com/cory-johannsen/colonybot/internal/creation"
	"github.com/cory-johannsen/colonybot/internal/dialog"
	"github.com/cory-johannsen/colonybot/internal/frontend/handlers"
	"github.com/cory-johannsen/colonybot/internal/frontend/telegram"
	"github.com/cory-johannsen/colonybot/internal/frontend/telnet"
	"github.com/cory-johannsen/colonybot/internal/game/command"
	"github.com/cory-johannsen/colonybot/internal/game/content"
	"github.com/cory-johannsen/colonybot/internal/game/dice"
	"github.com/cory-johannsen/colonybot/internal/game/session"
	"github.com/cory-johannsen/colonybot/internal/llm"
	"github.com/cory-johannsen/colonybot/internal/observability"
	"github.com/cory-johannsen/colonybot/internal/server"
	"github.com/cory-johannsen/colonybot/internal/storage/jsonfile"
	"github.com/cory-johannsen/colonybot/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting colonybot",
		zap.Bool("telnet", cfg.Telnet.Enabled),
		zap.Bool("telegram", cfg.Telegram.Enabled),
		zap.String("store", cfg.Store.Backend),
	)

	corpus, err := content.Load(cfg.Content.Dir)
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}
	stats := corpus.Stats()
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("careers", stats.Careers),
		zap.Int("talents", stats.Talents),
	)

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	var store handlers.CharacterStore
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		dbStart := time.Now()
		dbLogger := observability.Component(logger, "postgres")
		if cfg.Database.AutoMigrate {
			if err := migrateSchema(cfg.Database, dbLogger); err != nil {
				logger.Fatal("migrating database", zap.Error(err))
			}
		}
		pool, err := postgres.Connect(ctx, cfg.Database, dbLogger)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		store = pool.Characters(postgres.WithWearables(corpus.Wearable))

		health := server.NewPeriodicService(30*time.Second, func(time.Time) {
			if err := pool.Check(ctx, 5*time.Second); err != nil {
				logger.Warn("database health check failed", zap.Error(err))
			}
		})
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: health.Start,
			StopFn: func() {
				health.Stop()
				pool.Close()
			},
		})
	default:
		js, err := jsonfile.Open(cfg.Store.Path,
			jsonfile.WithWearables(corpus.Wearable),
			jsonfile.WithLogger(observability.Component(logger, "store")),
		)
		if err != nil {
			logger.Fatal("opening character store", zap.Error(err))
		}
		logger.Info("character store opened",
			zap.String("path", cfg.Store.Path),
			zap.Int("characters", js.Count()),
		)
		store = js
	}

	sessions := session.NewRegistry()
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), observability.Component(logger, "dice"))
	router := dialog.NewRouter()
	hub := dialog.NewHub(router, cfg.Dialog.InboxSize)

	wizard, err := creation.New(creation.Deps{
		Corpus:   corpus,
		Sessions: sessions,
		Store:    store,
		Port:     hub,
		Roller:   roller,
		Logger:   observability.Component(logger, "creation"),
	})
	if err != nil {
		logger.Fatal("building creation wizard", zap.Error(err))
	}

	completers := make(map[string]llm.Completer)
	if cfg.LLM.Anthropic.Enabled() {
		c, err := llm.NewAnthropic(cfg.LLM.Anthropic)
		if err != nil {
			logger.Fatal("configuring anthropic", zap.Error(err))
		}
		completers[command.HandlerClaude] = c
	}
	if cfg.LLM.OpenAI.Enabled() {
		c, err := llm.NewOpenAI(cfg.LLM.OpenAI)
		if err != nil {
			logger.Fatal("configuring openai", zap.Error(err))
		}
		completers[command.HandlerGPT] = c
	}
	logger.Info("ship computer providers", zap.Int("enabled", len(completers)))

	bot, err := handlers.NewBot(handlers.Deps{
		Wizard:     wizard,
		Hub:        hub,
		Sessions:   sessions,
		Store:      store,
		Corpus:     corpus,
		Roller:     roller,
		Completers: completers,
		Logger:     observability.Component(logger, "bot"),
	})
	if err != nil {
		logger.Fatal("building bot", zap.Error(err))
	}

	if cfg.Telnet.Enabled {
		roster := telnet.NewRoster()
		router.Route(handlers.TelnetScheme, roster)
		sessionHandler := handlers.NewTelnetSession(bot, roster, observability.Component(logger, "telnet"))
		acceptor := telnet.NewAcceptor(cfg.Telnet, sessionHandler, logger)
		lifecycle.Add("telnet", acceptor)
	}

	if cfg.Telegram.Enabled {
		transport, err := telegram.New(cfg.Telegram, bot, observability.Component(logger, "telegram"))
		if err != nil {
			logger.Fatal("connecting to telegram", zap.Error(err))
		}
		router.Route(telegram.Scheme, transport)
		lifecycle.Add("telegram", transport)
	}

	idle := cfg.Dialog.IdleTimeout
	lifecycle.Add("draft-sweeper", server.NewPeriodicService(cfg.Dialog.SweepInterval, func(time.Time) {
		if dropped := bot.SweepIdle(idle); len(dropped) > 0 {
			logger.Info("idle drafts swept", zap.Int("dropped", len(dropped)))
		}
	}))
	lifecycle.Add("dialogs", &server.FuncService{
		StartFn: func() error { return nil },
		StopFn:  bot.Close,
	})

	logger.Info("colonybot initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func migrateSchema(cfg config.DatabaseConfig, logger *zap.Logger) error {
	m, err := postgres.NewMigrator(cfg, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	_, err = m.Up(0)
	return err
}

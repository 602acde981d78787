package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	api "github.com/AjeyHanamanal/meeting-summarizer/cmd/api"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/repository"
	"github.com/AjeyHanamanal/meeting-summarizer/internal/summary/usecase"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/ai"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/config"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/database"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/logging"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/mailer"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const serviceName = "meeting-summarizer"

var v = viper.New()

var (
	rootCmd = &cobra.Command{
		Use:          serviceName,
		Short:        "Generate, edit, email and browse AI summaries of meeting transcripts.",
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the PostgreSQL schema and exit",
		RunE:  runMigrate,
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("port", "", "HTTP port (env PORT, default 5000)")
	flags.String("store", "", `summary store, "postgres" or "memory" (env STORE_DRIVER)`)
	flags.String("database-url", "", "PostgreSQL DSN (env DATABASE_URL)")
	flags.String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")

	for key, flag := range map[string]string{
		"port":         "port",
		"store_driver": "store",
		"database_url": "database-url",
		"log_level":    "log-level",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, zerolog.Logger) {
	cfg := config.Load(v)
	logger := logging.Setup(logging.Config{
		Level:       cfg.LogLevel,
		ServiceName: serviceName,
		JSONFormat:  cfg.LogJSON || cfg.IsProduction(),
	})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg, logger
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger := setup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	repo, closeStore, err := openStore(ctx, cfg, reg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open summary store")
		return err
	}
	defer closeStore()

	aiClient := ai.NewClientFromConfig(ai.Config{
		GroqAPIKey:    cfg.AI.GroqAPIKey,
		GroqBaseURL:   cfg.AI.GroqBaseURL,
		GroqModel:     cfg.AI.GroqModel,
		OpenAIAPIKey:  cfg.AI.OpenAIAPIKey,
		OpenAIBaseURL: cfg.AI.OpenAIBaseURL,
		OpenAIModel:   cfg.AI.OpenAIModel,
		GeminiAPIKey:  cfg.AI.GeminiAPIKey,
		GeminiModel:   cfg.AI.GeminiModel,
		OllamaBaseURL: cfg.AI.OllamaBaseURL,
		OllamaModel:   cfg.AI.OllamaModel,
		Timeout:       cfg.AI.Timeout,
	}, m)
	if def := aiClient.DefaultProvider(); def == "" {
		logger.Warn().Msg("no AI provider configured, summary generation will return 503")
	} else {
		logger.Info().Str("default_provider", string(def)).Int("providers", len(aiClient.Providers())).Msg("AI client initialized")
	}

	mailClient := mailer.NewFromConfig(mailer.Config{
		Transport:         cfg.Email.Transport,
		SMTPHost:          cfg.Email.SMTPHost,
		SMTPPort:          cfg.Email.SMTPPort,
		SMTPSecurity:      cfg.Email.SMTPSecurity,
		Username:          cfg.Email.User,
		Password:          cfg.Email.Password,
		From:              cfg.Email.From,
		FromName:          cfg.Email.FromName,
		Timeout:           cfg.Email.Timeout,
		GmailClientID:     cfg.Email.GmailClientID,
		GmailClientSecret: cfg.Email.GmailClientSecret,
		GmailRefreshToken: cfg.Email.GmailRefreshToken,
		BulkConcurrency:   cfg.Email.BulkConcurrency,
		BulkRatePerSec:    cfg.Email.BulkRatePerSec,
	}, m)

	summaryUc := usecase.NewSummaryUsecase(repo, aiClient, mailClient, m)
	historyUc := usecase.NewHistoryUsecase(repo)

	handler := api.NewHandler(summaryUc, historyUc, repo, m, reg)
	return handler.Start(ctx, ":"+cfg.Port)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger := setup()

	db, err := openPostgres(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := repository.Migrate(db); err != nil {
		return errors.Wrap(err, "migrate")
	}
	logger.Info().Msg("schema up to date")
	return nil
}

// openStore returns the configured summary repository and its cleanup func.
func openStore(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, logger zerolog.Logger) (repository.SummaryRepository, func(), error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn().Msg("using in-memory summary store, data is lost on restart")
		return repository.NewMemorySummaryRepository(), func() {}, nil
	}

	db, err := openPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			logger.Error().Err(err).Msg("failed to close database")
		}
	}

	if cfg.DBAutoMigrate {
		if err := repository.Migrate(db); err != nil {
			closeDB()
			return nil, nil, errors.Wrap(err, "migrate")
		}
	}
	if err := database.RegisterPoolCollector(db, reg); err != nil {
		logger.Warn().Err(err).Msg("database pool metrics disabled")
	}
	return repository.NewGormSummaryRepository(db), closeDB, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*gorm.DB, error) {
	return database.Open(ctx, database.Options{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLife,
		Debug:           !cfg.IsProduction() && logging.ParseLevel(cfg.LogLevel) == zerolog.DebugLevel,
	}, logger.With().Str("component", "database").Logger())
}

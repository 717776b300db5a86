package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/qvideo/rental-api/internal/api"
	"github.com/qvideo/rental-api/internal/core/ports"
	"github.com/qvideo/rental-api/internal/core/service"
	"github.com/qvideo/rental-api/internal/infrastructure/config"
	mongostore "github.com/qvideo/rental-api/internal/infrastructure/db/mongo"
	"github.com/qvideo/rental-api/internal/infrastructure/db/postgres"
	rediscache "github.com/qvideo/rental-api/internal/infrastructure/db/redis"
	"github.com/qvideo/rental-api/internal/infrastructure/http/handlers"
	"github.com/qvideo/rental-api/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the qvideo HTTP server",
	Long: `Starts the qvideo HTTP server. Configuration is read from the
environment and an optional .env file. Usage:

	qvideo serve
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// stores bundles the repositories of the selected driver with its readiness
// check and cleanup.
type stores struct {
	users  ports.UserRepository
	videos ports.VideoRepository
	check  handlers.Check
	close  func()
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "qvideo",
	})
	log := logger.Component("server")

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	checks := map[string]handlers.Check{cfg.StoreDriver: st.check}

	var cache ports.CredentialCache
	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		cache = rediscache.NewCredentialCache(rdb, cfg.Redis.CacheTTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.CacheTTL).Msg("credential cache enabled")
	}

	if cfg.Auth.JWTSecret == "" {
		log.Info().Msg("JWT_SECRET not set; bearer tokens disabled")
	}

	authService := service.NewAuthService(st.users, service.AuthOptions{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
		Cache:      cache,
	}, logger.Component("auth"))
	videoService := service.NewVideoService(st.videos, logger.Component("catalog"))

	e := api.NewRouter(api.Deps{
		Auth:   authService,
		Videos: videoService,
		Checks: checks,
		Logger: logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg.Mongo, log)
	default:
		return openPostgres(ctx, cfg.Postgres, log)
	}
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig, log zerolog.Logger) (*stores, error) {
	dsn := cfg.DSN()
	if cfg.AutoMigrate {
		if err := postgres.MigrateUp(dsn); err != nil {
			return nil, err
		}
		log.Info().Msg("postgres migrations applied")
	}

	db, err := postgres.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	log.Info().Str("host", cfg.Host).Str("db", cfg.Database).Msg("postgres connected")

	return &stores{
		users:  postgres.NewUserRepository(db),
		videos: postgres.NewVideoRepository(db),
		check:  db.PingContext,
		close:  func() { closeSQL(db, log) },
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig, log zerolog.Logger) (*stores, error) {
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return nil, err
	}

	users := mongostore.NewUserRepository(db)
	videos := mongostore.NewVideoRepository(db)
	if err := mongostore.EnsureIndexes(ctx, users, videos); err != nil {
		disconnectMongo(client, log)
		return nil, err
	}
	log.Info().Str("db", cfg.Database).Msg("mongo connected")

	return &stores{
		users:  users,
		videos: videos,
		check:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:  func() { disconnectMongo(client, log) },
	}, nil
}

func closeSQL(db *sql.DB, log zerolog.Logger) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("postgres close")
	}
}

const mongoDisconnectTimeout = 5 * time.Second

func disconnectMongo(client *mongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoDisconnectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect")
	}
}

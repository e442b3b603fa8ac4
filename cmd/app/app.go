package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventforge/hackathon-api/internal/api"
	"github.com/eventforge/hackathon-api/internal/config"
	"github.com/eventforge/hackathon-api/internal/db"
	"github.com/eventforge/hackathon-api/internal/logger"
	"github.com/eventforge/hackathon-api/internal/pkg/artifact"
	"github.com/eventforge/hackathon-api/internal/pkg/certrender"
)

const defaultConfigPath = "./cmd/app/config.yml"

func Start() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	if err = logger.SetLevel(conf.API.LogLevel); err != nil {
		return fmt.Errorf("failed to set log level -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	publicFS := afero.NewBasePathFs(afero.NewOsFs(), conf.Certificates.PublicDir)
	renderer, err := certrender.New(certrender.Options{
		Format:     certrender.Format(conf.Certificates.Format),
		Scale:      conf.Certificates.Scale,
		Assets:     publicFS,
		HTTPClient: &http.Client{Timeout: conf.Certificates.FetchTimeout},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize certificate renderer -> %w", err)
	}
	store := artifact.NewStore(publicFS, conf.Certificates.Dir)

	s := api.NewServer(conf, postgresDB, renderer, store)

	config.OnChange(func(c *config.AppConfig) {
		if err := logger.SetLevel(c.API.LogLevel); err != nil {
			zap.L().Warn("ignoring invalid log level", zap.Error(err))
		}
		s.Origins.Set(c.API.AllowedCORSDomains)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = seedAdmin(ctx, s, conf.API); err != nil {
		return err
	}

	go s.Hub.Run(ctx)
	if s.Queue != nil {
		go s.Queue.Run(ctx)
	}

	if conf.Reaper.Enabled {
		c := cron.New()
		if _, err = s.Reaper.Schedule(c, conf.Reaper.Schedule); err != nil {
			return fmt.Errorf("failed to schedule artifact reaper -> %w", err)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
	}

	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err = srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down the server -> %w", err)
		}
		if s.Queue != nil {
			s.Queue.Wait()
		}
	}

	return nil
}

func seedAdmin(ctx context.Context, s *api.Server, conf *config.APIConfig) error {
	created, err := s.Auth.EnsureAdmin(ctx, conf.AdminName, conf.AdminEmail, conf.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to seed admin account -> %w", err)
	}
	if created {
		zap.L().Info("admin account created", zap.String("email", conf.AdminEmail))
	}

	return nil
}

// Package server initializes and runs the auth server application: it opens
// the database, runs migrations, wires services, and starts the HTTP server
// alongside the background token cleanup, with graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/bgv-platform/auth-service/internal/logging"
	"github.com/bgv-platform/auth-service/internal/server/config"
	"github.com/bgv-platform/auth-service/internal/server/email"
	"github.com/bgv-platform/auth-service/internal/server/google"
	"github.com/bgv-platform/auth-service/internal/server/httpapi"
	"github.com/bgv-platform/auth-service/internal/server/password"
	"github.com/bgv-platform/auth-service/internal/server/repositories/repomanager"
	"github.com/bgv-platform/auth-service/internal/server/services"
)

const janitorInterval = time.Hour

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	authService  *services.AuthService
	resetService *services.PasswordResetService
	janitor      *services.TokenJanitor
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("repository init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher := password.NewBcryptHasher()
	verifier := google.NewIDTokenVerifier(cfg.GoogleClientID)

	sender, err := newSender(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	as := services.NewAuthService(db, rm, hasher, verifier, cfg)
	rs := services.NewPasswordResetService(db, rm, hasher, sender, cfg)
	janitor := services.NewTokenJanitor(db, rm, logger)

	return &App{
		config:       cfg,
		logger:       logger,
		db:           db,
		authService:  as,
		resetService: rs,
		janitor:      janitor,
	}, nil
}

// newSender picks the delivery backend: SES when a sender address is
// configured, otherwise the dev sender that logs the reset link.
func newSender(ctx context.Context, cfg *config.Config, logger logging.Logger) (email.Sender, error) {
	if cfg.SESSenderAddress == "" {
		return email.NewLogSender(logger, cfg.FrontendURL), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}
	return email.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.SESSenderAddress, cfg.FrontendURL), nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config, app.logger, app.authService, app.resetService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.janitor.Run(ctx, janitorInterval)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}

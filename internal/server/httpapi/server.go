package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bgv-platform/auth-service/internal/logging"
	"github.com/bgv-platform/auth-service/internal/server/config"
)

// Server wires the handlers and middleware into an http.Server.
type Server struct {
	address         string
	handler         *Handler
	logger          logging.Logger
	jwtSecret       []byte
	limiter         *RateLimiter
	shutdownTimeout time.Duration
}

func NewServer(cfg *config.Config, l logging.Logger, auth Authenticator, reset PasswordResetFlow) *Server {
	return &Server{
		address:         cfg.EndpointAddr,
		handler:         NewHandler(l, auth, reset),
		logger:          l.With("module", "http_server"),
		jwtSecret:       []byte(cfg.SecretKey),
		limiter:         NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// routes builds the mux. The rate limit covers /auth only; /health stays
// cheap for probes.
func (s *Server) routes() http.Handler {
	limited := RateLimit(s.limiter, s.logger)

	authMux := http.NewServeMux()
	authMux.HandleFunc("POST /auth/register", s.handler.Register)
	authMux.HandleFunc("POST /auth/login", s.handler.Login)
	authMux.HandleFunc("POST /auth/google", s.handler.LoginWithGoogle)
	authMux.HandleFunc("POST /auth/refresh", s.handler.Refresh)
	authMux.HandleFunc("POST /auth/forgot-password", s.handler.ForgotPassword)
	authMux.HandleFunc("POST /auth/reset-password", s.handler.ResetPassword)
	authMux.HandleFunc("POST /auth/logout", s.handler.Logout)
	authMux.HandleFunc("POST /auth/logout-all", s.handler.LogoutAll)

	mux := http.NewServeMux()
	mux.Handle("/auth/", limited(authMux))
	mux.HandleFunc("GET /health", s.handler.Health)

	chain := Recovery(s.logger)(
		RequestLogging(s.logger)(
			BearerAuth(s.logger, s.jwtSecret)(mux)))
	return chain
}

// Run serves until ctx is cancelled, then drains within the configured
// shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
		s.limiter.Stop()
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

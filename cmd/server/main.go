// Package main initializes and starts the PassKeeper HTTPS server,
// setting up configuration, logging, the certificate authority,
// repositories, services, handlers and mutual TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/aschwizzy710/passkeeper/internal/certgen"
	"github.com/aschwizzy710/passkeeper/internal/config"
	"github.com/aschwizzy710/passkeeper/internal/generator"
	"github.com/aschwizzy710/passkeeper/internal/logger"
	"github.com/aschwizzy710/passkeeper/internal/middleware"
	"github.com/aschwizzy710/passkeeper/internal/repository"
	"github.com/aschwizzy710/passkeeper/internal/server/handler/http"
	"github.com/aschwizzy710/passkeeper/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	options := config.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	server, err := newServer(ctx, options, zapLogger)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", options.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return serve(ctx, server, ln, options.ShutdownTimeout, zapLogger)
}

// newServer wires repositories, services and handlers into an HTTPS server
// that verifies client certificates against the CA. Background work is
// bound to ctx.
func newServer(ctx context.Context, options *config.Options, zapLogger *zap.Logger) (*nethttp.Server, error) {
	// The CA both verifies client certificates and signs new ones at registration.
	ca, err := certgen.LoadAuthority(options.CACert, options.CAKey)
	if err != nil {
		return nil, fmt.Errorf("load CA: %w", err)
	}
	cert, err := tls.LoadX509KeyPair(options.TLSCert, options.TLSKey)
	if err != nil {
		return nil, fmt.Errorf("load server TLS cert/key: %w", err)
	}

	gen, err := generator.New(generator.Mode(options.GeneratorMode), time.Now)
	if err != nil {
		return nil, err
	}

	passwordService := service.NewPasswordService(repository.NewMemoryPasswordRepository(), gen, zapLogger)
	authService := service.NewAuthService(repository.NewMemoryPrincipalRepository())

	authHandler := &http.AuthHandler{AuthService: authService, Issuer: ca}
	passwordHandler := &http.PasswordHandler{
		PasswordService: passwordService,
		MaxLength:       options.MaxGenerateLength,
	}
	limiter := middleware.NewRateLimiter(ctx, options.RateLimitRPS, options.RateLimitBurst, 10*time.Minute)

	zapLogger.Info("server configured",
		zap.String("addr", options.Port),
		zap.String("generator", options.GeneratorMode),
	)
	return &nethttp.Server{
		Addr:    options.Port,
		Handler: http.NewRouter(authHandler, passwordHandler, limiter, zapLogger),
		TLSConfig: &tls.Config{
			Certificates: []tls.Certificate{cert},
			ClientAuth:   tls.VerifyClientCertIfGiven,
			ClientCAs:    ca.Pool(),
			MinVersion:   tls.VersionTLS12,
		},
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(zapLogger),
	}, nil
}

// serve runs server on ln until ctx is done, then shuts it down within timeout.
func serve(ctx context.Context, server *nethttp.Server, ln net.Listener, timeout time.Duration, zapLogger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting HTTPS server", zap.String("addr", ln.Addr().String()))
		errCh <- server.ServeTLS(ln, "", "")
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down", zap.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return err
	}
	zapLogger.Info("server stopped")
	return nil
}

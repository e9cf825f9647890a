package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/guilherme-santos/tabcalendar/internal/httpapi"
)

var ServeCommand = _serveCommand{
	Name:        "serve",
	Description: "Serve the calendar HTTP API",
}

type _serveCommand struct {
	Name        string
	Description string
}

func (s _serveCommand) Run(ctx context.Context, args []string) error {
	var (
		addr      string
		jwtSecret string
		logLevel  string
	)

	fs := newFlagSet(s.Name)
	fs.StringVar(&addr, "addr", ":"+getEnv("PORT", "8080"), "address to listen on")
	fs.StringVar(&jwtSecret, "jwt-secret", getEnv("JWT_SECRET", ""), "secret used to verify bearer tokens")
	fs.StringVar(&logLevel, "log-level", getEnv("LOG_LEVEL", "info"), "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if jwtSecret == "" {
		return fmt.Errorf("a JWT secret is required (-jwt-secret or JWT_SECRET)")
	}

	logger := initLogger(logLevel)
	defer logger.Sync()

	storage, closeDB, err := openStorage()
	if err != nil {
		return err
	}
	defer closeDB()

	if logLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewServer(storage, logger, jwtSecret).Handler(),
		ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting calendar API",
			zap.String("address", srv.Addr),
			zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func initLogger(level string) *zap.Logger {
	var logLevel zapcore.Level
	switch level {
	case "debug":
		logLevel = zap.DebugLevel
	case "warn":
		logLevel = zap.WarnLevel
	case "error":
		logLevel = zap.ErrorLevel
	default:
		logLevel = zap.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(logLevel),
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return logger
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/LostNSeeker/AlumnConnect/internal/api"
	"github.com/LostNSeeker/AlumnConnect/internal/config"
	"github.com/LostNSeeker/AlumnConnect/internal/session"
	"github.com/LostNSeeker/AlumnConnect/internal/ui"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The terminal owns stdout, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()

	logger := logrus.New()
	logger.SetOutput(logFile)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Session persistence
	store, err := session.OpenStore(cfg.SessionDB)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer store.Close()

	anon := api.New(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	sessions := session.NewManager(anon, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel in-flight requests when the process is signalled.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"api_base_url": cfg.APIBaseURL,
		"state_dir":    cfg.StateDir,
	}).Info("starting client")

	app := ui.New(cfg, sessions, logger)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("ui error: %v", err)
	}
}

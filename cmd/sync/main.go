package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github-task-sync/config"
	"github-task-sync/internal/gh"
	"github-task-sync/internal/sync"
	"github-task-sync/internal/task/repository/omnifocus"
	"github-task-sync/pkg/log"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting GitHub task sync...")
	logger.Infof(ctx, "GitHub API: %s", cfg.GitHub.APIURL)

	// 3. GitHub gateway
	gateway, err := gh.New(ctx, logger, cfg.GitHub)
	if err != nil {
		logger.Errorf(ctx, "Building GitHub client: %v", err)
		os.Exit(1)
	}

	// 4. OmniFocus repository
	taskRepo := omnifocus.New(omnifocus.NewBridge(), logger)

	// 5. Orchestrator
	orchestrator := sync.New(logger, gateway, taskRepo, cfg)
	if err := orchestrator.Run(ctx); err != nil {
		logger.Errorf(ctx, "Sync finished with errors: %v", err)
		os.Exit(1)
	}
}

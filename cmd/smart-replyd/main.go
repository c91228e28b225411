package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/smart-reply/internal/core"
	"github.com/mikey/smart-reply/internal/di"
	"github.com/mikey/smart-reply/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	replyIngest ports.ReplyIngest,
	polisher core.DraftPolisher,
	profiles core.SenderProfileStore,
	learning core.LearningStore,
) error {
	defer logger.Sync()

	// Start the ingest service
	if err := replyIngest.Start(); err != nil {
		logger.Fatal("Failed to start ingest service", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the ingest service
	if err := replyIngest.Stop(); err != nil {
		logger.Error("Failed to stop ingest service", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := polisher.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close draft polisher", zap.Error(err))
		}
	}
	if closer, ok := profiles.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close profile store", zap.Error(err))
		}
	}
	if closer, ok := learning.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close learning store", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}

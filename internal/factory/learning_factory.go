package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/smart-reply/internal/adapters/learning"
	"github.com/mikey/smart-reply/internal/config"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// LearningFactory creates learning stores based on configuration
type LearningFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLearningFactory creates a new learning store factory
func NewLearningFactory(cfg *config.Config, logger *zap.Logger) *LearningFactory {
	return &LearningFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLearningStore creates a learning store based on the configuration
func (f *LearningFactory) CreateLearningStore() (core.LearningStore, error) {
	learningCfg := f.cfg.GetLearning()

	switch learningCfg.StoreType {
	case "memory":
		return learning.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(learningCfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create learning data directory: %w", err)
		}
		dbPath := filepath.Join(learningCfg.DataDir, "learning.db")
		return learning.NewSQLiteStore(dbPath, f.logger)
	default:
		return nil, fmt.Errorf("unsupported learning store type: %s", learningCfg.StoreType)
	}
}

// IsLearningEnabled returns whether learned-phrase injection is enabled
func (f *LearningFactory) IsLearningEnabled() bool {
	return f.cfg.GetLearning().Enabled
}

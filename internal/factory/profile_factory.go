package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/smart-reply/internal/adapters/profile"
	"github.com/mikey/smart-reply/internal/config"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// ProfileFactory creates sender profile stores based on configuration
type ProfileFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewProfileFactory creates a new profile store factory
func NewProfileFactory(cfg *config.Config, logger *zap.Logger) *ProfileFactory {
	return &ProfileFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateProfileStore creates a profile store based on the configuration
func (f *ProfileFactory) CreateProfileStore() (core.SenderProfileStore, error) {
	profileCfg := f.cfg.GetProfile()

	switch profileCfg.StoreType {
	case "memory":
		return profile.NewMemoryStore(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(profileCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return profile.NewSQLiteStore(profileCfg.SQLitePath, f.logger)
	case "mysql":
		return profile.NewMySQLStore(profileCfg.MySQLDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported profile store type: %s", profileCfg.StoreType)
	}
}

package factory

import (
	"fmt"

	"github.com/mikey/smart-reply/internal/adapters/bedrock"
	"github.com/mikey/smart-reply/internal/adapters/gemini"
	"github.com/mikey/smart-reply/internal/adapters/openai"
	"github.com/mikey/smart-reply/internal/config"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// PolisherFactory creates draft polishers
type PolisherFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewPolisherFactory creates a new polisher factory
func NewPolisherFactory(cfg *config.Config, logger *zap.Logger) *PolisherFactory {
	return &PolisherFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePolisher creates a draft polisher based on the configuration.
// Provider "none" disables polishing and returns nil.
func (f *PolisherFactory) CreatePolisher() (core.DraftPolisher, error) {
	polishCfg := f.cfg.GetPolish()

	switch polishCfg.Provider {
	case "", "none":
		return nil, nil
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger)
		return factory.CreatePolisher()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger)
		return factory.CreatePolisher()
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger)
		return factory.CreatePolisher()
	default:
		return nil, fmt.Errorf("unsupported polish provider: %s", polishCfg.Provider)
	}
}

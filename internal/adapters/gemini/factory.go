package gemini

import (
	"github.com/mikey/smart-reply/internal/config"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of the Gemini polisher
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for Gemini polisher instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePolisher creates a new Gemini-backed DraftPolisher
func (f *Factory) CreatePolisher() (core.DraftPolisher, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewPolisher(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		geminiCfg.TopP,
		f.logger,
	)
}

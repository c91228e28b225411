package openai

import (
	"github.com/mikey/smart-reply/internal/config"
	"github.com/mikey/smart-reply/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of the OpenAI polisher
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAI polisher instances
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreatePolisher creates a new OpenAI-backed DraftPolisher
func (f *Factory) CreatePolisher() (core.DraftPolisher, error) {
	openaiCfg := f.cfg.GetOpenAI()

	return NewPolisher(
		openaiCfg.APIKey,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		openaiCfg.TopP,
		f.logger,
	), nil
}

package factory

import (
	"github.com/mikey/smart-reply/internal/adapters/ingest"
	"github.com/mikey/smart-reply/internal/config"
	"github.com/mikey/smart-reply/internal/core"
	"github.com/mikey/smart-reply/internal/ports"
	"github.com/mikey/smart-reply/internal/utils"
	"go.uber.org/zap"
)

// IngestFactory creates reply ingest services based on configuration
type IngestFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	service       *core.ReplyService
	textProcessor *utils.TextProcessor
}

// NewIngestFactory creates a new ingest factory
func NewIngestFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service *core.ReplyService,
	textProcessor *utils.TextProcessor,
) *IngestFactory {
	return &IngestFactory{
		cfg:           cfg,
		logger:        logger,
		service:       service,
		textProcessor: textProcessor,
	}
}

// CreateReplyIngest creates the SMTP ingest service
func (f *IngestFactory) CreateReplyIngest() (ports.ReplyIngest, error) {
	serverCfg := f.cfg.GetServer()
	replyCfg := f.cfg.GetReply()

	return ingest.NewSMTPIngest(
		f.service,
		f.logger,
		f.textProcessor,
		serverCfg.ListenAddress,
		serverCfg.OutboxDir,
		replyCfg.MaxBodySize,
		serverCfg.MaxConcurrent,
	), nil
}

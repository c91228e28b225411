package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/smart-reply/internal/config"
	"github.com/mikey/smart-reply/internal/core"
	"github.com/mikey/smart-reply/internal/factory"
	"github.com/mikey/smart-reply/internal/logging"
	"github.com/mikey/smart-reply/internal/noreply"
	"github.com/mikey/smart-reply/internal/ports"
	"github.com/mikey/smart-reply/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewPolisherFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewProfileFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewLearningFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewIngestFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register draft polisher (nil when polishing is disabled)
	if err := container.Provide(func(f *factory.PolisherFactory) (core.DraftPolisher, error) {
		return f.CreatePolisher()
	}); err != nil {
		return nil, err
	}

	// Register profile store
	if err := container.Provide(func(f *factory.ProfileFactory) (core.SenderProfileStore, error) {
		return f.CreateProfileStore()
	}); err != nil {
		return nil, err
	}

	// Register learning store
	if err := container.Provide(func(f *factory.LearningFactory) (core.LearningStore, error) {
		return f.CreateLearningStore()
	}); err != nil {
		return nil, err
	}

	// Register no-reply checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.NoReplyChecker {
		return noreply.NewChecker(cfg.GetReply().NoReplyPatterns, logger)
	}); err != nil {
		return nil, err
	}

	// Register pipeline stages and the orchestrator
	if err := container.Provide(func(
		cfg *config.Config,
		logger *zap.Logger,
		profiles core.SenderProfileStore,
		learning core.LearningStore,
		polisher core.DraftPolisher,
		noReplyChecker core.NoReplyChecker,
	) *core.ReplyService {
		replyCfg := cfg.GetReply()
		learningCfg := cfg.GetLearning()

		priority := make([]core.Signal, 0, len(replyCfg.PriorityOrder))
		for _, s := range replyCfg.PriorityOrder {
			priority = append(priority, core.Signal(s))
		}

		tracker := core.NewEditTracker(learning, logger)
		return core.NewReplyService(
			core.NewContextExtractor(logger),
			core.NewReplyBuilder(logger, priority),
			core.NewPhraseInjector(logger, learningCfg.MinEvidence),
			core.NewConfidenceScorer(logger),
			core.NewToneAdapter(logger),
			tracker,
			core.NewSensitiveTopicDetector(logger),
			profiles,
			learning,
			polisher,
			noReplyChecker,
			logger,
			learningCfg.Enabled,
			core.Tone(replyCfg.DefaultTone),
		)
	}); err != nil {
		return nil, err
	}

	// Register reply ingest
	if err := container.Provide(func(f *factory.IngestFactory) (ports.ReplyIngest, error) {
		return f.CreateReplyIngest()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

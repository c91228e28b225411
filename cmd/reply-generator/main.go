package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/mikey/smart-reply/internal/config"
	"github.com/mikey/smart-reply/internal/core"
	"github.com/mikey/smart-reply/internal/factory"
	"github.com/mikey/smart-reply/internal/logging"
	"github.com/mikey/smart-reply/internal/noreply"
	"go.uber.org/zap"
)

var (
	// Reply flags
	tone        = flag.String("tone", "", "Reply tone (business, casual, formal); sender preference when empty")
	maxBodySize = flag.Int("max-body-size", 8192, "Maximum email body size to process")

	// Polish flags
	polishProvider = flag.String("polish-provider", "none", "Draft polish provider (none, bedrock, gemini, openai)")
	maxTokens      = flag.Int("max-tokens", 500, "Maximum tokens for model polish")
	temperature    = flag.Float64("temperature", 0.2, "Temperature for model polish")
	topP           = flag.Float64("top-p", 0.9, "Top-p for model polish")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Store flags
	profileStore = flag.String("profile-store", "memory", "Profile store (memory, sqlite, mysql)")
	profilePath  = flag.String("profile-sqlite", "smart-reply-profiles.db", "SQLite path for the profile store")
	learningDir  = flag.String("learning-dir", ".", "Data directory for the learning store")
	learningType = flag.String("learning-store", "memory", "Learning store (memory, sqlite)")
	minEvidence  = flag.Int("min-evidence", 3, "Occurrences required before a learned phrase is applied")
	noLearning   = flag.Bool("no-learning", false, "Disable learned-phrase injection")

	// Edit tracking flags
	recordEdit    = flag.Bool("record-edit", false, "Compare a generated reply with the sent version and record the edit")
	generatedFile = flag.String("generated", "", "File holding the generated reply (record-edit mode)")
	sentFile      = flag.String("sent", "", "File holding the reply as actually sent (record-edit mode)")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	service := buildService(cfg, logger)

	if *recordEdit {
		runRecordEdit(service, logger)
		return
	}

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	msg, err := mail.ReadMessage(bufio.NewReader(emailReader))
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	bodyBytes, err := io.ReadAll(msg.Body)
	if err != nil {
		logger.Fatal("Failed to read email body", zap.Error(err))
	}

	email := &core.EmailInput{
		Subject: msg.Header.Get("Subject"),
		Body:    string(bodyBytes),
	}
	if addr, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
		email.SenderAddress = addr.Address
		email.SenderName = addr.Name
	} else {
		email.SenderAddress = msg.Header.Get("From")
	}

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", msg.Header.Get("From"))
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("Body length: %d bytes\n", len(email.Body))

	startTime := time.Now()
	result := service.GenerateReply(context.Background(), email, core.Tone(*tone))
	duration := time.Since(startTime)

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Method: %s\n", result.Method)
	if result.Method == core.MethodNoReplyNeeded {
		fmt.Printf("This email does not need a reply.\n")
		return
	}
	fmt.Printf("Category: %s\n", result.Category)
	if result.Profile != nil {
		fmt.Printf("Sender tier: %s (%d interactions)\n", result.Profile.Tier, result.Profile.Interactions)
	}
	fmt.Printf("Confidence: %.2f (%s)\n", result.Confidence, result.Level)
	if result.ToneChange != nil {
		fmt.Printf("Tone adjustment: %s\n", result.ToneChange.Reason)
	}
	if result.ManualReview {
		fmt.Printf("Manual review recommended before sending.\n")
	}
	fmt.Printf("Processing time: %v\n", duration)
	fmt.Printf("\n=== Reply ===\n%s\n", result.ReplyText)
}

// runRecordEdit feeds a generated-versus-sent pair into the learning loop
func runRecordEdit(service *core.ReplyService, logger *zap.Logger) {
	if *generatedFile == "" || *sentFile == "" {
		logger.Fatal("Record-edit mode needs both -generated and -sent files")
	}

	generated, err := os.ReadFile(*generatedFile)
	if err != nil {
		logger.Fatal("Failed to read generated reply", zap.Error(err))
	}
	sent, err := os.ReadFile(*sentFile)
	if err != nil {
		logger.Fatal("Failed to read sent reply", zap.Error(err))
	}

	record, err := service.RecordEdit(context.Background(), string(generated), string(sent))
	if err != nil {
		logger.Fatal("Failed to record edit", zap.Error(err))
	}

	fmt.Printf("\n=== Edit Record ===\n")
	fmt.Printf("Similarity: %.4f\n", record.Similarity)
	fmt.Printf("Edit type: %s\n", record.EditType)
	fmt.Printf("Added phrases: %s\n", joinOrDash(record.AddedPhrases))
	fmt.Printf("Removed phrases: %s\n", joinOrDash(record.RemovedPhrases))
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}

// buildService assembles the pipeline from configuration
func buildService(cfg *config.Config, logger *zap.Logger) *core.ReplyService {
	profiles, err := factory.NewProfileFactory(cfg, logger).CreateProfileStore()
	if err != nil {
		logger.Fatal("Failed to create profile store", zap.Error(err))
	}
	learningStore, err := factory.NewLearningFactory(cfg, logger).CreateLearningStore()
	if err != nil {
		logger.Fatal("Failed to create learning store", zap.Error(err))
	}
	polisher, err := factory.NewPolisherFactory(cfg, logger).CreatePolisher()
	if err != nil {
		logger.Fatal("Failed to create draft polisher", zap.Error(err))
	}

	replyCfg := cfg.GetReply()
	learningCfg := cfg.GetLearning()

	priority := make([]core.Signal, 0, len(replyCfg.PriorityOrder))
	for _, s := range replyCfg.PriorityOrder {
		priority = append(priority, core.Signal(s))
	}

	return core.NewReplyService(
		core.NewContextExtractor(logger),
		core.NewReplyBuilder(logger, priority),
		core.NewPhraseInjector(logger, learningCfg.MinEvidence),
		core.NewConfidenceScorer(logger),
		core.NewToneAdapter(logger),
		core.NewEditTracker(learningStore, logger),
		core.NewSensitiveTopicDetector(logger),
		profiles,
		learningStore,
		polisher,
		noreply.NewChecker(replyCfg.NoReplyPatterns, logger),
		logger,
		learningCfg.Enabled,
		core.Tone(replyCfg.DefaultTone),
	)
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("reply.default_tone", "business")
	v.Set("reply.max_body_size", *maxBodySize)
	v.Set("reply.priority_order", []string{"deadline", "action_item", "question", "topic"})

	v.Set("profile.store_type", *profileStore)
	v.Set("profile.sqlite_path", *profilePath)

	v.Set("learning.enabled", !*noLearning)
	v.Set("learning.store_type", *learningType)
	v.Set("learning.data_dir", *learningDir)
	v.Set("learning.min_evidence", *minEvidence)

	v.Set("polish.provider", *polishProvider)
	switch *polishProvider {
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
	}

	return config.NewFromViper(v)
}

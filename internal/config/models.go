package config

// ReplyConfig represents the configuration for the reply pipeline
type ReplyConfig struct {
	PriorityOrder   []string
	DefaultTone     string
	MaxBodySize     int
	NoReplyPatterns []string
}

// LearningConfig represents the configuration for the learning subsystem
type LearningConfig struct {
	Enabled     bool
	DataDir     string
	StoreType   string
	MinEvidence int
}

// ProfileConfig represents the configuration for the sender profile store
type ProfileConfig struct {
	StoreType  string
	SQLitePath string
	MySQLDSN   string
}

// PolishConfig represents the configuration for the draft polisher
type PolishConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// ServerConfig represents the configuration for the ingest server
type ServerConfig struct {
	ListenAddress string
	OutboxDir     string
	MaxConcurrent int
}

// GetReply returns the reply pipeline configuration
func (c *Config) GetReply() ReplyConfig {
	return ReplyConfig{
		PriorityOrder:   c.GetStringSlice("reply.priority_order"),
		DefaultTone:     c.GetString("reply.default_tone"),
		MaxBodySize:     c.GetInt("reply.max_body_size"),
		NoReplyPatterns: c.GetStringSlice("reply.no_reply_patterns"),
	}
}

// GetLearning returns the learning configuration
func (c *Config) GetLearning() LearningConfig {
	return LearningConfig{
		Enabled:     c.GetBool("learning.enabled"),
		DataDir:     c.GetString("learning.data_dir"),
		StoreType:   c.GetString("learning.store_type"),
		MinEvidence: c.GetInt("learning.min_evidence"),
	}
}

// GetProfile returns the sender profile store configuration
func (c *Config) GetProfile() ProfileConfig {
	return ProfileConfig{
		StoreType:  c.GetString("profile.store_type"),
		SQLitePath: c.GetString("profile.sqlite_path"),
		MySQLDSN:   c.GetString("profile.mysql_dsn"),
	}
}

// GetPolish returns the draft polisher configuration
func (c *Config) GetPolish() PolishConfig {
	return PolishConfig{
		Provider: c.GetString("polish.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetServer returns the ingest server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		OutboxDir:     c.GetString("server.outbox_dir"),
		MaxConcurrent: c.GetInt("server.max_concurrent"),
	}
}

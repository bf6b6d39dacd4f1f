package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath    string `long:"db-path" env:"DB_PATH" default:"./gempress.db" description:"Path to the SQLite database file"`
	IndexPath string `long:"index-path" env:"INDEX_PATH" default:"./gempress.index" description:"Path to the vector index snapshot file"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SourcesDir        string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing link source files"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for article processing"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Scheduler interval in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// LLM configuration
	OllamaURL     string `long:"ollama-url" env:"OLLAMA_URL" default:"http://localhost:11434" description:"Base URL of the Ollama server"`
	CleanModel    string `long:"clean-model" env:"CLEAN_MODEL" default:"gemma3:latest" description:"Model used for markdown cleaning and extraction"`
	ChatModel     string `long:"chat-model" env:"CHAT_MODEL" default:"gemma3:latest" description:"Model used for social post generation and answers"`
	EmbedModel    string `long:"embed-model" env:"EMBED_MODEL" default:"nomic-embed-text" description:"Model used for text embeddings"`
	EmbedDim      int    `long:"embed-dim" env:"EMBED_DIM" default:"768" description:"Dimension of embedding vectors"`
	LLMMaxRetries int    `long:"llm-max-retries" env:"LLM_MAX_RETRIES" default:"3" description:"Maximum attempts per LLM call"`
	LLMTimeout    int    `long:"llm-timeout" env:"LLM_TIMEOUT" default:"120" description:"Hard timeout per LLM call in seconds"`
	SegmentSize   int    `long:"segment-size" env:"SEGMENT_SIZE" default:"1000" description:"Segment size in characters for markdown cleaning"`

	// Translation configuration
	TranslateURL string `long:"translate-url" env:"TRANSLATE_URL" default:"http://localhost:5000" description:"Base URL of the translation service"`
	TargetLang   string `long:"target-lang" env:"TARGET_LANG" default:"es" description:"Target language for article translations"`

	// Retrieval configuration
	TopK      int `long:"top-k" env:"TOP_K" default:"3" description:"Number of nearest articles returned for a question"`
	PostCount int `long:"post-count" env:"POST_COUNT" default:"3" description:"Default number of social posts generated per article"`

	// Scheduler behavior
	AutoGeneratePosts bool `long:"auto-generate-posts" env:"AUTO_GENERATE_POSTS" description:"Generate social posts for new articles on the scheduler instead of waiting for an API trigger"`

	// Optional cache
	RedisAddr string `long:"redis-addr" env:"REDIS_ADDR" description:"Redis address for the HTML fetch cache (optional)"`

	// Pipeline configuration
	FetchTimeout int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"HTTP fetch timeout in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"GemPress/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/Bogota)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		IndexPath:         raw.IndexPath,
		Port:              raw.Port,
		SourcesDir:        raw.SourcesDir,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		APIAccessKey:      raw.APIAccessKey,
		OllamaURL:         raw.OllamaURL,
		CleanModel:        raw.CleanModel,
		ChatModel:         raw.ChatModel,
		EmbedModel:        raw.EmbedModel,
		EmbedDim:          raw.EmbedDim,
		LLMMaxRetries:     raw.LLMMaxRetries,
		LLMTimeout:        raw.LLMTimeout,
		SegmentSize:       raw.SegmentSize,
		TranslateURL:      raw.TranslateURL,
		TargetLang:        raw.TargetLang,
		TopK:              raw.TopK,
		PostCount:         raw.PostCount,
		AutoGeneratePosts: raw.AutoGeneratePosts,
		RedisAddr:         raw.RedisAddr,
		FetchTimeout:      raw.FetchTimeout,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}

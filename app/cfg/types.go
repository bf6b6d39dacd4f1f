package cfg

type Cfg struct {
	// Storage configuration
	DBPath    string
	IndexPath string

	// Application configuration
	Port              string
	SourcesDir        string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// LLM configuration
	OllamaURL     string
	CleanModel    string
	ChatModel     string
	EmbedModel    string
	EmbedDim      int
	LLMMaxRetries int
	LLMTimeout    int
	SegmentSize   int

	// Translation configuration
	TranslateURL string
	TargetLang   string

	// Retrieval configuration
	TopK      int
	PostCount int

	// Scheduler behavior
	AutoGeneratePosts bool

	// Optional cache
	RedisAddr string

	// Pipeline configuration
	FetchTimeout int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

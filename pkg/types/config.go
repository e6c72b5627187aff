package types

import "time"

// HTTPConfig holds shared HTTP settings used by every stage that makes
// network requests (feed, document fetch, hosted summarizers).
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "papergenie/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RateLimit is the sustained number of requests per second. Zero disables
	// limiting.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit"`

	// Burst is the number of requests allowed at once.
	Burst int `json:"burst" yaml:"burst" mapstructure:"burst"`
}

// FeedConfig holds settings for the metadata feed client.
type FeedConfig struct {
	// BaseURL is the Atom query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
}

// FetchConfig holds settings for the document fetcher.
type FetchConfig struct {
	// PDFBaseURL is the prefix that, followed by "<id>.pdf", locates a paper.
	PDFBaseURL string `json:"pdf_base_url" yaml:"pdf_base_url" mapstructure:"pdf_base_url"`

	// CacheDir receives a copy of every retrieved document. Empty disables
	// the cache.
	CacheDir string `json:"cache_dir" yaml:"cache_dir" mapstructure:"cache_dir"`
}

// ExtractionBackend identifies the text extraction tool.
type ExtractionBackend string

const (
	ExtractPDF        ExtractionBackend = "pdf"
	ExtractMarkitdown ExtractionBackend = "markitdown"
)

// ExtractConfig holds settings for the text extraction stage.
type ExtractConfig struct {
	// Backend selects the extraction tool: pdf or markitdown.
	Backend ExtractionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`
}

// SummarizerBackend identifies the summarization model provider.
type SummarizerBackend string

const (
	SummarizeHuggingFace SummarizerBackend = "huggingface"
	SummarizeClaude      SummarizerBackend = "claude"
	SummarizeLead        SummarizerBackend = "lead"
)

// SummarizeConfig holds settings for the summarization stage and the
// bounding policy applied before it.
type SummarizeConfig struct {
	// Backend selects the summarizer: huggingface, claude, or lead.
	Backend SummarizerBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the model identifier passed to the backend.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// Endpoint overrides the backend's default API URL.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	// APIKey authenticates against hosted backends.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxInputChars is the prefix length handed to the summarizer (default 4000).
	MaxInputChars int `json:"max_input_chars" yaml:"max_input_chars" mapstructure:"max_input_chars"`

	// MinInputChars is the shortest trimmed prefix worth summarizing (default 100).
	MinInputChars int `json:"min_input_chars" yaml:"min_input_chars" mapstructure:"min_input_chars"`

	// MaxLength and MinLength bound the generated summary (defaults 200 and 50).
	MaxLength int `json:"max_length" yaml:"max_length" mapstructure:"max_length"`
	MinLength int `json:"min_length" yaml:"min_length" mapstructure:"min_length"`
}

// ReportFormat selects the report renderer.
type ReportFormat string

const (
	ReportDOCX     ReportFormat = "docx"
	ReportMarkdown ReportFormat = "markdown"
)

// ReportConfig holds settings for report generation.
type ReportConfig struct {
	// Path is the report file written after every run.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Title is the top-level heading of the report.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// Format forces a renderer. Empty means infer from the Path extension.
	Format ReportFormat `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is json or console.
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// ServerConfig holds settings for the HTTP shell.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups all stage configurations.
type Config struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
	Feed      FeedConfig      `json:"feed" yaml:"feed" mapstructure:"feed"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Extract   ExtractConfig   `json:"extract" yaml:"extract" mapstructure:"extract"`
	Summarize SummarizeConfig `json:"summarize" yaml:"summarize" mapstructure:"summarize"`
	Report    ReportConfig    `json:"report" yaml:"report" mapstructure:"report"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
}

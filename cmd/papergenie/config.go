package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/papergenie/internal/feed"
	"github.com/pdiddy/papergenie/internal/fetch"
	"github.com/pdiddy/papergenie/internal/report"
	"github.com/pdiddy/papergenie/internal/server"
	"github.com/pdiddy/papergenie/pkg/types"
)

// Default values registered with viper. Keys mirror types.Config.
const (
	defaultCount       = 3
	maxCount           = 10
	defaultCacheDir    = "pdfs"
	defaultHTTPTimeout = 60 * time.Second
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", defaultHTTPTimeout)
	v.SetDefault("http.user_agent", "papergenie/"+version)
	v.SetDefault("http.rate_limit", 1.0)
	v.SetDefault("http.burst", 1)

	v.SetDefault("feed.base_url", feed.DefaultBaseURL)

	v.SetDefault("fetch.pdf_base_url", fetch.DefaultPDFBaseURL)
	v.SetDefault("fetch.cache_dir", defaultCacheDir)

	v.SetDefault("extract.backend", string(types.ExtractPDF))

	v.SetDefault("summarize.backend", string(types.SummarizeHuggingFace))
	v.SetDefault("summarize.model", "")
	v.SetDefault("summarize.endpoint", "")
	v.SetDefault("summarize.api_key", "")
	v.SetDefault("summarize.max_input_chars", 4000)
	v.SetDefault("summarize.min_input_chars", 100)
	v.SetDefault("summarize.max_length", 200)
	v.SetDefault("summarize.min_length", 50)

	v.SetDefault("report.path", report.DefaultPath)
	v.SetDefault("report.title", report.DefaultTitle)
	v.SetDefault("report.format", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("server.addr", server.DefaultAddr)
}

// bindEnv maps PAPERGENIE_SECTION_KEY variables onto section.key.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("PAPERGENIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig unmarshals the merged viper tree (defaults, file, env, flags).
func loadConfig(v *viper.Viper) (*types.Config, error) {
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return &c, nil
}

// validateCount enforces the 1 to 10 range offered by the interactive entry
// point.
func validateCount(n int) error {
	if n < 1 || n > maxCount {
		return fmt.Errorf("count must be between 1 and %d, got %d", maxCount, n)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files. The
// filename is the key name and the trimmed contents are the value.
//
// Recognized files: anthropic-api-key, huggingface-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/papergenie/pkg/types"
)

// DefaultDir is where keys are looked up relative to the working directory.
const DefaultDir = ".secrets"

// Key file names.
const (
	AnthropicKey   = "anthropic-api-key"
	HuggingFaceKey = "huggingface-api-key"
)

// Store maps key names to values.
type Store map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory is not
// an error. Unreadable files are logged and skipped.
func Load(dir string, logger zerolog.Logger) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Store)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Names returns the loaded key names, sorted. Values are never exposed here so
// the result is safe to log.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// KeyFor returns the key file that authenticates backend, or "" when the
// backend needs no key.
func KeyFor(backend types.SummarizerBackend) string {
	switch backend {
	case types.SummarizeClaude:
		return AnthropicKey
	case types.SummarizeHuggingFace, "":
		return HuggingFaceKey
	}
	return ""
}

// APIKey returns explicit when set, otherwise the stored key for backend.
func (s Store) APIKey(backend types.SummarizerBackend, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if name := KeyFor(backend); name != "" {
		return s[name]
	}
	return ""
}

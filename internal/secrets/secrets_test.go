// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/papergenie/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Store
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AnthropicKey, "  sk-ant-123  \n")
				writeFile(t, dir, HuggingFaceKey, "hf_xyz\n")
				return dir
			},
			want: Store{AnthropicKey: "sk-ant-123", HuggingFaceKey: "hf_xyz"},
		},
		{
			name: "missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Store{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AnthropicKey, "valid")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "  \n\t ")
				return dir
			},
			want: Store{AnthropicKey: "valid"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden", "secret")
				writeFile(t, dir, HuggingFaceKey, "hf_real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
				return dir
			},
			want: Store{HuggingFaceKey: "hf_real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plain", "x")

	_, err := Load(filepath.Join(dir, "plain"), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading secrets directory")
}

func TestLoad_UnreadableFileLogged(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, AnthropicKey, "good")
	bad := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(bad, []byte("secret"), 0o000))
	t.Cleanup(func() { _ = os.Chmod(bad, 0o644) })

	var buf bytes.Buffer
	got, err := Load(dir, zerolog.New(&buf))
	require.NoError(t, err)
	assert.Equal(t, Store{AnthropicKey: "good"}, got)
	assert.Contains(t, buf.String(), "bad-key")
}

func TestStore_Names(t *testing.T) {
	s := Store{HuggingFaceKey: "b", AnthropicKey: "a"}
	assert.Equal(t, []string{AnthropicKey, HuggingFaceKey}, s.Names())
	assert.Empty(t, Store{}.Names())
}

func TestStore_APIKey(t *testing.T) {
	s := Store{AnthropicKey: "sk-ant", HuggingFaceKey: "hf"}

	tests := []struct {
		backend  types.SummarizerBackend
		explicit string
		want     string
	}{
		{types.SummarizeClaude, "", "sk-ant"},
		{types.SummarizeHuggingFace, "", "hf"},
		{"", "", "hf"},
		{types.SummarizeLead, "", ""},
		{types.SummarizeClaude, "from-config", "from-config"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.APIKey(tt.backend, tt.explicit), string(tt.backend))
	}
	assert.Empty(t, Store{}.APIKey(types.SummarizeClaude, ""))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

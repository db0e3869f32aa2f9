package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsxbet/migration-linter/pkg/advisor"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.ExcludedRules)
	assert.Equal(t, OutputText, cfg.Output)
	assert.True(t, cfg.FailOnViolation)
}

func TestLoadFromFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    *Config
		wantErr bool
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `excludedRules:
  - prefer-robust-stmts
  - ban-char-field
output: json
failOnViolation: false
`,
			want: &Config{
				ExcludedRules:   []string{"prefer-robust-stmts", "ban-char-field"},
				Output:          OutputJSON,
				FailOnViolation: false,
			},
		},
		{
			name:    "json",
			file:    "config.json",
			content: `{"excludedRules": ["renaming-table"], "output": "table"}`,
			want: &Config{
				ExcludedRules:   []string{"renaming-table"},
				Output:          OutputTable,
				FailOnViolation: true,
			},
		},
		{
			name:    "missing fields keep defaults",
			file:    "partial.yaml",
			content: "excludedRules: [renaming-column]\n",
			want: &Config{
				ExcludedRules:   []string{"renaming-column"},
				Output:          OutputText,
				FailOnViolation: true,
			},
		},
		{
			name:    "unsupported output",
			file:    "bad.yaml",
			content: "output: html\n",
			wantErr: true,
		},
		{
			name:    "not yaml nor json",
			file:    "bad.txt",
			content: "excludedRules: [unterminated\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromFile(writeFile(t, tt.file, tt.content))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestExcludedKinds(t *testing.T) {
	cfg := &Config{ExcludedRules: []string{"renaming-table", "typo-rule"}}
	kinds, unknown := cfg.ExcludedKinds()
	assert.Equal(t, map[advisor.Kind]bool{advisor.RenamingTable: true}, kinds)
	assert.Equal(t, []string{"typo-rule"}, unknown)
}

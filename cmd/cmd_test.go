package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsxbet/migration-linter/pkg/config"
	"github.com/nsxbet/migration-linter/pkg/report"
	"github.com/nsxbet/migration-linter/pkg/reviewer"
	"github.com/nsxbet/migration-linter/pkg/types"
)

const renameMigration = `ALTER TABLE "users" RENAME COLUMN "name" TO "full_name";`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func kinds(violations []*types.Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Kind)
	}
	return out
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	clean := writeFile(t, dir, "001_clean.sql", "SELECT 1;")
	rename := writeFile(t, dir, "002_rename.sql", renameMigration)
	broken := writeFile(t, dir, "003_broken.sql", "CREATE INVALID SYNTAX;")

	results, err := checkFiles(context.Background(), reviewer.New(), strings.NewReader(""), []string{clean, rename, broken}, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, clean, results[0].Path)
	assert.Empty(t, results[0].Violations)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, rename, results[1].Path)
	assert.Contains(t, kinds(results[1].Violations), "renaming-column")

	assert.Equal(t, broken, results[2].Path)
	assert.Error(t, results[2].Err)

	violations, failures := report.Count(results)
	assert.Positive(t, violations)
	assert.Equal(t, 1, failures)
}

func TestCheckFilesExclusions(t *testing.T) {
	path := writeFile(t, t.TempDir(), "001.sql", renameMigration)

	results, err := checkFiles(context.Background(), reviewer.New(), nil, []string{path}, []string{"renaming-column", "not-a-rule"})
	require.NoError(t, err)
	assert.NotContains(t, kinds(results[0].Violations), "renaming-column")
}

func TestCheckFilesStdin(t *testing.T) {
	results, err := checkFiles(context.Background(), reviewer.New(), strings.NewReader(renameMigration), []string{stdinPath, stdinPath}, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, renameMigration, r.Source)
		assert.Contains(t, kinds(r.Violations), "renaming-column")
	}
}

func TestCheckFilesMissingFile(t *testing.T) {
	_, err := checkFiles(context.Background(), reviewer.New(), nil, []string{filepath.Join(t.TempDir(), "missing.sql")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read SQL file")
}

func TestWriteRules(t *testing.T) {
	table := reviewer.New().Table()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRules(&buf, table, "json"))

		var out []struct {
			Name     string `json:"name"`
			Messages []struct {
				Kind string `json:"kind"`
				Text string `json:"text"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		require.Len(t, out, table.Len())
		assert.Equal(t, "require-concurrent-index-creation", out[0].Name)
		assert.Equal(t, "ban-char-field", out[len(out)-1].Name)
		for _, r := range out {
			assert.NotEmpty(t, r.Messages, r.Name)
		}
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRules(&buf, table, "table"))
		for _, r := range table.Rules() {
			assert.Contains(t, buf.String(), r.Kind.String())
		}
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeRules(&buf, table, "markdown"))
		assert.Contains(t, buf.String(), "| renaming-table |")
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, writeRules(&bytes.Buffer{}, table, "xml"))
	})
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "002_b.sql", "SELECT 1;")
	writeFile(t, dir, "001_a.sql", "SELECT 1;")
	writeFile(t, dir, "README.md", "docs")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.sql"), 0o700))

	paths, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "001_a.sql"), filepath.Join(dir, "002_b.sql")}, paths)

	_, err = migrationFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestWatchLinterCheck(t *testing.T) {
	path := writeFile(t, t.TempDir(), "001.sql", renameMigration)

	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	l := newWatchLinter(&buf, reviewer.New(), cfg)
	l.check(path)
	assert.Contains(t, buf.String(), path+":1:1: warning: renaming-column")

	buf.Reset()
	l.check(filepath.Join(t.TempDir(), "gone.sql"))
	assert.Empty(t, buf.String())
}

func TestExitError(t *testing.T) {
	assert.Equal(t, "exit status 2", (&ExitError{Code: 2}).Error())
}

func TestLoadConfigurationFromFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "yaml",
			file:    ".migration-linter.yaml",
			content: "excludedRules:\n  - renaming-column\noutput: json\nfailOnViolation: false\n",
		},
		{
			name:    "json",
			file:    ".migration-linter.json",
			content: `{"excludedRules": ["renaming-column"], "output": "json", "failOnViolation": false}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			bindCheckFlags(v, &cobra.Command{})
			v.SetConfigFile(writeFile(t, t.TempDir(), tc.file, tc.content))
			require.NoError(t, v.ReadInConfig())

			cfg, err := loadConfiguration(v)
			require.NoError(t, err)
			assert.Equal(t, []string{"renaming-column"}, cfg.ExcludedRules)
			assert.Equal(t, config.OutputJSON, cfg.Output)
			assert.False(t, cfg.FailOnViolation)
		})
	}
}

func TestLoadConfigurationFlagsOverrideFile(t *testing.T) {
	v := viper.New()
	c := &cobra.Command{}
	bindCheckFlags(v, c)
	v.SetConfigFile(writeFile(t, t.TempDir(), ".migration-linter.yaml", "excludedRules: [renaming-column]\nfailOnViolation: false\n"))
	require.NoError(t, v.ReadInConfig())

	require.NoError(t, c.Flags().Set("exclude", "ban-char-field,renaming-table"))
	require.NoError(t, c.Flags().Set("fail-on-violation", "true"))

	cfg, err := loadConfiguration(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"ban-char-field", "renaming-table"}, cfg.ExcludedRules)
	assert.True(t, cfg.FailOnViolation)
}

func TestLoadConfigurationDefaults(t *testing.T) {
	v := viper.New()
	bindCheckFlags(v, &cobra.Command{})

	cfg, err := loadConfiguration(v)
	require.NoError(t, err)
	assert.Empty(t, cfg.ExcludedRules)
	assert.Equal(t, config.OutputText, cfg.Output)
	assert.True(t, cfg.FailOnViolation)
}

func TestLoadConfigurationInvalidOutput(t *testing.T) {
	v := viper.New()
	bindCheckFlags(v, &cobra.Command{})
	v.Set("output", "xml")

	_, err := loadConfiguration(v)
	assert.Error(t, err)
}

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nsxbet/migration-linter/pkg/config"
	"github.com/nsxbet/migration-linter/pkg/logger"
	"github.com/nsxbet/migration-linter/pkg/report"
	"github.com/nsxbet/migration-linter/pkg/reviewer"
	"github.com/nsxbet/migration-linter/pkg/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <dir>",
	Short: "Re-check migrations whenever they change",
	Long: `Watch a directory and re-check every .sql file in it each time the
file is written. Existing migrations are checked once on start.
Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("debounce", 300*time.Millisecond, "quiet period before a changed file is re-checked")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	cfg, err := loadConfiguration(viper.GetViper())
	if err != nil {
		return err
	}
	warnUnknownRules(cfg)
	debounce, _ := cmd.Flags().GetDuration("debounce")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	existing, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	lint := newWatchLinter(cmd.OutOrStdout(), reviewer.New().WithConfigObject(cfg), cfg)
	for _, path := range existing {
		lint.check(path)
	}

	w := watcher.New(dir, lint.check, watcher.WithDebounce(debounce), watcher.WithLogger(appLogger))
	if err := w.Start(); err != nil {
		return err
	}
	slog.Info("Watching for migration changes", "dir", dir)

	<-ctx.Done()
	slog.Info("Stopping watcher")
	return w.Stop()
}

// migrationFiles returns the .sql files directly inside dir, sorted by name.
func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read directory: %s", dir)
	}
	var paths []string
	for _, e := range entries {
		if !e.IsDir() && watcher.IsMigrationFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// watchLinter checks single files and prints their text report.
type watchLinter struct {
	mu       sync.Mutex
	out      io.Writer
	reviewer *reviewer.Reviewer
	excluded []string
}

func newWatchLinter(out io.Writer, r *reviewer.Reviewer, cfg *config.Config) *watchLinter {
	return &watchLinter{out: out, reviewer: r, excluded: cfg.ExcludedRules}
}

func (l *watchLinter) check(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		// The file may have been removed between the event and the read.
		slog.Warn("Failed to read migration", "path", path, logger.Error(err))
		return
	}
	source := string(data)
	violations, err := l.reviewer.Check(source, l.excluded)

	l.mu.Lock()
	defer l.mu.Unlock()
	result := report.FileResult{Path: path, Source: source, Violations: violations, Err: err}
	if err := report.Write(l.out, config.OutputText, []report.FileResult{result}); err != nil {
		slog.Error("Failed to write report", logger.Error(err))
	}
}

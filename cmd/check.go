package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/nsxbet/migration-linter/pkg/config"
	"github.com/nsxbet/migration-linter/pkg/logger"
	"github.com/nsxbet/migration-linter/pkg/report"
	"github.com/nsxbet/migration-linter/pkg/reviewer"
)

// stdinPath is the file argument that reads the migration from standard input.
const stdinPath = "-"

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.sql>...",
	Short: "Check migration files for risky statements",
	Long: `Check PostgreSQL migration files against the lint rules.

Every file is parsed and checked independently. Use "-" to read a
migration from standard input. The command exits with status 1 when
violations are found and --fail-on-violation is set, and with status 2
when a file cannot be parsed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	bindCheckFlags(viper.GetViper(), checkCmd)
}

// bindCheckFlags defines the check flags on cmd and binds them to the keys
// used in the config file.
func bindCheckFlags(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().StringSliceP("exclude", "e", nil, "rule names to skip (repeatable, comma separated)")
	cmd.Flags().StringP("output", "o", config.OutputText, "output format (text, json, yaml, table)")
	cmd.Flags().Bool("fail-on-violation", true, "exit with non-zero code if violations are found")

	_ = v.BindPFlag("excludedRules", cmd.Flags().Lookup("exclude"))
	_ = v.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = v.BindPFlag("failOnViolation", cmd.Flags().Lookup("fail-on-violation"))
}

func runCheck(cmd *cobra.Command, args []string) error {
	slog.Debug("Starting check command", "args", args)

	cfg, err := loadConfiguration(viper.GetViper())
	if err != nil {
		return err
	}
	warnUnknownRules(cfg)

	results, err := checkFiles(cmd.Context(), reviewer.New().WithConfigObject(cfg), cmd.InOrStdin(), args, cfg.ExcludedRules)
	if err != nil {
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), cfg.Output, results); err != nil {
		return err
	}

	violations, failures := report.Count(results)
	slog.Debug("Check finished", "files", len(results), "violations", violations, "failures", failures)
	switch {
	case failures > 0:
		return &ExitError{Code: 2}
	case violations > 0 && cfg.FailOnViolation:
		return &ExitError{Code: 1}
	}
	return nil
}

// loadConfiguration merges the config file, environment and flags.
func loadConfiguration(v *viper.Viper) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// warnUnknownRules logs excluded names that match no rule. The engine
// ignores them, so a typo would otherwise go unnoticed.
func warnUnknownRules(cfg *config.Config) {
	if _, unknown := cfg.ExcludedKinds(); len(unknown) > 0 {
		slog.Warn("Ignoring unknown rules in exclude list", "rules", unknown)
	}
}

// checkFiles checks every path concurrently. Results keep the order of paths.
// A parse failure is recorded on its result; an unreadable file aborts the run.
func checkFiles(ctx context.Context, r *reviewer.Reviewer, stdin io.Reader, paths []string, excluded []string) ([]report.FileResult, error) {
	var stdinSource string
	for _, p := range paths {
		if p == stdinPath {
			data, err := io.ReadAll(stdin)
			if err != nil {
				return nil, errors.Wrap(err, "failed to read standard input")
			}
			stdinSource = string(data)
			break
		}
	}

	results := make([]report.FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			source := stdinSource
			if path != stdinPath {
				data, err := os.ReadFile(path)
				if err != nil {
					return errors.Wrapf(err, "failed to read SQL file: %s", path)
				}
				source = string(data)
			}

			violations, err := r.Check(source, excluded)
			if err != nil {
				slog.Debug("Failed to parse migration", "path", path, logger.Error(err))
			}
			results[i] = report.FileResult{
				Path:       path,
				Source:     source,
				Violations: violations,
				Err:        err,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

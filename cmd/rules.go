package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nsxbet/migration-linter/pkg/advisor"
	"github.com/nsxbet/migration-linter/pkg/reviewer"
	"github.com/nsxbet/migration-linter/pkg/types"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the lint rules",
	Long: `List every lint rule in evaluation order together with the notes
and help text attached to its violations. The rule names are the
values accepted by --exclude.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return writeRules(cmd.OutOrStdout(), reviewer.New().Table(), format)
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().StringP("format", "f", "table", "output format (table, markdown, json)")
}

type ruleOutput struct {
	Name     string          `json:"name"`
	Messages []types.Message `json:"messages"`
}

func writeRules(w io.Writer, rules *advisor.Table, format string) error {
	switch format {
	case "json":
		out := make([]ruleOutput, 0, rules.Len())
		for _, r := range rules.Rules() {
			out = append(out, ruleOutput{Name: r.Kind.String(), Messages: r.Messages})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "failed to encode rules")
	case "table", "markdown", "md":
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Rule", "Messages"})
		for _, r := range rules.Rules() {
			lines := make([]string, 0, len(r.Messages))
			for _, m := range r.Messages {
				lines = append(lines, m.Kind.String()+": "+m.Text)
			}
			sep := "\n"
			if format != "table" {
				sep = "<br>"
			}
			t.AppendRow(table.Row{r.Kind.String(), strings.Join(lines, sep)})
		}
		if format == "table" {
			t.Render()
		} else {
			t.RenderMarkdown()
		}
		return nil
	default:
		return errors.Errorf("unsupported format: %s", format)
	}
}

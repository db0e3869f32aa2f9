// Package report renders lint results for humans and machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nsxbet/migration-linter/pkg/config"
	"github.com/nsxbet/migration-linter/pkg/pgparser"
	"github.com/nsxbet/migration-linter/pkg/types"
)

// FileResult is the outcome of checking one source file.
type FileResult struct {
	Path       string
	Source     string
	Violations []*types.Violation
	// Err is set when the file could not be checked, typically a *pgparser.SyntaxError.
	Err error
}

// Location of a violation, 1-based.
type Location struct {
	Line   int32 `json:"line"   yaml:"line"`
	Column int32 `json:"column" yaml:"column"`
}

type violationOutput struct {
	Kind      string          `json:"kind"      yaml:"kind"`
	Span      types.Span      `json:"span"      yaml:"span"`
	Location  Location        `json:"location"  yaml:"location"`
	Statement string          `json:"statement" yaml:"statement"`
	Messages  []types.Message `json:"messages"  yaml:"messages"`
}

type errorOutput struct {
	Message  string    `json:"message"            yaml:"message"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

type fileOutput struct {
	File       string            `json:"file"            yaml:"file"`
	Violations []violationOutput `json:"violations"      yaml:"violations"`
	Error      *errorOutput      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Write renders results in the given format.
func Write(w io.Writer, format string, results []FileResult) error {
	switch format {
	case config.OutputText, "":
		return writeText(w, results)
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return pkgerrors.Wrap(enc.Encode(toOutput(results)), "failed to encode json report")
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toOutput(results)); err != nil {
			return pkgerrors.Wrap(err, "failed to encode yaml report")
		}
		return pkgerrors.Wrap(enc.Close(), "failed to encode yaml report")
	case config.OutputTable:
		return writeTable(w, results)
	default:
		return pkgerrors.Errorf("unsupported output format %q", format)
	}
}

// Count returns the number of violations and failed files.
func Count(results []FileResult) (violations, failures int) {
	for _, r := range results {
		violations += len(r.Violations)
		if r.Err != nil {
			failures++
		}
	}
	return violations, failures
}

func locate(source string, offset int) Location {
	pos := types.PositionOf(source, offset)
	return Location{Line: pos.Line, Column: pos.Column}
}

func errorLocation(r FileResult) *Location {
	var syntaxErr *pgparser.SyntaxError
	if !errors.As(r.Err, &syntaxErr) {
		return nil
	}
	if syntaxErr.Offset >= 0 {
		loc := locate(r.Source, syntaxErr.Offset)
		return &loc
	}
	if syntaxErr.Position != nil {
		// ANTLR columns are 0-based.
		return &Location{Line: syntaxErr.Position.Line, Column: syntaxErr.Position.Column + 1}
	}
	return nil
}

func errorMessage(err error) string {
	var syntaxErr *pgparser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Message
	}
	return err.Error()
}

func toOutput(results []FileResult) []fileOutput {
	out := make([]fileOutput, 0, len(results))
	for _, r := range results {
		fo := fileOutput{
			File:       r.Path,
			Violations: make([]violationOutput, 0, len(r.Violations)),
		}
		for _, v := range r.Violations {
			messages := v.Messages
			if messages == nil {
				messages = []types.Message{}
			}
			fo.Violations = append(fo.Violations, violationOutput{
				Kind:      v.Kind,
				Span:      v.Span,
				Location:  locate(r.Source, v.Span.Start),
				Statement: v.Span.Text(r.Source),
				Messages:  messages,
			})
		}
		if r.Err != nil {
			fo.Error = &errorOutput{Message: errorMessage(r.Err), Location: errorLocation(r)}
		}
		out = append(out, fo)
	}
	return out
}

func writeText(w io.Writer, results []FileResult) error {
	var b strings.Builder
	for _, r := range results {
		if r.Err != nil {
			if loc := errorLocation(r); loc != nil {
				fmt.Fprintf(&b, "%s:%d:%d: error: %s\n\n", r.Path, loc.Line, loc.Column, errorMessage(r.Err))
			} else {
				fmt.Fprintf(&b, "%s: error: %s\n\n", r.Path, errorMessage(r.Err))
			}
			continue
		}
		for _, v := range r.Violations {
			loc := locate(r.Source, v.Span.Start)
			fmt.Fprintf(&b, "%s:%d:%d: warning: %s\n\n", r.Path, loc.Line, loc.Column, v.Kind)
			for _, line := range strings.Split(NormalizeStatement(v.Span.Text(r.Source)), "\n") {
				fmt.Fprintf(&b, "   %s\n", line)
			}
			b.WriteString("\n")
			for _, m := range v.Messages {
				fmt.Fprintf(&b, "  %s: %s\n", m.Kind, m.Text)
			}
			b.WriteString("\n")
		}
	}

	violations, failures := Count(results)
	fmt.Fprintf(&b, "Found %d %s in %d %s", violations, plural(violations, "violation"), len(results), plural(len(results), "file"))
	if failures > 0 {
		fmt.Fprintf(&b, ", %d %s could not be parsed", failures, plural(failures, "file"))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return pkgerrors.Wrap(err, "failed to write report")
}

func writeTable(w io.Writer, results []FileResult) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Line", "Column", "Rule", "Statement"})

	for _, r := range results {
		if r.Err != nil {
			line, column := "", ""
			if loc := errorLocation(r); loc != nil {
				line, column = fmt.Sprint(loc.Line), fmt.Sprint(loc.Column)
			}
			t.AppendRow(table.Row{r.Path, line, column, "syntax-error", singleLine(errorMessage(r.Err), 60)})
			continue
		}
		for _, v := range r.Violations {
			loc := locate(r.Source, v.Span.Start)
			t.AppendRow(table.Row{r.Path, loc.Line, loc.Column, v.Kind, singleLine(v.Span.Text(r.Source), 60)})
		}
	}

	violations, _ := Count(results)
	t.AppendFooter(table.Row{"", "", "", "Total", violations})
	t.Render()
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

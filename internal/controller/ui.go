// Package controller provides output adapters for displaying module file
// diagnostics, imports and declarations.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "modc.dev/pkg/modc/internal/model"
	"modc.dev/pkg/modc/internal/toplevels"
)

// Format selects how results are rendered.
type Format string

// Supported output formats.
const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
)

// ParseFormat maps a user supplied format name to a Format, defaulting to
// FormatTable for unknown names.
func ParseFormat(name string) Format {
	switch Format(name) {
	case FormatYAML:
		return FormatYAML
	case FormatJSON:
		return FormatJSON
	default:
		return FormatTable
	}
}

// UI displays the results of the workflow.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayCheckResults(ctx context.Context, results []m.CheckResult) error
	DisplayImports(ctx context.Context, results []m.CheckResult) error
	DisplayDeclarations(ctx context.Context, path m.Path, decls *toplevels.Declarations) error
}

// NewUI picks the interactive UI when writing tables to a terminal and the
// simple UI otherwise.
func NewUI(cmd *cobra.Command, format Format, isTTY bool) UI {
	simple := NewSimpleUI(cmd, format)
	if isTTY && format == FormatTable {
		return NewTUI(cmd.OutOrStdout(), simple)
	}

	return simple
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

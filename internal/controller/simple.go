package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "modc.dev/pkg/modc/internal/model"
	"modc.dev/pkg/modc/internal/toplevels"
)

const (
	statusOK  = "ok"
	statusBad = "FAILED"
)

var (
	errorLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	faintStyle      = lipgloss.NewStyle().Faint(true)
)

// SimpleUI writes plain output to the command's stdout.
type SimpleUI struct {
	cmd    *cobra.Command
	format Format
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command, format Format) *SimpleUI {
	return &SimpleUI{cmd: cmd, format: format}
}

type fileReport struct {
	Path        string                 `json:"path" yaml:"path"`
	OK          bool                   `json:"ok" yaml:"ok"`
	Error       string                 `json:"error,omitempty" yaml:"error,omitempty"`
	Imports     []m.DirectiveStatement `json:"imports,omitempty" yaml:"imports,omitempty"`
	Diagnostics []string               `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

type importRow struct {
	Path     string     `json:"path" yaml:"path"`
	Label    string     `json:"label" yaml:"label"`
	Location m.Location `json:"location" yaml:"location"`
}

// DisplayCheckResults prints every diagnostic followed by a per-file summary.
func (s *SimpleUI) DisplayCheckResults(ctx context.Context, results []m.CheckResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.format != FormatTable {
		return s.encode(buildFileReports(results))
	}

	return s.print(RenderCheckResults(results))
}

// DisplayImports prints every module_import directive of every file.
func (s *SimpleUI) DisplayImports(ctx context.Context, results []m.CheckResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.format != FormatTable {
		return s.encode(buildImportRows(results))
	}

	return s.print(RenderImports(results))
}

// DisplayDeclarations prints what a module file declared when it ran.
func (s *SimpleUI) DisplayDeclarations(ctx context.Context, path m.Path, decls *toplevels.Declarations) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.format != FormatTable {
		return s.encode(decls)
	}

	return s.print(renderDeclarations(path, decls))
}

// RenderCheckResults renders diagnostics and the summary table as text.
func RenderCheckResults(results []m.CheckResult) string {
	var b bytes.Buffer

	for _, result := range results {
		for _, event := range result.Events {
			writeEvent(&b, event)
		}

		if result.Err != nil && len(result.Events) == 0 {
			fmt.Fprintf(&b, "%s %s: %v\n", errorLabelStyle.Render(m.EventError.String()), result.Path, result.Err)
		}
	}

	table, buf := newTable()
	table.SetHeader([]string{"Path", "Status", "Imports", "Diagnostics"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	failed := 0

	for _, result := range results {
		status := statusOK
		if !result.OK() {
			status = statusBad
			failed++
		}

		table.Append([]string{
			string(result.Path),
			status,
			strconv.Itoa(len(result.Imports)),
			strconv.Itoa(len(result.Events)),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(results)),
		fmt.Sprintf("Failed %d", failed),
		"",
		"",
	})
	table.Render()

	b.WriteString("\n")
	b.Write(buf.Bytes())

	return b.String()
}

// RenderImports renders the imports of every file as a table.
func RenderImports(results []m.CheckResult) string {
	table, buf := newTable()
	table.SetHeader([]string{"Path", "Label", "Location"})

	rows := buildImportRows(results)
	for _, row := range rows {
		table.Append([]string{row.Path, strconv.Quote(row.Label), fmt.Sprintf("%d:%d", row.Location.Line, row.Location.Column)})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Files %d", len(results)), fmt.Sprintf("Imports %d", len(rows)), ""})
	table.Render()

	return buf.String()
}

func renderDeclarations(path m.Path, decls *toplevels.Declarations) string {
	var b bytes.Buffer

	fmt.Fprintf(&b, "%s: module %s\n", path, decls.Key())

	if len(decls.Deps) == 0 {
		b.WriteString(faintStyle.Render("no bazel_dep declarations") + "\n")
		return b.String()
	}

	table, buf := newTable()
	table.SetHeader([]string{"Dependency", "Version", "Dev", "Location"})

	for _, dep := range decls.Deps {
		table.Append([]string{dep.Name, dep.Version, strconv.FormatBool(dep.DevDependency), dep.Location.String()})
	}

	table.Render()
	b.Write(buf.Bytes())

	return b.String()
}

func writeEvent(w io.Writer, event m.Event) {
	label := event.Kind.String()
	if event.Kind == m.EventError {
		label = errorLabelStyle.Render(label)
	}

	_, _ = fmt.Fprintf(w, "%s %s: %s\n", label, event.Location, event.Message)
}

func newTable() (*tablewriter.Table, *bytes.Buffer) {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	return table, &buf
}

func buildFileReports(results []m.CheckResult) []fileReport {
	reports := make([]fileReport, 0, len(results))

	for _, result := range results {
		report := fileReport{
			Path:    string(result.Path),
			OK:      result.OK(),
			Imports: result.Imports,
		}

		if result.Err != nil {
			report.Error = result.Err.Error()
		}

		for _, event := range result.Events {
			report.Diagnostics = append(report.Diagnostics, event.String())
		}

		reports = append(reports, report)
	}

	return reports
}

func buildImportRows(results []m.CheckResult) []importRow {
	rows := []importRow{}

	for _, result := range results {
		for _, imp := range result.Imports {
			rows = append(rows, importRow{Path: string(result.Path), Label: imp.Label, Location: imp.Location})
		}
	}

	return rows
}

func (s *SimpleUI) encode(v any) error {
	switch s.format {
	case FormatJSON:
		enc := json.NewEncoder(s.cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(s.cmd.OutOrStdout())
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	case FormatTable:
	}

	return fmt.Errorf("unsupported format %q", s.format)
}

func (s *SimpleUI) print(text string) error {
	_, err := io.WriteString(s.cmd.OutOrStdout(), text)
	return err
}

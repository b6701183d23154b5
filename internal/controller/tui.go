package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "modc.dev/pkg/modc/internal/model"
	"modc.dev/pkg/modc/internal/toplevels"
)

// header + blank line + footer
const reservedLines = 4

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TUI implements UI using Bubble Tea for interactive display.
// Output that fits the terminal is printed directly; longer output is paged.
type TUI struct {
	output io.Writer
	simple *SimpleUI
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer, simple *SimpleUI) *TUI {
	return &TUI{output: output, simple: simple}
}

// DisplayCheckResults shows diagnostics and the per-file summary.
func (p *TUI) DisplayCheckResults(ctx context.Context, results []m.CheckResult) error {
	return p.page(ctx, fmt.Sprintf("modc check: %d module file(s)", len(results)), RenderCheckResults(results))
}

// DisplayImports shows every module_import directive.
func (p *TUI) DisplayImports(ctx context.Context, results []m.CheckResult) error {
	return p.page(ctx, fmt.Sprintf("modc imports: %d module file(s)", len(results)), RenderImports(results))
}

// DisplayDeclarations is always short enough to print without paging.
func (p *TUI) DisplayDeclarations(ctx context.Context, path m.Path, decls *toplevels.Declarations) error {
	return p.simple.DisplayDeclarations(ctx, path, decls)
}

func (p *TUI) page(ctx context.Context, title, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newPagerModel(title, content)

	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model = model.resize(width, height)
		}
	}

	if !model.needsPagination() {
		_, err := io.WriteString(p.output, content)
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// pagerModel is the Bubble Tea model scrolling rendered output.
type pagerModel struct {
	title    string
	content  string
	lines    int
	viewport viewport.Model
	ready    bool
	quitting bool
}

func newPagerModel(title, content string) pagerModel {
	return pagerModel{
		title:   title,
		content: content,
		lines:   strings.Count(content, "\n"),
	}
}

func (pm pagerModel) resize(width, height int) pagerModel {
	bodyHeight := height - reservedLines
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	if !pm.ready {
		pm.viewport = viewport.New(width, bodyHeight)
		pm.viewport.SetContent(pm.content)
		pm.ready = true

		return pm
	}

	pm.viewport.Width = width
	pm.viewport.Height = bodyHeight

	return pm
}

// needsPagination returns true if the content does not fit the terminal.
func (pm pagerModel) needsPagination() bool {
	return pm.ready && pm.lines > pm.viewport.Height
}

func (pm pagerModel) Init() tea.Cmd {
	return nil
}

func (pm pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return pm.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			pm.quitting = true
			return pm, tea.Quit
		case "g", "home":
			pm.viewport.GotoTop()
			return pm, nil
		case "G", "end":
			pm.viewport.GotoBottom()
			return pm, nil
		}
	}

	var cmd tea.Cmd

	pm.viewport, cmd = pm.viewport.Update(msg)

	return pm, cmd
}

func (pm pagerModel) View() string {
	if pm.quitting {
		return ""
	}

	if !pm.ready {
		return pm.content
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(pm.title))
	b.WriteString("\n\n")
	b.WriteString(pm.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%% | ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit", pm.viewport.ScrollPercent()*100)))

	return b.String()
}

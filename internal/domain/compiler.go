// Package domain contains the module file compiler and the workflows built
// on top of it.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"modc.dev/pkg/modc/internal/adapter"
	"modc.dev/pkg/modc/internal/domain/syntaxcheck"
	m "modc.dev/pkg/modc/internal/model"
)

// Compiler turns module files into CompiledModuleFiles.
type Compiler interface {
	// Compile parses file, checks it against the module file rules and
	// compiles it against a fresh copy of toplevels. Diagnostics are replayed
	// on events; the returned error is a *ModuleFileError.
	Compile(file m.ModuleFile, key m.ModuleKey, toplevels starlark.StringDict, events adapter.EventHandler) (*CompiledModuleFile, error)
}

type compiler struct {
	host adapter.StarlarkAdapter
}

// NewCompiler creates a Compiler backed by the given host language adapter.
func NewCompiler(host adapter.StarlarkAdapter) Compiler {
	return &compiler{host: host}
}

func (c *compiler) Compile(file m.ModuleFile, key m.ModuleKey, toplevels starlark.StringDict, events adapter.EventHandler) (*CompiledModuleFile, error) {
	if c.host == nil {
		return nil, fmt.Errorf("missing host adapter")
	}

	f, err := c.host.Parse(file.Location, file.Content)
	if err != nil {
		slog.Debug("Failed to parse module file", "location", file.Location, "module", key, "error", err)
		replay(events, err)

		return nil, &ModuleFileError{
			Kind:   KindMalformed,
			Module: key.String(),
			Msg:    fmt.Sprintf("error parsing module file for %s", key),
		}
	}

	imports, err := CheckModuleFileSyntax(f)
	if err != nil {
		return nil, c.syntaxError(file, key, events, err)
	}

	predeclared := maps.Clone(toplevels)
	if predeclared == nil {
		predeclared = starlark.StringDict{}
	}

	program, err := c.host.Compile(f, predeclared)
	if err != nil {
		return nil, c.syntaxError(file, key, events, err)
	}

	slog.Debug("Compiled module file", "location", file.Location, "module", key, "imports", len(imports))

	return &CompiledModuleFile{
		moduleFile:  file,
		program:     program,
		predeclared: predeclared,
		imports:     imports,
		host:        c.host,
	}, nil
}

func (c *compiler) syntaxError(file m.ModuleFile, key m.ModuleKey, events adapter.EventHandler, err error) error {
	slog.Debug("Module file failed syntax check", "location", file.Location, "module", key, "error", err)
	replay(events, err)

	return &ModuleFileError{
		Kind:   KindSyntax,
		Module: key.String(),
		Msg:    fmt.Sprintf("syntax error in module file for %s", key),
	}
}

// replay forwards every positioned error behind err to events, verbatim.
func replay(events adapter.EventHandler, err error) {
	if events == nil {
		return
	}

	for _, event := range eventsFromError(err) {
		events.Handle(event)
	}
}

func eventsFromError(err error) []m.Event {
	var (
		checkErrs   syntaxcheck.ErrorList
		resolveErrs resolve.ErrorList
		syntaxErr   syntax.Error
	)

	switch {
	case errors.As(err, &checkErrs):
		events := make([]m.Event, 0, len(checkErrs))
		for _, e := range checkErrs {
			events = append(events, errorEvent(e.Pos, e.Msg))
		}

		return events
	case errors.As(err, &resolveErrs):
		events := make([]m.Event, 0, len(resolveErrs))
		for _, e := range resolveErrs {
			events = append(events, errorEvent(e.Pos, e.Msg))
		}

		return events
	case errors.As(err, &syntaxErr):
		return []m.Event{errorEvent(syntaxErr.Pos, syntaxErr.Msg)}
	default:
		return []m.Event{{Kind: m.EventError, Message: err.Error()}}
	}
}

func errorEvent(pos syntax.Position, msg string) m.Event {
	return m.Event{Kind: m.EventError, Location: locationOf(pos), Message: msg}
}

// CompiledModuleFile is a module file that passed the syntax checks and was
// compiled. It is immutable; use NewCompiler to build one.
type CompiledModuleFile struct {
	moduleFile  m.ModuleFile
	program     *starlark.Program
	predeclared starlark.StringDict
	imports     []m.DirectiveStatement
	host        adapter.StarlarkAdapter
}

// ModuleFile returns the source the program was compiled from.
func (c *CompiledModuleFile) ModuleFile() m.ModuleFile {
	return c.moduleFile
}

// Program returns the compiled program.
func (c *CompiledModuleFile) Program() *starlark.Program {
	return c.program
}

// Predeclared returns a copy of the environment the program was compiled
// against.
func (c *CompiledModuleFile) Predeclared() starlark.StringDict {
	return maps.Clone(c.predeclared)
}

// Imports returns the module_import directives in source order.
func (c *CompiledModuleFile) Imports() []m.DirectiveStatement {
	return slices.Clone(c.imports)
}

// Run executes the program on thread. Evaluation errors and cancellation
// are returned exactly as the interpreter reports them.
func (c *CompiledModuleFile) Run(thread *starlark.Thread) error {
	_, err := c.host.Exec(thread, c.program, c.predeclared)
	return err
}

// RunContext is Run with thread cancellation tied to ctx.
func (c *CompiledModuleFile) RunContext(ctx context.Context, thread *starlark.Thread) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	return c.Run(thread)
}

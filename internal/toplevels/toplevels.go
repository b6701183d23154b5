// Package toplevels provides the default predeclared bindings for module
// files: the module_import directive, the module and bazel_dep declarations,
// and the json, math and time modules.
package toplevels

import (
	"fmt"
	"log/slog"
	"maps"

	starlarkjson "go.starlark.net/lib/json"
	starlarkmath "go.starlark.net/lib/math"
	starlarktime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"

	m "modc.dev/pkg/modc/internal/model"
)

const (
	moduleName   = "module"
	bazelDepName = "bazel_dep"

	namespaceJSON = "json"
	namespaceMath = "math"
	namespaceTime = "time"

	declarationsKey = "modc.declarations"
)

var defaults = starlark.StringDict{
	m.ImportDirective: starlark.NewBuiltin(m.ImportDirective, moduleImport),
	moduleName:        starlark.NewBuiltin(moduleName, module),
	bazelDepName:      starlark.NewBuiltin(bazelDepName, bazelDep),
	namespaceJSON:     starlarkjson.Module,
	namespaceMath:     starlarkmath.Module,
	namespaceTime:     starlarktime.Module,
}

// Default returns a fresh copy of the default binding table. Callers may
// modify the result without affecting other compilations.
func Default() starlark.StringDict {
	return maps.Clone(defaults)
}

// NewThread returns a thread that records module and bazel_dep calls into the
// returned Declarations. print() output goes to the structured logger.
func NewThread(name string) (*starlark.Thread, *Declarations) {
	decls := &Declarations{}

	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			slog.Info(msg, "thread", name)
		},
	}
	thread.SetLocal(declarationsKey, decls)

	return thread, decls
}

func declarationsFrom(thread *starlark.Thread, fn string) (*Declarations, error) {
	decls, ok := thread.Local(declarationsKey).(*Declarations)
	if !ok {
		return nil, fmt.Errorf("%s: can only be called while evaluating a module file", fn)
	}

	return decls, nil
}

func callerLocation(thread *starlark.Thread) m.Location {
	pos := thread.CallFrame(1).Pos

	return m.Location{
		File:   pos.Filename(),
		Line:   int(pos.Line),
		Column: int(pos.Col),
	}
}

// moduleImport is a no-op at evaluation time: imports are extracted from the
// syntax tree before the file runs.
func moduleImport(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var label string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &label); err != nil {
		return nil, err
	}

	return starlark.None, nil
}

func module(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var decl ModuleDecl

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name?", &decl.Name,
		"version?", &decl.Version,
		"compatibility_level?", &decl.CompatibilityLevel,
	); err != nil {
		return nil, err
	}

	decls, err := declarationsFrom(thread, b.Name())
	if err != nil {
		return nil, err
	}

	if decls.Module != nil {
		return nil, fmt.Errorf("%s: the module() directive can only be called once", b.Name())
	}

	if len(decls.Deps) > 0 {
		return nil, fmt.Errorf("%s: if module() is called, it must be called before any other functions", b.Name())
	}

	decl.Location = callerLocation(thread)
	decls.Module = &decl

	return starlark.None, nil
}

func bazelDep(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var dep Dependency

	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"name", &dep.Name,
		"version?", &dep.Version,
		"dev_dependency?", &dep.DevDependency,
	); err != nil {
		return nil, err
	}

	if dep.Name == "" {
		return nil, fmt.Errorf("%s: name must not be empty", b.Name())
	}

	decls, err := declarationsFrom(thread, b.Name())
	if err != nil {
		return nil, err
	}

	for _, existing := range decls.Deps {
		if existing.Name == dep.Name {
			return nil, fmt.Errorf("%s: a bazel_dep with the name %q already exists (at %s)", b.Name(), dep.Name, existing.Location)
		}
	}

	dep.Location = callerLocation(thread)
	decls.Deps = append(decls.Deps, dep)

	return starlark.None, nil
}

package adapter

import (
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// StarlarkAdapter wraps the host language so the domain layer never calls
// the parser, resolver or interpreter directly.
type StarlarkAdapter interface {
	// Parse turns source text into a syntax tree. Errors are syntax.Error values.
	Parse(filename string, src []byte) (*syntax.File, error)

	// Compile resolves the tree against the predeclared names and produces an
	// executable program. Resolution errors are returned as resolve.ErrorList.
	Compile(file *syntax.File, predeclared starlark.StringDict) (*starlark.Program, error)

	// Exec runs a compiled program on thread and returns its globals.
	Exec(thread *starlark.Thread, program *starlark.Program, predeclared starlark.StringDict) (starlark.StringDict, error)
}

// LocalStarlarkAdapter is the StarlarkAdapter backed by go.starlark.net.
type LocalStarlarkAdapter struct {
	options *syntax.FileOptions
}

// NewLocalStarlarkAdapter returns an adapter for the module file dialect. The
// set builtin is resolvable; top-level control flow and while loops are left
// to the resolver and the module file checker.
func NewLocalStarlarkAdapter() *LocalStarlarkAdapter {
	return &LocalStarlarkAdapter{
		options: &syntax.FileOptions{Set: true},
	}
}

// Parse parses src as a Starlark file named filename.
func (a *LocalStarlarkAdapter) Parse(filename string, src []byte) (*syntax.File, error) {
	return a.options.Parse(filename, src, 0)
}

// Compile resolves file and compiles it into a program.
func (a *LocalStarlarkAdapter) Compile(file *syntax.File, predeclared starlark.StringDict) (*starlark.Program, error) {
	return starlark.FileProgram(file, predeclared.Has)
}

// Exec initializes program on thread. Errors come back as produced by the
// interpreter.
func (a *LocalStarlarkAdapter) Exec(thread *starlark.Thread, program *starlark.Program, predeclared starlark.StringDict) (starlark.StringDict, error) {
	return program.Init(thread, predeclared)
}

package toplevels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	m "modc.dev/pkg/modc/internal/model"
)

func exec(t *testing.T, src string) (*Declarations, error) {
	t.Helper()

	thread, decls := NewThread("test")
	_, err := starlark.ExecFileOptions(&syntax.FileOptions{Set: true}, thread, "MODULE.bazel", src, Default())

	return decls, err
}

func TestDefault_ReturnsFreshCopy(t *testing.T) {
	first := Default()
	first["extra"] = starlark.None
	delete(first, m.ImportDirective)

	second := Default()
	assert.False(t, second.Has("extra"))
	assert.True(t, second.Has(m.ImportDirective))

	for _, name := range []string{m.ImportDirective, "module", "bazel_dep", "json", "math", "time"} {
		assert.True(t, second.Has(name), name)
	}
}

func TestModuleImport_IsNoOp(t *testing.T) {
	decls, err := exec(t, "module_import(\"//a:MODULE.bazel\")\n")
	require.NoError(t, err)
	assert.Nil(t, decls.Module)
	assert.Empty(t, decls.Deps)
}

func TestModuleImport_RequiresString(t *testing.T) {
	_, err := exec(t, "module_import(1)\n")
	require.Error(t, err)
}

func TestModuleAndDeps(t *testing.T) {
	decls, err := exec(t, `module(name = "foo", version = "1.0", compatibility_level = 2)
bazel_dep(name = "bar", version = "2.0")
bazel_dep(name = "baz", dev_dependency = True)
`)
	require.NoError(t, err)

	require.NotNil(t, decls.Module)
	assert.Equal(t, "foo", decls.Module.Name)
	assert.Equal(t, 2, decls.Module.CompatibilityLevel)
	assert.Equal(t, m.Location{File: "MODULE.bazel", Line: 1, Column: 7}, decls.Module.Location)
	assert.Equal(t, m.ModuleKey{Name: "foo", Version: "1.0"}, decls.Key())

	require.Len(t, decls.Deps, 2)
	assert.Equal(t, Dependency{
		Name:     "bar",
		Version:  "2.0",
		Location: m.Location{File: "MODULE.bazel", Line: 2, Column: 10},
	}, decls.Deps[0])
	assert.True(t, decls.Deps[1].DevDependency)
}

func TestDeclarationErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"module twice", "module(name = 'a')\nmodule(name = 'b')\n", "can only be called once"},
		{"module after dep", "bazel_dep(name = 'a')\nmodule(name = 'b')\n", "must be called before any other functions"},
		{"duplicate dep", "bazel_dep(name = 'a')\nbazel_dep(name = 'a')\n", `a bazel_dep with the name "a" already exists (at MODULE.bazel:1:10)`},
		{"empty dep name", "bazel_dep(name = '')\n", "name must not be empty"},
		{"missing dep name", "bazel_dep()\n", "missing argument for name"},
		{"unknown keyword", "module(nmae = 'a')\n", "unexpected keyword argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exec(t, tt.src)
			require.Error(t, err)

			var evalErr *starlark.EvalError
			require.ErrorAs(t, err, &evalErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDeclarations_RequireThread(t *testing.T) {
	thread := &starlark.Thread{Name: "bare"}
	_, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, "MODULE.bazel", "module(name = 'a')\n", Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can only be called while evaluating a module file")
}

func TestDeclarations_Key(t *testing.T) {
	var nilDecls *Declarations
	assert.Equal(t, m.RootModuleKey, nilDecls.Key())
	assert.Equal(t, m.RootModuleKey, (&Declarations{}).Key())
}

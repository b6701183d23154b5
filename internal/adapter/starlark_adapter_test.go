package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

func TestLocalStarlarkAdapter_Parse(t *testing.T) {
	adapter := NewLocalStarlarkAdapter()

	t.Run("valid source", func(t *testing.T) {
		f, err := adapter.Parse("MODULE.bazel", []byte("x = [1, 2]\n"))
		require.NoError(t, err)
		assert.Equal(t, "MODULE.bazel", f.Path)
		assert.Len(t, f.Stmts, 1)
	})

	t.Run("grammar error", func(t *testing.T) {
		_, err := adapter.Parse("MODULE.bazel", []byte("x = (\n"))
		require.Error(t, err)

		var syntaxErr syntax.Error
		require.ErrorAs(t, err, &syntaxErr)
		assert.Equal(t, "MODULE.bazel", syntaxErr.Pos.Filename())
	})
}

func TestLocalStarlarkAdapter_CompileAndExec(t *testing.T) {
	adapter := NewLocalStarlarkAdapter()
	predeclared := starlark.StringDict{"answer": starlark.MakeInt(42)}

	f, err := adapter.Parse("MODULE.bazel", []byte("x = answer + 1\n"))
	require.NoError(t, err)

	program, err := adapter.Compile(f, predeclared)
	require.NoError(t, err)

	globals, err := adapter.Exec(&starlark.Thread{Name: "test"}, program, predeclared)
	require.NoError(t, err)
	assert.Equal(t, starlark.MakeInt(43), globals["x"])
}

func TestLocalStarlarkAdapter_SetBuiltin(t *testing.T) {
	adapter := NewLocalStarlarkAdapter()

	f, err := adapter.Parse("MODULE.bazel", []byte("x = set([1, 2, 2])\n"))
	require.NoError(t, err)

	program, err := adapter.Compile(f, starlark.StringDict{})
	require.NoError(t, err)

	globals, err := adapter.Exec(&starlark.Thread{Name: "test"}, program, starlark.StringDict{})
	require.NoError(t, err)

	set, ok := globals["x"].(*starlark.Set)
	require.True(t, ok)
	assert.Equal(t, 2, set.Len())
}

func TestLocalStarlarkAdapter_CompileUndefinedName(t *testing.T) {
	adapter := NewLocalStarlarkAdapter()

	f, err := adapter.Parse("MODULE.bazel", []byte("x = missing\n"))
	require.NoError(t, err)

	_, err = adapter.Compile(f, starlark.StringDict{})
	require.Error(t, err)

	var list resolve.ErrorList
	require.ErrorAs(t, err, &list)
	assert.Contains(t, list[0].Msg, "undefined: missing")
}

func TestLocalStarlarkAdapter_ExecError(t *testing.T) {
	adapter := NewLocalStarlarkAdapter()

	f, err := adapter.Parse("MODULE.bazel", []byte("x = 1 // 0\n"))
	require.NoError(t, err)

	program, err := adapter.Compile(f, nil)
	require.NoError(t, err)

	_, err = adapter.Exec(&starlark.Thread{Name: "test"}, program, nil)
	require.Error(t, err)

	var evalErr *starlark.EvalError
	assert.ErrorAs(t, err, &evalErr)
}

package domain

import (
	"go.starlark.net/syntax"

	"modc.dev/pkg/modc/internal/domain/syntaxcheck"
	m "modc.dev/pkg/modc/internal/model"
)

const moduleFilesDescription = "module files"

const (
	malformedDirectiveMsg = "the `" + m.ImportDirective + "` directive MUST be called with exactly one " +
		"positional argument that is a string literal"
	misplacedDirectiveMsg = "the `" + m.ImportDirective + "` directive MUST be called directly at the top level"
)

// CheckModuleFileSyntax enforces the module file subset on f and returns the
// module_import directives it contains, in source order. On failure the error
// is a syntaxcheck.ErrorList holding every violation and no directives are
// returned.
func CheckModuleFileSyntax(f *syntax.File) ([]m.DirectiveStatement, error) {
	hooks := &directiveHooks{}

	if err := syntaxcheck.New(moduleFilesDescription, false, hooks).Check(f); err != nil {
		return nil, err
	}

	return hooks.imports, nil
}

type directiveHooks struct {
	imports []m.DirectiveStatement
}

// Statement recognizes `module_import("label")` statements. Control flow and
// definitions are rejected by the checker, so any expression statement seen
// here sits at the top level.
func (h *directiveHooks) Statement(c *syntaxcheck.Checker, stmt syntax.Stmt) syntaxcheck.Visit {
	exprStmt, ok := stmt.(*syntax.ExprStmt)
	if !ok {
		return syntaxcheck.Descend
	}

	call, ok := exprStmt.X.(*syntax.CallExpr)
	if !ok {
		return syntaxcheck.Descend
	}

	fn, ok := call.Fn.(*syntax.Ident)
	if !ok || fn.Name != m.ImportDirective {
		return syntaxcheck.Descend
	}

	label, ok := directiveLabel(call)
	if !ok {
		start, _ := stmt.Span()
		c.Errorf(start, malformedDirectiveMsg)

		return syntaxcheck.Skip
	}

	start, _ := call.Span()
	h.imports = append(h.imports, m.DirectiveStatement{
		Label:    label,
		Location: locationOf(start),
	})

	return syntaxcheck.Skip
}

// Identifier fires for every mention of the directive name the Statement hook
// did not consume.
func (h *directiveHooks) Identifier(c *syntaxcheck.Checker, id *syntax.Ident) {
	if id.Name == m.ImportDirective {
		c.Errorf(id.NamePos, misplacedDirectiveMsg)
	}
}

// directiveLabel returns the value of the sole positional string literal
// argument of call. Keyword and star arguments are never literals.
func directiveLabel(call *syntax.CallExpr) (string, bool) {
	if len(call.Args) != 1 {
		return "", false
	}

	arg := call.Args[0]

	for {
		paren, ok := arg.(*syntax.ParenExpr)
		if !ok {
			break
		}

		arg = paren.X
	}

	lit, ok := arg.(*syntax.Literal)
	if !ok || lit.Token != syntax.STRING {
		return "", false
	}

	label, ok := lit.Value.(string)

	return label, ok
}

func locationOf(pos syntax.Position) m.Location {
	return m.Location{
		File:   pos.Filename(),
		Line:   int(pos.Line),
		Column: int(pos.Col),
	}
}

// Package syntaxcheck restricts Starlark files to a declarative subset:
// top-level expression statements and assignments only, with no control
// flow and no function definitions. Callers extend the walk through Hooks.
package syntaxcheck

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.starlark.net/syntax"
)

// Visit tells the checker whether to descend into a statement after a hook
// has seen it.
type Visit int

const (
	// Descend continues the walk below the statement.
	Descend Visit = iota
	// Skip treats the statement as fully handled.
	Skip
)

// Hooks intercept the walk. Statement runs before the checker applies its
// structural rules to a statement; Identifier runs for every identifier in a
// binding or reference position and for every attribute name.
type Hooks interface {
	Statement(c *Checker, stmt syntax.Stmt) Visit
	Identifier(c *Checker, id *syntax.Ident)
}

// ErrorList is the set of positioned errors found by a single Check.
type ErrorList []syntax.Error

func (e ErrorList) Error() string {
	switch len(e) {
	case 0:
		return "no errors"
	case 1:
		return e[0].Error()
	}

	var b strings.Builder

	b.WriteString(e[0].Error())
	fmt.Fprintf(&b, " (and %d more errors)", len(e)-1)

	return b.String()
}

// Checker walks a parsed file and records every restriction violation.
// A Checker is not safe for concurrent use; create one per file.
type Checker struct {
	where     string
	allowLoad bool
	hooks     Hooks
	errs      ErrorList
}

// New returns a Checker. where names the kind of file in error messages,
// e.g. "module files".
func New(where string, allowLoad bool, hooks Hooks) *Checker {
	return &Checker{
		where:     where,
		allowLoad: allowLoad,
		hooks:     hooks,
	}
}

// Errorf records an error at pos.
func (c *Checker) Errorf(pos syntax.Position, format string, args ...any) {
	c.errs = append(c.errs, syntax.Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Check walks the whole file. It returns an ErrorList holding every error
// recorded during the walk sorted by position, or nil.
func (c *Checker) Check(f *syntax.File) error {
	c.errs = nil
	c.stmts(f.Stmts)

	if len(c.errs) == 0 {
		return nil
	}

	errs := c.errs
	c.errs = nil

	slices.SortStableFunc(errs, func(a, b syntax.Error) int {
		return comparePos(a.Pos, b.Pos)
	})

	return errs
}

func comparePos(a, b syntax.Position) int {
	if a.Line != b.Line {
		return cmp.Compare(a.Line, b.Line)
	}

	return cmp.Compare(a.Col, b.Col)
}

func (c *Checker) stmts(list []syntax.Stmt) {
	for _, stmt := range list {
		c.stmt(stmt)
	}
}

// The walk is pruned below def/if/for/while: the root error is enough.
//
//nolint:cyclop // one case per statement kind
func (c *Checker) stmt(stmt syntax.Stmt) {
	if c.hooks != nil && c.hooks.Statement(c, stmt) == Skip {
		return
	}

	switch s := stmt.(type) {
	case *syntax.ExprStmt:
		c.expr(s.X)
	case *syntax.AssignStmt:
		c.expr(s.LHS)
		c.expr(s.RHS)
	case *syntax.LoadStmt:
		if !c.allowLoad {
			c.Errorf(s.Load, "`load` statements may not be used in %s", c.where)
			return
		}

		for _, id := range s.To {
			c.ident(id)
		}
	case *syntax.DefStmt:
		c.Errorf(s.Def, "functions may not be defined in %s", c.where)
	case *syntax.IfStmt:
		c.Errorf(s.If, "`if` statements are not allowed in %s. You may move conditional logic "+
			"to a function definition in another file, or for simple cases use an if expression.", c.where)
	case *syntax.ForStmt:
		c.Errorf(s.For, "`for` statements are not allowed in %s. You may inline the loop, "+
			"or as a last resort use a list comprehension.", c.where)
	case *syntax.WhileStmt:
		c.Errorf(s.While, "`while` statements are not allowed in %s", c.where)
	case *syntax.ReturnStmt:
		c.Errorf(s.Return, "`return` statements are not allowed in %s", c.where)
	case *syntax.BranchStmt:
		if s.Token != syntax.PASS {
			c.Errorf(s.TokenPos, "`%s` statements are not allowed in %s", s.Token, c.where)
		}
	default:
		start, _ := stmt.Span()
		c.Errorf(start, "unsupported statement %T in %s", stmt, c.where)
	}
}

//nolint:cyclop,funlen // one case per expression kind
func (c *Checker) expr(expr syntax.Expr) {
	if expr == nil {
		return
	}

	switch e := expr.(type) {
	case *syntax.Ident:
		c.ident(e)
	case *syntax.Literal:
	case *syntax.ParenExpr:
		c.expr(e.X)
	case *syntax.UnaryExpr:
		c.expr(e.X)
	case *syntax.BinaryExpr:
		c.expr(e.X)
		c.expr(e.Y)
	case *syntax.CallExpr:
		c.expr(e.Fn)
		c.args(e.Args)
	case *syntax.DotExpr:
		c.expr(e.X)
		c.ident(e.Name)
	case *syntax.IndexExpr:
		c.expr(e.X)
		c.expr(e.Y)
	case *syntax.SliceExpr:
		c.expr(e.X)
		c.expr(e.Lo)
		c.expr(e.Hi)
		c.expr(e.Step)
	case *syntax.CondExpr:
		c.expr(e.Cond)
		c.expr(e.True)
		c.expr(e.False)
	case *syntax.ListExpr:
		c.exprs(e.List)
	case *syntax.TupleExpr:
		c.exprs(e.List)
	case *syntax.DictExpr:
		c.exprs(e.List)
	case *syntax.DictEntry:
		c.expr(e.Key)
		c.expr(e.Value)
	case *syntax.Comprehension:
		c.comprehension(e)
	case *syntax.LambdaExpr:
		c.Errorf(e.Lambda, "functions may not be defined in %s", c.where)
	default:
		start, _ := expr.Span()
		c.Errorf(start, "unsupported expression %T in %s", expr, c.where)
	}
}

func (c *Checker) exprs(list []syntax.Expr) {
	for _, e := range list {
		c.expr(e)
	}
}

// args walks call arguments. Keyword names are parameter names, not
// references, so only the value of name=value is visited.
func (c *Checker) args(list []syntax.Expr) {
	for _, arg := range list {
		if kw, ok := arg.(*syntax.BinaryExpr); ok && kw.Op == syntax.EQ {
			if _, ok := kw.X.(*syntax.Ident); ok {
				c.expr(kw.Y)
				continue
			}
		}

		c.expr(arg)
	}
}

func (c *Checker) comprehension(e *syntax.Comprehension) {
	for _, clause := range e.Clauses {
		switch cl := clause.(type) {
		case *syntax.ForClause:
			c.expr(cl.Vars)
			c.expr(cl.X)
		case *syntax.IfClause:
			c.expr(cl.Cond)
		default:
			start, _ := clause.Span()
			c.Errorf(start, "unsupported comprehension clause %T in %s", clause, c.where)
		}
	}

	c.expr(e.Body)
}

func (c *Checker) ident(id *syntax.Ident) {
	if c.hooks != nil {
		c.hooks.Identifier(c, id)
	}
}

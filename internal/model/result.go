package model

// CheckResult holds the outcome of compiling a single module file.
type CheckResult struct {
	Path    Path
	Key     ModuleKey
	Imports []DirectiveStatement
	Events  []Event
	Err     error
}

// OK reports whether the module file compiled cleanly.
func (r CheckResult) OK() bool {
	return r.Err == nil
}

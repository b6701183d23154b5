package domain

import "errors"

// ErrBadModule is the category shared by every module file compile failure.
var ErrBadModule = errors.New("bad module file")

// ErrorKind distinguishes the stage a module file failed at.
type ErrorKind int

const (
	// KindMalformed means the file could not be parsed.
	KindMalformed ErrorKind = iota
	// KindSyntax means the file parsed but broke the module file rules or
	// failed to compile.
	KindSyntax
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindSyntax:
		return "syntax"
	default:
		return "unknown"
	}
}

// ModuleFileError reports a module file that could not be compiled. The
// positioned diagnostics behind it have already been replayed to the
// caller's event handler.
type ModuleFileError struct {
	Kind   ErrorKind
	Module string
	Msg    string
}

func (e *ModuleFileError) Error() string {
	return e.Msg
}

// Is makes every ModuleFileError match ErrBadModule.
func (e *ModuleFileError) Is(target error) bool {
	return target == ErrBadModule
}

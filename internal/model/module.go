// Package model defines the data structures shared by the module file compiler.
package model

import "fmt"

// Path represents a file system path.
type Path string

// ModuleFile is the raw content of a module file plus the location it was
// loaded from. Location doubles as the file name used in diagnostics.
type ModuleFile struct {
	Content  []byte
	Location string
}

// ModuleKey identifies the module a file belongs to.
type ModuleKey struct {
	Name    string
	Version string
}

// RootModuleKey is the key of the module being built from the workspace root.
var RootModuleKey = ModuleKey{}

func (k ModuleKey) String() string {
	if k.Name == "" {
		return "<root>"
	}

	if k.Version == "" {
		return k.Name
	}

	return k.Name + "@" + k.Version
}

// Location is a position in a module file. Line and Column are 1-based.
type Location struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// DirectiveStatement is a single top-level module_import call.
type DirectiveStatement struct {
	Label    string   `json:"label" yaml:"label"`
	Location Location `json:"location" yaml:"location"`
}

// ImportDirective is the name of the top-level call that declares an import
// of another module file.
const ImportDirective = "module_import"

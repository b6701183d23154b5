package toplevels

import m "modc.dev/pkg/modc/internal/model"

// ModuleDecl is the argument set of a module() call.
type ModuleDecl struct {
	Name               string     `json:"name" yaml:"name"`
	Version            string     `json:"version,omitempty" yaml:"version,omitempty"`
	CompatibilityLevel int        `json:"compatibility_level,omitempty" yaml:"compatibility_level,omitempty"`
	Location           m.Location `json:"location" yaml:"location"`
}

// Dependency is the argument set of a bazel_dep() call.
type Dependency struct {
	Name          string     `json:"name" yaml:"name"`
	Version       string     `json:"version,omitempty" yaml:"version,omitempty"`
	DevDependency bool       `json:"dev_dependency,omitempty" yaml:"dev_dependency,omitempty"`
	Location      m.Location `json:"location" yaml:"location"`
}

// Declarations collects what a module file declared while it ran.
type Declarations struct {
	Module *ModuleDecl  `json:"module,omitempty" yaml:"module,omitempty"`
	Deps   []Dependency `json:"deps,omitempty" yaml:"deps,omitempty"`
}

// Key returns the module key declared by module(), or the root key.
func (d *Declarations) Key() m.ModuleKey {
	if d == nil || d.Module == nil {
		return m.RootModuleKey
	}

	return m.ModuleKey{Name: d.Module.Name, Version: d.Module.Version}
}

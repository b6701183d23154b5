package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"golang.org/x/sync/errgroup"

	"modc.dev/pkg/modc/internal/adapter"
	"modc.dev/pkg/modc/internal/controller"
	m "modc.dev/pkg/modc/internal/model"
	"modc.dev/pkg/modc/internal/toplevels"
)

// DefaultModuleFilenames are the file names discovered when none are configured.
var DefaultModuleFilenames = []string{"MODULE.bazel"}

// CheckArgs selects the module files a batch operation works on.
type CheckArgs struct {
	Paths     []m.Path
	Exclude   []string
	Filenames []string
	Threads   int
}

// RunArgs describes a single module file to execute.
type RunArgs struct {
	Path m.Path
	Key  m.ModuleKey
}

// Workflow drives the CLI commands on top of the compiler.
type Workflow interface {
	// Check compiles every discovered module file and displays diagnostics.
	Check(ctx context.Context, args CheckArgs) error
	// Imports compiles every discovered module file and displays its imports.
	Imports(ctx context.Context, args CheckArgs) error
	// Run compiles and executes a single module file and displays what it declared.
	Run(ctx context.Context, args RunArgs) error
	// CompileAll compiles every discovered module file. Results follow
	// discovery order regardless of parallelism.
	CompileAll(ctx context.Context, args CheckArgs) ([]m.CheckResult, error)
}

type workflow struct {
	adapter.SourceFSAdapter
	controller.UI
	Compiler

	toplevels func() starlark.StringDict
}

// NewWorkflow creates a Workflow. toplevels is called once per compilation to
// build the binding table; nil means toplevels.Default.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	ui controller.UI,
	compiler Compiler,
	toplevelsFn func() starlark.StringDict,
) Workflow {
	if toplevelsFn == nil {
		toplevelsFn = toplevels.Default
	}

	return &workflow{
		SourceFSAdapter: fsAdapter,
		UI:              ui,
		Compiler:        compiler,
		toplevels:       toplevelsFn,
	}
}

func (w *workflow) Check(ctx context.Context, args CheckArgs) error {
	results, err := w.CompileAll(ctx, args)
	if err != nil {
		return err
	}

	if err := w.DisplayCheckResults(ctx, results); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return failures(results)
}

func (w *workflow) Imports(ctx context.Context, args CheckArgs) error {
	results, err := w.CompileAll(ctx, args)
	if err != nil {
		return err
	}

	if err := failures(results); err != nil {
		if displayErr := w.DisplayCheckResults(ctx, results); displayErr != nil {
			return fmt.Errorf("display: %w", displayErr)
		}

		return err
	}

	if err := w.DisplayImports(ctx, results); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	result, compiled := w.compileOne(ctx, args.Path, args.Key)
	if result.Err != nil {
		if err := w.DisplayCheckResults(ctx, []m.CheckResult{result}); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		return result.Err
	}

	thread, decls := toplevels.NewThread(string(args.Path))

	if err := compiled.RunContext(ctx, thread); err != nil {
		slog.Error("Module file evaluation failed", "path", args.Path, "error", err)
		return fmt.Errorf("evaluate %s: %w", args.Path, err)
	}

	if err := w.DisplayDeclarations(ctx, args.Path, decls); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	return nil
}

func (w *workflow) CompileAll(ctx context.Context, args CheckArgs) ([]m.CheckResult, error) {
	paths, err := w.FindModuleFiles(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("find module files: %w", err)
	}

	slog.Debug("Discovered module files", "count", len(paths), "threads", args.Threads)

	results := make([]m.CheckResult, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Threads > 0 {
		group.SetLimit(args.Threads)
	}

	for i, path := range paths {
		i, path := i, path

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			results[i], _ = w.compileOne(groupCtx, path, m.ModuleKey{Name: string(path)})

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (w *workflow) compileOne(ctx context.Context, path m.Path, key m.ModuleKey) (m.CheckResult, *CompiledModuleFile) {
	result := m.CheckResult{Path: path, Key: key}

	content, err := w.ReadFile(ctx, path)
	if err != nil {
		slog.Error("Failed to read module file", "path", path, "error", err)
		result.Err = fmt.Errorf("read %s: %w", path, err)

		return result, nil
	}

	events := adapter.NewEventCollector()
	handler := adapter.MultiEventHandler{events, adapter.NewSlogEventHandler(nil)}

	compiled, err := w.Compile(
		m.ModuleFile{Content: content, Location: string(path)},
		key,
		w.toplevels(),
		handler,
	)

	result.Events = events.Events()
	if err != nil {
		result.Err = err
		return result, nil
	}

	result.Imports = compiled.Imports()

	return result, compiled
}

// FindModuleFiles resolves Go-style path patterns into module file paths.
// "dir/..." walks dir recursively, a directory is scanned without descending
// and a file is taken as is. Results are deduplicated and keep discovery order.
func (w *workflow) FindModuleFiles(ctx context.Context, args CheckArgs) ([]m.Path, error) {
	exclude, err := compileExcludes(args.Exclude)
	if err != nil {
		return nil, err
	}

	filenames := args.Filenames
	if len(filenames) == 0 {
		filenames = DefaultModuleFilenames
	}

	paths := args.Paths
	if len(paths) == 0 {
		paths = []m.Path{"./..."}
	}

	seen := map[m.Path]struct{}{}

	var found []m.Path

	add := func(path m.Path) {
		if excluded(path, exclude) {
			return
		}

		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		found = append(found, path)
	}

	for _, pattern := range paths {
		root, recursive := splitPattern(pattern)

		info, err := w.FileInfo(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		err = w.Walk(ctx, root, recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() && slices.Contains(filenames, info.Name()) {
				add(m.Path(path))
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	return found, nil
}

func splitPattern(pattern m.Path) (m.Path, bool) {
	p := string(pattern)

	if p == "..." {
		return ".", true
	}

	if strings.HasSuffix(p, "/...") {
		root := strings.TrimSuffix(p, "/...")
		if root == "" {
			root = "/"
		}

		return m.Path(filepath.Clean(root)), true
	}

	return m.Path(filepath.Clean(p)), false
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	exclude := make([]*regexp.Regexp, 0, len(patterns))

	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}

		exclude = append(exclude, re)
	}

	return exclude, nil
}

func excluded(path m.Path, exclude []*regexp.Regexp) bool {
	return slices.ContainsFunc(exclude, func(re *regexp.Regexp) bool {
		return re.MatchString(string(path))
	})
}

func failures(results []m.CheckResult) error {
	var errs []error

	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", result.Path, result.Err))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%d of %d module files failed: %w", len(errs), len(results), errors.Join(errs...))
}

// Package pkghost checks the surface of type-checked Go packages.
//
// A module is a package import path. Its public symbols are the exported
// package-level functions; methods, types, variables and constants are not
// callable symbols. Go has no export lists, so imports are simulated with
// the compiler's own rules: a default import is a dot import, which brings
// every exported identifier into file scope, and a selective import is a
// qualified reference to one identifier. Consequently every exported
// function is a default export and nothing is optionally exportable.
//
// Each simulation type-checks a synthetic file in a fresh package against
// the already loaded packages, so it observes exactly what go/types accepts.
package pkghost

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/tools/go/packages"

	"github.com/mpyw/apisurface/host"
)

// scratchPrefix names synthetic probe packages.
const scratchPrefix = "apisurfaceprobe"

// probeAlias is the local name of the target package in selective probes.
const probeAlias = "probe"

// Host serves type-checked packages.
type Host struct {
	fset *token.FileSet

	keep func(types.Object) bool

	mu      sync.Mutex
	pkgs    map[string]*types.Package
	scratch map[string]*types.Scope
}

var _ host.Host = (*Host)(nil)

// Option configures a Host.
type Option func(*Host)

// WithFilter restricts the surface to objects for which keep returns true.
// Filtered objects are neither listed nor importable.
func WithFilter(keep func(types.Object) bool) Option {
	return func(h *Host) {
		h.keep = keep
	}
}

// New creates a Host over pkgs and everything they import.
func New(pkgs []*types.Package, opts ...Option) *Host {
	h := &Host{
		fset:    token.NewFileSet(),
		keep:    func(types.Object) bool { return true },
		pkgs:    make(map[string]*types.Package),
		scratch: make(map[string]*types.Scope),
	}
	for _, opt := range opts {
		opt(h)
	}
	for _, pkg := range pkgs {
		h.add(pkg)
	}

	return h
}

// Load loads the packages matching patterns with golang.org/x/tools/go/packages.
func Load(ctx context.Context, dir string, patterns []string, opts ...Option) (*Host, error) {
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedTypes | packages.NeedImports | packages.NeedDeps,
	}

	loaded, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", strings.Join(patterns, " "), err)
	}

	var errs []error
	packages.Visit(loaded, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, fmt.Errorf("%s: %w", p.PkgPath, e))
		}
	})
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	pkgs := make([]*types.Package, 0, len(loaded))
	for _, p := range loaded {
		pkgs = append(pkgs, p.Types)
	}

	return New(pkgs, opts...), nil
}

func (h *Host) add(pkg *types.Package) {
	if pkg == nil {
		return
	}
	if _, ok := h.pkgs[pkg.Path()]; ok {
		return
	}
	h.pkgs[pkg.Path()] = pkg
	for _, imp := range pkg.Imports() {
		h.add(imp)
	}
}

// Loaded reports whether the package at import path module is known.
func (h *Host) Loaded(module string) bool {
	_, ok := h.pkg(module)
	return ok
}

func (h *Host) pkg(path string) (*types.Package, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pkg, ok := h.pkgs[path]

	return pkg, ok
}

func (h *Host) scope(namespace string) (*types.Scope, bool) {
	if pkg, ok := h.pkg(namespace); ok {
		return pkg.Scope(), true
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	scope, ok := h.scratch[namespace]

	return scope, ok
}

// Symbols lists the objects declared in a package scope or landed in a
// scratch scope. Unexported identifiers are hidden.
func (h *Host) Symbols(namespace string) ([]host.Symbol, error) {
	scope, ok := h.scope(namespace)
	if !ok {
		return nil, fmt.Errorf("%w: %s", host.ErrUnknownNamespace, namespace)
	}

	names := scope.Names()
	syms := make([]host.Symbol, 0, len(names))
	for _, name := range names {
		obj := scope.Lookup(name)
		if !h.keep(obj) {
			continue
		}
		syms = append(syms, host.Symbol{
			Name:     name,
			Callable: isFunc(obj),
			Hidden:   !obj.Exported(),
		})
	}

	return syms, nil
}

// isFunc reports whether obj is a function declaration. Variables of
// function type are values, not code.
func isFunc(obj types.Object) bool {
	_, ok := obj.(*types.Func)
	return ok
}

// Scratch creates an empty scope under a fresh package name.
func (h *Host) Scratch() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for {
		name := scratchPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
		if _, taken := h.scratch[name]; taken {
			continue
		}
		h.scratch[name] = types.NewScope(types.Universe, token.NoPos, token.NoPos, name)

		return name, nil
	}
}

// Discard drops a scratch scope.
func (h *Host) Discard(namespace string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.scratch, namespace)
}

// Import type-checks a synthetic file in package namespace and copies what
// the import brought in into the scratch scope.
func (h *Host) Import(namespace, module string, names ...string) error {
	target, ok := h.pkg(module)
	if !ok {
		return fmt.Errorf("%w: %s", host.ErrNotLoaded, module)
	}

	h.mu.Lock()
	dst, ok := h.scratch[namespace]
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", host.ErrUnknownNamespace, namespace)
	}

	if len(names) == 0 {
		return h.dotImport(dst, namespace, target)
	}

	return h.selectiveImport(dst, namespace, target, names)
}

// dotImport lands every object the compiler puts into file scope for
// `import . "<path>"`.
func (h *Host) dotImport(dst *types.Scope, namespace string, target *types.Package) error {
	src := fmt.Sprintf("package %s\n\nimport . %q\n", namespace, target.Path())

	file, info, errs := h.check(namespace, src)
	if file == nil {
		return errors.Join(errs...)
	}

	fileScope := info.Scopes[file]
	if fileScope == nil {
		return fmt.Errorf("no file scope for %s", namespace)
	}
	for _, name := range fileScope.Names() {
		obj := fileScope.Lookup(name)
		if obj.Pkg() != target || !h.keep(obj) {
			continue
		}
		dst.Insert(obj)
	}

	// The only expected complaint is the unused import.
	return nil
}

// selectiveImport references each name through a qualified identifier.
// Nothing lands unless every reference type-checks.
func (h *Host) selectiveImport(dst *types.Scope, namespace string, target *types.Package, names []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\nimport %s %q\n\n", namespace, probeAlias, target.Path())
	for _, name := range names {
		if !token.IsIdentifier(name) {
			return fmt.Errorf("%q is %w by %s", name, host.ErrNotExported, target.Path())
		}
		fmt.Fprintf(&b, "var _ = %s.%s\n", probeAlias, name)
	}

	file, info, errs := h.check(namespace, b.String())
	if len(errs) > 0 {
		return fmt.Errorf("%w by %s: %w", host.ErrNotExported, target.Path(), errors.Join(errs...))
	}

	landed := make([]types.Object, 0, len(names))
	for _, decl := range file.Decls {
		ast.Inspect(decl, func(n ast.Node) bool {
			sel, ok := n.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if obj := info.Uses[sel.Sel]; obj != nil && obj.Pkg() == target {
				landed = append(landed, obj)
			}
			return false
		})
	}
	for _, obj := range landed {
		if !h.keep(obj) {
			return fmt.Errorf("%q is %w by %s", obj.Name(), host.ErrNotExported, target.Path())
		}
	}
	sort.Slice(landed, func(i, j int) bool { return landed[i].Name() < landed[j].Name() })
	for _, obj := range landed {
		dst.Insert(obj)
	}

	return nil
}

// check parses and type-checks src as package namespace, resolving imports
// from the loaded packages only. All type errors are collected.
func (h *Host) check(namespace, src string) (*ast.File, *types.Info, []error) {
	file, err := parser.ParseFile(h.fset, namespace+".go", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, []error{err}
	}

	info := &types.Info{
		Scopes: make(map[ast.Node]*types.Scope),
		Uses:   make(map[*ast.Ident]types.Object),
	}

	var errs []error
	conf := types.Config{
		Importer: importerFunc(h.importPackage),
		Error: func(err error) {
			errs = append(errs, err)
		},
	}
	_, _ = conf.Check(namespace, h.fset, []*ast.File{file}, info)

	return file, info, errs
}

func (h *Host) importPackage(path string) (*types.Package, error) {
	if pkg, ok := h.pkg(path); ok {
		return pkg, nil
	}

	return nil, fmt.Errorf("%w: %s", host.ErrNotLoaded, path)
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) {
	return f(path)
}

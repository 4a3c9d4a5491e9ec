// Package symtab is a runtime registry of named namespaces.
//
// Go cannot enumerate a package's functions at run time, so modules that
// want their surface checked describe it here, usually from init:
//
//	func init() {
//	    symtab.Define(symtab.Module{
//	        Name:     "Baz",
//	        Export:   []string{"foo", "bar"},
//	        ExportOK: []string{"baz"},
//	        Init: func(ns *symtab.Namespace) {
//	            ns.Func("foo", foo).Func("bar", bar).Func("baz", baz)
//	        },
//	    })
//	}
//
// Defining a module does not load it. [Table.Require] runs Init into the
// module's namespace and records the module as loaded; only then do
// surface checks accept it.
//
// Namespace names are dotted with [Separator] ("Foo::Bar"). Nested
// namespaces are independent tables; a parent never lists its children.
package symtab

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mpyw/apisurface/host"
)

// Separator joins namespace name components.
const Separator = "::"

// scratchPrefix names disposable namespaces.
const scratchPrefix = "apisurface" + Separator + "Scratch" + Separator

var (
	// ErrUndefined is returned when requiring a module nobody defined.
	ErrUndefined = errors.New("module not defined")

	// ErrRedefined is returned when a module name is defined twice.
	ErrRedefined = errors.New("module already defined")
)

// ImportFunc installs names from a module namespace into another namespace.
// An empty names list means the module's default import.
type ImportFunc func(into, from *Namespace, names ...string) error

// Module describes a loadable namespace.
type Module struct {
	Name string

	// Export lists names imported by default.
	Export []string

	// ExportOK lists names imported only on request.
	ExportOK []string

	// Init populates the module's namespace when it is required.
	Init func(ns *Namespace)

	// Importer overrides the Export/ExportOK based import.
	Importer ImportFunc
}

type entry struct {
	module Module
	once   sync.Once
}

// Table holds module definitions, namespaces and the loaded-module record.
type Table struct {
	log *zap.Logger

	mu         sync.RWMutex
	modules    map[string]*entry
	namespaces map[string]*Namespace
	loaded     map[string]bool
}

var _ host.Host = (*Table)(nil)

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.Logger) Option {
	return func(t *Table) {
		t.log = log
	}
}

// New creates an empty table.
func New(opts ...Option) *Table {
	t := &Table{
		log:        zap.NewNop(),
		modules:    make(map[string]*entry),
		namespaces: make(map[string]*Namespace),
		loaded:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Default is the process-wide table.
var Default = New()

// Define registers m in the Default table. It panics if m.Name is already
// defined, like flag definitions do.
func Define(m Module) {
	if err := Default.Define(m); err != nil {
		panic(err)
	}
}

// Require loads the named module in the Default table.
func Require(name string) error {
	return Default.Require(name)
}

// Define registers a module without loading it.
func (t *Table) Define(m Module) error {
	if m.Name == "" {
		return fmt.Errorf("%w: empty module name", ErrUndefined)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.modules[m.Name]; ok {
		return fmt.Errorf("%w: %s", ErrRedefined, m.Name)
	}
	t.modules[m.Name] = &entry{module: m}

	return nil
}

// Require loads a defined module: it runs Init into the module namespace
// and records the module as loaded. Requiring a loaded module is a no-op.
// Init may require other modules.
func (t *Table) Require(name string) error {
	t.mu.RLock()
	e, ok := t.modules[name]
	t.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUndefined, name)
	}

	e.once.Do(func() {
		ns := t.Declare(name)
		if e.module.Init != nil {
			e.module.Init(ns)
		}

		t.mu.Lock()
		t.loaded[name] = true
		t.mu.Unlock()

		t.log.Debug("module loaded", zap.String("module", name), zap.Int("bindings", len(ns.Bindings())))
	})

	return nil
}

// Declare returns the namespace called name, creating it if needed.
// It does not mark any module as loaded.
func (t *Table) Declare(name string) *Namespace {
	t.mu.Lock()
	defer t.mu.Unlock()

	ns, ok := t.namespaces[name]
	if !ok {
		ns = newNamespace(name)
		t.namespaces[name] = ns
	}

	return ns
}

// Namespace returns an existing namespace.
func (t *Table) Namespace(name string) (*Namespace, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ns, ok := t.namespaces[name]

	return ns, ok
}

// Loaded reports whether module was loaded through Require.
func (t *Table) Loaded(module string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.loaded[module]
}

// Symbols lists the bindings of a namespace.
func (t *Table) Symbols(namespace string) ([]host.Symbol, error) {
	ns, ok := t.Namespace(namespace)
	if !ok {
		return nil, fmt.Errorf("%w: %s", host.ErrUnknownNamespace, namespace)
	}

	bindings := ns.Bindings()
	syms := make([]host.Symbol, 0, len(bindings))
	for _, b := range bindings {
		syms = append(syms, host.Symbol{Name: b.Name, Callable: b.Callable()})
	}

	return syms, nil
}

// Scratch creates a uniquely named empty namespace.
func (t *Table) Scratch() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		name := scratchPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
		if _, taken := t.namespaces[name]; taken {
			continue
		}
		t.namespaces[name] = newNamespace(name)

		return name, nil
	}
}

// Discard removes a namespace created by Scratch.
func (t *Table) Discard(namespace string) {
	if !strings.HasPrefix(namespace, scratchPrefix) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.namespaces, namespace)
}

// Import imports module into namespace using the module's importer.
func (t *Table) Import(namespace, module string, names ...string) error {
	t.mu.RLock()
	e, defined := t.modules[module]
	loaded := t.loaded[module]
	from := t.namespaces[module]
	into, ok := t.namespaces[namespace]
	t.mu.RUnlock()

	if !defined || !loaded {
		return fmt.Errorf("%w: %s", host.ErrNotLoaded, module)
	}
	if !ok {
		return fmt.Errorf("%w: %s", host.ErrUnknownNamespace, namespace)
	}

	importer := e.module.Importer
	if importer == nil {
		importer = e.module.exporter()
	}

	t.log.Debug("import",
		zap.String("module", module), zap.String("into", namespace), zap.Strings("names", names))

	return importer(into, from, names...)
}

// exporter imports Export by default and Export or ExportOK names on
// request. A request for any other name fails before anything is installed.
func (m Module) exporter() ImportFunc {
	return func(into, from *Namespace, names ...string) error {
		if len(names) == 0 {
			names = m.Export
		}

		for _, name := range names {
			if !slices.Contains(m.Export, name) && !slices.Contains(m.ExportOK, name) {
				return fmt.Errorf("%q is %w by the %s module", name, host.ErrNotExported, m.Name)
			}
		}

		for _, name := range names {
			if b, ok := from.Lookup(name); ok {
				into.Bind(b)
			}
		}

		return nil
	}
}

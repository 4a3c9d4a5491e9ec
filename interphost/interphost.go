// Package interphost checks the surface of packages exposed to the yaegi
// interpreter as binary symbol tables.
//
// A module is an import path registered through [Host.Use]. Every scratch
// namespace is a brand new interpreter, and imports are performed by
// evaluating real import declarations in it, so what lands is decided by
// yaegi itself. A default import is `import . "<path>"`; a selective import
// binds one name from a qualified import. Landed symbols are observed by
// evaluating each candidate identifier; whether a landed symbol is code is
// decided by the registered table, since a selective import binds every
// name as a variable.
package interphost

import (
	"fmt"
	"go/token"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/traefik/yaegi/interp"

	"github.com/mpyw/apisurface/host"
)

const probeAlias = "probe"

// Host serves yaegi symbol tables.
type Host struct {
	mu      sync.Mutex
	exports interp.Exports
	paths   map[string]string // import path -> exports key
	scratch map[string]*scratch
}

var _ host.Host = (*Host)(nil)

// scratch is one disposable interpreter and the registered values of the
// names imported into it.
type scratch struct {
	in         *interp.Interpreter
	candidates map[string]reflect.Value
}

// New creates a Host and registers symbols.
func New(symbols ...interp.Exports) *Host {
	h := &Host{
		exports: make(interp.Exports),
		paths:   make(map[string]string),
		scratch: make(map[string]*scratch),
	}
	for _, s := range symbols {
		h.Use(s)
	}

	return h
}

// Use registers symbol tables keyed "import/path/pkgname", the layout
// produced by `yaegi extract`. Registered paths count as loaded.
func (h *Host) Use(symbols interp.Exports) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for key, syms := range symbols {
		idx := strings.LastIndex(key, "/")
		if idx <= 0 {
			continue
		}
		h.exports[key] = syms
		h.paths[key[:idx]] = key
	}
}

// Loaded reports whether module was registered.
func (h *Host) Loaded(module string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, ok := h.paths[module]

	return ok
}

// Symbols lists a module's registered symbols, or the candidates that
// evaluate successfully in a scratch interpreter.
func (h *Host) Symbols(namespace string) ([]host.Symbol, error) {
	h.mu.Lock()
	key, isModule := h.paths[namespace]
	table := h.exports[key]
	sc, isScratch := h.scratch[namespace]
	h.mu.Unlock()

	switch {
	case isModule:
		syms := make([]host.Symbol, 0, len(table))
		for name, v := range table {
			syms = append(syms, symbol(name, v))
		}
		slices.SortFunc(syms, func(a, b host.Symbol) int { return strings.Compare(a.Name, b.Name) })

		return syms, nil
	case isScratch:
		names := make([]string, 0, len(sc.candidates))
		for name := range sc.candidates {
			names = append(names, name)
		}
		slices.Sort(names)

		var syms []host.Symbol
		for _, name := range names {
			if _, err := sc.in.Eval(name); err != nil {
				continue
			}
			syms = append(syms, symbol(name, sc.candidates[name]))
		}

		return syms, nil
	}

	return nil, fmt.Errorf("%w: %s", host.ErrUnknownNamespace, namespace)
}

// symbol classifies a registered value. `yaegi extract` registers
// variables as addressable values, so a variable of function type is not
// callable.
func symbol(name string, v reflect.Value) host.Symbol {
	return host.Symbol{
		Name:     name,
		Callable: v.IsValid() && v.Kind() == reflect.Func && !v.CanAddr(),
		Hidden:   !token.IsExported(name),
	}
}

// Scratch starts a fresh interpreter that knows every registered table.
func (h *Host) Scratch() (string, error) {
	in := interp.New(interp.Options{})

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := in.Use(h.exports); err != nil {
		return "", fmt.Errorf("preparing interpreter: %w", err)
	}

	name := "probe_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	h.scratch[name] = &scratch{in: in, candidates: make(map[string]reflect.Value)}

	return name, nil
}

// Discard drops a scratch interpreter.
func (h *Host) Discard(namespace string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.scratch, namespace)
}

// Import evaluates an import of module in the scratch interpreter.
func (h *Host) Import(namespace, module string, names ...string) error {
	h.mu.Lock()
	key, loaded := h.paths[module]
	table := h.exports[key]
	sc, ok := h.scratch[namespace]
	h.mu.Unlock()

	if !loaded {
		return fmt.Errorf("%w: %s", host.ErrNotLoaded, module)
	}
	if !ok {
		return fmt.Errorf("%w: %s", host.ErrUnknownNamespace, namespace)
	}

	if len(names) == 0 {
		if _, err := sc.in.Eval(fmt.Sprintf("import . %q", module)); err != nil {
			return fmt.Errorf("dot import of %s: %w", module, err)
		}
		for name, v := range table {
			sc.candidates[name] = v
		}

		return nil
	}

	for _, name := range names {
		if !token.IsIdentifier(name) || !token.IsExported(name) {
			return fmt.Errorf("%q is %w by %s", name, host.ErrNotExported, module)
		}
	}
	if _, err := sc.in.Eval(fmt.Sprintf("import %s %q", probeAlias, module)); err != nil {
		return fmt.Errorf("import of %s: %w", module, err)
	}
	for _, name := range names {
		if _, err := sc.in.Eval(fmt.Sprintf("var %s = %s.%s", name, probeAlias, name)); err != nil {
			return fmt.Errorf("%q is %w by %s: %w", name, host.ErrNotExported, module, err)
		}
		sc.candidates[name] = table[name]
	}

	return nil
}

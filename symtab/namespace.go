package symtab

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Kind classifies what a name is bound to.
type Kind int

const (
	// KindFunc is a binding to code.
	KindFunc Kind = iota
	// KindVar is a binding to a mutable value, which may itself hold a func.
	KindVar
	// KindConst is a binding to an immutable value.
	KindConst
	// KindForward is a declared function with no body.
	KindForward
)

func (k Kind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindVar:
		return "var"
	case KindConst:
		return "const"
	case KindForward:
		return "forward"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Binding is one name in a namespace.
type Binding struct {
	Name  string
	Kind  Kind
	Value any
}

// Callable reports whether the binding is code.
func (b Binding) Callable() bool {
	return b.Kind == KindFunc
}

// Namespace is a named symbol table.
type Namespace struct {
	name string

	mu       sync.RWMutex
	bindings map[string]Binding
}

func newNamespace(name string) *Namespace {
	return &Namespace{name: name, bindings: make(map[string]Binding)}
}

// Name returns the namespace's fully qualified name.
func (ns *Namespace) Name() string {
	return ns.name
}

// Func binds fn, which must be a function, under name.
func (ns *Namespace) Func(name string, fn any) *Namespace {
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		panic(fmt.Sprintf("symtab: %s::%s bound to non-function %T", ns.name, name, fn))
	}
	return ns.Bind(Binding{Name: name, Kind: KindFunc, Value: fn})
}

// Var binds a variable under name.
func (ns *Namespace) Var(name string, v any) *Namespace {
	return ns.Bind(Binding{Name: name, Kind: KindVar, Value: v})
}

// Const binds a constant under name.
func (ns *Namespace) Const(name string, v any) *Namespace {
	return ns.Bind(Binding{Name: name, Kind: KindConst, Value: v})
}

// Forward declares a function name without code.
func (ns *Namespace) Forward(name string) *Namespace {
	return ns.Bind(Binding{Name: name, Kind: KindForward})
}

// Bind installs b, replacing any binding of the same name.
func (ns *Namespace) Bind(b Binding) *Namespace {
	if b.Name == "" || strings.Contains(b.Name, Separator) {
		panic(fmt.Sprintf("symtab: invalid symbol name %q in %s", b.Name, ns.name))
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.bindings[b.Name] = b

	return ns
}

// Lookup returns the binding for name.
func (ns *Namespace) Lookup(name string) (Binding, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	b, ok := ns.bindings[name]

	return b, ok
}

// Bindings returns every binding sorted by name.
func (ns *Namespace) Bindings() []Binding {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	out := make([]Binding, 0, len(ns.bindings))
	for _, b := range ns.bindings {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Binding) int {
		return strings.Compare(a.Name, b.Name)
	})

	return out
}

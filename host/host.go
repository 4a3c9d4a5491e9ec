// Package host declares the namespace facility that surface checks run against.
//
// A Host owns named namespaces. Some of them are modules that a program has
// loaded; others are disposable scratch namespaces created only to observe
// what an import installs. Implementations:
//
//   - [github.com/mpyw/apisurface/symtab]: runtime registry of namespaces
//   - [github.com/mpyw/apisurface/pkghost]: type-checked Go packages
//   - [github.com/mpyw/apisurface/interphost]: yaegi binary symbol tables
package host

import "errors"

var (
	// ErrNotLoaded is returned when a module has not been loaded into the host.
	ErrNotLoaded = errors.New("module not loaded")

	// ErrUnknownNamespace is returned for a namespace the host does not own.
	ErrUnknownNamespace = errors.New("unknown namespace")

	// ErrNotExported is returned when a module refuses to export a requested name.
	ErrNotExported = errors.New("not exported")
)

// Symbol is a single binding in a namespace.
type Symbol struct {
	Name string

	// Callable is true when the binding is code (a function), not a value.
	Callable bool

	// Hidden is true when the host's own visibility rules make the name
	// private, e.g. unexported Go identifiers.
	Hidden bool
}

// Host is the capability used to introspect and simulate imports.
type Host interface {
	// Loaded reports whether module has been loaded. It never triggers a load.
	Loaded(module string) bool

	// Symbols lists the bindings made directly in namespace.
	// Child namespaces are not visited.
	Symbols(namespace string) ([]Symbol, error)

	// Scratch creates a fresh, never before used namespace.
	Scratch() (string, error)

	// Import imports module into namespace. With no names the module's
	// default export list is imported; otherwise exactly the given names.
	Import(namespace, module string, names ...string) error

	// Discard drops a namespace created by Scratch.
	Discard(namespace string)
}

// Package enumerate lists the public callable symbols bound in a namespace.
package enumerate

import (
	"slices"
	"strings"

	"github.com/mpyw/apisurface/host"
)

// PrivatePrefix marks a name as private by convention.
const PrivatePrefix = "_"

// IsPublic reports whether sym counts toward a public surface: callable,
// not hidden by the host, and not named with the private prefix.
func IsPublic(sym host.Symbol) bool {
	return sym.Callable && !sym.Hidden && !strings.HasPrefix(sym.Name, PrivatePrefix)
}

// Public returns the sorted names of public callable symbols bound
// directly in namespace.
func Public(h host.Host, namespace string) ([]string, error) {
	syms, err := h.Symbols(namespace)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(syms))
	for _, sym := range syms {
		if IsPublic(sym) {
			names = append(names, sym.Name)
		}
	}
	slices.Sort(names)

	return slices.Compact(names), nil
}

// Has reports whether name is among the public symbols of namespace.
func Has(h host.Host, namespace, name string) (bool, error) {
	names, err := Public(h, namespace)
	if err != nil {
		return false, err
	}
	_, found := slices.BinarySearch(names, name)

	return found, nil
}

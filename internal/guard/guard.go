// Package guard refuses to introspect modules that were never loaded.
package guard

import (
	"fmt"

	"github.com/mpyw/apisurface/host"
)

// Recorder receives test outcomes and diagnostic lines.
type Recorder interface {
	Record(ok bool, label string)
	Diag(text string)
}

// NotLoadedMessage is the diagnostic emitted for a module that is not loaded.
func NotLoadedMessage(module string) string {
	return fmt.Sprintf("Module '%s' not loaded", module)
}

// Ensure returns true if module is loaded in h. Otherwise it records a
// failing outcome under label, emits one diagnostic and returns false.
// It never loads the module itself.
func Ensure(h host.Host, r Recorder, module, label string) bool {
	if h.Loaded(module) {
		return true
	}

	r.Record(false, label)
	r.Diag(NotLoadedMessage(module))

	return false
}

// Package apisurface provides test assertions that lock down the public
// function surface of a module.
//
// [PublicOK] compares the public callable symbols a module binds against an
// expected list. [ImportOK] imports the module into throwaway namespaces and
// checks which symbols arrive by default and which can be requested by name.
// Both report exactly one pass/fail outcome plus diagnostic lines.
//
// The package-level functions check modules in [symtab.Default]. Use [New]
// to check against another [host.Host], such as a [pkghost.Host] over
// type-checked Go packages.
//
// [pkghost.Host]: https://pkg.go.dev/github.com/mpyw/apisurface/pkghost#Host
package apisurface

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/mpyw/apisurface/host"
	"github.com/mpyw/apisurface/internal/enumerate"
	"github.com/mpyw/apisurface/internal/guard"
	"github.com/mpyw/apisurface/internal/reconcile"
	"github.com/mpyw/apisurface/internal/simulate"
	"github.com/mpyw/apisurface/symtab"
)

// Checker runs surface checks against a host.
type Checker struct {
	host host.Host
	log  *zap.Logger
	sim  *simulate.Simulator
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger for debug output of import probes.
func WithLogger(log *zap.Logger) Option {
	return func(c *Checker) {
		c.log = log
	}
}

// New creates a Checker for h.
func New(h host.Host, opts ...Option) *Checker {
	c := &Checker{host: h, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.sim = simulate.New(h, c.log)

	return c
}

// PublicOK checks the public API of module in [symtab.Default].
func PublicOK(t testing.TB, module string, names ...string) bool {
	t.Helper()

	return New(symtab.Default).PublicOK(TB(t), module, names...)
}

// ImportOK checks what module in [symtab.Default] exports.
func ImportOK(t testing.TB, module string, spec Spec) bool {
	t.Helper()

	return New(symtab.Default).ImportOK(TB(t), module, spec)
}

// PublicOK reports whether the public callable symbols bound in module are
// exactly names. Order and duplicates in names do not matter.
func (c *Checker) PublicOK(r Recorder, module string, names ...string) bool {
	label := "public API for " + module
	if !guard.Ensure(c.host, r, module, label) {
		return false
	}

	actual, err := enumerate.Public(c.host, module)
	if err != nil {
		r.Record(false, label)
		r.Diag(err.Error())

		return false
	}

	res := reconcile.Compare(names, actual)
	r.Record(res.OK(), label)
	if len(res.Missing) > 0 {
		r.Diag("missing: " + strings.Join(res.Missing, " "))
	}
	if len(res.Extra) > 0 {
		r.Diag("extra: " + strings.Join(res.Extra, " "))
	}

	return res.OK()
}

// ImportOK reports whether importing module installs exactly spec.Export by
// default and whether exactly spec.ExportOK can additionally be imported by
// name.
func (c *Checker) ImportOK(r Recorder, module string, spec Spec) bool {
	label := "importing from " + module
	if !guard.Ensure(c.host, r, module, label) {
		return false
	}

	problems, err := c.importProblems(module, spec.normalize())
	if err != nil {
		problems = append(problems, err.Error())
	}

	ok := len(problems) == 0
	r.Record(ok, label)
	for _, p := range problems {
		r.Diag(p)
	}

	return ok
}

// importProblems collects diagnostics for the default export phase and
// then the optional export phase. Names already reported by the first phase
// are not probed again.
func (c *Checker) importProblems(module string, spec Spec) ([]string, error) {
	var problems []string
	flagged := make(map[string]bool)

	def, err := c.sim.DefaultExports(module, spec.Export)
	if err != nil {
		return problems, err
	}
	if len(def.Missing) > 0 {
		problems = append(problems, "not exported: "+strings.Join(def.Missing, " "))
		flag(flagged, def.Missing)
	}
	if len(def.Extra) > 0 {
		problems = append(problems, "unexpectedly exported: "+strings.Join(def.Extra, " "))
		flag(flagged, def.Extra)
	}

	exclude := make(map[string]bool, len(flagged)+len(spec.Export))
	flag(exclude, spec.Export)
	for name := range flagged {
		exclude[name] = true
	}

	exportable, err := c.sim.OptionalExports(module, exclude)
	if err != nil {
		return problems, err
	}

	opt := reconcile.Compare(spec.ExportOK, exportable)
	if len(opt.Missing) > 0 {
		problems = append(problems, "not optionally exportable: "+strings.Join(opt.Missing, " "))
	}
	if len(opt.Extra) > 0 {
		problems = append(problems, "extra optionally exportable: "+strings.Join(opt.Extra, " "))
	}

	return problems, nil
}

func flag(set map[string]bool, names []string) {
	for _, name := range names {
		set[name] = true
	}
}

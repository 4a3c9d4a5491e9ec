// Package simulate observes what a module's imports actually install by
// importing it into disposable namespaces.
//
// Nothing here reads a module's declared export tables. Each observation
// creates a fresh scratch namespace, performs a real import through the
// host and enumerates what landed. Probes run one after another and each
// gets its own namespace, so a symbol imported by one probe is never
// visible to the next.
package simulate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mpyw/apisurface/host"
	"github.com/mpyw/apisurface/internal/enumerate"
	"github.com/mpyw/apisurface/internal/reconcile"
)

// Simulator runs import simulations against a host.
type Simulator struct {
	host host.Host
	log  *zap.Logger
}

// New creates a Simulator. A nil logger discards output.
func New(h host.Host, log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}

	return &Simulator{host: h, log: log}
}

// DefaultExports imports module with its default export list into a scratch
// namespace and reconciles what landed against expected.
func (s *Simulator) DefaultExports(module string, expected []string) (reconcile.Result, error) {
	var landed []string

	err := s.withScratch(func(ns string) error {
		if err := s.host.Import(ns, module); err != nil {
			// A failing default import leaves whatever landed; usually nothing.
			s.log.Debug("default import failed",
				zap.String("module", module), zap.String("namespace", ns), zap.Error(err))
		}

		names, err := enumerate.Public(s.host, ns)
		if err != nil {
			return err
		}
		landed = names

		return nil
	})
	if err != nil {
		return reconcile.Result{}, err
	}

	s.log.Debug("default exports observed", zap.String("module", module), zap.Strings("landed", landed))

	return reconcile.Compare(expected, landed), nil
}

// OptionalExports probes every public symbol of module that is not in
// exclude by importing it alone into its own scratch namespace. It returns
// the sorted names that landed.
func (s *Simulator) OptionalExports(module string, exclude map[string]bool) ([]string, error) {
	candidates, err := enumerate.Public(s.host, module)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w", module, err)
	}

	exportable := []string{}
	for _, name := range candidates {
		if exclude[name] {
			continue
		}

		ok, err := s.probe(module, name)
		if err != nil {
			return nil, err
		}
		if ok {
			exportable = append(exportable, name)
		}
	}

	return exportable, nil
}

// probe reports whether importing name alone from module makes it appear.
func (s *Simulator) probe(module, name string) (bool, error) {
	var landed bool

	err := s.withScratch(func(ns string) error {
		if err := s.host.Import(ns, module, name); err != nil {
			s.log.Debug("probe import failed",
				zap.String("module", module), zap.String("symbol", name), zap.Error(err))
			return nil
		}

		found, err := enumerate.Has(s.host, ns, name)
		if err != nil {
			return err
		}
		landed = found

		return nil
	})

	s.log.Debug("probe", zap.String("module", module), zap.String("symbol", name), zap.Bool("landed", landed))

	return landed, err
}

// withScratch runs fn with a fresh namespace that is discarded afterwards.
func (s *Simulator) withScratch(fn func(ns string) error) error {
	ns, err := s.host.Scratch()
	if err != nil {
		return fmt.Errorf("creating scratch namespace: %w", err)
	}
	defer s.host.Discard(ns)

	if err := fn(ns); err != nil {
		return fmt.Errorf("inspecting %s: %w", ns, err)
	}

	return nil
}

// Package lint provides a go/analysis based analyzer that locks down the
// exported function surface of Go packages.
package lint

import (
	"errors"
	"flag"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"os"
	"strings"
	"sync"

	"golang.org/x/tools/go/analysis"
	"gopkg.in/yaml.v3"

	"github.com/mpyw/apisurface"
	"github.com/mpyw/apisurface/internal/directive"
	"github.com/mpyw/apisurface/pkghost"
)

// Flags for the analyzer.
var expectFile string

func init() {
	Analyzer.Flags.StringVar(&expectFile, "expect", "",
		"YAML file mapping package paths to expected surfaces (keys: public, export, export_ok)")
}

// Analyzer is the main analyzer for apisurface.
var Analyzer = &analysis.Analyzer{
	Name:  "apisurface",
	Doc:   "checks that the exported functions of a package match its declared API surface",
	Run:   run,
	Flags: flag.FlagSet{},
}

var ErrNoPackage = errors.New("type-checked package not available")

// Expectation is one package entry of the -expect file.
type Expectation struct {
	Public   apisurface.Names `yaml:"public"`
	Export   apisurface.Names `yaml:"export"`
	ExportOK apisurface.Names `yaml:"export_ok"`
}

func run(pass *analysis.Pass) (any, error) {
	if pass.Pkg == nil {
		return nil, ErrNoPackage
	}

	// External test packages have no surface of their own.
	if strings.HasSuffix(pass.Pkg.Path(), "_test") {
		return nil, nil
	}

	files := sourceFiles(pass)
	if len(files) == 0 {
		return nil, nil
	}

	directives := directive.Collect(files)
	for _, d := range directives.Unknown {
		pass.Reportf(d.Pos, "unknown apisurface directive %q", d.Kind)
	}

	fileExp, err := lookupExpectation(expectFile, pass.Pkg.Path())
	if err != nil {
		return nil, err
	}

	notTest := pkghost.WithFilter(func(obj types.Object) bool {
		return !isTestFile(pass.Fset.Position(obj.Pos()).Filename)
	})
	checker := apisurface.New(pkghost.New([]*types.Package{pass.Pkg}, notTest))
	pkgPos := files[0].Name.Pos()
	path := pass.Pkg.Path()

	// Directives take precedence over the -expect file, kind by kind.
	if g, ok := directives.Groups[directive.Public]; ok {
		rec := newPassRecorder(pass, g.Pos)
		checker.PublicOK(rec, path, g.Names...)
		rec.flush()
	} else if fileExp != nil && fileExp.Public != nil {
		rec := newPassRecorder(pass, pkgPos)
		checker.PublicOK(rec, path, fileExp.Public...)
		rec.flush()
	}

	if spec, pos, ok := importSpec(directives, fileExp, pkgPos); ok {
		rec := newPassRecorder(pass, pos)
		checker.ImportOK(rec, path, spec)
		rec.flush()
	}

	return nil, nil
}

// sourceFiles returns the files of the pass, without generated and test
// files.
func sourceFiles(pass *analysis.Pass) []*ast.File {
	files := make([]*ast.File, 0, len(pass.Files))
	for _, file := range pass.Files {
		if ast.IsGenerated(file) || isTestFile(pass.Fset.Position(file.Package).Filename) {
			continue
		}
		files = append(files, file)
	}

	return files
}

func isTestFile(filename string) bool {
	return strings.HasSuffix(filename, "_test.go")
}

// importSpec assembles the ImportOK expectation and where to report it.
func importSpec(set directive.Set, fileExp *Expectation, pkgPos token.Pos) (apisurface.Spec, token.Pos, bool) {
	var (
		spec  apisurface.Spec
		pos   = token.NoPos
		found bool
	)

	for _, k := range []directive.Kind{directive.Export, directive.ExportOK} {
		g, ok := set.Groups[k]
		if !ok {
			continue
		}
		if k == directive.Export {
			spec.Export = g.Names
		} else {
			spec.ExportOK = g.Names
		}
		if !pos.IsValid() {
			pos = g.Pos
		}
		found = true
	}

	if fileExp != nil {
		if spec.Export == nil && fileExp.Export != nil {
			spec.Export = fileExp.Export
			found = true
		}
		if spec.ExportOK == nil && fileExp.ExportOK != nil {
			spec.ExportOK = fileExp.ExportOK
			found = true
		}
	}

	if found && !pos.IsValid() {
		pos = pkgPos
	}

	return spec, pos, found
}

// lookupExpectation returns the entry for pkgPath in the YAML file at
// filename, or nil when there is no file or no entry.
func lookupExpectation(filename, pkgPath string) (*Expectation, error) {
	if filename == "" {
		return nil, nil
	}

	all, err := expectations.load(filename)
	if err != nil {
		return nil, err
	}

	exp, ok := all[pkgPath]
	if !ok {
		return nil, nil
	}

	return &exp, nil
}

// expectationCache holds each -expect file parsed once per process.
type expectationCache struct {
	mu    sync.Mutex
	files map[string]map[string]Expectation
}

var expectations = &expectationCache{files: make(map[string]map[string]Expectation)}

func (c *expectationCache) load(filename string) (map[string]Expectation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if all, ok := c.files[filename]; ok {
		return all, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading expectations: %w", err)
	}

	var all map[string]Expectation
	if err := yaml.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parsing expectations %s: %w", filename, err)
	}
	c.files[filename] = all

	return all, nil
}

// passRecorder turns check diagnostics into analysis diagnostics at pos.
type passRecorder struct {
	pass     *analysis.Pass
	pos      token.Pos
	label    string
	failed   bool
	reported bool
}

func newPassRecorder(pass *analysis.Pass, pos token.Pos) *passRecorder {
	return &passRecorder{pass: pass, pos: pos}
}

func (r *passRecorder) Record(ok bool, label string) {
	r.label = label
	r.failed = !ok
}

func (r *passRecorder) Diag(text string) {
	if !r.failed {
		return
	}
	r.pass.Reportf(r.pos, "%s: %s", r.label, text)
	r.reported = true
}

// flush reports a failure that produced no diagnostic lines.
func (r *passRecorder) flush() {
	if r.failed && !r.reported {
		r.pass.Reportf(r.pos, "%s failed", r.label)
	}
}

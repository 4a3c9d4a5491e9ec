// Package directive handles //apisurface: comments.
//
// A directive names the symbols a package promises:
//
//	//apisurface:public Open Close
//	//apisurface:export Open
//	//apisurface:export_ok Close - optional, kept for compatibility
//
// Names are separated by spaces or commas. Text after " - " or " //" is
// commentary. Directives of the same kind accumulate across files.
package directive

import (
	"go/ast"
	"go/token"
	"strings"
)

// Kind is the expectation a directive declares.
type Kind string

// Valid directive kinds.
const (
	Public   Kind = "public"
	Export   Kind = "export"
	ExportOK Kind = "export_ok"
)

const prefix = "apisurface:"

// Valid reports whether k is a known directive kind.
func (k Kind) Valid() bool {
	switch k {
	case Public, Export, ExportOK:
		return true
	}
	return false
}

// Directive is a single parsed comment.
type Directive struct {
	Pos   token.Pos
	Kind  Kind
	Names []string
}

// Group merges every directive of one kind.
type Group struct {
	Pos   token.Pos // position of the first directive
	Names []string
}

// Set holds a package's directives.
type Set struct {
	Groups  map[Kind]*Group
	Unknown []Directive
}

// Has reports whether at least one directive of kind k was found.
func (s Set) Has(k Kind) bool {
	_, ok := s.Groups[k]
	return ok
}

// Collect scans the comments of files.
func Collect(files []*ast.File) Set {
	set := Set{Groups: make(map[Kind]*Group)}

	for _, file := range files {
		for _, cg := range file.Comments {
			for _, c := range cg.List {
				kind, names, ok := parseComment(c.Text)
				if !ok {
					continue
				}
				if !kind.Valid() {
					set.Unknown = append(set.Unknown, Directive{Pos: c.Pos(), Kind: kind, Names: names})
					continue
				}

				g, ok := set.Groups[kind]
				if !ok {
					g = &Group{Pos: c.Pos(), Names: []string{}}
					set.Groups[kind] = g
				}
				g.Names = append(g.Names, names...)
			}
		}
	}

	return set
}

// parseComment parses a directive comment.
// Returns false if the comment is not an apisurface directive.
func parseComment(text string) (Kind, []string, bool) {
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, prefix) {
		return "", nil, false
	}
	rest := strings.TrimPrefix(text, prefix)

	// Stop at comment markers: " - " or " //"
	if idx := strings.Index(rest, " - "); idx >= 0 {
		rest = rest[:idx]
	}
	if idx := strings.Index(rest, " //"); idx >= 0 {
		rest = rest[:idx]
	}

	kind, args, _ := strings.Cut(strings.TrimSpace(rest), " ")

	names := strings.FieldsFunc(args, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	if names == nil {
		names = []string{}
	}

	return Kind(kind), names, true
}

// Command apisurface is a linter that checks declared package API surfaces.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/mpyw/apisurface/lint"
)

func main() {
	singlechecker.Main(lint.Analyzer)
}

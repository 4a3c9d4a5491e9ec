// Package generatedskip tests that directives in generated files are ignored.
package generatedskip

func Written() {}

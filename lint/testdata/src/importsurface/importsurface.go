// Package importsurface declares an optional export, which Go cannot have.
package importsurface

//apisurface:export Parse // want `importing from importsurface: unexpectedly exported: Format` `importing from importsurface: not optionally exportable: Format`
//apisurface:export_ok Format

func Parse() {}

func Format() {}

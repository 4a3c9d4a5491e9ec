// Package publicapi declares its surface exactly.
package publicapi

//apisurface:public Open Close
//apisurface:export Open, Close

// Handle is a type; types are not functions.
type Handle struct{}

// Read is a method, not a package-level function.
func (Handle) Read() {}

func Open() Handle { return Handle{} }

func Close(Handle) {}

func helper() {}

// Hook holds a function but is a variable.
var Hook = func() { helper() }

const Version = "1"

// Package publicleak exports more than it declares.
package publicleak

//apisurface:public Open Missing // want `public API for publicleak: missing: Missing` `public API for publicleak: extra: Close`

func Open() {}

func Close() {}

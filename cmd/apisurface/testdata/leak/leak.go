// Package leak exports a function it does not declare.
package leak

//apisurface:public Open

func Open() {}

func Debug() {}

// Package withtests has tests that declare exported helpers.
package withtests

//apisurface:public Open
//apisurface:export Open

func Open() {}

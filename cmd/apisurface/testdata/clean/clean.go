// Package clean declares exactly what it exports.
package clean

//apisurface:public Open

func Open() {}

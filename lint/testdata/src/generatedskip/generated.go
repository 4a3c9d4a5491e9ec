// Code generated by hand for tests. DO NOT EDIT.

package generatedskip

//apisurface:public Nothing

func Generated() {}

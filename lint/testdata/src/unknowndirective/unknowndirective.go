package unknowndirective

//apisurface:exports Run // want `unknown apisurface directive "exports"`

func Run() {}

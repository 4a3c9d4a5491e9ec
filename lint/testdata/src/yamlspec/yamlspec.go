package yamlspec // want `public API for yamlspec: extra: Stop`

func Run() {}

func Stop() {}

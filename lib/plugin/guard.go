package plugin

// Every call into module code goes through one of these functions. A panic
// raised by the module is recovered and returned as an *InstallError so it
// never reaches the caller of the Loader.

func callInstall(module string, install InstallFunc, ctx uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InstallError{Module: module, Symbol: InstallSymbol, Panic: r}
		}
	}()

	if !install(ctx) {
		return &InstallError{Module: module, Symbol: InstallSymbol}
	}
	return nil
}

func callName(module, symbol string, fn NameFunc) (s string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InstallError{Module: module, Symbol: symbol, Panic: r}
		}
	}()
	return fn(), nil
}

func callCreateService(module string, create CreateServiceFunc) (h uintptr, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &InstallError{Module: module, Symbol: ServiceSymbol, Panic: r}
		}
	}()
	return create(), nil
}

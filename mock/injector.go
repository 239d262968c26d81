package mock

import "fmt"

// Injector records scripts added to a tab
type Injector struct {
	AddScriptFn     func(source string) (string, error)
	AddScriptCalled bool
	Scripts         []string
}

// AddScript records the source and calls AddScriptFn
func (i *Injector) AddScript(source string) (string, error) {
	i.AddScriptCalled = true
	i.Scripts = append(i.Scripts, source)
	return i.AddScriptFn(source)
}

// MakeMockInjector that succeeds with sequential identifiers
func MakeMockInjector() *Injector {
	i := &Injector{Scripts: make([]string, 0)}
	i.AddScriptFn = func(source string) (string, error) {
		return fmt.Sprintf("%d", len(i.Scripts)), nil
	}
	return i
}

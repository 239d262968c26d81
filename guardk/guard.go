package guardk

// Injector adds a script that runs in every new document before any page script
type Injector interface {
	AddScript(source string) (identifier string, err error)
}

// Guard is a startup collaborator installed once, before the request filter is registered
type Guard interface {
	Name() string
	Install(inj Injector) error
}

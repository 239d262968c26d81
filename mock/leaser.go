package mock

// Leaser for testing host startup without chrome
type Leaser struct {
	AcquireFn     func() (string, error)
	AcquireCalled bool

	ReturnFn     func(port string) error
	ReturnCalled bool

	CleanupFn     func() (string, error)
	CleanupCalled bool
}

func (l *Leaser) Acquire() (string, error) {
	l.AcquireCalled = true
	return l.AcquireFn()
}

func (l *Leaser) Return(port string) error {
	l.ReturnCalled = true
	return l.ReturnFn(port)
}

func (l *Leaser) Cleanup() (string, error) {
	l.CleanupCalled = true
	return l.CleanupFn()
}

// MakeMockLeaser hands out a fixed port
func MakeMockLeaser(port string) *Leaser {
	l := &Leaser{}
	l.AcquireFn = func() (string, error) { return port, nil }
	l.ReturnFn = func(port string) error { return nil }
	l.CleanupFn = func() (string, error) { return "ok", nil }
	return l
}

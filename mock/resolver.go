package mock

import "sync"

// Resolver records how intercepted requests were resolved
type Resolver struct {
	mu        sync.Mutex
	Continued []string
	Failed    map[string]string // request id -> error reason

	ContinueFn func(requestID string) error
	FailFn     func(requestID, reason string) error
}

// Continue records the request as allowed
func (r *Resolver) Continue(requestID string) error {
	r.mu.Lock()
	r.Continued = append(r.Continued, requestID)
	r.mu.Unlock()
	return r.ContinueFn(requestID)
}

// Fail records the request as cancelled
func (r *Resolver) Fail(requestID, reason string) error {
	r.mu.Lock()
	r.Failed[requestID] = reason
	r.mu.Unlock()
	return r.FailFn(requestID, reason)
}

// MakeMockResolver that never errors
func MakeMockResolver() *Resolver {
	r := &Resolver{
		Continued: make([]string, 0),
		Failed:    make(map[string]string),
	}
	r.ContinueFn = func(requestID string) error { return nil }
	r.FailFn = func(requestID, reason string) error { return nil }
	return r
}

package host

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/wirepair/gcd"
)

type leased struct {
	browser *gcd.Gcd
	profile string
}

// LocalLeaser starts chrome (or nwjs) processes on this machine. It only ever
// removes profiles it created itself.
type LocalLeaser struct {
	mu       sync.Mutex
	browsers map[string]*leased
	stale    []string // profiles of returned browsers
	chrome   string
	flags    []string
	base     string
}

// NewLocalLeaser for the given chrome binary, empty uses FindChrome
func NewLocalLeaser(chrome, dataPath string, flags []string) *LocalLeaser {
	found, tmp := FindChrome()
	if chrome == "" {
		chrome = found
	}
	if dataPath != "" {
		tmp = dataPath
	}
	if abs, err := filepath.Abs(tmp); err == nil {
		tmp = abs
	}
	return &LocalLeaser{
		browsers: make(map[string]*leased),
		chrome:   chrome,
		flags:    flags,
		base:     tmp,
	}
}

// Acquire starts a new browser process and returns its debugger port
func (s *LocalLeaser) Acquire() (string, error) {
	if !ChromeExists(s.chrome) {
		return "", errors.Wrap(ErrChromeNotFound, s.chrome)
	}

	profile, err := newProfile(s.base)
	if err != nil {
		return "", err
	}
	port, err := freePort()
	if err != nil {
		os.RemoveAll(profile)
		return "", err
	}

	b := gcd.NewChromeDebugger()
	b.DeleteProfileOnExit()
	b.AddFlags(s.flags)
	if err := b.StartProcess(s.chrome, profile, port); err != nil {
		os.RemoveAll(profile)
		return "", errors.Wrap(err, "failed to start chrome")
	}

	s.mu.Lock()
	s.browsers[port] = &leased{browser: b, profile: profile}
	s.mu.Unlock()
	return port, nil
}

// Return stops the browser listening on port
func (s *LocalLeaser) Return(port string) error {
	s.mu.Lock()
	l, ok := s.browsers[port]
	delete(s.browsers, port)
	s.mu.Unlock()

	if !ok {
		return errors.Wrap(ErrUnknownPort, port)
	}

	err := l.browser.ExitProcess()
	s.mu.Lock()
	s.stale = append(s.stale, l.profile)
	s.mu.Unlock()
	return err
}

// Cleanup removes any profile a returned browser left behind. Running
// browsers and other sessions under the same base are untouched.
func (s *LocalLeaser) Cleanup() (string, error) {
	s.mu.Lock()
	profiles := s.stale
	s.stale = nil
	s.mu.Unlock()

	for _, profile := range profiles {
		if !s.owns(profile) {
			continue
		}
		if err := os.RemoveAll(profile); err != nil {
			return "", err
		}
	}
	return "ok", nil
}

// owns is true when profile sits directly inside the leaser's base directory
func (s *LocalLeaser) owns(profile string) bool {
	return profile != "" && filepath.Dir(profile) == s.base
}

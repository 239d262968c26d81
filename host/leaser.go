package host

import (
	"io/ioutil"
	"net"
	"os"

	"github.com/pkg/errors"
)

// LeaserService hands out running browsers by debugger port
type LeaserService interface {
	Acquire() (string, error) // returns port number
	Return(port string) error
	Cleanup() (string, error)
}

// freePort asks the kernel for an unused tcp port
func freePort() (string, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return "", errors.Wrap(err, "unable to find a free debugger port")
	}
	defer l.Close()

	_, port, err := net.SplitHostPort(l.Addr().String())
	return port, err
}

// newProfile creates a fresh profile directory under base. The returned path
// is always absolute and inside base, chrome deletes it on exit.
func newProfile(base string) (string, error) {
	if err := os.MkdirAll(base, 0700); err != nil {
		return "", errors.Wrap(err, "failed to create profile base directory")
	}
	profile, err := ioutil.TempDir(base, "gcd")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temporary profile directory")
	}
	if profile == "" {
		return "", ErrEmptyProfile
	}
	return profile, nil
}

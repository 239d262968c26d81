package host

import (
	"github.com/pkg/errors"
)

// BlockedByClient is the network error reason chrome reports for cancelled requests
const BlockedByClient = "BlockedByClient"

// TabDisconnectedHandler is called when the tab crashes or the inspector was disconnected
type TabDisconnectedHandler func(tab *Tab, reason string)

// revive:exported
var (
	ErrNavigationTimedOut = errors.New("navigation timed out")
	ErrTabCrashed         = errors.New("tab crashed")
	ErrTabClosing         = errors.New("closing")
	ErrNavigating         = errors.New("error in navigation")
	ErrChromeNotFound     = errors.New("chrome binary not found")
	ErrMissingRequestID   = errors.New("paused request has no request id")
	ErrNotStarted         = errors.New("host not started")
	ErrUnknownPort        = errors.New("no browser leased on port")
	ErrEmptyProfile       = errors.New("profile directory path was empty")
)

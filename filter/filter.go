// Package filter decides whether an outbound request may leave the host
// based on its url scheme alone.
package filter

import (
	"strings"

	"gitlab.com/schemeguard/guardk"
)

// Trusted schemes, anything else is denied.
const (
	SchemeFile            = "file"
	SchemeChromeExtension = "chrome-extension"
)

// Classify a url. Input without a valid scheme is unparseable and allowed.
// Once a scheme is found the rest of the url is not validated: the browser
// accepts paths and userinfo that stricter parsers reject, and those
// requests still leave the host.
func Classify(rawurl string) guardk.Decision {
	scheme, ok := Scheme(rawurl)
	if !ok {
		return guardk.Allow
	}

	switch scheme {
	case SchemeFile, SchemeChromeExtension:
		return guardk.Allow
	}
	return guardk.Deny
}

// Scheme returns the lower cased scheme of rawurl, the part before the first
// ':' matching ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ). Leading and
// trailing C0 controls and spaces are ignored and tab/newline characters are
// removed, as the browser's url parser does.
func Scheme(rawurl string) (string, bool) {
	s := strings.TrimFunc(rawurl, func(r rune) bool { return r <= ' ' })
	s = strings.NewReplacer("\t", "", "\n", "", "\r", "").Replace(s)

	end := strings.IndexByte(s, ':')
	if end <= 0 {
		return "", false
	}

	for i := 0; i < end; i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return "", false
		}
	}
	return strings.ToLower(s[:end]), true
}

// Handler wraps a classifier for the request chain. A deny cancels the
// request and stops the remaining handlers.
func Handler(classify guardk.Classifier) guardk.RequestHandler {
	return func(c *guardk.Context) {
		if classify(c.Request.URL) == guardk.Deny {
			c.Response.Cancel = true
			c.ReqAbort()
		}
	}
}

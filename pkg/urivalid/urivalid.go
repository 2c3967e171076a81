// Package urivalid validates operator-supplied URIs with stricter rules than
// a bare parse and can probe whether the URI's host is currently reachable.
//
// Validation is mostly about catching typos and obvious configuration
// mistakes early: a missing scheme, a URN where a URL was expected, a URL
// with no host. The reachability probe is a startup diagnostic only; it
// warns and never fails.
package urivalid

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// reachTimeout bounds the host reachability probe.
const reachTimeout = 30 * time.Second

// SyntaxError reports a URI that failed syntax validation.
type SyntaxError struct {
	// Input is the original URI string.
	Input string

	// Reason describes why validation failed.
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid URI %q: %s", e.Input, e.Reason)
}

// ValidatedURI wraps a syntactically checked, absolute, host-bearing URL.
// Once constructed, Host is guaranteed non-empty. The zero value is not
// usable; Validate is the only constructor.
type ValidatedURI struct {
	u *url.URL
}

// Validate checks uriString and returns a ValidatedURI on success.
//
// The checks run in order, each gating the next:
//
//  1. reject empty input,
//  2. a basic URL-shape check with readable diagnostics, which also rejects
//     URN-style and relative references,
//  3. a stricter parse that catches percent-encoding problems the shape
//     check misses, re-confirmed to be an absolute URL,
//  4. reject a URL with no host component.
func Validate(uriString string) (*ValidatedURI, error) {
	if uriString == "" {
		return nil, &SyntaxError{Input: uriString, Reason: "null or empty URI"}
	}

	if reason := checkURLShape(uriString); reason != "" {
		return nil, &SyntaxError{Input: uriString, Reason: reason}
	}

	u, err := url.Parse(uriString)
	if err != nil {
		return nil, &SyntaxError{Input: uriString, Reason: parseReason(err, uriString)}
	}
	if !u.IsAbs() || u.Opaque != "" {
		return nil, &SyntaxError{Input: uriString, Reason: "not an absolute URL"}
	}

	if u.Hostname() == "" {
		return nil, &SyntaxError{Input: uriString, Reason: "no host"}
	}

	return &ValidatedURI{u: u}, nil
}

// checkURLShape performs a cheap structural check with messages aimed at
// common operator typos. Returns an empty string when the shape is fine.
func checkURLShape(uriString string) string {
	scheme, rest, ok := strings.Cut(uriString, ":")
	if !ok || scheme == "" {
		return "missing scheme"
	}
	if strings.ContainsAny(scheme, "/?#") {
		// A slash before the first colon means the "scheme" was really a
		// path segment, i.e. a relative reference.
		return "missing scheme"
	}
	if !strings.HasPrefix(rest, "//") {
		return "not a hierarchical URL"
	}
	return ""
}

// parseReason extracts the parser's reason for failure, stripped of any
// repetition of the original input string for readability.
func parseReason(err error, uriString string) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	reason := err.Error()
	if i := strings.LastIndex(reason, ": "+uriString); i >= 0 {
		reason = reason[:i]
	}
	return reason
}

// Host returns the URI's host component. Non-empty by construction.
func (v *ValidatedURI) Host() string {
	return v.u.Hostname()
}

// String returns the validated URI.
func (v *ValidatedURI) String() string {
	return v.u.String()
}

// URL returns a copy of the parsed URL.
func (v *ValidatedURI) URL() *url.URL {
	u := *v.u
	return &u
}

// LogUnreachableHost resolves the URI's host and probes it with a bounded
// TCP dial. Any resolution failure, dial failure, or timeout is logged as a
// warning naming the host and URI; nothing is ever returned to the caller.
// The probe blocks for up to 30 seconds and is meant for startup
// diagnostics, not request paths.
func (v *ValidatedURI) LogUnreachableHost(logger hclog.Logger) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	host := v.u.Hostname()
	addrs, err := net.LookupHost(host)
	if err != nil || len(addrs) == 0 {
		logger.Warn("host is not reachable",
			"host", host,
			"uri", v.u.String(),
			"error", err,
		)
		return
	}

	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, v.probePort()), reachTimeout)
	if err != nil {
		logger.Warn("host is not reachable",
			"host", host,
			"uri", v.u.String(),
			"error", err,
		)
		return
	}
	conn.Close()
}

// probePort returns the URI's explicit port, or the scheme default.
func (v *ValidatedURI) probePort() string {
	if p := v.u.Port(); p != "" {
		return p
	}
	switch v.u.Scheme {
	case "https":
		return "443"
	case "ftp":
		return "21"
	default:
		return "80"
	}
}

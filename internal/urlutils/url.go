// Package urlutils provides the string-level URL rewriting used to
// authenticate template clones.
//
// The rewrite is deliberately not a URL parser: the token is inserted right
// after the scheme separator, so "https://github.com/org/tmpl.git" becomes
// "https://TOKEN@github.com/org/tmpl.git" and nothing else in the input
// changes.
package urlutils

import (
	"errors"
	"fmt"
	"strings"
)

// SchemeSeparator separates a URL scheme from the rest of the URL.
const SchemeSeparator = "://"

var (
	// ErrEmptyToken indicates that an empty token was provided
	ErrEmptyToken = errors.New("empty token provided")

	// ErrMissingScheme indicates that the URL has no "scheme://" prefix
	ErrMissingScheme = errors.New("URL must start with a scheme such as https://")
)

// InjectToken returns rawURL with "token@" inserted immediately after the
// first scheme separator.
func InjectToken(rawURL, token string) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}

	scheme, rest, ok := splitScheme(rawURL)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingScheme, rawURL)
	}

	return scheme + SchemeSeparator + token + "@" + rest, nil
}

// Redact hides the user info of a URL so it can be printed or logged.
// URLs without user info are returned unchanged.
func Redact(rawURL string) string {
	scheme, rest, ok := splitScheme(rawURL)
	if !ok {
		return rawURL
	}

	// User info ends at the last '@' before the first path separator
	authority := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		authority = rest[:i]
	}
	at := strings.LastIndexByte(authority, '@')
	if at < 0 {
		return rawURL
	}

	return scheme + SchemeSeparator + "***" + rest[at:]
}

// splitScheme splits rawURL around the first scheme separator
func splitScheme(rawURL string) (scheme, rest string, ok bool) {
	i := strings.Index(rawURL, SchemeSeparator)
	if i <= 0 {
		return "", "", false
	}
	return rawURL[:i], rawURL[i+len(SchemeSeparator):], true
}

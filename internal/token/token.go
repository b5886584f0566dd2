// Package token loads the access token used to authenticate template clones.
//
// Tokens are read from a dotenv-style key-value file (by default
// ~/GitHub/.env) and handed back to the caller as a value. Loading never
// touches the process environment: the file is parsed, the GITHUB_TOKEN entry
// is picked out and everything else is discarded.
//
// Example file:
//
//	GITHUB_TOKEN=ghp_abc...
package token

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	gserrors "github.com/NicabarNimble/go-gitscaffold/internal/errors"
)

const (
	// KeyGitHub is the entry holding the token in the env file
	KeyGitHub = "GITHUB_TOKEN"

	// DefaultEnvFile is where the token file lives unless configured otherwise
	DefaultEnvFile = "~/GitHub/.env"
)

// Common errors that may be returned by token operations
var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenEmpty    = errors.New("token is empty")
)

// Token represents an authentication token and where it came from
type Token struct {
	// Value is the actual token string
	Value string

	// Source is the file the token was read from
	Source string

	// Provider is the hosting service the token format belongs to, if known
	Provider Provider
}

// String describes the token without revealing its value
func (t Token) String() string {
	provider := string(t.Provider)
	if provider == "" {
		provider = "unknown"
	}
	return fmt.Sprintf("token(provider=%s, source=%s)", provider, t.Source)
}

// IsValid performs basic validation of a token
func IsValid(token Token) bool {
	return token.Value != ""
}

// Load reads the env file at path and returns the GITHUB_TOKEN entry.
// A missing file, a missing key or an empty value are configuration errors.
func Load(path string) (Token, error) {
	return LoadKey(path, KeyGitHub)
}

// LoadKey is Load for an arbitrary key.
func LoadKey(path, key string) (Token, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Token{}, gserrors.Newf(gserrors.OpConfig, "%s not found: env file %s does not exist: %w", key, path, ErrTokenNotFound)
		}
		return Token{}, gserrors.Newf(gserrors.OpConfig, "failed to read env file %s: %w", path, err)
	}

	raw, ok := values[key]
	if !ok {
		return Token{}, gserrors.Newf(gserrors.OpConfig, "%s not found in %s: %w", key, path, ErrTokenNotFound)
	}

	t := Token{
		Value:  strings.TrimSpace(raw),
		Source: path,
	}
	if !IsValid(t) {
		return Token{}, gserrors.Newf(gserrors.OpConfig, "%s is set but empty in %s: %w", key, path, ErrTokenEmpty)
	}
	t.Provider = DetectProvider(t.Value)

	return t, nil
}

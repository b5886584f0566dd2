package token

import "strings"

// Provider represents a Git provider type
type Provider string

const (
	ProviderGitHub Provider = "GITHUB"
	ProviderGitLab Provider = "GITLAB"
)

// DetectProvider attempts to determine the token provider from the token format.
// Classic ghp_ and fine-grained github_pat_ tokens are GitHub, glpat- is GitLab.
func DetectProvider(tokenValue string) Provider {
	switch {
	case strings.HasPrefix(tokenValue, "ghp_"),
		strings.HasPrefix(tokenValue, "gho_"),
		strings.HasPrefix(tokenValue, "github_pat_"):
		return ProviderGitHub
	case strings.HasPrefix(tokenValue, "glpat-"):
		return ProviderGitLab
	default:
		return ""
	}
}

package services

import (
	"net/url"
	"strings"
)

// ParseCallbackFragment extracts the error fields the OAuth provider reports
// via the redirect fragment ("#error=...&error_description=...").
func ParseCallbackFragment(fragment string) (code, description string) {
	vals, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return "", ""
	}
	return vals.Get("error"), vals.Get("error_description")
}

// FriendlyOAuthError maps a provider redirect error to the message shown to
// the user. X refusing to share an email is common enough to deserve a
// softer message; everything else passes through verbatim.
func FriendlyOAuthError(code, description string) string {
	if code == "" {
		return ""
	}
	if strings.Contains(strings.ToLower(description), "email") {
		return "X did not share your email address, but you may still be signed in. Try reconnecting."
	}
	if description != "" {
		return description
	}
	return code
}

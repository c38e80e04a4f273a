package entity

import (
	"net/url"
	"strings"
)

// SessionArtifacts are the provider tokens carried back on a redirect
// fragment. The refresh token is optional.
type SessionArtifacts struct {
	AccessToken  string
	RefreshToken string
}

// ParseFragment extracts session artifacts from a redirect fragment such as
// "#access_token=..&refresh_token=..". A fragment that is malformed or does
// not carry an access token yields (nil, false) rather than an error: the
// absence of artifacts is an ordinary state of the resolution flow, not a
// failure.
func ParseFragment(fragment string) (*SessionArtifacts, bool) {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return nil, false
	}

	accessToken := values.Get("access_token")
	if accessToken == "" {
		return nil, false
	}

	return &SessionArtifacts{
		AccessToken:  accessToken,
		RefreshToken: values.Get("refresh_token"),
	}, true
}

// Package session owns the locally cached credential state: the access/refresh
// token pair and the authenticated user record. The Manager is the sole
// mutator; everything else reads through it.
package session

import "github.com/Hernannavarro13/psystock-go/apimodel"

// Session is the credential record for the current user. An empty Session
// means nobody is logged in.
type Session struct {
	AccessToken  string         `json:"access_token,omitempty"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	User         *apimodel.User `json:"user,omitempty"`
}

// Authenticated reports whether an access token is present. It says nothing
// about whether the backend still accepts the token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

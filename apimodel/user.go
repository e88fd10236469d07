package apimodel

import "time"

// User is the account record returned by the backend. It is passed through
// unmodified; the client never derives fields from it.
type User struct {
	ID        int64     `json:"id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Balance   float64   `json:"balance,omitempty"` // paper-trading cash, seeded by the backend
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// AuthResponse is the body returned by the login and registration endpoints.
// The user record is included by the backend's custom token serializer.
type AuthResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user,omitempty"`
}

// RefreshResponse is the body returned by the token refresh endpoint. A
// rotated refresh token is only present when the backend rotates on refresh.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Registration is the payload for creating a new account.
type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// ProfileUpdate is a partial update of the current user's profile. Nil fields
// are omitted from the request.
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

package gateway

import "net/url"

// requestState tracks where a request is in its refresh-and-retry lifecycle.
// The transitions make "retry at most once" structural: only a Pending request
// may enter AwaitingRefresh, and a Retried request that fails authorization
// again can only move to Failed.
type requestState int

const (
	statePending requestState = iota
	stateAwaitingRefresh
	stateRetried
	stateSucceeded
	stateFailed
)

// Request describes one outbound API call. A Request is single use; create a
// new one per call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}

	state requestState
}

// NewRequest returns a request in the Pending state.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path, state: statePending}
}

// WithQuery sets the query parameters.
func (r *Request) WithQuery(query url.Values) *Request {
	r.Query = query
	return r
}

// WithBody sets the JSON request body.
func (r *Request) WithBody(body interface{}) *Request {
	r.Body = body
	return r
}

// Retried reports whether the request has already been resent after a token
// refresh.
func (r *Request) Retried() bool {
	return r.state == stateRetried
}

package appcenter

import "fmt"

// NetworkError reports a request that never got an HTTP response
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request to %s failed: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError reports a non-success HTTP status from the service
type RemoteError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: service returned %d: %s", e.Op, e.StatusCode, e.Body)
}

// Response is the raw status and body of a call whose success the caller
// decides on.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns a *RemoteError for a non-2xx response, nil otherwise
func (r *Response) Err(op string) error {
	if r.OK() {
		return nil
	}
	return &RemoteError{Op: op, StatusCode: r.StatusCode, Body: string(r.Body)}
}

package github

import (
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v80/github"
)

// UpstreamError reports a failed GitHub API call. StatusCode is 0 when no
// response was received (timeout, connection failure).
type UpstreamError struct {
	Op         string
	StatusCode int
	Status     string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("github: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("github: %s: %d %s: %v", e.Op, e.StatusCode, e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func newUpstreamError(op string, resp *gh.Response, err error) *UpstreamError {
	ue := &UpstreamError{Op: op, Err: err}
	if resp != nil && resp.Response != nil {
		ue.StatusCode = resp.StatusCode
		ue.Status = http.StatusText(resp.StatusCode)
	}
	return ue
}

// Package users is the client for the external users service. The loan
// coordinator only ever asks it whether a user exists.
package users

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Status is the outcome of a user existence check.
type Status int

const (
	// StatusValid means the users service confirmed the user exists.
	StatusValid Status = iota
	// StatusNotFound means the users service explicitly reported no such user.
	StatusNotFound
	// StatusUnreachable means the check could not be completed. Callers must
	// treat this as a failure, never as an implicit StatusValid.
	StatusUnreachable
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "VALID"
	case StatusNotFound:
		return "NOT_FOUND"
	default:
		return "UNREACHABLE"
	}
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewClient(baseURL string, userAgent string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}

// Verify performs a single existence check for userID. A 200 is Valid, a
// clean 404 is NotFound, and everything else, including transport errors and
// timeouts, is Unreachable with the underlying cause in err. No retries:
// retry policy belongs to the caller.
func (c *Client) Verify(ctx context.Context, userID int64) (Status, error) {
	u := fmt.Sprintf("%s/api/users/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return StatusUnreachable, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusUnreachable, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return StatusValid, nil
	case resp.StatusCode == http.StatusNotFound:
		return StatusNotFound, nil
	default:
		return StatusUnreachable, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

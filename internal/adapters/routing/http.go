package routing

import (
	"context"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// client wraps the shared request/retry plumbing of the HTTP providers.
type client struct {
	session *http.Client
	headers map[string]string
	backoff time.Duration
}

func newClient(timeout time.Duration, headers map[string]string) *client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		session: &http.Client{Timeout: timeout},
		headers: headers,
		backoff: 200 * time.Millisecond,
	}
}

func (c *client) newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx)
// with exponential backoff while respecting context cancellation.
func (c *client) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	const maxAttempts = 4
	backoff := c.backoff

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := c.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}

func retryable(err error) bool {
	var he *httpStatusError
	if errors.As(err, &he) {
		switch he.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// classify maps a failed provider call onto the domain error kinds.
// Client errors mean the request itself cannot be routed; everything else
// is treated as the provider being unreachable.
func classify(op string, err error) error {
	if clientError(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrRouting, err)
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrConnectivity, err)
}

// clientError reports a 4xx response other than 429.
func clientError(err error) bool {
	var he *httpStatusError
	return errors.As(err, &he) && he.Code >= 400 && he.Code < 500 && he.Code != 429
}

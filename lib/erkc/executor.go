package erkc

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// Laravel-style portals answer an expired csrf token with 419, which
// is an auth-expiry signal rather than a caller mistake.
const statusSessionExpired = 419

func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF)
}

// execute runs one logical request through the rate limiter and the
// retry schedule: exponential backoff with jitter, transient failures
// only. Non-transient statuses fail on the first attempt.
func (c *Client) execute(
	ctx context.Context,
	client *resty.Client,
	do func(*resty.Request) (*resty.Response, error),
) (*resty.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.RetryInitialInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(c.opts.MaxAttempts-1)),
		ctx,
	)

	return backoff.RetryWithData(func() (*resty.Response, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}

		res, err := do(client.R().SetContext(ctx))
		if err != nil {
			reqErr := &RequestError{Err: err}
			if isTransient(err) {
				return nil, reqErr
			}
			return nil, backoff.Permanent(reqErr)
		}

		status := res.StatusCode()
		switch {
		case status >= http.StatusInternalServerError:
			return nil, &RequestError{StatusCode: status}
		case status == statusSessionExpired:
			// surfaced as a response so fetch can run its
			// refresh-and-retry cycle
			return res, nil
		case status >= http.StatusBadRequest:
			return nil, backoff.Permanent(&RequestError{StatusCode: status})
		}
		return res, nil
	}, policy)
}

// fetch performs an authenticated request. An auth-expiry response
// triggers exactly one session refresh and one replay, never a loop.
func (c *Client) fetch(
	ctx context.Context,
	do func(*resty.Request) (*resty.Response, error),
) (*resty.Response, error) {
	gen, err := c.acquireSession(ctx)
	if err != nil {
		return nil, err
	}

	res, err := c.execute(ctx, c.http, do)
	if err != nil {
		return nil, err
	}
	if !sessionExpiredResponse(res) {
		return res, nil
	}

	if err := c.refreshSession(ctx, gen); err != nil {
		return nil, err
	}
	res, err = c.execute(ctx, c.http, do)
	if err != nil {
		return nil, err
	}
	if sessionExpiredResponse(res) {
		return nil, &AuthError{Reason: "session expired immediately after refresh"}
	}
	return res, nil
}

// sessionExpiredResponse recognizes the portal's auth-expiry marker: a
// redirect landing back on the login page, or the csrf-expired status.
func sessionExpiredResponse(res *resty.Response) bool {
	if res.StatusCode() == statusSessionExpired {
		return true
	}
	return finalPath(res) == loginPath
}

package erkc

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"erkc63-client/lib/timezone"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

type sessionState int

const (
	stateUnauthenticated sessionState = iota
	stateAuthenticated
	stateExpired
	stateClosed
)

// session is the single authenticated context shared by every
// operation. All mutation happens under mu; the generation counter
// lets concurrent callers tell whether someone else already refreshed
// while they were in flight.
type session struct {
	mu         sync.Mutex
	state      sessionState
	csrf       string
	accounts   []int64
	expiresAt  time.Time
	generation uint64
}

// acquireSession returns the generation of a valid session, logging in
// or refreshing first when there is none or the held one is stale.
func (c *Client) acquireSession(ctx context.Context) (uint64, error) {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()

	switch c.session.state {
	case stateClosed:
		return 0, &AuthError{Reason: "client is closed"}
	case stateAuthenticated:
		if timezone.Now().Before(c.session.expiresAt) {
			return c.session.generation, nil
		}
		c.session.state = stateExpired
	}

	if err := c.login(ctx); err != nil {
		return 0, err
	}
	return c.session.generation, nil
}

// refreshSession re-authenticates after an auth-expiry response. gen
// is the generation the caller made its request under; if another
// caller already refreshed past it this is a no-op.
func (c *Client) refreshSession(ctx context.Context, gen uint64) error {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()

	if c.session.state == stateClosed {
		return &AuthError{Reason: "client is closed"}
	}
	if c.session.generation != gen {
		return nil
	}
	c.session.state = stateExpired
	return c.login(ctx)
}

// login must be called with session.mu held. It is all-or-nothing:
// nothing on the client mutates until the portal confirms the login,
// a second consecutive credential rejection surfaces as AuthError.
func (c *Client) login(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:login")
	defer span.End()

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		csrf, accounts, jar, err := c.loginOnce(ctx)
		if err == nil {
			c.http.SetCookieJar(jar)
			c.session.csrf = csrf
			c.session.accounts = accounts
			c.session.state = stateAuthenticated
			c.session.expiresAt = timezone.Now().Add(c.opts.SessionLifetime)
			c.session.generation++
			return nil
		}
		lastErr = err

		// transport and layout problems are not credential
		// rejections, submitting the same form again won't help
		var authErr *AuthError
		if !errors.As(err, &authErr) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "login failed")
			c.session.state = stateUnauthenticated
			return err
		}
	}

	span.SetStatus(codes.Error, "credentials rejected twice")
	c.session.state = stateUnauthenticated
	return lastErr
}

// loginOnce performs the full login exchange against a fresh cookie
// jar, leaving the shared client untouched until the caller commits.
func (c *Client) loginOnce(ctx context.Context) (string, []int64, http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", nil, nil, err
	}

	login := resty.NewWithClient(&http.Client{
		Transport: c.http.GetClient().Transport,
		Jar:       jar,
	})
	login.SetBaseURL(c.opts.BaseUrl)
	login.SetHeader("user-agent", userAgent)
	login.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.baseUrl.Hostname()))
	login.SetTimeout(time.Second * 30)

	res, err := c.execute(ctx, login, func(req *resty.Request) (*resty.Response, error) {
		return req.Get(loginPath)
	})
	if err != nil {
		return "", nil, nil, err
	}
	doc, err := newDocument(res.Body())
	if err != nil {
		return "", nil, nil, err
	}
	csrf, err := parseCsrfToken(doc)
	if err != nil {
		return "", nil, nil, err
	}

	form := url.Values{}
	form.Set("_token", csrf)
	form.Set("username", c.opts.Username)
	form.Set("password", c.opts.Password)

	res, err = c.execute(ctx, login, func(req *resty.Request) (*resty.Response, error) {
		return req.
			SetBody(form.Encode()).
			SetHeader("content-type", "application/x-www-form-urlencoded").
			Post(loginPath)
	})
	if err != nil {
		return "", nil, nil, err
	}
	doc, err = newDocument(res.Body())
	if err != nil {
		return "", nil, nil, err
	}
	if finalPath(res) == loginPath || isLoginDocument(doc) {
		return "", nil, nil, &AuthError{Reason: "credentials rejected by the portal"}
	}

	// the post-login dashboard carries both the account switcher and
	// a fresh csrf token
	accounts, err := parseAccounts(doc)
	if err != nil {
		return "", nil, nil, err
	}
	if dashboardCsrf, err := parseCsrfToken(doc); err == nil {
		csrf = dashboardCsrf
	}

	return csrf, accounts, jar, nil
}

func finalPath(res *resty.Response) string {
	raw := res.RawResponse
	if raw == nil || raw.Request == nil || raw.Request.URL == nil {
		return ""
	}
	return raw.Request.URL.Path
}

// csrfToken returns the token of the current session, empty when
// unauthenticated.
func (c *Client) csrfToken() string {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	return c.session.csrf
}

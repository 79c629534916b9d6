package erkc

import (
	"context"
	"net/http/cookiejar"
	"net/url"
	"time"

	"erkc63-client/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/erkc")

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	BaseUrl  string
	Username string
	Password string

	// number of attempts per request, transient failures only (default 3)
	MaxAttempts int
	// first backoff delay between attempts (default 250ms)
	RetryInitialInterval time.Duration
	// minimum spacing between outbound requests: the portal bans
	// accounts that hammer it (default 500ms)
	MinRequestInterval time.Duration
	// how long a login is trusted before refreshing (default 20m)
	SessionLifetime time.Duration

	// optional dump target for raw HTTP messages
	InstrumentOutput restyutil.InstrumentOutput
}

func (o *ClientOptions) setDefaults() {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.RetryInitialInterval <= 0 {
		o.RetryInitialInterval = 250 * time.Millisecond
	}
	if o.MinRequestInterval <= 0 {
		o.MinRequestInterval = 500 * time.Millisecond
	}
	if o.SessionLifetime <= 0 {
		o.SessionLifetime = 20 * time.Minute
	}
}

// Client is a personal-account client for the ЕРКЦ portal. It logs in
// lazily on the first operation and keeps the session alive across
// calls. Safe for concurrent use.
type Client struct {
	baseUrl *url.URL
	http    *resty.Client
	limiter *rate.Limiter
	opts    ClientOptions

	session session
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	opts.setDefaults()

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, tracer, opts.InstrumentOutput)

	c := &Client{
		baseUrl: baseUrl,
		http:    client,
		limiter: rate.NewLimiter(rate.Every(opts.MinRequestInterval), 1),
		opts:    opts,
	}
	return c, nil
}

// Close terminates the session state machine. Any operation after
// Close fails with AuthError.
func (c *Client) Close() {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	c.session.state = stateClosed
}

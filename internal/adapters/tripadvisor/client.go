package tripadvisor

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"tripadvisor_hotels/internal/adapters/observability"
	"tripadvisor_hotels/internal/domain"
)

// Options is the whole transport configuration. Nothing is read from globals.
type Options struct {
	BaseURL  string
	Headers  map[string]string
	Cookies  []*http.Cookie
	Timeout  time.Duration
	MaxConns int
	HTTP2    bool
	// RPS enables a client-side limiter when > 0.
	RPS float64
}

// DefaultPageOptions matches the client used for hotel and review pages.
func DefaultPageOptions() Options {
	return Options{
		BaseURL: DefaultBaseURL,
		Headers: copyHeaders(pageHeaders),
		Timeout: 15 * time.Second,
	}
}

// DefaultLocationOptions matches the client used for typeahead lookups and search pages.
func DefaultLocationOptions() Options {
	cookies := make([]*http.Cookie, len(sessionCookies))
	copy(cookies, sessionCookies)
	return Options{
		BaseURL:  DefaultBaseURL,
		Headers:  copyHeaders(browserHeaders),
		Cookies:  cookies,
		Timeout:  150 * time.Second,
		MaxConns: 5,
		HTTP2:    true,
	}
}

type Client struct {
	base string
	hc   *resty.Client
	rl   *rate.Limiter
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if opts.MaxConns > 0 {
		tr.MaxConnsPerHost = opts.MaxConns
		tr.MaxIdleConnsPerHost = opts.MaxConns
	}
	if opts.HTTP2 {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, fmt.Errorf("configure http2: %w", err)
		}
	}

	hc := resty.New().
		SetTransport(tr).
		SetTimeout(opts.Timeout).
		SetHeaders(opts.Headers).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	if len(opts.Cookies) > 0 {
		hc.SetCookies(opts.Cookies)
	}

	c := &Client{base: strings.TrimRight(opts.BaseURL, "/"), hc: hc}
	if opts.RPS > 0 {
		burst := int(opts.RPS)
		if burst < 1 {
			burst = 1
		}
		c.rl = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}
	return c, nil
}

// BaseURL is the site root every relative path is resolved against.
func (c *Client) BaseURL() string { return c.base }

// Fetch issues one GET. Non-2xx statuses are returned in the Page, not as errors;
// callers decide what a bad status means.
func (c *Client) Fetch(ctx context.Context, u string) (domain.Page, error) {
	if err := c.wait(ctx); err != nil {
		return domain.Page{}, err
	}
	start := time.Now()
	res, err := c.hc.R().SetContext(ctx).Get(u)
	if err != nil {
		observability.ObserveExternal("tripadvisor", endpointOf(u), 0, time.Since(start))
		return domain.Page{}, fmt.Errorf("get %s: %w", u, err)
	}
	observability.ObserveExternal("tripadvisor", endpointOf(u), res.StatusCode(), time.Since(start))

	final := u
	if res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		final = res.RawResponse.Request.URL.String()
	}
	return domain.Page{URL: final, Status: res.StatusCode(), Body: res.Body()}, nil
}

// PostJSON sends payload as a JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, u string, payload any, headers map[string]string, out any) (int, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal payload: %w", err)
	}

	start := time.Now()
	res, err := c.hc.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(u)
	if err != nil {
		observability.ObserveExternal("tripadvisor", endpointOf(u), 0, time.Since(start))
		return 0, fmt.Errorf("post %s: %w", u, err)
	}
	observability.ObserveExternal("tripadvisor", endpointOf(u), res.StatusCode(), time.Since(start))

	if res.StatusCode() != http.StatusOK {
		return res.StatusCode(), &domain.BlockedError{URL: u, Status: res.StatusCode()}
	}
	if out != nil {
		if err := json.Unmarshal(res.Body(), out); err != nil {
			return res.StatusCode(), fmt.Errorf("decode %s: %w", u, err)
		}
	}
	return res.StatusCode(), nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.rl == nil {
		return nil
	}
	return c.rl.Wait(ctx)
}

const requestIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// RequestID returns n random lowercase letters and digits, used as a per-request
// client identifier on the typeahead endpoint.
func RequestID(n int) string {
	buf := make([]byte, n)
	_, _ = crand.Read(buf)
	for i, b := range buf {
		buf[i] = requestIDAlphabet[int(b)%len(requestIDAlphabet)]
	}
	return string(buf)
}

// endpointOf keeps the metrics label cardinality low: "/Hotel_Review-g1-d2-..." -> "/Hotel_Review".
func endpointOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "/"
	}
	p := u.Path
	if i := strings.IndexByte(p, '-'); i > 0 {
		p = p[:i]
	}
	return p
}

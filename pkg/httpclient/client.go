package httpclient

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "newsboard/1.0 (+https://github.com/Adda-Baaj/newsboard)"

// Client is the minimal HTTP surface used by newsboard components.
type Client interface {
	Get(ctx context.Context, url string, query, headers map[string]string) (*resty.Response, error)
	Post(ctx context.Context, url string, body []byte, headers map[string]string) (*resty.Response, error)
}

type restyClient struct {
	rc *resty.Client
}

// NewRestyClient builds a Client backed by resty with the given request timeout.
// Retries are disabled: every call is a single best-effort attempt.
func NewRestyClient(timeout time.Duration) Client {
	rc := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", defaultUserAgent)
	return &restyClient{rc: rc}
}

// Get issues a GET with query parameters and headers applied. Parameters are
// sent even when their value is empty; callers omit optional ones themselves.
func (c *restyClient) Get(ctx context.Context, url string, query, headers map[string]string) (*resty.Response, error) {
	req := c.request(ctx, headers)
	for k, v := range query {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.SetQueryParam(k, v)
	}
	return req.Get(url)
}

// Post sends body as-is.
func (c *restyClient) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*resty.Response, error) {
	return c.request(ctx, headers).SetBody(body).Post(url)
}

func (c *restyClient) request(ctx context.Context, headers map[string]string) *resty.Request {
	if ctx == nil {
		ctx = context.Background()
	}
	req := c.rc.R().SetContext(ctx)
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.SetHeader(k, v)
	}
	return req
}

package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "shipwright"
	maxResponseBytes = 16 << 20
)

// Options configure the HTTP transport shared by every collection client
type Options struct {
	BaseURL string
	// Token is sent as a bearer token when set
	Token string
	// SessionCookie is sent verbatim in the Cookie header when set
	SessionCookie     string
	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
	Logger            *slog.Logger
}

// HTTP performs requests against the admin API with the ambient session
// credentials. It holds no per-collection state and is safe for concurrent
// use.
type HTTP struct {
	base    *url.URL
	client  *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

func New(opts Options) (*HTTP, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", opts.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", opts.BaseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	var transport http.RoundTripper = &sessionTransport{
		base:      http.DefaultTransport,
		userAgent: opts.UserAgent,
		cookie:    opts.SessionCookie,
	}
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token, TokenType: "Bearer"}),
			Base:   transport,
		}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &HTTP{
		base:    base,
		client:  &http.Client{Timeout: opts.Timeout, Transport: transport},
		limiter: rate.NewLimiter(limit, 1),
		log:     opts.Logger.With("component", "remote"),
	}, nil
}

type sessionTransport struct {
	base      http.RoundTripper
	userAgent string
	cookie    string
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	if t.cookie != "" {
		r.Header.Set("Cookie", t.cookie)
	}
	return t.base.RoundTrip(r)
}

// Do sends a request to path (relative to the base url) and returns the
// response body. Every failure is a *FetchError.
func (h *HTTP) Do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Message: err.Error(), Err: err}
	}

	u := h.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &FetchError{Message: fmt.Sprintf("unable to build request: %s", err), Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	log := h.log.With("method", method, "path", u.Path, "request_id", requestID)

	resp, err := h.client.Do(req)
	if err != nil {
		log.Warn("request failed", "error", err)
		return nil, &FetchError{Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("unable to read response", "status", resp.StatusCode, "error", err)
		return nil, &FetchError{Status: resp.StatusCode, Message: "unable to read response", Err: err}
	}
	log.Debug("request done", "status", resp.StatusCode, "bytes", len(b))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode, Message: errorMessage(b, http.StatusText(resp.StatusCode))}
	}

	// a 2xx envelope can still report failure
	if ok := gjson.GetBytes(b, "ok"); ok.Exists() && ok.Type == gjson.False {
		return nil, &FetchError{Status: resp.StatusCode, Message: errorMessage(b, "request was not accepted")}
	}

	return b, nil
}

func errorMessage(body []byte, fallback string) string {
	if !gjson.ValidBytes(body) {
		return fallback
	}
	for _, path := range []string{"error.message", "error", "message"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	return fallback
}

func transportMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	return err.Error()
}

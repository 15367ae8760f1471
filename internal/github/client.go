// Package github is a read-only client for the GitHub REST endpoints the
// changelog agent consults: releases, commits, compare, tags, contributors
// and user repositories.
//
// Typed List* methods return Go errors. The *Summary methods wrap them into
// the plain-text form handed to the model, where every failure is encoded in
// the returned string and nothing is raised to the caller.
package github

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v58/github"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"
	// DefaultAPIVersion is sent in the X-GitHub-Api-Version header.
	DefaultAPIVersion = "2022-11-28"
	// AcceptHeader selects the v3 JSON media type.
	AcceptHeader = "application/vnd.github.v3+json"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	// Message is GitHub's error message from the body, if any.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status %s for url: %s (%s)", e.Status, e.URL, e.Message)
	}
	return fmt.Sprintf("unexpected status %s for url: %s", e.Status, e.URL)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	// BaseURL is the REST root, e.g. https://api.github.com or
	// https://ghe.example.com/api/v3 for GitHub Enterprise.
	BaseURL    string
	APIVersion string
	Token      string
	UserAgent  string
	// Timeout bounds each request; 0 means no timeout.
	Timeout time.Duration
	// RequestsPerSecond paces outbound calls; 0 means unlimited.
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            zerolog.Logger
}

// Client issues authenticated GET requests against the GitHub REST API
// through go-github.
type Client struct {
	gh      *gogithub.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewClient builds a Client from opts. It fails only when BaseURL cannot be
// parsed.
func NewClient(opts Options) (*Client, error) {
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: opts.Timeout}
	}
	inner := base.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}

	var transport http.RoundTripper = &headerTransport{
		base:       inner,
		apiVersion: apiVersion,
		logger:     opts.Logger,
	}
	if opts.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
			Base:   transport,
		}
	}

	gh := gogithub.NewClient(&http.Client{
		Transport:     transport,
		Timeout:       base.Timeout,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
	})

	baseURL, err := apiBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	gh.BaseURL = baseURL
	if opts.UserAgent != "" {
		gh.UserAgent = opts.UserAgent
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{gh: gh, limiter: limiter, logger: opts.Logger}, nil
}

// apiBaseURL parses raw as the REST root. go-github requires a trailing
// slash.
func apiBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		raw = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(raw, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parsing GitHub API URL %q: %w", raw, err)
	}
	return u, nil
}

// headerTransport pins the media type and API version on every request and
// logs each round-trip.
type headerTransport struct {
	base       http.RoundTripper
	apiVersion string
	logger     zerolog.Logger
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", AcceptHeader)
	req.Header.Set("X-GitHub-Api-Version", t.apiVersion)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Msg("github request")
	return resp, nil
}

// translateError maps go-github failures to the error kinds the summaries
// report: status errors, transport errors, and body decoding errors.
func translateError(resp *gogithub.Response, err error) error {
	var errResp *gogithub.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return statusError(errResp.Response, errResp.Message)
	}
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return statusError(rateErr.Response, rateErr.Message)
	}
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.Response != nil {
		return statusError(abuseErr.Response, abuseErr.Message)
	}

	if resp == nil || resp.Response == nil {
		return fmt.Errorf("making request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.Response, "")
	}
	return fmt.Errorf("decoding response: %w", err)
}

func statusError(resp *http.Response, message string) *StatusError {
	e := &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Message: message}
	if resp.Request != nil && resp.Request.URL != nil {
		e.URL = resp.Request.URL.String()
	}
	return e
}

package wordlist

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaxBodySize limits how much of the response body is read.
// The largest LDNOOBW list is a few kilobytes, so 5MB leaves plenty of room
// while protecting against a misconfigured base URL serving something huge.
const DefaultMaxBodySize = 5 * 1024 * 1024

// Source fetches word lists from a remote base URL.
type Source struct {
	// baseURL is the location under which word lists are published.
	// It never has a trailing slash.
	baseURL string

	// client performs the HTTP request.
	client *http.Client

	// userAgent is sent with every request when not empty.
	userAgent string

	// maxBodySize caps the number of body bytes that are read.
	maxBodySize int64

	logger *slog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient sets the HTTP client used for fetching.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		if client != nil {
			s.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(s *Source) {
		s.userAgent = userAgent
	}
}

// WithMaxBodySize sets the maximum number of body bytes read.
// Non-positive values keep the default.
func WithMaxBodySize(n int64) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// NewSource creates a Source for the given base URL.
func NewSource(baseURL string, opts ...Option) *Source {
	s := &Source{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      http.DefaultClient,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// URL returns the word list URL for the given language.
func (s *Source) URL(language string) string {
	return s.baseURL + "/" + url.PathEscape(language)
}

// Fetch downloads the raw word list for language.
//
// Exactly one request is made. Any transport error, any status other than
// 200 and any failure while reading the body is returned as *FetchError.
func (s *Source) Fetch(ctx context.Context, language string) ([]byte, error) {
	if strings.TrimSpace(language) == "" {
		return nil, ErrEmptyLanguage
	}

	target := s.URL(language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{URL: target, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	s.logger.Debug("fetching word list", "url", target)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	s.logger.Debug("word list fetched", "url", target, "bytes", len(body))

	return body, nil
}

package data4library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"booktrend/internal/logging"
	"booktrend/internal/metrics"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps the upstream payload; a 1200 row loan page is ~2MB.
const maxBodyBytes = 32 << 20

var (
	// ErrUnavailable covers transport failures, non-200 answers and error
	// envelopes from the upstream API.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrTimeout is returned when the upstream call exceeds its deadline.
	ErrTimeout = errors.New("upstream timeout")
	// ErrBadDocument means the body was not the expected JSON envelope.
	ErrBadDocument = fmt.Errorf("%w: malformed response document", ErrUnavailable)
	// ErrRejected means the upstream answered with an error envelope, such
	// as an exhausted quota or an unknown library code.
	ErrRejected = fmt.Errorf("%w: request rejected", ErrUnavailable)
)

// RawDocument is the undecoded content of the upstream "response" object.
type RawDocument []byte

// Query is the upstream query string, minus authKey and format.
type Query map[string]string

// Set assigns key only when value is non-empty.
func (q Query) Set(key, value string) {
	if value != "" {
		q[key] = value
	}
}

func (q Query) encode(values url.Values) {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, q[k])
	}
}

type Config struct {
	BaseURL   string
	AuthKey   string
	UserAgent string
	RPS       int
	Timeout   time.Duration
}

// Client calls the library loan statistics API. It does not retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authKey    string
	userAgent  string
	limiter    *rate.Limiter
}

func NewClient(cfg Config) *Client {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		authKey:   cfg.AuthKey,
		userAgent: cfg.UserAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

type envelope struct {
	Response json.RawMessage `json:"response"`
}

type upstreamError struct {
	Error string `json:"error"`
}

// Fetch issues one GET against endpoint and returns the unwrapped response
// document. Cancellation of ctx is returned as ctx.Err().
func (c *Client) Fetch(ctx context.Context, endpoint string, q Query) (doc RawDocument, err error) {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		metrics.UpstreamRequests.WithLabelValues(endpoint, outcome(err)).Inc()
		if err != nil {
			logging.Warn().Err(err).Str("endpoint", endpoint).Dur("elapsed", time.Since(start)).Msg("upstream fetch failed")
		}
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classify(ctx, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(endpoint, q), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classify(ctx, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Response) == 0 || string(env.Response) == "null" {
		return nil, ErrBadDocument
	}

	var uErr upstreamError
	if json.Unmarshal(env.Response, &uErr) == nil && uErr.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrRejected, uErr.Error)
	}

	return RawDocument(env.Response), nil
}

func (c *Client) requestURL(endpoint string, q Query) string {
	values := url.Values{}
	values.Set("authKey", c.authKey)
	values.Set("format", "json")
	q.encode(values)
	return fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, values.Encode())
}

// classify maps a transport error to ErrTimeout or ErrUnavailable, leaving
// caller cancellation untouched.
func classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "unavailable"
	}
}

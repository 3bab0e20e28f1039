package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "competition_api_request_total",
	Help: "The total number of requests by endpoint to the competition API",
}, []string{"method", "endpoint"})

var responseCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "competition_api_response_total",
	Help: "The total number of responses by status code from the competition API",
}, []string{"status_code"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "competition_api_request_duration_seconds",
	Help: "Duration of requests to the competition API",
}, []string{"method", "endpoint"})

const maxResponseBytes = 4 << 20

type Config struct {
	BaseURL              string
	Token                string
	Timeout              time.Duration
	MaxRequestsPerSecond float64
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to the competition API. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	token     string
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger
}

func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("competition API base URL is required")
	}
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid competition API base URL %q: %w", cfg.BaseURL, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("competition API base URL %q must be absolute", cfg.BaseURL)
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := 1
	if cfg.MaxRequestsPerSecond > 0 {
		limit = rate.Limit(cfg.MaxRequestsPerSecond)
		burst = max(int(cfg.MaxRequestsPerSecond), 1)
	}

	return &Client{
		baseURL:   baseURL,
		token:     cfg.Token,
		http:      httpClient,
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: "tournament-admin/1.0",
		logger:    logger,
	}, nil
}

// RequestArgs describes one call. Endpoint is a fmt template filled with PathParams,
// and it doubles as the metrics label so ids never end up in label values.
type RequestArgs struct {
	Endpoint    string
	Method      string
	PathParams  []any
	QueryParams url.Values
	Body        any
}

type tokenContextKey struct{}

// WithBearerToken attaches the operator's token to ctx; it is forwarded to the API
// in place of the configured service token.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey{}, token)
}

func bearerToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey{}).(string)
	return token
}

// Do sends the request and returns the raw response body of a 2xx response.
// Any other outcome is returned as *APIError.
func (c *Client) Do(ctx context.Context, args RequestArgs) (json.RawMessage, error) {
	method := args.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if args.Body != nil {
		payload, err := json.Marshal(args.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body for %s %s: %w", method, args.Endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(args), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, args.Endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := bearerToken(ctx)
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &APIError{Method: method, Endpoint: args.Endpoint, Message: err.Error(), Err: ErrTransient, cause: err}
	}

	requestCounter.WithLabelValues(method, args.Endpoint).Inc()
	start := time.Now()
	resp, err := c.http.Do(req)
	requestDuration.WithLabelValues(method, args.Endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("competition API unreachable",
			slog.String("method", method),
			slog.String("endpoint", args.Endpoint),
			slog.Any("error", err),
		)
		return nil, &APIError{Method: method, Endpoint: args.Endpoint, Message: err.Error(), Err: ErrTransient, cause: err}
	}
	defer resp.Body.Close()
	responseCounter.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Method: method, Endpoint: args.Endpoint, Message: err.Error(), Err: ErrTransient, cause: err}
	}

	if resp.StatusCode >= 400 {
		apiErr := newStatusError(resp.StatusCode, method, args.Endpoint, respBody)
		c.logger.Warn("competition API returned an error",
			slog.String("method", method),
			slog.String("endpoint", args.Endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	c.logger.Debug("competition API request completed",
		slog.String("method", method),
		slog.String("endpoint", args.Endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return respBody, nil
}

func (c *Client) buildURL(args RequestArgs) string {
	path := args.Endpoint
	if len(args.PathParams) > 0 {
		escaped := make([]any, len(args.PathParams))
		for i, p := range args.PathParams {
			escaped[i] = url.PathEscape(fmt.Sprint(p))
		}
		path = fmt.Sprintf(args.Endpoint, escaped...)
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	if len(args.QueryParams) > 0 {
		u.RawQuery = args.QueryParams.Encode()
	}
	return u.String()
}

// FetchList performs the request and normalizes the payload into a slice.
// A missing or malformed payload yields an empty slice.
func FetchList[T any](ctx context.Context, c *Client, args RequestArgs) ([]T, error) {
	raw, err := c.Do(ctx, args)
	if err != nil {
		return nil, err
	}
	return DecodeList[T](raw), nil
}

// FetchItem performs the request and normalizes the payload into a single item.
// The item is nil when the response carried no usable payload.
func FetchItem[T any](ctx context.Context, c *Client, args RequestArgs) (*T, error) {
	raw, err := c.Do(ctx, args)
	if err != nil {
		return nil, err
	}
	item, _ := DecodeItem[T](raw)
	return item, nil
}

package footage

import (
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

	"golang.org/x/time/rate"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/config"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/logging"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/services"
)

const (
	defaultBaseURL     = "https://api.pexels.com"
	defaultHTTPTimeout = 15 * time.Second
	defaultPerPage     = 15
	maxPerPage         = 80
)

// Cache persists raw search responses between runs.
type Cache interface {
	LookupSearch(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool, error)
	StoreSearch(ctx context.Context, key string, payload []byte) error
}

// Config describes the stock API client configuration.
type Config struct {
	APIKey            string
	BaseURL           string
	HTTPClient        *http.Client
	RequestsPerMinute int
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Cache             Cache
	CacheTTL          time.Duration
	Logger            *slog.Logger
}

// ConfigFromSettings maps the footage config section onto client settings.
func ConfigFromSettings(cfg *config.Config, cache Cache, logger *slog.Logger) Config {
	return Config{
		APIKey:            cfg.Footage.APIKey,
		BaseURL:           cfg.Footage.BaseURL,
		HTTPClient:        &http.Client{Timeout: time.Duration(cfg.Footage.RequestTimeout) * time.Second},
		RequestsPerMinute: cfg.Footage.RequestsPerMinute,
		Cache:             cache,
		CacheTTL:          cfg.FootageCacheTTL(),
		Logger:            logger,
	}
}

// Query is one video search.
type Query struct {
	Query       string
	Orientation string
	Size        string
	Page        int
	PerPage     int
}

// SearchResponse is the video search payload.
type SearchResponse struct {
	Page         int     `json:"page"`
	PerPage      int     `json:"per_page"`
	TotalResults int     `json:"total_results"`
	Videos       []Video `json:"videos"`
}

// Video is one search hit with its encoded variants.
type Video struct {
	ID       int64       `json:"id"`
	Width    int         `json:"width"`
	Height   int         `json:"height"`
	Duration float64     `json:"duration"`
	URL      string      `json:"url"`
	Tags     []string    `json:"tags"`
	Files    []VideoFile `json:"video_files"`
}

// VideoFile is a single downloadable rendition of a Video.
type VideoFile struct {
	ID       int64   `json:"id"`
	Quality  string  `json:"quality"`
	FileType string  `json:"file_type"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
	Link     string  `json:"link"`
}

// Client wraps the stock video search API.
type Client struct {
	apiKey         string
	baseURL        *url.URL
	http           *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	cache          Cache
	cacheTTL       time.Duration
	logger         *slog.Logger
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "footage", "client", "api key is required", nil)
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "footage", "client", "parse base url", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	initial := cfg.InitialBackoff
	if initial <= 0 {
		initial = DefaultInitialBackoff
	}
	maxBackoff := cfg.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = DefaultMaxBackoff
	}
	return &Client{
		apiKey:         apiKey,
		baseURL:        baseURL,
		http:           httpClient,
		limiter:        rate.NewLimiter(limit, 1),
		maxRetries:     maxRetries,
		initialBackoff: initial,
		maxBackoff:     maxBackoff,
		cache:          cfg.Cache,
		cacheTTL:       cfg.CacheTTL,
		logger:         logging.NewComponentLogger(cfg.Logger, "footage-client"),
	}, nil
}

// Search runs a video search, serving from cache when a fresh entry exists.
func (c *Client) Search(ctx context.Context, q Query) (*SearchResponse, error) {
	params := q.values()
	if params.Get("query") == "" {
		return nil, services.Wrap(services.ErrValidation, "footage", "search", "query is required", nil)
	}
	key := params.Encode()
	if resp, ok := c.lookupCache(ctx, key); ok {
		return resp, nil
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		body, err := c.searchOnce(ctx, params)
		if err == nil {
			var resp SearchResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return nil, services.Wrap(services.ErrExternalTool, "footage", "search", "decode response", err)
			}
			c.storeCache(ctx, key, body)
			return &resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		if !IsRetriable(err) || attempt > c.maxRetries {
			break
		}
		delay := backoffDelay(attempt, c.initialBackoff, c.maxBackoff)
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
			delay = min(statusErr.RetryAfter, c.maxBackoff)
		}
		logging.WithContext(ctx, c.logger).Debug("footage search retry",
			logging.String("query", params.Get("query")),
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay),
			logging.Error(err),
		)
		if err := SleepWithContext(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, services.Wrap(services.ErrExternalTool, "footage", "search", fmt.Sprintf("query %q", params.Get("query")), lastErr)
}

func (c *Client) searchOnce(ctx context.Context, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	endpoint := c.baseURL.JoinPath("videos", "search")
	endpoint.RawQuery = params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http error (latency=%s): %w", time.Since(start).Round(time.Millisecond), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("latency=%s: %w", time.Since(start).Round(time.Millisecond), &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(snippet),
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		})
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body (latency=%s): %w", time.Since(start).Round(time.Millisecond), err)
	}
	return body, nil
}

func (c *Client) lookupCache(ctx context.Context, key string) (*SearchResponse, bool) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return nil, false
	}
	payload, ok, err := c.cache.LookupSearch(ctx, key, c.cacheTTL)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "footage cache lookup failed", "footage_cache_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "search goes to the network"),
		)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp SearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *Client) storeCache(ctx context.Context, key string, payload []byte) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	if err := c.cache.StoreSearch(ctx, key, payload); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "footage cache store failed", "footage_cache_store_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next identical search repeats the request"),
		)
	}
}

func (q Query) values() url.Values {
	params := url.Values{}
	if query := strings.ToLower(strings.Join(strings.Fields(q.Query), " ")); query != "" {
		params.Set("query", query)
	}
	if v := strings.TrimSpace(q.Orientation); v != "" {
		params.Set("orientation", strings.ToLower(v))
	}
	if v := strings.TrimSpace(q.Size); v != "" {
		params.Set("size", strings.ToLower(v))
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	params.Set("per_page", strconv.Itoa(min(perPage, maxPerPage)))
	return params
}

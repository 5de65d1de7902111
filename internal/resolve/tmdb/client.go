package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"synopsis/internal/services"
)

// Record represents a single TMDB movie or TV record. Only the overview is
// consumed during reconciliation; the rest is carried for logging and tests.
type Record struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
}

// DisplayTitle returns the movie title or TV name, whichever is set.
func (r Record) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// SearchResponse models the TMDB paginated search response.
type SearchResponse struct {
	Page         int      `json:"page"`
	Results      []Record `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Service defines the TMDB operations used by resolution. Detail lookups
// return (nil, nil) when the ID does not exist: a stale library reference
// must not fail the item.
type Service interface {
	MovieDetails(ctx context.Context, id int64, opts ...CallOption) (*Record, error)
	TVDetails(ctx context.Context, id int64, opts ...CallOption) (*Record, error)
	SearchMovies(ctx context.Context, query string, year int, opts ...CallOption) (*SearchResponse, error)
	SearchTV(ctx context.Context, query string, year int, opts ...CallOption) (*SearchResponse, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	cache      *requestCache
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// CallOption adjusts a single request. Any call option disables memoization
// for that call, since the memo key covers parameters only.
type CallOption func(*callSettings)

type callSettings struct {
	headers http.Header
}

// WithHeader adds a header to one request.
func WithHeader(key, value string) CallOption {
	return func(s *callSettings) {
		if s.headers == nil {
			s.headers = http.Header{}
		}
		s.headers.Set(key, value)
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      newRequestCache(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// MovieDetails fetches movie details by TMDB ID.
func (c *Client) MovieDetails(ctx context.Context, id int64, opts ...CallOption) (*Record, error) {
	return c.details(ctx, fmt.Sprintf("movie/%d", id), id, opts)
}

// TVDetails fetches TV show details by TMDB ID.
func (c *Client) TVDetails(ctx context.Context, id int64, opts ...CallOption) (*Record, error) {
	return c.details(ctx, fmt.Sprintf("tv/%d", id), id, opts)
}

func (c *Client) details(ctx context.Context, endpoint string, id int64, opts []CallOption) (*Record, error) {
	if id <= 0 {
		return nil, services.Wrap(services.ErrMetadata, "tmdb", endpoint, "id must be positive", nil)
	}
	body, err := c.get(ctx, endpoint, url.Values{}, opts)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var payload Record
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrMetadata, "tmdb", endpoint, "decode response", err)
	}
	return &payload, nil
}

// SearchMovies performs a TMDB movie search. A year of zero is omitted.
func (c *Client) SearchMovies(ctx context.Context, query string, year int, opts ...CallOption) (*SearchResponse, error) {
	params := url.Values{}
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}
	return c.search(ctx, "search/movie", query, params, opts)
}

// SearchTV performs a TMDB TV search. A year of zero is omitted.
func (c *Client) SearchTV(ctx context.Context, query string, year int, opts ...CallOption) (*SearchResponse, error) {
	params := url.Values{}
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}
	return c.search(ctx, "search/tv", query, params, opts)
}

func (c *Client) search(ctx context.Context, endpoint, query string, params url.Values, opts []CallOption) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrMetadata, "tmdb", endpoint, "query must not be empty", nil)
	}
	params.Set("query", query)

	body, err := c.get(ctx, endpoint, params, opts)
	if err != nil {
		return nil, err
	}
	var payload SearchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrMetadata, "tmdb", endpoint, "decode response", err)
	}
	return &payload, nil
}

// get performs an authenticated GET. Parameter-only requests are served
// through the memo cache keyed by endpoint plus the sorted query string;
// requests carrying call options always hit the network.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, opts []CallOption) ([]byte, error) {
	var settings callSettings
	for _, opt := range opts {
		opt(&settings)
	}

	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	// url.Values.Encode sorts keys, giving a stable cache key.
	cacheKey := endpoint + "?" + params.Encode()

	cacheable := len(settings.headers) == 0
	if cacheable {
		if body, ok := c.cache.get(cacheKey); ok {
			return body, nil
		}
	}

	requestURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrMetadata, "tmdb", endpoint, "build request", err)
	}
	for key, values := range settings.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, services.Wrap(services.ErrMetadata, "tmdb", endpoint, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, services.Wrap(services.ErrNotFound, "tmdb", endpoint, "no record", nil)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, services.Wrap(services.ErrMetadata, "tmdb", endpoint, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrMetadata, "tmdb", endpoint, "read response", err)
	}
	if cacheable {
		c.cache.put(cacheKey, body)
	}
	return body, nil
}

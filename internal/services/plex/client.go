package plex

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"synopsis/internal/services"
)

const userAgent = "synopsis/0.1.0"

// Kind identifies the media type of a section or item.
type Kind string

const (
	KindMovie Kind = "movie"
	KindShow  Kind = "show"
)

// Supported reports whether a section kind is reconciled at all.
func (k Kind) Supported() bool {
	return k == KindMovie || k == KindShow
}

// Section is one Plex library section.
type Section struct {
	Key   string
	Title string
	Kind  Kind
}

// GUID is a kind-tagged external identifier reference, e.g. "tmdb://603".
type GUID struct {
	ID string `xml:"id,attr"`
}

// Item is the read-only view of one movie or show record.
type Item struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	Year      int    `xml:"year,attr"`
	Type      string `xml:"type,attr"`
	Summary   string `xml:"summary,attr"`
	GUIDs     []GUID `xml:"Guid"`
}

// Kind maps the raw Plex item type onto a section kind.
func (i Item) Kind() Kind {
	if i.Type == "show" {
		return KindShow
	}
	return KindMovie
}

// Library defines the Plex operations the reconciliation run consumes.
type Library interface {
	Check(ctx context.Context) error
	Sections(ctx context.Context) ([]Section, error)
	SectionItems(ctx context.Context, section Section) ([]Item, error)
	UpdateSummary(ctx context.Context, item Item, summary string) error
}

// Client talks to a Plex Media Server over HTTP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ Library = (*Client)(nil)

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

// New creates a Plex client.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("plex url required")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("plex token required")
	}
	client := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Check verifies the server is reachable before any section is processed.
// A failure here is fatal to the run.
func (c *Client) Check(ctx context.Context) error {
	resp, err := c.get(ctx, "/identity", nil)
	if err != nil {
		return services.Wrap(services.ErrConnection, "plex", "check", fmt.Sprintf("failed to connect to %s", c.baseURL), err)
	}
	defer drain(resp)
	if resp.StatusCode >= 300 {
		return services.Wrap(services.ErrConnection, "plex", "check", fmt.Sprintf("%s returned %d", c.baseURL, resp.StatusCode), nil)
	}
	return nil
}

// Sections enumerates the library sections, all kinds included.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	resp, err := c.get(ctx, "/library/sections", nil)
	if err != nil {
		return nil, services.Wrap(services.ErrLibrary, "plex", "list sections", "request failed", err)
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrLibrary, "plex", "list sections", fmt.Sprintf("returned %d", resp.StatusCode), nil)
	}

	var container struct {
		Directories []struct {
			Key   string `xml:"key,attr"`
			Type  string `xml:"type,attr"`
			Title string `xml:"title,attr"`
		} `xml:"Directory"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, services.Wrap(services.ErrLibrary, "plex", "list sections", "decode response", err)
	}

	sections := make([]Section, 0, len(container.Directories))
	for _, dir := range container.Directories {
		if dir.Key == "" || dir.Title == "" {
			continue
		}
		sections = append(sections, Section{Key: dir.Key, Title: dir.Title, Kind: Kind(dir.Type)})
	}
	return sections, nil
}

// SectionItems returns a snapshot of every item in the section. Plex emits
// movies as Video elements and shows as Directory elements; guid children are
// only present when includeGuids is requested.
func (c *Client) SectionItems(ctx context.Context, section Section) ([]Item, error) {
	params := url.Values{}
	params.Set("includeGuids", "1")
	resp, err := c.get(ctx, "/library/sections/"+section.Key+"/all", params)
	if err != nil {
		return nil, services.Wrap(services.ErrLibrary, "plex", "list items", fmt.Sprintf("section %q", section.Title), err)
	}
	defer drain(resp)
	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrLibrary, "plex", "list items", fmt.Sprintf("section %q returned %d", section.Title, resp.StatusCode), nil)
	}

	var container struct {
		Videos      []Item `xml:"Video"`
		Directories []Item `xml:"Directory"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&container); err != nil {
		return nil, services.Wrap(services.ErrLibrary, "plex", "list items", "decode response", err)
	}

	items := make([]Item, 0, len(container.Videos)+len(container.Directories))
	items = append(items, container.Videos...)
	items = append(items, container.Directories...)
	return items, nil
}

// UpdateSummary writes a new summary value for the item and locks the field
// so scheduled Plex metadata refreshes do not revert it.
func (c *Client) UpdateSummary(ctx context.Context, item Item, summary string) error {
	params := url.Values{}
	params.Set("summary.value", summary)
	params.Set("summary.locked", "1")

	endpoint := fmt.Sprintf("%s/library/metadata/%s?%s", c.baseURL, item.RatingKey, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return services.Wrap(services.ErrLibrary, "plex", "update summary", fmt.Sprintf("build request for %q", item.Title), err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrLibrary, "plex", "update summary", fmt.Sprintf("item %q", item.Title), err)
	}
	defer drain(resp)
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return services.Wrap(services.ErrLibrary, "plex", "update summary",
			fmt.Sprintf("item %q returned %d: %s", item.Title, resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)
	return c.httpClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", userAgent)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

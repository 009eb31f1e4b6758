package bgremove

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cropkit/pkg/cache"
	"github.com/matzehuels/cropkit/pkg/errors"
	"github.com/matzehuels/cropkit/pkg/integrations"
	"github.com/matzehuels/cropkit/pkg/observability"
)

const (
	// DefaultTimeout bounds a single removal call.
	DefaultTimeout = 30 * time.Second

	cacheKeyType = "bgremove"
)

// Request is the JSON body sent to the service.
type Request struct {
	Image string `json:"image"`
}

// Response is the JSON body returned by the service.
type Response struct {
	ProcessedImageBase64 string `json:"processedImageBase64"`
	ContentType          string `json:"contentType"`
}

// Client calls the background-removal service.
type Client struct {
	api      *integrations.Client
	endpoint string
	apiKey   string
	timeout  time.Duration
	cache    cache.Cache
	ttl      time.Duration
	newID    func() string
}

// Option configures a [Client].
type Option func(*Client)

// WithAPIKey sends key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithTimeout overrides [DefaultTimeout].
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCache stores successful responses in ch for ttl.
func WithCache(ch cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if ch != nil {
			c.cache = ch
			c.ttl = ttl
		}
	}
}

// New creates a client for the service at endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if err := errors.ValidateURL(endpoint); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "background removal endpoint")
	}
	c := &Client{
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		cache:    cache.NewNullCache(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.api = integrations.NewClient(map[string]string{"User-Agent": "cropkit"}, c.timeout)
	return c, nil
}

// Endpoint returns the service URL.
func (c *Client) Endpoint() string { return c.endpoint }

// RemoveBackground submits a base64 image and returns the processed image
// payload and its content type. All failures carry the
// BACKGROUND_REMOVAL_FAILED code.
func (c *Client) RemoveBackground(ctx context.Context, imageBase64 string) (string, string, error) {
	if strings.TrimSpace(imageBase64) == "" {
		return "", "", errors.New(errors.ErrCodeBackgroundRemoval, "no image to process")
	}

	key := cache.Key(cacheKeyType, c.endpoint, cache.Hash([]byte(imageBase64)))
	if resp, ok := c.cached(ctx, key); ok {
		return resp.ProcessedImageBase64, resp.ContentType, nil
	}

	headers := map[string]string{"X-Request-ID": c.newID()}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var resp Response
	if err := c.api.PostJSON(ctx, c.endpoint, headers, Request{Image: imageBase64}, &resp); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeBackgroundRemoval, err, "background removal request failed")
	}
	if err := resp.validate(); err != nil {
		return "", "", err
	}
	if resp.ContentType == "" {
		resp.ContentType = "image/png"
	}

	c.store(ctx, key, resp)
	return resp.ProcessedImageBase64, resp.ContentType, nil
}

func (r Response) validate() error {
	if strings.TrimSpace(r.ProcessedImageBase64) == "" {
		return errors.New(errors.ErrCodeBackgroundRemoval, "response has no image payload")
	}
	if r.ContentType != "" && !strings.HasPrefix(strings.ToLower(r.ContentType), "image/") {
		return errors.New(errors.ErrCodeBackgroundRemoval, "response content type %q is not an image", r.ContentType)
	}
	return nil
}

func (c *Client) cached(ctx context.Context, key string) (Response, bool) {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return Response{}, false
	}
	var resp Response
	if json.Unmarshal(data, &resp) != nil || resp.validate() != nil {
		_ = c.cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return Response{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return resp, true
}

func (c *Client) store(ctx context.Context, key string, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if c.cache.Set(ctx, key, data, c.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}
}

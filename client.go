package pygwan

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the Graph API host used when Config.BaseURL is empty.
	DefaultBaseURL = "https://graph.facebook.com"

	// DefaultAPIVersion is the Graph API version used when Config.APIVersion is empty.
	DefaultAPIVersion = "v18.0"

	defaultTimeout = 15 * time.Second
)

// Config carries the credentials and endpoint settings for a Client.
type Config struct {
	// AccessToken is the bearer token of the Meta app. Required.
	AccessToken string

	// PhoneNumberID identifies the sending business phone number. Required.
	PhoneNumberID string

	// BaseURL overrides the Graph API host.
	BaseURL string

	// APIVersion selects the Graph API version, e.g. "v18.0".
	APIVersion string

	// Timeout bounds each HTTP call.
	Timeout time.Duration

	// Logger receives per-operation debug logs. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Client exposes the WhatsApp Cloud API operations for one phone number.
type Client struct {
	httpClient    *resty.Client
	phoneNumberID string
	logger        *zap.Logger
}

// New builds a Client from cfg, applying defaults for any optional field.
func New(cfg Config) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("phone number id is required")
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimSuffix(base, "/")

	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/%s", base, version)).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
		logger:        logger,
	}, nil
}

// PhoneNumberID returns the business phone number id the client sends from.
func (c *Client) PhoneNumberID() string {
	return c.phoneNumberID
}

// HTTPClient exposes the underlying http.Client so callers can install
// transports, typically in tests.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient.GetClient()
}

func (c *Client) messagesPath() string {
	return fmt.Sprintf("%s/messages", c.phoneNumberID)
}

// sendMessage posts a message payload and decodes the standard send response.
func (c *Client) sendMessage(ctx context.Context, payload map[string]any) (*MessageResponse, error) {
	result := new(MessageResponse)
	if err := c.post(ctx, c.messagesPath(), payload, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, result any) error {
	apiErr := new(apiErrorEnvelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(path)
	if err != nil {
		return err
	}
	return c.checkResponse(resp, apiErr)
}

func (c *Client) get(ctx context.Context, url string, result any) error {
	apiErr := new(apiErrorEnvelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(url)
	if err != nil {
		return err
	}
	return c.checkResponse(resp, apiErr)
}

func (c *Client) checkResponse(resp *resty.Response, apiErr *apiErrorEnvelope) error {
	if resp.StatusCode() >= http.StatusBadRequest {
		err := apiErr.toError(resp.StatusCode())
		c.logger.Error("whatsapp api error",
			zap.Int("status", resp.StatusCode()),
			zap.Int("code", err.Code),
			zap.String("message", err.Message))
		return err
	}
	return nil
}

func recipientType(rt string) string {
	if rt == "" {
		return "individual"
	}
	return rt
}

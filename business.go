package pygwan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// BusinessConfig carries the credentials for WhatsApp Business Account
// operations, which hang off the account id rather than a phone number id.
type BusinessConfig struct {
	// AccessToken is the bearer token of the Meta app. Required.
	AccessToken string

	// WABAID is the WhatsApp Business Account id. Required.
	WABAID string

	BaseURL    string
	APIVersion string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// BusinessClient exposes account-level Graph API operations.
type BusinessClient struct {
	httpClient *resty.Client
	wabaID     string
	logger     *zap.Logger
}

// NewBusinessClient builds a BusinessClient from cfg, applying the same
// defaults as New.
func NewBusinessClient(cfg BusinessConfig) (*BusinessClient, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if cfg.WABAID == "" {
		return nil, fmt.Errorf("business account id is required")
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

	return &BusinessClient{
		httpClient: restyClient,
		wabaID:     cfg.WABAID,
		logger:     logger,
	}, nil
}

// TemplateDefinition is one message template registered on the account.
type TemplateDefinition struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Category string `json:"category"`
	Language string `json:"language"`
}

type templateList struct {
	Data   []TemplateDefinition `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// Templates lists the message templates registered on the business account.
func (c *BusinessClient) Templates(ctx context.Context) ([]TemplateDefinition, error) {
	c.logger.Debug("listing message templates", zap.String("waba_id", c.wabaID))

	result := new(templateList)
	apiErr := new(apiErrorEnvelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(fmt.Sprintf("%s/message_templates", c.wabaID))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list templates: %w", apiErr.toError(resp.StatusCode()))
	}
	return result.Data, nil
}

// SubscribeApp subscribes the calling app to the account's webhook events.
func (c *BusinessClient) SubscribeApp(ctx context.Context) error {
	c.logger.Debug("subscribing app", zap.String("waba_id", c.wabaID))

	result := new(StatusResponse)
	apiErr := new(apiErrorEnvelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/subscribed_apps", c.wabaID))
	if err != nil {
		return fmt.Errorf("subscribe app: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("subscribe app: %w", apiErr.toError(resp.StatusCode()))
	}
	return nil
}

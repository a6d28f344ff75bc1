package pygwan

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// MaxLocationRequestLength bounds the body text of RequestLocation.
const MaxLocationRequestLength = 1024

// LocationMessage pins coordinates with an optional name and address.
type LocationMessage struct {
	To        string
	Latitude  float64
	Longitude float64
	Name      string
	Address   string
}

// SendLocation delivers a location message.
func (c *Client) SendLocation(ctx context.Context, msg LocationMessage) (*MessageResponse, error) {
	c.logger.Debug("sending location", zap.String("to", msg.To))

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.To,
		"type":              "location",
		"location": map[string]any{
			"latitude":  msg.Latitude,
			"longitude": msg.Longitude,
			"name":      msg.Name,
			"address":   msg.Address,
		},
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("send location: %w", err)
	}
	return resp, nil
}

// RequestLocation asks the user to share their location via the native
// location picker. The body must not exceed MaxLocationRequestLength
// characters.
func (c *Client) RequestLocation(ctx context.Context, to, body string) (*MessageResponse, error) {
	if len([]rune(body)) > MaxLocationRequestLength {
		return nil, ErrLocationRequestTooLong
	}

	c.logger.Debug("requesting location", zap.String("to", to))

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"type":              "interactive",
		"to":                to,
		"interactive": map[string]any{
			"type":   "location_request_message",
			"body":   map[string]any{"text": body},
			"action": map[string]any{"name": "send_location"},
		},
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("request location: %w", err)
	}
	return resp, nil
}

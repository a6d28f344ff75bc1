package pygwan

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ListRow is one selectable row of a list message.
type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ListSection groups rows under an optional title.
type ListSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []ListRow `json:"rows"`
}

// ListMessage is the input for SendList.
type ListMessage struct {
	To     string
	Header string
	Body   string
	Footer string

	// ButtonText labels the button that opens the list. Defaults to "Choose".
	ButtonText string

	Sections []ListSection
}

// ReplyButton is one quick-reply button. The Cloud API accepts at most three
// per message.
type ReplyButton struct {
	ID    string
	Title string
}

// ButtonsMessage is the input for SendReplyButtons.
type ButtonsMessage struct {
	To      string
	Body    string
	Buttons []ReplyButton
}

// CTAMessage is the input for SendCTAURL.
type CTAMessage struct {
	To          string
	Body        string
	DisplayText string
	URL         string
}

// InteractiveMessage wraps a raw interactive payload for SendInteractive.
type InteractiveMessage struct {
	To          string
	Interactive any
}

// SendList delivers an interactive list message.
func (c *Client) SendList(ctx context.Context, msg ListMessage) (*MessageResponse, error) {
	c.logger.Debug("sending list message", zap.String("to", msg.To))

	button := msg.ButtonText
	if button == "" {
		button = "Choose"
	}

	interactive := map[string]any{
		"type": "list",
		"body": map[string]any{"text": msg.Body},
		"action": map[string]any{
			"button":   button,
			"sections": msg.Sections,
		},
	}
	if msg.Header != "" {
		interactive["header"] = map[string]any{"type": "text", "text": msg.Header}
	}
	if msg.Footer != "" {
		interactive["footer"] = map[string]any{"text": msg.Footer}
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.To,
		"type":              "interactive",
		"interactive":       interactive,
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("send list message: %w", err)
	}
	return resp, nil
}

// SendReplyButtons delivers an interactive message with quick-reply buttons.
func (c *Client) SendReplyButtons(ctx context.Context, msg ButtonsMessage) (*MessageResponse, error) {
	c.logger.Debug("sending reply buttons", zap.String("to", msg.To))

	buttons := make([]map[string]any, 0, len(msg.Buttons))
	for _, b := range msg.Buttons {
		buttons = append(buttons, map[string]any{
			"type":  "reply",
			"reply": map[string]any{"id": b.ID, "title": b.Title},
		})
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                msg.To,
		"type":              "interactive",
		"interactive": map[string]any{
			"type":   "button",
			"body":   map[string]any{"text": msg.Body},
			"action": map[string]any{"buttons": buttons},
		},
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("send reply buttons: %w", err)
	}
	return resp, nil
}

// SendCTAURL delivers an interactive call-to-action message whose button
// opens a URL.
func (c *Client) SendCTAURL(ctx context.Context, msg CTAMessage) (*MessageResponse, error) {
	c.logger.Debug("sending cta url button", zap.String("to", msg.To))

	interactive := map[string]any{
		"type": "cta_url",
		"action": map[string]any{
			"name": "cta_url",
			"parameters": map[string]any{
				"display_text": msg.DisplayText,
				"url":          msg.URL,
			},
		},
	}
	if msg.Body != "" {
		interactive["body"] = map[string]any{"text": msg.Body}
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                msg.To,
		"type":              "interactive",
		"interactive":       interactive,
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("send cta url button: %w", err)
	}
	return resp, nil
}

// SendInteractive sends an arbitrary interactive payload for shapes the
// typed helpers do not cover. The payload is passed through unchanged.
func (c *Client) SendInteractive(ctx context.Context, msg InteractiveMessage) (*MessageResponse, error) {
	c.logger.Debug("sending interactive message", zap.String("to", msg.To))

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                msg.To,
		"type":              "interactive",
		"interactive":       msg.Interactive,
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("send interactive message: %w", err)
	}
	return resp, nil
}

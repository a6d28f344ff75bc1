package pygwan

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultTemplateLanguage is applied when a template message does not set a
// language code.
const DefaultTemplateLanguage = "en_US"

// TemplateMessage is the input for SendTemplate. Components follow the Graph
// API component schema and are passed through unchanged, so any template kind
// (text, media or interactive) can be expressed.
type TemplateMessage struct {
	To         string
	Name       string
	Language   string
	Components []TemplateComponent
}

// TemplateComponent is one entry of a template's components array.
type TemplateComponent struct {
	Type       string              `json:"type"`
	SubType    string              `json:"sub_type,omitempty"`
	Index      string              `json:"index,omitempty"`
	Parameters []TemplateParameter `json:"parameters,omitempty"`
}

// TemplateParameter is a single substitution value inside a component.
type TemplateParameter struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	Payload  string         `json:"payload,omitempty"`
	Currency map[string]any `json:"currency,omitempty"`
	DateTime map[string]any `json:"date_time,omitempty"`
	Image    map[string]any `json:"image,omitempty"`
}

// TemplateVariables is the input for SendTemplateVariables, covering the
// common case of a text template with positional substitutions.
type TemplateVariables struct {
	To              string
	Name            string
	Language        string
	HeaderVariables []string
	BodyVariables   []string
}

// TextParameters builds text substitution parameters from plain strings.
func TextParameters(values ...string) []TemplateParameter {
	params := make([]TemplateParameter, 0, len(values))
	for _, v := range values {
		params = append(params, TemplateParameter{Type: "text", Text: v})
	}
	return params
}

// BodyComponent wraps text values into a body component.
func BodyComponent(values ...string) TemplateComponent {
	return TemplateComponent{Type: "body", Parameters: TextParameters(values...)}
}

// HeaderComponent wraps text values into a header component.
func HeaderComponent(values ...string) TemplateComponent {
	return TemplateComponent{Type: "header", Parameters: TextParameters(values...)}
}

// SendTemplate sends a pre-approved template message.
func (c *Client) SendTemplate(ctx context.Context, msg TemplateMessage) (*MessageResponse, error) {
	c.logger.Debug("sending template",
		zap.String("to", msg.To),
		zap.String("template", msg.Name))

	components := msg.Components
	if components == nil {
		components = []TemplateComponent{}
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.To,
		"type":              "template",
		"template": map[string]any{
			"name":       msg.Name,
			"language":   map[string]any{"code": templateLanguage(msg.Language)},
			"components": components,
		},
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("send template: %w", err)
	}
	return resp, nil
}

// SendTemplateVariables sends a text template, wrapping the given variables
// into header and body components. Either variable list may be empty.
func (c *Client) SendTemplateVariables(ctx context.Context, msg TemplateVariables) (*MessageResponse, error) {
	components := make([]TemplateComponent, 0, 2)
	if len(msg.HeaderVariables) > 0 {
		components = append(components, HeaderComponent(msg.HeaderVariables...))
	}
	if len(msg.BodyVariables) > 0 {
		components = append(components, BodyComponent(msg.BodyVariables...))
	}

	return c.SendTemplate(ctx, TemplateMessage{
		To:         msg.To,
		Name:       msg.Name,
		Language:   msg.Language,
		Components: components,
	})
}

func templateLanguage(lang string) string {
	if lang == "" {
		return DefaultTemplateLanguage
	}
	return lang
}

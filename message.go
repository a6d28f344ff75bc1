package pygwan

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// MaxTextLength is the Cloud API limit for a single text body. SendText and
// ReplyToMessage split longer bodies into consecutive sends.
const MaxTextLength = 4096

// TextMessage is the input for SendText.
type TextMessage struct {
	To   string
	Body string

	// PreviewURL asks WhatsApp to render a preview for links in the body.
	PreviewURL bool

	// RecipientType defaults to "individual".
	RecipientType string
}

// ReplyMessage quotes an earlier message while sending a text.
type ReplyMessage struct {
	To         string
	Body       string
	MessageID  string
	PreviewURL bool
}

// Reaction attaches an emoji to an earlier message.
type Reaction struct {
	To        string
	MessageID string
	Emoji     string
}

// MessageResponse mirrors the successful send response from Meta.
type MessageResponse struct {
	MessagingProduct string            `json:"messaging_product"`
	Contacts         []ResponseContact `json:"contacts"`
	Messages         []ResponseMessage `json:"messages"`
}

// ResponseContact identifies the recipient as resolved by WhatsApp.
type ResponseContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

// ResponseMessage carries the id assigned to an accepted message.
type ResponseMessage struct {
	ID string `json:"id"`
}

// MessageID returns the id of the first accepted message, if any.
func (r *MessageResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

// StatusResponse is returned by operations that only acknowledge success.
type StatusResponse struct {
	Success bool `json:"success"`
}

// SendText delivers a text message. Bodies longer than MaxTextLength are
// split into consecutive sends and the response of the last chunk is
// returned.
func (c *Client) SendText(ctx context.Context, msg TextMessage) (*MessageResponse, error) {
	c.logger.Debug("sending text message", zap.String("to", msg.To))

	var last *MessageResponse
	for _, chunk := range splitText(msg.Body) {
		payload := map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    recipientType(msg.RecipientType),
			"to":                msg.To,
			"type":              "text",
			"text": map[string]any{
				"preview_url": msg.PreviewURL,
				"body":        chunk,
			},
		}
		resp, err := c.sendMessage(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("send text message: %w", err)
		}
		last = resp
	}
	return last, nil
}

// ReplyToMessage delivers a text message quoting msg.MessageID. Long bodies
// split the same way SendText does, each chunk quoting the same message.
func (c *Client) ReplyToMessage(ctx context.Context, msg ReplyMessage) (*MessageResponse, error) {
	c.logger.Debug("replying to message",
		zap.String("to", msg.To),
		zap.String("message_id", msg.MessageID))

	var last *MessageResponse
	for _, chunk := range splitText(msg.Body) {
		payload := map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                msg.To,
			"type":              "text",
			"context":           map[string]any{"message_id": msg.MessageID},
			"text": map[string]any{
				"preview_url": msg.PreviewURL,
				"body":        chunk,
			},
		}
		resp, err := c.sendMessage(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("reply to message: %w", err)
		}
		last = resp
	}
	return last, nil
}

// SendReaction attaches an emoji reaction to an earlier message. An empty
// emoji removes a previous reaction.
func (c *Client) SendReaction(ctx context.Context, reaction Reaction) (*MessageResponse, error) {
	c.logger.Debug("sending reaction", zap.String("to", reaction.To))

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                reaction.To,
		"type":              "reaction",
		"reaction": map[string]any{
			"message_id": reaction.MessageID,
			"emoji":      reaction.Emoji,
		},
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("send reaction: %w", err)
	}
	return resp, nil
}

// MarkAsRead flags an inbound message as read, which renders the blue ticks
// on the sender's side.
func (c *Client) MarkAsRead(ctx context.Context, messageID string) (*StatusResponse, error) {
	c.logger.Debug("marking message as read", zap.String("message_id", messageID))

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}
	result := new(StatusResponse)
	if err := c.post(ctx, c.messagesPath(), payload, result); err != nil {
		return nil, fmt.Errorf("mark as read: %w", err)
	}
	return result, nil
}

func splitText(body string) []string {
	runes := []rune(body)
	if len(runes) <= MaxTextLength {
		return []string{body}
	}

	var chunks []string
	for start := 0; start < len(runes); start += MaxTextLength {
		end := start + MaxTextLength
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

package pygwan

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// SignatureHeader is the request header carrying Meta's webhook signature.
const SignatureHeader = "X-Hub-Signature-256"

// Notification mirrors the structure Meta posts to webhook callbacks.
type Notification struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one entry payload within the notification body.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change captures the actual notification contents.
type Change struct {
	Value ChangeValue `json:"value"`
	Field string      `json:"field"`
}

// ChangeValue contains message metadata, contacts and message events.
type ChangeValue struct {
	MessagingProduct string              `json:"messaging_product"`
	Metadata         Metadata            `json:"metadata"`
	Contacts         []Contact           `json:"contacts"`
	Messages         []InboundMessage    `json:"messages"`
	Statuses         []MessageStatus     `json:"statuses"`
	Errors           []NotificationError `json:"errors"`
}

// Metadata contains the phone identifiers of the receiving business account.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact represents the WhatsApp user behind a notification.
type Contact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

// ContactProfile contains the human-friendly contact name.
type ContactProfile struct {
	Name string `json:"name"`
}

// InboundMessage aggregates the inbound message shapes the Cloud API delivers.
// Exactly one of the typed content fields is set, matching Type.
type InboundMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Context     *MessageContext     `json:"context,omitempty"`
	Text        *TextContent        `json:"text,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
	Image       *MediaContent       `json:"image,omitempty"`
	Audio       *MediaContent       `json:"audio,omitempty"`
	Video       *MediaContent       `json:"video,omitempty"`
	Document    *MediaContent       `json:"document,omitempty"`
	Location    *LocationContent    `json:"location,omitempty"`
	Reaction    *ReactionContent    `json:"reaction,omitempty"`
}

// MessageContext links a message to the earlier message it replies to.
type MessageContext struct {
	From string `json:"from"`
	ID   string `json:"id"`
}

// TextContent carries a text message body.
type TextContent struct {
	Body string `json:"body"`
}

// InteractiveContent represents button and list replies.
type InteractiveContent struct {
	Type        string       `json:"type"`
	ButtonReply *ButtonReply `json:"button_reply,omitempty"`
	ListReply   *ListReply   `json:"list_reply,omitempty"`
}

// ButtonReply models a pressed reply button.
type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ListReply models a selected list row.
type ListReply struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MediaContent carries the minimal metadata of a media attachment. The
// content itself is fetched via MediaURL and DownloadMedia.
type MediaContent struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	Sha256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// LocationContent carries a shared location.
type LocationContent struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// ReactionContent carries an emoji reaction to an earlier message.
type ReactionContent struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji"`
}

// MessageStatus represents delivery and read receipts.
type MessageStatus struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	RecipientID string `json:"recipient_id"`
}

// NotificationError exposes errors Meta reports inside notifications.
type NotificationError struct {
	Code    int    `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ParseNotification decodes a webhook callback body.
func ParseNotification(data []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("parse notification: %w", err)
	}
	return &n, nil
}

// ValidateSignature checks the X-Hub-Signature-256 header Meta attaches to
// webhook deliveries. The signature is "sha256=" followed by the hex HMAC of
// the raw body keyed with the app secret.
func ValidateSignature(body []byte, signature, appSecret string) bool {
	const prefix = "sha256="
	if !strings.HasPrefix(signature, prefix) {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.TrimPrefix(signature, prefix)))
}

// ChangedField reports which field triggered the callback, e.g. "messages".
func (n *Notification) ChangedField() string {
	if n == nil || len(n.Entry) == 0 || len(n.Entry[0].Changes) == 0 {
		return ""
	}
	return n.Entry[0].Changes[0].Field
}

// Value returns the payload of the first change, which is where the Cloud
// API puts the interesting content. Returns nil when the notification is
// empty.
func (n *Notification) Value() *ChangeValue {
	if n == nil || len(n.Entry) == 0 || len(n.Entry[0].Changes) == 0 {
		return nil
	}
	return &n.Entry[0].Changes[0].Value
}

// IsMessage reports whether the notification carries at least one inbound
// message, as opposed to a status update or an error.
func (n *Notification) IsMessage() bool {
	v := n.Value()
	return v != nil && len(v.Messages) > 0
}

// Message returns the first inbound message, or nil.
func (n *Notification) Message() *InboundMessage {
	v := n.Value()
	if v == nil || len(v.Messages) == 0 {
		return nil
	}
	return &v.Messages[0]
}

// Mobile returns the wa_id of the first contact, or "".
func (n *Notification) Mobile() string {
	v := n.Value()
	if v == nil || len(v.Contacts) == 0 {
		return ""
	}
	return v.Contacts[0].WaID
}

// Name returns the profile name of the first contact, or "".
func (n *Notification) Name() string {
	v := n.Value()
	if v == nil || len(v.Contacts) == 0 {
		return ""
	}
	return v.Contacts[0].Profile.Name
}

// MessageText returns the text body of the first message, falling back to
// the title of a button or list reply. Returns "" for other message kinds.
func (n *Notification) MessageText() string {
	msg := n.Message()
	if msg == nil {
		return ""
	}
	switch {
	case msg.Text != nil:
		return msg.Text.Body
	case msg.Interactive != nil && msg.Interactive.ButtonReply != nil:
		return msg.Interactive.ButtonReply.Title
	case msg.Interactive != nil && msg.Interactive.ListReply != nil:
		return msg.Interactive.ListReply.Title
	}
	return ""
}

// MessageID returns the id of the first message, or "".
func (n *Notification) MessageID() string {
	msg := n.Message()
	if msg == nil {
		return ""
	}
	return msg.ID
}

// MessageTimestamp returns the unix timestamp string of the first message,
// or "".
func (n *Notification) MessageTimestamp() string {
	msg := n.Message()
	if msg == nil {
		return ""
	}
	return msg.Timestamp
}

// MessageType returns the type of the first message, e.g. "text" or "image",
// or "".
func (n *Notification) MessageType() string {
	msg := n.Message()
	if msg == nil {
		return ""
	}
	return msg.Type
}

// InteractiveReply returns the interactive content of the first message, or
// nil when the message is not an interactive reply.
func (n *Notification) InteractiveReply() *InteractiveContent {
	msg := n.Message()
	if msg == nil {
		return nil
	}
	return msg.Interactive
}

// Image returns the image attachment of the first message, or nil.
func (n *Notification) Image() *MediaContent {
	msg := n.Message()
	if msg == nil {
		return nil
	}
	return msg.Image
}

// Delivery returns the status of the first receipt, e.g. "sent", "delivered"
// or "read". Returns "" when the notification carries no statuses.
func (n *Notification) Delivery() string {
	v := n.Value()
	if v == nil || len(v.Statuses) == 0 {
		return ""
	}
	return v.Statuses[0].Status
}

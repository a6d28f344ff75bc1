package pygwan

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ImageMessage references an image either by uploaded media id or by public
// link. Exactly one of ID and Link must be set.
type ImageMessage struct {
	To            string
	ID            string
	Link          string
	Caption       string
	RecipientType string
}

// DocumentMessage references a document either by uploaded media id or by
// public link. Exactly one of ID and Link must be set.
type DocumentMessage struct {
	To       string
	ID       string
	Link     string
	Caption  string
	Filename string
}

// UploadResponse carries the media id assigned by Meta.
type UploadResponse struct {
	ID string `json:"id"`
}

// MediaInfo describes an uploaded media object. The URL it carries expires
// after a few minutes and must be fetched with the access token.
type MediaInfo struct {
	ID               string `json:"id"`
	URL              string `json:"url"`
	MimeType         string `json:"mime_type"`
	SHA256           string `json:"sha256"`
	FileSize         int64  `json:"file_size"`
	MessagingProduct string `json:"messaging_product"`
}

// SendImage delivers an image message.
func (c *Client) SendImage(ctx context.Context, msg ImageMessage) (*MessageResponse, error) {
	media, err := mediaReference(msg.ID, msg.Link, msg.Caption)
	if err != nil {
		return nil, fmt.Errorf("send image: %w", err)
	}

	c.logger.Debug("sending image", zap.String("to", msg.To))

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    recipientType(msg.RecipientType),
		"to":                msg.To,
		"type":              "image",
		"image":             media,
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("send image: %w", err)
	}
	return resp, nil
}

// SendDocument delivers a document message. Filename controls the name shown
// in the conversation and should include the extension.
func (c *Client) SendDocument(ctx context.Context, msg DocumentMessage) (*MessageResponse, error) {
	media, err := mediaReference(msg.ID, msg.Link, msg.Caption)
	if err != nil {
		return nil, fmt.Errorf("send document: %w", err)
	}
	if msg.Filename != "" {
		media["filename"] = msg.Filename
	}

	c.logger.Debug("sending document", zap.String("to", msg.To))

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                msg.To,
		"type":              "document",
		"document":          media,
	}
	resp, err := c.sendMessage(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("send document: %w", err)
	}
	return resp, nil
}

// UploadMedia pushes media to the Cloud API and returns the assigned id,
// which can then be referenced by SendImage, SendDocument or template
// components.
func (c *Client) UploadMedia(ctx context.Context, filename, mimeType string, media io.Reader) (*UploadResponse, error) {
	c.logger.Debug("uploading media",
		zap.String("filename", filename),
		zap.String("mime_type", mimeType))

	result := new(UploadResponse)
	apiErr := new(apiErrorEnvelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFileReader("file", filename, media).
		SetFormData(map[string]string{
			"messaging_product": "whatsapp",
			"type":              mimeType,
		}).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/media", c.phoneNumberID))
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	if err := c.checkResponse(resp, apiErr); err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	return result, nil
}

// MediaURL resolves a media id into a short-lived download URL and metadata.
func (c *Client) MediaURL(ctx context.Context, mediaID string) (*MediaInfo, error) {
	c.logger.Debug("resolving media url", zap.String("media_id", mediaID))

	result := new(MediaInfo)
	if err := c.get(ctx, mediaID, result); err != nil {
		return nil, fmt.Errorf("resolve media url: %w", err)
	}
	return result, nil
}

// DownloadMedia fetches the content behind a media URL obtained from
// MediaURL or from an inbound notification. The media host requires the same
// bearer token as the Graph API.
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	c.logger.Debug("downloading media", zap.String("url", mediaURL))

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(mediaURL)
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("download media: status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}

// DownloadMediaTo writes the media behind mediaURL to "<path>.<ext>", where
// the extension is derived from the mime type, and returns the file name.
// An empty path defaults to "temp".
func (c *Client) DownloadMediaTo(ctx context.Context, mediaURL, mimeType, path string) (string, error) {
	content, err := c.DownloadMedia(ctx, mediaURL)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = "temp"
	}
	name := fmt.Sprintf("%s.%s", path, extensionFromMime(mimeType))
	if err := os.WriteFile(name, content, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}

	c.logger.Debug("media downloaded", zap.String("file", name))
	return name, nil
}

// DeleteMedia removes an uploaded media object.
func (c *Client) DeleteMedia(ctx context.Context, mediaID string) (*StatusResponse, error) {
	c.logger.Debug("deleting media", zap.String("media_id", mediaID))

	result := new(StatusResponse)
	apiErr := new(apiErrorEnvelope)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Delete(mediaID)
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	if err := c.checkResponse(resp, apiErr); err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return result, nil
}

func mediaReference(id, link, caption string) (map[string]any, error) {
	if id == "" && link == "" {
		return nil, ErrMissingMediaReference
	}
	if id != "" && link != "" {
		return nil, ErrAmbiguousMediaReference
	}

	media := map[string]any{}
	if id != "" {
		media["id"] = id
	} else {
		media["link"] = link
	}
	if caption != "" {
		media["caption"] = caption
	}
	return media, nil
}

func extensionFromMime(mimeType string) string {
	if i := strings.Index(mimeType, "/"); i >= 0 {
		return mimeType[i+1:]
	}
	return mimeType
}

package pygwan

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendImageByLink(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/123456789/messages").
		JSON(map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                "263776554321",
			"type":              "image",
			"image": map[string]any{
				"link":    "https://example.com/pic.jpg",
				"caption": "the pic",
			},
		}).
		Reply(200).
		JSON(map[string]any{"messages": []map[string]any{{"id": "wamid.img"}}})

	resp, err := client.SendImage(context.Background(), ImageMessage{
		To:      "263776554321",
		Link:    "https://example.com/pic.jpg",
		Caption: "the pic",
	})
	require.NoError(t, err)
	assert.Equal(t, "wamid.img", resp.MessageID())
	assert.True(t, gock.IsDone())
}

func TestSendImageByID(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/123456789/messages").
		JSON(map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                "263776554321",
			"type":              "image",
			"image":             map[string]any{"id": "media-42"},
		}).
		Reply(200).
		JSON(map[string]any{"messages": []map[string]any{{"id": "wamid.img"}}})

	_, err := client.SendImage(context.Background(), ImageMessage{
		To: "263776554321",
		ID: "media-42",
	})
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestSendImageValidatesMediaReference(t *testing.T) {
	client := newTestClient(t)

	_, err := client.SendImage(context.Background(), ImageMessage{To: "263776554321"})
	assert.ErrorIs(t, err, ErrMissingMediaReference)

	_, err = client.SendImage(context.Background(), ImageMessage{
		To:   "263776554321",
		ID:   "media-42",
		Link: "https://example.com/pic.jpg",
	})
	assert.ErrorIs(t, err, ErrAmbiguousMediaReference)
}

func TestSendDocumentPayload(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/123456789/messages").
		JSON(map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                "263776554321",
			"type":              "document",
			"document": map[string]any{
				"link":     "https://example.com/report.pdf",
				"caption":  "August report",
				"filename": "report.pdf",
			},
		}).
		Reply(200).
		JSON(map[string]any{"messages": []map[string]any{{"id": "wamid.doc"}}})

	resp, err := client.SendDocument(context.Background(), DocumentMessage{
		To:       "263776554321",
		Link:     "https://example.com/report.pdf",
		Caption:  "August report",
		Filename: "report.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "wamid.doc", resp.MessageID())
	assert.True(t, gock.IsDone())
}

func TestUploadMedia(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	expect := gock.New(testBaseURL)
	expect.Post("/v18.0/123456789/media")
	expect.AddMatcher(func(req *http.Request, _ *gock.Request) (bool, error) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return false, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))

		form := string(body)
		return strings.Contains(req.Header.Get("Content-Type"), "multipart/form-data") &&
			strings.Contains(form, `name="messaging_product"`) &&
			strings.Contains(form, "whatsapp") &&
			strings.Contains(form, `name="type"`) &&
			strings.Contains(form, "image/jpeg") &&
			strings.Contains(form, `filename="pic.jpg"`) &&
			strings.Contains(form, "jpeg-bytes"), nil
	})
	expect.Reply(200).JSON(map[string]any{"id": "media-77"})

	resp, err := client.UploadMedia(context.Background(), "pic.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "media-77", resp.ID)
	assert.True(t, gock.IsDone())
}

func TestMediaURL(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Get("/v18.0/media-77").
		MatchHeader("Authorization", "Bearer test-token").
		Reply(200).
		JSON(map[string]any{
			"id":                "media-77",
			"url":               "https://lookaside.fbsbx.com/media/abc",
			"mime_type":         "image/jpeg",
			"sha256":            "deadbeef",
			"file_size":         1024,
			"messaging_product": "whatsapp",
		})

	info, err := client.MediaURL(context.Background(), "media-77")
	require.NoError(t, err)
	assert.Equal(t, "https://lookaside.fbsbx.com/media/abc", info.URL)
	assert.Equal(t, "image/jpeg", info.MimeType)
	assert.Equal(t, int64(1024), info.FileSize)
	assert.True(t, gock.IsDone())
}

func TestDownloadMedia(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New("https://lookaside.fbsbx.com").
		Get("/media/abc").
		MatchHeader("Authorization", "Bearer test-token").
		Reply(200).
		BodyString("jpeg-bytes")

	content, err := client.DownloadMedia(context.Background(), "https://lookaside.fbsbx.com/media/abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), content)
	assert.True(t, gock.IsDone())
}

func TestDownloadMediaTo(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New("https://lookaside.fbsbx.com").
		Get("/media/abc").
		Reply(200).
		BodyString("jpeg-bytes")

	base := filepath.Join(t.TempDir(), "pic")
	name, err := client.DownloadMediaTo(context.Background(), "https://lookaside.fbsbx.com/media/abc", "image/jpeg", base)
	require.NoError(t, err)
	assert.Equal(t, base+".jpeg", name)

	content, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), content)
}

func TestDownloadMediaFailure(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New("https://lookaside.fbsbx.com").
		Get("/media/gone").
		Reply(404)

	_, err := client.DownloadMedia(context.Background(), "https://lookaside.fbsbx.com/media/gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestDeleteMedia(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Delete("/v18.0/media-77").
		Reply(200).
		JSON(map[string]any{"success": true})

	resp, err := client.DeleteMedia(context.Background(), "media-77")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, gock.IsDone())
}

func TestExtensionFromMime(t *testing.T) {
	assert.Equal(t, "jpeg", extensionFromMime("image/jpeg"))
	assert.Equal(t, "pdf", extensionFromMime("application/pdf"))
	assert.Equal(t, "bin", extensionFromMime("bin"))
}

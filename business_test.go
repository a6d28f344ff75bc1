package pygwan

import (
	"context"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBusinessClient(t *testing.T) *BusinessClient {
	t.Helper()

	client, err := NewBusinessClient(BusinessConfig{
		AccessToken: testToken,
		WABAID:      "waba-42",
	})
	require.NoError(t, err)

	gock.InterceptClient(client.httpClient.GetClient())
	return client
}

func TestNewBusinessClientRequiresCredentials(t *testing.T) {
	_, err := NewBusinessClient(BusinessConfig{WABAID: "waba-42"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token is required")

	_, err = NewBusinessClient(BusinessConfig{AccessToken: testToken})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "business account id is required")
}

func TestTemplatesListsAccountTemplates(t *testing.T) {
	defer gock.Off()

	client := newTestBusinessClient(t)

	gock.New(testBaseURL).
		Get("/v18.0/waba-42/message_templates").
		MatchHeader("Authorization", "Bearer test-token").
		Reply(200).
		JSON(map[string]any{
			"data": []map[string]any{
				{"id": "1", "name": "hello_world", "status": "APPROVED", "category": "UTILITY", "language": "en_US"},
				{"id": "2", "name": "daily_digest", "status": "PENDING", "category": "UTILITY", "language": "en_US"},
			},
			"paging": map[string]any{"next": ""},
		})

	templates, err := client.Templates(context.Background())
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "hello_world", templates[0].Name)
	assert.Equal(t, "APPROVED", templates[0].Status)
	assert.True(t, gock.IsDone())
}

func TestTemplatesSurfacesAPIError(t *testing.T) {
	defer gock.Off()

	client := newTestBusinessClient(t)

	gock.New(testBaseURL).
		Get("/v18.0/waba-42/message_templates").
		Reply(403).
		JSON(map[string]any{
			"error": map[string]any{"message": "Permission denied", "code": 200},
		})

	_, err := client.Templates(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 200, apiErr.Code)
	assert.Equal(t, 403, apiErr.Status)
}

func TestSubscribeApp(t *testing.T) {
	defer gock.Off()

	client := newTestBusinessClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/waba-42/subscribed_apps").
		Reply(200).
		JSON(map[string]any{"success": true})

	require.NoError(t, client.SubscribeApp(context.Background()))
	assert.True(t, gock.IsDone())
}

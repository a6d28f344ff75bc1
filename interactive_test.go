package pygwan

import (
	"context"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendListPayload(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/123456789/messages").
		JSON(map[string]any{
			"messaging_product": "whatsapp",
			"to":                "263776554321",
			"type":              "interactive",
			"interactive": map[string]any{
				"type":   "list",
				"header": map[string]any{"type": "text", "text": "Plans"},
				"body":   map[string]any{"text": "Pick a plan"},
				"footer": map[string]any{"text": "Prices in USD"},
				"action": map[string]any{
					"button": "Choose",
					"sections": []map[string]any{
						{
							"title": "Select one",
							"rows": []map[string]any{
								{"id": "basic", "title": "Basic"},
								{"id": "pro", "title": "Pro", "description": "Everything in Basic"},
							},
						},
					},
				},
			},
		}).
		Reply(200).
		JSON(map[string]any{"messages": []map[string]any{{"id": "wamid.list"}}})

	resp, err := client.SendList(context.Background(), ListMessage{
		To:     "263776554321",
		Header: "Plans",
		Body:   "Pick a plan",
		Footer: "Prices in USD",
		Sections: []ListSection{
			{
				Title: "Select one",
				Rows: []ListRow{
					{ID: "basic", Title: "Basic"},
					{ID: "pro", Title: "Pro", Description: "Everything in Basic"},
				},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "wamid.list", resp.MessageID())
	assert.True(t, gock.IsDone())
}

func TestSendListOmitsEmptyHeaderAndFooter(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/123456789/messages").
		JSON(map[string]any{
			"messaging_product": "whatsapp",
			"to":                "263776554321",
			"type":              "interactive",
			"interactive": map[string]any{
				"type": "list",
				"body": map[string]any{"text": "Pick one"},
				"action": map[string]any{
					"button": "Options",
					"sections": []map[string]any{
						{"rows": []map[string]any{{"id": "a", "title": "A"}}},
					},
				},
			},
		}).
		Reply(200).
		JSON(map[string]any{"messages": []map[string]any{{"id": "wamid.list"}}})

	_, err := client.SendList(context.Background(), ListMessage{
		To:         "263776554321",
		Body:       "Pick one",
		ButtonText: "Options",
		Sections: []ListSection{
			{Rows: []ListRow{{ID: "a", Title: "A"}}},
		},
	})
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestSendReplyButtonsPayload(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/123456789/messages").
		JSON(map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                "263776554321",
			"type":              "interactive",
			"interactive": map[string]any{
				"type": "button",
				"body": map[string]any{"text": "What next?"},
				"action": map[string]any{
					"buttons": []map[string]any{
						{"type": "reply", "reply": map[string]any{"id": "stats", "title": "Stats"}},
						{"type": "reply", "reply": map[string]any{"id": "help", "title": "Help"}},
					},
				},
			},
		}).
		Reply(200).
		JSON(map[string]any{"messages": []map[string]any{{"id": "wamid.buttons"}}})

	resp, err := client.SendReplyButtons(context.Background(), ButtonsMessage{
		To:   "263776554321",
		Body: "What next?",
		Buttons: []ReplyButton{
			{ID: "stats", Title: "Stats"},
			{ID: "help", Title: "Help"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "wamid.buttons", resp.MessageID())
	assert.True(t, gock.IsDone())
}

func TestSendCTAURLPayload(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/123456789/messages").
		JSON(map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                "263776554321",
			"type":              "interactive",
			"interactive": map[string]any{
				"type": "cta_url",
				"body": map[string]any{"text": "Docs are online"},
				"action": map[string]any{
					"name": "cta_url",
					"parameters": map[string]any{
						"display_text": "Open docs",
						"url":          "https://example.com/docs",
					},
				},
			},
		}).
		Reply(200).
		JSON(map[string]any{"messages": []map[string]any{{"id": "wamid.cta"}}})

	resp, err := client.SendCTAURL(context.Background(), CTAMessage{
		To:          "263776554321",
		Body:        "Docs are online",
		DisplayText: "Open docs",
		URL:         "https://example.com/docs",
	})
	require.NoError(t, err)
	assert.Equal(t, "wamid.cta", resp.MessageID())
	assert.True(t, gock.IsDone())
}

func TestSendCTAURLOmitsEmptyBody(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/123456789/messages").
		JSON(map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                "263776554321",
			"type":              "interactive",
			"interactive": map[string]any{
				"type": "cta_url",
				"action": map[string]any{
					"name": "cta_url",
					"parameters": map[string]any{
						"display_text": "Open",
						"url":          "https://example.com",
					},
				},
			},
		}).
		Reply(200).
		JSON(map[string]any{"messages": []map[string]any{{"id": "wamid.cta"}}})

	_, err := client.SendCTAURL(context.Background(), CTAMessage{
		To:          "263776554321",
		DisplayText: "Open",
		URL:         "https://example.com",
	})
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestSendInteractivePassesPayloadThrough(t *testing.T) {
	defer gock.Off()

	client := newTestClient(t)

	gock.New(testBaseURL).
		Post("/v18.0/123456789/messages").
		JSON(map[string]any{
			"messaging_product": "whatsapp",
			"recipient_type":    "individual",
			"to":                "263776554321",
			"type":              "interactive",
			"interactive": map[string]any{
				"type": "button",
				"body": map[string]any{"text": "custom"},
				"action": map[string]any{
					"buttons": []map[string]any{
						{"type": "reply", "reply": map[string]any{"id": "x", "title": "X"}},
					},
				},
			},
		}).
		Reply(200).
		JSON(map[string]any{"messages": []map[string]any{{"id": "wamid.raw"}}})

	_, err := client.SendInteractive(context.Background(), InteractiveMessage{
		To: "263776554321",
		Interactive: map[string]any{
			"type": "button",
			"body": map[string]any{"text": "custom"},
			"action": map[string]any{
				"buttons": []map[string]any{
					{"type": "reply", "reply": map[string]any{"id": "x", "title": "X"}},
				},
			},
		},
	})
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

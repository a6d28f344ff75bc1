// Package pygwan is a convenience client for the WhatsApp Cloud API.
//
// A Client wraps one business phone number: each method assembles the JSON
// payload for a single Graph API operation, posts it with the configured
// bearer token and decodes the typed response. The package also ships the
// webhook notification model with accessors for the common fields, so an
// application can go from callback body to reply without touching raw JSON.
package pygwan

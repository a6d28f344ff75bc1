package pygwan

import (
	"errors"
	"fmt"
)

// Sentinel errors returned before any HTTP call is made.
var (
	// ErrMissingMediaReference is returned when neither a media id nor a link is set.
	ErrMissingMediaReference = errors.New("either a media id or a link is required")

	// ErrAmbiguousMediaReference is returned when both a media id and a link are set.
	ErrAmbiguousMediaReference = errors.New("media id and link are mutually exclusive")

	// ErrLocationRequestTooLong is returned when a location request body exceeds
	// MaxLocationRequestLength characters.
	ErrLocationRequestTooLong = errors.New("location request body must not exceed 1024 characters")
)

// APIError is the decoded Graph API error payload returned by Meta.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status    int    `json:"-"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	Subcode   int    `json:"error_subcode"`
	Details   any    `json:"error_data"`
	FBTraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	code := e.Code
	if code == 0 {
		code = e.Status
	}
	return fmt.Sprintf("whatsapp api error: code=%d, message=%s", code, e.Message)
}

// apiErrorEnvelope mirrors the error wrapper used by the Graph API.
type apiErrorEnvelope struct {
	Error APIError `json:"error"`
}

func (env *apiErrorEnvelope) toError(status int) *APIError {
	apiErr := env.Error
	apiErr.Status = status
	return &apiErr
}

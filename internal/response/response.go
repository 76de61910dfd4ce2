package response

import (
	"net/http"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
)

type APIResponse struct {
	Data  interface{}        `json:"data,omitempty"`
	Meta  map[string]any     `json:"meta,omitempty"`
	Error *internal.AppError `json:"error,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta, Error: nil}
}

func BadRequest(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(http.StatusBadRequest, msg)}
}

// ValidationFailed reports every rejected field of an input document.
func ValidationFailed(msg string, fields []internal.FieldError) APIResponse {
	appErr := internal.NewAppError(http.StatusBadRequest, msg)
	appErr.Fields = fields
	return APIResponse{Error: appErr}
}

func InternalError(msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(http.StatusInternalServerError, msg)}
}

func NewAppError(status int, msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(status, msg)}
}

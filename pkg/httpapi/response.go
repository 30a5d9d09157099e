package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/coerce/pkg/valerr"
)

// Response is the envelope of every API answer.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. Details lists every validation
// error for 422 responses.
type ErrorDetail struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details []valerr.Detail `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Response) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// errorResponse maps err onto a status and error body. Internal failures
// get a generic message.
func errorResponse(err error) (int, Response) {
	var verr *valerr.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, Response{
			Meta: map[string]any{"schema": verr.Title, "error_count": verr.ErrorCount()},
			Error: &ErrorDetail{
				Code:    "validation_error",
				Message: "input is invalid",
				Details: verr.Details(),
			},
		}
	}
	var herr HTTPError
	if errors.As(err, &herr) {
		return herr.Status, Response{Error: &ErrorDetail{Code: herr.Code, Message: herr.Error()}}
	}
	return http.StatusInternalServerError, Response{Error: &ErrorDetail{
		Code:    "internal_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}}
}

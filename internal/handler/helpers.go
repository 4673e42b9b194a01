package handler

import (
	"errors"
	"net/http"

	"github.com/BitOnUranus/base64/internal/domain"
	"github.com/BitOnUranus/base64/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrBusy):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnsupportedType):
		httputil.RespondError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, domain.ErrConversion), errors.Is(err, domain.ErrDecode):
		httputil.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrIO):
		httputil.RespondErrorWithExtras(w, http.StatusServiceUnavailable, "storage temporarily unavailable", map[string]any{
			"retryable": domain.IsRetryable(err),
		})
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

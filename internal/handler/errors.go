package handler

import (
	"errors"
	"fmt"
	"net/http"

	"signal-desk/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var notEnoughDataMessage = fmt.Sprintf("Not enough data, at least %d points are required", domain.MinAdviceCandles)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotEnoughData),
		errors.Is(err, domain.ErrNoProvider):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSymbolNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUpstream), errors.Is(err, domain.ErrAnalysis):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	body := ErrorResponse{Error: err.Error()}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		body = ErrorResponse{Error: domain.ErrValidation.Error(), Details: verr.Fields}
	case errors.Is(err, domain.ErrNotEnoughData):
		body.Error = notEnoughDataMessage
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled request error")
		body.Error = "internal server error"
	}

	c.AbortWithStatusJSON(status, body)
}

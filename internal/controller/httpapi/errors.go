package httpapi

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/court_booking/internal/model"
	"github.com/Freeeeeet/court_booking/internal/scheduler"
	"github.com/Freeeeeet/court_booking/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Виды ошибок вне бронирования
const (
	kindNotAdmin           = "not_admin"
	kindNotFound           = "not_found"
	kindBadRequest         = "bad_request"
	kindUsernameTaken      = "username_taken"
	kindInvalidCredentials = "invalid_credentials"
	kindRateLimited        = "rate_limited"
	kindInternal           = "internal_error"
)

// ErrorResponse тело ответа об ошибке
type ErrorResponse struct {
	ErrorKind string   `json:"error_kind"`
	Errors    []string `json:"errors"`
}

func abortWith(c *gin.Context, status int, kind string, messages ...string) {
	c.AbortWithStatusJSON(status, ErrorResponse{ErrorKind: kind, Errors: messages})
}

// bookingStatus HTTP-статус по основному виду ошибки бронирования
func bookingStatus(kind error) int {
	switch {
	case errors.Is(kind, scheduler.ErrInvalidFormat),
		errors.Is(kind, scheduler.ErrInvalidInterval),
		errors.Is(kind, scheduler.ErrInvalidCourt):
		return http.StatusBadRequest
	case errors.Is(kind, scheduler.ErrSlotUnavailable):
		return http.StatusConflict
	case errors.Is(kind, scheduler.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(kind, scheduler.ErrNotValidated):
		return http.StatusForbidden
	default:
		return http.StatusServiceUnavailable
	}
}

// writeError отображает ошибку сервиса в ответ
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		be *scheduler.BookingError
		ae *service.ArticleError
	)
	switch {
	case errors.As(err, &be):
		abortWith(c, bookingStatus(be.Kind()), be.Kind().Error(), be.Messages()...)
	case errors.Is(err, model.ErrReservationNotFound),
		errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrArticleNotFound):
		abortWith(c, http.StatusNotFound, kindNotFound, err.Error())
	case errors.Is(err, model.ErrUsernameTaken):
		abortWith(c, http.StatusConflict, kindUsernameTaken, err.Error())
	case errors.Is(err, service.ErrInvalidRegistration):
		abortWith(c, http.StatusBadRequest, kindBadRequest, err.Error())
	case errors.As(err, &ae):
		abortWith(c, http.StatusBadRequest, kindBadRequest, ae.Problems...)
	case errors.Is(err, service.ErrInvalidCredentials):
		abortWith(c, http.StatusUnauthorized, kindInvalidCredentials, err.Error())
	default:
		h.logger.Error("Request failed",
			zap.String("request_id", requestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		abortWith(c, http.StatusInternalServerError, kindInternal, "internal error, please retry later")
	}
}

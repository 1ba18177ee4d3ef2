package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weiwei-tsao/coffeenote/apps/api/internal/business/journal"
)

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody("bad_request", message))
}

// writeError maps domain errors onto HTTP responses. Anything unrecognised
// is logged and reported as a 500 without its message.
func (r *Router) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		c.JSON(http.StatusNotFound, errorBody("not_found", "resource not found"))
	case errors.Is(err, journal.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, errorBody("validation_error", err.Error()))
	case errors.Is(err, journal.ErrVisitLimitReached):
		c.JSON(http.StatusForbidden, errorBody("visit_limit_reached",
			"You've reached the 10 shop limit for free users. Upgrade to Premium for unlimited visits!"))
	case errors.Is(err, journal.ErrPremiumRequired):
		c.JSON(http.StatusForbidden, errorBody("premium_required", "this feature requires a premium subscription"))
	default:
		r.logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurofocus-backend/internal/platform/apierr"
)

var errInternal = errors.New("Internal server error")

// RespondAPIError maps a service error onto the error envelope. Errors that
// carry no status become a generic 500 so internals are not leaked.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", errInternal)
		return
	}
	if ae.Status >= http.StatusInternalServerError && ae.Code == "internal_error" {
		_ = c.Error(err)
		RespondError(c, ae.Status, ae.Code, errInternal)
		return
	}
	RespondError(c, ae.Status, ae.Code, errors.New(ae.PublicMessage()))
}

package delivery

import (
	"net/http"

	"github.com/AjeyHanamanal/meeting-summarizer/pkg/apperror"
	"github.com/AjeyHanamanal/meeting-summarizer/pkg/logging"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
}

// respondError writes err using its apperror kind. Internal causes are logged
// and never sent to the client.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.KindInternal {
		message := "Something went wrong"
		if ok {
			message = appErr.Message
		}
		logger := logging.Component("http")
		logger.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": message})
		return
	}

	if appErr.Kind == apperror.KindServiceUnavailable {
		logger := logging.Component("http")
		logger.Warn().Err(err).Str("route", c.FullPath()).Msg("dependency unavailable")
	}
	c.JSON(apperror.HTTPStatus(err), gin.H{"error": appErr.Title, "message": appErr.Message})
}

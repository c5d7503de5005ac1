package ginmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/middleware"
)

// QueryParams validates the declared query parameters. Data errors abort with
// 400 and the Issues payload; unknown types and unloadable validators abort
// with 500.
func QueryParams(src middleware.EvaluatorSource, params ...middleware.Param) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, defects := middleware.CheckQuery(src(), c.Request, params...)
		if len(defects) > 0 {
			c.AbortWithStatusJSON(http.StatusInternalServerError, middleware.ErrorPayload(defects))
			return
		}
		if len(data) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, middleware.ErrorPayload(data))
			return
		}
		c.Next()
	}
}

// CollectQueryParams stores data errors in the request context instead of
// aborting. Read them back with GetIssues.
func CollectQueryParams(src middleware.EvaluatorSource, params ...middleware.Param) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, defects := middleware.CheckQuery(src(), c.Request, params...)
		if len(defects) > 0 {
			c.AbortWithStatusJSON(http.StatusInternalServerError, middleware.ErrorPayload(defects))
			return
		}
		if len(data) > 0 {
			c.Request = c.Request.WithContext(middleware.ContextWithIssues(c.Request.Context(), data))
		}
		c.Next()
	}
}

// GetIssues fetches the Issues collected for this request.
func GetIssues(c *gin.Context) (oastype.Issues, bool) {
	return middleware.IssuesFromContext(c.Request.Context())
}

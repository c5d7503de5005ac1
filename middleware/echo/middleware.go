package echomw

import (
	"net/http"

	"github.com/labstack/echo/v4"
	oastype "github.com/reoring/oastype"
	"github.com/reoring/oastype/middleware"
)

// QueryParams validates the declared query parameters. Data errors answer 400
// with the Issues payload; unknown types and unloadable validators answer 500.
func QueryParams(src middleware.EvaluatorSource, params ...middleware.Param) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, defects := middleware.CheckQuery(src(), c.Request(), params...)
			if len(defects) > 0 {
				return c.JSON(http.StatusInternalServerError, middleware.ErrorPayload(defects))
			}
			if len(data) > 0 {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(data))
			}
			return next(c)
		}
	}
}

// CollectQueryParams records data errors on the request context and lets the
// handler decide. Read them back with GetIssues.
func CollectQueryParams(src middleware.EvaluatorSource, params ...middleware.Param) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			data, defects := middleware.CheckQuery(src(), c.Request(), params...)
			if len(defects) > 0 {
				return c.JSON(http.StatusInternalServerError, middleware.ErrorPayload(defects))
			}
			if len(data) > 0 {
				c.SetRequest(c.Request().WithContext(middleware.ContextWithIssues(c.Request().Context(), data)))
			}
			return next(c)
		}
	}
}

// GetIssues fetches the Issues collected for this request.
func GetIssues(c echo.Context) (oastype.Issues, bool) {
	return middleware.IssuesFromContext(c.Request().Context())
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health responds to GET /healthz. Used by load balancers and
// monitoring to verify the service is up.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

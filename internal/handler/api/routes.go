package api

import (
	"github.com/labstack/echo/v4"

	xhttp "AdPulse/pkg/http"
)

// Routes registers several handlers on one server.
type Routes []xhttp.Handler

func NewRoutes(dashboard *DashboardEchoHandler, ml *MLEchoHandler, live *LiveHandler) Routes {
	return Routes{dashboard, ml, live}
}

func (r Routes) RegisterRoutes(e *echo.Echo) {
	for _, h := range r {
		h.RegisterRoutes(e)
	}
}

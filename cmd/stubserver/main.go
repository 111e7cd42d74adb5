// Command stubserver is an in-memory development backend for the admin
// console. It speaks the same REST and push contract as the real Employee
// Management service: paginated employee lists, async create jobs, CSV
// import with batch progress and a server-sent-event notification stream.
package main

import (
	"context"
	"flag"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/locvowork/employee_admin_console/internal/logger"
)

func main() {
	addr := flag.String("addr", ":5000", "listen address")
	seed := flag.Int("seed", 57, "number of seeded employees")
	flag.Parse()

	ctx := context.Background()
	logger.InitLogging("", zerolog.InfoLevel)

	store := newMemStore()
	store.seed(*seed)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	registerRoutes(e, newAPIHandler(store))

	logger.InfoLog(ctx, "Stub backend listening on %s with %d employees", *addr, *seed)
	if err := e.Start(*addr); err != nil {
		logger.ErrorLog(ctx, "Server stopped", err)
	}
}

func registerRoutes(e *echo.Echo, h *apiHandler) {
	e.POST("/auth/login", h.LoginHandler)
	e.GET("/notifications/subscribe", h.SubscribeHandler)

	authed := e.Group("", requireAuth)
	authed.GET("/employees", h.ListEmployeesHandler)
	authed.GET("/employees/:id", h.GetEmployeeHandler)
	authed.POST("/employees", h.CreateEmployeeHandler)
	authed.PUT("/employees/:id", h.UpdateEmployeeHandler)
	authed.DELETE("/employees/:id", h.DeleteEmployeeHandler)

	authed.POST("/import/employees", h.ImportHandler)
	authed.GET("/import/status/:jobId", h.ImportStatusHandler)

	authed.GET("/notifications", h.ListNotificationsHandler)
	authed.GET("/notifications/unread-count", h.UnreadCountHandler)
	authed.PATCH("/notifications/read-all", h.MarkAllReadHandler)
}

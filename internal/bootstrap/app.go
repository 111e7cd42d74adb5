package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/locvowork/employee_admin_console/internal/config"
	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/gateway"
	"github.com/locvowork/employee_admin_console/internal/logger"
	"github.com/locvowork/employee_admin_console/internal/service"
	"github.com/locvowork/employee_admin_console/internal/session"
	"github.com/locvowork/employee_admin_console/internal/stream"
	"github.com/locvowork/employee_admin_console/internal/toast"
)

// App wires the console's components: one session store, one gateway client,
// the resource services and the shared notification channel. Everything is
// constructed explicitly and injected; nothing is a package-level singleton.
type App struct {
	Sessions      *session.Store
	Gateway       *gateway.Client
	Auth          *service.AuthService
	Employees     domain.EmployeeService
	Imports       domain.ImportService
	Notifications domain.NotificationService
	Channel       *stream.Channel
	Toasts        *toast.Console
}

// NewApp loads configuration, initializes logging and builds the component
// graph.
func NewApp(ctx context.Context) (*App, error) {
	if err := config.LoadEnvConfig(); err != nil {
		return nil, fmt.Errorf("failed to load env config: %w", err)
	}

	level, err := zerolog.ParseLevel(config.DefaultEnvConfig.LOG_LEVEL)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger.InitLogging(config.DefaultEnvConfig.LOG_FILE_PATH, level)
	logger.DebugLog(ctx, "Environment variables loaded successfully")

	store, err := session.NewStore(config.DefaultEnvConfig.STATE_DIR)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	api := gateway.NewClient(config.DefaultEnvConfig.API_BASE_URL, config.DefaultEnvConfig.API_TIMEOUT, store)
	toasts := toast.NewConsole(nil)

	app := &App{
		Sessions:      store,
		Gateway:       api,
		Auth:          service.NewAuthService(api, store),
		Employees:     service.NewEmployeeService(api),
		Imports:       service.NewImportService(api),
		Notifications: service.NewNotificationService(api),
		Channel:       stream.NewChannel(api.BaseURL(), api.HTTPClient(), store, toasts),
		Toasts:        toasts,
	}
	return app, nil
}

// RequireSession is the guard every authenticated command runs first. An
// invalid token forces a full logout and the caller aborts.
func (a *App) RequireSession() error {
	if !a.Sessions.RequireValid() {
		return fmt.Errorf("not logged in (or session expired); run: empadmin login")
	}
	return nil
}

// Teardown closes the notification channel. Commands that never connect may
// call it unconditionally.
func (a *App) Teardown() {
	a.Channel.Disconnect()
}

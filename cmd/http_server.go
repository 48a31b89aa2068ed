package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deevseek/washcorner/api"
	"github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/auth"
	authRepository "github.com/deevseek/washcorner/internal/auth/postgres"
	"github.com/deevseek/washcorner/internal/category"
	categoryRepository "github.com/deevseek/washcorner/internal/category/postgres"
	"github.com/deevseek/washcorner/internal/core/events"
	"github.com/deevseek/washcorner/internal/customer"
	customerRepository "github.com/deevseek/washcorner/internal/customer/postgres"
	"github.com/deevseek/washcorner/internal/employee"
	employeeRepository "github.com/deevseek/washcorner/internal/employee/postgres"
	"github.com/deevseek/washcorner/internal/expense"
	expenseRepository "github.com/deevseek/washcorner/internal/expense/postgres"
	"github.com/deevseek/washcorner/internal/notification"
	"github.com/deevseek/washcorner/internal/payroll"
	payrollRepository "github.com/deevseek/washcorner/internal/payroll/postgres"
	"github.com/deevseek/washcorner/internal/rbac"
	rbacRepository "github.com/deevseek/washcorner/internal/rbac/postgres"
	"github.com/deevseek/washcorner/internal/report"
	reportRepository "github.com/deevseek/washcorner/internal/report/postgres"
	"github.com/deevseek/washcorner/internal/transaction"
	transactionRepository "github.com/deevseek/washcorner/internal/transaction/postgres"
	"github.com/deevseek/washcorner/internal/transport"
	"github.com/deevseek/washcorner/internal/transport/rest"
	"github.com/deevseek/washcorner/internal/transport/swagger"
	"github.com/deevseek/washcorner/internal/user"
	userRepository "github.com/deevseek/washcorner/internal/user/postgres"
	"github.com/deevseek/washcorner/internal/washservice"
	washserviceRepository "github.com/deevseek/washcorner/internal/washservice/postgres"
	"github.com/deevseek/washcorner/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Synchronize roles and permissions, then serve the API until SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *databases
	Router     *chi.Mux
	EventBus   *events.EventBus
	Dispatcher *notification.Dispatcher
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server failed", "error", err)
			exitCode = 1
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Error("server shutdown error", "error", err)
	}
	deps.shutdown(ctx)

	lg.Info("server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// shutdown stops event delivery before notifications, then closes the pool.
func (d *Dependencies) shutdown(ctx context.Context) {
	if err := d.EventBus.Close(ctx); err != nil {
		d.Logger.Error("event bus close error", "error", err)
	}
	if d.Dispatcher != nil {
		if err := d.Dispatcher.Shutdown(ctx); err != nil {
			d.Logger.Error("notification dispatcher shutdown error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

func initializeDependencies() (*Dependencies, error) {
	cfg, err := setup()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()
	ctx := context.Background()

	if _, err := swagger.Load(ctx, api.OpenAPI); err != nil {
		return nil, internal.NewInitializationError("invalid OpenAPI document", err)
	}

	dbs, err := initDB(cfg.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rbacStore := rbacRepository.NewRBACRepository(dbs.Gorm)
	if err := rbac.NewSeeder(rbacStore, lg).Ensure(ctx); err != nil {
		_ = dbs.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	deps := &Dependencies{Config: cfg, DB: dbs, EventBus: bus, Logger: lg}
	probes := map[string]rest.Probe{}

	if cfg.Notification.Enabled {
		templates, err := notification.NewTemplates(cfg.Notification.Templates)
		if err != nil {
			_ = dbs.Close()
			return nil, internal.NewInitializationError("invalid notification template", err)
		}
		sender := notification.NewFonnteSender(cfg.Notification.ProviderURL, cfg.Notification.Token, cfg.Notification.Timeout)
		deps.Dispatcher = notification.NewDispatcher(sender, notification.DispatcherConfig{
			MaxWorkers:  cfg.Notification.MaxWorkers,
			QueueSize:   cfg.Notification.QueueSize,
			SendTimeout: cfg.Notification.Timeout,
		}, lg)
		notification.NewEventHandler(templates, deps.Dispatcher, lg).RegisterEventHandlers(bus)
		probes["notifications"] = notificationProbe(deps.Dispatcher)
	} else {
		lg.Info("customer notifications disabled")
	}

	base := transport.NewBaseHandler(lg)
	authorizer := rbac.NewAuthorizer(rbacStore, lg)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTAccessSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepository.NewRepository(dbs.Gorm), tokens, lg)
	userService := user.NewService(userRepository.NewUserRepository(dbs.Gorm), rbacStore, authorizer, cfg.Security.BCryptCost, lg)

	customerRepo := customerRepository.NewCustomerRepository(dbs.Gorm)
	serviceRepo := washserviceRepository.NewServiceRepository(dbs.Gorm)
	employeeRepo := employeeRepository.NewEmployeeRepository(dbs.Gorm)

	payrollService := payroll.NewService(
		payrollRepository.NewPayrollRepository(dbs.Gorm),
		payrollRepository.NewPositionSalaryRepository(dbs.Gorm),
		employeeRepo,
		lg,
	)

	transactionService := transaction.NewService(
		transactionRepository.NewTransactionRepository(dbs.Gorm),
		serviceRepo,
		customerRepo,
		bus,
		lg,
		transaction.WithPolicy(transaction.PolicyFor(cfg.Transactions.StrictStatusFlow)),
		transaction.WithTrackingAttempts(cfg.Transactions.TrackingCodeAttempts),
	)

	categoryService := category.NewService(categoryRepository.NewCategoryRepository(dbs.Gorm), lg)
	expenseService := expense.NewService(expenseRepository.NewExpenseRepository(dbs.Gorm), categoryService, lg)
	reportService := report.NewService(reportRepository.NewReportRepository(dbs.SQLX), lg)

	handlers := rest.Handlers{
		Auth:        auth.NewHandler(base, authService),
		RBAC:        auth.NewRBACAuthorization(authorizer, lg),
		Users:       user.NewHandler(base, userService),
		Roles:       rbac.NewHandler(base, rbac.NewService(rbacStore, lg)),
		Customers:   customer.NewHandler(base, customer.NewService(customerRepo, lg)),
		Services:    washservice.NewHandler(base, washservice.NewServiceManager(serviceRepo, lg)),
		Employees:   employee.NewHandler(base, employee.NewService(employeeRepo, lg)),
		Payrolls:    payroll.NewHandler(base, payrollService),
		Transaction: transaction.NewHandler(base, transactionService),
		Expenses:    expense.NewHandler(base, expenseService),
		Categories:  category.NewHandler(base, categoryService),
		Reports:     report.NewHandler(base, reportService),
	}

	sqlDB := dbs.SQLX.DB
	deps.Router = rest.NewRouter(rest.Options{
		Server:      cfg.Server,
		Metrics:     cfg.Observability.Metrics,
		OpenAPI:     api.OpenAPI,
		DB:          sqlDB,
		Logger:      lg,
		HealthProbe: probes,
	}, handlers)

	lg.Info("dependencies initialized",
		"strict_status_flow", cfg.Transactions.StrictStatusFlow,
		"notifications", cfg.Notification.Enabled)
	return deps, nil
}

func notificationProbe(d *notification.Dispatcher) rest.Probe {
	return func(ctx context.Context) (map[string]any, error) {
		queued, capacity := d.Backlog()
		details := map[string]any{"queued": queued, "capacity": capacity}
		if capacity > 0 && queued >= capacity {
			return details, errors.New("notification queue is full")
		}
		return details, nil
	}
}

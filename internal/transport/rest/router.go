package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/deevseek/washcorner/internal"
	"github.com/deevseek/washcorner/internal/auth"
	"github.com/deevseek/washcorner/internal/category"
	"github.com/deevseek/washcorner/internal/customer"
	"github.com/deevseek/washcorner/internal/employee"
	"github.com/deevseek/washcorner/internal/expense"
	"github.com/deevseek/washcorner/internal/payroll"
	"github.com/deevseek/washcorner/internal/rbac"
	"github.com/deevseek/washcorner/internal/report"
	"github.com/deevseek/washcorner/internal/transaction"
	"github.com/deevseek/washcorner/internal/transport/middleware"
	"github.com/deevseek/washcorner/internal/transport/swagger"
	"github.com/deevseek/washcorner/internal/user"
	"github.com/deevseek/washcorner/internal/washservice"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every HTTP handler the API mounts. A nil handler leaves
// its routes unregistered.
type Handlers struct {
	Auth        *auth.Handler
	RBAC        *auth.RBACAuthorization
	Users       *user.Handler
	Roles       *rbac.Handler
	Customers   *customer.Handler
	Services    *washservice.Handler
	Employees   *employee.Handler
	Payrolls    *payroll.Handler
	Transaction *transaction.Handler
	Expenses    *expense.Handler
	Categories  *category.Handler
	Reports     *report.Handler
}

type Options struct {
	Server      internal.ServerConfig
	Metrics     internal.MetricsConfig
	OpenAPI     []byte
	DB          *sql.DB
	Logger      *slog.Logger
	HealthProbe map[string]Probe
}

func NewRouter(opts Options, h Handlers) *chi.Mux {
	router := chi.NewRouter()
	RegisterAllRoutes(router, opts, h)
	return router
}

func RegisterAllRoutes(router *chi.Mux, opts Options, h Handlers) {
	healthHandler := NewHealthHandler(opts.DB, opts.HealthProbe)

	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggingMiddleware(opts.Logger))
	router.Use(middleware.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.Server.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.TraceHeader},
		ExposedHeaders:   []string{middleware.TraceHeader, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.Server.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(opts.Server.RequestTimeout))
	}
	if opts.Server.RateLimitPerMinute > 0 {
		router.Use(httprate.LimitByIP(opts.Server.RateLimitPerMinute, time.Minute))
	}

	if opts.Metrics.Enabled {
		path := opts.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		router.Method(http.MethodGet, path, promhttp.Handler())
	}

	if len(opts.OpenAPI) > 0 {
		router.Get(swagger.DocumentPath, swagger.DocumentHandler(opts.OpenAPI))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		// Customer facing job status, reachable without an account.
		if h.Transaction != nil {
			r.Get("/track/{code}", h.Transaction.Track)
		}

		if h.Auth == nil || h.RBAC == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			registerProtectedRoutes(pr, h)
		})
	})
}

func registerProtectedRoutes(r chi.Router, h Handlers) {
	gate := h.RBAC
	with := func(perm string) chi.Router { return r.With(gate.Require(perm)) }

	if h.Users != nil {
		r.Get("/users/me", h.Users.GetCurrentUser)
		with("users.view").Get("/users", h.Users.ListUsers)
		with("users.create").Post("/users", h.Users.CreateUser)
		with("users.change_role").Patch("/users/{id}/role", h.Users.ChangeRole)
	}

	if h.Roles != nil {
		r.Group(func(ar chi.Router) {
			ar.Use(gate.RequireAdmin())
			ar.With(gate.Require("roles.view")).Get("/roles", h.Roles.ListRoles)
			ar.With(gate.Require("roles.create")).Post("/roles", h.Roles.CreateRole)
			ar.With(gate.Require("roles.delete")).Delete("/roles/{id}", h.Roles.DeleteRole)
			ar.With(gate.Require("roles.manage")).Put("/roles/{id}/permissions", h.Roles.SetRolePermissions)
			ar.With(gate.Require("permissions.view")).Get("/permissions", h.Roles.ListPermissions)
		})
	}

	if h.Customers != nil {
		with("customers.view").Get("/customers", h.Customers.ListCustomers)
		with("customers.create").Post("/customers", h.Customers.CreateCustomer)
		with("customers.view").Get("/customers/{id}", h.Customers.GetCustomer)
		with("customers.update").Put("/customers/{id}", h.Customers.UpdateCustomer)
		with("customers.delete").Delete("/customers/{id}", h.Customers.DeleteCustomer)
	}

	if h.Services != nil {
		with("services.view").Get("/services", h.Services.ListServices)
		with("services.create").Post("/services", h.Services.CreateService)
		with("services.view").Get("/services/{id}", h.Services.GetService)
		with("services.update").Put("/services/{id}", h.Services.UpdateService)
		with("services.delete").Delete("/services/{id}", h.Services.DeleteService)
	}

	if h.Employees != nil {
		with("employees.view").Get("/employees", h.Employees.ListActiveEmployees)
		with("hrd_employees.view").Get("/hrd/employees", h.Employees.ListEmployees)
		with("hrd_employees.create").Post("/hrd/employees", h.Employees.CreateEmployee)
		with("hrd_employees.view").Get("/hrd/employees/{id}", h.Employees.GetEmployee)
		with("hrd_employees.update").Put("/hrd/employees/{id}", h.Employees.UpdateEmployee)
		with("hrd_employees.delete").Delete("/hrd/employees/{id}", h.Employees.DeleteEmployee)
	}

	if h.Payrolls != nil {
		with("hrd_position_salaries.view").Get("/hrd/position-salaries", h.Payrolls.ListPositionSalaries)
		with("hrd_position_salaries.create").Post("/hrd/position-salaries", h.Payrolls.CreatePositionSalary)
		with("hrd_position_salaries.view").Get("/hrd/position-salaries/{id}", h.Payrolls.GetPositionSalary)
		with("hrd_position_salaries.update").Put("/hrd/position-salaries/{id}", h.Payrolls.UpdatePositionSalary)
		with("hrd_position_salaries.delete").Delete("/hrd/position-salaries/{id}", h.Payrolls.DeletePositionSalary)

		with("hrd_payrolls.view").Get("/hrd/payrolls", h.Payrolls.ListPayrolls)
		with("hrd_payrolls.create").Post("/hrd/payrolls", h.Payrolls.CreatePayroll)
		with("hrd_payrolls.create").Post("/hrd/payrolls/preview", h.Payrolls.PreviewPayroll)
		with("hrd_payrolls.manage_report").Get("/hrd/payrolls/export", h.Payrolls.ExportPayrolls)
		with("hrd_payrolls.view").Get("/hrd/payrolls/{id}", h.Payrolls.GetPayroll)
		with("hrd_payrolls.process").Patch("/hrd/payrolls/{id}/approve", h.Payrolls.ApprovePayroll)
		with("hrd_payrolls.process").Patch("/hrd/payrolls/{id}/reject", h.Payrolls.RejectPayroll)
		with("hrd_payrolls.process").Patch("/hrd/payrolls/{id}/pay", h.Payrolls.PayPayroll)
		with("hrd_payrolls.delete").Delete("/hrd/payrolls/{id}", h.Payrolls.DeletePayroll)
	}

	if h.Transaction != nil {
		with("transactions.view").Get("/transactions", h.Transaction.ListTransactions)
		with("transactions.create").Post("/transactions", h.Transaction.CreateTransaction)
		with("transactions.view").Get("/transactions/{id}", h.Transaction.GetTransaction)
		with("transactions.change_status").Patch("/transactions/{id}/status", h.Transaction.UpdateStatus)
		with("transactions.delete").Delete("/transactions/{id}", h.Transaction.DeleteTransaction)
		with("tracking.view").Get("/tracking/{code}", h.Transaction.GetByTrackingCode)
		with("tracking.update_status").Patch("/tracking/{code}/status", h.Transaction.UpdateStatusByTrackingCode)
		with("service_history.view").Get("/service-history", h.Transaction.ServiceHistory)
	}

	if h.Expenses != nil {
		with("finance_expenses.view").Get("/finance/expenses", h.Expenses.ListExpenses)
		with("finance_expenses.create").Post("/finance/expenses", h.Expenses.CreateExpense)
		with("finance_expenses.view").Get("/finance/expenses/{id}", h.Expenses.GetExpense)
		with("finance_expenses.update").Put("/finance/expenses/{id}", h.Expenses.UpdateExpense)
		with("finance_expenses.delete").Delete("/finance/expenses/{id}", h.Expenses.DeleteExpense)
	}

	if h.Categories != nil {
		with("finance_expense_categories.view").Get("/finance/expense-categories", h.Categories.GetCategories)
		with("finance_expense_categories.create").Post("/finance/expense-categories", h.Categories.CreateCategory)
		with("finance_expense_categories.view").Get("/finance/expense-categories/{id}", h.Categories.GetCategory)
		with("finance_expense_categories.update").Put("/finance/expense-categories/{id}", h.Categories.UpdateCategory)
		with("finance_expense_categories.delete").Delete("/finance/expense-categories/{id}", h.Categories.DeleteCategory)
	}

	if h.Reports != nil {
		with("finance_profit_loss_reports.view").Get("/finance/profit-loss", h.Reports.GetProfitLoss)
		with("finance_profit_loss_reports.manage_report").Get("/finance/profit-loss/export", h.Reports.ExportProfitLoss)
	}
}

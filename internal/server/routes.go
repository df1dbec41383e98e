package server

import (
	"mirotec-backend/internal/audit"
	"mirotec-backend/internal/auth"
	"mirotec-backend/internal/billing"
	"mirotec-backend/internal/clients"
	"mirotec-backend/internal/company"
	"mirotec-backend/internal/config"
	"mirotec-backend/internal/dashboard"
	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/inventory"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/orders"
	"mirotec-backend/internal/payroll"
	"mirotec-backend/internal/production"
	"mirotec-backend/internal/workforce"

	"github.com/gofiber/fiber/v2"
)

func Register(app *fiber.App, cfg *config.Config) {
	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-company", company.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	perm := auth.RequirePermission
	owner := auth.RequireRole(models.RoleOwner)

	protected.Get("/auth/me", auth.MeHandler())
	protected.Get("/company", company.GetHandler())
	protected.Put("/company", owner, company.UpdateHandler())
	protected.Post("/users", owner, company.CreateUserHandler())
	protected.Get("/audit-logs", owner, audit.ListAuditLogsHandler())

	// Inventory
	protected.Get("/inventory", perm(auth.PermInventory), inventory.ListItemsHandler())
	protected.Get("/inventory/low-stock", perm(auth.PermInventory), inventory.LowStockHandler())
	protected.Post("/inventory", perm(auth.PermInventoryAddStock), inventory.CreateItemHandler())
	protected.Put("/inventory/:id/quantity", perm(auth.PermInventoryAddStock), inventory.SetQuantityHandler())

	// Production
	protected.Get("/machines", perm(auth.PermProduction), production.ListMachinesHandler())
	protected.Get("/machines/consumption", perm(auth.PermProduction), production.ConsumptionHandler())
	protected.Post("/machines", perm(auth.PermProductionControl), production.CreateMachineHandler())
	protected.Put("/machines/:id/status", perm(auth.PermProductionControl), production.UpdateMachineStatusHandler())

	// Clients & orders
	protected.Get("/clients", perm(auth.PermOrders), clients.ListClientsHandler())
	protected.Post("/clients", perm(auth.PermOrders), clients.CreateClientHandler())
	protected.Get("/clients/:id", perm(auth.PermOrders), clients.GetClientHandler())
	protected.Put("/clients/:id", perm(auth.PermOrders), clients.UpdateClientHandler())
	protected.Get("/clients/:id/summary", perm(auth.PermOrders), clients.ClientSummaryHandler())

	protected.Get("/orders", perm(auth.PermOrders), orders.ListOrdersHandler())
	protected.Post("/orders", perm(auth.PermOrders), orders.CreateOrderHandler())
	protected.Put("/orders/:id/status", perm(auth.PermOrders), orders.UpdateOrderStatusHandler())

	// Billing
	protected.Get("/invoices", perm(auth.PermBilling), billing.ListInvoicesHandler())
	protected.Post("/invoices/preview-totals", perm(auth.PermBilling), billing.PreviewTotalsHandler())
	protected.Post("/invoices", perm(auth.PermBillingEdit), billing.CreateInvoiceHandler())
	protected.Get("/invoices/:id", perm(auth.PermBilling), billing.GetInvoiceHandler())
	protected.Get("/invoices/:id/qr", perm(auth.PermBilling), billing.InvoiceQRHandler())
	protected.Put("/invoices/:id/status", perm(auth.PermBillingEdit), billing.UpdateInvoiceStatusHandler())
	protected.Get("/challans", perm(auth.PermBilling), billing.ListChallansHandler())
	protected.Post("/challans", perm(auth.PermBillingEdit), billing.CreateChallanHandler())
	protected.Put("/challans/:id/status", perm(auth.PermBillingEdit), billing.UpdateChallanStatusHandler())
	protected.Get("/billing/stats", perm(auth.PermBilling), billing.StatsHandler())

	// Finance
	protected.Get("/transactions", perm(auth.PermFinance), finance.ListTransactionsHandler())
	protected.Post("/transactions", perm(auth.PermFinanceManualEntry), finance.CreateManualEntryHandler())
	protected.Get("/finance/summary", perm(auth.PermFinance), finance.SummaryHandler())
	protected.Get("/finance/chart", perm(auth.PermViewCharts), finance.ChartHandler())
	protected.Get("/finance/export", perm(auth.PermFinance), finance.ExportHandler())
	protected.Post("/finance/reconcile", owner, finance.ReconcileHandler())

	// Workforce
	protected.Get("/employees", perm(auth.PermWorkforce), workforce.ListEmployeesHandler())
	protected.Post("/employees", perm(auth.PermWorkforceAddEmployee), workforce.CreateEmployeeHandler())
	protected.Put("/employees/:id/attendance", perm(auth.PermWorkforceAttendance), workforce.SetAttendanceFlagHandler())
	protected.Get("/attendance", perm(auth.PermWorkforce), workforce.AttendanceByDateHandler())
	protected.Post("/attendance", perm(auth.PermWorkforceAttendance), workforce.UpsertAttendanceHandler())
	protected.Get("/attendance/employee/:id", perm(auth.PermWorkforce), workforce.EmployeeAttendanceHandler())
	protected.Get("/attendance/employee/:id/stats", perm(auth.PermWorkforce), workforce.EmployeeStatsHandler())
	protected.Put("/attendance/:employeeId/:date", perm(auth.PermWorkforceAttendance), workforce.UpdateAttendanceHandler())

	// Payroll
	protected.Get("/salary-configs", perm(auth.PermPayroll), payroll.ListConfigsHandler())
	protected.Get("/salary-configs/:employeeId", perm(auth.PermPayroll), payroll.GetConfigHandler())
	protected.Put("/salary-configs/:employeeId", perm(auth.PermPayrollEdit), payroll.UpdateConfigHandler())
	protected.Get("/payroll/:month", perm(auth.PermPayroll), payroll.MonthHandler())
	protected.Get("/payroll/:month/summary", perm(auth.PermPayroll), payroll.SummaryHandler())
	protected.Get("/payroll/:month/export", perm(auth.PermPayroll), payroll.ExportHandler())
	protected.Get("/payroll/:month/employees/:employeeId", perm(auth.PermPayroll), payroll.EmployeeHandler())
	protected.Post("/payroll/:month/process", perm(auth.PermPayrollEdit), payroll.ProcessHandler())

	// Dashboard
	protected.Get("/dashboard/kpis", perm(auth.PermDashboard), dashboard.KPIsHandler())
	protected.Get("/dashboard/alerts", perm(auth.PermDashboard), dashboard.AlertsHandler())
}

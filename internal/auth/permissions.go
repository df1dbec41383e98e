package auth

import "mirotec-backend/internal/models"

type Permission string

const (
	PermDashboard            Permission = "dashboard"
	PermDashboardAnalytics   Permission = "dashboardAnalytics"
	PermInventory            Permission = "inventory"
	PermInventoryAddStock    Permission = "inventoryAddStock"
	PermProduction           Permission = "production"
	PermProductionControl    Permission = "productionControl"
	PermOrders               Permission = "orders"
	PermWorkforce            Permission = "workforce"
	PermWorkforceAddEmployee Permission = "workforceAddEmployee"
	PermWorkforceAttendance  Permission = "workforceAttendance"
	PermFinance              Permission = "finance"
	PermFinanceManualEntry   Permission = "financeManualEntry"
	PermBilling              Permission = "billing"
	PermBillingEdit          Permission = "billingEdit"
	PermPayroll              Permission = "payroll"
	PermPayrollEdit          Permission = "payrollEdit"
	PermViewCharts           Permission = "viewCharts"
	PermViewAllKPIs          Permission = "viewAllKPIs"
)

var allPermissions = []Permission{
	PermDashboard, PermDashboardAnalytics,
	PermInventory, PermInventoryAddStock,
	PermProduction, PermProductionControl,
	PermOrders,
	PermWorkforce, PermWorkforceAddEmployee, PermWorkforceAttendance,
	PermFinance, PermFinanceManualEntry,
	PermBilling, PermBillingEdit,
	PermPayroll, PermPayrollEdit,
	PermViewCharts, PermViewAllKPIs,
}

var rolePermissions = map[models.UserRole]map[Permission]bool{
	models.RoleOwner: grant(allPermissions...),
	models.RoleManager: grant(
		PermDashboard, PermDashboardAnalytics,
		PermInventory, PermInventoryAddStock,
		PermProduction, PermProductionControl,
		PermOrders,
		PermWorkforce, PermWorkforceAttendance,
		PermFinance,
		PermBilling,
		PermPayroll,
		PermViewCharts, PermViewAllKPIs,
	),
	models.RoleSupervisor: grant(
		PermDashboard,
		PermInventory,
		PermProduction, PermProductionControl,
		PermWorkforce, PermWorkforceAttendance,
	),
	models.RoleOperator: grant(
		PermInventory,
		PermProduction, PermProductionControl,
		PermWorkforce, PermWorkforceAttendance,
	),
}

func grant(perms ...Permission) map[Permission]bool {
	m := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

func Can(role models.UserRole, p Permission) bool {
	return rolePermissions[role][p]
}

// PermissionsFor lists what role may do, in table order.
func PermissionsFor(role models.UserRole) []Permission {
	out := make([]Permission, 0, len(allPermissions))
	for _, p := range allPermissions {
		if Can(role, p) {
			out = append(out, p)
		}
	}
	return out
}

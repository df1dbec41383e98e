package auth

import (
	"testing"

	"mirotec-backend/internal/models"
)

func TestRolePermissions(t *testing.T) {
	cases := []struct {
		role models.UserRole
		perm Permission
		want bool
	}{
		{models.RoleOwner, PermPayrollEdit, true},
		{models.RoleOwner, PermFinanceManualEntry, true},
		{models.RoleManager, PermFinance, true},
		{models.RoleManager, PermFinanceManualEntry, false},
		{models.RoleManager, PermBillingEdit, false},
		{models.RoleManager, PermPayrollEdit, false},
		{models.RoleManager, PermWorkforceAddEmployee, false},
		{models.RoleSupervisor, PermDashboard, true},
		{models.RoleSupervisor, PermProductionControl, true},
		{models.RoleSupervisor, PermFinance, false},
		{models.RoleOperator, PermDashboard, false},
		{models.RoleOperator, PermWorkforceAttendance, true},
		{models.UserRole("intern"), PermInventory, false},
	}
	for _, tc := range cases {
		if got := Can(tc.role, tc.perm); got != tc.want {
			t.Fatalf("Can(%s, %s) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestPermissionsForOwnerIsEverything(t *testing.T) {
	if got := len(PermissionsFor(models.RoleOwner)); got != len(allPermissions) {
		t.Fatalf("owner has %d permissions, want %d", got, len(allPermissions))
	}
	if got := len(PermissionsFor(models.RoleOperator)); got != 5 {
		t.Fatalf("operator has %d permissions, want 5", got)
	}
}

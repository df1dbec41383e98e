package payroll

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"mirotec-backend/internal/finance"
	"mirotec-backend/internal/models"
	"mirotec-backend/internal/testdb"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func employee(t *testing.T, db *gorm.DB, companyID uint, code string, role models.EmployeeRole) *models.Employee {
	t.Helper()
	e := models.Employee{CompanyID: companyID, Name: "Worker " + code, EmployeeCode: code, Role: role,
		Department: models.DepartmentProduction, Shift: models.ShiftMorning}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("employee: %v", err)
	}
	if _, err := EnsureConfig(db, &e); err != nil {
		t.Fatalf("EnsureConfig: %v", err)
	}
	return &e
}

func attend(t *testing.T, db *gorm.DB, e *models.Employee, date string, status models.AttendanceStatus, ot decimal.Decimal) {
	t.Helper()
	r := models.AttendanceRecord{CompanyID: e.CompanyID, EmployeeID: e.ID, Date: date, Status: status, OvertimeHours: ot}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("attendance: %v", err)
	}
}

func TestDefaultConfigByRole(t *testing.T) {
	cases := []struct {
		role                      models.EmployeeRole
		base, perDay, ot, allowed int64
	}{
		{models.EmployeeSupervisor, 35000, 1346, 252, 3500},
		{models.EmployeeOperator, 22000, 846, 159, 2200},
		{models.EmployeeTechnician, 28000, 1077, 202, 2800},
		{models.EmployeeHelper, 15000, 577, 108, 1500},
		{"", 18000, 692, 130, 1800},
	}
	for _, tc := range cases {
		cfg := DefaultConfig(1, 1, tc.role)
		if !cfg.BaseMonthlySalary.Equal(d(tc.base)) || !cfg.PerDaySalary.Equal(d(tc.perDay)) ||
			!cfg.OvertimeRate.Equal(d(tc.ot)) || !cfg.Allowances.Equal(d(tc.allowed)) {
			t.Fatalf("%q: got base=%s perDay=%s ot=%s allowances=%s", tc.role,
				cfg.BaseMonthlySalary, cfg.PerDaySalary, cfg.OvertimeRate, cfg.Allowances)
		}
		if !cfg.PFPercent.Equal(d(12)) || !cfg.ESIPercent.Equal(decimal.RequireFromString("0.75")) {
			t.Fatalf("%q: pf=%s esi=%s", tc.role, cfg.PFPercent, cfg.ESIPercent)
		}
	}
}

func TestCalculateReferencePayslip(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	e := employee(t, db, co.ID, "EMP001", models.EmployeeOperator)

	rate := d(163)
	if _, err := UpdateConfig(db, co.ID, e.ID, ConfigPatch{OvertimeRate: &rate}); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}

	// May 2024: 22 present (two of them late), one half day, 4h overtime.
	day := 0
	next := func() string {
		for {
			day++
			s := fmt.Sprintf("2024-05-%02d", day)
			if s != "2024-05-05" && s != "2024-05-12" && s != "2024-05-19" && s != "2024-05-26" {
				return s
			}
		}
	}
	for i := 0; i < 20; i++ {
		attend(t, db, e, next(), models.AttendancePresent, decimal.Zero)
	}
	attend(t, db, e, next(), models.AttendanceLate, d(2))
	attend(t, db, e, next(), models.AttendanceLate, d(2))
	attend(t, db, e, next(), models.AttendanceHalfDay, decimal.Zero)
	attend(t, db, e, next(), models.AttendanceAbsent, decimal.Zero)
	attend(t, db, e, next(), models.AttendanceOnLeave, decimal.Zero)
	// outside the month
	attend(t, db, e, "2024-06-01", models.AttendancePresent, d(10))

	rec, err := Calculate(db, co.ID, e.ID, "2024-05")
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if rec.WorkingDays != 27 || rec.PresentDays != 22 || rec.LateDays != 2 || rec.HalfDays != 1 ||
		rec.AbsentDays != 1 || rec.LeaveDays != 1 || !rec.OvertimeHours.Equal(d(4)) {
		t.Fatalf("unexpected attendance breakdown: %+v", rec)
	}
	want := map[string][2]decimal.Decimal{
		"basic":      {rec.BasicSalary, d(19035)},
		"overtime":   {rec.OvertimePay, d(652)},
		"gross":      {rec.GrossSalary, d(21887)},
		"pf":         {rec.PFDeduction, d(2284)},
		"esi":        {rec.ESIDeduction, d(164)},
		"deductions": {rec.TotalDeductions, d(2448)},
		"net":        {rec.NetSalary, d(19439)},
	}
	for name, pair := range want {
		if !pair[0].Equal(pair[1]) {
			t.Fatalf("%s = %s, want %s", name, pair[0], pair[1])
		}
	}
	if rec.Status != models.PayrollDraft {
		t.Fatalf("status = %s", rec.Status)
	}

	var n int64
	db.Model(&models.PayrollRecord{}).Count(&n)
	if n != 0 {
		t.Fatal("Calculate must not persist")
	}
}

func TestCalculateErrors(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	if _, err := Calculate(db, co.ID, 9, "2024-05"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	bare := models.Employee{CompanyID: co.ID, Name: "No Config", EmployeeCode: "EMP009", Role: models.EmployeeHelper,
		Department: models.DepartmentPackaging, Shift: models.ShiftNight}
	db.Create(&bare)
	if _, err := Calculate(db, co.ID, bare.ID, "2024-05"); !errors.Is(err, ErrNoSalaryConfig) {
		t.Fatalf("expected ErrNoSalaryConfig, got %v", err)
	}
	if _, err := Calculate(db, co.ID, bare.ID, "May"); err == nil {
		t.Fatal("expected month parse error")
	}
}

func TestUpdateConfigRederivesFromBase(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	e := employee(t, db, co.ID, "EMP001", models.EmployeeHelper)

	base := d(26000)
	perDay := d(1)
	cfg, err := UpdateConfig(db, co.ID, e.ID, ConfigPatch{BaseMonthlySalary: &base, PerDaySalary: &perDay})
	if err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if !cfg.PerDaySalary.Equal(d(1000)) || !cfg.OvertimeRate.Equal(d(188)) {
		t.Fatalf("perDay=%s ot=%s", cfg.PerDaySalary, cfg.OvertimeRate)
	}
	if !cfg.Allowances.Equal(d(1500)) {
		t.Fatalf("allowances changed: %s", cfg.Allowances)
	}

	neg := d(-5)
	if _, err := UpdateConfig(db, co.ID, e.ID, ConfigPatch{Allowances: &neg}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestProcessTwiceBooksOneSalaryEntry(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	a := employee(t, db, co.ID, "EMP001", models.EmployeeOperator)
	b := employee(t, db, co.ID, "EMP002", models.EmployeeHelper)
	attend(t, db, a, "2024-05-02", models.AttendancePresent, decimal.Zero)
	attend(t, db, b, "2024-05-02", models.AttendanceHalfDay, decimal.Zero)

	draft, err := Summary(db, co.ID, "2024-05")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if draft.Status != models.PayrollDraft || draft.TotalEmployees != 2 {
		t.Fatalf("unexpected draft summary: %+v", draft)
	}

	ok, err := Process(db, co.ID, "2024-05")
	if err != nil || !ok {
		t.Fatalf("first Process = %v, %v", ok, err)
	}

	// Attendance added after processing doesn't change the stored payslips.
	attend(t, db, a, "2024-05-03", models.AttendancePresent, d(8))

	ok, err = Process(db, co.ID, "2024-05")
	if err != nil || ok {
		t.Fatalf("second Process = %v, %v", ok, err)
	}

	entry, _ := finance.FindByKey(db, co.ID, finance.PayrollKey("2024-05"))
	if entry == nil {
		t.Fatal("salary entry missing")
	}
	if entry.Type != models.TransactionDebit || entry.Category != models.CategorySalary ||
		entry.Source != models.SourceManual || entry.Description != "Salary Payment - May 2024" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !entry.Amount.Equal(draft.TotalNetSalary) {
		t.Fatalf("entry amount %s, want %s", entry.Amount, draft.TotalNetSalary)
	}

	var entries int64
	db.Model(&models.Transaction{}).Where("company_id = ?", co.ID).Count(&entries)
	if entries != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", entries)
	}

	recs, err := GetForMonth(db, co.ID, "2024-05")
	if err != nil || len(recs) != 2 {
		t.Fatalf("GetForMonth = %d, %v", len(recs), err)
	}
	for _, r := range recs {
		if r.Status != models.PayrollProcessed || r.ProcessedDate == "" {
			t.Fatalf("record not processed: %+v", r)
		}
	}
	if recs[0].PresentDays != 1 || !recs[0].OvertimeHours.IsZero() {
		t.Fatalf("stored payslip moved: %+v", recs[0])
	}

	sum, _ := Summary(db, co.ID, "2024-05")
	if sum.Status != models.PayrollProcessed || !sum.TotalNetSalary.Equal(draft.TotalNetSalary) {
		t.Fatalf("unexpected processed summary: %+v", sum)
	}
}

func TestProcessEmptyMonth(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")

	ok, err := Process(db, co.ID, "2024-02")
	if err != nil || !ok {
		t.Fatalf("Process = %v, %v", ok, err)
	}
	done, _ := IsProcessed(db, co.ID, "2024-02")
	if !done {
		t.Fatal("month should be locked")
	}
	if e, _ := finance.FindByKey(db, co.ID, finance.PayrollKey("2024-02")); e == nil || !e.Amount.IsZero() {
		t.Fatalf("expected zero salary entry, got %+v", e)
	}
}

func TestWritePayrollXLSX(t *testing.T) {
	db := testdb.Open(t)
	co := testdb.Company(t, db, "gujarat")
	e := employee(t, db, co.ID, "EMP001", models.EmployeeSupervisor)
	attend(t, db, e, "2024-05-02", models.AttendancePresent, decimal.Zero)

	recs, _ := GetForMonth(db, co.ID, "2024-05")
	names, _ := EmployeeNames(db, co.ID)

	var buf bytes.Buffer
	if err := WritePayrollXLSX(&buf, "2024-05", recs, names); err != nil {
		t.Fatalf("WritePayrollXLSX: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	name, _ := f.GetCellValue("Payroll 2024-05", "A2")
	if name != "EMP001 Worker EMP001" {
		t.Fatalf("A2 = %q", name)
	}
	net, _ := f.GetCellValue("Payroll 2024-05", "P4")
	if net == "" {
		t.Fatal("total net missing")
	}
}

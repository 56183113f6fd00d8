package gormrepo

import (
	"testing"

	"mcredit-backend/internal/domain/loan"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the real schema.
// One connection keeps every query on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeApplication(userID uint64, amount int64) *loan.Application {
	s, _ := loan.Quote(amount)
	a := &loan.Application{
		UserID:         userID,
		FullName:       "Ravi Kumar",
		Mobile:         "+919876543210",
		Email:          "ravi@example.com",
		DateOfBirth:    "1990-04-12",
		Address:        "12 MG Road, Bengaluru",
		MonthlyIncome:  "25000-50000",
		EmploymentType: "salaried",
		Purpose:        "business",
		Status:         loan.StatusPending,
		KYCStatus:      loan.KYCPending,
	}
	a.ApplySchedule(s)
	return a
}

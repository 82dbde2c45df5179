package mysql

import (
	"testing"
	"time"

	auditDomain "coop-loan-service/internal/domain/audit"
	loanDomain "coop-loan-service/internal/domain/loan"
	memberDomain "coop-loan-service/internal/domain/member"
	"coop-loan-service/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB creates an in-memory sqlite DB with the full schema.
// One connection only: every new :memory: connection is a fresh database.
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

	if err := db.AutoMigrate(&memberDomain.Member{}, &loanDomain.Loan{}, &auditDomain.Entry{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func seedMember(t *testing.T, db *gorm.DB, name, pin string) *memberDomain.Member {
	t.Helper()
	m := &memberDomain.Member{
		ID:                id.NewID32(),
		Name:              name,
		PIN:               pin,
		JoinDate:          time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		TotalContribution: 120_000,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func makeLoan(memberID string, status loanDomain.Status, applied time.Time) *loanDomain.Loan {
	l := &loanDomain.Loan{
		LoanID:      id.NewID32(),
		MemberID:    memberID,
		Amount:      50_000,
		Status:      status,
		DateApplied: applied.UTC(),
	}
	switch status {
	case loanDomain.StatusProcessing:
		slot := memberID
		l.ActiveSlot = &slot
	case loanDomain.StatusApproved, loanDomain.StatusCleared:
		l.MarkApproved(applied, "admin")
		l.Status = status
	}
	return l
}

package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "coop-loan-service/internal/domain/loan"

	"gorm.io/gorm"
)

func TestCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan("mmmmmmmmmmmmmmmmmmmmmmmmmmmmmmmm", domain.StatusProcessing, time.Now())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.MemberID != l.MemberID || got.Status != domain.StatusProcessing || got.Amount != 50_000 {
		t.Errorf("unexpected loan: %+v", got)
	}
	if got.ApprovedDate != nil || got.DueDate != nil {
		t.Errorf("processing loan must not carry approval dates: %+v", got)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	_, err := repo.GetByLoanID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestCreate_SecondProcessingLoanHitsUniqueSlot(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	const member = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	if err := repo.Create(ctx, makeLoan(member, domain.StatusProcessing, time.Now())); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := repo.Create(ctx, makeLoan(member, domain.StatusProcessing, time.Now()))
	if !errors.Is(err, domain.ErrActiveLoanExists) {
		t.Fatalf("second processing loan: want ErrActiveLoanExists, got %v", err)
	}

	// approved loans never occupy the slot
	for i := 0; i < 2; i++ {
		if err := repo.Create(ctx, makeLoan(member, domain.StatusApproved, time.Now())); err != nil {
			t.Fatalf("approved Create %d: %v", i, err)
		}
	}
}

func TestSoftDelete_HidesLoanAndFreesSlot(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	const member = "cccccccccccccccccccccccccccccccc"

	l := makeLoan(member, domain.StatusProcessing, time.Now())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SoftDelete(ctx, l, "admin"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	if _, err := repo.GetByLoanID(ctx, l.LoanID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("deleted loan still visible: %v", err)
	}
	list, err := repo.ListByMemberID(ctx, member)
	if err != nil {
		t.Fatalf("ListByMemberID: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("deleted loan listed: %+v", list)
	}

	// row is kept for audit
	var raw domain.Loan
	if err := db.Unscoped().Where("loan_id = ?", l.LoanID).First(&raw).Error; err != nil {
		t.Fatalf("unscoped fetch: %v", err)
	}
	if raw.DeletedBy != "admin" || raw.ActiveSlot != nil {
		t.Fatalf("unexpected deleted row: %+v", raw)
	}

	// slot is free again
	if err := repo.Create(ctx, makeLoan(member, domain.StatusProcessing, time.Now())); err != nil {
		t.Fatalf("Create after reject: %v", err)
	}
}

func TestListAndLatest_Ordering(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()
	const member = "dddddddddddddddddddddddddddddddd"
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := makeLoan(member, domain.StatusCleared, base)
	middle := makeLoan(member, domain.StatusApproved, base.Add(24*time.Hour))
	newest := makeLoan(member, domain.StatusProcessing, base.Add(48*time.Hour))
	other := makeLoan("ffffffffffffffffffffffffffffffff", domain.StatusApproved, base.Add(72*time.Hour))
	for _, l := range []*domain.Loan{middle, oldest, newest, other} {
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.ListByMemberID(ctx, member)
	if err != nil {
		t.Fatalf("ListByMemberID: %v", err)
	}
	if len(list) != 3 || list[0].LoanID != newest.LoanID || list[2].LoanID != oldest.LoanID {
		t.Fatalf("unexpected order: %+v", list)
	}

	latest, err := repo.GetLatestByMemberID(ctx, member)
	if err != nil || latest.LoanID != newest.LoanID {
		t.Fatalf("GetLatestByMemberID: %+v, %v", latest, err)
	}

	active, err := repo.GetLatestByMemberAndStatus(ctx, member, domain.StatusApproved)
	if err != nil || active.LoanID != middle.LoanID {
		t.Fatalf("GetLatestByMemberAndStatus: %+v, %v", active, err)
	}

	pending, err := repo.GetProcessingByMemberID(ctx, member)
	if err != nil || pending.LoanID != newest.LoanID {
		t.Fatalf("GetProcessingByMemberID: %+v, %v", pending, err)
	}

	approved, err := repo.ListByStatus(ctx, domain.StatusApproved)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(approved) != 2 || approved[0].LoanID != other.LoanID || approved[1].LoanID != middle.LoanID {
		t.Fatalf("ListByStatus order: %+v", approved)
	}
}

func TestSave_PersistsApproval(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	l := makeLoan("gggggggggggggggggggggggggggggggg", domain.StatusProcessing, time.Now())
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	at := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	l.MarkApproved(at, "Treasurer")
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.ApprovedDate == nil || !got.ApprovedDate.Equal(at) {
		t.Fatalf("approved date: %v", got.ApprovedDate)
	}
	if got.DueDate == nil || !got.DueDate.Equal(time.Date(2024, 7, 31, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("due date: %v", got.DueDate)
	}
	if got.ActiveSlot != nil || got.ApprovedBy == nil || *got.ApprovedBy != "Treasurer" {
		t.Fatalf("unexpected loan: %+v", got)
	}
}

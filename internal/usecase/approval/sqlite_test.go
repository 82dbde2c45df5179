package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"coop-loan-service/internal/adapter/repository/mysql"
	"coop-loan-service/internal/domain/audit"
	"coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/testutil/sqlitedb"
	loanuc "coop-loan-service/internal/usecase/loan"
)

func TestLifecycle_SQLite(t *testing.T) {
	g := sqlitedb.Open(t)
	m := sqlitedb.SeedMember(t, g, "Jane Doe", "1234")
	tx := mysql.NewGormUoW(g)
	loans := loanuc.NewUsecase(mysql.NewLoanRepository(g), tx)
	clock := time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)
	uc := NewUsecase(tx, WithClock(func() time.Time { return clock }))
	ctx := context.Background()

	// rejected application frees the member to apply again
	first, err := loans.Apply(ctx, loanuc.ApplyInput{MemberID: m.ID, PIN: "1234", Amount: 10_000})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := uc.Reject(ctx, RejectInput{LoanID: first.LoanID, RejectedBy: "chair"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := loans.Get(ctx, first.LoanID); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("rejected loan still readable: %v", err)
	}

	second, err := loans.Apply(ctx, loanuc.ApplyInput{MemberID: m.ID, PIN: "1234", Amount: 20_000})
	if err != nil {
		t.Fatalf("re-apply after reject: %v", err)
	}
	approved, err := uc.Approve(ctx, ApproveInput{LoanID: second.LoanID, ApprovedBy: "treasurer"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if want := time.Date(2024, 7, 31, 8, 0, 0, 0, time.UTC); !approved.DueDate.Equal(want) {
		t.Fatalf("due=%v want %v", approved.DueDate, want)
	}
	if _, err := uc.Approve(ctx, ApproveInput{LoanID: second.LoanID}); !errors.Is(err, loan.ErrAlreadyApproved) {
		t.Fatalf("second approve: want ErrAlreadyApproved, got %v", err)
	}

	// approved loan no longer blocks a new application
	if _, err := loans.Apply(ctx, loanuc.ApplyInput{MemberID: m.ID, PIN: "1234", Amount: 5_000}); err != nil {
		t.Fatalf("apply after approval: %v", err)
	}

	if _, err := uc.Clear(ctx, ClearInput{LoanID: second.LoanID}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cleared, err := uc.Clear(ctx, ClearInput{LoanID: second.LoanID})
	if err != nil || cleared.Status != loan.StatusCleared {
		t.Fatalf("repeat clear: %+v, %v", cleared, err)
	}

	var rows []audit.Entry
	if err := g.Order("id ASC").Find(&rows).Error; err != nil {
		t.Fatalf("audit rows: %v", err)
	}
	var got []audit.Action
	for _, r := range rows {
		got = append(got, r.Action)
	}
	want := []audit.Action{audit.ActionRejected, audit.ActionApproved, audit.ActionCleared}
	if len(got) != len(want) {
		t.Fatalf("audit=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("audit=%v want %v", got, want)
		}
	}
	history, err := uc.History(ctx, second.LoanID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Action != "approved" || history[0].Actor != "treasurer" || history[1].Action != "cleared" {
		t.Fatalf("history = %+v", history)
	}
	if !history[0].At.Equal(clock) {
		t.Fatalf("history at = %v, want %v", history[0].At, clock)
	}
	if _, err := uc.History(ctx, first.LoanID); !errors.Is(err, loan.ErrNotFound) {
		t.Fatalf("history of rejected loan: want ErrNotFound, got %v", err)
	}
}

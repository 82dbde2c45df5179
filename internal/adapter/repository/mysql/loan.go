package mysql

import (
	"context"
	"errors"
	"strings"

	loanDomain "coop-loan-service/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	err := r.db.WithContext(ctx).Create(l).Error
	if isDuplicateKey(err) && l.ActiveSlot != nil {
		return loanDomain.ErrActiveLoanExists
	}
	return err
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	err := r.db.WithContext(ctx).Save(l).Error
	if isDuplicateKey(err) && l.ActiveSlot != nil {
		return loanDomain.ErrActiveLoanExists
	}
	return err
}

func (r *LoanRepository) SoftDelete(ctx context.Context, l *loanDomain.Loan, deletedBy string) error {
	l.ActiveSlot = nil
	l.DeletedBy = deletedBy
	if err := r.db.WithContext(ctx).Save(l).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetProcessingByMemberID(ctx context.Context, memberID string) (*loanDomain.Loan, error) {
	return r.GetLatestByMemberAndStatus(ctx, memberID, loanDomain.StatusProcessing)
}

func (r *LoanRepository) GetLatestByMemberAndStatus(ctx context.Context, memberID string, s loanDomain.Status) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("member_id = ? AND status = ?", memberID, s).
		Order("date_applied DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) GetLatestByMemberID(ctx context.Context, memberID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("date_applied DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRepository) ListByMemberID(ctx context.Context, memberID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("date_applied DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListByStatus(ctx context.Context, s loanDomain.Status) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status = ?", s).
		Order("date_applied DESC, id DESC").
		Find(&out)
	return out, res.Error
}

// isDuplicateKey covers drivers opened without TranslateError too.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

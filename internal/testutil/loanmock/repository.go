package loanmock

import (
	"context"

	domain "coop-loan-service/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error, reads default to context.Canceled.
type Repo struct {
	CreateFn                     func(ctx context.Context, l *domain.Loan) error
	SaveFn                       func(ctx context.Context, l *domain.Loan) error
	SoftDeleteFn                 func(ctx context.Context, l *domain.Loan, deletedBy string) error
	GetByLoanIDFn                func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn       func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetProcessingByMemberIDFn    func(ctx context.Context, memberID string) (*domain.Loan, error)
	GetLatestByMemberAndStatusFn func(ctx context.Context, memberID string, s domain.Status) (*domain.Loan, error)
	GetLatestByMemberIDFn        func(ctx context.Context, memberID string) (*domain.Loan, error)
	ListByMemberIDFn             func(ctx context.Context, memberID string) ([]domain.Loan, error)
	ListByStatusFn               func(ctx context.Context, s domain.Status) ([]domain.Loan, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) SoftDelete(ctx context.Context, l *domain.Loan, deletedBy string) error {
	if m.SoftDeleteFn != nil {
		return m.SoftDeleteFn(ctx, l, deletedBy)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetProcessingByMemberID(ctx context.Context, memberID string) (*domain.Loan, error) {
	if m.GetProcessingByMemberIDFn != nil {
		return m.GetProcessingByMemberIDFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetLatestByMemberAndStatus(ctx context.Context, memberID string, s domain.Status) (*domain.Loan, error) {
	if m.GetLatestByMemberAndStatusFn != nil {
		return m.GetLatestByMemberAndStatusFn(ctx, memberID, s)
	}
	return nil, context.Canceled
}

func (m *Repo) GetLatestByMemberID(ctx context.Context, memberID string) (*domain.Loan, error) {
	if m.GetLatestByMemberIDFn != nil {
		return m.GetLatestByMemberIDFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByMemberID(ctx context.Context, memberID string) ([]domain.Loan, error) {
	if m.ListByMemberIDFn != nil {
		return m.ListByMemberIDFn(ctx, memberID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, s domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, s)
	}
	return nil, context.Canceled
}

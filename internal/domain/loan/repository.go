package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	// SoftDelete hides the loan from every read while keeping the row.
	SoftDelete(ctx context.Context, l *Loan, deletedBy string) error

	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetProcessingByMemberID(ctx context.Context, memberID string) (*Loan, error)
	GetLatestByMemberAndStatus(ctx context.Context, memberID string, s Status) (*Loan, error)
	GetLatestByMemberID(ctx context.Context, memberID string) (*Loan, error)

	ListByMemberID(ctx context.Context, memberID string) ([]Loan, error)
	ListByStatus(ctx context.Context, s Status) ([]Loan, error)
}

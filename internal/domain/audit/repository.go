package audit

import "context"

type Repository interface {
	// Append a transition record; rows are never updated.
	Create(ctx context.Context, e *Entry) error

	// All entries of a loan (numeric id), oldest first.
	ListByLoanID(ctx context.Context, loanID uint64) ([]Entry, error)
}

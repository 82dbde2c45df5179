package uow

import (
	"context"

	"coop-loan-service/internal/domain/audit"
	"coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/domain/member"
)

// Repos are bound to the running transaction.
type Repos struct {
	Loans   loan.Repository
	Members member.Repository
	Audits  audit.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}

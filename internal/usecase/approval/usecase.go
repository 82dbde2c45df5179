package approval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coop-loan-service/internal/domain/audit"
	domainLoan "coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/domain/uow"
	loanuc "coop-loan-service/internal/usecase/loan"
	"coop-loan-service/pkg/id"

	"gorm.io/gorm"
)

// Usecase drives the processing → approved → cleared transitions and rejection.
type Usecase struct {
	uow    uow.UnitOfWork
	notify domainLoan.Notifier
	now    func() time.Time
	log    *slog.Logger
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }
func WithNotifier(n domainLoan.Notifier) Option { return func(u *Usecase) { u.notify = n } }
func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.log = l } }

func NewUsecase(tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		uow:    tx,
		notify: domainLoan.NopNotifier{},
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*loanuc.LoanDTO, error) {
	if u.uow == nil {
		return nil, domainLoan.ErrInvalidTransition
	}
	var out *domainLoan.Loan

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		// State guard: only processing → approved
		switch l.Status {
		case domainLoan.StatusProcessing:
		case domainLoan.StatusApproved:
			return domainLoan.ErrAlreadyApproved
		default:
			return domainLoan.ErrInvalidTransition
		}

		at := domainLoan.Normalize(u.now())
		l.MarkApproved(at, in.ApprovedBy)
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Audits.Create(ctx, newEntry(l.ID, audit.ActionApproved, in.ApprovedBy, at)); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "loan approved", "loan_id", out.LoanID, "due_date", out.DueDate)
	u.emit(ctx, domainLoan.EventApproved, out, in.ApprovedBy, *out.ApprovedDate)
	return loanuc.ToDTO(out), nil
}

// Clear is idempotent on cleared loans: nothing is written and no event fires.
func (u *Usecase) Clear(ctx context.Context, in ClearInput) (*loanuc.LoanDTO, error) {
	if u.uow == nil {
		return nil, domainLoan.ErrInvalidTransition
	}
	var (
		out     *domainLoan.Loan
		changed bool
		at      time.Time
	)

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		out = l
		switch l.Status {
		case domainLoan.StatusApproved:
		case domainLoan.StatusCleared:
			return nil
		default:
			return domainLoan.ErrInvalidTransition
		}

		at = domainLoan.Normalize(u.now())
		l.Status = domainLoan.StatusCleared
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if err := r.Audits.Create(ctx, newEntry(l.ID, audit.ActionCleared, in.ClearedBy, at)); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		u.log.InfoContext(ctx, "loan cleared", "loan_id", out.LoanID)
		u.emit(ctx, domainLoan.EventCleared, out, in.ClearedBy, at)
	}
	return loanuc.ToDTO(out), nil
}

// Reject soft-deletes a processing loan; it disappears from every read.
func (u *Usecase) Reject(ctx context.Context, in RejectInput) error {
	if u.uow == nil {
		return domainLoan.ErrInvalidTransition
	}
	var (
		out *domainLoan.Loan
		at  time.Time
	)

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusProcessing {
			return domainLoan.ErrInvalidTransition
		}
		at = domainLoan.Normalize(u.now())
		if err := r.Loans.SoftDelete(ctx, l, in.RejectedBy); err != nil {
			return err
		}
		if err := r.Audits.Create(ctx, newEntry(l.ID, audit.ActionRejected, in.RejectedBy, at)); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return err
	}

	u.log.InfoContext(ctx, "loan rejected", "loan_id", out.LoanID, "member_id", out.MemberID)
	u.emit(ctx, domainLoan.EventRejected, out, in.RejectedBy, at)
	return nil
}

// History lists a loan's recorded transitions, oldest first. Rejected loans
// are invisible like in every other read.
func (u *Usecase) History(ctx context.Context, loanID string) ([]AuditDTO, error) {
	if u.uow == nil {
		return nil, domainLoan.ErrNotFound
	}
	var out []AuditDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainLoan.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get loan: %w", err)
		}
		entries, err := r.Audits.ListByLoanID(ctx, l.ID)
		if err != nil {
			return fmt.Errorf("list audits: %w", err)
		}
		out = make([]AuditDTO, 0, len(entries))
		for _, e := range entries {
			out = append(out, AuditDTO{Action: string(e.Action), Actor: e.Actor, At: e.At.UTC()})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) emit(ctx context.Context, t domainLoan.EventType, l *domainLoan.Loan, actor string, at time.Time) {
	u.notify.Notify(ctx, domainLoan.Event{
		Type:     t,
		LoanID:   l.LoanID,
		MemberID: l.MemberID,
		Amount:   l.Amount,
		Status:   l.Status,
		Actor:    actor,
		At:       at,
	})
}

func newEntry(loanNumericID uint64, a audit.Action, actor string, at time.Time) *audit.Entry {
	return &audit.Entry{
		EntryID: id.NewID32(),
		LoanID:  loanNumericID,
		Action:  a,
		Actor:   actor,
		At:      at,
	}
}

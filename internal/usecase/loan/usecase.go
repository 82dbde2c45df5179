package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/domain/member"
	"coop-loan-service/internal/domain/uow"
	"coop-loan-service/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct {
	repo   loan.Repository
	uow    uow.UnitOfWork
	notify loan.Notifier
	now    func() time.Time
	log    *slog.Logger
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }
func WithNotifier(n loan.Notifier) Option { return func(u *Usecase) { u.notify = n } }
func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.log = l } }

// NewUsecase: reads go through repo, apply runs inside tx.
func NewUsecase(r loan.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		repo:   r,
		uow:    tx,
		notify: loan.NopNotifier{},
		now:    time.Now,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*LoanDTO, error) {
	if in.Amount <= 0 {
		return nil, loan.ErrInvalidAmount
	}
	if u.uow == nil {
		return nil, loan.ErrInvalidTransition
	}

	var created *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// Lock the member row so two applications for one member serialise here.
		m, err := r.Members.GetByIDForUpdate(ctx, in.MemberID)
		if errors.Is(err, member.ErrNotFound) {
			return loan.ErrInvalidPIN
		}
		if err != nil {
			return fmt.Errorf("load member: %w", err)
		}
		if !m.PINMatches(in.PIN) {
			return loan.ErrInvalidPIN
		}

		switch _, err := r.Loans.GetProcessingByMemberID(ctx, m.ID); {
		case err == nil:
			return loan.ErrActiveLoanExists
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("check processing loan: %w", err)
		}

		slot := m.ID
		l := &loan.Loan{
			LoanID:      id.NewID32(),
			MemberID:    m.ID,
			Amount:      in.Amount,
			Status:      loan.StatusProcessing,
			ActiveSlot:  &slot,
			DateApplied: loan.Normalize(u.now()),
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.InfoContext(ctx, "loan applied", "loan_id", created.LoanID, "member_id", created.MemberID, "amount", created.Amount)
	u.notify.Notify(ctx, loan.Event{
		Type:     loan.EventApplied,
		LoanID:   created.LoanID,
		MemberID: created.MemberID,
		Amount:   created.Amount,
		Status:   created.Status,
		At:       created.DateApplied,
	})
	return ToDTO(created), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loan.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToDTO(l), nil
}

// GetActive returns the member's most recent approved loan, or nil.
// Processing loans are not considered active.
func (u *Usecase) GetActive(ctx context.Context, memberID string) (*LoanDTO, error) {
	return optional(u.repo.GetLatestByMemberAndStatus(ctx, memberID, loan.StatusApproved))
}

// GetLatest returns the member's most recently applied loan in any status, or nil.
func (u *Usecase) GetLatest(ctx context.Context, memberID string) (*LoanDTO, error) {
	return optional(u.repo.GetLatestByMemberID(ctx, memberID))
}

func (u *Usecase) ListByMember(ctx context.Context, memberID string) ([]LoanDTO, error) {
	ls, err := u.repo.ListByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *ToDTO(&ls[i]))
	}
	return out, nil
}

func optional(l *loan.Loan, err error) (*LoanDTO, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToDTO(l), nil
}

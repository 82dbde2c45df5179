package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"coop-loan-service/internal/domain/audit"
	"coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/domain/member"
	"coop-loan-service/internal/domain/uow"
	"coop-loan-service/pkg/id"
)

// Usecase reconciles historical, already-approved loans keyed by member PIN.
type Usecase struct {
	uow    uow.UnitOfWork
	notify loan.Notifier
	now    func() time.Time
	log    *slog.Logger
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }
func WithNotifier(n loan.Notifier) Option { return func(u *Usecase) { u.notify = n } }
func WithLogger(l *slog.Logger) Option { return func(u *Usecase) { u.log = l } }

func NewUsecase(tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
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

// ImportByPIN inserts one approved loan in its own transaction. Every
// failure is reported in the Result, never as an error.
func (u *Usecase) ImportByPIN(ctx context.Context, rec Record) Result {
	if u.uow == nil {
		return Result{Code: CodeError, Error: "importer has no unit of work"}
	}
	if rec.Malformed != "" {
		return u.rejected(ctx, rec, "", Result{Code: CodeInvalid, Error: "Unreadable record: " + rec.Malformed})
	}
	if rec.Amount <= 0 {
		return u.rejected(ctx, rec, "", Result{Code: CodeInvalid, Error: fmt.Sprintf("Invalid amount for PIN: %s", rec.PIN)})
	}

	var (
		res      Result
		imported *loan.Loan
		memberID string
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		m, err := r.Members.GetByPIN(ctx, rec.PIN)
		if errors.Is(err, member.ErrNotFound) {
			res = Result{Code: CodeNotFound, Error: fmt.Sprintf("No user found with PIN: %s", rec.PIN)}
			return nil
		}
		if err != nil {
			return fmt.Errorf("find member by pin: %w", err)
		}
		// serialise imports for one member so the duplicate check below holds
		if m, err = r.Members.GetByIDForUpdate(ctx, m.ID); err != nil {
			return fmt.Errorf("lock member: %w", err)
		}
		memberID = m.ID

		approved, err := ParseDate(rec.ApprovedDate)
		if err != nil {
			res = Result{Code: CodeInvalid, Error: fmt.Sprintf("Invalid approvedDate for %s", rec.PIN)}
			return nil
		}

		existing, err := r.Loans.ListByMemberID(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("list member loans: %w", err)
		}
		if isDuplicate(existing, rec.Amount, approved) {
			res = Result{
				Code:       CodeDuplicate,
				MemberName: m.Name,
				Error:      fmt.Sprintf("Duplicate loan found for %s (%s)", m.Name, rec.PIN),
			}
			return nil
		}

		l := &loan.Loan{
			LoanID:      id.NewID32(),
			MemberID:    m.ID,
			Amount:      rec.Amount,
			DateApplied: approved,
		}
		l.MarkApproved(approved, rec.ApprovedBy)
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if err := r.Audits.Create(ctx, &audit.Entry{
			EntryID: id.NewID32(),
			LoanID:  l.ID,
			Action:  audit.ActionImported,
			Actor:   rec.ApprovedBy,
			At:      loan.Normalize(u.now()),
		}); err != nil {
			return err
		}

		imported = l
		res = Result{
			Success:    true,
			LoanID:     l.LoanID,
			MemberName: m.Name,
			Message:    fmt.Sprintf("Loan imported for %s", m.Name),
		}
		return nil
	})
	if err != nil {
		u.log.ErrorContext(ctx, "import record failed", "pin", rec.PIN, "err", err)
		res = Result{Code: CodeError, Error: err.Error()}
	}
	if !res.Success {
		return u.rejected(ctx, rec, memberID, res)
	}

	u.notify.Notify(ctx, loan.Event{
		Type:     loan.EventImported,
		LoanID:   imported.LoanID,
		MemberID: imported.MemberID,
		Amount:   imported.Amount,
		Status:   imported.Status,
		Actor:    rec.ApprovedBy,
		At:       *imported.ApprovedDate,
	})
	return res
}

// ImportBatch runs records in order, one transaction each. A failed record
// never stops the batch; a cancelled context marks the remainder cancelled.
func (u *Usecase) ImportBatch(ctx context.Context, recs []Record) BatchResult {
	out := BatchResult{Total: len(recs), Results: make([]Result, 0, len(recs))}
	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			for range recs[i:] {
				out.Results = append(out.Results, Result{Code: CodeCancelled, Error: "import cancelled: " + err.Error()})
			}
			out.Failed += len(recs) - i
			break
		}
		res := u.ImportByPIN(ctx, rec)
		if res.Success {
			out.Imported++
		} else {
			out.Failed++
		}
		out.Results = append(out.Results, res)
	}
	u.log.InfoContext(ctx, "import batch finished", "total", out.Total, "imported", out.Imported, "failed", out.Failed)
	return out
}

func (u *Usecase) rejected(ctx context.Context, rec Record, memberID string, res Result) Result {
	u.log.DebugContext(ctx, "import record rejected", "pin", rec.PIN, "code", res.Code)
	u.notify.Notify(ctx, loan.Event{
		Type:     loan.EventImportRejected,
		MemberID: memberID,
		Amount:   rec.Amount,
		Actor:    rec.ApprovedBy,
		Reason:   string(res.Code),
		At:       loan.Normalize(u.now()),
	})
	return res
}

// isDuplicate: same amount, same approval instant, still approved.
// Cleared loans are deliberately not matched.
func isDuplicate(existing []loan.Loan, amount int64, approved time.Time) bool {
	for _, l := range existing {
		if l.Status != loan.StatusApproved || l.Amount != amount || l.ApprovedDate == nil {
			continue
		}
		if loan.Normalize(*l.ApprovedDate).Equal(approved) {
			return true
		}
	}
	return false
}

package loan

import (
	"time"

	"coop-loan-service/internal/domain/loan"
)

type ApplyInput struct {
	MemberID string `json:"member_id"`
	PIN      string `json:"pin"`
	Amount   int64  `json:"amount"`
}

type LoanDTO struct {
	LoanID       string      `json:"loan_id"`
	MemberID     string      `json:"member_id"`
	Amount       int64       `json:"amount"`
	Status       loan.Status `json:"status"`
	DateApplied  time.Time   `json:"date_applied"`
	ApprovedDate *time.Time  `json:"approved_date,omitempty"`
	DueDate      *time.Time  `json:"due_date,omitempty"`
	ApprovedBy   *string     `json:"approved_by,omitempty"`
}

func ToDTO(l *loan.Loan) *LoanDTO {
	if l == nil {
		return nil
	}
	return &LoanDTO{
		LoanID:       l.LoanID,
		MemberID:     l.MemberID,
		Amount:       l.Amount,
		Status:       l.Status,
		DateApplied:  l.DateApplied,
		ApprovedDate: l.ApprovedDate,
		DueDate:      l.DueDate,
		ApprovedBy:   l.ApprovedBy,
	}
}

package loan

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusCleared    Status = "cleared"
)

// TermMonths is the fixed repayment term counted from the approval date.
const TermMonths = 6

func (s Status) Valid() bool {
	switch s {
	case StatusProcessing, StatusApproved, StatusCleared:
		return true
	}
	return false
}

type Loan struct {
	ID       uint64 `gorm:"primaryKey;column:id" json:"-"`
	LoanID   string `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	MemberID string `gorm:"size:32;index:idx_loans_member_status,priority:1;not null" json:"member_id"`
	Amount   int64  `gorm:"not null" json:"amount"`
	Status   Status `gorm:"type:varchar(16);index:idx_loans_member_status,priority:2;index:idx_loans_status;not null;default:'processing'" json:"status"`
	// ActiveSlot holds MemberID while the loan is processing and NULL otherwise;
	// the unique index makes a second processing loan per member impossible.
	ActiveSlot   *string        `gorm:"size:32;uniqueIndex:ux_loans_active_slot" json:"-"`
	DateApplied  time.Time      `gorm:"not null;index" json:"date_applied"`
	ApprovedDate *time.Time     `json:"approved_date,omitempty"`
	DueDate      *time.Time     `json:"due_date,omitempty"`
	ApprovedBy   *string        `gorm:"size:128" json:"approved_by,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy    string         `gorm:"size:128" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// DueDateFor returns approved plus TermMonths calendar months. Day overflow
// rolls into the following month (Aug 31 + 6 months = Mar 3 or Mar 2).
func DueDateFor(approved time.Time) time.Time {
	return approved.AddDate(0, TermMonths, 0)
}

// MarkApproved stamps approval fields together and releases the active slot.
func (l *Loan) MarkApproved(at time.Time, by string) {
	at = at.UTC()
	due := DueDateFor(at)
	l.Status = StatusApproved
	l.ApprovedDate = &at
	l.DueDate = &due
	if by != "" {
		l.ApprovedBy = &by
	} else {
		l.ApprovedBy = nil
	}
	l.ActiveSlot = nil
}

// Normalize truncates to the precision the store keeps.
func Normalize(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

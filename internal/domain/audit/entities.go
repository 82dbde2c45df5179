package audit

import (
	"time"
)

type Action string

const (
	ActionApproved Action = "approved"
	ActionCleared  Action = "cleared"
	ActionRejected Action = "rejected"
	ActionImported Action = "imported"
)

// Table: loan_audits, one row per lifecycle transition.
type Entry struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	EntryID string `gorm:"column:entry_id;type:char(32);not null;uniqueIndex:ux_loan_audits_entry_id"`
	// FK to loans.id (numeric)
	LoanID    uint64    `gorm:"column:loan_id;not null;index"`
	Action    Action    `gorm:"column:action;type:varchar(16);not null"`
	Actor     string    `gorm:"column:actor;size:128"`
	At        time.Time `gorm:"column:at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Entry) TableName() string { return "loan_audits" }

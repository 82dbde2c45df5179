package approval

import "time"

type ApproveInput struct {
	LoanID     string
	ApprovedBy string // free text, optional
}

type ClearInput struct {
	LoanID    string
	ClearedBy string
}

type RejectInput struct {
	LoanID     string
	RejectedBy string
}

// AuditDTO is one lifecycle transition of a loan.
type AuditDTO struct {
	Action string    `json:"action"`
	Actor  string    `json:"actor,omitempty"`
	At     time.Time `json:"at"`
}

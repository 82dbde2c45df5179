package loan

import (
	"context"
	"time"
)

type EventType string

const (
	EventApplied        EventType = "loan.applied"
	EventApproved       EventType = "loan.approved"
	EventCleared        EventType = "loan.cleared"
	EventRejected       EventType = "loan.rejected"
	EventImported       EventType = "loan.imported"
	EventImportRejected EventType = "loan.import_rejected"
)

// Event is emitted after the transaction that produced it has committed.
type Event struct {
	Type     EventType `json:"type"`
	LoanID   string    `json:"loan_id,omitempty"`
	MemberID string    `json:"member_id,omitempty"`
	Amount   int64     `json:"amount,omitempty"`
	Status   Status    `json:"status,omitempty"`
	Actor    string    `json:"actor,omitempty"`
	Reason   string    `json:"reason,omitempty"`
	At       time.Time `json:"at"`
}

// Notifier must not fail the operation that emitted the event.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) {}

// Notifiers fans one event out to several notifiers in order.
type Notifiers []Notifier

func (ns Notifiers) Notify(ctx context.Context, ev Event) {
	for _, n := range ns {
		if n != nil {
			n.Notify(ctx, ev)
		}
	}
}

// Package loanview serves status-filtered loan lists with the member's
// name attached, newest application first.
package loanview

import (
	"context"
	"errors"
	"fmt"

	"coop-loan-service/internal/domain/loan"
	"coop-loan-service/internal/domain/member"
	loanuc "coop-loan-service/internal/usecase/loan"
)

type LoanView struct {
	loanuc.LoanDTO
	// nil when the member record no longer exists
	MemberName *string `json:"member_name"`
}

type Usecase struct {
	loans   loan.Repository
	members member.Repository
}

func NewUsecase(loans loan.Repository, members member.Repository) *Usecase {
	return &Usecase{loans: loans, members: members}
}

// ByStatus looks each distinct member up once per call.
func (u *Usecase) ByStatus(ctx context.Context, s loan.Status) ([]LoanView, error) {
	if !s.Valid() {
		return nil, loan.ErrInvalidStatus
	}
	ls, err := u.loans.ListByStatus(ctx, s)
	if err != nil {
		return nil, err
	}

	names := make(map[string]*string)
	out := make([]LoanView, 0, len(ls))
	for i := range ls {
		name, ok := names[ls[i].MemberID]
		if !ok {
			name, err = u.memberName(ctx, ls[i].MemberID)
			if err != nil {
				return nil, err
			}
			names[ls[i].MemberID] = name
		}
		out = append(out, LoanView{LoanDTO: *loanuc.ToDTO(&ls[i]), MemberName: name})
	}
	return out, nil
}

func (u *Usecase) memberName(ctx context.Context, id string) (*string, error) {
	m, err := u.members.GetByID(ctx, id)
	if errors.Is(err, member.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", id, err)
	}
	return &m.Name, nil
}

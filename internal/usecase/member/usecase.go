package member

import (
	"context"
	"strings"
	"time"

	"coop-loan-service/internal/domain/member"
	"coop-loan-service/pkg/id"
)

type CreateMemberInput struct {
	Name                string    `json:"name"`
	PIN                 string    `json:"pin"`
	JoinDate            time.Time `json:"join_date"`
	TotalContribution   int64     `json:"total_contribution"`
	MonthlyContribution int64     `json:"monthly_contribution"`
}

// UpdateMemberInput replaces the editable fields. A zero JoinDate keeps the
// stored one.
type UpdateMemberInput struct {
	Name                string    `json:"name"`
	JoinDate            time.Time `json:"join_date"`
	TotalContribution   int64     `json:"total_contribution"`
	MonthlyContribution int64     `json:"monthly_contribution"`
}

type MemberDTO struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	JoinDate            time.Time `json:"join_date"`
	TotalContribution   int64     `json:"total_contribution"`
	MonthlyContribution int64     `json:"monthly_contribution"`
}

type Usecase struct{ repo member.Repository }

func NewUsecase(r member.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) Create(ctx context.Context, in CreateMemberInput) (*MemberDTO, error) {
	name, pin := strings.TrimSpace(in.Name), strings.TrimSpace(in.PIN)
	if name == "" || pin == "" {
		return nil, member.ErrInvalidInput
	}
	if in.TotalContribution < 0 || in.MonthlyContribution < 0 {
		return nil, member.ErrNegative
	}
	join := in.JoinDate.UTC()
	if in.JoinDate.IsZero() {
		join = time.Now().UTC().Truncate(24 * time.Hour)
	}
	m := &member.Member{
		ID:                  id.NewID32(),
		Name:                name,
		PIN:                 pin,
		JoinDate:            join,
		TotalContribution:   in.TotalContribution,
		MonthlyContribution: in.MonthlyContribution,
	}
	if err := u.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toDTO(m), nil
}

func (u *Usecase) Get(ctx context.Context, memberID string) (*MemberDTO, error) {
	m, err := u.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return toDTO(m), nil
}

func (u *Usecase) Update(ctx context.Context, memberID string, in UpdateMemberInput) (*MemberDTO, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, member.ErrInvalidInput
	}
	if in.TotalContribution < 0 || in.MonthlyContribution < 0 {
		return nil, member.ErrNegative
	}
	m, err := u.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	m.Name = name
	if !in.JoinDate.IsZero() {
		m.JoinDate = in.JoinDate.UTC()
	}
	m.TotalContribution = in.TotalContribution
	m.MonthlyContribution = in.MonthlyContribution
	if err := u.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toDTO(m), nil
}

// List returns every member, never nil.
func (u *Usecase) List(ctx context.Context) ([]MemberDTO, error) {
	ms, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MemberDTO, 0, len(ms))
	for i := range ms {
		out = append(out, *toDTO(&ms[i]))
	}
	return out, nil
}

func toDTO(m *member.Member) *MemberDTO {
	return &MemberDTO{
		ID:                  m.ID,
		Name:                m.Name,
		JoinDate:            m.JoinDate,
		TotalContribution:   m.TotalContribution,
		MonthlyContribution: m.MonthlyContribution,
	}
}

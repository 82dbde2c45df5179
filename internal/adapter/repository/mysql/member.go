package mysql

import (
	"context"
	"errors"

	memberDomain "coop-loan-service/internal/domain/member"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct{ db *gorm.DB }

func NewMemberRepository(db *gorm.DB) *MemberRepository { return &MemberRepository{db: db} }

func (r *MemberRepository) Create(ctx context.Context, m *memberDomain.Member) error {
	err := r.db.WithContext(ctx).Create(m).Error
	if isDuplicateKey(err) {
		return memberDomain.ErrDuplicatePIN
	}
	return err
}

// Update expects a loaded member; an unchanged row is not an error.
func (r *MemberRepository) Update(ctx context.Context, m *memberDomain.Member) error {
	return r.db.WithContext(ctx).
		Model(m).
		Select("name", "join_date", "total_contribution", "monthly_contribution", "updated_at").
		Updates(m).Error
}

// List returns every member by name.
func (r *MemberRepository) List(ctx context.Context) ([]memberDomain.Member, error) {
	var out []memberDomain.Member
	res := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&out)
	return out, res.Error
}

func (r *MemberRepository) GetByID(ctx context.Context, id string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, notFound(res.Error)
}

func (r *MemberRepository) GetByIDForUpdate(ctx context.Context, id string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, notFound(res.Error)
}

func (r *MemberRepository) GetByPIN(ctx context.Context, pin string) (*memberDomain.Member, error) {
	var out memberDomain.Member
	res := r.db.WithContext(ctx).Where("pin = ?", pin).First(&out)
	return &out, notFound(res.Error)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return memberDomain.ErrNotFound
	}
	return err
}

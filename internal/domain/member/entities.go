package member

import (
	"crypto/subtle"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("member not found")
	ErrDuplicatePIN = errors.New("PIN already assigned to another member")
	ErrInvalidInput = errors.New("name and PIN are required")
	ErrNegative     = errors.New("contributions must not be negative")
)

type Member struct {
	ID                  string    `gorm:"primaryKey;size:32;column:id" json:"id"`
	Name                string    `gorm:"size:128;not null" json:"name"`
	PIN                 string    `gorm:"size:32;not null;uniqueIndex:ux_members_pin" json:"-"`
	JoinDate            time.Time `json:"join_date"`
	TotalContribution   int64     `gorm:"not null;default:0" json:"total_contribution"`
	MonthlyContribution int64     `gorm:"not null;default:0" json:"monthly_contribution"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Member) TableName() string { return "members" }

// PINMatches compares in constant time.
func (m *Member) PINMatches(pin string) bool {
	if m == nil || m.PIN == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(m.PIN), []byte(pin)) == 1
}

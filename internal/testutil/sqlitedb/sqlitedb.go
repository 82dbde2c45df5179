// Package sqlitedb opens throwaway in-memory databases for usecase and
// handler tests that want the real gorm repositories.
package sqlitedb

import (
	"testing"
	"time"

	"coop-loan-service/internal/domain/member"
	"coop-loan-service/internal/infrastructure/db"
	"coop-loan-service/pkg/id"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open(t testing.TB) *gorm.DB {
	t.Helper()
	g, err := db.OpenGorm(db.DriverSQLite, ":memory:", logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := g.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(g); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return g
}

func SeedMember(t testing.TB, g *gorm.DB, name, pin string) *member.Member {
	t.Helper()
	m := &member.Member{
		ID:       id.NewID32(),
		Name:     name,
		PIN:      pin,
		JoinDate: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := g.Create(m).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

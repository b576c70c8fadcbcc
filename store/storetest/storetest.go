// Package storetest opens throwaway SQLite-backed stores for tests.
package storetest

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/cppla/earlybird/config"
	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
)

// OpenDB returns a migrated in-memory database private to the test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), config.GormConfig("silent"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Open returns a Store over a fresh database.
func Open(t testing.TB) *store.Gorm {
	t.Helper()
	return store.NewGorm(OpenDB(t))
}

// Company creates a company with the given timezone.
func Company(t testing.TB, s store.Store, name, tz string) *models.Company {
	t.Helper()
	c := &models.Company{Name: name, Timezone: tz}
	if err := s.CreateCompany(context.Background(), c); err != nil {
		t.Fatalf("create company: %v", err)
	}
	return c
}

// User creates a user in companyID with the given role and status.
func User(t testing.TB, s store.Store, username string, companyID uint, role models.Role, status models.UserStatus) *models.User {
	t.Helper()
	u := &models.User{Username: username, CompanyID: companyID, Role: role, Status: status}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

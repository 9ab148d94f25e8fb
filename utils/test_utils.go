package utils

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a fresh in-memory database with the full schema migrated.
// Each test gets its own database; it disappears when the connection closes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatal("cannot open in-memory DB:", err)
	}

	// The pool must stay at one connection: every new sqlite :memory:
	// connection is a separate empty database.
	conn, err := db.DB()
	if err != nil {
		t.Fatal("cannot get underlying DB:", err)
	}
	conn.SetMaxOpenConns(1)

	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatal("migration failed:", err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return db
}

package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	// TranslateError matches the server's gorm config so unique violations
	// surface as gorm.ErrDuplicatedKey here too.
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE,
		name TEXT,
		mobile TEXT UNIQUE,
		password_hash TEXT,
		mobile_verified_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createVerificationTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE mobile_verification_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mobile TEXT NOT NULL,
		token TEXT NOT NULL,
		expires_at DATETIME,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE INDEX idx_mobile_token ON mobile_verification_tokens(mobile, token);`)
}

func seedUser(t *testing.T, db *gorm.DB, id, email, mobile string, verifiedAt *time.Time) {
	t.Helper()
	now := time.Now()
	mustExec(t, db, `INSERT INTO users(id,email,name,mobile,password_hash,mobile_verified_at,created_at,updated_at)
	VALUES (?,?,?,?,?,?,?,?)`, id, email, "Test User", mobile, "x", verifiedAt, now, now)
}

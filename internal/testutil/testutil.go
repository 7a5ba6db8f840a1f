package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	userDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/user"
	"github.com/frahmantamala/access-request/internal/database"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TB is the part of testing.TB used here, satisfied by both *testing.T and GinkgoT().
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
	Cleanup(func())
}

const TestSecret = "test-secret-at-least-16-chars"

var dbSeq atomic.Int64

// OpenInMemoryDB opens an isolated in-memory SQLite database with foreign keys
// enforced and the schema migrated. It is closed through t.Cleanup.
func OpenInMemoryDB(t TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// a single connection keeps the shared-cache database alive and serializes writes
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// CreateUser inserts a user with a low-cost bcrypt hash of password.
func CreateUser(t TB, db *gorm.DB, username, password, role string) *userDatamodel.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &userDatamodel.User{Username: username, PasswordHash: string(hash), Role: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// GenerateJWTHS256 signs arbitrary claims, for tokens the service itself would never issue.
func GenerateJWTHS256(t TB, secret string, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

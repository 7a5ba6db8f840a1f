package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/access-request/internal"
	accessRequestDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/accessrequest"
	softwareDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/software"
	userDatamodel "github.com/frahmantamala/access-request/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector maps a configured driver name to its gorm dialector.
func Dialector(cfg internal.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case internal.DriverPostgres:
		return postgres.Open(cfg.Source), nil
	case internal.DriverMySQL:
		return mysql.Open(cfg.Source), nil
	case internal.DriverSQLite:
		return sqlite.Open(SQLiteDSN(cfg.Source)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN turns on foreign key enforcement, which SQLite leaves off per
// connection unless the DSN asks for it.
func SQLiteDSN(source string) string {
	lower := strings.ToLower(source)
	if strings.Contains(lower, "_foreign_keys=") || strings.Contains(lower, "_fk=") {
		return source
	}
	if strings.Contains(source, "?") {
		return source + "&_foreign_keys=on"
	}
	return source + "?_foreign_keys=on"
}

func Open(cfg internal.DatabaseConfig, logLevel string) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(logLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("database connected", "driver", cfg.Driver)
	return db, nil
}

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&softwareDatamodel.Software{},
		&accessRequestDatamodel.Request{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SQLXDriverName is the database/sql driver name gorm registers for driver,
// which sqlx uses to pick its bind variable style.
func SQLXDriverName(driver string) string {
	switch driver {
	case internal.DriverPostgres:
		return "pgx"
	case internal.DriverMySQL:
		return "mysql"
	default:
		return "sqlite3"
	}
}

// SQLX wraps the pool already opened by gorm for hand-written queries.
func SQLX(db *gorm.DB, driver string) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, SQLXDriverName(driver)), nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

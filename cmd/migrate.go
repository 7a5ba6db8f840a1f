package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/access-request/db"
	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/database"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the db migrations embedded from db/migrations",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	// the SQL files are written for postgres; other drivers get gorm's schema sync
	if cfg.Database.Driver != internal.DriverPostgres {
		gdb, err := database.Open(cfg.Database, cfg.Observability.Logging.Level)
		if err != nil {
			log.Fatalf("failed to open DB: %v", err)
		}
		defer func() { _ = database.Close(gdb) }()

		if migrateRollback {
			log.Printf("rollback is only supported for %s; nothing to do", internal.DriverPostgres)
			return nil
		}
		if err := database.AutoMigrate(gdb); err != nil {
			log.Fatalf("auto migrate: %v", err)
		}
		log.Printf("schema synchronized for %s", cfg.Database.Driver)
		return nil
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(db.Migrations)
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}

	if err := goose.RunContext(ctx, command, sqlDB, db.MigrationsDir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}

package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/access-request/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with one user per role and a few catalog entries for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		gdb, err := database.Open(cfg.Database, cfg.Observability.Logging.Level)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer func() { _ = database.Close(gdb) }()

		if cfg.Database.AutoMigrate {
			if err := database.AutoMigrate(gdb); err != nil {
				log.Fatalf("failed to sync schema: %v", err)
			}
		}

		db, err := database.SQLX(gdb, cfg.Database.Driver)
		if err != nil {
			log.Fatalf("failed to wrap db: %v", err)
		}

		if err := seed(cmd.Context(), db, cfg.Security.BCryptCost, clearData); err != nil {
			log.Fatal(err)
		}
	},
}

type seedUser struct {
	Username string
	Password string
	Role     string
}

type seedSoftware struct {
	Name        string
	Description string
	Version     string
}

var (
	seedUsers = []seedUser{
		{"admin", "admin123", "Admin"},
		{"manager", "manager123", "Manager"},
		{"employee", "employee123", "Employee"},
	}

	seedCatalog = []seedSoftware{
		{"Visual Studio Code", "Source code editor", "1.93"},
		{"Slack", "Team messaging", "4.40"},
		{"Figma", "Collaborative interface design", "124.3"},
		{"Postman", "API development environment", "11.12"},
		{"Docker Desktop", "Container tooling for local development", "4.34"},
	}
)

// seed inserts demo users and software, skipping rows that already exist.
func seed(ctx context.Context, db *sqlx.DB, bcryptCost int, clear bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if clear {
		// children first, the foreign keys restrict deletes
		for _, table := range []string{"requests", "software", "users"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		fmt.Println("Cleared existing data")
	}

	now := time.Now().UTC()

	for _, u := range seedUsers {
		exists, err := rowExists(ctx, tx, "SELECT 1 FROM users WHERE username = ?", u.Username)
		if err != nil {
			return fmt.Errorf("failed to look up user %s: %w", u.Username, err)
		}
		if exists {
			fmt.Println("user already exists:", u.Username)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}

		query := tx.Rebind("INSERT INTO users (username, password, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)")
		if _, err := tx.ExecContext(ctx, query, u.Username, string(hash), u.Role, now, now); err != nil {
			return fmt.Errorf("failed to insert user %s: %w", u.Username, err)
		}
		fmt.Printf("Seeded %s user: %s / %s\n", u.Role, u.Username, u.Password)
	}

	for _, s := range seedCatalog {
		exists, err := rowExists(ctx, tx, "SELECT 1 FROM software WHERE name = ?", s.Name)
		if err != nil {
			return fmt.Errorf("failed to look up software %s: %w", s.Name, err)
		}
		if exists {
			continue
		}

		query := tx.Rebind("INSERT INTO software (name, description, version, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)")
		if _, err := tx.ExecContext(ctx, query, s.Name, s.Description, s.Version, true, now, now); err != nil {
			return fmt.Errorf("failed to insert software %s: %w", s.Name, err)
		}
		fmt.Println("Seeded software:", s.Name)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func rowExists(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) (bool, error) {
	var one int
	err := tx.GetContext(ctx, &one, tx.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

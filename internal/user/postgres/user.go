package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/access-request/internal/user"
	"github.com/jmoiron/sqlx"
)

type pgRepo struct {
	db *sqlx.DB
}

// NewRepository reads profiles with plain SQL; db.Rebind adapts the
// placeholders to the underlying driver.
func NewRepository(db *sqlx.DB) user.Repository {
	return &pgRepo{db: db}
}

func (p *pgRepo) GetByID(ctx context.Context, id int64) (*user.Profile, error) {
	var u user.Profile
	query := p.db.Rebind(`SELECT id, username, role, created_at, updated_at FROM users WHERE id = ?`)
	if err := p.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

package user

import (
	"time"

	"github.com/frahmantamala/access-request/internal/core/user"
)

// Profile is the caller's own account as returned by /users/me.
type Profile struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Role      user.Role `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

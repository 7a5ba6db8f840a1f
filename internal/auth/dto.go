package auth

import (
	"time"

	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/core/common/validation"
	"github.com/frahmantamala/access-request/internal/core/user"
)

type RegisterDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserView is the public shape of a user; it never carries the hash.
type UserView struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	Role     user.Role `json:"role"`
}

type AuthResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserView  `json:"user"`
}

func NewUserView(u *user.User) UserView {
	return UserView{ID: u.ID, Username: u.Username, Role: u.Role}
}

func (d RegisterDTO) Validate() error {
	v := validation.NewValidator()
	validation.ValidateUsername(v, d.Username)
	validation.ValidatePassword(v, d.Password)
	if d.Role != "" {
		roles := make([]string, len(user.AllRoles))
		for i, r := range user.AllRoles {
			roles[i] = r.String()
		}
		v.Field("role", d.Role).OneOf(internal.ErrCodeInvalidRole, roles...)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d LoginDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/core/user"
	"github.com/frahmantamala/access-request/internal/transport"
)

type RoleAuthorizer interface {
	Can(ctx context.Context, role user.Role, capability Capability) (bool, error)
}

// RBACAuthorization gates routes on the role of the user placed in the
// context by Handler.AuthMiddleware.
type RBACAuthorization struct {
	*transport.BaseHandler
	authorizer RoleAuthorizer
}

func NewRBACAuthorization(authorizer RoleAuthorizer, baseHandler *transport.BaseHandler) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: baseHandler,
		authorizer:  authorizer,
	}
}

func (ra *RBACAuthorization) Check(next http.HandlerFunc, capability Capability) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := internal.UserFromContext(r.Context())
		if !ok {
			ra.HandleError(w, r, internal.ErrMissingToken)
			return
		}

		allowed, err := ra.authorizer.Can(r.Context(), u.Role, capability)
		if err != nil {
			ra.HandleError(w, r, internal.NewInternalError("authorization check failed", err))
			return
		}

		if !allowed {
			ra.Logger.WarnContext(r.Context(), "access denied: insufficient role",
				"user_id", u.ID,
				"role", u.Role,
				"required_capability", capability)
			ra.HandleError(w, r, internal.ErrInsufficientRole)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// Require returns chi-compatible middleware for capability.
func (ra *RBACAuthorization) Require(capability Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, capability)
	}
}

package auth

import (
	"net/http"

	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/transport"
	"github.com/frahmantamala/access-request/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	resp, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

// AuthMiddleware authenticates the bearer token and re-reads the user so
// that role checks see the stored role, not the one baked into the token.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.HandleError(w, r, internal.ErrMissingToken)
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.HandleError(w, r, err)
			return
		}

		u, err := h.Service.ResolveUser(r.Context(), claims.UserID)
		if err != nil {
			h.HandleError(w, r, err)
			return
		}

		ctx := internal.ContextWithUser(r.Context(), u)
		ctx = logger.WithLogger(ctx, logger.FromOr(ctx, h.Logger).With("user_id", u.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

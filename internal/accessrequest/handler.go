package accessrequest

import (
	"context"
	"net/http"

	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, requesterID int64, dto CreateRequestDTO) (*Request, error)
	ListMine(ctx context.Context, requesterID int64) ([]*Request, error)
	ListAll(ctx context.Context) ([]*Request, error)
	ListPending(ctx context.Context) ([]*Request, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Request, error)
	Approve(ctx context.Context, id int64) (*Request, error)
	Reject(ctx context.Context, id int64) (*Request, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, internal.ErrMissingToken)
		return
	}

	var dto CreateRequestDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	created, err := h.Service.Create(r.Context(), u.ID, dto)
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	u, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.HandleError(w, r, internal.ErrMissingToken)
		return
	}
	h.writeList(w, r, func(ctx context.Context) ([]*Request, error) {
		return h.Service.ListMine(ctx, u.ID)
	})
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.Service.ListAll)
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.Service.ListPending)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}

	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, r, err)
		return
	}

	h.writeReview(w, r, func(ctx context.Context) (*Request, error) {
		return h.Service.UpdateStatus(ctx, id, dto.Status)
	})
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.writeReview(w, r, func(ctx context.Context) (*Request, error) {
		return h.Service.Approve(ctx, id)
	})
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := h.ParseIDParam(r, "id")
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.writeReview(w, r, func(ctx context.Context) (*Request, error) {
		return h.Service.Reject(ctx, id)
	})
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]*Request, error)) {
	items, err := list(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) writeReview(w http.ResponseWriter, r *http.Request, review func(context.Context) (*Request, error)) {
	updated, err := review(r.Context())
	if err != nil {
		h.HandleError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

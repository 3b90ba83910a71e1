package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vendstack/barkeep/internal/auth"
	"github.com/vendstack/barkeep/internal/domain"
	"github.com/vendstack/barkeep/internal/service/inventory"
	"github.com/vendstack/barkeep/pkg/ctxutil"
)

// itemService defines the minimal interface needed by ItemsHandler.
type itemService interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	CreateItem(ctx context.Context, caller *auth.Identity, name string, price int32) (*domain.Item, error)
	UpdateItem(ctx context.Context, caller *auth.Identity, in inventory.UpdateItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, caller *auth.Identity, id int32) error
}

// ItemsHandler serves item catalog endpoints.
type ItemsHandler struct {
	svc itemService
	log *slog.Logger
}

// NewItemsHandler creates an ItemsHandler.
func NewItemsHandler(svc itemService, logger *slog.Logger) *ItemsHandler {
	return &ItemsHandler{svc: svc, log: logger.With("handler", "items")}
}

type createItemRequest struct {
	Name  string `json:"name"`
	Price int32  `json:"price"`
}

type updateItemRequest struct {
	ID    int32   `json:"id"`
	Name  *string `json:"name"`
	Price *int32  `json:"price"`
}

type itemResponse struct {
	ID    int32  `json:"id"`
	Name  string `json:"name"`
	Price int32  `json:"price"`
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListItems(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, itemResponse(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := ctxutil.IdentityFromCtx(r.Context())

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.CreateItem(r.Context(), identity, req.Name, req.Price)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, itemResponse(*item))
}

// Update handles PUT /items.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := ctxutil.IdentityFromCtx(r.Context())

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.UpdateItem(r.Context(), identity, inventory.UpdateItemInput{
		ID:    req.ID,
		Name:  req.Name,
		Price: req.Price,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, itemResponse(*item))
}

// Delete handles DELETE /items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := ctxutil.IdentityFromCtx(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.svc.DeleteItem(r.Context(), identity, int32(id)); err != nil {
		respondError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

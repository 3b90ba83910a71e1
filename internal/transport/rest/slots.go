package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vendstack/barkeep/internal/auth"
	"github.com/vendstack/barkeep/internal/domain"
	"github.com/vendstack/barkeep/internal/service/inventory"
	"github.com/vendstack/barkeep/pkg/ctxutil"
)

// slotService defines the minimal interface needed by SlotsHandler.
type slotService interface {
	UpdateSlot(ctx context.Context, caller *auth.Identity, in inventory.UpdateSlotInput) (*domain.Slot, error)
}

// SlotsHandler serves slot administration endpoints.
type SlotsHandler struct {
	svc slotService
	log *slog.Logger
}

// NewSlotsHandler creates a SlotsHandler.
func NewSlotsHandler(svc slotService, logger *slog.Logger) *SlotsHandler {
	return &SlotsHandler{svc: svc, log: logger.With("handler", "slots")}
}

type updateSlotRequest struct {
	Machine string `json:"machine"`
	Slot    int32  `json:"slot"`
	Active  *bool  `json:"active"`
	ItemID  *int32 `json:"item"`
	Count   *int32 `json:"count"`
}

type slotResponse struct {
	Machine int32  `json:"machine"`
	Number  int32  `json:"number"`
	Item    int32  `json:"item"`
	Active  bool   `json:"active"`
	Count   *int32 `json:"count"`
}

// Update handles PUT /slots. Only the fields present in the body change.
func (h *SlotsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := ctxutil.IdentityFromCtx(r.Context())

	var req updateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slot, err := h.svc.UpdateSlot(r.Context(), identity, inventory.UpdateSlotInput{
		Machine: req.Machine,
		Number:  req.Slot,
		Active:  req.Active,
		ItemID:  req.ItemID,
		Count:   req.Count,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, slotResponse{
		Machine: slot.Machine,
		Number:  slot.Number,
		Item:    slot.Item,
		Active:  slot.Active,
		Count:   slot.Count,
	})
}

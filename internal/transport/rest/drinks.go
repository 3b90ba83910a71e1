package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vendstack/barkeep/internal/domain"
	"github.com/vendstack/barkeep/internal/service/dispense"
	"github.com/vendstack/barkeep/pkg/ctxutil"
)

// dispenseService defines the minimal interface needed by DrinksHandler.
type dispenseService interface {
	ListMachines(ctx context.Context) ([]dispense.MachineListing, error)
	Drop(ctx context.Context, in dispense.DropInput) (*dispense.DropResult, error)
}

// DrinksHandler serves the machine listing and dispense endpoints.
type DrinksHandler struct {
	svc dispenseService
	log *slog.Logger
}

// NewDrinksHandler creates a DrinksHandler.
func NewDrinksHandler(svc dispenseService, logger *slog.Logger) *DrinksHandler {
	return &DrinksHandler{svc: svc, log: logger.With("handler", "drinks")}
}

type dropRequest struct {
	Machine string `json:"machine"`
	Slot    int32  `json:"slot"`
}

type dropResponse struct {
	Message    string `json:"message"`
	Machine    string `json:"machine"`
	Slot       int32  `json:"slot"`
	Item       string `json:"item"`
	Price      int32  `json:"price"`
	NewBalance int64  `json:"new_balance"`
}

// List handles GET /drinks. The listing is the availability view: every
// active machine with per-slot emptiness already decided.
func (h *DrinksHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.ListMachines(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"machines": listings})
}

// Drop handles POST /drinks/drop. The caller is taken from the bearer
// token; the body names the machine and slot.
func (h *DrinksHandler) Drop(w http.ResponseWriter, r *http.Request) {
	identity, ok := ctxutil.IdentityFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req dropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Drop(r.Context(), dispense.DropInput{
		Username: identity.Username,
		Machine:  req.Machine,
		Slot:     req.Slot,
	})
	if err != nil {
		h.dropError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dropResponse{
		Message:    "Dropped " + result.ItemName,
		Machine:    result.Machine,
		Slot:       result.Slot,
		Item:       result.ItemName,
		Price:      result.ItemPrice,
		NewBalance: result.NewBalance,
	})
}

// dropError maps dispense failures onto statuses. Device failures get
// gateway statuses because the fault is the machine, not this service:
// timeouts are 504, everything else device-side is 502. Failures before
// the device command keep their client-error statuses.
func (h *DrinksHandler) dropError(w http.ResponseWriter, r *http.Request, err error) {
	var devErr *domain.DeviceError
	switch {
	case errors.Is(err, domain.ErrSlotEmpty):
		writeError(w, http.StatusConflict, "the requested slot is empty")
	case errors.Is(err, domain.ErrInsufficientBalance):
		writeError(w, http.StatusPaymentRequired, "insufficient drink balance")
	case errors.Is(err, domain.ErrMachineOffline):
		writeError(w, http.StatusBadGateway, "the machine is not online")
	case errors.As(err, &devErr):
		h.log.ErrorContext(r.Context(), "device error during drop", slog.String("error", err.Error()))
		switch devErr.Kind {
		case domain.DeviceErrTimeout:
			writeError(w, http.StatusGatewayTimeout, "the machine did not respond in time")
		case domain.DeviceErrStatus:
			msg := devErr.Message
			if msg == "" {
				msg = "the machine rejected the drop"
			}
			writeError(w, http.StatusBadGateway, msg)
		default:
			writeError(w, http.StatusBadGateway, "could not contact the machine")
		}
	default:
		respondError(w, r, h.log, err)
	}
}

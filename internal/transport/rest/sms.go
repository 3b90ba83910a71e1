package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vendstack/barkeep/pkg/ctxutil"
)

// textService defines the minimal interface needed by SMSHandler.
type textService interface {
	Handle(ctx context.Context, username, message string) string
}

// SMSHandler serves the text command endpoint. The SMS gateway shows the
// sender whatever comes back in "message", so every outcome after
// authentication answers 200 with a human-readable line; real statuses
// would surface as delivery failures instead of replies.
type SMSHandler struct {
	svc textService
	log *slog.Logger
}

// NewSMSHandler creates an SMSHandler.
func NewSMSHandler(svc textService, logger *slog.Logger) *SMSHandler {
	return &SMSHandler{svc: svc, log: logger.With("handler", "sms")}
}

type smsRequest struct {
	Message string `json:"message"`
}

// Handle handles POST /api/v2/sms.
func (h *SMSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := ctxutil.IdentityFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req smsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "I couldn't read that message."})
		return
	}

	reply := h.svc.Handle(r.Context(), identity.Username, req.Message)
	writeJSON(w, http.StatusOK, map[string]string{"message": reply})
}

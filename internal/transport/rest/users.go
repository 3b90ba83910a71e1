package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vendstack/barkeep/internal/auth"
	"github.com/vendstack/barkeep/internal/domain"
	"github.com/vendstack/barkeep/pkg/ctxutil"
)

// creditsService defines the minimal interface needed by UsersHandler.
type creditsService interface {
	GetByUID(ctx context.Context, uid string) (*domain.DirectoryUser, error)
	GetByIButton(ctx context.Context, value string) (*domain.DirectoryUser, error)
	Search(ctx context.Context, query string) ([]domain.DirectoryUser, error)
	SetBalance(ctx context.Context, caller *auth.Identity, uid string, balance int64) (*domain.DirectoryUser, error)
}

// UsersHandler serves directory lookup and balance endpoints.
type UsersHandler struct {
	svc creditsService
	log *slog.Logger
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(svc creditsService, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, log: logger.With("handler", "users")}
}

type userResponse struct {
	UID     string `json:"uid"`
	CN      string `json:"cn"`
	Balance int64  `json:"drinkBalance"`
}

type setCreditsRequest struct {
	UID   string `json:"uid"`
	Value int64  `json:"value"`
}

// Search handles GET /users?query=. An empty query is rejected rather
// than listing the whole directory.
func (h *UsersHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.IdentityFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	users, err := h.svc.Search(r.Context(), query)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

// GetCredits handles GET /users/credits. With no parameters it returns the
// caller's own balance; uid= looks up another user, ibutton= looks up by
// hardware token.
func (h *UsersHandler) GetCredits(w http.ResponseWriter, r *http.Request) {
	identity, ok := ctxutil.IdentityFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var (
		user *domain.DirectoryUser
		err  error
	)
	switch {
	case r.URL.Query().Get("ibutton") != "":
		user, err = h.svc.GetByIButton(r.Context(), r.URL.Query().Get("ibutton"))
	case r.URL.Query().Get("uid") != "":
		user, err = h.svc.GetByUID(r.Context(), r.URL.Query().Get("uid"))
	default:
		user, err = h.svc.GetByUID(r.Context(), identity.Username)
	}
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// SetCredits handles PUT /users/credits. Admin only; the check lives in the
// service so every transport enforces it identically.
func (h *UsersHandler) SetCredits(w http.ResponseWriter, r *http.Request) {
	identity, _ := ctxutil.IdentityFromCtx(r.Context())

	var req setCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.svc.SetBalance(r.Context(), identity, req.UID, req.Value)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(u *domain.DirectoryUser) userResponse {
	return userResponse{
		UID:     u.UID,
		CN:      u.CN,
		Balance: u.Balance(),
	}
}

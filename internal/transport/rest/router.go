package rest

import "net/http"

// Handlers groups every REST handler for route registration.
type Handlers struct {
	Health *HealthHandler
	Drinks *DrinksHandler
	Users  *UsersHandler
	Slots  *SlotsHandler
	Items  *ItemsHandler
	SMS    *SMSHandler
}

// NewRouter registers all routes on a fresh mux. Method-scoped patterns
// give free 405s for wrong methods.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("GET /drinks", h.Drinks.List)
	mux.HandleFunc("POST /drinks/drop", h.Drinks.Drop)

	mux.HandleFunc("GET /users", h.Users.Search)
	mux.HandleFunc("GET /users/credits", h.Users.GetCredits)
	mux.HandleFunc("PUT /users/credits", h.Users.SetCredits)

	mux.HandleFunc("PUT /slots", h.Slots.Update)

	mux.HandleFunc("GET /items", h.Items.List)
	mux.HandleFunc("POST /items", h.Items.Create)
	mux.HandleFunc("PUT /items", h.Items.Update)
	mux.HandleFunc("DELETE /items/{id}", h.Items.Delete)

	mux.HandleFunc("POST /api/v2/sms", h.SMS.Handle)

	return mux
}

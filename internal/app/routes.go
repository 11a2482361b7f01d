package app

import (
	"net/http"

	"github.com/eventnexus/eventnexus/internal/config"
	"github.com/eventnexus/eventnexus/internal/rest"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints and, when enabled, the UI.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler()).Methods("GET")
	}

	// Events
	r.HandleFunc("/api/event", deps.EventHandler.ListEvents).Methods("GET")
	r.HandleFunc("/api/event", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/event/{eventId}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Cities
	r.HandleFunc("/api/city", deps.CityHandler.ListCities).Methods("GET")

	// Taxonomy
	r.HandleFunc("/api/category", deps.TaxonomyHandler.ListCategories).Methods("GET")
	r.HandleFunc("/api/timefilter", deps.TaxonomyHandler.ListTimeFilters).Methods("GET")

	// UI
	if deps.UI != nil {
		r.HandleFunc("/", deps.UI.Index).Methods("GET")
		r.HandleFunc("/reload", deps.UI.Reload).Methods("POST")
		r.HandleFunc("/events/new", deps.UI.NewEvent).Methods("GET")
		r.HandleFunc("/events", deps.UI.CreateEvent).Methods("POST")
		r.PathPrefix("/static/").Handler(deps.UI.Static()).Methods("GET")
	}
}

package ui

import (
	"bytes"
	"context"
	"net/http"

	"github.com/eventnexus/eventnexus/pkg/city"
	"github.com/eventnexus/eventnexus/pkg/event"
	"github.com/eventnexus/eventnexus/pkg/store"
	"github.com/eventnexus/eventnexus/pkg/taxonomy"
	log "github.com/sirupsen/logrus"
)

// Index renders the event list narrowed by the category, time and q query
// parameters.
func (c *Controller) Index(w http.ResponseWriter, r *http.Request) {
	c.renderPage(w, r, http.StatusOK, nil)
}

// Reload retries loading the events and goes back to the list.
func (c *Controller) Reload(w http.ResponseWriter, r *http.Request) {
	log.Debug("Reloading events")
	c.Load(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// NewEvent renders the list with the creation form open.
func (c *Controller) NewEvent(w http.ResponseWriter, r *http.Request) {
	draft := event.Draft{Category: taxonomy.DefaultCategory}
	c.renderPage(w, r, http.StatusOK, newForm(draft, c.loadCities(r.Context()), false))
}

// CreateEvent validates the submitted form and hands it to the gateway. On
// success the event is prepended to the store and the filters are cleared.
func (c *Controller) CreateEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating event from form")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	draft, isNewCity := draftFrom(r.PostForm)

	now := c.clock.Now()
	if fieldErrors := draft.Validate(now); fieldErrors != nil {
		f := newForm(draft, c.loadCities(r.Context()), isNewCity)
		f.Errors = fieldErrors
		c.renderPage(w, r, http.StatusUnprocessableEntity, f)
		return
	}

	input, err := draft.Input(now.Location())
	if err == nil {
		var created event.Event
		created, err = c.events.CreateEvent(r.Context(), input)
		if err == nil {
			c.store.Dispatch(store.EventCreated{Event: created})
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	log.Errorf("Error adding event: %v", err)
	f := newForm(draft, c.loadCities(r.Context()), isNewCity)
	f.Alert = "Failed to add event: " + err.Error()
	c.renderPage(w, r, http.StatusInternalServerError, f)
}

// Static serves the embedded stylesheet.
func (c *Controller) Static() http.Handler {
	return http.FileServer(http.FS(assets))
}

// loadCities returns no cities when they cannot be fetched; the form still
// accepts a new city then.
func (c *Controller) loadCities(ctx context.Context) []city.City {
	if c.cities == nil {
		return nil
	}
	cities, err := c.cities.ListCities(ctx)
	if err != nil {
		log.Errorf("Error loading cities: %v", err)
		return nil
	}
	return cities
}

func (c *Controller) renderPage(w http.ResponseWriter, r *http.Request, status int, f *form) {
	state := c.store.Snapshot()
	criteria := criteriaFrom(r.URL.Query())
	filtered := c.engine.Filter(state.Events, criteria)

	p := newPage(state, criteria, filtered, c.clock.Now().Location())
	p.Form = f

	var buf bytes.Buffer
	if err := c.templates.ExecuteTemplate(&buf, "index.html", p); err != nil {
		log.Errorf("failed to render page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Debugf("failed to write page: %v", err)
	}
}

package ui

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/eventnexus/eventnexus/internal/utils"
	"github.com/eventnexus/eventnexus/pkg/city"
	"github.com/eventnexus/eventnexus/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var now = time.Date(2026, time.October, 14, 10, 30, 0, 0, time.UTC)

type fixture struct {
	controller *Controller
	repo       *event.RepositoryStub
	cityRepo   *city.RepositoryStub
}

func setupController(t *testing.T) fixture {
	repo := event.NewRepositoryStub()
	cityRepo := city.NewRepositoryStub("Berlin")
	cities := city.NewService(cityRepo, nil)
	controller, err := NewController(event.NewService(repo, cities, nil), cities, &utils.MockClock{FixedNow: now})
	require.NoError(t, err)
	return fixture{controller: controller, repo: repo, cityRepo: cityRepo}
}

func seed(t *testing.T, f fixture, title, category string, start time.Time) {
	_, err := f.controller.events.CreateEvent(context.Background(), event.CreateInput{
		Title:       title,
		Category:    category,
		Date:        start,
		Location:    "Berlin",
		Description: "Something worth attending",
		Image:       "🎉",
	})
	require.NoError(t, err)
}

func get(f fixture, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.controller.Index(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func postForm(handler http.HandlerFunc, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func validForm() url.Values {
	return url.Values{
		"title":       {"Rooftop Jazz"},
		"category":    {"music"},
		"date":        {"2026-10-20"},
		"time":        {"19:30"},
		"location":    {"__new__"},
		"new_city":    {"Newcity"},
		"description": {"Live jazz above the rooftops"},
	}
}

func TestController_Index(t *testing.T) {
	t.Run("should show the loading state before the first load", func(t *testing.T) {
		f := setupController(t)

		w := get(f, "/")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Loading Events...")
		assert.Contains(t, w.Body.String(), "0 Events Found")
	})

	t.Run("should render the loaded events", func(t *testing.T) {
		// given
		f := setupController(t)
		seed(t, f, "Warehouse Rave", "party", time.Date(2026, time.October, 17, 22, 0, 0, 0, time.UTC))
		f.controller.Load(context.Background())

		// when
		w := get(f, "/")

		// then
		body := w.Body.String()
		assert.Contains(t, body, "1 Event Found")
		assert.Contains(t, body, "Warehouse Rave")
		assert.Contains(t, body, "PARTY")
		assert.Contains(t, body, "Sat, Oct 17, 10:00 PM")
		assert.NotContains(t, body, "Clear Filters")
	})

	t.Run("should apply the filters from the query", func(t *testing.T) {
		// given
		f := setupController(t)
		seed(t, f, "Warehouse Rave", "party", time.Date(2026, time.October, 17, 22, 0, 0, 0, time.UTC))
		seed(t, f, "Open Mic", "comedy", time.Date(2026, time.October, 14, 20, 0, 0, 0, time.UTC))
		f.controller.Load(context.Background())

		// when
		w := get(f, "/?category=comedy&time=today")

		// then
		body := w.Body.String()
		assert.Contains(t, body, "1 Event Found")
		assert.Contains(t, body, "Open Mic")
		assert.NotContains(t, body, "Warehouse Rave")
		assert.Contains(t, body, "Clear Filters")
	})

	t.Run("should show no events for an unmatched search", func(t *testing.T) {
		// given
		f := setupController(t)
		seed(t, f, "Warehouse Rave", "party", time.Date(2026, time.October, 17, 22, 0, 0, 0, time.UTC))
		f.controller.Load(context.Background())

		// when
		w := get(f, "/?q=opera")

		// then
		assert.Contains(t, w.Body.String(), "No Events Found")
		assert.Contains(t, w.Body.String(), "0 Events Found")
	})

	t.Run("should offer a retry after a failed load", func(t *testing.T) {
		// given
		f := setupController(t)
		f.repo.ListErr = errors.New("dial tcp: connection refused")
		f.controller.Load(context.Background())

		// when
		w := get(f, "/")

		// then
		body := w.Body.String()
		assert.Contains(t, body, "Error Loading Events")
		assert.Contains(t, body, "Failed to load events. Please check your connection.")
		assert.Contains(t, body, `action="/reload"`)
	})
}

func TestController_Reload(t *testing.T) {
	// given
	f := setupController(t)
	f.repo.ListErr = errors.New("timeout")
	f.controller.Load(context.Background())
	seed(t, f, "Warehouse Rave", "party", time.Date(2026, time.October, 17, 22, 0, 0, 0, time.UTC))
	f.repo.ListErr = nil

	// when
	w := postForm(f.controller.Reload, "/reload", nil)

	// then
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	state := f.controller.Snapshot()
	assert.NoError(t, state.LoadError)
	assert.Len(t, state.Events, 1)
}

func TestController_Start(t *testing.T) {
	// given
	f := setupController(t)
	seed(t, f, "Warehouse Rave", "party", time.Date(2026, time.October, 17, 22, 0, 0, 0, time.UTC))

	// when
	f.controller.Start(context.Background())

	// then
	assert.Eventually(t, func() bool {
		return f.controller.Snapshot().Loaded
	}, time.Second, 10*time.Millisecond)
}

func TestController_NewEvent(t *testing.T) {
	f := setupController(t)
	w := httptest.NewRecorder()

	f.controller.NewEvent(w, httptest.NewRequest(http.MethodGet, "/events/new", nil))

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, body, "Add New Event")
	assert.Contains(t, body, `<option value="Berlin">Berlin</option>`)
	assert.Contains(t, body, `<option value="music" selected>`)
	assert.Contains(t, body, "Add New City")
}

func TestController_CreateEvent(t *testing.T) {
	t.Run("should create the event with a new city and prepend it", func(t *testing.T) {
		// given
		f := setupController(t)
		seed(t, f, "Warehouse Rave", "party", time.Date(2026, time.October, 17, 22, 0, 0, 0, time.UTC))
		f.controller.Load(context.Background())

		// when
		w := postForm(f.controller.CreateEvent, "/events", validForm())

		// then
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		state := f.controller.Snapshot()
		require.Len(t, state.Events, 2)
		assert.Equal(t, "Rooftop Jazz", state.Events[0].Title)
		assert.Equal(t, "Newcity", state.Events[0].Location)
		assert.Equal(t, "🎵", state.Events[0].Image)
		_, err := f.cityRepo.FindByName(context.Background(), "Newcity")
		assert.NoError(t, err)
	})

	t.Run("should accept a known city", func(t *testing.T) {
		// given
		f := setupController(t)
		values := validForm()
		values.Set("location", "Berlin")

		// when
		w := postForm(f.controller.CreateEvent, "/events", values)

		// then
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, 1, f.cityRepo.Count())
	})

	t.Run("should show inline errors without calling the backend", func(t *testing.T) {
		// given
		f := setupController(t)
		values := validForm()
		values.Set("title", "")
		values.Set("description", "too short")

		// when
		w := postForm(f.controller.CreateEvent, "/events", values)

		// then
		body := w.Body.String()
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, body, "Event title is required")
		assert.Contains(t, body, "Description must be at least 10 characters")
		assert.Contains(t, body, `value="Newcity"`)
		assert.Equal(t, 1, f.cityRepo.Count())
		assert.Empty(t, f.controller.Snapshot().Events)
	})

	t.Run("should show a blocking alert when the backend fails", func(t *testing.T) {
		// given
		f := setupController(t)
		f.repo.InsertErr = errors.New("new row violates check constraint")

		// when
		w := postForm(f.controller.CreateEvent, "/events", validForm())

		// then
		body := w.Body.String()
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, body, `role="alertdialog"`)
		assert.Contains(t, body, "new row violates check constraint")
		assert.Contains(t, body, `value="Rooftop Jazz"`)
	})
}

func TestController_Static(t *testing.T) {
	f := setupController(t)
	w := httptest.NewRecorder()

	f.controller.Static().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".event-card")
}

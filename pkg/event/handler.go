package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eventnexus/eventnexus/internal/rest"
	"github.com/eventnexus/eventnexus/internal/utils"
	"github.com/eventnexus/eventnexus/pkg/taxonomy"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type EventDTO struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	Categories  []string   `json:"categories"`
	Date        time.Time  `json:"date"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	CityId      *int64     `json:"cityId,omitempty"`
	Start       time.Time  `json:"start"`
	Stop        *time.Time `json:"stop,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// PatchDTO is the body of an update. Omitted fields are left unchanged.
type PatchDTO struct {
	Title       *string    `json:"title" validate:"omitnil,min=1,max=100"`
	Category    *string    `json:"category" validate:"omitnil,category"`
	Start       *time.Time `json:"start"`
	Stop        *time.Time `json:"stop"`
	Location    *string    `json:"location" validate:"omitnil,min=1,max=100"`
	Description *string    `json:"description" validate:"omitnil,min=10,max=500"`
}

type Handler struct {
	service Service
	engine  *Engine
	clock   utils.Clock
}

func NewHandler(service Service, clock utils.Clock) *Handler {
	return &Handler{
		service: service,
		engine:  NewEngine(clock),
		clock:   clock,
	}
}

// ListEvents godoc
// @Summary List events
// @Description All events ordered by start, narrowed by the optional filters
// @Tags Event
// @Produce json
// @Param category query string false "Category id, or all"
// @Param time query string false "Time window: all, today or weekend"
// @Param q query string false "Free-text search"
// @Success 200 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Unknown category or time window"
// @Router /api/event [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing events")

	criteria := Criteria{
		Category: r.URL.Query().Get("category"),
		Time:     r.URL.Query().Get("time"),
		Query:    r.URL.Query().Get("q"),
	}
	if criteria.Category != "" && !taxonomy.IsCategory(criteria.Category) {
		rest.WriteError(w, http.StatusBadRequest, "Unknown category", criteria.Category)
		return
	}
	if criteria.Time != "" && !taxonomy.IsTimeFilter(criteria.Time) {
		rest.WriteError(w, http.StatusBadRequest, "Unknown time filter", criteria.Time)
		return
	}

	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load events", err.Error())
		return
	}

	rest.WriteJSON(w, http.StatusOK, toDTOs(h.engine.Filter(events, criteria)))
}

// CreateEvent godoc
// @Summary Create an event
// @Description Validates the submission, resolves its city and category, and stores it
// @Tags Event
// @Accept json
// @Produce json
// @Param event body Draft true "Event"
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request body"
// @Failure 422 {object} rest.ErrorResponse "Validation failed"
// @Router /api/event [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating event")

	var draft Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}

	now := h.clock.Now()
	if fieldErrors := draft.Validate(now); fieldErrors != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.ErrorResponse{
			Error:  "Validation failed",
			Fields: fieldErrors,
		})
		return
	}

	input, err := draft.Input(now.Location())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event start", err.Error())
		return
	}

	created, err := h.service.CreateEvent(r.Context(), input)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to create event", err.Error())
		return
	}
	log.Tracef("Created event: %+v", created)

	rest.WriteJSON(w, http.StatusCreated, toDTO(created))
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags Event
// @Accept json
// @Produce json
// @Param eventId path string true "Event ID"
// @Param event body PatchDTO true "Fields to change"
// @Success 200 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid id or body"
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/event/{eventId} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventId(w, r)
	if !ok {
		return
	}
	log.Debugf("Updating event %s", id)

	var dto PatchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	if fieldErrors := validatePatch(dto); fieldErrors != nil {
		rest.WriteJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:  "Validation failed",
			Fields: fieldErrors,
		})
		return
	}
	patch := dtoToPatch(dto)
	if patch.IsEmpty() {
		rest.WriteError(w, http.StatusBadRequest, "Nothing to update", "")
		return
	}

	updated, err := h.service.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Event not found", id)
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to update event", err.Error())
		return
	}

	rest.WriteJSON(w, http.StatusOK, toDTO(updated))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags Event
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid id"
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/event/{eventId} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventId(w, r)
	if !ok {
		return
	}
	log.Debugf("Deleting event %s", id)

	deleted, err := h.service.DeleteEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Event not found", id)
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to delete event", err.Error())
		return
	}

	rest.WriteJSON(w, http.StatusOK, toDTO(deleted))
}

func eventId(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := mux.Vars(r)["eventId"]
	id, err := uuid.Parse(raw)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event id", raw)
		return "", false
	}
	return id.String(), true
}

func validatePatch(dto PatchDTO) map[string]string {
	var validationErrors validator.ValidationErrors
	if err := validate.Struct(dto); errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fe := range validationErrors {
			fields[fe.Field()] = message(fe.Field(), fe.Tag())
		}
		return fields
	}
	return nil
}

func dtoToPatch(dto PatchDTO) Patch {
	patch := Patch{
		Title:       dto.Title,
		Category:    dto.Category,
		Start:       dto.Start,
		Stop:        dto.Stop,
		Location:    dto.Location,
		Description: dto.Description,
	}
	if patch.Category != nil {
		if c, ok := taxonomy.Lookup(*patch.Category); ok {
			patch.Category = &c.Id
		}
	}
	return patch
}

func toDTO(e Event) EventDTO {
	return EventDTO{
		Id:          e.Id,
		Title:       e.Title,
		Category:    e.Category,
		Categories:  e.Categories,
		Date:        e.Date,
		Location:    e.Location,
		Description: e.Description,
		Image:       e.Image,
		CityId:      e.CityId,
		Start:       e.Start,
		Stop:        e.Stop,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toDTOs(events []Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, toDTO(e))
	}
	return dtos
}

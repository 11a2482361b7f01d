package city

import (
	"net/http"

	"github.com/eventnexus/eventnexus/internal/rest"
	log "github.com/sirupsen/logrus"
)

type CityDTO struct {
	Id   int64  `json:"id"`
	Name string `json:"city_name"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// ListCities godoc
// @Summary List known cities
// @Description Cities ordered alphabetically by name
// @Tags City
// @Produce json
// @Success 200 {array} CityDTO
// @Router /api/city [get]
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing cities")
	cities, err := h.service.ListCities(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load cities", err.Error())
		return
	}

	dtos := make([]CityDTO, 0, len(cities))
	for _, c := range cities {
		dtos = append(dtos, CityDTO{Id: c.Id, Name: c.Name})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

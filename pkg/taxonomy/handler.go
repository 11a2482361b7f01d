package taxonomy

import (
	"net/http"

	"github.com/eventnexus/eventnexus/internal/rest"
)

type CategoryDTO struct {
	Id    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Order int    `json:"order,omitempty"`
	Color string `json:"color,omitempty"`
}

type TimeFilterDTO struct {
	Id    string `json:"id"`
	Label string `json:"label"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// ListCategories godoc
// @Summary List categories
// @Tags Taxonomy
// @Produce json
// @Success 200 {array} CategoryDTO
// @Router /api/category [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	all := Categories()
	dtos := make([]CategoryDTO, 0, len(all))
	for _, c := range all {
		dtos = append(dtos, CategoryDTO{Id: c.Id, Label: c.Label, Icon: c.Icon, Order: c.Order, Color: c.Color})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// ListTimeFilters godoc
// @Summary List time filters
// @Tags Taxonomy
// @Produce json
// @Success 200 {array} TimeFilterDTO
// @Router /api/timefilter [get]
func (h *Handler) ListTimeFilters(w http.ResponseWriter, r *http.Request) {
	filters := TimeFilters()
	dtos := make([]TimeFilterDTO, 0, len(filters))
	for _, f := range filters {
		dtos = append(dtos, TimeFilterDTO{Id: f.Id, Label: f.Label})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

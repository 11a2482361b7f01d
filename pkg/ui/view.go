package ui

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/eventnexus/eventnexus/pkg/city"
	"github.com/eventnexus/eventnexus/pkg/event"
	"github.com/eventnexus/eventnexus/pkg/store"
	"github.com/eventnexus/eventnexus/pkg/taxonomy"
)

const (
	cardDateLayout = "Mon, Jan 2, 03:04 PM"
	newCityOption  = "__new__"
	loadErrorText  = "Failed to load events. Please check your connection."
)

type page struct {
	Category      string
	Time          string
	Query         string
	Categories    []filterLink
	TimeFilters   []filterLink
	Loading       bool
	LoadError     string
	Events        []card
	CountText     string
	FiltersActive bool
	Form          *form
}

type filterLink struct {
	Label  string
	Icon   string
	Href   string
	Active bool
}

type card struct {
	Id            string
	Image         string
	CategoryLabel string
	Color         string
	Title         string
	Date          string
	Location      string
	Description   string
}

type categoryOption struct {
	Id       string
	Label    string
	Icon     string
	Selected bool
}

type cityOption struct {
	Name     string
	Selected bool
}

type form struct {
	Title       string
	Date        string
	Time        string
	Description string
	NewCity     string
	IsNewCity   bool
	Categories  []categoryOption
	Cities      []cityOption
	Errors      event.FieldErrors
	Alert       string
}

// criteriaFrom reads the filter controls. Values the taxonomy does not know
// fall back to "all".
func criteriaFrom(values url.Values) event.Criteria {
	c := event.Criteria{
		Category: strings.ToLower(values.Get("category")),
		Time:     values.Get("time"),
		Query:    values.Get("q"),
	}
	if !taxonomy.IsCategory(c.Category) {
		c.Category = taxonomy.All
	}
	if !taxonomy.IsTimeFilter(c.Time) {
		c.Time = taxonomy.All
	}
	return c
}

func filterHref(c event.Criteria) string {
	values := url.Values{}
	if c.Category != taxonomy.All {
		values.Set("category", c.Category)
	}
	if c.Time != taxonomy.All {
		values.Set("time", c.Time)
	}
	if c.Query != "" {
		values.Set("q", c.Query)
	}
	if len(values) == 0 {
		return "/"
	}
	return "/?" + values.Encode()
}

func countText(n int) string {
	if n == 1 {
		return "1 Event Found"
	}
	return fmt.Sprintf("%d Events Found", n)
}

func newPage(state store.State, c event.Criteria, filtered []event.Event, loc *time.Location) page {
	p := page{
		Category:      c.Category,
		Time:          c.Time,
		Query:         c.Query,
		Loading:       state.Loading || (!state.Loaded && state.LoadError == nil),
		CountText:     countText(len(filtered)),
		FiltersActive: c.IsActive(),
	}
	if state.LoadError != nil && !state.Loading {
		p.LoadError = loadErrorText
	}

	for _, category := range taxonomy.Categories() {
		link := c
		link.Category = category.Id
		p.Categories = append(p.Categories, filterLink{
			Label:  category.Label,
			Icon:   category.Icon,
			Href:   filterHref(link),
			Active: category.Id == c.Category,
		})
	}
	for _, tf := range taxonomy.TimeFilters() {
		link := c
		link.Time = tf.Id
		p.TimeFilters = append(p.TimeFilters, filterLink{
			Label:  tf.Label,
			Href:   filterHref(link),
			Active: tf.Id == c.Time,
		})
	}

	if !p.Loading && p.LoadError == "" {
		p.Events = make([]card, 0, len(filtered))
		for _, e := range filtered {
			p.Events = append(p.Events, newCard(e, loc))
		}
	}
	return p
}

func newCard(e event.Event, loc *time.Location) card {
	return card{
		Id:            e.Id,
		Image:         e.Image,
		CategoryLabel: strings.ToUpper(e.Category),
		Color:         taxonomy.ColorFor(e.Category),
		Title:         e.Title,
		Date:          e.Date.In(loc).Format(cardDateLayout),
		Location:      e.Location,
		Description:   e.Description,
	}
}

// newForm fills the creation form. A location that is not a known city is
// shown in the new-city field.
func newForm(draft event.Draft, cities []city.City, isNewCity bool) *form {
	f := &form{
		Title:       draft.Title,
		Date:        draft.Date,
		Time:        draft.Time,
		Description: draft.Description,
	}

	selected := strings.ToLower(strings.TrimSpace(draft.Category))
	if selected == "" {
		selected = taxonomy.DefaultCategory
	}
	for _, category := range taxonomy.Selectable() {
		f.Categories = append(f.Categories, categoryOption{
			Id:       category.Id,
			Label:    category.Label,
			Icon:     category.Icon,
			Selected: category.Id == selected,
		})
	}

	known := false
	for _, c := range cities {
		match := !isNewCity && draft.Location != "" && strings.EqualFold(c.Name, draft.Location)
		known = known || match
		f.Cities = append(f.Cities, cityOption{Name: c.Name, Selected: match})
	}
	if isNewCity || (draft.Location != "" && !known) {
		f.IsNewCity = true
		f.NewCity = draft.Location
	}
	return f
}

// draftFrom reads the creation form. Choosing the new-city entry takes the
// location from the free-text field.
func draftFrom(values url.Values) (event.Draft, bool) {
	location := values.Get("location")
	isNewCity := location == newCityOption
	if isNewCity {
		location = values.Get("new_city")
	}
	return event.Draft{
		Title:       values.Get("title"),
		Category:    values.Get("category"),
		Date:        values.Get("date"),
		Time:        values.Get("time"),
		Location:    location,
		Description: values.Get("description"),
	}, isNewCity
}

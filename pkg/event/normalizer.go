package event

import (
	"strings"

	"github.com/eventnexus/eventnexus/pkg/taxonomy"
)

const (
	UnknownLocation = "Unknown Location"
	NoDescription   = "No description available"
)

// Normalize flattens a backend row into the view model, filling defaults for
// every missing relation or column.
func Normalize(row Row) Event {
	categories := make([]string, 0, len(row.LinkedCategories))
	for _, link := range row.LinkedCategories {
		if link.CategoryName == "" {
			continue
		}
		categories = append(categories, strings.ToLower(link.CategoryName))
	}

	category := taxonomy.DefaultCategory
	if len(categories) > 0 {
		category = categories[0]
	}

	location := UnknownLocation
	if row.LinkedCity != nil && row.LinkedCity.CityName != "" {
		location = row.LinkedCity.CityName
	} else if row.Location != nil && *row.Location != "" {
		location = *row.Location
	}

	description := NoDescription
	if row.Description != nil && *row.Description != "" {
		description = *row.Description
	}

	image := taxonomy.DefaultIcon
	if row.Image != nil && *row.Image != "" {
		image = *row.Image
	}

	return Event{
		Id:          row.Id,
		Title:       row.EventTitle,
		Category:    category,
		Categories:  categories,
		Date:        row.Start,
		Location:    location,
		Description: description,
		Image:       image,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		CityId:      row.CityId,
		Start:       row.Start,
		Stop:        row.Stop,
	}
}

func NormalizeAll(rows []Row) []Event {
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, Normalize(row))
	}
	return events
}

package event

import (
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")
var ErrVibeNotFound = errors.New("vibe not found")

// DefaultDuration is added to the start time when no stop time is given.
const DefaultDuration = 2 * time.Hour

// Event is the flat view model rendered by the UI and returned by the API.
type Event struct {
	Id    string
	Title string
	// Category is the primary category, always Categories[0] when Categories is non-empty.
	Category    string
	Categories  []string
	Date        time.Time
	Location    string
	Description string
	Image       string

	CreatedAt time.Time
	UpdatedAt time.Time
	CityId    *int64
	Start     time.Time
	Stop      *time.Time
}

// Row is an event as stored by the backend, together with its joined
// relations. Every optional column and relation may be absent.
type Row struct {
	Id               string
	EventTitle       string
	Start            time.Time
	Stop             *time.Time
	Description      *string
	Image            *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CityId           *int64
	Location         *string
	LinkedCategories []CategoryLink
	LinkedCity       *CityLink
}

type CategoryLink struct {
	CategoryName string
}

type CityLink struct {
	CityName string
}

// CreateInput carries a validated submission to the gateway.
type CreateInput struct {
	Title       string
	Category    string
	Date        time.Time
	Location    string
	Description string
	Image       string
}

// Patch lists the fields to change on an existing event; nil means unchanged.
type Patch struct {
	Title       *string
	Category    *string
	Start       *time.Time
	Stop        *time.Time
	Location    *string
	Description *string
	Image       *string
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.Start == nil && p.Stop == nil &&
		p.Location == nil && p.Description == nil && p.Image == nil
}

package taxonomy

import "strings"

const (
	All     = "all"
	Today   = "today"
	Weekend = "weekend"

	DefaultCategory = "music"
	DefaultIcon     = "🎵"
	DefaultColor    = "#00d4ff"
)

type Category struct {
	Id    string
	Label string
	Icon  string
	// Order is the display rank; the "all" pseudo-category has none.
	Order int
	Color string
}

type TimeFilter struct {
	Id    string
	Label string
}

var categories = []Category{
	{Id: All, Label: "All Events", Icon: "✨"},
	{Id: "party", Label: "Party", Icon: "🎉", Order: 1, Color: "#ff00ff"},
	{Id: "music", Label: "Music", Icon: "🎵", Order: 2, Color: "#00d4ff"},
	{Id: "festival", Label: "Festival", Icon: "🎪", Order: 3, Color: "#ff6b00"},
	{Id: "food", Label: "Food", Icon: "🍜", Order: 4, Color: "#4caf50"},
	{Id: "artsy", Label: "Artsy", Icon: "🎨", Order: 5, Color: "#e91e63"},
	{Id: "comedy", Label: "Comedy", Icon: "😂", Order: 6, Color: "#ffeb3b"},
	{Id: "expo", Label: "Expo", Icon: "🏛️", Order: 7, Color: "#9c27b0"},
	{Id: "sports", Label: "Sports", Icon: "⚽", Order: 8, Color: "#f44336"},
}

var timeFilters = []TimeFilter{
	{Id: All, Label: "All Time"},
	{Id: Today, Label: "Today"},
	{Id: Weekend, Label: "Weekend"},
}

// Categories returns every filterable category, "all" first, in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Selectable returns the categories an event can be created with.
func Selectable() []Category {
	return Categories()[1:]
}

func TimeFilters() []TimeFilter {
	out := make([]TimeFilter, len(timeFilters))
	copy(out, timeFilters)
	return out
}

// Lookup finds a category by id, ignoring case.
func Lookup(id string) (Category, bool) {
	id = strings.ToLower(id)
	for _, c := range categories {
		if c.Id == id {
			return c, true
		}
	}
	return Category{}, false
}

// IsCategory reports whether id names a filterable category, "all" included.
func IsCategory(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// IsSelectable reports whether an event can be created with category id.
func IsSelectable(id string) bool {
	c, ok := Lookup(id)
	return ok && c.Id != All
}

func IsTimeFilter(id string) bool {
	for _, f := range timeFilters {
		if f.Id == id {
			return true
		}
	}
	return false
}

// IconFor returns the glyph for a category, or the music glyph when unmapped.
func IconFor(id string) string {
	if c, ok := Lookup(id); ok && c.Id != All {
		return c.Icon
	}
	return DefaultIcon
}

func ColorFor(id string) string {
	if c, ok := Lookup(id); ok && c.Color != "" {
		return c.Color
	}
	return DefaultColor
}

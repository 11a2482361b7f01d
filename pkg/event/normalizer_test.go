package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNormalize(t *testing.T) {
	start := time.Date(2026, time.November, 1, 19, 0, 0, 0, time.UTC)

	t.Run("should apply defaults to a bare row", func(t *testing.T) {
		// given
		row := Row{Id: "abc", EventTitle: "Bare", Start: start}

		// when
		e := Normalize(row)

		// then
		assert.Equal(t, "music", e.Category)
		assert.NotNil(t, e.Categories)
		assert.Empty(t, e.Categories)
		assert.Equal(t, "Unknown Location", e.Location)
		assert.Equal(t, "No description available", e.Description)
		assert.Equal(t, "🎵", e.Image)
		assert.Equal(t, start, e.Date)
	})

	t.Run("should prefer the linked city over the raw location", func(t *testing.T) {
		row := Row{Location: ptr("berlin mitte"), LinkedCity: &CityLink{CityName: "Berlin"}}

		assert.Equal(t, "Berlin", Normalize(row).Location)
	})

	t.Run("should use the raw location without a linked city", func(t *testing.T) {
		row := Row{Location: ptr("Somewhere"), LinkedCity: &CityLink{}}

		assert.Equal(t, "Somewhere", Normalize(row).Location)
	})

	t.Run("should lowercase categories and keep their order", func(t *testing.T) {
		// given
		row := Row{LinkedCategories: []CategoryLink{{"Festival"}, {""}, {"MUSIC"}}}

		// when
		e := Normalize(row)

		// then
		assert.Equal(t, []string{"festival", "music"}, e.Categories)
		assert.Equal(t, "festival", e.Category)
	})

	t.Run("should carry through the stored fields", func(t *testing.T) {
		// given
		stop := start.Add(2 * time.Hour)
		created := start.Add(-24 * time.Hour)
		row := Row{
			Id:          "id-1",
			EventTitle:  "Night Market",
			Start:       start,
			Stop:        &stop,
			Description: ptr("Lanterns and dumplings"),
			Image:       ptr("🍜"),
			CreatedAt:   created,
			UpdatedAt:   created,
			CityId:      ptr(int64(7)),
		}

		// when
		e := Normalize(row)

		// then
		assert.Equal(t, "id-1", e.Id)
		assert.Equal(t, "Night Market", e.Title)
		assert.Equal(t, "Lanterns and dumplings", e.Description)
		assert.Equal(t, "🍜", e.Image)
		assert.Equal(t, &stop, e.Stop)
		assert.Equal(t, int64(7), *e.CityId)
		assert.Equal(t, created, e.CreatedAt)
	})

	t.Run("should default empty description and image", func(t *testing.T) {
		e := Normalize(Row{Description: ptr(""), Image: ptr("")})

		assert.Equal(t, NoDescription, e.Description)
		assert.Equal(t, "🎵", e.Image)
	})
}

func TestNormalizeAll(t *testing.T) {
	assert.NotNil(t, NormalizeAll(nil))
	assert.Equal(t, []string{"a", "b"}, ids(NormalizeAll([]Row{{Id: "a"}, {Id: "b"}})))
}

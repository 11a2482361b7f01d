package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategories(t *testing.T) {
	cats := Categories()

	assert.Len(t, cats, 9)
	assert.Equal(t, All, cats[0].Id)
	for i, c := range cats[1:] {
		assert.Equal(t, i+1, c.Order, c.Id)
	}

	// callers cannot mutate the table
	cats[1].Label = "changed"
	assert.Equal(t, "Party", Categories()[1].Label)
}

func TestSelectable(t *testing.T) {
	for _, c := range Selectable() {
		assert.NotEqual(t, All, c.Id)
		assert.True(t, IsSelectable(c.Id))
	}
	assert.False(t, IsSelectable(All))
	assert.False(t, IsSelectable("opera"))
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("FOOD")
	assert.True(t, ok)
	assert.Equal(t, "food", c.Id)
	assert.Equal(t, "🍜", c.Icon)

	_, ok = Lookup("opera")
	assert.False(t, ok)
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, "⚽", IconFor("sports"))
	assert.Equal(t, DefaultIcon, IconFor("opera"))
	assert.Equal(t, DefaultIcon, IconFor(All))
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, "#4caf50", ColorFor("food"))
	assert.Equal(t, DefaultColor, ColorFor("opera"))
	assert.Equal(t, DefaultColor, ColorFor(All))
}

func TestIsTimeFilter(t *testing.T) {
	assert.True(t, IsTimeFilter(All))
	assert.True(t, IsTimeFilter(Today))
	assert.True(t, IsTimeFilter(Weekend))
	assert.False(t, IsTimeFilter("tomorrow"))
	assert.Len(t, TimeFilters(), 3)
}

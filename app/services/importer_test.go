package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategoryJSON(t *testing.T) {
	input := `[
		{"name": "Construction", "children": [
			{"name": "Cement"},
			{"name": "Bricks"}
		]},
		{"name": "Food"}
	]`

	nodes, err := ParseCategoryJSON(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "Construction", nodes[0].Name)
	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, "Cement", nodes[0].Children[0].Name)
	assert.Empty(t, nodes[1].Children)
}

func TestParseCategoryJSONRejectsGarbage(t *testing.T) {
	_, err := ParseCategoryJSON(strings.NewReader("not json"))
	assert.Error(t, err)
}

func TestParseLocationJSON(t *testing.T) {
	input := `[
		{"region": "Moscow Region", "cities": ["Moscow", "Khimki"]},
		{"region": "Tula Region", "cities": []}
	]`

	entries, err := ParseLocationJSON(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Moscow Region", entries[0].Region)
	assert.Equal(t, []string{"Moscow", "Khimki"}, entries[0].Cities)
	assert.Empty(t, entries[1].Cities)
}

func TestParseLocationCSV(t *testing.T) {
	input := "region,city\n" +
		"Moscow Region,Moscow\n" +
		"Moscow Region,Khimki\n" +
		"Tula Region,Tula\n"

	entries, err := ParseLocationCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Moscow Region", entries[0].Region)
	assert.Equal(t, []string{"Moscow", "Khimki"}, entries[0].Cities)
	assert.Equal(t, "Tula Region", entries[1].Region)
	assert.Equal(t, []string{"Tula"}, entries[1].Cities)
}

func TestParseLocationCSVRegionWithoutCity(t *testing.T) {
	input := "Moscow Region,\nMoscow Region,Moscow\n"

	entries, err := ParseLocationCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"Moscow"}, entries[0].Cities)
}

func TestParseLocationCSVSkipsShortRows(t *testing.T) {
	input := "justone\nMoscow Region,Moscow\n"

	entries, err := ParseLocationCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Moscow Region", entries[0].Region)
}

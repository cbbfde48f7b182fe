package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanLeadershipJSON(t *testing.T) {
	corrupted := `{"name": "Jane Doe", "CEO Rating:" "83/100", "title": "CEO",}`
	cleaned := CleanLeadershipJSON(corrupted)
	assert.Equal(t, `{"name": "Jane Doe", "CEO Rating": "83/100", "title": "CEO"}`, cleaned)
}

func TestLeadershipRepairsKnownCorruption(t *testing.T) {
	leader := Leadership(`{"name": "Jane Doe", "title": "CEO", "CEO Rating:" "83/100",}`)
	require.NotNil(t, leader)
	assert.Equal(t, "Jane Doe", leader.Name)
	assert.Equal(t, "CEO", leader.Title)

	require.Len(t, leader.Stats, 1)
	assert.Equal(t, "CEO Rating", leader.Stats[0].Label)
	assert.Equal(t, float64(83), leader.Stats[0].Value, "83/100 reads as 83")
}

func TestLeadershipScoresClamped(t *testing.T) {
	leader := Leadership(`{"name": "Jo", "Leadership Score": "250"}`)
	require.NotNil(t, leader)
	require.Len(t, leader.Stats, 1)
	assert.Equal(t, "Leadership", leader.Stats[0].Label)
	assert.Equal(t, float64(100), leader.Stats[0].Value, "clamped to [0,100]")
}

func TestLeadershipIgnoresLinkShapedScoreKeys(t *testing.T) {
	leader := Leadership(map[string]any{
		"name":                 "Jo",
		"Manager Score":        float64(70),
		"Manager LinkedIn URL": "https://linkedin.com/in/jo",
	})
	require.NotNil(t, leader)
	require.Len(t, leader.Stats, 1)
	assert.Equal(t, "Manager", leader.Stats[0].Label)
}

func TestLeadershipLinkedInVariants(t *testing.T) {
	leader := Leadership(map[string]any{"name": "Jo", "CEO LinkedIn": " https://linkedin.com/in/jo "})
	require.NotNil(t, leader)
	assert.Equal(t, "https://linkedin.com/in/jo", leader.LinkedIn)
}

func TestLeadershipFirstObjectOfList(t *testing.T) {
	leader := Leadership(`[{"name": "First"}, {"name": "Second"}]`)
	require.NotNil(t, leader)
	assert.Equal(t, "First", leader.Name)
}

func TestLeadershipUnparseableYieldsNil(t *testing.T) {
	for _, input := range []any{nil, "", "{truly broken", float64(7), `["just", "strings"]`} {
		assert.Nil(t, Leadership(input), "input %v", input)
	}
}

func TestLeadershipDropsNonPositiveScores(t *testing.T) {
	leader := Leadership(map[string]any{"name": "Jo", "Culture Score": "0"})
	require.NotNil(t, leader)
	assert.Empty(t, leader.Stats)
}

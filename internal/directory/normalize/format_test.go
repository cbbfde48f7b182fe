package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"2023-01", "January 2023"},
		{"2023-06-15", "June 15, 2023"},
		{"not a date", "not a date"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDate(tc.input), "input %q", tc.input)
	}
}

func TestFormatShortDate(t *testing.T) {
	assert.Equal(t, "Jun 2023", FormatShortDate("2023-06-15"))
	assert.Equal(t, "Jan 2024", FormatShortDate("2024-01"))
	assert.Equal(t, "garbage", FormatShortDate("garbage"))
	assert.Equal(t, "", FormatShortDate(""))
}

func TestFormatAmount(t *testing.T) {
	billion := 1_200_000_000.0
	million := 45_000_000.0
	thousand := 900_000.0
	small := 250.0

	assert.Equal(t, "N/A", FormatAmount(nil))
	assert.Equal(t, "$1.2B", FormatAmount(&billion))
	assert.Equal(t, "$45.0M", FormatAmount(&million))
	assert.Equal(t, "$900.0K", FormatAmount(&thousand))
	assert.Equal(t, "$250", FormatAmount(&small))
}

func TestFormatFundingStage(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"series_a", "Series A"},
		{"post_ipo_equity", "Post IPO Equity"},
		{"ai_round", "AI Round"},
		{"corporate_round", "Corporate Round"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatFundingStage(tc.input), "input %q", tc.input)
	}
}

func TestIsValidTicker(t *testing.T) {
	valid := []string{"AAPL", "MSFT", " NVDA "}
	for _, tk := range valid {
		assert.True(t, IsValidTicker(tk), "ticker %q", tk)
	}

	invalid := []string{"", "-", "N/A", "N/A (Private)", "N/A - Private", "Not Listed", "private"}
	for _, tk := range invalid {
		assert.False(t, IsValidTicker(tk), "ticker %q", tk)
	}
}

func TestTitleCaseLocation(t *testing.T) {
	assert.Equal(t, "United States", TitleCaseLocation("  united   states "))
	assert.Equal(t, "India", TitleCaseLocation("INDIA"))
	assert.Equal(t, Placeholder, TitleCaseLocation(Placeholder))
	assert.Equal(t, "", TitleCaseLocation(""))
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "acme.com", ExtractDomain("https://www.acme.com/about"))
	assert.Equal(t, "acme.io", ExtractDomain("acme.io"))
	assert.Equal(t, "", ExtractDomain(""))
}

func TestEnsureHTTPS(t *testing.T) {
	assert.Equal(t, "#", EnsureHTTPS(""))
	assert.Equal(t, "http://acme.com", EnsureHTTPS("http://acme.com"))
	assert.Equal(t, "https://acme.com", EnsureHTTPS("acme.com"))
}

func TestSearchURLBuilders(t *testing.T) {
	assert.Equal(t,
		"https://www.youtube.com/results?search_query=Acme+demo+AcmeTV",
		YoutubeSearchURL("Acme demo", "AcmeTV"))
	assert.Equal(t,
		"https://www.reddit.com/r/startups/search/?q=Acme+raised&restrict_sr=1",
		RedditSearchURL("r/startups", "Acme raised"))
}

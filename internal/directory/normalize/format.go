package normalize

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var monthPeriod = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// dateLayouts are the formats observed in imported data, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
}

// periodLayouts additionally accepts month-granularity keys.
var periodLayouts = append([]string{"2006-01", "2006-1", "Jan 2006", "January 2006"}, dateLayouts...)

// FormatDate renders a stored date string for display: "2023-01" becomes
// "January 2023", full dates become "January 2, 2006". Unrecognized input
// is returned unchanged; empty input stays empty.
func FormatDate(raw string) string {
	if raw == "" {
		return ""
	}
	if m := monthPeriod.FindStringSubmatch(raw); m != nil {
		if t, err := time.Parse("2006-01", raw); err == nil {
			return t.Format("January 2006")
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return raw
}

// FormatShortDate renders a stored date as "Jan 2006", falling back to the
// raw string when it does not parse.
func FormatShortDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return raw
}

// parsePeriod parses a headcount period key into a date for sorting.
func parsePeriod(raw string) (time.Time, bool) {
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatAmount renders a funding figure as a compact currency string:
// $1.2B, $45.0M, $900.0K, or $<n> below a thousand.
func FormatAmount(n *float64) string {
	if n == nil {
		return "N/A"
	}
	v := *n
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("$%.1fB", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.1fK", v/1_000)
	default:
		return fmt.Sprintf("$%g", v)
	}
}

// FormatFundingStage converts snake_case stage codes like "post_ipo_equity"
// into title case, special-casing the IPO and AI acronyms.
func FormatFundingStage(raw string) string {
	if raw == "" {
		return ""
	}
	words := strings.Split(strings.ReplaceAll(raw, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
		switch words[i] {
		case "Ipo":
			words[i] = "IPO"
		case "Ai":
			words[i] = "AI"
		}
	}
	return strings.Join(words, " ")
}

var (
	notApplicable = regexp.MustCompile(`(?i)^n/a`)
	privateNote   = regexp.MustCompile(`(?i)private`)
	notListed     = regexp.MustCompile(`(?i)not listed`)
)

// IsValidTicker reports whether a ticker string names a real listing.
// Empty, dash, and "N/A"/"Private"/"Not Listed" style values do not.
func IsValidTicker(ticker string) bool {
	t := strings.TrimSpace(ticker)
	if t == "" || t == "-" || t == "N/A" {
		return false
	}
	if notApplicable.MatchString(t) || privateNote.MatchString(t) || notListed.MatchString(t) {
		return false
	}
	return true
}

var multiSpace = regexp.MustCompile(`\s+`)

// TitleCaseLocation tidies a location label: whitespace collapsed, each
// word title-cased. The placeholder dash passes through.
func TitleCaseLocation(label string) string {
	raw := strings.TrimSpace(label)
	if raw == "" || raw == Placeholder {
		return raw
	}
	words := strings.Split(multiSpace.ReplaceAllString(raw, " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// ExtractDomain pulls the bare hostname out of a URL-ish string for
// display, tolerating missing schemes. Unparseable input passes through.
func ExtractDomain(raw string) string {
	if raw == "" {
		return ""
	}
	candidate := raw
	if !strings.HasPrefix(candidate, "http") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// EnsureHTTPS makes a stored URL clickable, defaulting bare hosts to https
// and empty values to an inert anchor.
func EnsureHTTPS(raw string) string {
	if raw == "" {
		return "#"
	}
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	return "https://" + raw
}

// YoutubeSearchURL builds a search link for a mentioned video, optionally
// scoped by channel name.
func YoutubeSearchURL(title, channel string) string {
	q := title
	if channel != "" {
		q = title + " " + channel
	}
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(q)
}

// RedditSearchURL builds a subreddit search link for a mentioned post.
func RedditSearchURL(subreddit, title string) string {
	sub := strings.TrimPrefix(subreddit, "r/")
	return fmt.Sprintf("https://www.reddit.com/r/%s/search/?q=%s&restrict_sr=1",
		sub, url.QueryEscape(title))
}

// Package normalize coerces the loosely-typed JSON stored on company
// records into canonical display shapes. Every function here is total:
// missing, malformed, or unexpectedly-shaped input yields an empty result,
// never an error.
package normalize

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Stat is a labeled numeric statistic.
type Stat struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CountryCount is a headcount figure for one country.
type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// MonthCount is a headcount figure for one period. Month holds the
// human-formatted label; SortKey the raw period string it derives from.
type MonthCount struct {
	Month   string `json:"month"`
	Count   int    `json:"count"`
	SortKey string `json:"-"`
}

// FundingRound is one normalized funding round. Missing fields hold the
// literal placeholder dash.
type FundingRound struct {
	Round     string `json:"round"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Investors string `json:"investors"`
}

// Placeholder rendered for absent funding-round fields.
const Placeholder = "—"

// Decode unmarshals a raw JSON column into a dynamic value. A nil, empty,
// or unparseable column decodes to nil.
func Decode(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// ToList returns the value as a list. Lists pass through, JSON-encoded
// strings are parsed (non-list results discarded), anything else is empty.
func ToList(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return t
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(t), &parsed); err != nil {
			return []any{}
		}
		if list, ok := parsed.([]any); ok {
			return list
		}
		return []any{}
	default:
		return []any{}
	}
}

// ToArray is ToList with the extra rule that a single object (decoded or
// JSON-encoded) becomes a one-element list.
func ToArray(v any) []any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case []any:
		return t
	case map[string]any:
		return []any{t}
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(t), &parsed); err != nil {
			return []any{}
		}
		switch p := parsed.(type) {
		case []any:
			return p
		case map[string]any:
			return []any{p}
		}
		return []any{}
	default:
		return []any{}
	}
}

// ToRecord returns the value as a flat map, accepting a decoded object or
// a JSON-encoded object string. Anything else is empty.
func ToRecord(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		return t
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(t), &parsed); err != nil {
			return map[string]any{}
		}
		if rec, ok := parsed.(map[string]any); ok {
			return rec
		}
		return map[string]any{}
	default:
		return map[string]any{}
	}
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ToNumber coerces a numeric value or a numeric-ish string (commas,
// currency symbols and units stripped) into a float. The second return is
// false when no number can be extracted.
func ToNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		cleaned := nonNumeric.ReplaceAllString(t, "")
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

var firstIntPattern = regexp.MustCompile(`-?\d+`)

// FirstInt extracts the first embedded integer from a value, so that a
// score like "83/100" reads as 83 rather than 83100.
func FirstInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case string:
		m := firstIntPattern.FindString(t)
		if m == "" {
			return 0, false
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// stringField returns the first present key from the row, stringified.
func stringField(row map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok && v != nil {
			return stringify(v), true
		}
	}
	return "", false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func numberField(row map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			if n, ok := ToNumber(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// HeadcountByCountry normalizes a headcount-by-country attribute, which may
// arrive as a list of row objects with various key spellings or as a flat
// country-to-count map. Rows without a positive count are dropped.
func HeadcountByCountry(v any) []CountryCount {
	if list, ok := v.([]any); ok {
		out := make([]CountryCount, 0, len(list))
		for _, rowAny := range list {
			row, ok := rowAny.(map[string]any)
			if !ok {
				continue
			}
			country, ok := stringField(row, "country", "name", "Country", "location")
			if !ok {
				country = "Unknown"
			}
			count, _ := numberField(row, "count", "headcount", "value", "employees")
			if count > 0 {
				out = append(out, CountryCount{Country: country, Count: int(count)})
			}
		}
		return out
	}

	rec := ToRecord(v)
	out := make([]CountryCount, 0, len(rec))
	for country, raw := range rec {
		if n, ok := ToNumber(raw); ok && n > 0 {
			out = append(out, CountryCount{Country: country, Count: int(n)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out
}

// TopCountries sorts descending by count, caps at max entries, and pads
// with empty placeholder rows to exactly max for stable chart layout.
// Country labels are title-cased for display.
func TopCountries(rows []CountryCount, max int) []CountryCount {
	sorted := make([]CountryCount, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Count > sorted[j].Count })
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	for i := range sorted {
		sorted[i].Country = TitleCaseLocation(sorted[i].Country)
	}
	for len(sorted) < max {
		sorted = append(sorted, CountryCount{})
	}
	return sorted
}

// HeadcountByMonth normalizes a headcount-by-month attribute (list of row
// objects or period-to-count map) into entries sorted by period. Period keys
// that parse as dates are ordered chronologically; unparseable keys fall
// back to lexicographic order.
func HeadcountByMonth(v any) []MonthCount {
	var out []MonthCount
	if list, ok := v.([]any); ok {
		for _, rowAny := range list {
			row, ok := rowAny.(map[string]any)
			if !ok {
				continue
			}
			raw, _ := stringField(row, "month", "date", "period", "Month")
			count, _ := numberField(row, "count", "headcount", "value", "employees")
			if raw == "" || count <= 0 {
				continue
			}
			out = append(out, monthEntry(raw, int(count)))
		}
	} else {
		for raw, countRaw := range ToRecord(v) {
			n, ok := ToNumber(countRaw)
			if !ok || n <= 0 {
				continue
			}
			out = append(out, monthEntry(raw, int(n)))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ti, okI := parsePeriod(out[i].SortKey)
		tj, okJ := parsePeriod(out[j].SortKey)
		if okI && okJ {
			return ti.Before(tj)
		}
		return out[i].SortKey < out[j].SortKey
	})
	return out
}

func monthEntry(raw string, count int) MonthCount {
	label := FormatDate(raw)
	if label == "" {
		label = raw
	}
	return MonthCount{Month: label, Count: count, SortKey: raw}
}

// FundingRounds normalizes a funding-rounds attribute, tolerating the
// historical field-name variants for each column. Investors may be a list
// or a plain string.
func FundingRounds(v any) []FundingRound {
	list := ToArray(v)
	out := make([]FundingRound, 0, len(list))
	for _, rowAny := range list {
		row, ok := rowAny.(map[string]any)
		if !ok {
			continue
		}
		round, ok := stringField(row, "round", "Round Type", "round_type", "type", "stage")
		if !ok || round == "" {
			round = Placeholder
		}
		amount, ok := stringField(row, "amount", "Amount")
		if !ok || amount == "" {
			amount = Placeholder
		}
		date, ok := stringField(row, "date", "Date", "announced")
		if !ok || date == "" {
			date = Placeholder
		}
		out = append(out, FundingRound{
			Round:     round,
			Amount:    amount,
			Date:      date,
			Investors: investorList(row),
		})
	}
	return out
}

func investorList(row map[string]any) string {
	var inv any
	if v, ok := row["investors"]; ok {
		inv = v
	} else if v, ok := row["Investors"]; ok {
		inv = v
	}
	switch t := inv.(type) {
	case nil:
		return Placeholder
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, stringify(p))
		}
		return strings.Join(parts, ", ")
	default:
		s := stringify(t)
		if s == "" {
			return Placeholder
		}
		return s
	}
}

// StringList coerces a list-shaped attribute into a string slice, skipping
// non-string entries' JSON noise by stringifying them.
func StringList(v any) []string {
	list := ToList(v)
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := strings.TrimSpace(stringify(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var citationNoise = regexp.MustCompile(`(\[web:\d+\])+`)

// CleanCompetitorName strips citation noise like [web:1][web:16] appended
// by the scraping pipeline.
func CleanCompetitorName(name string) string {
	return strings.TrimSpace(citationNoise.ReplaceAllString(name, ""))
}

package normalize

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// Leader is the normalized leadership section for a company profile.
type Leader struct {
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Stats    []Stat `json:"stats"`
}

var (
	// Repairs the one observed corruption shape: a colon embedded inside
	// a quoted key, e.g. `"CEO Rating:" "83/100"`.
	brokenKeyColon = regexp.MustCompile(`"([^"]+):"\s*"`)
	trailingComma  = regexp.MustCompile(`,\s*([}\]])`)

	scoreKey   = regexp.MustCompile(`(?i)score|rating|manager`)
	linkKey    = regexp.MustCompile(`(?i)linkedin|url|http`)
	scoreNoise = regexp.MustCompile(`(?i)\s*(Score|Rating)$`)
)

// scoreLabels maps known score keys onto their short display labels.
var scoreLabels = map[string]string{
	"CEO Rating":           "CEO Rating",
	"Leadership Score":     "Leadership",
	"Manager Score":        "Manager",
	"Manager":              "Manager",
	"Executive Team Score": "Exec Team",
}

// CleanLeadershipJSON repairs the known corruption patterns in a stored
// leadership blob before parsing: colons welded into key strings and
// trailing commas before closing brackets. Other malformations are left
// alone and will simply fail to parse.
func CleanLeadershipJSON(raw string) string {
	cleaned := brokenKeyColon.ReplaceAllString(raw, `"$1": "`)
	return trailingComma.ReplaceAllString(cleaned, "$1")
}

// Leadership parses a leadership attribute (object, list, or JSON-encoded
// string, possibly corrupted) into a Leader. The first object found is the
// leader; keys matching score/rating/manager (but not link-shaped keys)
// become numeric stats, taking the first embedded integer clamped to
// [0,100]. Unparseable input yields nil, never an error.
func Leadership(v any) *Leader {
	if v == nil {
		return nil
	}

	var list []any
	if s, ok := v.(string); ok {
		var parsed any
		if err := json.Unmarshal([]byte(CleanLeadershipJSON(s)), &parsed); err != nil {
			return nil
		}
		if l, ok := parsed.([]any); ok {
			list = l
		} else {
			list = []any{parsed}
		}
	} else {
		list = ToArray(v)
	}

	if len(list) == 0 {
		return nil
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return nil
	}

	leader := &Leader{Stats: []Stat{}}
	if name, ok := stringField(first, "name", "Name"); ok {
		leader.Name = strings.TrimSpace(name)
	}
	if title, ok := stringField(first, "title", "Title"); ok {
		leader.Title = strings.TrimSpace(title)
	}
	if link, ok := stringField(first, "CEO LinkedIn", "linkedin", "LinkedIn", "LinkedIn Profile"); ok {
		leader.LinkedIn = strings.TrimSpace(link)
	}

	for k, raw := range first {
		if !scoreKey.MatchString(k) || linkKey.MatchString(k) {
			continue
		}
		n, ok := FirstInt(raw)
		if !ok || n <= 0 {
			continue
		}
		if n > 100 {
			n = 100
		}
		label, ok := scoreLabels[k]
		if !ok {
			label = strings.TrimSpace(scoreNoise.ReplaceAllString(k, ""))
		}
		leader.Stats = append(leader.Stats, Stat{Label: label, Value: float64(n)})
	}
	// Map iteration order is random; keep stat output stable.
	sort.Slice(leader.Stats, func(i, j int) bool {
		return leader.Stats[i].Label < leader.Stats[j].Label
	})
	return leader
}

package result

import "encoding/json"

// Hit is a single raw search engine hit.
type Hit struct {
	ID        string              `json:"id"`
	Score     float64             `json:"score"`
	Source    map[string]any      `json:"source"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

// Page is one engine response: the hit window, the total and raw aggregations.
type Page struct {
	Total        int64                      `json:"total"`
	Hits         []Hit                      `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations,omitempty"`
}

// Record is a projected hit as returned to clients.
type Record map[string]any

// FacetValue is one option of a facet. Synthetic entries carry no count.
type FacetValue struct {
	ID    any    `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count,omitempty"`
}

// Response is the combined search and aggregation result.
type Response struct {
	Count       int64                   `json:"count"`
	Data        []Record                `json:"data"`
	Aggregation map[string][]FacetValue `json:"aggregation"`
}

// HasFacetValue reports whether values contains an entry with the given id key.
func HasFacetValue(values []FacetValue, key string, keyOf func(any) string) bool {
	for _, v := range values {
		if keyOf(v.ID) == key {
			return true
		}
	}
	return false
}

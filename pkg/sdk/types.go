package bibdex

// SearchParams is one search request. Zero values select the server defaults
// (limit 25, page 1, default ordering).
type SearchParams struct {
	Limit     int            `json:"limit,omitempty"`
	Page      int            `json:"page,omitempty"`
	OrderBy   []string       `json:"orderBy,omitempty"`
	Ascending bool           `json:"ascending"`
	Filters   map[string]any `json:"filters,omitempty"`
}

// FacetValue is one selectable option of a facet. The id -1 stands for
// records without a value.
type FacetValue struct {
	ID    any    `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count,omitempty"`
}

// SearchResponse is a page of records plus the facet values for the selection.
type SearchResponse struct {
	Count       int64                   `json:"count"`
	Data        []map[string]any        `json:"data"`
	Aggregation map[string][]FacetValue `json:"aggregation"`
}

// Definition is an identifier system or a person role.
type Definition struct {
	SystemName  string `json:"system_name"`
	DisplayName string `json:"display_name"`
}

// Metadata lists the identifier systems and roles of an entity.
type Metadata struct {
	Identifiers []Definition `json:"identifiers"`
	Roles       []Definition `json:"roles"`
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component -> "ok"/"error"
}

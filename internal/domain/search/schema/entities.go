package schema

import "github.com/bibdex/bibdex/internal/domain/search/filter"

var commentText = TextField{
	Options: map[string][]string{"": {"public_comment", "private_comment"}},
	Public:  []string{"public_comment"},
}

var publicCommentText = TextField{
	Options: map[string][]string{"": {"public_comment"}},
}

func single(field string) TextField {
	return TextField{Options: map[string][]string{"": {field}}}
}

func stemmed(text, title string) TextField {
	return TextField{
		Options: map[string][]string{
			"text":  {text},
			"title": {title},
			"all":   {text, title},
		},
		Default: "text",
		Stemmed: true,
	}
}

func variants(logical ...string) map[string][]string {
	out := make(map[string][]string, len(logical))
	for _, l := range logical {
		out[l] = []string{Physical(l, StemStemmer), Physical(l, StemOriginal)}
	}
	return out
}

var defaultRedaction = []string{
	"private_comment", "management", "acknowledgement", "public", "created", "modified",
}

// internal facets shared by every entity
var editorialFacets = []FacetRule{
	{Name: "public", Kind: filter.KindBoolean, Internal: true},
	{Name: "management", Kind: filter.KindNested, Internal: true},
	{Name: "acknowledgement", Kind: filter.KindNestedMulti, Internal: true},
}

var editorialKeys = []string{"public", "management", "acknowledgement"}

func manuscripts() *Schema {
	return &Schema{
		Numeric:     []string{"id"},
		Object:      []string{"city", "library", "collection"},
		ExactText:   []string{"shelf"},
		NestedMulti: []string{"content", "origin", "acknowledgement"},
		Booleans:    []string{"public"},
		Dates: map[string]DateFields{
			"date": {Floor: "date_floor_year", Ceiling: "date_ceiling_year"},
		},
		Texts: map[string]TextField{
			"comment":        commentText,
			"public_comment": publicCommentText,
		},
		Toggles:      []string{"management"},
		InternalOnly: editorialKeys,
		Facets: append([]FacetRule{
			{Name: "city", Kind: filter.KindObject},
			{Name: "library", Kind: filter.KindObject, DependsOn: "city"},
			{Name: "collection", Kind: filter.KindObject, DependsOn: "library"},
			{Name: "content", Kind: filter.KindNestedMulti},
			{Name: "origin", Kind: filter.KindNestedMulti},
			{Name: "person", Kind: filter.KindMultiFieldObjectMulti},
		}, editorialFacets...),
		NoValue:     map[string]string{"collection": "No collection"},
		Redaction:   defaultRedaction,
		Sort:        map[string]string{"id": "id", "name": "name.keyword", "date": "date_floor_year"},
		DefaultSort: "name",
	}
}

func persons() *Schema {
	return &Schema{
		Numeric:     []string{"id"},
		NestedMulti: []string{"role", "office", "self_designation", "origin", "acknowledgement"},
		Booleans:    []string{"historical", "modern", "dbbe", "public"},
		Dates: map[string]DateFields{
			"date": {Floor: "born_date_floor_year", Ceiling: "death_date_ceiling_year"},
		},
		Texts: map[string]TextField{
			"name":           single("name"),
			"comment":        commentText,
			"public_comment": publicCommentText,
		},
		Toggles:      []string{"management"},
		InternalOnly: editorialKeys,
		Facets: append([]FacetRule{
			{Name: "role", Kind: filter.KindNestedMulti},
			{Name: "office", Kind: filter.KindNestedMulti},
			{Name: "self_designation", Kind: filter.KindNestedMulti},
			{Name: "origin", Kind: filter.KindNestedMulti},
			{Name: "historical", Kind: filter.KindBoolean},
			{Name: "modern", Kind: filter.KindBoolean},
			{Name: "dbbe", Kind: filter.KindBoolean},
		}, editorialFacets...),
		Redaction:   defaultRedaction,
		Sort:        map[string]string{"id": "id", "name": "name.keyword", "date": "born_date_floor_year"},
		DefaultSort: "name",
	}
}

func occurrences() *Schema {
	return &Schema{
		Numeric:     []string{"id"},
		Object:      []string{"manuscript", "text_status", "record_status"},
		NestedMulti: []string{"metre", "genre", "subject", "manuscript_content", "acknowledgement"},
		Booleans:    []string{"dbbe", "public"},
		Dates: map[string]DateFields{
			"date": {
				Floor: "date_floor_year", Ceiling: "date_ceiling_year",
				ExactFloor: "completion_floor", ExactCeiling: "completion_ceiling",
			},
		},
		Texts: map[string]TextField{
			"text":           stemmed("text", "title"),
			"comment":        commentText,
			"public_comment": publicCommentText,
		},
		Toggles:      []string{"management"},
		InternalOnly: append([]string{"record_status"}, editorialKeys...),
		Facets: append([]FacetRule{
			{Name: "manuscript", Kind: filter.KindObject},
			{Name: "text_status", Kind: filter.KindObject},
			{Name: "record_status", Kind: filter.KindObject, Internal: true},
			{Name: "metre", Kind: filter.KindNestedMulti},
			{Name: "genre", Kind: filter.KindNestedMulti},
			{Name: "subject", Kind: filter.KindNestedMulti},
			{Name: "manuscript_content", Kind: filter.KindNestedMulti},
			{Name: "person", Kind: filter.KindMultiFieldObjectMulti},
			{Name: "dbbe", Kind: filter.KindBoolean},
		}, editorialFacets...),
		NoValue:     map[string]string{"genre": "No genre"},
		Redaction:   append([]string{"record_status"}, defaultRedaction...),
		Variants:    variants("text", "title"),
		Highlight:   map[string]HighlightHook{"text": HookVerses},
		Sort:        map[string]string{"id": "id", "incipit": "incipit.keyword", "manuscript": "manuscript.name.keyword", "date": "date_floor_year"},
		DefaultSort: "incipit",
	}
}

func types() *Schema {
	return &Schema{
		Numeric: []string{"id"},
		Object:  []string{"text_status", "critical_status"},
		NestedMulti: []string{
			"metre", "genre", "subject", "tag", "translation_language", "acknowledgement",
		},
		Booleans: []string{"translated", "dbbe", "public"},
		Dates: map[string]DateFields{
			"date": {
				Floor: "date_floor_year", Ceiling: "date_ceiling_year",
				ExactFloor: "completion_floor", ExactCeiling: "completion_ceiling",
			},
		},
		Texts: map[string]TextField{
			"text":           stemmed("text", "title_GR"),
			"lemma":          single("lemma"),
			"comment":        commentText,
			"public_comment": publicCommentText,
		},
		Toggles:      []string{"management"},
		InternalOnly: append([]string{"critical_status"}, editorialKeys...),
		Facets: append([]FacetRule{
			{Name: "text_status", Kind: filter.KindObject},
			{Name: "critical_status", Kind: filter.KindObject, Internal: true},
			{Name: "metre", Kind: filter.KindNestedMulti},
			{Name: "genre", Kind: filter.KindNestedMulti},
			{Name: "subject", Kind: filter.KindNestedMulti},
			{Name: "tag", Kind: filter.KindNestedMulti},
			{Name: "translation_language", Kind: filter.KindNestedMulti},
			{Name: "person", Kind: filter.KindMultiFieldObjectMulti},
			{Name: "translated", Kind: filter.KindBoolean},
			{Name: "dbbe", Kind: filter.KindBoolean},
		}, editorialFacets...),
		NoValue:     map[string]string{"genre": "No genre"},
		Redaction:   append([]string{"critical_status"}, defaultRedaction...),
		Variants:    variants("text", "title_GR"),
		Highlight:   map[string]HighlightHook{"text": HookVerses, "lemma": HookLemmas},
		Sort:        map[string]string{"id": "id", "incipit": "incipit.keyword", "date": "date_floor_year"},
		DefaultSort: "incipit",
	}
}

func bibliographies() *Schema {
	return &Schema{
		Numeric:     []string{"id"},
		Object:      []string{"type"},
		NestedMulti: []string{"acknowledgement"},
		Booleans:    []string{"public"},
		Texts: map[string]TextField{
			"title":          single("title"),
			"comment":        commentText,
			"public_comment": publicCommentText,
		},
		Toggles:      []string{"management"},
		InternalOnly: editorialKeys,
		Facets: append([]FacetRule{
			{Name: "type", Kind: filter.KindObject},
			{Name: "person", Kind: filter.KindMultiFieldObjectMulti},
		}, editorialFacets...),
		Redaction:   defaultRedaction,
		Sort:        map[string]string{"id": "id", "title": "title.keyword", "type": "type.name.keyword"},
		DefaultSort: "title",
	}
}

package db

import (
	"strings"
	"testing"
)

func mustBuild(t *testing.T, b *IndexBuilder) *IndexDefinition {
	t.Helper()
	def, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return def
}

func relationField(name string, fieldType FieldType) IndexField {
	return IndexField{Name: name, Type: fieldType, Properties: []IndexField{
		{Name: "id", Type: FieldInteger},
		{Name: "name", Type: FieldText, Keyword: true, KeywordNormalizer: "custom_greek", RawKeyword: true},
	}}
}

func TestIndexBuilder_Simple(t *testing.T) {
	idx := mustBuild(t, NewIndex("bibdex_manuscripts").
		Integer("id").
		Field(IndexField{Name: "public", Type: FieldBoolean}).
		Field(IndexField{Name: "shelf", Type: FieldKeyword, Normalizer: "text_digits"}))

	if len(idx.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(idx.Fields))
	}
	if idx.Fields[2].Type != FieldKeyword || idx.Fields[2].Normalizer != "text_digits" {
		t.Errorf("field[2] = %+v, want keyword with text_digits", idx.Fields[2])
	}
	shelf := idx.Body()["mappings"].(map[string]any)["properties"].(map[string]any)["shelf"].(map[string]any)
	if shelf["normalizer"] != "text_digits" {
		t.Errorf("shelf mapping = %v", shelf)
	}
}

func TestIndexBuilder_Body(t *testing.T) {
	idx := mustBuild(t, NewIndex("bibdex_types").
		Settings(map[string]any{"analysis": map[string]any{}}).
		TextWithKeyword("incipit", "custom_greek_original", "custom_greek").
		Field(relationField("genre", FieldNested)))

	body := idx.Body()
	if _, ok := body["settings"]; !ok {
		t.Error("missing settings")
	}
	props := body["mappings"].(map[string]any)["properties"].(map[string]any)

	incipit := props["incipit"].(map[string]any)
	if incipit["analyzer"] != "custom_greek_original" {
		t.Errorf("analyzer = %v", incipit["analyzer"])
	}
	incipitSub := incipit["fields"].(map[string]any)
	if incipitSub["keyword"].(map[string]any)["normalizer"] != "custom_greek" {
		t.Errorf("keyword subfield = %v", incipitSub["keyword"])
	}
	if _, ok := incipitSub[RawSubfield]; ok {
		t.Error("raw subfield only appears when requested")
	}

	genre := props["genre"].(map[string]any)
	if genre["type"] != "nested" {
		t.Errorf("genre type = %v, want nested", genre["type"])
	}
	name := genre["properties"].(map[string]any)["name"].(map[string]any)
	sub := name["fields"].(map[string]any)
	if sub[KeywordSubfield].(map[string]any)["normalizer"] != "custom_greek" {
		t.Errorf("genre.name.keyword = %v", sub[KeywordSubfield])
	}
	raw := sub[RawSubfield].(map[string]any)
	if raw["type"] != "keyword" {
		t.Errorf("genre.name.raw type = %v", raw["type"])
	}
	if _, ok := raw["normalizer"]; ok {
		t.Errorf("genre.name.raw must not be normalized: %v", raw)
	}
}

func TestIndexBuilder_NoSettings(t *testing.T) {
	body := mustBuild(t, NewIndex("idx").Integer("id")).Body()
	if _, ok := body["settings"]; ok {
		t.Error("settings should be omitted when empty")
	}
}

func TestIndexBuilder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		builder func() (*IndexDefinition, error)
		wantErr string
	}{
		{
			name: "empty name",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("").Integer("id").Build()
			},
			wantErr: "index name is required",
		},
		{
			name: "no fields",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Build()
			},
			wantErr: "at least one field",
		},
		{
			name: "object without properties",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Field(IndexField{Name: "city", Type: FieldObject}).Build()
			},
			wantErr: "requires properties",
		},
		{
			name: "invalid characters",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("Idx With Spaces").Integer("id").Build()
			},
			wantErr: "invalid characters",
		},
		{
			name: "unsupported type",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Field(IndexField{Name: "v", Type: "dense_vector"}).Build()
			},
			wantErr: "unsupported field type",
		},
		{
			name: "nested duplicate",
			builder: func() (*IndexDefinition, error) {
				return NewIndex("idx").Field(IndexField{Name: "genre", Type: FieldNested, Properties: []IndexField{
					{Name: "id", Type: FieldInteger},
					{Name: "id", Type: FieldKeyword},
				}}).Build()
			},
			wantErr: "duplicate field name: genre.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got error %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"bibdex_manuscripts", true},
		{"dbbe-2", true},
		{"", false},
		{"_hidden", false},
		{"-dash", false},
		{"Upper", false},
		{"a:b", false},
	}
	for _, tc := range tests {
		if got := IsValidIdentifier(tc.in); got != tc.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestBulkItemResult_OK(t *testing.T) {
	if !(BulkItemResult{ID: "1", Status: 201}).OK() {
		t.Error("201 should be ok")
	}
	if (BulkItemResult{ID: "1", Status: 404}).OK() {
		t.Error("404 should not be ok")
	}
	if (BulkItemResult{ID: "1", Status: 200, Err: "boom"}).OK() {
		t.Error("error should not be ok")
	}
}

package filter

import "testing"

func TestIsNoValue(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{-1, true},
		{int64(-1), true},
		{float64(-1), true},
		{"-1", true},
		{"1", false},
		{7, false},
		{nil, false},
		{"abc", false},
		{true, false},
	}
	for _, tc := range tests {
		if got := IsNoValue(tc.v); got != tc.want {
			t.Errorf("IsNoValue(%#v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{float64(42), "42"},
		{float64(1.5), "1.5"},
		{"scribe", "scribe"},
		{7, "7"},
		{int64(-1), "-1"},
	}
	for _, tc := range tests {
		if got := Key(tc.v); got != tc.want {
			t.Errorf("Key(%#v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestIsMulti(t *testing.T) {
	if !IsMulti(NestedMulti{Name: "genre"}) {
		t.Error("nested_multi must be multi")
	}
	if !IsMulti(MultiFieldObjectMulti{Name: "person"}) {
		t.Error("multiple_fields_object_multi must be multi")
	}
	for _, s := range []Spec{
		Numeric{}, ExactText{}, Object{}, Nested{}, NestedToggle{},
		DateRange{}, Text{}, MultipleText{}, Boolean{},
	} {
		if IsMulti(s) {
			t.Errorf("%s must not be multi", s.Kind())
		}
	}
}

func TestSet_GetAndTexts(t *testing.T) {
	s := Set{
		Object{Name: "city", Value: 7},
		Text{Name: "text", Target: "text_original", Text: "a"},
		MultipleText{Name: "comment", Alternatives: []Text{
			{Name: "comment", Target: "public_comment"},
			{Name: "comment", Target: "private_comment"},
		}},
	}

	sp, ok := s.Get("city")
	if !ok || sp.Kind() != KindObject {
		t.Fatalf("expected city object spec, got %v", sp)
	}
	if s.Has("genre") {
		t.Error("unexpected genre spec")
	}

	texts := s.Texts()
	if len(texts) != 3 {
		t.Fatalf("expected 3 text specs, got %d", len(texts))
	}
	if texts[2].Target != "private_comment" {
		t.Errorf("unexpected target order: %v", texts)
	}
}

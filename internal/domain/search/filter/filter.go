// Package filter defines the classified search filters.
//
// Spec is a closed sum type: every variant lives in this package and the
// query builder and aggregation planner switch over all of them.
package filter

import (
	"fmt"
	"strconv"
)

// Kind tags a Spec variant.
type Kind string

// Filter kinds.
const (
	KindNumeric               Kind = "numeric"
	KindObject                Kind = "object"
	KindExactText             Kind = "exact_text"
	KindNested                Kind = "nested"
	KindNestedMulti           Kind = "nested_multi"
	KindNestedToggle          Kind = "nested_toggle"
	KindText                  Kind = "text"
	KindMultipleText          Kind = "multiple_text"
	KindDateRange             Kind = "date_range"
	KindMultiFieldObjectMulti Kind = "multiple_fields_object_multi"
	KindBoolean               Kind = "boolean"
)

// NoValue is the sentinel id meaning "relation absent".
const NoValue = -1

// Spec is one classified filter.
type Spec interface {
	Kind() Kind
	// Field is the logical filter name, which is also the facet name.
	Field() string
	isSpec()
}

// IsMulti reports whether a spec is excluded from the global aggregation pass.
func IsMulti(s Spec) bool {
	k := s.Kind()
	return k == KindNestedMulti || k == KindMultiFieldObjectMulti
}

// Numeric matches a numeric field by value.
type Numeric struct {
	Name  string
	Value any
}

// ExactText matches the keyword subfield of a text field.
type ExactText struct {
	Name  string
	Value any
}

// Object matches an object-valued field by id. NoValue requires the field to be absent.
type Object struct {
	Name  string
	Value any
}

// Nested matches a single-valued nested document by id. NoValue requires absence.
type Nested struct {
	Name  string
	Value any
}

// Op combines multiple selected values of a NestedMulti filter.
type Op string

// Operators.
const (
	OpOr  Op = "or"
	OpAnd Op = "and"
)

// NestedMulti matches a multi-valued nested field against one or more ids.
type NestedMulti struct {
	Name   string
	Op     Op
	Values []any
}

// NestedToggle requires membership (Included) or non-membership of a nested id.
type NestedToggle struct {
	Name     string
	Value    any
	Included bool
}

// DateType is the interval relation of a DateRange filter.
type DateType string

// Date interval relations. Anything else is treated as overlap.
const (
	DateExact    DateType = "exact"
	DateIncluded DateType = "included"
	DateInclude  DateType = "include"
	DateOverlap  DateType = "overlap"
)

// DateRange compares a stored [floor, ceiling] interval with a search interval.
// Nil Start or End means the bound was not given.
type DateRange struct {
	Name         string
	FloorField   string
	CeilingField string
	Type         DateType
	Start        any
	End          any
}

// Combination is the match mode of a Text filter.
type Combination string

// Text combination modes.
const (
	CombinationAny    Combination = "any"
	CombinationAll    Combination = "all"
	CombinationPhrase Combination = "phrase"
)

// Text is a full-text query against one physical field.
type Text struct {
	Name        string
	Target      string
	Text        string
	Combination Combination
	// Init issues an exact phrase match, bypassing query-string construction.
	Init bool
}

// MultipleText is an OR of several Text queries.
type MultipleText struct {
	Name         string
	Alternatives []Text
}

// MultiFieldObjectMulti matches ids against any of several role fields.
type MultiFieldObjectMulti struct {
	Name            string
	CandidateFields []string
	DependentName   string
	Values          []any
}

// Boolean matches a boolean field.
type Boolean struct {
	Name  string
	Value bool
}

func (Numeric) Kind() Kind               { return KindNumeric }
func (ExactText) Kind() Kind             { return KindExactText }
func (Object) Kind() Kind                { return KindObject }
func (Nested) Kind() Kind                { return KindNested }
func (NestedMulti) Kind() Kind           { return KindNestedMulti }
func (NestedToggle) Kind() Kind          { return KindNestedToggle }
func (DateRange) Kind() Kind             { return KindDateRange }
func (Text) Kind() Kind                  { return KindText }
func (MultipleText) Kind() Kind          { return KindMultipleText }
func (MultiFieldObjectMulti) Kind() Kind { return KindMultiFieldObjectMulti }
func (Boolean) Kind() Kind               { return KindBoolean }

func (s Numeric) Field() string               { return s.Name }
func (s ExactText) Field() string             { return s.Name }
func (s Object) Field() string                { return s.Name }
func (s Nested) Field() string                { return s.Name }
func (s NestedMulti) Field() string           { return s.Name }
func (s NestedToggle) Field() string          { return s.Name }
func (s DateRange) Field() string             { return s.Name }
func (s Text) Field() string                  { return s.Name }
func (s MultipleText) Field() string          { return s.Name }
func (s MultiFieldObjectMulti) Field() string { return s.Name }
func (s Boolean) Field() string               { return s.Name }

func (Numeric) isSpec()               {}
func (ExactText) isSpec()             {}
func (Object) isSpec()                {}
func (Nested) isSpec()                {}
func (NestedMulti) isSpec()           {}
func (NestedToggle) isSpec()          {}
func (DateRange) isSpec()             {}
func (Text) isSpec()                  {}
func (MultipleText) isSpec()          {}
func (MultiFieldObjectMulti) isSpec() {}
func (Boolean) isSpec()               {}

// Set is an ordered list of classified filters.
type Set []Spec

// Get returns the spec with the given logical name.
func (s Set) Get(name string) (Spec, bool) {
	for _, sp := range s {
		if sp.Field() == name {
			return sp, true
		}
	}
	return nil, false
}

// Has reports whether a spec with the given logical name exists.
func (s Set) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Texts returns every Text spec, flattening MultipleText alternatives.
func (s Set) Texts() []Text {
	var out []Text
	for _, sp := range s {
		switch v := sp.(type) {
		case Text:
			out = append(out, v)
		case MultipleText:
			out = append(out, v.Alternatives...)
		}
	}
	return out
}

// IsNoValue reports whether v is the NoValue sentinel in any of its wire forms.
func IsNoValue(v any) bool {
	switch x := v.(type) {
	case int:
		return x == NoValue
	case int64:
		return x == NoValue
	case float64:
		return x == NoValue
	case string:
		n, err := strconv.Atoi(x)
		return err == nil && n == NoValue
	default:
		return false
	}
}

// Key renders an id in the canonical string form used for comparisons.
func Key(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

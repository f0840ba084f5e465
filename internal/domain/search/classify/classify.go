// Package classify turns raw request filters into typed filter specs and
// decides which facets a search computes.
//
// Unknown keys and malformed values are dropped, never reported.
package classify

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/bibdex/bibdex/internal/domain/search/filter"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

// Companion keys that modify another filter.
const (
	suffixAvailable   = "_available"
	suffixOp          = "_op"
	suffixInverse     = "_inverse"
	suffixFields      = "_fields"
	suffixStem        = "_stem"
	suffixCombination = "_combination"

	keyPerson       = "person"
	keyRole         = "role"
	keyDateType     = "date_search_type"
	keyExactlyDated = "exactly_dated"
)

// Filters classifies raw filters for one entity. Keys are processed in sorted
// order so the output is deterministic.
func Filters(raw map[string]any, s *schema.Schema, viewInternal bool) filter.Set {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out filter.Set
	for _, key := range keys {
		value := raw[key]
		if isEmpty(value) {
			continue
		}
		if !viewInternal && s.IsInternal(key) {
			continue
		}
		if sp, ok := classifyKey(key, value, raw, s, viewInternal); ok {
			out = append(out, sp)
		}
	}
	return out
}

func classifyKey(key string, value any, raw map[string]any, s *schema.Schema, viewInternal bool) (filter.Spec, bool) {
	if id, ok := strings.CutSuffix(key, suffixAvailable); ok && s.Metadata.HasIdentifier(id) {
		b, ok := truthValue(value)
		if !ok {
			return nil, false
		}
		return filter.Boolean{Name: key, Value: b}, true
	}
	if s.Metadata.HasIdentifier(key) {
		v, ok := scalar(value)
		if !ok {
			return nil, false
		}
		return filter.ExactText{Name: key, Value: v}, true
	}
	if key == keyPerson && s.HasRoles() {
		return personFilter(value, raw, s, viewInternal)
	}
	if slices.Contains(s.Toggles, key) {
		v, ok := scalar(value)
		if !ok {
			return nil, false
		}
		return filter.NestedToggle{Name: key, Value: v, Included: !truthy(raw[key+suffixInverse])}, true
	}
	if slices.Contains(s.NestedMulti, key) {
		values := idList(value)
		if len(values) == 0 {
			return nil, false
		}
		op := filter.OpOr
		if str, _ := raw[key+suffixOp].(string); strings.EqualFold(str, string(filter.OpAnd)) {
			op = filter.OpAnd
		}
		return filter.NestedMulti{Name: key, Op: op, Values: values}, true
	}
	if fields, ok := s.Dates[key]; ok {
		return dateFilter(key, value, raw, fields)
	}
	if tf, ok := s.Texts[key]; ok {
		return textFilter(key, value, raw, tf, viewInternal)
	}
	if slices.Contains(s.Booleans, key) {
		b, ok := truthValue(value)
		if !ok {
			return nil, false
		}
		return filter.Boolean{Name: key, Value: b}, true
	}

	v, ok := scalar(value)
	if !ok {
		return nil, false
	}
	switch {
	case slices.Contains(s.Object, key):
		return filter.Object{Name: key, Value: v}, true
	case slices.Contains(s.Nested, key):
		return filter.Nested{Name: key, Value: v}, true
	case slices.Contains(s.Numeric, key):
		return filter.Numeric{Name: key, Value: v}, true
	case slices.Contains(s.ExactText, key):
		return filter.ExactText{Name: key, Value: v}, true
	}
	return nil, false
}

func personFilter(value any, raw map[string]any, s *schema.Schema, viewInternal bool) (filter.Spec, bool) {
	values := idList(value)
	if len(values) == 0 {
		return nil, false
	}
	var restrict []string
	for _, r := range idList(raw[keyRole]) {
		restrict = append(restrict, strings.TrimSuffix(filter.Key(r), schema.PublicSuffix))
	}
	fields := s.RoleFields(viewInternal, restrict)
	if len(fields) == 0 {
		fields = s.RoleFields(viewInternal, nil)
	}
	return filter.MultiFieldObjectMulti{
		Name:            keyPerson,
		CandidateFields: fields,
		DependentName:   keyRole,
		Values:          values,
	}, true
}

type dateValue struct {
	From  any    `mapstructure:"from"`
	To    any    `mapstructure:"to"`
	Start any    `mapstructure:"start"`
	End   any    `mapstructure:"end"`
	Type  string `mapstructure:"type"`
}

func dateFilter(key string, value any, raw map[string]any, fields schema.DateFields) (filter.Spec, bool) {
	var dv dateValue
	if err := mapstructure.Decode(value, &dv); err != nil {
		return nil, false
	}
	start := firstSet(dv.From, dv.Start)
	end := firstSet(dv.To, dv.End)
	if start == nil && end == nil {
		return nil, false
	}

	typ := dv.Type
	if str, ok := raw[keyDateType].(string); ok && str != "" {
		typ = str
	}
	floor, ceiling := fields.Floor, fields.Ceiling
	if truthy(raw[keyExactlyDated]) && fields.ExactFloor != "" && fields.ExactCeiling != "" {
		floor, ceiling = fields.ExactFloor, fields.ExactCeiling
	}
	return filter.DateRange{
		Name:         key,
		FloorField:   floor,
		CeilingField: ceiling,
		Type:         filter.DateType(typ),
		Start:        start,
		End:          end,
	}, true
}

func textFilter(key string, value any, raw map[string]any, tf schema.TextField, viewInternal bool) (filter.Spec, bool) {
	text, ok := value.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return nil, false
	}
	option, _ := raw[key+suffixFields].(string)
	stem, _ := raw[key+suffixStem].(string)
	combination := filter.CombinationAny
	if c, _ := raw[key+suffixCombination].(string); c == string(filter.CombinationAll) || c == string(filter.CombinationPhrase) {
		combination = filter.Combination(c)
	}

	logical := tf.Fields(option, viewInternal)
	if len(logical) == 0 {
		return nil, false
	}
	alternatives := make([]filter.Text, 0, len(logical))
	for _, l := range logical {
		target := l
		if tf.Stemmed {
			target = schema.Physical(l, stem)
		}
		alternatives = append(alternatives, filter.Text{
			Name: key, Target: target, Text: text, Combination: combination,
		})
	}
	if len(alternatives) == 1 {
		return alternatives[0], true
	}
	return filter.MultipleText{Name: key, Alternatives: alternatives}, true
}

// idList decodes a scalar or list into a list of non-empty ids.
func idList(value any) []any {
	if isEmpty(value) {
		return nil
	}
	var list []any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &list,
	})
	if err != nil {
		return nil
	}
	if err := dec.Decode(value); err != nil {
		return nil
	}
	out := list[:0]
	for _, v := range list {
		if _, ok := scalar(v); ok {
			out = append(out, v)
		}
	}
	return out
}

func scalar(v any) (any, bool) {
	switch x := v.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, false
		}
		return x, true
	case bool, int, int32, int64, float32, float64:
		return x, true
	default:
		return nil, false
	}
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	default:
		return false
	}
}

func firstSet(values ...any) any {
	for _, v := range values {
		if !isEmpty(v) {
			return v
		}
	}
	return nil
}

// truthValue coerces the wire forms of a boolean flag.
func truthValue(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(x)
		return b, err == nil
	case int:
		return x != 0, x == 0 || x == 1
	case int64:
		return x != 0, x == 0 || x == 1
	case float64:
		return x != 0, x == 0 || x == 1
	default:
		return false, false
	}
}

func truthy(v any) bool {
	b, ok := truthValue(v)
	return ok && b
}

package chi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/search/request"
)

var validate = validator.New()

// SearchRequest is the wire form of a search, shared by GET and POST.
type SearchRequest struct {
	Limit     int            `json:"limit" mapstructure:"limit" validate:"gte=0"`
	Page      int            `json:"page" mapstructure:"page" validate:"gte=0"`
	OrderBy   []string       `json:"orderBy" mapstructure:"orderBy" validate:"max=8,dive,required"`
	Ascending any            `json:"ascending" mapstructure:"ascending"`
	Filters   map[string]any `json:"filters" mapstructure:"filters"`
}

// params validates the DTO and builds domain parameters, clamping limit to maxLimit.
func (r SearchRequest) params(defaultLimit, maxLimit int) (request.Params, error) {
	if err := validate.Struct(r); err != nil {
		return request.Params{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	asc, err := truthy(r.Ascending)
	if err != nil {
		return request.Params{}, fmt.Errorf("%w: ascending: %v", domain.ErrInvalidRequest, err)
	}

	limit := r.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	p, err := request.New(limit, r.Page, r.OrderBy, asc, r.Filters)
	if err != nil {
		return request.Params{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return p, nil
}

// decodeQuery turns a bracketed query string into a SearchRequest.
func decodeQuery(values url.Values) (SearchRequest, error) {
	var req SearchRequest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &req,
	})
	if err != nil {
		return req, err
	}
	if err := dec.Decode(parseBrackets(values)); err != nil {
		return req, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return req, nil
}

// parseBrackets expands keys like filters[date][from] and orderBy[] into nested
// maps and lists. Keys are applied in sorted order so repeated shapes resolve
// deterministically.
func parseBrackets(values url.Values) map[string]any {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	root := map[string]any{}
	for _, k := range keys {
		path, ok := splitKey(k)
		if !ok {
			continue
		}
		insert(root, path, values[k])
	}
	return root
}

func splitKey(key string) ([]string, bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return []string{key}, key != ""
	}
	if open == 0 {
		return nil, false
	}
	path := []string{key[:open]}
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, false
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	// "[]" is only allowed as the last segment.
	for _, seg := range path[:len(path)-1] {
		if seg == "" {
			return nil, false
		}
	}
	return path, true
}

func insert(node map[string]any, path []string, vals []string) {
	for i, seg := range path {
		last := i == len(path)-1
		if last {
			node[seg] = leaf(vals)
			return
		}
		if path[i+1] == "" {
			existing, _ := node[seg].([]any)
			for _, v := range vals {
				existing = append(existing, v)
			}
			node[seg] = existing
			return
		}
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[seg] = child
		}
		node = child
	}
}

func leaf(vals []string) any {
	if len(vals) == 1 {
		return vals[0]
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

// truthy accepts booleans, 0/1 and their string forms.
func truthy(v any) (bool, error) {
	switch t := v.(type) {
	case nil:
		return false, nil
	case bool:
		return t, nil
	case float64:
		return t != 0, nil
	case json.Number:
		f, err := t.Float64()
		return f != 0, err
	case int:
		return t != 0, nil
	case string:
		if t == "" {
			return false, nil
		}
		return strconv.ParseBool(t)
	default:
		return false, fmt.Errorf("unsupported value %v", v)
	}
}

// Package projection reshapes raw search hits into client records.
//
// A projected text field is a string when it was not searched and an array
// of highlight fragments when it was; the unhighlighted value then moves to
// original_<field>.
package projection

import (
	"sort"
	"strings"

	"github.com/bibdex/bibdex/internal/domain/search/result"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

// OriginalPrefix prefixes the key holding the unhighlighted value of a field.
const OriginalPrefix = "original_"

// Default highlight tags.
const (
	DefaultPreTag  = "<mark>"
	DefaultPostTag = "</mark>"
)

// Projector applies highlighting, variant renaming and redaction to hits.
type Projector struct {
	preTag  string
	postTag string
}

// New creates a projector for the given highlight tags. Empty tags use the defaults.
func New(preTag, postTag string) *Projector {
	if preTag == "" {
		preTag = DefaultPreTag
	}
	if postTag == "" {
		postTag = DefaultPostTag
	}
	return &Projector{preTag: preTag, postTag: postTag}
}

// PreTag returns the highlight opening tag.
func (p *Projector) PreTag() string { return p.preTag }

// PostTag returns the highlight closing tag.
func (p *Projector) PostTag() string { return p.postTag }

// Project converts hits into records for the given viewer.
func (p *Projector) Project(hits []result.Hit, s *schema.Schema, viewInternal bool) []result.Record {
	out := make([]result.Record, 0, len(hits))
	for _, h := range hits {
		rec := make(result.Record, len(h.Source)+len(h.Highlight))
		for k, v := range h.Source {
			rec[k] = v
		}
		p.highlight(rec, h.Highlight, s)
		renameVariants(rec, s.Variants)
		redact(rec, s, viewInternal)
		out = append(out, rec)
	}
	return out
}

func (p *Projector) highlight(rec result.Record, hl map[string][]string, s *schema.Schema) {
	fields := make([]string, 0, len(hl))
	for f := range hl {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		fragments := hl[field]
		if len(fragments) == 0 {
			continue
		}
		original, ok := rec[field]
		if !ok {
			continue
		}
		rec[OriginalPrefix+field] = original

		switch s.Highlight[logicalName(field, s.Variants)] {
		case schema.HookVerses:
			rec[field] = p.verses(fragments)
		case schema.HookLemmas:
			rec[field] = p.lemmas(original, fragments)
		default:
			rec[field] = fragments
		}
	}
}

// verses keeps the highlighted lines of a whole-field fragment.
func (p *Projector) verses(fragments []string) []string {
	var out []string
	for _, fragment := range fragments {
		for _, line := range strings.Split(fragment, "\n") {
			if strings.Contains(line, p.preTag) {
				out = append(out, strings.TrimSpace(line))
			}
		}
	}
	return out
}

// lemmas replaces lemma entries by their highlighted form, keeping positions.
func (p *Projector) lemmas(original any, fragments []string) []any {
	marked := make(map[string]string, len(fragments))
	for _, f := range fragments {
		marked[p.strip(f)] = f
	}

	var values []any
	switch v := original.(type) {
	case []any:
		values = v
	case []string:
		for _, s := range v {
			values = append(values, s)
		}
	default:
		values = []any{v}
	}

	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
		if str, ok := v.(string); ok {
			if f, ok := marked[str]; ok {
				out[i] = f
			}
		}
	}
	return out
}

func (p *Projector) strip(s string) string {
	return strings.NewReplacer(p.preTag, "", p.postTag, "").Replace(s)
}

func logicalName(physical string, variants map[string][]string) string {
	for logical, physicals := range variants {
		for _, ph := range physicals {
			if ph == physical {
				return logical
			}
		}
	}
	return physical
}

// renameVariants exposes physical text variants under their logical name,
// preferring a highlighted variant over an unhighlighted one.
func renameVariants(rec result.Record, variants map[string][]string) {
	for logical, physicals := range variants {
		chosen := ""
		for _, ph := range physicals {
			if _, ok := rec[OriginalPrefix+ph]; ok {
				chosen = ph
				break
			}
		}
		if chosen == "" {
			for _, ph := range physicals {
				if _, ok := rec[ph]; ok {
					chosen = ph
					break
				}
			}
		}
		if chosen == "" {
			continue
		}

		value := rec[chosen]
		original, highlighted := rec[OriginalPrefix+chosen]
		for _, ph := range physicals {
			delete(rec, ph)
			delete(rec, OriginalPrefix+ph)
		}
		rec[logical] = value
		if highlighted {
			rec[OriginalPrefix+logical] = original
		}
	}
}

func redact(rec result.Record, s *schema.Schema, viewInternal bool) {
	for _, r := range s.Metadata.Roles() {
		role := r.SystemName()
		public := role + schema.PublicSuffix
		if viewInternal {
			delete(rec, public)
			continue
		}
		delete(rec, role)
		if v, ok := rec[public]; ok {
			rec[role] = v
			delete(rec, public)
		}
	}
	if viewInternal {
		return
	}
	for _, f := range s.Redaction {
		delete(rec, f)
	}
}

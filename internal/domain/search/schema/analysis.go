package schema

import (
	"sort"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Analyzer and normalizer names referenced by index mappings.
const (
	AnalyzerOriginal        = "custom_greek_original"
	AnalyzerStemmer         = "custom_greek_stemmer"
	NormalizerGreek         = "custom_greek"
	NormalizerTextDigits    = "text_digits"
	NormalizerCaseInsensive = "case_insensitive"

	charFilterGreek = "greek_diacritics"
)

// Greek and Greek Extended blocks.
var greekRanges = [][2]rune{{0x0370, 0x03FF}, {0x1F00, 0x1FFF}}

// FoldDiacritics strips combining marks, so accents and breathings compare equal.
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// GreekMappings returns the char filter rules folding accented Greek letters
// onto their bare form, sorted for stable settings.
func GreekMappings() []string {
	var rules []string
	for _, r := range greekRanges {
		for c := r[0]; c <= r[1]; c++ {
			if !unicode.IsLetter(c) {
				continue
			}
			src := string(c)
			folded := FoldDiacritics(src)
			if folded == "" || folded == src {
				continue
			}
			rules = append(rules, src+" => "+folded)
		}
	}
	sort.Strings(rules)
	return rules
}

// AnalysisSettings returns the index settings shared by every entity index.
func AnalysisSettings() map[string]any {
	return map[string]any{
		"analysis": map[string]any{
			"char_filter": map[string]any{
				charFilterGreek: map[string]any{
					"type":     "mapping",
					"mappings": GreekMappings(),
				},
			},
			"filter": map[string]any{
				"greek_lowercase": map[string]any{"type": "lowercase", "language": "greek"},
				"greek_stemmer":   map[string]any{"type": "stemmer", "language": "greek"},
			},
			"analyzer": map[string]any{
				AnalyzerOriginal: map[string]any{
					"tokenizer":   "standard",
					"char_filter": []string{charFilterGreek},
					"filter":      []string{"greek_lowercase"},
				},
				AnalyzerStemmer: map[string]any{
					"tokenizer":   "standard",
					"char_filter": []string{charFilterGreek},
					"filter":      []string{"greek_lowercase", "greek_stemmer"},
				},
			},
			"normalizer": map[string]any{
				NormalizerGreek: map[string]any{
					"type":        "custom",
					"char_filter": []string{charFilterGreek},
					"filter":      []string{"lowercase"},
				},
				NormalizerTextDigits: map[string]any{
					"type":   "custom",
					"filter": []string{"lowercase", "asciifolding"},
				},
				NormalizerCaseInsensive: map[string]any{
					"type":   "custom",
					"filter": []string{"lowercase"},
				},
			},
		},
	}
}

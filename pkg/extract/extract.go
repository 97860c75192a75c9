// Package extract resolves registered financial concepts against a loaded
// fact table. Filings report the same concept at several periods and
// consolidation scopes; the ordered filters here are a deterministic
// best-effort tie-break, not a correctness guarantee.
package extract

import (
	"strings"

	"edinet-facts/pkg/facttable"
	"edinet-facts/pkg/mapping"
	"edinet-facts/pkg/taxonomy"
)

// Result is one resolved concept. Concepts that could not be resolved are
// absent from the result map, never present with a sentinel.
type Result struct {
	Concept     string  `json:"concept"`
	DisplayName string  `json:"display_name"`
	Value       float64 `json:"value"`
}

// Extractor resolves concepts using a registry of per-category
// definitions.
type Extractor struct {
	mapping *mapping.Mapping
}

// New returns an extractor backed by the given registry.
func New(m *mapping.Mapping) *Extractor {
	return &Extractor{mapping: m}
}

// candidate pairs a fact with its parsed numeric value.
type candidate struct {
	fact  facttable.Fact
	value float64
}

// Extract resolves every concept registered for the category. It never
// fails as a whole: a concept that cannot be resolved is simply missing
// from the returned map.
func (e *Extractor) Extract(t *facttable.Table, category taxonomy.Category) map[string]Result {
	results := make(map[string]Result)
	if t.Len() == 0 || !t.HasColumn(facttable.ColTagID) {
		return results
	}
	for name, concept := range e.mapping.ForCategory(category) {
		if value, ok := resolve(t, concept); ok {
			results[name] = Result{
				Concept:     name,
				DisplayName: concept.DisplayName,
				Value:       value,
			}
		}
	}
	return results
}

// resolve runs the disambiguation funnel for a single concept:
// exact tag match (falling back to fuzzy match), numeric coercion,
// context priority, scope priority, current-period preference, then
// first remaining fact in original table row order.
func resolve(t *facttable.Table, concept mapping.Concept) (float64, bool) {
	matched := exactMatches(t.Facts, concept.TagIDs)
	if len(matched) == 0 {
		matched = fuzzyMatches(t.Facts, concept.TagIDs)
	}
	if len(matched) == 0 {
		return 0, false
	}

	var candidates []candidate
	for _, f := range matched {
		if v, ok := f.Number(); ok {
			candidates = append(candidates, candidate{fact: f, value: v})
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	candidates = filterByPriority(candidates, concept.ContextPriority, func(c candidate) string {
		return c.fact.ContextID
	})

	if t.HasColumn(facttable.ColScope) && len(concept.ScopePriority) > 0 {
		candidates = filterByPriority(candidates, concept.ScopePriority, func(c candidate) string {
			return c.fact.Scope
		})
	}

	if t.HasColumn(facttable.ColRelativeYear) {
		var current []candidate
		for _, c := range candidates {
			if strings.Contains(c.fact.RelativeYear, facttable.CurrentPeriodMarker) {
				current = append(current, c)
			}
		}
		if len(current) > 0 {
			candidates = current
		}
	}

	return candidates[0].value, true
}

// exactMatches keeps facts whose tag equals one of the candidate tags,
// preserving row order.
func exactMatches(facts []facttable.Fact, tagIDs []string) []facttable.Fact {
	var matched []facttable.Fact
	for _, f := range facts {
		for _, id := range tagIDs {
			if f.TagID == id {
				matched = append(matched, f)
				break
			}
		}
	}
	return matched
}

// fuzzyMatches keeps facts whose tag contains a candidate tag, or the
// candidate's suffix with the namespace prefix stripped, as a
// case-insensitive substring. Row order is preserved, which also
// de-duplicates the union across patterns.
func fuzzyMatches(facts []facttable.Fact, tagIDs []string) []facttable.Fact {
	var patterns []string
	for _, id := range tagIDs {
		if i := strings.Index(id, ":"); i >= 0 {
			patterns = append(patterns, strings.ToLower(id[i+1:]))
		}
		patterns = append(patterns, strings.ToLower(id))
	}

	var matched []facttable.Fact
	for _, f := range facts {
		tag := strings.ToLower(f.TagID)
		for _, p := range patterns {
			if p != "" && strings.Contains(tag, p) {
				matched = append(matched, f)
				break
			}
		}
	}
	return matched
}

// filterByPriority tries each priority substring in order and returns the
// first non-empty filtered subset; when no priority matches anything, the
// full set is kept.
func filterByPriority(candidates []candidate, priorities []string, key func(candidate) string) []candidate {
	for _, p := range priorities {
		var filtered []candidate
		for _, c := range candidates {
			if strings.Contains(key(c), p) {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) > 0 {
			return filtered
		}
	}
	return candidates
}

// SearchLimit caps keyword search results.
const SearchLimit = 20

// Search returns facts whose tag or label contains any keyword,
// case-insensitively, in table row order, capped at SearchLimit.
func Search(t *facttable.Table, keywords []string) []facttable.Fact {
	if t.Len() == 0 || len(keywords) == 0 {
		return nil
	}
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k != "" {
			lowered = append(lowered, strings.ToLower(k))
		}
	}

	var hits []facttable.Fact
	for _, f := range t.Facts {
		tag := strings.ToLower(f.TagID)
		label := strings.ToLower(f.Label)
		for _, k := range lowered {
			if strings.Contains(tag, k) || strings.Contains(label, k) {
				hits = append(hits, f)
				break
			}
		}
		if len(hits) == SearchLimit {
			break
		}
	}
	return hits
}

// Package taxonomy infers what kind of entity filed a report from the
// taxonomy prefixes of its fact tags.
package taxonomy

import (
	"sort"
	"strings"

	"edinet-facts/pkg/facttable"
)

// Category classifies the filing entity. The set is closed but
// extensible: new categories are a data change, not a new type.
type Category string

const (
	InvestmentTrust Category = "investment_trust"
	GeneralCompany  Category = "general_company"
	Bank            Category = "bank"
	Insurance       Category = "insurance"
	Unknown         Category = "unknown"
)

// rule binds a category to the tag prefixes that vote for it.
type rule struct {
	category Category
	prefixes []string
}

// Classifier scores categories by counting facts whose tag starts with a
// registered prefix. Rules are kept in declaration order: on a score tie
// the first-declared category wins, which is an accepted ambiguity.
type Classifier struct {
	rules []rule
}

// NewClassifier returns a classifier preloaded with the EDINET taxonomy
// prefixes.
func NewClassifier() *Classifier {
	c := &Classifier{}
	c.Register(InvestmentTrust, "jppfs_cor:", "jpfund_")
	c.Register(GeneralCompany, "jpfr-", "jpcrp_", "jpdei_cor:")
	c.Register(Bank, "jpbank_")
	c.Register(Insurance, "jpins_")
	return c
}

// Register adds prefixes for a category, extending the category's
// existing prefix list if it was already registered.
func (c *Classifier) Register(category Category, prefixes ...string) {
	for i := range c.rules {
		if c.rules[i].category == category {
			c.rules[i].prefixes = append(c.rules[i].prefixes, prefixes...)
			return
		}
	}
	c.rules = append(c.rules, rule{category: category, prefixes: prefixes})
}

// Classify returns the category with the strictly highest prefix score,
// or Unknown when the table is empty, lacks the tag column, or no
// category scores above zero. It never fails.
func (c *Classifier) Classify(t *facttable.Table) Category {
	if t.Len() == 0 || !t.HasColumn(facttable.ColTagID) {
		return Unknown
	}

	best := Unknown
	bestScore := 0
	for _, r := range c.rules {
		score := 0
		for _, f := range t.Facts {
			for _, p := range r.prefixes {
				if strings.HasPrefix(f.TagID, p) {
					score++
					break
				}
			}
		}
		if score > bestScore {
			best = r.category
			bestScore = score
		}
	}
	return best
}

// PrefixCount is one entry of the prefix frequency diagnostics.
type PrefixCount struct {
	Prefix string
	Count  int
}

// PrefixStats returns the most frequent namespace prefixes in the table,
// most frequent first, capped at top entries. Useful when a filing
// classifies as Unknown.
func (c *Classifier) PrefixStats(t *facttable.Table, top int) []PrefixCount {
	if t.Len() == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, f := range t.Facts {
		if i := strings.Index(f.TagID, ":"); i > 0 {
			counts[f.TagID[:i+1]]++
		}
	}
	stats := make([]PrefixCount, 0, len(counts))
	for prefix, count := range counts {
		stats = append(stats, PrefixCount{Prefix: prefix, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Prefix < stats[j].Prefix
	})
	if top > 0 && len(stats) > top {
		stats = stats[:top]
	}
	return stats
}

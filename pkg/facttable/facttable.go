// Package facttable loads the flattened CSV rendering of an EDINET XBRL
// filing into a single table of facts.
package facttable

import (
	"strconv"
	"strings"
)

// Column headers as they appear in the EDINET CSV rendering. Columns are
// addressed by these names, never by position.
const (
	ColTagID        = "要素ID"
	ColLabel        = "項目名"
	ColContextID    = "コンテキストID"
	ColRelativeYear = "相対年度"
	ColScope        = "連結・個別"
	ColPeriod       = "期間・時点"
	ColUnit         = "単位"
	ColValue        = "値"
)

// CurrentPeriodMarker is the substring in the 相対年度 column that marks a
// row as belonging to the current reporting period.
const CurrentPeriodMarker = "当期"

// Fact is one row of the unified fact table. Facts are immutable once
// loaded.
type Fact struct {
	TagID        string `json:"tag_id"`
	Label        string `json:"label,omitempty"`
	ContextID    string `json:"context_id,omitempty"`
	RelativeYear string `json:"relative_year,omitempty"`
	Scope        string `json:"scope,omitempty"`
	Unit         string `json:"unit,omitempty"`
	RawValue     string `json:"raw_value"`
	SourceFile   string `json:"source_file,omitempty"`
}

// Number parses the fact's raw value as a finite float. Grouping commas
// are tolerated, as some renderings format large yen amounts with them.
func (f Fact) Number() (float64, bool) {
	clean := strings.TrimSpace(strings.ReplaceAll(f.RawValue, ",", ""))
	if clean == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Table is the union of all facts from all tabular files in one archive,
// concatenated in file order preserving per-file row order. Duplicates are
// not removed.
type Table struct {
	Facts []Fact
	Files []string

	columns map[string]bool
}

// NewTable builds a table directly from facts, recording the given
// column names as present. For callers that assemble facts from sources
// other than an archive.
func NewTable(facts []Fact, columns ...string) *Table {
	t := &Table{Facts: facts}
	for _, c := range columns {
		t.markColumn(c)
	}
	return t
}

// Len returns the number of facts loaded.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Facts)
}

// HasColumn reports whether any source file carried the named column.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	return t.columns[name]
}

// TagIDs returns the distinct tag identifiers in first-seen order.
func (t *Table) TagIDs() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool, len(t.Facts))
	var ids []string
	for _, f := range t.Facts {
		if f.TagID == "" || seen[f.TagID] {
			continue
		}
		seen[f.TagID] = true
		ids = append(ids, f.TagID)
	}
	return ids
}

func (t *Table) markColumn(name string) {
	if t.columns == nil {
		t.columns = make(map[string]bool)
	}
	t.columns[name] = true
}

// append adds facts from one parsed file, recording its columns.
func (t *Table) append(facts []Fact, columns []string, file string) {
	t.Facts = append(t.Facts, facts...)
	t.Files = append(t.Files, file)
	for _, c := range columns {
		t.markColumn(c)
	}
}

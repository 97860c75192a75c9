// Package xbrl is the single entry point for turning a downloaded EDINET
// archive into extracted financial figures: load the fact table, classify
// the filer, resolve the registered concepts.
package xbrl

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"edinet-facts/pkg/extract"
	"edinet-facts/pkg/facttable"
	"edinet-facts/pkg/mapping"
	"edinet-facts/pkg/taxonomy"
)

// Result is everything extracted from one archive.
type Result struct {
	Category   taxonomy.Category         `json:"category"`
	FactCount  int                       `json:"fact_count"`
	TagIDs     []string                  `json:"available_tag_ids"`
	Financials map[string]extract.Result `json:"financial_data"`
	Summary    string                    `json:"summary_report"`
}

// Parser composes the loader, classifier and extraction engine, and keeps
// the most recent result and fact table for follow-up search.
//
// A Parser is not safe for concurrent ExtractArchive calls: it carries
// single-slot last-result state. Callers needing parallelism use one
// Parser per task or serialize calls.
type Parser struct {
	Mapping *mapping.Mapping

	classifier *taxonomy.Classifier
	extractor  *extract.Extractor

	last      *Result
	lastTable *facttable.Table
}

// NewParser returns a parser with the built-in concept registry and
// taxonomy prefixes.
func NewParser() *Parser {
	m := mapping.New()
	return &Parser{
		Mapping:    m,
		classifier: taxonomy.NewClassifier(),
		extractor:  extract.New(m),
	}
}

// ExtractArchive loads the archive, infers the filer category and
// resolves its registered concepts. Loader failures propagate unchanged
// so callers can tell "no filing data at all" from "concept not present".
// The previous result, if any, is replaced.
func (p *Parser) ExtractArchive(path string) (*Result, error) {
	table, err := facttable.Load(path)
	if err != nil {
		return nil, err
	}

	category := p.classifier.Classify(table)
	financials := p.extractor.Extract(table, category)

	result := &Result{
		Category:   category,
		FactCount:  table.Len(),
		TagIDs:     table.TagIDs(),
		Financials: financials,
		Summary:    extract.SummaryReport(financials, category),
	}
	p.last = result
	p.lastTable = table
	return result, nil
}

// LastResult returns the most recent extraction, or nil if none ran yet.
func (p *Parser) LastResult() *Result {
	return p.last
}

// Search looks for facts whose tag or label matches any keyword in the
// most recently loaded fact table. Returns nothing when no archive has
// been extracted yet.
func (p *Parser) Search(keywords ...string) []facttable.Fact {
	if p.lastTable == nil {
		return nil
	}
	return extract.Search(p.lastTable, keywords)
}

// DetailedAnalysis renders the last result with loader diagnostics
// included.
func (p *Parser) DetailedAnalysis() string {
	if p.last == nil {
		return "データが読み込まれていません。"
	}
	return fmt.Sprintf("=== 詳細分析結果 ===\n企業タイプ: %s\n総要素数: %d\nユニーク要素数: %d\n%s",
		p.last.Category, p.last.FactCount, len(p.last.TagIDs), p.last.Summary)
}

// WriteCSV writes the last result's extracted concepts as CSV rows of
// concept, display name and value.
func (p *Parser) WriteCSV(w io.Writer) error {
	if p.last == nil {
		return fmt.Errorf("no extraction result to export")
	}

	names := make([]string, 0, len(p.last.Financials))
	for name := range p.last.Financials {
		names = append(names, name)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"item_name", "display_name", "value"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, name := range names {
		r := p.last.Financials[name]
		row := []string{r.Concept, r.DisplayName, fmt.Sprintf("%.0f", r.Value)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

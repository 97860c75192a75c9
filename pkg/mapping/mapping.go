// Package mapping holds the registry of financial concepts per entity
// category: which tag identifiers may carry a concept's value and how to
// disambiguate between competing candidates. Extending coverage is a data
// change here, never a change to the extraction algorithm.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"

	"edinet-facts/pkg/taxonomy"
)

// Concept describes how one financial quantity is resolved for one entity
// category. TagIDs are ordered most-specific first. ContextPriority and
// ScopePriority are ordered substring filters, most preferred first.
type Concept struct {
	TagIDs          []string `json:"element_ids"`
	DisplayName     string   `json:"display_name"`
	ContextPriority []string `json:"context_priority"`
	ScopePriority   []string `json:"scope_priority"`
}

// Defaults applied by Add when a priority list is omitted.
var (
	defaultContextPriority = []string{"CurrentYearInstant"}
	defaultScopePriority   = []string{"NonConsolidatedMember"}
)

// Mapping is the runtime-mutable concept registry keyed by
// (category, concept name).
type Mapping struct {
	concepts map[taxonomy.Category]map[string]Concept
}

// New returns a registry pre-populated with the EDINET concept data for
// investment trusts, general corporates and banks.
func New() *Mapping {
	return &Mapping{concepts: defaultConcepts()}
}

// ForCategory returns the concept definitions registered for a category.
// Unknown categories yield an empty map.
func (m *Mapping) ForCategory(category taxonomy.Category) map[string]Concept {
	return m.concepts[category]
}

// Categories returns the categories that have at least one concept.
func (m *Mapping) Categories() []taxonomy.Category {
	var cats []taxonomy.Category
	for c := range m.concepts {
		cats = append(cats, c)
	}
	return cats
}

// Add upserts a concept definition. Priority lists default to the most
// common convention when omitted. The candidate tag list must not be
// empty.
func (m *Mapping) Add(category taxonomy.Category, name string, tagIDs []string, displayName string, contextPriority, scopePriority []string) error {
	if len(tagIDs) == 0 {
		return fmt.Errorf("concept %s/%s: candidate tag list is empty", category, name)
	}
	if len(contextPriority) == 0 {
		contextPriority = defaultContextPriority
	}
	if len(scopePriority) == 0 {
		scopePriority = defaultScopePriority
	}
	if m.concepts == nil {
		m.concepts = make(map[taxonomy.Category]map[string]Concept)
	}
	if m.concepts[category] == nil {
		m.concepts[category] = make(map[string]Concept)
	}
	m.concepts[category][name] = Concept{
		TagIDs:          tagIDs,
		DisplayName:     displayName,
		ContextPriority: contextPriority,
		ScopePriority:   scopePriority,
	}
	return nil
}

// SaveFile writes the registry as JSON, keyed by category then concept
// name.
func (m *Mapping) SaveFile(path string) error {
	data, err := json.MarshalIndent(m.concepts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mappings: %w", err)
	}
	return nil
}

// LoadFile replaces the registry contents with definitions from a JSON
// file previously produced by SaveFile.
func (m *Mapping) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read mappings: %w", err)
	}
	var concepts map[taxonomy.Category]map[string]Concept
	if err := json.Unmarshal(data, &concepts); err != nil {
		return fmt.Errorf("failed to parse mappings: %w", err)
	}
	m.concepts = concepts
	return nil
}

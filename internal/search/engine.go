// Package search filters the item catalog by a free-text query expanded
// through a keyword-alias table, so shorthand like "mc" or "console" can
// match whole product families without any indexing.
package search

import (
	"strings"

	"github.com/package-manager/backend/internal/models"
)

// Engine filters catalog items against an alias table. The table is
// injected so deployments and tests can swap it out.
type Engine struct {
	aliases map[string][]string
}

// NewEngine creates a filter engine with the given alias table. A nil table
// means no expansion beyond the raw query.
func NewEngine(aliases map[string][]string) *Engine {
	return &Engine{aliases: aliases}
}

// DefaultAliases returns the built-in alias table mapping shorthand
// keywords to the search terms they expand to.
func DefaultAliases() map[string][]string {
	return map[string][]string{
		"mc":       {"mac", "macbook"},
		"laptop":   {"macbook", "mac"},
		"laptops":  {"macbook", "mac"},
		"watch":    {"whoop", "apple watch"},
		"watches":  {"whoop", "apple watch"},
		"console":  {"playstation", "ps5", "ps4", "xbox", "nintendo", "switch"},
		"consoles": {"playstation", "ps5", "ps4", "xbox", "nintendo", "switch"},
		"gaming":   {"playstation", "ps5", "xbox", "nintendo", "switch"},
		"vr":       {"quest", "meta", "oculus"},
		"headset":  {"quest", "meta", "oculus"},
	}
}

// Filter returns the items whose names contain any of the query's expanded
// search terms, preserving the input order. An empty or whitespace-only
// query returns all items.
func (e *Engine) Filter(items []models.Item, query string) []models.Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		// Copy so callers never alias the input slice
		return append([]models.Item(nil), items...)
	}

	terms := e.expandTerms(query)

	filtered := make([]models.Item, 0, len(items))
	for _, item := range items {
		name := strings.ToLower(item.Name)
		for _, term := range terms {
			if strings.Contains(name, term) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}

// expandTerms builds the term set for a query: the query itself plus the
// expansions of every alias that contains the query or is contained by it.
// Containment runs both ways so partially typed aliases still match.
func (e *Engine) expandTerms(query string) []string {
	terms := []string{query}
	seen := map[string]bool{query: true}

	for alias, expansions := range e.aliases {
		if !strings.Contains(query, alias) && !strings.Contains(alias, query) {
			continue
		}
		for _, term := range expansions {
			if !seen[term] {
				seen[term] = true
				terms = append(terms, term)
			}
		}
	}
	return terms
}

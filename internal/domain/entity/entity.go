// Package entity names the searchable record types and their identifier and role metadata.
package entity

import (
	"fmt"
	"strings"
)

// Name is the system name of a searchable entity type.
type Name string

// Searchable entity types.
const (
	Manuscript   Name = "manuscript"
	Person       Name = "person"
	Occurrence   Name = "occurrence"
	Type         Name = "type"
	Bibliography Name = "bibliography"
)

// All returns every entity type in a stable order.
func All() []Name {
	return []Name{Manuscript, Person, Occurrence, Type, Bibliography}
}

// Parse resolves an entity name, accepting the singular or plural form.
func Parse(s string) (Name, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, n := range All() {
		if s == string(n) || s == n.Plural() {
			return n, nil
		}
	}
	return "", fmt.Errorf("unknown entity %q", s)
}

// Plural returns the plural form used in index names and URLs.
func (n Name) Plural() string {
	if n == Bibliography {
		return "bibliographies"
	}
	return string(n) + "s"
}

// Definition is a named identifier or role with its display label.
type Definition struct {
	systemName  string
	displayName string
}

// NewDefinition creates a definition. The display name defaults to the system name.
func NewDefinition(systemName, displayName string) Definition {
	if displayName == "" {
		displayName = systemName
	}
	return Definition{systemName: systemName, displayName: displayName}
}

// SystemName returns the machine name used in field names.
func (d Definition) SystemName() string { return d.systemName }

// DisplayName returns the human label used in facets.
func (d Definition) DisplayName() string { return d.displayName }

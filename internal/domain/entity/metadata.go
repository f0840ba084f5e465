package entity

// Metadata holds the ordered identifier and role definitions of one entity type.
type Metadata struct {
	identifiers []Definition
	roles       []Definition
}

// NewMetadata creates entity metadata.
func NewMetadata(identifiers, roles []Definition) Metadata {
	return Metadata{identifiers: identifiers, roles: roles}
}

// Identifiers returns the primary identifier definitions.
func (m Metadata) Identifiers() []Definition { return m.identifiers }

// Roles returns the role definitions.
func (m Metadata) Roles() []Definition { return m.roles }

// RoleLabel returns the display name of a role, or the system name when unknown.
func (m Metadata) RoleLabel(systemName string) string {
	for _, r := range m.roles {
		if r.systemName == systemName {
			return r.displayName
		}
	}
	return systemName
}

// HasIdentifier reports whether systemName is a known identifier.
func (m Metadata) HasIdentifier(systemName string) bool {
	for _, d := range m.identifiers {
		if d.systemName == systemName {
			return true
		}
	}
	return false
}

// Provider supplies identifier and role metadata per entity type.
type Provider interface {
	Metadata(n Name) Metadata
}

// StaticProvider is a Provider backed by a fixed map.
type StaticProvider map[Name]Metadata

// Metadata returns the metadata for n, empty when unknown.
func (p StaticProvider) Metadata(n Name) Metadata { return p[n] }

// DefaultProvider returns the built-in identifier and role tables.
func DefaultProvider() StaticProvider {
	return StaticProvider{
		Manuscript: NewMetadata(
			[]Definition{NewDefinition("diktyon", "Diktyon"), NewDefinition("rgk", "RGK")},
			[]Definition{
				NewDefinition("patron", "Patron"),
				NewDefinition("scribe", "Scribe"),
				NewDefinition("related", "Related"),
			},
		),
		Person: NewMetadata(
			[]Definition{
				NewDefinition("viaf", "VIAF"),
				NewDefinition("pbw", "PBW"),
				NewDefinition("rgk", "RGK"),
			},
			nil,
		),
		Occurrence: NewMetadata(
			[]Definition{NewDefinition("tm", "Trismegistos")},
			[]Definition{
				NewDefinition("patron", "Patron"),
				NewDefinition("scribe", "Scribe"),
				NewDefinition("contributor", "Contributor"),
			},
		),
		Type: NewMetadata(
			[]Definition{NewDefinition("vassis", "Vassis")},
			[]Definition{
				NewDefinition("author", "Author"),
				NewDefinition("contributor", "Contributor"),
			},
		),
		Bibliography: NewMetadata(
			nil,
			[]Definition{
				NewDefinition("author", "Author"),
				NewDefinition("editor", "Editor"),
			},
		),
	}
}

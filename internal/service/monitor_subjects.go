package service

import (
	"strings"

	"github.com/noah-isme/sma-attendance-monitor/internal/models"
)

// FallbackSubjectName labels a subject that resolves to nothing.
const FallbackSubjectName = "Discipline"

// SubjectIdentitySpace reconciles catalog subject ids with institution-local subject ids.
// A local id maps to at most one catalog id; a catalog id may map to many local ids.
type SubjectIdentitySpace struct {
	localNames     map[string]string
	localToCatalog map[string]string
	catalogToLocal map[string][]string
	catalogNames   map[string]string
}

// NewSubjectIdentitySpace indexes the institution subject rows in their fetch order.
func NewSubjectIdentitySpace(rows []models.InstitutionSubject) *SubjectIdentitySpace {
	space := &SubjectIdentitySpace{
		localNames:     make(map[string]string, len(rows)),
		localToCatalog: make(map[string]string, len(rows)),
		catalogToLocal: make(map[string][]string),
		catalogNames:   make(map[string]string),
	}
	for _, row := range rows {
		if row.ID == "" {
			continue
		}
		catalogName := trimmed(row.CatalogName)
		name := trimmed(row.CustomName)
		if name == "" {
			name = catalogName
		}
		space.localNames[row.ID] = name

		catalogID := trimmed(row.CatalogID)
		if catalogID == "" {
			continue
		}
		space.localToCatalog[row.ID] = catalogID
		space.catalogToLocal[catalogID] = append(space.catalogToLocal[catalogID], row.ID)
		if _, ok := space.catalogNames[catalogID]; !ok && catalogName != "" {
			space.catalogNames[catalogID] = catalogName
		}
	}
	return space
}

// NameFor resolves a display name for an id of either space.
func (s *SubjectIdentitySpace) NameFor(id string) string {
	if s == nil || id == "" {
		return FallbackSubjectName
	}
	if name, ok := s.localNames[id]; ok {
		if name != "" {
			return name
		}
		return FallbackSubjectName
	}
	if locals := s.catalogToLocal[id]; len(locals) > 0 {
		if name := s.localNames[locals[0]]; name != "" {
			return name
		}
	}
	if name := s.catalogNames[id]; name != "" {
		return name
	}
	return FallbackSubjectName
}

// ResolveToInstitutionIDs lists the local ids that reference the catalog id.
func (s *SubjectIdentitySpace) ResolveToInstitutionIDs(catalogID string) []string {
	if s == nil {
		return nil
	}
	return s.catalogToLocal[catalogID]
}

// CatalogIDFor returns the catalog id a local id references.
func (s *SubjectIdentitySpace) CatalogIDFor(localID string) (string, bool) {
	if s == nil {
		return "", false
	}
	id, ok := s.localToCatalog[localID]
	return id, ok
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

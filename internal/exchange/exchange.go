package exchange

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Abaw1984/azload-sub000/internal/model"
)

// Format is an exchange file format
type Format string

const (
	FormatSTAAD   Format = "staad"
	FormatSAP2000 Format = "sap2000"
)

// ParseFormat accepts "staad", "std", "sap2000", "s2k"
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "staad", "std":
		return FormatSTAAD, nil
	case "sap2000", "sap", "s2k":
		return FormatSAP2000, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Extension is the conventional file extension for f
func (f Format) Extension() string {
	if f == FormatSAP2000 {
		return ".s2k"
	}
	return ".std"
}

// ErrUnsupportedIdentifier is returned when an id cannot be written in a
// format without changing how the file parses
var ErrUnsupportedIdentifier = errors.New("identifier not representable")

// groupPrefix marks member groups that carry MCP tags
const groupPrefix = "_"

// formatFloat writes the shortest representation that parses back exactly
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// tagGroups maps group name to member ids, members in model order
func tagGroups(m *model.StructuralModel, tags map[string]model.MemberTag) (names []string, members map[string][]string) {
	members = map[string][]string{}
	for _, mb := range m.Members {
		tag := tags[mb.ID]
		if tag == "" {
			continue
		}
		name := groupPrefix + string(tag)
		if _, ok := members[name]; !ok {
			names = append(names, name)
		}
		members[name] = append(members[name], mb.ID)
	}
	sort.Strings(names)
	return names, members
}

// byKey groups member ids by a member attribute, skipping empty keys
func byKey(m *model.StructuralModel, key func(model.Member) string) (keys []string, members map[string][]string) {
	members = map[string][]string{}
	for _, mb := range m.Members {
		k := key(mb)
		if k == "" {
			continue
		}
		if _, ok := members[k]; !ok {
			keys = append(keys, k)
		}
		members[k] = append(members[k], mb.ID)
	}
	sort.Strings(keys)
	return keys, members
}

// finish fills the section and material tables from member references
func finish(m *model.StructuralModel) {
	seenSec, seenMat := map[string]bool{}, map[string]bool{}
	for _, mb := range m.Members {
		if mb.SectionID != "" && !seenSec[mb.SectionID] {
			seenSec[mb.SectionID] = true
			m.Sections = append(m.Sections, model.Section{ID: mb.SectionID, Name: mb.SectionID})
		}
		if mb.MaterialID != "" && !seenMat[mb.MaterialID] {
			seenMat[mb.MaterialID] = true
			m.Materials = append(m.Materials, model.Material{ID: mb.MaterialID, Name: mb.MaterialID})
		}
	}
	if m.UnitsSystem == "" {
		m.UnitsSystem = model.Imperial
	}
}

func restrained(n model.Node, dof string) bool {
	return n.Restraints[dof]
}

func hasRestraint(n model.Node) bool {
	for _, dof := range model.DOFs {
		if restrained(n, dof) {
			return true
		}
	}
	return false
}

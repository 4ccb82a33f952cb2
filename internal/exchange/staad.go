package exchange

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/Abaw1984/azload-sub000/internal/model"
)

// STAAD support release names, indexed like model.DOFs
var staadDOF = []string{"FX", "FY", "FZ", "MX", "MY", "MZ"}

// WriteSTAAD writes m as a STAAD.Pro input file. Member tags become
// member groups named after the tag with a leading underscore.
func WriteSTAAD(w io.Writer, m *model.StructuralModel, tags map[string]model.MemberTag) error {
	if err := checkSTAADIdentifiers(m); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }

	p("STAAD SPACE\n")
	p("START JOB INFORMATION\n")
	p("JOB NAME %s\n", m.ID)
	p("END JOB INFORMATION\n")
	if m.IsMetric() {
		p("UNIT METER KN\n")
	} else {
		p("UNIT FEET KIP\n")
	}

	p("JOINT COORDINATES\n")
	for _, n := range m.Nodes {
		p("%s %s %s %s;\n", n.ID, formatFloat(n.X), formatFloat(n.Y), formatFloat(n.Z))
	}

	p("MEMBER INCIDENCES\n")
	for _, mb := range m.Members {
		p("%s %s %s;\n", mb.ID, mb.StartNodeID, mb.EndNodeID)
	}

	if sections, members := byKey(m, func(mb model.Member) string { return mb.SectionID }); len(sections) > 0 {
		p("MEMBER PROPERTY\n")
		for _, s := range sections {
			p("%s TABLE ST %s\n", strings.Join(members[s], " "), s)
		}
	}

	if mats, members := byKey(m, func(mb model.Member) string { return mb.MaterialID }); len(mats) > 0 {
		p("CONSTANTS\n")
		for _, mat := range mats {
			p("MATERIAL %s MEMB %s\n", mat, strings.Join(members[mat], " "))
		}
	}

	var supports []string
	for _, n := range m.Nodes {
		if hasRestraint(n) {
			supports = append(supports, fmt.Sprintf("%s %s", n.ID, staadSupport(n)))
		}
	}
	if len(supports) > 0 {
		p("SUPPORTS\n")
		for _, s := range supports {
			p("%s\n", s)
		}
	}

	if names, members := tagGroups(m, tags); len(names) > 0 {
		p("START GROUP DEFINITION\n")
		p("MEMBER\n")
		for _, name := range names {
			p("%s %s\n", name, strings.Join(members[name], " "))
		}
		p("END GROUP DEFINITION\n")
	}

	p("FINISH\n")
	return bw.Flush()
}

// checkSTAADIdentifiers rejects ids that would break STAAD's space and
// semicolon delimited records
func checkSTAADIdentifiers(m *model.StructuralModel) error {
	bad := func(kind, id string, optional bool) error {
		if id == "" && optional {
			return nil
		}
		if id == "" || strings.ContainsFunc(id, func(r rune) bool { return unicode.IsSpace(r) || r == ';' }) {
			return fmt.Errorf("staad: %s %q: %w", kind, id, ErrUnsupportedIdentifier)
		}
		return nil
	}
	for _, n := range m.Nodes {
		if err := bad("joint", n.ID, false); err != nil {
			return err
		}
	}
	for _, mb := range m.Members {
		if err := errors.Join(
			bad("member", mb.ID, false),
			bad("member "+mb.ID+" start joint", mb.StartNodeID, false),
			bad("member "+mb.ID+" end joint", mb.EndNodeID, false),
			bad("section", mb.SectionID, true),
			bad("material", mb.MaterialID, true),
		); err != nil {
			return err
		}
	}
	return nil
}

func staadSupport(n model.Node) string {
	var free []string
	for i, dof := range model.DOFs {
		if !restrained(n, dof) {
			free = append(free, staadDOF[i])
		}
	}
	switch {
	case len(free) == 0:
		return "FIXED"
	case strings.Join(free, " ") == "MX MY MZ":
		return "PINNED"
	default:
		return "FIXED BUT " + strings.Join(free, " ")
	}
}

// ParseSTAAD reads the subset of STAAD syntax WriteSTAAD produces:
// joints, incidences, TABLE section assignments, material constants,
// supports and member groups. Unknown commands are skipped.
func ParseSTAAD(r io.Reader) (*model.StructuralModel, error) {
	m := &model.StructuralModel{}
	var section string
	nodeAt := map[string]int{}
	memberAt := map[string]int{}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" || strings.HasPrefix(raw, "*") {
			continue
		}

		for _, stmt := range strings.Split(raw, ";") {
			f := strings.Fields(stmt)
			if len(f) == 0 {
				continue
			}
			head := strings.ToUpper(strings.Join(f[:min(2, len(f))], " "))

			switch {
			case strings.ToUpper(f[0]) == "STAAD" || head == "START JOB" || head == "END JOB":
				continue
			case head == "JOB NAME":
				m.ID = strings.Join(f[2:], " ")
				continue
			case strings.ToUpper(f[0]) == "UNIT":
				if strings.Contains(strings.ToUpper(stmt), "METER") {
					m.UnitsSystem = model.Metric
				} else {
					m.UnitsSystem = model.Imperial
				}
				continue
			case head == "JOINT COORDINATES", head == "MEMBER INCIDENCES", head == "MEMBER PROPERTY":
				section = head
				continue
			case strings.ToUpper(f[0]) == "CONSTANTS", strings.ToUpper(f[0]) == "SUPPORTS":
				section = strings.ToUpper(f[0])
				continue
			case head == "START GROUP":
				section = "GROUP"
				continue
			case head == "END GROUP":
				section = ""
				continue
			case strings.ToUpper(f[0]) == "FINISH":
				finish(m)
				return m, nil
			}

			if err := parseSTAADStatement(m, section, f, nodeAt, memberAt); err != nil {
				return nil, fmt.Errorf("staad line %d: %w", lineNo, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	finish(m)
	return m, nil
}

func parseSTAADStatement(m *model.StructuralModel, section string, f []string, nodeAt, memberAt map[string]int) error {
	switch section {
	case "JOINT COORDINATES":
		if len(f) < 4 {
			return fmt.Errorf("joint needs id and three coordinates, got %q", strings.Join(f, " "))
		}
		var xyz [3]float64
		for i := range xyz {
			v, err := parseFloat(f[i+1])
			if err != nil {
				return fmt.Errorf("joint %s: %w", f[0], err)
			}
			xyz[i] = v
		}
		nodeAt[f[0]] = len(m.Nodes)
		m.Nodes = append(m.Nodes, model.Node{ID: f[0], X: xyz[0], Y: xyz[1], Z: xyz[2]})

	case "MEMBER INCIDENCES":
		if len(f) < 3 {
			return fmt.Errorf("incidence needs id and two joints, got %q", strings.Join(f, " "))
		}
		memberAt[f[0]] = len(m.Members)
		m.Members = append(m.Members, model.Member{ID: f[0], StartNodeID: f[1], EndNodeID: f[2]})

	case "MEMBER PROPERTY":
		i := indexOf(f, "TABLE")
		if i < 0 || i+2 >= len(f) {
			return nil
		}
		name := f[i+2]
		for _, id := range f[:i] {
			if at, ok := memberAt[id]; ok {
				m.Members[at].SectionID = name
			}
		}

	case "CONSTANTS":
		if strings.ToUpper(f[0]) != "MATERIAL" || len(f) < 4 {
			return nil
		}
		for _, id := range f[3:] {
			if at, ok := memberAt[id]; ok {
				m.Members[at].MaterialID = f[1]
			}
		}

	case "SUPPORTS":
		at, ok := nodeAt[f[0]]
		if !ok || len(f) < 2 {
			return nil
		}
		m.Nodes[at].Restraints = parseSTAADSupport(f[1:])

	case "GROUP":
		if strings.ToUpper(f[0]) == "MEMBER" || !strings.HasPrefix(f[0], groupPrefix) {
			return nil
		}
		tag := model.MemberTag(strings.TrimPrefix(f[0], groupPrefix))
		for _, id := range f[1:] {
			if at, ok := memberAt[id]; ok {
				m.Members[at].Tag = tag
			}
		}
	}
	return nil
}

func parseSTAADSupport(f []string) map[string]bool {
	r := map[string]bool{}
	switch strings.ToUpper(f[0]) {
	case "PINNED":
		r[model.DX], r[model.DY], r[model.DZ] = true, true, true
	case "FIXED":
		for _, dof := range model.DOFs {
			r[dof] = true
		}
		if len(f) > 2 && strings.ToUpper(f[1]) == "BUT" {
			for _, rel := range f[2:] {
				if i := indexOf(staadDOF, strings.ToUpper(rel)); i >= 0 {
					delete(r, model.DOFs[i])
				}
			}
		}
	}
	return r
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if strings.EqualFold(v, s) {
			return i
		}
	}
	return -1
}

package exchange

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/Abaw1984/azload-sub000/internal/model"
)

// SAP2000 joint restraint columns, indexed like model.DOFs
var sapDOF = []string{"U1", "U2", "U3", "R1", "R2", "R3"}

// WriteSAP2000 writes m as a SAP2000 text database (.s2k). Member tags
// become frame groups named after the tag with a leading underscore.
func WriteSAP2000(w io.Writer, m *model.StructuralModel, tags map[string]model.MemberTag) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }
	table := func(name string) { p("\nTABLE:  %s\n", quote(name)) }

	p("$ File exported for model %s\n", quote(m.ID))

	table("PROJECT INFORMATION")
	p("   Item=%s   Data=%s\n", quote("Project Name"), quote(m.ID))

	units := "Kip, ft, F"
	if m.IsMetric() {
		units = "KN, m, C"
	}
	table("PROGRAM CONTROL")
	p("   ProgramName=SAP2000   CurrUnits=%s\n", quote(units))

	table("JOINT COORDINATES")
	for _, n := range m.Nodes {
		p("   Joint=%s   CoordSys=GLOBAL   CoordType=Cartesian   XorR=%s   Y=%s   Z=%s\n",
			quoteIfNeeded(n.ID), formatFloat(n.X), formatFloat(n.Y), formatFloat(n.Z))
	}

	var restrained []model.Node
	for _, n := range m.Nodes {
		if hasRestraint(n) {
			restrained = append(restrained, n)
		}
	}
	if len(restrained) > 0 {
		table("JOINT RESTRAINT ASSIGNMENTS")
		for _, n := range restrained {
			p("   Joint=%s", quoteIfNeeded(n.ID))
			for i, dof := range model.DOFs {
				p("   %s=%s", sapDOF[i], yesNo(n.Restraints[dof]))
			}
			p("\n")
		}
	}

	table("CONNECTIVITY - FRAME")
	for _, mb := range m.Members {
		p("   Frame=%s   JointI=%s   JointJ=%s\n",
			quoteIfNeeded(mb.ID), quoteIfNeeded(mb.StartNodeID), quoteIfNeeded(mb.EndNodeID))
	}

	table("FRAME SECTION ASSIGNMENTS")
	for _, mb := range m.Members {
		p("   Frame=%s   SectionType=\"I/Wide Flange\"   AnalSect=%s   MatProp=%s\n",
			quoteIfNeeded(mb.ID), quoteIfNeeded(mb.SectionID), quoteIfNeeded(mb.MaterialID))
	}

	if names, members := tagGroups(m, tags); len(names) > 0 {
		table("GROUPS 1 - DEFINITIONS")
		for _, name := range names {
			p("   GroupName=%s   Selection=Yes\n", quoteIfNeeded(name))
		}
		table("GROUPS 2 - ASSIGNMENTS")
		for _, name := range names {
			for _, id := range members[name] {
				p("   GroupName=%s   ObjectType=Frame   ObjectLabel=%s\n", quoteIfNeeded(name), quoteIfNeeded(id))
			}
		}
	}

	p("\nEND TABLE DATA\n")
	return bw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// quote wraps s in double quotes, doubling embedded quotes
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// quoteIfNeeded quotes values the row parser would otherwise split, and
// values ending in an underscore, which would read as a continuation
func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"=") || strings.HasSuffix(s, "_") {
		return quote(s)
	}
	return s
}

// ParseSAP2000 reads the tables WriteSAP2000 produces. Rows may continue
// onto following lines with a trailing " _".
func ParseSAP2000(r io.Reader) (*model.StructuralModel, error) {
	m := &model.StructuralModel{}
	nodeAt := map[string]int{}
	memberAt := map[string]int{}
	var table string

	sc := bufio.NewScanner(r)
	lineNo := 0
	var pending string
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if strings.HasSuffix(line, " _") {
			pending += strings.TrimSuffix(line, "_")
			continue
		}
		line = pending + line
		pending = ""

		if line == "" || strings.HasPrefix(line, "$") {
			continue
		}
		if strings.HasPrefix(strings.ToUpper(line), "TABLE:") {
			table = strings.ToUpper(strings.Trim(strings.TrimSpace(line[len("TABLE:"):]), `"`))
			continue
		}
		if strings.EqualFold(line, "END TABLE DATA") {
			break
		}
		if table == "" {
			continue
		}

		row, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("s2k line %d: %w", lineNo, err)
		}
		if err := applyRow(m, table, row, nodeAt, memberAt); err != nil {
			return nil, fmt.Errorf("s2k line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	finish(m)
	return m, nil
}

func applyRow(m *model.StructuralModel, table string, row map[string]string, nodeAt, memberAt map[string]int) error {
	switch table {
	case "PROJECT INFORMATION":
		if row["Item"] == "Project Name" {
			m.ID = row["Data"]
		}

	case "PROGRAM CONTROL":
		if u := strings.ToUpper(row["CurrUnits"]); strings.Contains(u, "KN") || strings.Contains(u, " M,") {
			m.UnitsSystem = model.Metric
		} else if u != "" {
			m.UnitsSystem = model.Imperial
		}

	case "JOINT COORDINATES":
		id := row["Joint"]
		if id == "" {
			return fmt.Errorf("joint row without Joint")
		}
		var xyz [3]float64
		for i, key := range []string{"XorR", "Y", "Z"} {
			v, err := parseFloat(row[key])
			if err != nil {
				return fmt.Errorf("joint %s %s: %w", id, key, err)
			}
			xyz[i] = v
		}
		nodeAt[id] = len(m.Nodes)
		m.Nodes = append(m.Nodes, model.Node{ID: id, X: xyz[0], Y: xyz[1], Z: xyz[2]})

	case "JOINT RESTRAINT ASSIGNMENTS":
		at, ok := nodeAt[row["Joint"]]
		if !ok {
			return nil
		}
		res := map[string]bool{}
		for i, dof := range model.DOFs {
			if strings.EqualFold(row[sapDOF[i]], "Yes") {
				res[dof] = true
			}
		}
		m.Nodes[at].Restraints = res

	case "CONNECTIVITY - FRAME":
		id := row["Frame"]
		if id == "" {
			return fmt.Errorf("frame row without Frame")
		}
		memberAt[id] = len(m.Members)
		m.Members = append(m.Members, model.Member{ID: id, StartNodeID: row["JointI"], EndNodeID: row["JointJ"]})

	case "FRAME SECTION ASSIGNMENTS":
		if at, ok := memberAt[row["Frame"]]; ok {
			m.Members[at].SectionID = row["AnalSect"]
			m.Members[at].MaterialID = row["MatProp"]
		}

	case "GROUPS 2 - ASSIGNMENTS":
		name := row["GroupName"]
		if row["ObjectType"] != "Frame" || !strings.HasPrefix(name, groupPrefix) {
			return nil
		}
		if at, ok := memberAt[row["ObjectLabel"]]; ok {
			m.Members[at].Tag = model.MemberTag(strings.TrimPrefix(name, groupPrefix))
		}
	}
	return nil
}

// parseRow splits `Key=value   Key="quoted value"` pairs
func parseRow(line string) (map[string]string, error) {
	row := map[string]string{}
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		eq := strings.IndexByte(line[i:], '=')
		if eq < 0 {
			return nil, fmt.Errorf("expected key=value near %q", line[i:])
		}
		key := line[i : i+eq]
		i += eq + 1

		var val string
		if i < len(line) && line[i] == '"' {
			var sb strings.Builder
			i++
			for {
				end := strings.IndexByte(line[i:], '"')
				if end < 0 {
					return nil, fmt.Errorf("unterminated quote for %s", key)
				}
				sb.WriteString(line[i : i+end])
				i += end + 1
				if i < len(line) && line[i] == '"' {
					sb.WriteByte('"')
					i++
					continue
				}
				break
			}
			val = sb.String()
		} else {
			end := strings.IndexAny(line[i:], " \t")
			if end < 0 {
				end = len(line) - i
			}
			val = line[i : i+end]
			i += end
		}
		row[key] = val
	}
	return row, nil
}

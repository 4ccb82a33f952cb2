package loads

import (
	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// CombinedLoad is the factored resultant of one code combination
type CombinedLoad struct {
	Combination asce7.LoadCombination `json:"combination"`
	Force       model.Vec3            `json:"force"`
	Magnitude   float64               `json:"magnitude"`
	Absent      []asce7.LoadType      `json:"absent,omitempty"`
}

// Totals sums result total forces per load type. Several results of the
// same type add up. Roof live loads in a live result count as RoofLive, so
// a live result always yields both a Live and a RoofLive total.
func Totals(results []*Result) map[asce7.LoadType]model.Vec3 {
	totals := map[asce7.LoadType]model.Vec3{}
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.LoadType != asce7.Live {
			totals[r.LoadType] = totals[r.LoadType].Add(r.Summary.TotalForce)
			continue
		}
		var roof model.Vec3
		for _, l := range r.Loads {
			if l.Zone == ZoneRoofLive {
				roof = roof.Add(l.Resultant())
			}
		}
		totals[asce7.Live] = totals[asce7.Live].Add(r.Summary.TotalForce.Add(roof.Scale(-1)))
		totals[asce7.RoofLive] = totals[asce7.RoofLive].Add(roof)
	}
	return totals
}

// GenerateCombinations applies the fixed combination table for method to
// the results. A load type without a result contributes nothing and is
// listed in Absent.
func GenerateCombinations(results []*Result, method asce7.Method) []CombinedLoad {
	totals := Totals(results)
	table := asce7.Combinations(method)

	out := make([]CombinedLoad, 0, len(table))
	for _, combo := range table {
		cl := CombinedLoad{Combination: combo}
		for _, lt := range asce7.CombinationTypes {
			factor := combo.Factor(lt)
			if factor == 0 {
				continue
			}
			total, ok := totals[lt]
			if !ok {
				cl.Absent = append(cl.Absent, lt)
				continue
			}
			cl.Force = cl.Force.Add(total.Scale(factor))
		}
		cl.Magnitude = cl.Force.Magnitude()
		out = append(out, cl)
	}
	return out
}

// Governing returns the combination with the largest resultant magnitude.
// ok is false when combos is empty.
func Governing(combos []CombinedLoad) (gov CombinedLoad, ok bool) {
	for _, c := range combos {
		if !ok || c.Magnitude > gov.Magnitude {
			gov, ok = c, true
		}
	}
	return gov, ok
}

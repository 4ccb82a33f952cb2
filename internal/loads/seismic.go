package loads

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

const (
	// DefaultLongPeriodTransition TL in seconds when the site map value is
	// not given
	DefaultLongPeriodTransition = 8.0

	// Story tolerances when none is configured
	DefaultStoryToleranceFt = 0.5
	DefaultStoryToleranceM  = 0.15
)

// DefaultStoryTolerance returns the story band for a unit system
func DefaultStoryTolerance(u asce7.Units) float64 {
	if u.Metric {
		return DefaultStoryToleranceM
	}
	return DefaultStoryToleranceFt
}

// Story is one detected level of the seismic distribution
type Story struct {
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
	Force   float64 `json:"force"`
	Members int     `json:"members"`
}

// CalculateSeismic distributes the ELF base shear over the detected stories
// and applies each story force to its members in proportion to their weight
func CalculateSeismic(in Input, p SeismicParameters) *Result {
	return p.calculate(in)
}

type weighted struct {
	seg    model.Segment
	weight float64
	height float64
	story  int
}

func (p SeismicParameters) calculate(in Input) *Result {
	b := newBuilder(asce7.Seismic, p, in)
	rangeWarnings(p, b)
	f := newFrame(in, b)
	u := f.units
	b.cite(
		"ASCE 7-16 Tables 11.4-1/11.4-2 (Fa, Fv)",
		"ASCE 7-16 Eq. 11.4-1 to 11.4-4 (SDS, SD1)",
		"ASCE 7-16 Eq. 12.8-7 (approximate period)",
		"ASCE 7-16 Eq. 12.8-2 to 12.8-6 (Cs)",
		"ASCE 7-16 Eq. 12.8-11/12.8-12 (vertical distribution)",
	)

	site := p.SiteClass
	if !asce7.ValidSiteClass(site) {
		b.warn("unknown site class %q, using D", site)
		site = asce7.SiteD
	}
	fs := p.FrameSystem
	if fs == "" {
		fs = in.FrameSystem
	}
	r := orDefault(p.R, asce7.SystemFor(fs).R)
	ie := orDefault(p.Ie, asce7.ImportanceFactor(p.RiskCategory))
	tl := orDefault(p.TL, DefaultLongPeriodTransition)
	hn := orDefault(p.BuildingHeight, in.Dimensions.TotalHeight)
	tol := orDefault(p.StoryTolerance, DefaultStoryTolerance(u))

	sp := asce7.Spectrum(site, p.Ss, p.S1)
	t := p.Period
	if t <= 0 {
		t = asce7.ApproximatePeriod(fs, hn, u)
	}
	cs := asce7.ResponseCoefficient(sp, p.S1, r, ie, t, tl)
	k := asce7.DistributionExponent(t)
	b.detail("SDS", sp.SDS)
	b.detail("SD1", sp.SD1)
	b.detail("period", t)
	b.detail("Cs", cs)
	b.detail("k", k)

	var items []weighted
	var missing []string
	var total float64
	for _, seg := range f.segs {
		w, ok := f.selfWeight(seg, nil)
		if !ok {
			missing = append(missing, seg.Member.ID)
			continue
		}
		wt := w * seg.Length()
		total += wt
		items = append(items, weighted{seg: seg, weight: wt, height: f.height(seg.Midpoint())})
	}
	if len(missing) > 0 {
		b.warn("%d member(s) without section area excluded from seismic weight: %s", len(missing), strings.Join(missing, ", "))
	}
	if total == 0 {
		b.warn("seismic weight is zero, no seismic loads generated")
		return b.result()
	}

	v := cs * total
	b.detail("seismicWeight", total)
	stories := assignStories(items, tol)

	var denom float64
	for _, s := range stories {
		denom += s.Weight * math.Pow(s.Height, k)
	}
	if denom == 0 {
		b.warn("all seismic weight is at the base, no story forces")
		return b.result()
	}

	axis := f.horizontalAxis(p.Direction, b)
	dir := model.Unit(axis, 1)
	for i := range stories {
		stories[i].Force = v * stories[i].Weight * math.Pow(stories[i].Height, k) / denom
	}
	for _, it := range items {
		s := stories[it.story]
		if s.Force == 0 {
			continue
		}
		b.pointLoad(asce7.Seismic, it.seg.Member.ID, dir, s.Force*it.weight/s.Weight, 0.5, fmt.Sprintf("LEVEL_%d", it.story+1))
	}

	b.res.Stories = stories
	b.detail("baseShear", v)
	return b.result()
}

// assignStories clusters member midpoint heights into levels. A level
// starts at the lowest unassigned height and takes every height within tol
// of that start. Level height is the mean of its member heights.
func assignStories(items []weighted, tol float64) []Story {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return items[order[a]].height < items[order[b]].height })

	var stories []Story
	var sums []float64
	start := math.Inf(-1)
	for _, i := range order {
		h := items[i].height
		if len(stories) == 0 || h-start > tol {
			start = h
			stories = append(stories, Story{})
			sums = append(sums, 0)
		}
		n := len(stories) - 1
		items[i].story = n
		stories[n].Weight += items[i].weight
		stories[n].Members++
		sums[n] += h
	}
	for i := range stories {
		stories[i].Height = sums[i] / float64(stories[i].Members)
	}
	return stories
}

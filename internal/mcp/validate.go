package mcp

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// Severity of a validation issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue codes
const (
	CodeEmptyModel         = "EMPTY_MODEL"
	CodeDanglingNode       = "DANGLING_NODE"
	CodeInvalidTag         = "INVALID_TAG"
	CodeInvalidHeight      = "INVALID_HEIGHT"
	CodeInvalidConfidence  = "INVALID_CONFIDENCE"
	CodeInvalidType        = "INVALID_BUILDING_TYPE"
	CodeLowConfidence      = "LOW_CONFIDENCE"
	CodeUnknownType        = "UNKNOWN_BUILDING_TYPE"
	CodeCraneNoLoadCase    = "CRANE_WITHOUT_LOAD_CASE"
	CodeAspectRatio        = "HIGH_ASPECT_RATIO"
	CodeMissingSection     = "MISSING_SECTION"
	CodeUnresolvedSection  = "UNRESOLVED_SECTION"
	CodeUnresolvedMaterial = "UNRESOLVED_MATERIAL"
	CodeHighRise           = "HIGH_RISE"
)

const maxPlanAspectRatio = 5.0

// Issue is a single validation finding
type Issue struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Target   string   `json:"target,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.Target == "" {
		return fmt.Sprintf("%s: %s", i.Code, i.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", i.Code, i.Target, i.Message)
}

// Validation is the outcome of the last validation pass
type Validation struct {
	IsValid  bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (v Validation) clone() Validation {
	return Validation{
		IsValid:  v.IsValid,
		Errors:   append([]Issue{}, v.Errors...),
		Warnings: append([]Issue{}, v.Warnings...),
	}
}

// Summary is a one-line description for logs
func (v Validation) Summary() string {
	if v.IsValid {
		return fmt.Sprintf("valid (%d warning(s))", len(v.Warnings))
	}
	codes := make([]string, 0, len(v.Errors))
	for _, e := range v.Errors {
		codes = append(codes, e.Code)
	}
	return fmt.Sprintf("invalid: %s", strings.Join(codes, ", "))
}

type validator struct {
	v Validation
}

func (vr *validator) fail(code, target, format string, args ...any) {
	vr.v.Errors = append(vr.v.Errors, Issue{Code: code, Severity: SeverityError, Target: target, Message: fmt.Sprintf(format, args...)})
}

func (vr *validator) warn(code, target, format string, args ...any) {
	vr.v.Warnings = append(vr.v.Warnings, Issue{Code: code, Severity: SeverityWarning, Target: target, Message: fmt.Sprintf(format, args...)})
}

// validate checks the model and derived state. Errors block locking,
// warnings never do.
func validate(m *model.StructuralModel, idx *model.Index, st *State, threshold float64) Validation {
	vr := &validator{v: Validation{Errors: []Issue{}, Warnings: []Issue{}}}

	if len(m.Nodes) == 0 || len(m.Members) == 0 {
		vr.fail(CodeEmptyModel, m.ID, "model has %d node(s) and %d member(s)", len(m.Nodes), len(m.Members))
	}

	for _, ref := range idx.DanglingReferences(m) {
		memberID, nodeID, _ := strings.Cut(ref, ":")
		vr.fail(CodeDanglingNode, memberID, "member %s references missing node %s", memberID, nodeID)
	}

	for _, id := range sortedKeys(st.MemberTags) {
		if tag := st.MemberTags[id]; !tag.Valid() {
			vr.fail(CodeInvalidTag, id, "member %s has unknown tag %q", id, tag)
		}
	}

	if len(m.Nodes) > 0 && st.Dimensions.TotalHeight <= 0 {
		vr.fail(CodeInvalidHeight, m.ID, "total height %.4g must be positive", st.Dimensions.TotalHeight)
	}

	if math.IsNaN(st.BuildingTypeConfidence) || st.BuildingTypeConfidence < 0 || st.BuildingTypeConfidence > 1 {
		vr.fail(CodeInvalidConfidence, "", "confidence %v is outside [0, 1]", st.BuildingTypeConfidence)
	}

	if !st.BuildingType.Valid() {
		vr.fail(CodeInvalidType, "", "unknown building type %q", st.BuildingType)
	}

	// warnings
	if st.BuildingTypeConfidence < threshold {
		vr.warn(CodeLowConfidence, "", "building type confidence %.2f is below %.2f", st.BuildingTypeConfidence, threshold)
	}
	if st.BuildingType == model.BuildingUnknown {
		vr.warn(CodeUnknownType, "", "building type is UNKNOWN; confirm it before calculating loads")
	}

	if hasCraneMembers(m, st.MemberTags) && !hasCraneLoadCase(m) {
		vr.warn(CodeCraneNoLoadCase, "", "crane members present but no CRANE load case is defined")
	}

	if ar := st.Dimensions.AspectRatio(); ar > maxPlanAspectRatio {
		vr.warn(CodeAspectRatio, "", "plan aspect ratio %.2f exceeds %.0f", ar, maxPlanAspectRatio)
	}

	for _, mb := range m.Members {
		if mb.SectionID == "" {
			vr.warn(CodeMissingSection, mb.ID, "member %s has no section", mb.ID)
		} else if _, ok := idx.Section(mb.SectionID); !ok {
			vr.warn(CodeUnresolvedSection, mb.ID, "member %s references missing section %s", mb.ID, mb.SectionID)
		}
		if mb.MaterialID != "" {
			if _, ok := idx.Material(mb.MaterialID); !ok {
				vr.warn(CodeUnresolvedMaterial, mb.ID, "member %s references missing material %s", mb.ID, mb.MaterialID)
			}
		}
	}

	if st.HeightClassification == asce7.HighRise {
		vr.warn(CodeHighRise, "", "total height %.4g exceeds the mid-rise limit; simplified procedures may not apply", st.Dimensions.TotalHeight)
	}

	vr.v.IsValid = len(vr.v.Errors) == 0
	return vr.v
}

func hasCraneMembers(m *model.StructuralModel, tags map[string]model.MemberTag) bool {
	for _, mb := range m.Members {
		if mb.Type == model.TypeCraneBeam || tags[mb.ID].IsCrane() {
			return true
		}
	}
	return false
}

func hasCraneLoadCase(m *model.StructuralModel) bool {
	for _, lc := range m.LoadCases {
		if strings.EqualFold(lc.Type, "CRANE") {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

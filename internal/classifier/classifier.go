package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abaw1984/azload-sub000/internal/model"
	"golang.org/x/sync/errgroup"
)

// Classifier suggests a building type and member tags for a model.
// Suggestions are advisory; the MCP decides what to keep.
type Classifier interface {
	ClassifyBuilding(ctx context.Context, m *model.StructuralModel) (BuildingClassification, error)
	ClassifyMembers(ctx context.Context, m *model.StructuralModel) (map[string]model.MemberTag, error)
}

// BuildingClassification is a suggested building type with its confidence
type BuildingClassification struct {
	BuildingType model.BuildingType `json:"buildingType"`
	Confidence   float64            `json:"confidence"`
}

// Default is the classification used when no classifier answers
var Default = BuildingClassification{BuildingType: model.BuildingUnknown, Confidence: 0}

// UnavailableError reports that the classifier could not produce an answer.
// Callers log it and continue with Default.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("classifier unavailable (%s): %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Result bundles both answers of a classification run. BuildingAnswered and
// TagsAnswered report which calls succeeded; a fallback value is never an
// answer.
type Result struct {
	Building         BuildingClassification
	Tags             map[string]model.MemberTag
	BuildingAnswered bool
	TagsAnswered     bool
}

// Classify runs both calls concurrently. Each call falls back
// independently: a failed building call yields Default, a failed member call
// an empty tag map. The returned error is informational only.
func Classify(ctx context.Context, c Classifier, m *model.StructuralModel) (Result, error) {
	res := Result{Building: Default, Tags: map[string]model.MemberTag{}}
	if c == nil {
		return res, &UnavailableError{Op: "classify", Err: fmt.Errorf("no classifier configured")}
	}

	var (
		g          errgroup.Group
		bc         BuildingClassification
		tags       map[string]model.MemberTag
		bErr, tErr error
	)
	g.Go(func() error {
		bc, bErr = c.ClassifyBuilding(ctx, m)
		return nil
	})
	g.Go(func() error {
		tags, tErr = c.ClassifyMembers(ctx, m)
		return nil
	})
	_ = g.Wait()

	var errs []error
	if bErr != nil {
		errs = append(errs, wrap("classify-building", bErr))
	} else {
		res.Building = bc
		res.BuildingAnswered = true
	}
	if tErr != nil {
		errs = append(errs, wrap("classify-members", tErr))
	} else {
		res.TagsAnswered = true
		if tags != nil {
			res.Tags = tags
		}
	}

	return res, joinUnavailable(errs)
}

func wrap(op string, err error) error {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Op: op, Err: err}
}

// joinUnavailable keeps the *UnavailableError shape for a single failure so
// callers can errors.As it, and joins two.
func joinUnavailable(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &UnavailableError{Op: "classify", Err: errors.Join(errs...)}
	}
}

package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Abaw1984/azload-sub000/internal/model"
)

// HTTPClassifier talks to the remote classification service
type HTTPClassifier struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClassifier creates a client for baseURL. The per-request deadline
// comes from the caller's context; timeout bounds the transport as well.
func NewHTTPClassifier(baseURL string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type buildingResponse struct {
	BuildingType  model.BuildingType `json:"buildingType"`
	SuggestedType model.BuildingType `json:"suggestedType"`
	Confidence    float64            `json:"confidence"`
}

type membersResponse struct {
	MemberTags map[string]model.MemberTag `json:"memberTags"`
}

// ClassifyBuilding posts the model to /classify-building
func (c *HTTPClassifier) ClassifyBuilding(ctx context.Context, m *model.StructuralModel) (BuildingClassification, error) {
	var resp buildingResponse
	if err := c.post(ctx, "/classify-building", m, &resp); err != nil {
		return Default, &UnavailableError{Op: "classify-building", Err: err}
	}

	bt := resp.BuildingType
	if bt == "" {
		bt = resp.SuggestedType
	}
	if bt == "" {
		return Default, &UnavailableError{Op: "classify-building", Err: fmt.Errorf("response carries no building type")}
	}
	return BuildingClassification{BuildingType: bt, Confidence: resp.Confidence}, nil
}

// ClassifyMembers posts the model to /classify-members
func (c *HTTPClassifier) ClassifyMembers(ctx context.Context, m *model.StructuralModel) (map[string]model.MemberTag, error) {
	var resp membersResponse
	if err := c.post(ctx, "/classify-members", m, &resp); err != nil {
		return map[string]model.MemberTag{}, &UnavailableError{Op: "classify-members", Err: err}
	}
	if resp.MemberTags == nil {
		return map[string]model.MemberTag{}, nil
	}
	return resp.MemberTags, nil
}

func (c *HTTPClassifier) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(map[string]any{"model": body})
	if err != nil {
		return fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/exchange"
	"github.com/Abaw1984/azload-sub000/internal/loads"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

type errorResponse struct {
	Error  string      `json:"error"`
	Issues []mcp.Issue `json:"issues,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeMCPError maps MCP and engine errors onto status codes
func (s *Server) writeMCPError(w http.ResponseWriter, err error) {
	var (
		locked  *mcp.LockedStateError
		invalid *mcp.ValidationError
	)
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Issues: invalid.Issues})
	case errors.As(err, &locked):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, mcp.ErrNoModel):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, mcp.ErrUnknownMember):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, exchange.ErrUnsupportedIdentifier):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, loads.ErrNotLocked),
		errors.Is(err, loads.ErrInvalidMCP),
		errors.Is(err, loads.ErrMissingBuildingType),
		errors.Is(err, loads.ErrStaleSnapshot):
		writeError(w, http.StatusConflict, err)
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	return data, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := s.readBody(w, r)
	if err == nil {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

// persist saves the MCP when a recorder is configured. Failures are logged.
func (s *Server) persist(r *http.Request, c *mcp.MCP) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.SaveMCP(r.Context(), c); err != nil {
		s.logger.Warn("mcp not persisted", "model_id", c.ModelID(), "error", err)
	}
}

func (s *Server) handleLoadModel(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m, err := model.DecodeJSON(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	c := s.session.Load(m)
	if s.classifier != nil && r.URL.Query().Get("classify") != "false" {
		if err := c.Reclassify(r.Context(), s.classifier); err != nil {
			s.logger.Warn("classification unavailable, using defaults", "model_id", m.ID, "error", err)
		}
	}
	s.persist(r, c)
	writeJSON(w, http.StatusCreated, c.Snapshot())
}

func (s *Server) handleGetMCP(w http.ResponseWriter, r *http.Request) {
	c, err := s.session.Current()
	if err != nil {
		s.writeMCPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	c, err := s.session.Current()
	if err != nil {
		s.writeMCPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Validate())
}

type buildingTypeRequest struct {
	BuildingType model.BuildingType `json:"buildingType"`
}

func (s *Server) handleBuildingType(w http.ResponseWriter, r *http.Request) {
	var req buildingTypeRequest
	if !s.decode(w, r, &req) {
		return
	}
	c, err := s.session.Current()
	if err != nil {
		s.writeMCPError(w, err)
		return
	}
	if err := c.UpdateBuildingType(req.BuildingType, true); err != nil {
		s.writeMCPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

type memberTagsRequest struct {
	MemberTags map[string]model.MemberTag `json:"memberTags"`
}

// handleMemberTags applies the tags in member id order and stops at the
// first rejected one
func (s *Server) handleMemberTags(w http.ResponseWriter, r *http.Request) {
	var req memberTagsRequest
	if !s.decode(w, r, &req) {
		return
	}
	c, err := s.session.Current()
	if err != nil {
		s.writeMCPError(w, err)
		return
	}
	for _, id := range slices.Sorted(maps.Keys(req.MemberTags)) {
		if err := c.UpdateMemberTag(id, req.MemberTags[id], true); err != nil {
			s.writeMCPError(w, fmt.Errorf("member %s: %w", id, err))
			return
		}
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	c, err := s.session.Current()
	if err != nil {
		s.writeMCPError(w, err)
		return
	}
	if err := c.Lock(); err != nil {
		s.writeMCPError(w, err)
		return
	}
	s.persist(r, c)
	writeJSON(w, http.StatusOK, c.Snapshot())
}

func (s *Server) handleReclassify(w http.ResponseWriter, r *http.Request) {
	c, err := s.session.Current()
	if err != nil {
		s.writeMCPError(w, err)
		return
	}
	if s.classifier == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("no classifier configured"))
		return
	}
	if err := <-s.session.ReclassifyAsync(r.Context(), s.classifier); err != nil {
		var locked *mcp.LockedStateError
		if errors.As(err, &locked) {
			s.writeMCPError(w, err)
			return
		}
		s.logger.Warn("classification degraded", "model_id", c.ModelID(), "error", err)
	}
	writeJSON(w, http.StatusOK, c.Snapshot())
}

type loadsRequest struct {
	Types      []asce7.LoadType `json:"types,omitempty"`
	Method     asce7.Method     `json:"method,omitempty"`
	Parameters json.RawMessage  `json:"parameters,omitempty"`
}

type loadsResponse struct {
	RunID        string               `json:"runId,omitempty"`
	Results      []*loads.Result      `json:"results"`
	Combinations []loads.CombinedLoad `json:"combinations"`
	Governing    *loads.CombinedLoad  `json:"governing,omitempty"`
}

// handleLoads seeds parameters from the locked MCP and the site defaults,
// overlays the request's parameters and runs the engine
func (s *Server) handleLoads(w http.ResponseWriter, r *http.Request) {
	var req loadsRequest
	if !s.decode(w, r, &req) {
		return
	}
	method, err := parseMethod(req.Method)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := s.engine.Snapshot(s.session)
	if err != nil {
		s.writeMCPError(w, err)
		return
	}
	ps := loads.DefaultParameters(snap, s.site)
	if len(req.Parameters) > 0 {
		if err := json.Unmarshal(req.Parameters, &ps); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("parsing parameters: %w", err))
			return
		}
	}

	results, err := s.engine.Run(r.Context(), s.session, ps.Only(req.Types...).List()...)
	if err != nil {
		s.writeMCPError(w, err)
		return
	}

	resp := loadsResponse{
		Results:      results,
		Combinations: loads.GenerateCombinations(results, method),
	}
	if gov, ok := loads.Governing(resp.Combinations); ok {
		resp.Governing = &gov
	}
	if s.recorder != nil {
		runID, err := s.recorder.SaveResults(r.Context(), snap.ModelID, results)
		if err != nil {
			s.logger.Warn("results not persisted", "model_id", snap.ModelID, "error", err)
		}
		resp.RunID = runID
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseMethod(m asce7.Method) (asce7.Method, error) {
	switch asce7.Method(strings.ToUpper(string(m))) {
	case "", asce7.LRFD:
		return asce7.LRFD, nil
	case asce7.ASD:
		return asce7.ASD, nil
	}
	return "", fmt.Errorf("unknown combination method %q", m)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := exchange.ParseFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := s.session.Current()
	if err != nil {
		s.writeMCPError(w, err)
		return
	}

	var out string
	switch format {
	case exchange.FormatSAP2000:
		out, err = c.ExportToSAP2000()
	default:
		out, err = c.ExportToSTAAD()
	}
	if err != nil {
		s.writeMCPError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.ModelID()+format.Extension()))
	io.WriteString(w, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	status := map[string]any{"status": "ok"}
	if c, err := s.session.Current(); err == nil {
		status["modelId"] = c.ModelID()
		status["locked"] = c.IsLocked()
	}
	writeJSON(w, http.StatusOK, status)
}

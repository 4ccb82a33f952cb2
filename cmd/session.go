package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Abaw1984/azload-sub000/internal/asce7"
	"github.com/Abaw1984/azload-sub000/internal/config"
	"github.com/Abaw1984/azload-sub000/internal/loads"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
	"github.com/Abaw1984/azload-sub000/internal/model"
)

// modelFlags are the model and override flags shared by the commands that
// build an MCP from a file
type modelFlags struct {
	file         string
	buildingType string
	tags         []string
	noClassify   bool
}

func (f *modelFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.file, "file", "f", "", "Parsed structural model (JSON or YAML) [required]")
	c.Flags().StringVar(&f.buildingType, "set-type", "", "Override the building type (e.g. INDUSTRIAL_WAREHOUSE)")
	c.Flags().StringArrayVar(&f.tags, "tag", nil, "Override a member tag as id=TAG (repeatable)")
	c.Flags().BoolVar(&f.noClassify, "no-classify", false, "Skip the classifier and start from UNKNOWN")
	c.MarkFlagRequired("file")
}

// openSession loads the model into a new session, classifies it and applies
// the manual overrides in the order given
func openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, f modelFlags) (*mcp.Session, *mcp.MCP, error) {
	m, err := model.LoadFile(f.file)
	if err != nil {
		return nil, nil, err
	}

	session := mcp.NewSession(cfg.MCPOptions(logger, nil, nil))
	c := session.Load(m)

	if cl := cfg.NewClassifier(); cl != nil && !f.noClassify {
		if err := c.Reclassify(ctx, cl); err != nil {
			logger.Warn("classification unavailable, using defaults", "model_id", m.ID, "error", err)
		}
	}

	if f.buildingType != "" {
		bt := model.BuildingType(strings.ToUpper(f.buildingType))
		if !bt.Valid() {
			return nil, nil, fmt.Errorf("unknown building type %q", f.buildingType)
		}
		if err := c.UpdateBuildingType(bt, true); err != nil {
			return nil, nil, err
		}
	}

	for _, kv := range f.tags {
		id, tag, ok := strings.Cut(kv, "=")
		if !ok || id == "" || tag == "" {
			return nil, nil, fmt.Errorf("tag %q: expected id=TAG", kv)
		}
		if err := c.UpdateMemberTag(id, model.MemberTag(strings.ToUpper(tag)), true); err != nil {
			return nil, nil, fmt.Errorf("tag %s: %w", id, err)
		}
	}
	return session, c, nil
}

// lockMCP locks c, printing the blocking issues when validation refuses
func lockMCP(out io.Writer, c *mcp.MCP) error {
	err := c.Lock()
	var invalid *mcp.ValidationError
	if errors.As(err, &invalid) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "LOCK REFUSED:")
		fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
		for _, is := range invalid.Issues {
			fmt.Fprintf(out, "  ✗ %s\n", is)
		}
		fmt.Fprintln(out)
	}
	return err
}

// loadFlags select and parameterize the calculators
type loadFlags struct {
	paramFile string
	types     []string
}

func (f *loadFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.paramFile, "params", "p", "", "Parameter overrides (YAML, keyed by load type)")
	c.Flags().StringSliceVarP(&f.types, "type", "t", nil, "Load types to calculate (dead,live,snow,wind,seismic,crane); default all")
}

func (f loadFlags) loadTypes() ([]asce7.LoadType, error) {
	var out []asce7.LoadType
	for _, s := range f.types {
		lt := asce7.LoadType(strings.ToUpper(strings.TrimSpace(s)))
		known := false
		for _, t := range asce7.LoadTypes {
			known = known || t == lt
		}
		if !known {
			return nil, fmt.Errorf("unknown load type %q", s)
		}
		out = append(out, lt)
	}
	return out, nil
}

// runLoads locks the session's MCP and runs the selected calculators
// against site defaults overlaid with the parameter file
func runLoads(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, session *mcp.Session, c *mcp.MCP, f loadFlags) (*mcp.Snapshot, []*loads.Result, error) {
	types, err := f.loadTypes()
	if err != nil {
		return nil, nil, err
	}
	if err := lockMCP(out, c); err != nil {
		return nil, nil, err
	}

	engine := loads.NewEngine(logger, nil)
	snap, err := engine.Snapshot(session)
	if err != nil {
		return nil, nil, err
	}
	ps := loads.DefaultParameters(snap, cfg.Site)
	if f.paramFile != "" {
		if ps, err = loads.LoadParameterFile(f.paramFile, ps); err != nil {
			return nil, nil, err
		}
	}

	results, err := engine.Run(ctx, session, ps.Only(types...).List()...)
	if err != nil {
		return nil, nil, err
	}
	return snap, results, nil
}

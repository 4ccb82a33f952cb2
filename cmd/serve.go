package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Abaw1984/azload-sub000/internal/classifier"
	"github.com/Abaw1984/azload-sub000/internal/config"
	"github.com/Abaw1984/azload-sub000/internal/loads"
	"github.com/Abaw1984/azload-sub000/internal/mcp"
	"github.com/Abaw1984/azload-sub000/internal/metrics"
	"github.com/Abaw1984/azload-sub000/internal/model"
	"github.com/Abaw1984/azload-sub000/internal/server"
	"github.com/Abaw1984/azload-sub000/internal/store"
)

var (
	serveAddr  string
	serveModel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP and load engine over HTTP",
	Long: `Start the JSON API. The session holds one model at a time; POST a model
to /api/models to replace it.

When store.dsn is configured (or AZLOAD_STORE_DSN is set) MCP records,
override audit entries and load results are persisted. A store that cannot
be reached is logged and the server runs without persistence.

Examples:
  azload serve --addr :9090
  AZLOAD_STORE_DSN=sqlite://azload.db azload serve -f warehouse.json`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().StringVarP(&serveModel, "file", "f", "", "Model to load at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	reg := metrics.NewRegistry()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := server.Options{
		Engine:       loads.NewEngine(logger, reg),
		Classifier:   cfg.NewClassifier(),
		Site:         cfg.Site,
		Logger:       logger,
		Metrics:      reg,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}

	var sink mcp.OverrideSink
	st := openStore(ctx, cfg, logger, reg)
	if st != nil {
		defer st.Close()
		sink = st
		opts.Recorder = st
	}
	opts.Session = mcp.NewSession(cfg.MCPOptions(logger, reg, sink))

	if serveModel != "" {
		if err := preload(ctx, opts.Session, opts.Classifier, st, serveModel, logger); err != nil {
			return err
		}
	}

	srv := server.New(opts)
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout)
}

// openStore returns nil when no DSN is configured or the store is unavailable
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *metrics.Registry) *store.Store {
	if cfg.Store.DSN == "" {
		return nil
	}
	st, err := store.Open(ctx, cfg.Store.DSN, logger, reg)
	if err != nil {
		logger.Warn("running without persistence", "error", err)
		return nil
	}
	logger.Info("store opened", "driver", st.Driver())
	return st
}

// preload installs the model at path, restoring its stored MCP when one
// exists
func preload(ctx context.Context, session *mcp.Session, cl classifier.Classifier, st *store.Store, path string, logger *slog.Logger) error {
	m, err := model.LoadFile(path)
	if err != nil {
		return err
	}

	if st != nil {
		c, err := st.RestoreMCP(ctx, m, session.Options())
		switch {
		case err == nil:
			session.Adopt(c)
			logger.Info("mcp restored", "model_id", m.ID, "version", c.Version(), "locked", c.IsLocked())
			return nil
		case !errors.Is(err, store.ErrNotFound):
			logger.Warn("stored mcp not restored", "model_id", m.ID, "error", err)
		}
	}

	c := session.Load(m)
	if cl != nil {
		if err := c.Reclassify(ctx, cl); err != nil {
			logger.Warn("classification unavailable, using defaults", "model_id", m.ID, "error", err)
		}
	}
	if st != nil {
		if err := st.SaveMCP(ctx, c); err != nil {
			logger.Warn("mcp not persisted", "model_id", m.ID, "error", err)
		}
	}
	return nil
}

package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/courtpipe/courtpipe/internal/pipeline"
	"github.com/courtpipe/courtpipe/internal/refdata"
	"github.com/courtpipe/courtpipe/internal/store"
)

// pipelineEnv holds the initialized store, reference tables, and pipeline
// needed by the enhance/verify/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Tables   *refdata.Tables
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "courtpipe.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store, loads the reference tables, and builds the
// Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	tables, err := refdata.Load(cfg.Refdata.CourtsPath, cfg.Refdata.JudgesPath, cfg.Refdata.ReportersPath)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "load reference tables")
	}

	zap.L().Info("reference tables loaded",
		zap.Int("courts", len(tables.Courts.Codes)),
		zap.Int("judges", len(tables.Judges.Entries)),
		zap.Int("reporters", len(tables.Reporters.Canonical)),
	)

	return &pipelineEnv{
		Store:    st,
		Tables:   tables,
		Pipeline: pipeline.New(cfg, st, tables),
	}, nil
}

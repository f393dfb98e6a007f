package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/runnerr0/milestones/internal/app"
	"github.com/runnerr0/milestones/internal/config"
	"github.com/runnerr0/milestones/internal/logging"
	"github.com/runnerr0/milestones/internal/metrics"
	"github.com/runnerr0/milestones/internal/milestone"
	"github.com/runnerr0/milestones/internal/storage"
)

// env is everything a command needs to run against the configured store.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	store   *storage.MilestoneStore
	session *app.Session
}

func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("closing store", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// loadConfig resolves the config file.
// Priority: --config flag > default config (created on first run).
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// openEnv loads config, connects the storage backend and opens a session.
func openEnv(ctx context.Context, globals *GlobalFlags) (*env, error) {
	cfg, err := loadConfig(globals)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.Logging
	if globals != nil && globals.Verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	e := &env{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
		store:   storage.NewMilestoneStore(kv, cfg.Storage.Key),
	}

	e.session, err = newSession(ctx, e.store, cfg, logger, e.metrics)
	if err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// newSession opens the repository over store and wraps it in a session.
func newSession(ctx context.Context, store milestone.Storage, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*app.Session, error) {
	opts := []milestone.Option{
		milestone.WithLogger(logger),
		milestone.WithDateOrder(cfg.Validation.EnforceDateOrder),
	}
	sessOpts := []app.Option{
		app.WithLogger(logger),
		app.WithTimeUnit(cfg.Chart.TimeUnit),
	}
	if m != nil {
		opts = append(opts, milestone.WithObserver(m))
		sessOpts = append(sessOpts, app.WithChartRecorder(m))
	}

	repo, err := milestone.Open(ctx, store, opts...)
	if err != nil {
		return nil, fmt.Errorf("load milestones: %w", err)
	}
	return app.NewSession(repo, sessOpts...), nil
}

// describeError turns domain errors into messages a user can act on.
func describeError(err error) error {
	var verr *milestone.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("invalid milestone: %s: %s", strings.Join(verr.Fields, ", "), verr.Reason)
	}
	var nf *milestone.NotFoundError
	if errors.As(err, &nf) {
		return fmt.Errorf("milestone not found: %s", nf.ID)
	}
	var derr *milestone.InvalidDateError
	if errors.As(err, &derr) {
		return fmt.Errorf("milestone %s has an invalid %s date %q", derr.MilestoneID, derr.Field, derr.Value)
	}
	return err
}

// warnPersist reports a save failure without failing the command; the
// change is still applied for the rest of the process.
func warnPersist(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "warning: changes could not be saved: %v\n", err)
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printMilestone prints a one-line summary used by list and add.
func printMilestone(m milestone.Milestone) {
	fmt.Printf("%s  %s → %s  [%s] %s\n", m.ID, m.Start, m.End, m.Timeline, m.Title)
}

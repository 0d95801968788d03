package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"treasurecove/internal/adapters/notify"
	"treasurecove/internal/adapters/perf"
	"treasurecove/internal/adapters/storage"
	"treasurecove/internal/adapters/storage/gateway"
	"treasurecove/internal/adapters/storage/kv"
	"treasurecove/internal/application/workspace"
	"treasurecove/internal/config"
)

// Runtime is the opened store and workspace behind one invocation.
type Runtime struct {
	Workspace *workspace.Workspace
	Collector *perf.Collector
	db        *storage.TimedDB
}

// OpenRuntime opens the store named by cfg and loads the workspace from it.
// PRE: cfg has been validated
// POST: Caller must Close the runtime
func OpenRuntime(ctx context.Context, cfg config.Config, notifier notify.Notifier) (*Runtime, error) {
	db, err := storage.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	collector := perf.NewCollector(perf.DefaultRingSize)
	timed := storage.NewTimedDB(db, collector, cfg.Store.SlowQueryMs)

	gw := gateway.New(kv.NewSQLiteStore(timed), gateway.Options{
		KeyPrefix:  cfg.Store.KeyPrefix,
		BcryptCost: cfg.Security.BcryptCost,
		Collector:  collector,
	})
	ws, err := workspace.New(ctx, workspace.Deps{
		Gateway:          gw,
		Notifier:         notifier,
		Collector:        collector,
		IdleTimeout:      cfg.Session.IdleTimeout,
		MaxLifetime:      cfg.Session.MaxLifetime,
		ActivityCapacity: cfg.Activity.Capacity,
		BcryptCost:       cfg.Security.BcryptCost,
	})
	if err != nil {
		timed.Close()
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	slog.Debug("store_event", "event", "opened", "path", cfg.Store.Path, "schema", storage.LatestSchemaVersion())
	return &Runtime{Workspace: ws, Collector: collector, db: timed}, nil
}

// Close releases the store.
func (r *Runtime) Close() error {
	return r.db.Close()
}

// BuildNotifier prints notifications to out and, when an API key and
// recipients are configured, emails those at or above the configured severity.
func BuildNotifier(cfg config.NotifyConfig, out io.Writer) (notify.Notifier, error) {
	targets := notify.Multi{notify.NewWriter(out, notify.SeverityInfo)}
	if cfg.ResendAPIKey == "" || len(cfg.To) == 0 {
		return targets, nil
	}
	threshold, err := notify.ParseSeverity(cfg.MinSeverity)
	if err != nil {
		return nil, fmt.Errorf("notify.min_severity: %w", err)
	}
	targets = append(targets, notify.NewEmail(notify.NewResendSender(cfg.ResendAPIKey), cfg.From, cfg.To, threshold))
	slog.Debug("notify_event", "event", "email_enabled", "recipients", len(cfg.To), "min_severity", threshold.String())
	return targets, nil
}

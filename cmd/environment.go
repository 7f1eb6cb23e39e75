package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/thingdock/internal/catalog"
	"github.com/zjrosen/thingdock/internal/config"
	"github.com/zjrosen/thingdock/internal/filter"
	"github.com/zjrosen/thingdock/internal/flags"
	"github.com/zjrosen/thingdock/internal/infrastructure/sqlite"
	"github.com/zjrosen/thingdock/internal/log"
	"github.com/zjrosen/thingdock/internal/navigation"
	"github.com/zjrosen/thingdock/internal/paths"
	"github.com/zjrosen/thingdock/internal/thing"
	"github.com/zjrosen/thingdock/internal/tracing"
	"github.com/zjrosen/thingdock/internal/ui/markdown"
	"github.com/zjrosen/thingdock/internal/ui/shell"
	"github.com/zjrosen/thingdock/internal/views/viewkit"
	"github.com/zjrosen/thingdock/internal/watcher"
)

// environment is everything a command needs to drive the navigator against
// a database.
type environment struct {
	db       *sqlite.DB
	repo     *sqlite.ThingRepository
	session  *thing.Session
	watcher  *watcher.Watcher
	tracer   *tracing.Provider
	flags    *flags.Registry
	filter   *filter.Service
	host     *shell.Host
	registry *navigation.Registry
	nav      *navigation.Navigator
}

// openStore opens the configured database and wraps it in a session.
func openStore(cfg config.Config) (*sqlite.DB, *sqlite.ThingRepository, *thing.Session, error) {
	dbPath := paths.ResolveDBPath(cfg.DBPath)
	db, err := sqlite.NewDB(dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}
	repo := sqlite.NewCachedThingRepository(db)
	return db, repo, thing.NewSession("sqlite:"+dbPath, repo), nil
}

// buildRegistry loads the catalog manifest and registers every enabled
// provider against env.
func buildRegistry(cfg config.Config, env viewkit.Env) (*navigation.Registry, error) {
	manifest, err := catalog.Load(paths.ExpandHome(cfg.Catalog))
	if err != nil {
		return nil, err
	}
	return catalog.Build(env, manifest)
}

func openEnvironment(ctx context.Context, cfg config.Config) (*environment, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	env := &environment{
		flags:  flags.New(cfg.Flags),
		filter: filter.NewService(),
	}

	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("starting tracing: %w", err)
	}
	env.tracer = tp

	env.db, env.repo, env.session, err = openStore(cfg)
	if err != nil {
		env.Close()
		return nil, err
	}

	env.host = shell.NewHost(ctx)

	if cfg.AutoRefresh && env.flags.Enabled(flags.FlagWatchDB) {
		w, werr := watcher.New(watcher.DefaultConfig(env.db.Path()))
		if werr == nil {
			werr = w.Start()
		}
		if werr != nil {
			log.ErrorErr(log.CatWatcher, "auto-refresh disabled", werr)
		} else {
			env.watcher = w
			watcher.Bridge(env.host.Context(), w, env.repo, env.session)
		}
	}

	env.registry, err = buildRegistry(cfg, viewkit.Env{
		Host:     env.host,
		Markdown: markdown.NewCache(cfg.UI.MarkdownStyle),
		Flags:    env.flags,
	})
	if err != nil {
		env.Close()
		return nil, err
	}

	env.nav = navigation.New(env.registry,
		navigation.WithFilterService(env.filter),
		navigation.WithDirtyConfirmation(cfg.Dock.ConfirmDirtyClose),
		navigation.WithTracerProvider(tp.TracerProvider()),
	)
	return env, nil
}

func (e *environment) shellOptions(cfg config.Config) shell.Options {
	return shell.Options{
		Navigator: e.nav,
		Host:      e.host,
		Session:   e.session,
		Filter:    e.filter,
		Flags:     e.flags,
		UI:        cfg.UI,
		Dock:      cfg.Dock,
	}
}

// Close tears the environment down in reverse order of construction.
func (e *environment) Close() {
	if e.nav != nil {
		e.nav.Shutdown()
	}
	if e.host != nil {
		e.host.Shutdown()
	}
	if e.watcher != nil {
		if err := e.watcher.Stop(); err != nil {
			log.ErrorErr(log.CatWatcher, "stopping watcher", err)
		}
	}
	if e.session != nil {
		e.session.Close()
	}
	if e.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := e.tracer.Shutdown(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			log.ErrorErr(log.CatTrace, "flushing traces", err)
		}
		cancel()
	}
	if e.db != nil {
		if err := e.db.Close(); err != nil {
			log.ErrorErr(log.CatStore, "closing database", err)
		}
	}
}

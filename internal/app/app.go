// Package app wires together all adapters and domain logic.
// It owns the live ratings store and request queue, applies every mutation
// copy-on-write with write-through persistence, and manages the lifecycle of
// the local API server and import inbox.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/corey/califica/internal/adapters/bbolt"
	fsw "github.com/corey/califica/internal/adapters/fsnotify"
	"github.com/corey/califica/internal/adapters/web"
	"github.com/corey/califica/internal/apperr"
	"github.com/corey/califica/internal/config"
	"github.com/corey/califica/internal/domain/ratings"
	"github.com/corey/califica/internal/domain/requests"
	"github.com/corey/califica/internal/ports"
)

// App is the top-level container wiring all components together.
type App struct {
	ProjectRoot string
	Paths       *Paths
	Store       ports.Storage
	WebServer   *web.Server
	Watcher     ports.Watcher

	mu       sync.Mutex
	ratings  *ratings.Store // replaced wholesale, never mutated in place
	requests requests.List
	theme    string

	roster   ratings.Roster
	base     []string
	noSeed   bool
	adminPin string
	httpPort int
	inboxDir string
	now      func() time.Time
}

// Config holds initialization parameters for the App.
type Config struct {
	ProjectRoot string
	DBPath      string // path to bbolt file (default: .califica/califica.db)
	HTTPPort    int    // preferred HTTP port (default: computed from project root)
	AdminPin    string // default: config.DefaultAdminPin
	InboxDir    string // watched import directory (default: .califica/inbox)
	NoSeed      bool   // skip the seed roster on load

	// Roster and BaseCourses default to ratings.DefaultRoster and
	// ratings.BaseCourses.
	Roster      ratings.Roster
	BaseCourses []string

	Now func() time.Time // clock for review and request timestamps
}

// New opens storage and loads persisted state. Does not start services.
func New(cfg Config) (*App, error) {
	if cfg.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	paths := NewPaths(cfg.ProjectRoot)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DB
	}

	store, err := bbolt.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a, err := newApp(cfg, paths, store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

// newApp builds an App over an already opened storage.
func newApp(cfg Config, paths *Paths, store ports.Storage) (*App, error) {
	a := &App{
		ProjectRoot: cfg.ProjectRoot,
		Paths:       paths,
		Store:       store,
		roster:      cfg.Roster,
		base:        cfg.BaseCourses,
		noSeed:      cfg.NoSeed,
		adminPin:    cfg.AdminPin,
		httpPort:    cfg.HTTPPort,
		inboxDir:    cfg.InboxDir,
		now:         cfg.Now,
	}
	if a.roster == nil {
		a.roster = ratings.DefaultRoster
	}
	if a.base == nil {
		a.base = ratings.BaseCourses
	}
	if a.adminPin == "" {
		a.adminPin = config.DefaultAdminPin
	}
	if a.inboxDir == "" {
		a.inboxDir = paths.InboxDir
	}
	if a.now == nil {
		a.now = time.Now
	}
	if err := a.load(); err != nil {
		return nil, err
	}
	a.WebServer = web.NewServer(a, paths.PortFile)
	return a, nil
}

// load reads persisted state and normalises it. Without the seed, the stored
// store is still merged so the one-record-per-key rule holds.
func (a *App) load() error {
	stored, err := a.Store.LoadStore()
	if err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	if a.noSeed {
		a.ratings = ratings.Merge(stored)
	} else {
		a.ratings = ratings.Reconcile(stored, a.roster, a.base)
	}

	reqs, err := a.Store.LoadRequests()
	if err != nil {
		return fmt.Errorf("load requests: %w", err)
	}
	if reqs == nil {
		reqs = requests.List{}
	}
	a.requests = reqs

	theme, err := a.Store.LoadTheme()
	if err != nil {
		return fmt.Errorf("load theme: %w", err)
	}
	a.theme = normalizeTheme(theme)

	log.Debug().
		Int("courses", len(a.ratings.Courses)).
		Int("requests", len(a.requests)).
		Str("theme", a.theme).
		Msg("state loaded")
	return nil
}

// Start begins serving the local API and watching the import inbox.
func (a *App) Start() error {
	httpPort := a.httpPort
	if httpPort == 0 {
		httpPort = web.DefaultPort(a.ProjectRoot)
	}
	if err := a.WebServer.Start(httpPort); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	log.Info().Str("url", a.WebServer.URL()).Msg("api listening")

	// Inbox watching is non-fatal if setup fails
	if err := a.WatchInbox(); err != nil {
		log.Warn().Err(err).Str("dir", a.inboxDir).Msg("import inbox unavailable")
	}
	return nil
}

// Stop shuts down services and closes storage.
func (a *App) Stop() error {
	if a.Watcher != nil {
		a.Watcher.Stop()
	}
	a.WebServer.Stop()
	a.Paths.CleanEphemeral()
	return a.Store.Close()
}

// Close releases storage without touching services. For one-shot commands.
func (a *App) Close() error {
	return a.Store.Close()
}

// WatchInbox imports every snapshot dropped into the inbox directory.
func (a *App) WatchInbox() error {
	w, err := fsw.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Watch(a.inboxDir, a.onInboxFile); err != nil {
		w.Stop()
		return err
	}
	a.Watcher = w
	log.Info().Str("dir", a.inboxDir).Msg("watching import inbox")
	return nil
}

// InboxDir returns the watched import directory.
func (a *App) InboxDir() string {
	return a.inboxDir
}

// HTTPPort returns the configured or derived API port.
func (a *App) HTTPPort() int {
	if a.httpPort != 0 {
		return a.httpPort
	}
	return web.DefaultPort(a.ProjectRoot)
}

// DBPath returns the bbolt file in use, or "" for non-file storage.
func (a *App) DBPath() string {
	if s, ok := a.Store.(*bbolt.Store); ok {
		return s.Path()
	}
	return ""
}

// Wipe deletes all persisted data and resets in-memory state to a freshly
// seeded store.
func (a *App) Wipe() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.Store.Wipe(); err != nil {
		return apperr.NewInternalError("wipe storage", err)
	}
	if err := a.load(); err != nil {
		return apperr.NewInternalError("reload after wipe", err)
	}
	log.Info().Msg("data wiped")
	return nil
}

// persistErr logs and wraps a storage failure. The live state is untouched
// by the time it is called.
func persistErr(op string, err error) error {
	log.Error().Err(err).Str("op", op).Msg("persist failed")
	return apperr.NewInternalError(op, err)
}

package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mpetrenko/studyport/internal/client/api"
	"github.com/mpetrenko/studyport/internal/client/config"
	"github.com/mpetrenko/studyport/internal/client/doc"
	"github.com/mpetrenko/studyport/internal/client/repositories/metadata"
	"github.com/mpetrenko/studyport/internal/client/repositories/progress"
	"github.com/mpetrenko/studyport/internal/client/services"
	"github.com/mpetrenko/studyport/internal/client/telemetry"
	"github.com/mpetrenko/studyport/internal/client/viewer"
	"github.com/mpetrenko/studyport/internal/logging"

	_ "modernc.org/sqlite"

	"github.com/mpetrenko/studyport/internal/client/storage"
)

// Mode is the connectivity status shown in the prompt.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App wires the services together and carries the interactive session state:
// the logged-in user, connectivity mode and the currently open note view.
type App struct {
	config    *config.Config
	log       logging.Logger
	auth      services.AuthService
	catalog   services.CatalogService
	progress  services.ProgressService
	events    *telemetry.Reporter
	apiClient api.Client
	opener    doc.Opener
	renderer  doc.Renderer

	// Mode is shared between the REPL and the watcher goroutine.
	modeMu sync.Mutex
	Mode   Mode

	userEmail string
	view      *viewer.Viewer
	reader    *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	log := logging.NewDefault(os.Stderr, slog.LevelWarn)

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}

	metaRepo := metadata.NewSQLiteRepository(db)
	progRepo := progress.NewSQLiteRepository(db)

	tokens := services.NewTokenStore(db)
	apiClient := api.NewHTTPClient(c.ServerBaseURL, tokens, c.RequestTimeout, log)

	clientID, err := services.ClientID(ctx, metaRepo)
	if err != nil {
		return nil, err
	}

	return &App{
		config:    c,
		log:       log,
		auth:      services.NewAuthService(apiClient, tokens),
		catalog:   services.NewCatalogService(apiClient),
		progress:  services.NewProgressService(apiClient, progRepo, c.ProgressDebounce, log),
		events:    telemetry.NewReporter(apiClient, clientID, log),
		apiClient: apiClient,
		opener:    doc.PlainTextOpener{},
		renderer:  NewTerminalRenderer(os.Stdout),
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the REPL alongside the connectivity watcher and blocks until
// the user exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.StartOnlineStatusWatcher(gctx, a.config.OnlineCheckInterval)
		return nil
	})

	g.Go(func() error {
		defer cancel()
		a.Root(gctx)
		return nil
	})

	err := g.Wait()

	a.closeView()
	a.progress.Close()
	if cerr := a.auth.Close(context.Background()); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (a *App) isLoggedIn() bool {
	return a.auth.LoggedIn(context.Background())
}

func (a *App) isViewing() bool {
	return a.view != nil
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.Mode != mode
	if changed {
		a.Mode = mode
	}
	a.modeMu.Unlock()

	if changed {
		printlnFn("Switched to", string(mode), "mode")
	}
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

// closeView tears down the current note view, if any.
func (a *App) closeView() {
	if a.view != nil {
		a.view.Close()
		a.view = nil
	}
}

// StartOnlineStatusWatcher probes server reachability on a fixed interval and
// flips the connectivity mode accordingly. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.auth.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.mode() == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.mode() != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

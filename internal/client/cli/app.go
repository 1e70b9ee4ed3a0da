package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/namecard/internal/client/blob"
	"github.com/dmitrijs2005/namecard/internal/client/client"
	"github.com/dmitrijs2005/namecard/internal/client/config"
	"github.com/dmitrijs2005/namecard/internal/client/repositories"
	"github.com/dmitrijs2005/namecard/internal/client/services"
	"github.com/dmitrijs2005/namecard/internal/client/session"
	"github.com/dmitrijs2005/namecard/internal/cryptox"
	"github.com/dmitrijs2005/namecard/internal/filex"
	"github.com/dmitrijs2005/namecard/internal/logging"
	"github.com/dmitrijs2005/namecard/internal/metrics"
)

// maxAudioBytes bounds the recording read from disk by the create command.
const maxAudioBytes = 10 << 20

type App struct {
	config      *config.Config
	log         logging.Logger
	repos       *repositories.Repositories
	sessions    *session.Manager
	authService services.AuthService
	cardService services.CardService
	metrics     *metrics.HTTP
	reader      *bufio.Reader
	out         io.Writer
}

// NewApp opens the local database and builds the service stack described
// by c. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	if err := filex.EnsureParentDir(c.DatabasePath); err != nil {
		return nil, err
	}
	repos, err := repositories.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	sm := session.NewManager(session.NewSQLBackend(repos.DB), cryptox.ForPassphrase(c.SessionPassphrase))
	m := metrics.NewHTTP()
	api := client.NewRESTClient(c.Endpoints(), sm,
		client.WithHTTPClient(m.Client()),
		client.WithLogger(log.With("component", "client")),
	)

	var blobs blob.Store
	if c.StorageBackend == config.StorageS3 {
		s3cfg := c.S3()
		s3cfg.HTTPClient = m.Client()
		store, err := blob.NewS3Store(ctx, s3cfg)
		if err != nil {
			_ = repos.Close()
			return nil, err
		}
		blobs = store
	}

	return &App{
		config:      c,
		log:         log,
		repos:       repos,
		sessions:    sm,
		authService: services.NewAuthService(api, log.With("component", "auth")),
		cardService: services.NewCardService(api, blobs, c.ShareBaseURL, log.With("component", "cards")),
		metrics:     m,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

// Run restores a persisted session and serves the REPL until the user exits
// or stdin closes.
func (a *App) Run(ctx context.Context) {
	if _, err := a.sessions.Restore(ctx); err != nil {
		a.log.Warn(ctx, "could not restore session, signed out", "err", err)
	}

	fmt.Fprintln(a.out, "Welcome to namecard (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() error {
	if a.repos == nil {
		return nil
	}
	return a.repos.Close()
}

func (a *App) isLoggedIn() bool {
	_, ok := a.authService.CurrentUser()
	return ok
}

func (a *App) status() string {
	if u, ok := a.authService.CurrentUser(); ok {
		return u.Name()
	}
	return "guest"
}

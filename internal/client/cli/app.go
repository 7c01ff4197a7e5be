package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wombguard/wombguard-cli/internal/client/client"
	"github.com/wombguard/wombguard-cli/internal/client/config"
	"github.com/wombguard/wombguard-cli/internal/client/credstore"
	"github.com/wombguard/wombguard-cli/internal/client/gateway"
	"github.com/wombguard/wombguard-cli/internal/client/models"
	"github.com/wombguard/wombguard-cli/internal/client/remote"
	"github.com/wombguard/wombguard-cli/internal/client/services"
	"github.com/wombguard/wombguard-cli/internal/client/session"
	"github.com/wombguard/wombguard-cli/internal/cryptox"
	"github.com/wombguard/wombguard-cli/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// careService is the part of services.CareService the commands use.
type careService interface {
	Predict(ctx context.Context, data models.PatientData) (*models.PredictionResult, error)
	History(ctx context.Context) ([]models.RiskAssessment, error)
	Dashboard(ctx context.Context) ([]models.PredictionRecord, error)
	Stats(ctx context.Context) (*models.DashboardStatsResponse, error)
	Profile(ctx context.Context) (map[string]any, error)
	Chat(ctx context.Context, message string) (*models.ChatReply, error)
	NewConversation(ctx context.Context) (*models.Conversation, error)
	ChatHistory(ctx context.Context) ([]models.ChatMessage, error)
	ResetConversation()

	ProviderDashboard(ctx context.Context) (*models.ProviderDashboard, error)
	RequestConsultation(ctx context.Context, req models.ConsultationRequest) (*models.Consultation, error)
	Consultations(ctx context.Context) ([]models.Consultation, error)
	Consultation(ctx context.Context, id string) (*models.Consultation, error)
	RespondConsultation(ctx context.Context, id string, upd models.ConsultationUpdate) (*models.Consultation, error)
	ConsultationStats(ctx context.Context) (*models.ConsultationStats, error)
	Contact(ctx context.Context, msg models.ContactMessage) (string, error)
}

// adminService is the part of services.AdminService the commands use.
type adminService interface {
	Dashboard(ctx context.Context) (*models.AdminDashboard, error)
	ConsultationStats(ctx context.Context) (*models.ConsultationStats, error)
	CreateUser(ctx context.Context, req models.NewUserRequest) (*models.UserResponse, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.UserResponse, error)
	SetBlocked(ctx context.Context, id string, blocked bool) (*models.UserResponse, error)
	DeleteUser(ctx context.Context, id string) (*models.UserResponse, error)
}

// localData is the on-disk store as the forget command sees it.
type localData interface {
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// resolver runs the one identity resolution at start-up.
type resolver interface {
	Run(ctx context.Context) (*models.Identity, error)
}

type App struct {
	config    *config.Config
	log       logging.Logger
	auth      services.AuthService
	care      careService
	admin     adminService
	local     localData
	store     *session.Store
	sequencer resolver
	printer   *Printer
	reader    *bufio.Reader
	out       io.Writer
	closers   []io.Closer

	mu   sync.Mutex
	mode Mode
}

// NewApp wires storage, the gateway, the remote resolver and the services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	a := &App{
		config:  c,
		log:     log,
		store:   session.NewStore(),
		printer: NewPrinter(os.Stdout, os.Stderr, UseColors(c.ColorMode)),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}

	repo, closer, err := client.OpenMetadata(ctx, c.StoreDriver, c.StorePath, c.RedisURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closer)
	a.local = repo

	sealer, err := cryptox.NewSealer(c.CredentialKeyFile)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("credential key: %w", err)
	}
	creds := credstore.New(repo, sealer, log)

	teardown := session.NewTeardown(creds, a.store, session.NavigatorFunc(a.toLogin), log)
	gw, err := gateway.New(c.APIBaseURL, creds,
		gateway.WithTimeout(c.RequestTimeout),
		gateway.WithLogger(log),
		gateway.WithUnauthorizedHandler(teardown.Run),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	api := client.NewHTTPClient(gw)

	var sessions remote.SessionProvider
	if c.AuthProvider == "kratos" {
		sessions = remote.NewKratosProvider(c.KratosPublicURL, c.RequestTimeout, repo)
	}
	var profiles remote.ProfileSource
	if c.ProfileSource == "postgres" {
		pool, err := remote.ConnectPostgres(ctx, c.ProfileDatabaseDSN)
		if err != nil {
			// Remote resolution fails closed; a dead profile database only
			// means nobody is resolved from a provider session.
			log.Warn(ctx, "profile database unavailable", "error", err)
		} else {
			a.closers = append(a.closers, closerFunc(func() error { pool.Close(); return nil }))
			profiles = remote.NewPostgresProfiles(pool)
		}
	}
	res := remote.NewResolver(sessions, profiles, log)

	a.auth = services.NewAuthService(api, creds, a.store, res, log)
	a.care = services.NewCareService(api, a.store)
	a.admin = services.NewAdminService(api, a.store, log)
	a.sequencer = session.NewSequencer(a.store, log, session.DefaultStrategies(creds, res)...)
	return a, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Close releases the stores in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Run resolves the session, watches connectivity and serves the REPL until
// the user exits.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := a.sequencer.Run(gctx)
		return err
	})
	g.Go(func() error {
		a.StartOnlineStatusWatcher(gctx, a.config.OnlineCheckInterval)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return a.Root(gctx)
	})
	return g.Wait()
}

// toLogin is the navigator behind the 401 teardown. The identity is gone by
// the time it runs, so the next prompt is already the signed-out one; what
// is left is per-session state.
func (a *App) toLogin(ctx context.Context) {
	a.care.ResetConversation()
	a.log.Debug(ctx, "returned to login")
}

func (a *App) isLoggedIn() bool {
	return a.store.SignedIn()
}

func (a *App) role() models.Role {
	if id := a.store.Current(); id != nil {
		return id.Role
	}
	return ""
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// mode shown in the prompt.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			st, err := a.auth.Ping(pctx)
			cancel()

			if err != nil || !st.Healthy() {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	var parts []string
	if id := a.store.Current(); id != nil {
		parts = append(parts, id.DisplayName())
	}
	if m := a.Mode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

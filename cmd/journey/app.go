package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mynaturejourney/journey/pkg/api"
	"github.com/mynaturejourney/journey/pkg/config"
	pkgdb "github.com/mynaturejourney/journey/pkg/db"
	"github.com/mynaturejourney/journey/pkg/geocode"
	"github.com/mynaturejourney/journey/pkg/session"
	"github.com/mynaturejourney/journey/pkg/utils"
	"github.com/mynaturejourney/journey/pkg/wizard"
)

// loadConfig reads the environment and applies command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	return cfg, nil
}

// app holds everything a command needs to talk to the backend.
type app struct {
	cfg     *config.Config
	db      *sql.DB
	redis   *redis.Client
	hub     *session.Hub
	session *session.Session
	client  *api.Client
}

// openApp opens the session store, restores the session and builds the API client.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	path, err := utils.ResolveAndEnsureDBPath(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	dbConn, err := pkgdb.Open(path, walMode, syncMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	a := &app{cfg: cfg, db: dbConn}
	if cfg.RedisEnabled() {
		a.redis = session.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password)
	}
	a.hub = session.NewHub(a.redis)

	a.session, err = session.Open(cmd.Context(), session.NewStore(dbConn), a.hub)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	a.client = api.New(cfg.APIURL,
		api.WithSession(a.session),
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	return a, nil
}

func (a *app) Close() {
	if a.session != nil {
		a.session.Close()
	}
	if a.hub != nil {
		a.hub.Close()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		if _, err := a.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: WAL checkpoint failed during close: %v\n", err)
		}
		a.db.Close()
	}
}

func (a *app) geocoder() *geocode.Client {
	return geocode.New(a.cfg.GeocodeURL,
		api.WithHTTPClient(&http.Client{Timeout: a.cfg.HTTPTimeout}))
}

// wizardOptions turns the configured policies into wizard options.
func (a *app) wizardOptions() ([]wizard.Option, error) {
	places, err := wizard.ParsePlacePolicy(a.cfg.PlacePolicy)
	if err != nil {
		return nil, err
	}
	uploads, err := wizard.ParseUploadPolicy(a.cfg.UploadPolicy)
	if err != nil {
		return nil, err
	}
	return []wizard.Option{wizard.WithPlacePolicy(places), wizard.WithUploadPolicy(uploads)}, nil
}

// requireSignIn fails early when no usable token is stored.
func (a *app) requireSignIn(ctx context.Context) error {
	if a.session.Token() == "" {
		return errNotSignedIn
	}
	if !a.session.Valid(time.Now()) {
		a.session.Clear(ctx)
		return errNotSignedIn
	}
	return nil
}

var errNotSignedIn = errors.New("not signed in")

// withApp opens the app for one command run. authed commands fail fast
// without a stored, unexpired token.
func withApp(cmd *cobra.Command, authed bool, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if authed {
		if err := a.requireSignIn(ctx); err != nil {
			return err
		}
	}
	return fn(ctx, a)
}

// describeError renders an error for the terminal, preferring the backend's message.
func describeError(err error) string {
	var ve *wizard.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, errNotSignedIn), api.IsUnauthorized(err):
		return "กรุณาเข้าสู่ระบบก่อน (journey auth login)"
	case api.KindOf(err) == api.KindNetwork:
		return fmt.Sprintf("ไม่สามารถเชื่อมต่อเซิร์ฟเวอร์ได้: %v", err)
	case api.IsNotFound(err):
		return api.UserMessage(err, "ไม่พบข้อมูล")
	}
	return api.UserMessage(err, err.Error())
}

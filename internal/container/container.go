package container

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/testbank-api/internal/account"
	"github.com/saulo-duarte/testbank-api/internal/attempt"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/router"
	"github.com/saulo-duarte/testbank-api/internal/section"
	"github.com/saulo-duarte/testbank-api/internal/session"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
	util "github.com/saulo-duarte/testbank-api/internal/utils"
	"gorm.io/gorm"
)

type Container struct {
	Settings          *config.Settings
	Sessions          *session.Manager
	AuthHandler       *auth.Handler
	AccountContainer  *account.Container
	SectionContainer  *section.Container
	TestContainer     *testbank.Container
	AttemptContainer  *attempt.Container
	sessionStoreClose func() error
}

func New() *Container {
	settings := config.Init()
	auth.Init()
	config.InitCrypto()

	if err := util.SetLocation(settings.Timezone); err != nil {
		config.Log.WithError(err).Warnf("Unknown timezone %q, keeping default", settings.Timezone)
	}

	ctx := context.Background()
	if err := config.Connect(ctx, settings.DatabaseDSN); err != nil {
		config.Log.WithError(err).Fatal("Failed to connect to DB")
	}
	if err := Migrate(config.DB); err != nil {
		config.Log.WithError(err).Fatal("Failed to migrate schema")
	}

	store, closeStore := newSessionStore(ctx, settings)
	sessions := session.NewManager(store, settings.SessionTTL)
	authHandler := auth.NewHandler(sessions, auth.CookieConfig{
		Name:   settings.CookieName,
		Domain: settings.CookieDomain,
		Secure: settings.CookieSecure,
	})

	google := account.NewGoogleAuth(settings.GoogleClientID, settings.GoogleClientSecret, settings.GoogleRedirectURL)
	accountContainer := account.NewContainer(config.DB, authHandler, google)
	sectionContainer := section.NewContainer(config.DB)
	testContainer := testbank.NewContainer(config.DB)
	attemptContainer := attempt.NewContainer(
		config.DB,
		testContainer.Repo,
		sessions,
		accountContainer.Directory,
		settings.SubmitGrace,
	)

	return &Container{
		Settings:          settings,
		Sessions:          sessions,
		AuthHandler:       authHandler,
		AccountContainer:  accountContainer,
		SectionContainer:  sectionContainer,
		TestContainer:     testContainer,
		AttemptContainer:  attemptContainer,
		sessionStoreClose: closeStore,
	}
}

// Migrate creates or updates every table the API owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&account.Account{},
		&section.Section{},
		&testbank.Test{},
		&attempt.Attempt{},
	)
}

// newSessionStore uses Redis when REDIS_URL is set and falls back to process memory.
func newSessionStore(ctx context.Context, settings *config.Settings) (session.Store, func() error) {
	if settings.RedisURL == "" {
		if settings.IsProduction() {
			config.Log.Warn("REDIS_URL not set, sessions will not survive restarts")
		}
		return session.NewMemoryStore(), func() error { return nil }
	}

	client, err := session.NewRedisClient(ctx, settings.RedisURL)
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to connect to Redis")
	}
	config.Log.Info("Redis session store ready")
	return session.NewRedisStore(client), client.Close
}

func (c *Container) Router() *chi.Mux {
	return router.New(router.RouterConfig{
		AuthHandler:    c.AuthHandler,
		AccountHandler: c.AccountContainer.Handler,
		SectionHandler: c.SectionContainer.Handler,
		TestHandler:    c.TestContainer.Handler,
		AttemptHandler: c.AttemptContainer.Handler,
		Health: func(r *http.Request) error {
			sqlDB, err := config.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(r.Context())
		},
	})
}

func (c *Container) Close() error {
	if sqlDB, err := config.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return c.sessionStoreClose()
}

package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/school-news-site/internal/config"
	"github.com/school-news-site/internal/database"
	"github.com/school-news-site/internal/notify"
	"github.com/school-news-site/internal/repository"
	"github.com/school-news-site/internal/service"
)

// Migrator applies or rolls back the schema
type Migrator interface {
	RunMigrations() error
	MigrateDown() error
}

// App is everything a command needs
type App struct {
	Services *service.Services
	Notifier notify.Notifier
	Migrator Migrator
	Close    func() error
}

// Opener builds the App once flags have been parsed
type Opener func(ctx context.Context, log zerolog.Logger) (*App, error)

// OpenDatabase connects to the configured database the same way the server does
func OpenDatabase(ctx context.Context, log zerolog.Logger) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, err
	}

	notifier := notify.NewWebhook(cfg.Webhook, log)
	return &App{
		Services: service.NewServices(repository.New(db), notifier, log),
		Notifier: notifier,
		Migrator: db,
		Close:    db.Close,
	}, nil
}

// finish waits for pending notifications and releases the database
func (a *App) finish() error {
	if a.Notifier != nil {
		a.Notifier.Wait()
	}
	if a.Close != nil {
		return a.Close()
	}
	return nil
}

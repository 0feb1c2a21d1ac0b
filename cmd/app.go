package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"voicedash/config"
	"voicedash/config/models"
	"voicedash/config/session"
	"voicedash/internal/account"
	"voicedash/internal/apperr"
	"voicedash/internal/catalog"
	"voicedash/internal/logging"
	"voicedash/internal/selector"
	"voicedash/internal/store"
)

// app holds the components a command works with. It is built per
// invocation and closed when the command returns.
type app struct {
	manager  *config.Manager
	settings *config.Settings
	logger   *slog.Logger
	kv       store.Store
	accounts *account.Store
	selector *selector.Selector
	closers  []func() error
}

// openApp loads settings, opens the log and the configured store, and
// restores any persisted session.
func openApp(ctx context.Context) (*app, error) {
	manager, err := config.NewConfigManager()
	if err != nil {
		return nil, err
	}
	settings, err := manager.Load()
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Setup(logging.Config{
		Path:   manager.LogPath(),
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		manager:  manager,
		settings: settings,
		logger:   logger,
		closers:  []func() error{closeLog},
	}

	a.kv, err = a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.accounts = account.New(a.kv,
		account.WithLogger(logger),
		account.WithRestorePolicy(settings.RestorePolicy()),
	)
	if err := a.accounts.Restore(ctx); err != nil {
		a.Close()
		return nil, err
	}

	src := catalog.NewSource(settings.Catalog.Source, settings.Catalog.Timeout)
	a.selector = selector.New(src, a.kv, selector.WithLogger(logger))
	return a, nil
}

func (a *app) openStore(ctx context.Context) (store.Store, error) {
	cfg := a.settings.Store
	switch cfg.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		rs := store.NewRedisStore(client, store.WithPrefix(cfg.Redis.Prefix))
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, rs.Close)
		a.logger.Debug("using redis store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return rs, nil

	case config.BackendMemory:
		a.logger.Debug("using memory store")
		return store.NewMemoryStore(), nil

	default:
		a.logger.Debug("using file store", "path", cfg.Path)
		return store.NewFileStore(cfg.Path, store.WithBackups(cfg.Backups)), nil
	}
}

// Close releases the store connection and the log file.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// runFunc is the body of a command that needs the app
type runFunc func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error

// withApp adapts fn into a cobra RunE that opens and closes the app.
func withApp(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, cmd, a, args)
	}
}

// withSession is withApp for commands that need a logged-in user. The
// profile travels in the context handed to fn.
func withSession(fn runFunc) func(*cobra.Command, []string) error {
	return withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		p, ok := a.accounts.User()
		if !ok {
			return apperr.E(cmd.CommandPath(), apperr.KindNoActiveSession, nil)
		}
		return fn(session.NewContext(ctx, p), cmd, a, args)
	})
}

// currentUser returns the profile attached by withSession
func currentUser(ctx context.Context) models.Profile {
	p, _ := session.FromContext(ctx)
	return p
}

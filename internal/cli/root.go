package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/clientmgr/internal/auth"
	"github.com/julianstephens/clientmgr/internal/config"
	"github.com/julianstephens/clientmgr/internal/constants"
	"github.com/julianstephens/clientmgr/internal/finance"
	"github.com/julianstephens/clientmgr/internal/logger"
	"github.com/julianstephens/clientmgr/internal/storage"
)

// RemoteStore is the remote database as the commands see it.
type RemoteStore interface {
	storage.Backend
	storage.ClientStore
	Migrate(logFn func(string)) (int, error)
}

type Context struct {
	Ctx   context.Context
	Local *storage.LocalStore
	// Remote is nil when no remote database is configured.
	Remote RemoteStore
	Repo   *storage.Repository
	Auth   *auth.Provider

	Config       config.Config
	SettingsPath string

	Out io.Writer
	Now func() time.Time

	// RemoteErr holds the reason the remote database could not be loaded.
	RemoteErr error
}

// Open loads the local slot, connects to the remote database when one is
// configured, and waits for the persisted session to be restored.
func (c *Context) Open() error {
	if err := c.Local.Slot().Load(); err != nil {
		return err
	}

	if c.Remote != nil {
		if err := c.Remote.Load(); err != nil {
			c.RemoteErr = err
			logger.Warn("Remote database unavailable, using local data", "error", err)
		}
	}

	if c.Auth != nil {
		c.Auth.Start(c.context())
		if err := c.Auth.WaitReady(c.context()); err != nil {
			return fmt.Errorf("failed to restore session: %w", err)
		}
	}
	return nil
}

func (c *Context) Close() error {
	var firstErr error
	if c.Remote != nil {
		if err := c.Remote.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.Local.Slot().Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (c *Context) context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) money(v decimal.Decimal) string {
	prefix := c.Config.Display.CurrencyPrefix
	if prefix == "" {
		prefix = constants.DefaultCurrencyPrefix
	}
	return finance.FormatCurrencyWithPrefix(v, prefix)
}

// mode describes where client records are currently read and written.
func (c *Context) mode() string {
	if c.Remote == nil {
		return "local"
	}
	if c.Auth != nil {
		if s := c.Auth.Session(); s != nil {
			if c.RemoteErr != nil {
				return "remote (" + s.Email + ", unreachable)"
			}
			return "remote (" + s.Email + ")"
		}
	}
	return "local (signed out)"
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/clientmgr/internal/logger"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Local.Slot().Init(); err != nil {
		return err
	}
	ctx.printf("Initialized local storage at: %s\n", ctx.Local.Slot().GetConfigPath())

	if ctx.SettingsPath != "" {
		if _, err := os.Stat(ctx.SettingsPath); errors.Is(err, os.ErrNotExist) {
			if err := ctx.Config.Save(ctx.SettingsPath); err != nil {
				return err
			}
			ctx.printf("Wrote default settings to: %s\n", ctx.SettingsPath)
		}
	}

	if ctx.Remote == nil {
		ctx.println("No remote database configured; client data stays on this machine.")
		return nil
	}
	if err := ctx.Remote.Init(); err != nil {
		return fmt.Errorf("failed to initialize remote database: %w", err)
	}
	ctx.println("Initialized remote database schema.")
	return nil
}

// migrator is implemented by backends with a versioned schema.
type migrator interface {
	Migrate(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *Context) error {
	logFn := func(msg string) {
		logger.Info(msg)
		ctx.println("  " + msg)
	}

	slot := ctx.Local.Slot()
	if m, ok := slot.(migrator); ok {
		if err := slot.Load(); err != nil {
			return err
		}
		n, err := m.Migrate(logFn)
		if err != nil {
			return fmt.Errorf("local migration failed: %w", err)
		}
		ctx.printf("✓ Local storage: %d migration(s) applied\n", n)
	} else {
		ctx.println("✓ Local storage: no schema to migrate")
	}

	if ctx.Remote == nil {
		return nil
	}
	if err := ctx.Remote.Load(); err != nil {
		return fmt.Errorf("failed to connect to remote database: %w", err)
	}
	n, err := ctx.Remote.Migrate(logFn)
	if err != nil {
		return fmt.Errorf("remote migration failed: %w", err)
	}
	ctx.printf("✓ Remote database: %d migration(s) applied\n", n)
	return nil
}

type SeedCmd struct {
	Local bool `help:"Only seed local storage, even when logged in."`
}

func (c *SeedCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	n, err := ctx.Local.SeedSampleData(ctx.context())
	if err != nil {
		return fmt.Errorf("failed to seed local storage: %w", err)
	}
	if n == 0 {
		ctx.println("Local storage already has clients; sample data not added.")
	} else {
		ctx.printf("✓ Added %d sample client(s) to local storage\n", n)
	}

	if c.Local {
		return nil
	}
	copied, err := ctx.Repo.InitializeSampleData(ctx.context())
	if err != nil {
		return fmt.Errorf("failed to copy clients to your account: %w", err)
	}
	if copied > 0 {
		ctx.printf("✓ Copied %d client(s) to your account\n", copied)
	}
	return nil
}

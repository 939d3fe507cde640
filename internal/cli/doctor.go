package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/clientmgr/internal/keyring"
	"github.com/julianstephens/clientmgr/internal/migration"
)

// schemaReporter is implemented by backends with a versioned schema.
type schemaReporter interface {
	SchemaStatus() (migration.Status, error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	check := func(name string, err error) bool {
		if err != nil {
			ctx.printf("❌ %s: FAIL\n", name)
			ctx.printf("   Error: %v\n", err)
			hasError = true
			return false
		}
		ctx.printf("✓ %s: OK\n", name)
		return true
	}
	warn := func(name string, err error) {
		if err != nil {
			ctx.printf("⚠ %s: WARNING\n", name)
			ctx.printf("   %v\n", err)
			return
		}
		ctx.printf("✓ %s: OK\n", name)
	}
	skip := func(name, reason string) {
		ctx.printf("⊘ %s: SKIPPED (%s)\n", name, reason)
	}

	slot := ctx.Local.Slot()
	if check("Local storage reachable", slot.Load()) {
		check("Local schema", schemaCheck(slot))
		check("Local data readable", checkLocalData(ctx))
	} else {
		skip("Local schema", "local storage not reachable")
		skip("Local data readable", "local storage not reachable")
	}

	warn("Backups present", checkBackupsPresent(ctx))
	warn("OS keyring", checkKeyring())

	if ctx.Remote == nil {
		skip("Remote database", "not configured")
	} else if check("Remote database reachable", ctx.Remote.Load()) {
		check("Remote schema", schemaCheck(ctx.Remote))
	} else {
		skip("Remote schema", "remote database not reachable")
	}

	if ctx.Auth != nil {
		ctx.Auth.Start(ctx.context())
		if err := ctx.Auth.WaitReady(ctx.context()); err != nil {
			check("Session", err)
		} else if s := ctx.Auth.Session(); s != nil {
			ctx.printf("✓ Session: logged in as %s\n", s.Email)
		} else {
			ctx.println("ℹ Session: not logged in")
		}
	}

	check("Clock/timezone", checkClock(ctx.now()))

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func schemaCheck(backend any) error {
	reporter, ok := backend.(schemaReporter)
	if !ok {
		return nil
	}
	status, err := reporter.SchemaStatus()
	if err != nil {
		return err
	}
	if len(status.Pending) > 0 {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'clientmgr migrate')",
			status.Current, status.Latest)
	}
	return nil
}

func checkLocalData(ctx *Context) error {
	clients, err := ctx.Local.ListClients(ctx.context(), "")
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(clients))
	for _, c := range clients {
		if seen[c.ID] {
			return fmt.Errorf("duplicate client ID found: %s", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	backups, err := backupManager(ctx).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'clientmgr backup create'")
	}
	if age := time.Since(backups[0].Timestamp); age > 7*24*time.Hour {
		return fmt.Errorf("latest backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

func checkKeyring() error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("%w: sessions and stored connection strings will not persist", keyring.ErrKeyringUnavailable)
	}
	return nil
}

func checkClock(now time.Time) error {
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/clientmgr/internal/auth"
	"github.com/julianstephens/clientmgr/internal/cli"
	"github.com/julianstephens/clientmgr/internal/config"
	"github.com/julianstephens/clientmgr/internal/constants"
	apperrors "github.com/julianstephens/clientmgr/internal/errors"
	"github.com/julianstephens/clientmgr/internal/logger"
	"github.com/julianstephens/clientmgr/internal/storage"
	"github.com/julianstephens/clientmgr/internal/storage/postgres"
	"github.com/julianstephens/clientmgr/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Local data file (.db for SQLite, .json for a JSON file)." type:"path" default:"${defaultConfig}"`
	Settings string `help:"Settings file path." type:"path" default:"${defaultSettings}"`
	Remote   string `help:"PostgreSQL connection string for the remote store. Credentials must NOT be embedded; use .pgpass, PGPASSWORD or the OS keyring."`
	Debug    bool   `help:"Log at debug level and mirror logs to stderr."`

	Init    cli.InitCmd    `cmd:"" help:"Initialize local storage and, when configured, the remote schema."`
	Migrate cli.MigrateCmd `cmd:"" help:"Run database migrations."`
	Seed    cli.SeedCmd    `cmd:"" help:"Add the sample clients to empty storage."`
	Doctor  cli.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`

	Client struct {
		List   cli.ClientListCmd   `cmd:"" help:"List clients." default:"1"`
		Show   cli.ClientShowCmd   `cmd:"" help:"Show one client."`
		Add    cli.ClientAddCmd    `cmd:"" help:"Add a client."`
		Edit   cli.ClientEditCmd   `cmd:"" help:"Edit a client."`
		Delete cli.ClientDeleteCmd `cmd:"" help:"Delete a client."`
	} `cmd:"" help:"Manage clients."`
	Expense struct {
		List   cli.ExpenseListCmd   `cmd:"" help:"List a client's expenses."`
		Add    cli.ExpenseAddCmd    `cmd:"" help:"Record an expense."`
		Remove cli.ExpenseRemoveCmd `cmd:"" name:"rm" help:"Remove an expense."`
	} `cmd:"" help:"Manage client expenses."`
	Timeline struct {
		List     cli.TimelineListCmd     `cmd:"" help:"Show a client's project timeline."`
		Add      cli.TimelineAddCmd      `cmd:"" help:"Add a timeline stage."`
		Remove   cli.TimelineRemoveCmd   `cmd:"" name:"rm" help:"Remove a timeline stage."`
		Deadline cli.TimelineDeadlineCmd `cmd:"" help:"Set or clear the final deadline."`
	} `cmd:"" help:"Manage project timelines."`
	Dashboard cli.DashboardCmd `cmd:"" help:"Show revenue, expenses and forecast."`

	Signup cli.SignupCmd `cmd:"" help:"Create an account on the remote store."`
	Login  cli.LoginCmd  `cmd:"" help:"Log in to the remote store."`
	Logout cli.LogoutCmd `cmd:"" help:"Log out."`
	Whoami cli.WhoamiCmd `cmd:"" help:"Show the logged-in account."`
	Auth   struct {
		Confirm cli.AuthConfirmCmd `cmd:"" help:"Confirm an account's email address."`
	} `cmd:"" help:"Account administration."`

	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store the remote connection string in the OS keyring."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Delete the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check OS keyring availability."`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage local data backups."`
}

func main() {
	defaultConfig, err := config.ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		apperrors.Fatal(err)
	}
	defaultSettings, err := config.ExpandPath(constants.DefaultSettingsPath)
	if err != nil {
		apperrors.Fatal(err)
	}

	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Client, project and finance tracker for a small web-services business"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":         constants.Version,
			"defaultConfig":   defaultConfig,
			"defaultSettings": defaultSettings,
		},
	)

	cfg, err := config.Load(CLI.Settings)
	if err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:      CLI.Debug,
		ConfigDir:  filepath.Dir(CLI.Settings),
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx, err := setup(ctx, cfg)
	if err != nil {
		apperrors.Fatal(err)
	}

	sub := appCtx.Auth.Subscribe(func(ev auth.Event) {
		logger.Info("Session changed", "event", ev.Type.String())
	})

	err = kctx.Run(appCtx)
	sub.Unsubscribe()
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	if err != nil {
		apperrors.Fatal(err)
	}
}

// setup builds the stores and the auth provider from flags, settings and keyring.
func setup(ctx context.Context, cfg config.Config) (*cli.Context, error) {
	var slot storage.Slot
	if strings.EqualFold(filepath.Ext(CLI.Config), ".json") {
		slot = storage.NewFileSlot(CLI.Config)
	} else {
		slot = sqlite.NewStore(CLI.Config)
	}
	local := storage.NewLocalStore(slot)

	remote, err := openRemote(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := newProvider(cfg, remote)
	if err != nil {
		return nil, err
	}

	appCtx := &cli.Context{
		Ctx:          ctx,
		Local:        local,
		Auth:         provider,
		Config:       cfg,
		SettingsPath: CLI.Settings,
		Out:          os.Stdout,
	}
	var clients storage.ClientStore
	if remote != nil {
		appCtx.Remote = remote
		clients = remote
	}
	appCtx.Repo = storage.NewRepository(local, clients, provider)
	return appCtx, nil
}

func openRemote(cfg config.Config) (*postgres.Store, error) {
	connStr, err := cfg.RemoteConnection(CLI.Remote)
	if err != nil {
		logger.Warn("Failed to read connection string from keyring", "error", err)
		return nil, nil
	}
	if connStr == "" {
		return nil, nil
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		if CLI.Remote != "" {
			return nil, apperrors.WithHint(err,
				"store the connection string with 'clientmgr keyring set' or use .pgpass / PGPASSWORD")
		}
		logger.Warn("Remote connection string embeds a password")
	}
	return postgres.New(connStr), nil
}

func newProvider(cfg config.Config, remote *postgres.Store) (*auth.Provider, error) {
	if remote == nil {
		return auth.NewProvider(auth.Options{}), nil
	}

	opts := auth.Options{
		Users:               remote,
		Sessions:            auth.KeyringSessions{},
		RequireConfirmation: cfg.Auth.RequireConfirmation,
	}

	ttl, err := cfg.SessionDuration()
	if err != nil {
		return nil, err
	}
	key, err := cfg.SigningKey()
	if err != nil {
		logger.Warn("Session signing key unavailable, login disabled", "error", err)
	} else {
		issuer, err := auth.NewIssuer(key, ttl)
		if err != nil {
			return nil, err
		}
		opts.Issuer = issuer
	}

	if cfg.Redis.Addr != "" {
		opts.Revoker = auth.NewRedisRevoker(auth.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return auth.NewProvider(opts), nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/clientmgr/internal/auth"
)

// Credentials are read from flags or the environment, and prompted for when missing.
type Credentials struct {
	Email    string `help:"Account email." short:"e"`
	Password string `help:"Account password." env:"CLIENTMGR_PASSWORD"`
}

func (c *Credentials) resolve() error {
	if c.Email != "" && c.Password != "" {
		return nil
	}
	return promptCredentials(&c.Email, &c.Password)
}

type SignupCmd struct {
	Creds Credentials `embed:""`
}

func (cmd *SignupCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if err := cmd.Creds.resolve(); err != nil {
		return err
	}

	session, err := ctx.Auth.SignUp(ctx.context(), cmd.Creds.Email, cmd.Creds.Password)
	if err != nil {
		return authError(err)
	}
	if session == nil {
		ctx.printf("✓ Account created for %s\n", cmd.Creds.Email)
		ctx.println("  Confirm the email address before logging in (clientmgr auth confirm <email>).")
		return nil
	}

	ctx.printf("✓ Signed up and logged in as %s\n", session.Email)
	copyLocalClients(ctx)
	return nil
}

type LoginCmd struct {
	Creds Credentials `embed:""`
}

func (cmd *LoginCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if err := cmd.Creds.resolve(); err != nil {
		return err
	}

	session, err := ctx.Auth.SignIn(ctx.context(), cmd.Creds.Email, cmd.Creds.Password)
	if err != nil {
		return authError(err)
	}
	ctx.printf("✓ Logged in as %s\n", session.Email)
	copyLocalClients(ctx)
	return nil
}

// copyLocalClients gives a new remote account the clients kept locally.
func copyLocalClients(ctx *Context) {
	n, err := ctx.Repo.InitializeSampleData(ctx.context())
	if err != nil {
		ctx.printf("%s\n", warnStyle.Render("⚠ Failed to copy local clients: "+err.Error()))
		return
	}
	if n > 0 {
		ctx.printf("  Copied %d local client(s) to your account.\n", n)
	}
}

type LogoutCmd struct{}

func (cmd *LogoutCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if ctx.Auth.Session() == nil {
		ctx.println("Not logged in.")
		return nil
	}
	if err := ctx.Auth.SignOut(ctx.context()); err != nil {
		return authError(err)
	}
	ctx.println("✓ Logged out")
	return nil
}

type WhoamiCmd struct{}

func (cmd *WhoamiCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	session := ctx.Auth.Session()
	if session == nil {
		ctx.println("Not logged in. Client data is stored locally.")
		return nil
	}
	ctx.println(field("Email", session.Email))
	ctx.println(field("User ID", session.UserID))
	ctx.println(field("Session expires", session.ExpiresAt.Local().Format("2006-01-02 15:04")))
	ctx.println(field("Storage", ctx.mode()))
	return nil
}

type AuthConfirmCmd struct {
	Email string `arg:"" help:"Email address of the account to confirm."`
}

func (cmd *AuthConfirmCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	if err := ctx.Auth.Confirm(ctx.context(), cmd.Email); err != nil {
		return authError(err)
	}
	ctx.printf("✓ Confirmed %s\n", cmd.Email)
	return nil
}

// authError adds a next step to the auth failures a user can act on.
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrAuthUnavailable):
		return fmt.Errorf("%w (configure a remote database with 'clientmgr keyring set' or --remote)", err)
	case errors.Is(err, auth.ErrEmailNotConfirmed):
		return fmt.Errorf("%w (run 'clientmgr auth confirm <email>')", err)
	default:
		return err
	}
}

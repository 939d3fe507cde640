package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/clientmgr/internal/auth"
	"github.com/julianstephens/clientmgr/internal/constants"
	"github.com/julianstephens/clientmgr/internal/models"
)

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

// runClientForm prompts for the client profile, starting from the values in c.
func runClientForm(c *models.Client) error {
	price := formatAmount(c.Price)
	recurring := formatAmount(c.Recurring)
	status := string(c.Status)

	statusOptions := make([]huh.Option[string], 0, len(models.ClientStatuses))
	for _, st := range models.ClientStatuses {
		statusOptions = append(statusOptions, huh.NewOption(string(st), string(st)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Business Name").
				Value(&c.Name).
				Validate(required("business name")),
			huh.NewInput().
				Title("Contact Person").
				Value(&c.Contact),
			huh.NewInput().
				Title("Email").
				Value(&c.Email).
				Validate(required("email")),
			huh.NewInput().
				Title("Phone").
				Value(&c.Phone),
			huh.NewInput().
				Title("Niche").
				Value(&c.Niche),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Domain").
				Value(&c.Domain),
			huh.NewInput().
				Title("Hosting").
				Value(&c.Hosting),
			huh.NewInput().
				Title("Price").
				Value(&price),
			huh.NewInput().
				Title("Monthly Recurring").
				Value(&recurring),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions...).
				Value(&status),
			huh.NewInput().
				Title("Final Deadline (YYYY-MM-DD)").
				Description("Leave empty if there is none").
				Value(&c.FinalDeadline).
				Validate(optionalDate),
			huh.NewText().
				Title("Description").
				Value(&c.Description),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}

	c.Price = models.ParseAmount(price)
	c.Recurring = models.ParseAmount(recurring)
	st, err := models.ParseClientStatus(status)
	if err != nil {
		return err
	}
	c.Status = st
	return nil
}

func formatAmount(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%g", v)
}

func confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).Run()
	return ok, err
}

// promptCredentials asks for whichever of email and password is still empty.
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(email).
			Validate(required("email")))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(auth.ValidatePassword))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula()).Run()
}

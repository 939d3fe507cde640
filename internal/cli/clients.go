package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/clientmgr/internal/finance"
	"github.com/julianstephens/clientmgr/internal/models"
	"github.com/julianstephens/clientmgr/internal/storage"
	"github.com/julianstephens/clientmgr/internal/utils"
)

// StatusAll disables the status filter of client list.
const StatusAll = "All"

type ClientListCmd struct {
	Search string `help:"Case-insensitive match on name or contact." short:"s"`
	Status string `help:"Show only clients with this status, or All." default:"All"`
}

func (cmd *ClientListCmd) Validate() error {
	if strings.EqualFold(cmd.Status, StatusAll) {
		return nil
	}
	_, err := models.ParseClientStatus(cmd.Status)
	return err
}

func (cmd *ClientListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	clients, err := ctx.Repo.ListClients(ctx.context())
	if err != nil {
		return err
	}
	clients = filterClients(clients, cmd.Search, cmd.Status)

	if len(clients) == 0 {
		ctx.println("No clients found.")
		return nil
	}

	ctx.println(titleStyle.Render(fmt.Sprintf("Clients (%d) · %s", len(clients), ctx.mode())))
	ctx.println()
	for _, c := range clients {
		deadline := "-"
		if c.FinalDeadline != "" {
			deadline = c.FinalDeadline
			if utils.IsDeadlineSoon(c.FinalDeadline, ctx.now()) {
				deadline = warnStyle.Render(deadline + " (soon)")
			}
		}
		ctx.printf("%-14s  %-24s  %-12s  %-16s  %14s  %s\n",
			c.ID,
			c.Name,
			c.Status,
			nicheLabel(c.Niche),
			ctx.money(finance.Amount(c.Price)),
			deadline,
		)
	}
	return nil
}

// filterClients keeps the clients whose name or contact contains search,
// ignoring case, and whose status matches. StatusAll or "" matches any status.
func filterClients(clients []models.Client, search, status string) []models.Client {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Contact), search) {
			continue
		}
		if status != "" && !strings.EqualFold(status, StatusAll) && !strings.EqualFold(status, string(c.Status)) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func nicheLabel(niche string) string {
	if strings.TrimSpace(niche) == "" {
		return finance.OtherNiche
	}
	return niche
}

type ClientShowCmd struct {
	ID string `arg:"" help:"Client ID."`
}

func (cmd *ClientShowCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ID)
	if err != nil {
		return err
	}

	lines := []string{
		titleStyle.Render(c.Name),
		field("ID", c.ID),
		field("Status", string(c.Status)),
		field("Type", c.Type),
		field("Contact", c.Contact),
		field("Email", c.Email),
		field("Phone", c.Phone),
		field("Phone owner", c.PhoneOwner),
		field("Instagram", c.Instagram),
		field("Socials", c.Socials),
		field("Domain", c.Domain),
		field("Hosting", c.Hosting),
		field("Niche", nicheLabel(c.Niche)),
		field("Started", c.Date),
		field("Price", ctx.money(finance.Amount(c.Price))),
		field("Recurring", ctx.money(finance.Amount(c.Recurring))),
		field("Expenses", fmt.Sprintf("%s (%d)", ctx.money(finance.ClientCost(c)), len(c.Expenses))),
		field("Timeline", fmt.Sprintf("%d stages", len(c.Timeline))),
		field("Deadline", deadlineLabel(ctx, c.FinalDeadline)),
		field("Stored", c.Persistence.String()),
	}
	if c.Description != "" {
		lines = append(lines, "", valueStyle.Render(c.Description))
	}
	ctx.println(panelStyle.Render(strings.Join(lines, "\n")))
	return nil
}

func deadlineLabel(ctx *Context, date string) string {
	if date == "" {
		return "-"
	}
	days := utils.DaysRemaining(date, ctx.now())
	label := fmt.Sprintf("%s (%d days left)", date, days)
	if utils.IsDeadlineSoon(date, ctx.now()) {
		return warnStyle.Render(label)
	}
	return label
}

// getClient looks a client up by id and explains how to find valid ids.
func getClient(ctx *Context, id string) (models.Client, error) {
	c, err := ctx.Repo.GetClient(ctx.context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Client{}, fmt.Errorf("client %q not found (run 'clientmgr client list' to see ids)", id)
	}
	return c, err
}

// ClientFields are the profile flags shared by client add and client edit.
// A nil field is left unchanged.
type ClientFields struct {
	Contact     *string `help:"Contact person."`
	Phone       *string `help:"Phone number."`
	PhoneOwner  *string `help:"Whose phone number it is." name:"phone-owner"`
	Instagram   *string `help:"Instagram handle."`
	Socials     *string `help:"Other social profiles."`
	Domain      *string `help:"Website domain."`
	Hosting     *string `help:"Hosting provider."`
	Niche       *string `help:"Business niche."`
	Description *string `help:"Free-form description."`
	Date        *string `help:"Start date (YYYY-MM-DD)."`
	Status      *string `help:"Lead, Discovery, Designing, Development, Testing or Live."`
	Type        *string `help:"Engagement type." name:"type"`
	Price       *string `help:"One-off project price."`
	Recurring   *string `help:"Monthly recurring amount."`
	Deadline    *string `help:"Final deadline (YYYY-MM-DD, empty to clear)."`
}

func (f ClientFields) apply(c *models.Client) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.Contact, f.Contact)
	set(&c.Phone, f.Phone)
	set(&c.PhoneOwner, f.PhoneOwner)
	set(&c.Instagram, f.Instagram)
	set(&c.Socials, f.Socials)
	set(&c.Domain, f.Domain)
	set(&c.Hosting, f.Hosting)
	set(&c.Niche, f.Niche)
	set(&c.Description, f.Description)
	set(&c.Date, f.Date)
	set(&c.Type, f.Type)

	if f.Status != nil {
		st, err := models.ParseClientStatus(*f.Status)
		if err != nil {
			return err
		}
		c.Status = st
	}
	if f.Price != nil {
		c.Price = models.ParseAmount(*f.Price)
	}
	if f.Recurring != nil {
		c.Recurring = models.ParseAmount(*f.Recurring)
	}
	if f.Deadline != nil {
		if err := c.SetFinalDeadline(*f.Deadline); err != nil {
			return err
		}
	}
	return nil
}

type ClientAddCmd struct {
	Name        string `help:"Business name." short:"n"`
	Email       string `help:"Contact email." short:"e"`
	Interactive bool   `help:"Fill the client in with a form." short:"i"`

	Fields ClientFields `embed:""`
}

func (cmd *ClientAddCmd) Validate() error {
	if cmd.Interactive {
		return nil
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return fmt.Errorf("--name is required (or use --interactive)")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		return fmt.Errorf("--email is required (or use --interactive)")
	}
	return nil
}

func (cmd *ClientAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	c := models.NewClient(cmd.Name, cmd.Email, ctx.now())
	if err := cmd.Fields.apply(&c); err != nil {
		return err
	}
	if cmd.Interactive {
		if err := runClientForm(&c); err != nil {
			return err
		}
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := saveClient(ctx, &c); err != nil {
		return err
	}
	ctx.printf("✓ Added client %s (id %s, %s)\n", c.Name, c.ID, c.Persistence)
	return nil
}

type ClientEditCmd struct {
	ID    string  `arg:"" help:"Client ID."`
	Name  *string `help:"Business name." short:"n"`
	Email *string `help:"Contact email." short:"e"`

	Fields ClientFields `embed:""`
}

func (cmd *ClientEditCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ID)
	if err != nil {
		return err
	}

	if cmd.Name != nil {
		c.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Email != nil {
		c.Email = strings.TrimSpace(*cmd.Email)
	}
	if err := cmd.Fields.apply(&c); err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := saveClient(ctx, &c); err != nil {
		return err
	}
	ctx.printf("✓ Updated client %s\n", c.Name)
	return nil
}

type ClientDeleteCmd struct {
	ID  string `arg:"" help:"Client ID."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (cmd *ClientDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ID)
	if err != nil {
		return err
	}

	if !cmd.Yes {
		ok, err := confirm(fmt.Sprintf("Delete %s and all of its expenses and timeline?", c.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Repo.DeleteClient(ctx.context(), c.ID); err != nil {
		return err
	}
	ctx.printf("✓ Deleted client %s\n", c.Name)
	return nil
}

// saveClient writes c and reports a failure with the client's name.
func saveClient(ctx *Context, c *models.Client) error {
	if err := ctx.Repo.SaveClient(ctx.context(), c); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.Name, err)
	}
	return nil
}

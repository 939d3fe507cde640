package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/clientmgr/internal/finance"
	"github.com/julianstephens/clientmgr/internal/models"
	"github.com/julianstephens/clientmgr/internal/utils"
)

type ExpenseListCmd struct {
	ClientID string `arg:"" help:"Client ID."`
}

func (cmd *ExpenseListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ClientID)
	if err != nil {
		return err
	}

	ctx.println(titleStyle.Render("Expenses · " + c.Name))
	if len(c.Expenses) == 0 {
		ctx.println("No expenses recorded.")
		return nil
	}
	for _, e := range c.Expenses {
		ctx.printf("%-14s  %-10s  %-16s  %14s  %s\n",
			e.ID, e.Date, e.Type, ctx.money(finance.Amount(e.Amount)), e.Note)
	}
	ctx.println()
	ctx.println(field("Total cost", ctx.money(finance.ClientCost(c))))
	return nil
}

type ExpenseAddCmd struct {
	ClientID string `arg:"" help:"Client ID."`
	Category string `help:"Hosting, Domain, Premium Plugin, API Feed, Outsourcing, Ad Spend or Custom." short:"c" required:""`
	Custom   string `help:"Expense type when the category is Custom."`
	Amount   string `help:"Amount spent." short:"a" required:""`
	Date     string `help:"Date of the expense (YYYY-MM-DD). Defaults to today."`
	Note     string `help:"Optional note."`
}

func (cmd *ExpenseAddCmd) Validate() error {
	if _, err := models.ResolveExpenseType(cmd.Category, cmd.Custom); err != nil {
		return err
	}
	return optionalDate(cmd.Date)
}

func (cmd *ExpenseAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ClientID)
	if err != nil {
		return err
	}

	typ, err := models.ResolveExpenseType(cmd.Category, cmd.Custom)
	if err != nil {
		return err
	}
	date := strings.TrimSpace(cmd.Date)
	if date == "" {
		date = utils.Today(ctx.now())
	}

	e := c.AddExpense(models.Expense{
		Type:   typ,
		Amount: models.ParseAmount(cmd.Amount),
		Date:   date,
		Note:   strings.TrimSpace(cmd.Note),
	}, ctx.now())

	if err := saveClient(ctx, &c); err != nil {
		return err
	}
	ctx.printf("✓ Added %s expense of %s to %s (id %s)\n", e.Type, ctx.money(finance.Amount(e.Amount)), c.Name, e.ID)
	return nil
}

type ExpenseRemoveCmd struct {
	ClientID  string `arg:"" help:"Client ID."`
	ExpenseID string `arg:"" help:"Expense ID."`
}

func (cmd *ExpenseRemoveCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}
	c, err := getClient(ctx, cmd.ClientID)
	if err != nil {
		return err
	}

	if !c.RemoveExpense(cmd.ExpenseID) {
		return fmt.Errorf("expense %q not found for %s", cmd.ExpenseID, c.Name)
	}
	if err := saveClient(ctx, &c); err != nil {
		return err
	}
	ctx.printf("✓ Removed expense %s from %s\n", cmd.ExpenseID, c.Name)
	return nil
}

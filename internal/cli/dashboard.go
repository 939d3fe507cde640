package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/clientmgr/internal/finance"
)

type DashboardCmd struct {
	Section string `help:"Which section to show." enum:"all,overview,niche,forecast" default:"all"`
}

func (cmd *DashboardCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	clients, err := ctx.Repo.ListClients(ctx.context())
	if err != nil {
		return err
	}
	summary := finance.Summarize(clients)

	var blocks []string
	if cmd.Section == "all" || cmd.Section == "overview" {
		blocks = append(blocks, overviewBlock(ctx, summary))
	}
	if cmd.Section == "all" || cmd.Section == "niche" {
		blocks = append(blocks, nicheBlock(ctx, summary))
	}
	if cmd.Section == "all" || cmd.Section == "forecast" {
		blocks = append(blocks, forecastBlock(ctx, summary))
	}

	ctx.println(titleStyle.Render("Dashboard · " + ctx.mode()))
	ctx.println(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	return nil
}

func overviewBlock(ctx *Context, s finance.Summary) string {
	lines := []string{
		titleStyle.Render("Overview"),
		field("Clients", fmt.Sprintf("%d", s.Clients)),
		field("Active projects", fmt.Sprintf("%d", s.ActiveProjects)),
		field("Total revenue", ctx.money(s.TotalRevenue)),
		field("Monthly recurring", ctx.money(s.TotalRecurring)),
		field("Total expenses", ctx.money(s.TotalExpenses)),
		field("Net profit", ctx.money(s.NetProfit)),
		field("Average LTV", ctx.money(s.AverageLTV)),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func nicheBlock(ctx *Context, s finance.Summary) string {
	lines := []string{titleStyle.Render("Revenue by niche")}
	if len(s.ByNiche) == 0 {
		lines = append(lines, labelStyle.Render("No revenue yet."))
	}
	for _, n := range s.ByNiche {
		lines = append(lines, field(fmt.Sprintf("%-16s", n.Niche), ctx.money(n.Revenue)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func forecastBlock(ctx *Context, s finance.Summary) string {
	lines := []string{
		titleStyle.Render("Six-month forecast"),
		labelStyle.Render(fmt.Sprintf("%-6s %16s %16s %16s", "Month", "Revenue", "Expenses", "Profit")),
	}
	for _, m := range finance.Forecast(s.TotalRevenue, s.TotalExpenses, ctx.now()) {
		lines = append(lines, fmt.Sprintf("%-6s %16s %16s %16s",
			m.Label, ctx.money(m.Revenue), ctx.money(m.Expenses), ctx.money(m.Profit)))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

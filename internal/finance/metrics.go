// Package finance derives the aggregate figures shown on the dashboard.
// All sums use exact decimal arithmetic.
package finance

import (
	"github.com/shopspring/decimal"

	"github.com/julianstephens/clientmgr/internal/constants"
	"github.com/julianstephens/clientmgr/internal/models"
)

// OtherNiche groups clients without a niche.
const OtherNiche = "Other"

// Amount converts a stored amount, treating NaN and infinities as zero.
func Amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(models.CoerceAmount(v))
}

func TotalRevenue(clients []models.Client) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range clients {
		sum = sum.Add(Amount(c.Price))
	}
	return sum
}

func TotalRecurring(clients []models.Client) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range clients {
		sum = sum.Add(Amount(c.Recurring))
	}
	return sum
}

// ClientCost sums one client's expenses.
func ClientCost(c models.Client) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range c.Expenses {
		sum = sum.Add(Amount(e.Amount))
	}
	return sum
}

func TotalExpenses(clients []models.Client) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range clients {
		sum = sum.Add(ClientCost(c))
	}
	return sum
}

func NetProfit(clients []models.Client) decimal.Decimal {
	return TotalRevenue(clients).Sub(TotalExpenses(clients))
}

// AverageLTV is (revenue + 12 months of recurring revenue) per client, or zero
// when there are no clients.
func AverageLTV(clients []models.Client) decimal.Decimal {
	if len(clients) == 0 {
		return decimal.Zero
	}
	months := decimal.NewFromInt(constants.LTVMonths)
	total := TotalRevenue(clients).Add(TotalRecurring(clients).Mul(months))
	return total.Div(decimal.NewFromInt(int64(len(clients))))
}

// ActiveProjects counts clients that are not yet live.
func ActiveProjects(clients []models.Client) int {
	n := 0
	for _, c := range clients {
		if c.Status != models.StatusLive {
			n++
		}
	}
	return n
}

type NicheRevenue struct {
	Niche   string
	Revenue decimal.Decimal
}

// RevenueByNiche sums price per niche in the order niches first appear.
func RevenueByNiche(clients []models.Client) []NicheRevenue {
	out := []NicheRevenue{}
	index := make(map[string]int)
	for _, c := range clients {
		niche := c.Niche
		if niche == "" {
			niche = OtherNiche
		}
		i, ok := index[niche]
		if !ok {
			i = len(out)
			index[niche] = i
			out = append(out, NicheRevenue{Niche: niche, Revenue: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(Amount(c.Price))
	}
	return out
}

// Summary holds every dashboard figure for one client list.
type Summary struct {
	Clients        int
	ActiveProjects int
	TotalRevenue   decimal.Decimal
	TotalRecurring decimal.Decimal
	TotalExpenses  decimal.Decimal
	NetProfit      decimal.Decimal
	AverageLTV     decimal.Decimal
	ByNiche        []NicheRevenue
}

func Summarize(clients []models.Client) Summary {
	revenue := TotalRevenue(clients)
	expenses := TotalExpenses(clients)
	return Summary{
		Clients:        len(clients),
		ActiveProjects: ActiveProjects(clients),
		TotalRevenue:   revenue,
		TotalRecurring: TotalRecurring(clients),
		TotalExpenses:  expenses,
		NetProfit:      revenue.Sub(expenses),
		AverageLTV:     AverageLTV(clients),
		ByNiche:        RevenueByNiche(clients),
	}
}

package output

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"

	"github.com/chrisdamba/foodspend/internal/models"
)

const consoleTopRestaurants = 10

// ConsoleOutput prints a plain-text digest of the dashboard.
type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) Name() string { return "console" }

// rupees formats a whole-rupee amount.
func rupees(amount int64) string {
	return money.New(amount*100, money.INR).Display()
}

func (c *ConsoleOutput) Write(ctx context.Context, snap *models.Snapshot) error {
	d := snap.Dashboard
	s := d.Summary
	f := d.FunStats

	tw := tabwriter.NewWriter(c.w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Dashboard %s (%s)\n\n", snap.ID, snap.Source)
	fmt.Fprintf(tw, "Total spent\t%s over %d orders\n", rupees(s.TotalSpent), s.TotalOrders)
	fmt.Fprintf(tw, "Average order\t%s\n", rupees(s.AvgOrderValue))
	fmt.Fprintf(tw, "Delivery fees\t%s\n", rupees(s.TotalDeliveryFees))
	fmt.Fprintf(tw, "Savings\t%s\n", rupees(s.TotalSavings))
	fmt.Fprintf(tw, "Most expensive\t%s at %s (%s)\n", rupees(s.MostExpensiveOrder.Amount), s.MostExpensiveOrder.Restaurant, s.MostExpensiveOrder.Date)
	fmt.Fprintf(tw, "Cheapest\t%s at %s (%s)\n", rupees(s.CheapestOrder.Amount), s.CheapestOrder.Restaurant, s.CheapestOrder.Date)
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "First order\t%s\n", f.FirstOrderDate)
	fmt.Fprintf(tw, "Longest streak\t%d days\n", f.LongestStreak)
	fmt.Fprintf(tw, "Favorite restaurant\t%s (%d orders)\n", f.FavoriteRestaurant.Name, f.FavoriteRestaurant.Count)
	fmt.Fprintf(tw, "Favorite day\t%s\n", f.FavoriteDay)
	fmt.Fprintf(tw, "Peak hour\t%s\n", f.PeakHour)
	fmt.Fprintf(tw, "Late-night orders\t%d\n", f.LateNightOrders)
	fmt.Fprintf(tw, "Unique restaurants\t%d\n", f.UniqueRestaurants)
	fmt.Fprintf(tw, "Orders per month\t%d\n", f.AvgOrdersPerMonth)
	if err := tw.Flush(); err != nil {
		return err
	}

	if top := d.TopRestaurantsN(consoleTopRestaurants); len(top) > 0 {
		fmt.Fprintf(c.w, "\nTop restaurants\n")
		tw = tabwriter.NewWriter(c.w, 0, 0, 2, ' ', 0)
		for i, r := range top {
			fmt.Fprintf(tw, "%2d.\t%s\t%d orders\t%s\n", i+1, r.Name, r.Orders, rupees(r.TotalSpent))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(d.MonthlySpending) > 0 {
		fmt.Fprintf(c.w, "\nMonthly spending\n")
		tw = tabwriter.NewWriter(c.w, 0, 0, 2, ' ', 0)
		for _, m := range d.MonthlySpending {
			fmt.Fprintf(tw, "%s\t%d orders\t%s\n", m.Month, m.Orders, rupees(m.Amount))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

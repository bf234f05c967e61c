package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/naturemagic/internal/orders"
)

var (
	checkSession string
	checkOrderID string
	showItems    bool
)

var checkCmd = &cobra.Command{
	Use:   "check-orders",
	Short: "Show orders placed through checkout",
	Long: `Look up placed orders in the order repository, either every order of
one session (--session) or a single order (--id).

Orders only outlive the server process with storage.orders set to mysql.`,
	RunE: checkOrders,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkSession, "session", "", "Session whose orders to list")
	checkCmd.Flags().StringVar(&checkOrderID, "id", "", "Order id to show")
	checkCmd.Flags().BoolVar(&showItems, "show-items", false, "Show the lines of each order")
}

func checkOrders(cmd *cobra.Command, args []string) error {
	if (checkSession == "") == (checkOrderID == "") {
		return fmt.Errorf("exactly one of --session or --id is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Orders != "mysql" {
		fmt.Println("⚠️  storage.orders is memory: orders are not kept between runs")
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var placed []*orders.Order
	if checkOrderID != "" {
		order, err := a.orders.Get(ctx, checkOrderID)
		if err != nil {
			return err
		}
		placed = append(placed, order)
	} else {
		placed, err = a.orders.ListBySession(ctx, checkSession)
		if err != nil {
			return fmt.Errorf("failed to list orders: %w", err)
		}
	}

	if len(placed) == 0 {
		fmt.Println("📭 No orders found")
		return nil
	}

	fmt.Printf("\n📋 Found %d order%s:\n", len(placed), plural(len(placed)))
	fmt.Println(strings.Repeat("─", 60))

	for _, o := range placed {
		fmt.Printf("\n🧾 %s - %s\n", o.ID, o.PlacedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("   👤 Session: %s", o.SessionID)
		if o.IdempotencyKey != "" {
			fmt.Printf(" | Key: %s", o.IdempotencyKey)
		}
		fmt.Println()
		fmt.Printf("   💰 Total: %s %s (%d items)\n", o.Pricing.Total.StringFixed(2), o.Pricing.Currency, o.Pricing.ItemCount)

		if showItems {
			for _, it := range o.Items {
				fmt.Printf("   • %s / %s x%d\n", it.Product.Name, it.Variant.Name, it.Quantity)
			}
		}
	}
	return nil
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

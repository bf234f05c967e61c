package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matthieukhl/naturemagic/internal/orders"
)

var (
	simCount    int
	simMaxLines int
	simTimeout  time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "simulate-orders",
	Short: "Place sample orders through the checkout flow",
	Long: `Fill random carts from the catalog and submit each one through checkout,
waiting for the order to be processed. Useful to populate the order store
and exercise the configured backends.

Each session gets its own idempotency key, so re-submits never double-order.`,
	RunE: simulateOrders,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVar(&simCount, "count", 3, "Number of orders to place")
	generateCmd.Flags().IntVar(&simMaxLines, "max-lines", 3, "Maximum cart additions per order")
	generateCmd.Flags().DurationVar(&simTimeout, "timeout", 30*time.Second, "Maximum wait per order")
}

func simulateOrders(cmd *cobra.Command, args []string) error {
	if simCount < 1 || simMaxLines < 1 {
		return fmt.Errorf("--count and --max-lines must be at least 1")
	}
	fmt.Printf("🛒 Placing %d sample order%s...\n", simCount, plural(simCount))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	successCount := 0
	for i := 0; i < simCount; i++ {
		order, err := a.placeSampleOrder(ctx)
		if err != nil {
			fmt.Printf("   ❌ Order %d failed: %v\n", i+1, err)
			continue
		}
		fmt.Printf("   ✅ %s  %s %s (%d items)\n", order.ID,
			order.Pricing.Total.StringFixed(2), order.Pricing.Currency, order.Pricing.ItemCount)
		successCount++
	}

	fmt.Printf("\n📊 Placed %d/%d orders\n", successCount, simCount)
	return nil
}

func (a *app) placeSampleOrder(ctx context.Context) (*orders.Order, error) {
	session := "sim-" + uuid.NewString()
	products := a.catalog.Products()

	lines := 1 + rand.IntN(simMaxLines)
	for j := 0; j < lines; j++ {
		p := products[rand.IntN(len(products))]
		v := p.Variants[rand.IntN(len(p.Variants))]
		if _, _, err := a.carts.AddProduct(ctx, session, p, v); err != nil {
			return nil, err
		}
	}

	if _, err := a.checkout.Mount(ctx, session); err != nil {
		return nil, err
	}
	if _, err := a.checkout.Submit(ctx, session, uuid.NewString()); err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, simTimeout)
	defer cancel()
	return a.checkout.Wait(waitCtx, session)
}

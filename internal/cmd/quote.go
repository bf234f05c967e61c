package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/naturemagic/internal/apperr"
	"github.com/matthieukhl/naturemagic/internal/cart"
	"github.com/matthieukhl/naturemagic/internal/catalog"
	"github.com/matthieukhl/naturemagic/internal/pricing"
)

var quoteJSON bool

var quoteCmd = &cobra.Command{
	Use:   "quote [product:variant[:qty]...]",
	Short: "Price a cart offline",
	Long: `Build a cart from product:variant[:qty] lines and print its pricing
with the configured promotion and shipping policy.

Lines come from the arguments, or from stdin (one per line) when there are none.`,
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "print the pricing snapshot as JSON")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	policy := pricing.NewPolicy(cfg.Pricing.DiscountRate, cfg.Pricing.FreeShippingThreshold,
		cfg.Pricing.ShippingCost, cfg.Pricing.Currency)

	lines := args
	if len(lines) == 0 {
		lines, err = readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	snap, err := quote(catalog.Default(), policy, lines)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if quoteJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printQuote(out, snap)
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return lines, nil
}

type quoteLine struct {
	productID string
	variantID string
	quantity  int
}

func parseQuoteLine(line string) (quoteLine, error) {
	parts := strings.Split(strings.TrimSpace(line), ":")
	if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
		return quoteLine{}, apperr.Validation(fmt.Sprintf("invalid line %q: want product:variant[:qty]", line))
	}
	ql := quoteLine{productID: parts[0], variantID: parts[1], quantity: 1}
	if len(parts) == 3 {
		qty, err := strconv.Atoi(parts[2])
		if err != nil || qty < 1 {
			return quoteLine{}, apperr.Validation(fmt.Sprintf("invalid quantity in %q", line))
		}
		ql.quantity = qty
	}
	return ql, nil
}

// quote adds every line to a fresh cart, so repeated variants merge into one line.
func quote(cat *catalog.Catalog, policy pricing.Policy, lines []string) (pricing.Snapshot, error) {
	c := cart.New()
	for _, line := range lines {
		ql, err := parseQuoteLine(line)
		if err != nil {
			return pricing.Snapshot{}, err
		}
		product, variant, err := cat.Variant(ql.productID, ql.variantID)
		if err != nil {
			return pricing.Snapshot{}, err
		}
		index := c.Add(product, variant)
		if ql.quantity > 1 {
			if err := c.UpdateQuantity(index, c.Items[index].Quantity+ql.quantity-1); err != nil {
				return pricing.Snapshot{}, err
			}
		}
	}
	return pricing.ComputeCart(policy, c), nil
}

func printQuote(w io.Writer, snap pricing.Snapshot) {
	for _, l := range snap.Lines {
		fmt.Fprintf(w, "  %-20s %-12s x%-3d %10s\n", l.ProductID, l.VariantID, l.Quantity, l.LineTotal.StringFixed(2))
	}
	cur := snap.Currency
	fmt.Fprintf(w, "  %-38s %10s %s\n", "Subtotal", snap.OriginalSubtotal.StringFixed(2), cur)
	fmt.Fprintf(w, "  %-38s %10s %s\n", "Discount", "-"+snap.Discount.StringFixed(2), cur)
	if snap.IsFreeShipping {
		fmt.Fprintf(w, "  %-38s %10s\n", "Shipping", "FREE")
	} else {
		fmt.Fprintf(w, "  %-38s %10s %s\n", "Shipping", snap.ShippingCost.StringFixed(2), cur)
		fmt.Fprintf(w, "  %-38s %10s %s\n", "Until free shipping", snap.RemainingForFreeShipping.StringFixed(2), cur)
	}
	fmt.Fprintf(w, "  %-38s %10s %s\n", "Total", snap.Total.StringFixed(2), cur)
}


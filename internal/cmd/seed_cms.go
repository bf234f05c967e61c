package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matthieukhl/naturemagic/internal/cms"
	"github.com/spf13/cobra"
)

var (
	seedCategory string
	seedFile     string
	seedURLs     []string
)

var seedCMSCmd = &cobra.Command{
	Use:   "seed-cms",
	Short: "Seed CMS content and products",
	Long: `Load every content category and the product list, storing the built-in
defaults for anything not stored yet.

With --file, a JSON array of content items is merged into --category.
With --url (repeatable), pages of the live site are scraped and merged
into --category.`,
	RunE: seedCMS,
}

func init() {
	rootCmd.AddCommand(seedCMSCmd)

	seedCMSCmd.Flags().StringVar(&seedCategory, "category", "", "category to import into (brand, home, pet, series, recipe)")
	seedCMSCmd.Flags().StringVar(&seedFile, "file", "", "JSON file of content items to import")
	seedCMSCmd.Flags().StringSliceVar(&seedURLs, "url", nil, "page URL to scrape and import")
}

func seedCMS(cmd *cobra.Command, args []string) error {
	fmt.Println("📚 Seeding CMS content...")

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

	for _, cat := range cms.Categories() {
		items, err := a.content.Load(ctx, cat)
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", cat, err)
		}
		fmt.Printf("   📝 %-7s %d items\n", cat, len(items))
	}

	products, err := a.products.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	fmt.Printf("   📦 products %d\n", len(products))

	if seedFile == "" && len(seedURLs) == 0 {
		fmt.Println("✅ CMS seeded!")
		return nil
	}

	cat, err := cms.ParseCategory(seedCategory)
	if err != nil {
		return err
	}

	var incoming []cms.ContentItem
	if seedFile != "" {
		data, err := os.ReadFile(seedFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", seedFile, err)
		}
		if err := json.Unmarshal(data, &incoming); err != nil {
			return fmt.Errorf("failed to parse %s: %w", seedFile, err)
		}
	}
	if len(seedURLs) > 0 {
		fmt.Printf("🔍 Fetching %d pages...\n", len(seedURLs))
		scraped, err := a.importer.FetchAll(ctx, cat, seedURLs)
		if err != nil {
			fmt.Printf("   ⚠️  %v\n", err)
		}
		incoming = append(incoming, scraped...)
	}

	items, err := a.content.Import(ctx, cat, incoming)
	if err != nil {
		return fmt.Errorf("failed to import into %s: %w", cat, err)
	}
	fmt.Printf("✅ Imported %d items, %s now has %d\n", len(incoming), cat, len(items))
	return nil
}

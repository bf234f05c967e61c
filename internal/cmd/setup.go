package cmd

import (
	"fmt"

	"github.com/matthieukhl/naturemagic/internal/database"
	"github.com/spf13/cobra"
)

var dropFirst bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the MySQL schema",
	Long: `Creates the tables used by the MySQL backends: orders for placed
orders and cms_documents for CMS content and products.

Only needed when storage.orders or storage.cms is set to mysql.`,
	RunE: setupSchema,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	setupCmd.Flags().BoolVar(&dropFirst, "drop-first", false, "Drop existing tables before creating")
}

func setupSchema(cmd *cobra.Command, args []string) error {
	fmt.Println("🔧 Setting up database...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := database.NewConnection(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Drop tables if requested
	if dropFirst {
		fmt.Println("🗑️  Dropping existing tables...")
		if err := db.DropSchema(ctx); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}

	fmt.Println("📋 Creating schema...")
	if err := db.SetupSchema(ctx); err != nil {
		return fmt.Errorf("failed to setup schema: %w", err)
	}

	fmt.Println("✅ Database setup complete!")
	return nil
}

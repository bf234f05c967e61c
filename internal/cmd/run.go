package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the storefront API server",
	Long: `Start the storefront API server which provides:
- Catalog browsing and session carts with live pricing
- The checkout flow with background order processing
- Content and product management for the CMS`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 NATURE MAGIC Starting...")

	fmt.Println("📝 Loading configuration...")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Println("⚙️  Setting up server...")
	srv := a.server()

	fmt.Printf("🌐 Starting server on %s...\n", cfg.Server.Addr)
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	fmt.Println("👋 Server stopped")
	return nil
}

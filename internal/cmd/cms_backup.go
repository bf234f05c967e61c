package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matthieukhl/naturemagic/internal/cms"
)

var (
	backupCategory string
	backupDir      string

	restoreCategory string
	restoreYes      bool
)

var cmsBackupCmd = &cobra.Command{
	Use:   "cms-backup",
	Short: "Write CMS content backups as JSON files",
	Long: `Write one backup file per content category, named
nm_cms_<category>_backup_<YYYY-MM-DD>.json, into --dir.`,
	RunE: backupContent,
}

var cmsRestoreCmd = &cobra.Command{
	Use:   "cms-restore <file>",
	Short: "Replace a content category with a backup file",
	Long: `Replace every item of --category with the contents of a backup file.
The file must be a non-empty JSON array whose first item has an id.
The overwrite only happens with --yes.`,
	Args: cobra.ExactArgs(1),
	RunE: restoreContent,
}

func init() {
	rootCmd.AddCommand(cmsBackupCmd)
	rootCmd.AddCommand(cmsRestoreCmd)

	cmsBackupCmd.Flags().StringVar(&backupCategory, "category", "", "category to back up (default: all)")
	cmsBackupCmd.Flags().StringVar(&backupDir, "dir", ".", "output directory")

	cmsRestoreCmd.Flags().StringVar(&restoreCategory, "category", "", "category to restore (required)")
	cmsRestoreCmd.Flags().BoolVar(&restoreYes, "yes", false, "confirm overwriting the stored content")
	_ = cmsRestoreCmd.MarkFlagRequired("category")
}

func backupContent(cmd *cobra.Command, args []string) error {
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

	categories := cms.Categories()
	if backupCategory != "" {
		cat, err := cms.ParseCategory(backupCategory)
		if err != nil {
			return err
		}
		categories = []cms.Category{cat}
	}

	fs := afero.NewOsFs()
	if err := fs.MkdirAll(backupDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", backupDir, err)
	}
	for _, cat := range categories {
		backup, err := a.content.Backup(ctx, cat)
		if err != nil {
			return fmt.Errorf("failed to back up %s: %w", cat, err)
		}
		path := filepath.Join(backupDir, backup.Filename)
		if err := afero.WriteFile(fs, path, backup.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("💾 %s\n", path)
	}
	return nil
}

func restoreContent(cmd *cobra.Command, args []string) error {
	cat, err := cms.ParseCategory(restoreCategory)
	if err != nil {
		return err
	}
	data, err := afero.ReadFile(afero.NewOsFs(), args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

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

	items, err := a.content.Restore(ctx, cat, data, restoreYes)
	if err != nil {
		if !restoreYes {
			return fmt.Errorf("%w (re-run with --yes to overwrite %s)", err, cat)
		}
		return err
	}
	fmt.Printf("✅ Restored %d %s items from %s\n", len(items), cat, args[0])
	return nil
}

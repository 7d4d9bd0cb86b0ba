package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewDbCmd creates the 'db' command for run-history database operations.
func NewDbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the run history database (SQLite)",
	}

	cmd.AddCommand(newDbBackupCmd())

	return cmd
}

func newDbBackupCmd() *cobra.Command {
	var outputPath string
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Backup the SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := requireHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			target := outputPath
			if target == "" {
				dbDir := filepath.Dir(AppCfg.DatabasePath)
				dbName := strings.TrimSuffix(filepath.Base(AppCfg.DatabasePath), filepath.Ext(AppCfg.DatabasePath))
				timestamp := time.Now().Format("20060102-150405")
				target = filepath.Join(dbDir, fmt.Sprintf("%s-backup-%s.db", dbName, timestamp))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backing up database from '%s' to '%s'...\n", AppCfg.DatabasePath, target)
			if err := db.Backup(cmd.Context(), target); err != nil {
				return fmt.Errorf("database backup failed: %w", err)
			}
			fmt.Fprintln(out, "Database backup successful.")
			return nil
		},
	}
	backupCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path for the backup file (default: [db_dir]/[db_name]-backup-[timestamp].db)")
	return backupCmd
}

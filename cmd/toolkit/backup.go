package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dondinetwork/go-dondi/pkg/backup"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manages link store backups",
	Long:  `Takes and restores backups of the referral link store`,
	Args:  cobra.ExactArgs(1),
}

var backupCreateCmd = &cobra.Command{
	Use:   "create <db-uri>",
	Short: "Takes a compressed backup of a link store",
	Long:  `Takes a compressed backup of a link store`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cmd.Flags().GetString("dir")
		if err != nil {
			return errors.New("failed to parse dir")
		}
		backuper, err := backup.NewBackuper(args[0], dir, backup.WithVacuum(true), backup.WithCompression(true))
		if err != nil {
			return fmt.Errorf("creating backuper: %s", err)
		}
		result, err := backuper.Backup(context.Background())
		if err != nil {
			return fmt.Errorf("backup: %s", err)
		}
		fmt.Printf("Backup saved in %s (%d bytes)\n", result.Path, result.SizeAfterCompression)
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <file.db.zst>",
	Short: "Decompresses a link store backup",
	Long:  `Decompresses a link store backup next to the backup file`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := backup.Decompress(args[0])
		if err != nil {
			return fmt.Errorf("decompress: %s", err)
		}
		fmt.Printf("Database restored in %s\n", path)
		return nil
	},
}

package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/dues-management/internal/backup"
	backupPostgres "github.com/frahmantamala/dues-management/internal/backup/postgres"
	"github.com/frahmantamala/dues-management/internal/dues"
	duesPostgres "github.com/frahmantamala/dues-management/internal/dues/postgres"
	"github.com/frahmantamala/dues-management/internal/resident"
	residentPostgres "github.com/frahmantamala/dues-management/internal/resident/postgres"
	"github.com/frahmantamala/dues-management/internal/settings"
	settingsPostgres "github.com/frahmantamala/dues-management/internal/settings/postgres"
	"github.com/frahmantamala/dues-management/internal/transaction"
	transactionPostgres "github.com/frahmantamala/dues-management/internal/transaction/postgres"
	"github.com/spf13/cobra"
)

var backupFile string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import the whole bookkeeping state",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the full state to a JSON backup file",
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := buildBackupService()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize backup: %v\n", err)
			os.Exit(1)
		}

		doc, err := svc.Export()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}

		raw, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}

		path := backupFile
		if path == "" {
			path = fmt.Sprintf("jimpitan_backup_%s.json", time.Now().Format("2006-01-02"))
		}
		if err := os.WriteFile(path, raw, 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Backup written to %s\n", path)
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the full state from a JSON backup file",
	Run: func(cmd *cobra.Command, args []string) {
		if backupFile == "" {
			fmt.Fprintln(os.Stderr, "--file is required for import")
			os.Exit(1)
		}

		raw, err := os.ReadFile(backupFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read %s: %v\n", backupFile, err)
			os.Exit(1)
		}

		svc, err := buildBackupService()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize backup: %v\n", err)
			os.Exit(1)
		}

		if err := svc.ImportJSON(raw); err != nil {
			fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Backup imported from %s\n", backupFile)
	},
}

// buildBackupService wires just enough of the service graph to run
// export and import against the configured database.
func buildBackupService() (*backup.Service, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	lg := slog.Default()
	settingsService := settings.NewService(settingsPostgres.NewSettingsRepository(db), cfg.Dues.DefaultDailyRate, lg)
	residentService := resident.NewService(residentPostgres.NewResidentRepository(db), lg)
	transactionService := transaction.NewService(transactionPostgres.NewTransactionRepository(db), nil, lg)
	duesService := dues.NewService(duesPostgres.NewLedgerRepository(db), residentService, settingsService, transactionService, nil, lg)
	store := backupPostgres.NewBackupStore(db)

	return backup.NewService(store, residentService, transactionService, duesService, nil, lg), nil
}

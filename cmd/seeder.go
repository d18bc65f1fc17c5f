package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/dues-management/internal/settings"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with committee accounts, permissions and sample residents for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"dues_entries", "transactions", "residents", "user_permissions"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing bookkeeping data")
		}

		now := time.Now()
		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUser(db, "ketua@rt05.id", "Pak Ketua", string(hash), now)
		seedUser(db, "bendahara@rt05.id", "Bu Bendahara", string(hash), now)

		permissions := []struct {
			Name string
			Desc string
		}{
			{"admin", "full administrator"},
			{"treasurer", "Handles dues and cash"},
			{"record_dues", "Can record dues payments"},
			{"manage_residents", "Can maintain resident master data"},
			{"manage_cash", "Can record cash transactions"},
			{"manage_settings", "Can change settings"},
			{"manage_backup", "Can export and import backups"},
			{"view_reports", "Can view reports"},
		}

		for _, p := range permissions {
			var pid int64
			row := db.Raw("SELECT id FROM permissions WHERE name = ?", p.Name).Row()
			if err := row.Scan(&pid); err != nil {
				if err := db.Exec("INSERT INTO permissions (name, description, created_at) VALUES (?, ?, ?)", p.Name, p.Desc, now).Error; err != nil {
					log.Fatalf("failed to insert permission %s: %v", p.Name, err)
				}
			}
		}

		grantPermissions(db, "ketua@rt05.id", []string{"admin"}, now)
		grantPermissions(db, "bendahara@rt05.id", []string{"treasurer", "record_dues", "manage_cash", "view_reports"}, now)

		// Default daily rate so dues math works before anyone touches
		// settings
		var exists int
		if err := db.Raw("SELECT 1 FROM settings WHERE key = ?", settings.KeyDailyRate).Row().Scan(&exists); err != nil {
			if err := db.Exec("INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)",
				settings.KeyDailyRate, fmt.Sprintf("%d", cfg.Dues.DefaultDailyRate), now).Error; err != nil {
				log.Fatalf("failed to seed daily rate: %v", err)
			}
			fmt.Printf("Seeded daily rate: %d IDR\n", cfg.Dues.DefaultDailyRate)
		}

		sampleResidents := []struct {
			Name  string
			Block string
		}{
			{"Andi Wijaya", "A-01"},
			{"Budi Santoso", "A-02"},
			{"Citra Lestari", "B-01"},
		}

		for _, r := range sampleResidents {
			var exists int
			row := db.Raw("SELECT 1 FROM residents WHERE name = ? AND block = ?", r.Name, r.Block).Row()
			if err := row.Scan(&exists); err != nil {
				id := uuid.New().String()
				if err := db.Exec("INSERT INTO residents (id, name, block, registered_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
					id, r.Name, r.Block, now, now, now).Error; err != nil {
					log.Fatalf("failed to insert resident %s: %v", r.Name, err)
				}
				fmt.Printf("Seeded resident: %s (%s)\n", r.Name, r.Block)
			}
		}

		fmt.Println("Seeding finished")
	},
}

func seedUser(db *gorm.DB, email, name, passwordHash string, now time.Time) {
	var exists int
	row := db.Raw("SELECT 1 FROM users WHERE email = ?", email).Row()
	if err := row.Scan(&exists); err == nil {
		fmt.Printf("user %s already exists; will ensure permissions\n", email)
		return
	}

	if err := db.Exec("INSERT INTO users (email, name, password_hash, position, is_active, created_at, updated_at) VALUES (?, ?, ?, '', true, ?, ?)",
		email, name, passwordHash, now, now).Error; err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
}

func grantPermissions(db *gorm.DB, email string, permNames []string, now time.Time) {
	var userID int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&userID); err != nil {
		log.Fatalf("failed to lookup user id for %s: %v", email, err)
	}

	for _, permName := range permNames {
		var pid int64
		if err := db.Raw("SELECT id FROM permissions WHERE name = ?", permName).Row().Scan(&pid); err != nil {
			log.Fatalf("permission not found %s: %v", permName, err)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM user_permissions WHERE user_id = ? AND permission_id = ?", userID, pid).Row().Scan(&exists); err == nil {
			continue
		}

		if err := db.Exec("INSERT INTO user_permissions (user_id, permission_id, granted_by, created_at) VALUES (?, ?, NULL, ?)", userID, pid, now).Error; err != nil {
			log.Fatalf("failed to grant permission %s to %s: %v", permName, email, err)
		}
	}

	fmt.Printf("Granted permissions to %s: %v\n", email, permNames)
}

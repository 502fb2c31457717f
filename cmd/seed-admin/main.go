// seed-admin creates or updates the shop's admin login.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//   ADMIN_USERNAME=... ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"gorm.io/gorm"
)

func main() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_PASSWORD is required")
		os.Exit(1)
	}
	if err := utils.ValidatePasswordStrength(password); err != nil {
		fmt.Fprintf(os.Stderr, "weak admin password: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.Account
	err = db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup account: %v\n", err)
			os.Exit(1)
		}
		account := models.Account{
			Username:     username,
			PasswordHash: string(hashed),
			Role:         models.AccountRoleAdmin,
		}
		if err := db.WithContext(ctx).Create(&account).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin account: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created admin account: username=%q\n", username)
		return
	}

	if err := db.WithContext(ctx).Model(&models.Account{}).Where("username = ?", username).Updates(map[string]any{
		"password_hash": string(hashed),
		"role":          models.AccountRoleAdmin,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin account: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated admin account: username=%q\n", username)
}

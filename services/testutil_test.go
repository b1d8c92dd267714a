package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package at a fresh in-memory database for the
// duration of one test. The shared-cache DSN keeps the database alive
// across the connections gorm opens.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.MigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	previous := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = previous
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// seedUser creates a user row and returns its ID.
func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user.ID
}

// creditWallet puts completed funds into a user's wallet through the
// ledger and fails the test on any error.
func creditWallet(t *testing.T, userID uint, amount int64) {
	t.Helper()
	_, err := RecordTransaction(RecordTransactionParams{
		UserID:      userID,
		Type:        models.TransactionTypeAdminAdjustment,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Description: "test credit",
	})
	if err != nil {
		t.Fatalf("failed to credit wallet for user %d: %v", userID, err)
	}
}

// walletBalance reads the current balance straight from the table.
func walletBalance(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var wallet models.Wallet
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		t.Fatalf("failed to read wallet for user %d: %v", userID, err)
	}
	return wallet.Balance
}

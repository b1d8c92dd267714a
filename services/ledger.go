package services

import (
	"errors"

	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/utils"
	"gorm.io/gorm"
)

// RecordTransactionParams describes a new ledger entry. Amount is
// signed and in integer minor units; a negative completed amount is a
// debit and must not push the wallet below zero.
type RecordTransactionParams struct {
	UserID      uint
	Type        string
	Amount      int64
	Status      string
	ExternalRef *string
	Description string
}

// RecordTransaction appends a ledger entry and, when the entry is
// completed, applies its balance delta. Both writes happen in one
// database transaction; external reference uniqueness is enforced by
// the unique index on transactions.external_ref.
func RecordTransaction(p RecordTransactionParams) (*models.Transaction, error) {
	var txn *models.Transaction
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = recordTransaction(tx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// SettleTransaction transitions a pending transaction to completed and
// applies its balance delta under the same non-negativity check.
func SettleTransaction(transactionID uint) (*models.Transaction, error) {
	var txn *models.Transaction
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = settleTransaction(tx, transactionID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ReverseTransaction appends a compensating entry that negates a
// completed transaction. The original entry is never rewritten.
func ReverseTransaction(transactionID uint, reason string) (*models.Transaction, error) {
	var txn *models.Transaction
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = reverseTransaction(tx, transactionID, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// IsExternalRefInUse reports whether a reference is already attached
// to a transaction other than the excluded one. Advisory only; the
// unique index remains the source of truth at write time.
func IsExternalRefInUse(ref string, excludingTransactionID uint) (bool, error) {
	var count int64
	query := config.DB.Model(&models.Transaction{}).Where("external_ref = ?", ref)
	if excludingTransactionID != 0 {
		query = query.Where("id <> ?", excludingTransactionID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetOrCreateWallet retrieves a user's wallet, creating it lazily on
// first touch.
func GetOrCreateWallet(userID uint) (*models.Wallet, error) {
	return getOrCreateWallet(config.DB, userID)
}

func getOrCreateWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Where("user_id = ?", userID).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	wallet = models.Wallet{UserID: userID, Balance: 0}
	if err := tx.Create(&wallet).Error; err != nil {
		// Lost a creation race; the unique index on user_id caught it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
				return nil, err
			}
			return &wallet, nil
		}
		return nil, err
	}
	utils.LogDebug("Created wallet for user ID: %d", userID)
	return &wallet, nil
}

func recordTransaction(tx *gorm.DB, p RecordTransactionParams) (*models.Transaction, error) {
	if !models.ValidTransactionType(p.Type) {
		return nil, validationError("unknown transaction type %q", p.Type)
	}
	if p.Status != models.TransactionStatusPending && p.Status != models.TransactionStatusCompleted {
		return nil, validationError("transactions start as pending or completed, got %q", p.Status)
	}
	if p.Amount == 0 {
		return nil, validationError("transaction amount must be non-zero")
	}
	if p.ExternalRef != nil && *p.ExternalRef == "" {
		return nil, ErrMissingExternalRef
	}

	wallet, err := getOrCreateWallet(tx, p.UserID)
	if err != nil {
		return nil, err
	}

	txn := models.Transaction{
		UserID:      p.UserID,
		Type:        p.Type,
		Amount:      p.Amount,
		Status:      p.Status,
		ExternalRef: p.ExternalRef,
		Description: p.Description,
	}
	if err := tx.Create(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateExternalRef
		}
		return nil, err
	}

	if p.Status == models.TransactionStatusCompleted {
		if err := applyBalanceDelta(tx, wallet.ID, p.Amount); err != nil {
			return nil, err
		}
	}
	return &txn, nil
}

func settleTransaction(tx *gorm.DB, transactionID uint, externalRef *string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := tx.First(&txn, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"status": models.TransactionStatusCompleted}
	if externalRef != nil {
		if *externalRef == "" {
			return nil, ErrMissingExternalRef
		}
		updates["external_ref"] = *externalRef
	}

	// The conditional update is the settlement arbiter: of two
	// concurrent attempts only one flips the row.
	res := tx.Model(&models.Transaction{}).
		Where("id = ? AND status = ?", transactionID, models.TransactionStatusPending).
		Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateExternalRef
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	wallet, err := getOrCreateWallet(tx, txn.UserID)
	if err != nil {
		return nil, err
	}
	if err := applyBalanceDelta(tx, wallet.ID, txn.Amount); err != nil {
		return nil, err
	}

	if err := tx.First(&txn, transactionID).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func reverseTransaction(tx *gorm.DB, transactionID uint, reason string) (*models.Transaction, error) {
	var original models.Transaction
	if err := tx.First(&original, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if original.Status != models.TransactionStatusCompleted {
		return nil, ErrInvalidTransition
	}

	// Refuse a second reversal of the same entry.
	var existing int64
	if err := tx.Model(&models.Transaction{}).
		Where("reversal_of_id = ?", original.ID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrInvalidTransition
	}

	compensating := models.Transaction{
		UserID:       original.UserID,
		Type:         original.Type,
		Amount:       -original.Amount,
		Status:       models.TransactionStatusCompleted,
		Description:  reason,
		ReversalOfID: &original.ID,
	}
	if err := tx.Create(&compensating).Error; err != nil {
		return nil, err
	}

	wallet, err := getOrCreateWallet(tx, original.UserID)
	if err != nil {
		return nil, err
	}
	if err := applyBalanceDelta(tx, wallet.ID, compensating.Amount); err != nil {
		return nil, err
	}
	return &compensating, nil
}

// applyBalanceDelta adjusts a wallet balance in a single conditional
// UPDATE so the non-negativity check and the write cannot interleave
// with another writer.
func applyBalanceDelta(tx *gorm.DB, walletID uint, delta int64) error {
	res := tx.Model(&models.Wallet{}).
		Where("id = ? AND balance + ? >= 0", walletID, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

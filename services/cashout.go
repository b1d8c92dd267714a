package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/utils"
	"gorm.io/gorm"
)

// CashoutAmounts is the integer fee breakdown of a cashout request,
// all in minor units.
type CashoutAmounts struct {
	Requested int64
	Fee       int64
	Final     int64
}

// CalculateCashoutAmounts converts whole points into minor units and
// splits off the platform fee. The fee percentage is held as basis
// points so the arithmetic stays integer-only; ties round half up.
func CalculateCashoutAmounts(points int64, feePercent float64) (CashoutAmounts, error) {
	if points <= 0 {
		return CashoutAmounts{}, validationError("requested amount must be positive, got %d", points)
	}
	if feePercent < 0 || feePercent > 100 {
		return CashoutAmounts{}, validationError("fee percentage must be between 0 and 100, got %v", feePercent)
	}
	requested := points * 100
	feeBasisPoints := int64(math.Round(feePercent * 100))
	fee := (requested*feeBasisPoints + 5000) / 10000
	return CashoutAmounts{
		Requested: requested,
		Fee:       fee,
		Final:     requested - fee,
	}, nil
}

// CreateCashoutParams describes a new cashout request. Points are
// whole points; InitialStatus is pending (funds stay put until an
// admin completes the payout) or completed (the payout already
// happened off-platform and ExternalRef is mandatory).
type CreateCashoutParams struct {
	UserID          uint
	Points          int64
	FeePercent      float64
	PaymentMethodID uint
	ExternalRef     *string
	InitialStatus   string
	AdminNotes      string
}

// CreateCashoutRequest opens a cashout request and its backing ledger
// entry in one database transaction.
func CreateCashoutRequest(p CreateCashoutParams) (*models.CashoutRequest, error) {
	amounts, err := CalculateCashoutAmounts(p.Points, p.FeePercent)
	if err != nil {
		return nil, err
	}

	status := p.InitialStatus
	if status == "" {
		status = models.CashoutStatusPending
	}
	if status != models.CashoutStatusPending && status != models.CashoutStatusCompleted {
		return nil, validationError("cashout requests start as pending or completed, got %q", status)
	}
	if status == models.CashoutStatusCompleted && (p.ExternalRef == nil || *p.ExternalRef == "") {
		return nil, ErrMissingExternalRef
	}

	var request *models.CashoutRequest
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if p.PaymentMethodID != 0 {
			var method models.PaymentMethod
			if err := tx.Where("id = ? AND user_id = ?", p.PaymentMethodID, p.UserID).
				First(&method).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
		}

		wallet, err := getOrCreateWallet(tx, p.UserID)
		if err != nil {
			return err
		}
		if wallet.Balance < amounts.Requested {
			return ErrInsufficientBalance
		}

		txnStatus := models.TransactionStatusPending
		var txnRef *string
		if status == models.CashoutStatusCompleted {
			txnStatus = models.TransactionStatusCompleted
			txnRef = p.ExternalRef
		}
		txn, err := recordTransaction(tx, RecordTransactionParams{
			UserID:      p.UserID,
			Type:        models.TransactionTypeCashout,
			Amount:      -amounts.Requested,
			Status:      txnStatus,
			ExternalRef: txnRef,
			Description: fmt.Sprintf("Cashout of %s points", utils.FormatMinor(amounts.Requested)),
		})
		if err != nil {
			return err
		}

		request = &models.CashoutRequest{
			UserID:          p.UserID,
			RequestedAmount: amounts.Requested,
			FeePercent:      p.FeePercent,
			FeeAmount:       amounts.Fee,
			FinalAmount:     amounts.Final,
			PaymentMethodID: p.PaymentMethodID,
			ExternalRef:     p.ExternalRef,
			Status:          status,
			AdminNotes:      p.AdminNotes,
			TransactionID:   txn.ID,
		}
		if status == models.CashoutStatusCompleted {
			now := time.Now()
			request.ProcessedAt = &now
		}
		return tx.Create(request).Error
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Created cashout request ID: %d for user ID: %d with status %s", request.ID, p.UserID, status)
	return request, nil
}

// ProcessCashout moves a pending request into processing, signalling
// that an admin has picked it up.
func ProcessCashout(cashoutID uint, adminNotes string) (*models.CashoutRequest, error) {
	var request models.CashoutRequest
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, cashoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		updates := map[string]interface{}{"status": models.CashoutStatusProcessing}
		if adminNotes != "" {
			updates["admin_notes"] = adminNotes
		}
		res := tx.Model(&models.CashoutRequest{}).
			Where("id = ? AND status = ?", cashoutID, models.CashoutStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return tx.First(&request, cashoutID).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// CompleteCashout finalises a payout. The external reference is
// mandatory; resubmitting the same reference on an already-completed
// request is an idempotent no-op, while a reference owned by another
// transaction fails ErrDuplicateExternalRef. The pending ledger entry
// is settled (or recorded fresh when the request has none), deducting
// the full requested amount.
func CompleteCashout(cashoutID uint, externalRef, adminNotes string) (*models.CashoutRequest, error) {
	if externalRef == "" {
		return nil, ErrMissingExternalRef
	}

	var request models.CashoutRequest
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, cashoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if request.Status == models.CashoutStatusCompleted {
			if request.ExternalRef != nil && *request.ExternalRef == externalRef {
				return nil // resubmission of the same payout
			}
			return ErrInvalidTransition
		}
		if !models.CanTransitionCashout(request.Status, models.CashoutStatusCompleted) {
			return ErrInvalidTransition
		}

		txnID := request.TransactionID
		if txnID != 0 {
			if _, err := settleTransaction(tx, txnID, &externalRef); err != nil {
				if errors.Is(err, ErrInvalidTransition) {
					// A concurrent completion won the settle; report
					// success if it used the same reference.
					if err := tx.First(&request, cashoutID).Error; err != nil {
						return err
					}
					if request.Status == models.CashoutStatusCompleted &&
						request.ExternalRef != nil && *request.ExternalRef == externalRef {
						return nil
					}
					return ErrInvalidTransition
				}
				return err
			}
		} else {
			txn, err := recordTransaction(tx, RecordTransactionParams{
				UserID:      request.UserID,
				Type:        models.TransactionTypeCashout,
				Amount:      -request.RequestedAmount,
				Status:      models.TransactionStatusCompleted,
				ExternalRef: &externalRef,
				Description: fmt.Sprintf("Cashout of %s points", utils.FormatMinor(request.RequestedAmount)),
			})
			if err != nil {
				return err
			}
			txnID = txn.ID
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":         models.CashoutStatusCompleted,
			"external_ref":   externalRef,
			"transaction_id": txnID,
			"processed_at":   now,
		}
		if adminNotes != "" {
			updates["admin_notes"] = adminNotes
		}
		res := tx.Model(&models.CashoutRequest{}).
			Where("id = ? AND status IN ?", cashoutID,
				[]string{models.CashoutStatusPending, models.CashoutStatusProcessing}).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return tx.First(&request, cashoutID).Error
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Completed cashout request ID: %d with reference %s", request.ID, externalRef)
	return &request, nil
}

// CancelCashout cancels a request. Before completion no funds have
// moved, so only the statuses flip; after completion the full
// requested amount is refunded through a compensating transaction and
// the fee is forfeited.
func CancelCashout(cashoutID uint, adminNotes string) (*models.CashoutRequest, error) {
	var request models.CashoutRequest
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, cashoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !models.CanTransitionCashout(request.Status, models.CashoutStatusCancelled) {
			return ErrInvalidTransition
		}

		switch request.Status {
		case models.CashoutStatusPending, models.CashoutStatusProcessing:
			if request.TransactionID != 0 {
				if err := tx.Model(&models.Transaction{}).
					Where("id = ? AND status = ?", request.TransactionID, models.TransactionStatusPending).
					Update("status", models.TransactionStatusCancelled).Error; err != nil {
					return err
				}
			}
		case models.CashoutStatusCompleted:
			reason := fmt.Sprintf("Refund for cancelled cashout #%d", request.ID)
			if _, err := reverseTransaction(tx, request.TransactionID, reason); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"status": models.CashoutStatusCancelled}
		if adminNotes != "" {
			updates["admin_notes"] = adminNotes
		}
		res := tx.Model(&models.CashoutRequest{}).
			Where("id = ? AND status = ?", cashoutID, request.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return tx.First(&request, cashoutID).Error
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Cancelled cashout request ID: %d", request.ID)
	return &request, nil
}

// FailCashout marks a processing request as failed after the payment
// provider rejected the payout. No funds have moved yet, so the
// pending ledger entry is cancelled alongside.
func FailCashout(cashoutID uint, adminNotes string) (*models.CashoutRequest, error) {
	var request models.CashoutRequest
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, cashoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !models.CanTransitionCashout(request.Status, models.CashoutStatusFailed) {
			return ErrInvalidTransition
		}

		if request.TransactionID != 0 {
			if err := tx.Model(&models.Transaction{}).
				Where("id = ? AND status = ?", request.TransactionID, models.TransactionStatusPending).
				Update("status", models.TransactionStatusCancelled).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{"status": models.CashoutStatusFailed}
		if adminNotes != "" {
			updates["admin_notes"] = adminNotes
		}
		res := tx.Model(&models.CashoutRequest{}).
			Where("id = ? AND status = ?", cashoutID, request.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		return tx.First(&request, cashoutID).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

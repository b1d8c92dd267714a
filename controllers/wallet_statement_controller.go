package controllers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/services"
	"github.com/triplink-app/TripLink/utils"
)

// DownloadWalletStatement generates a PDF statement of the user's
// ledger history
func DownloadWalletStatement(c *gin.Context) {
	utils.LogInfo("DownloadWalletStatement called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	wallet, err := services.GetOrCreateWallet(user.ID)
	if err != nil {
		utils.LogError("Failed to get wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	var transactions []models.Transaction
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").Limit(200).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to get transactions for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get transactions", err.Error())
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "TripLink")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@triplink.app")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "WALLET STATEMENT")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, "Account: "+user.Username+" ("+user.Email+")")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Current balance: "+utils.FormatMinor(wallet.Balance)+" points")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(35, 8, "Date", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Type", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 0, "C", false, 0, "")
	pdf.CellFormat(60, 8, "Description", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, txn := range transactions {
		pdf.CellFormat(35, 8, txn.CreatedAt.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 8, txn.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, txn.Status, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, utils.FormatMinor(txn.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 8, txn.Description, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render statement for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate statement", nil)
		return
	}
	utils.LogInfo("Wallet statement generated for user ID: %d (%d entries)", user.ID, len(transactions))

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=wallet-statement-"+strconv.Itoa(int(user.ID))+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

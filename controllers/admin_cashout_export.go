package controllers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/triplink-app/TripLink/config"
	"github.com/triplink-app/TripLink/models"
	"github.com/triplink-app/TripLink/utils"
)

// AdminExportCashouts exports cashout requests as an Excel workbook.
// Supports the same status and user filters as the list endpoint plus
// an optional created-at date range (YYYY-MM-DD).
func AdminExportCashouts(c *gin.Context) {
	utils.LogInfo("AdminExportCashouts called")
	if _, ok := currentAdmin(c); !ok {
		return
	}

	query := config.DB.Model(&models.CashoutRequest{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("created_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("created_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var requests []models.CashoutRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		utils.LogError("Failed to get cashout requests for export: %v", err)
		utils.InternalServerError(c, "Failed to get cashout requests", err.Error())
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Cashouts")
	if err != nil {
		utils.LogError("Failed to create export sheet: %v", err)
		utils.InternalServerError(c, "Failed to generate export", nil)
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{"ID", "User ID", "Requested", "Fee %", "Fee", "Final", "Status", "Reference", "Notes", "Created At", "Processed At"} {
		cell := header.AddCell()
		cell.Value = title
	}

	var totalRequested, totalFee, totalFinal int64
	for _, req := range requests {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(req.ID))
		row.AddCell().SetInt(int(req.UserID))
		row.AddCell().Value = utils.FormatMinor(req.RequestedAmount)
		row.AddCell().SetFloat(req.FeePercent)
		row.AddCell().Value = utils.FormatMinor(req.FeeAmount)
		row.AddCell().Value = utils.FormatMinor(req.FinalAmount)
		row.AddCell().Value = req.Status
		if req.ExternalRef != nil {
			row.AddCell().Value = *req.ExternalRef
		} else {
			row.AddCell().Value = ""
		}
		row.AddCell().Value = req.AdminNotes
		row.AddCell().Value = req.CreatedAt.Format("2006-01-02 15:04:05")
		if req.ProcessedAt != nil {
			row.AddCell().Value = req.ProcessedAt.Format("2006-01-02 15:04:05")
		} else {
			row.AddCell().Value = ""
		}

		totalRequested += req.RequestedAmount
		totalFee += req.FeeAmount
		totalFinal += req.FinalAmount
	}

	totals := sheet.AddRow()
	totals.AddCell().Value = "TOTAL"
	totals.AddCell().Value = ""
	totals.AddCell().Value = utils.FormatMinor(totalRequested)
	totals.AddCell().Value = ""
	totals.AddCell().Value = utils.FormatMinor(totalFee)
	totals.AddCell().Value = utils.FormatMinor(totalFinal)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to render cashout export: %v", err)
		utils.InternalServerError(c, "Failed to generate export", nil)
		return
	}
	utils.LogInfo("Cashout export generated (%d rows)", len(requests))

	filename := "cashouts-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

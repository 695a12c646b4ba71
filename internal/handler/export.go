package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Resource ID", "Name", "Type", "Region", "Status", "Severity", "Last Checked"}

func exportRow(a *models.Asset) []string {
	lastChecked := ""
	if a.LastCheckedAt != nil {
		lastChecked = a.LastCheckedAt.Format(time.RFC3339)
	}
	return []string{
		a.ResourceID,
		a.ResourceName,
		a.ResourceType,
		a.Region,
		string(a.Status),
		string(a.Severity),
		lastChecked,
	}
}

// ExportCSV streams the caller's (optionally filtered) asset set as a
// CSV download. Takes the same query params as the asset list.
func (h *AssetHandler) ExportCSV(c *gin.Context) {
	cfg, ok := h.activeConfig(c)
	if !ok {
		return
	}

	assets, err := h.assets.Query(cfg.ID, filterFromQuery(c))
	if err != nil {
		util.InternalError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"assets_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	_ = writer.Write(exportHeaders)
	for i := range assets {
		_ = writer.Write(exportRow(&assets[i]))
	}
}

// ExportXLSX returns the same data as an Excel workbook.
func (h *AssetHandler) ExportXLSX(c *gin.Context) {
	cfg, ok := h.activeConfig(c)
	if !ok {
		return
	}

	assets, err := h.assets.Query(cfg.ID, filterFromQuery(c))
	if err != nil {
		util.InternalError(c, err)
		return
	}

	f := excelize.NewFile()
	const sheetName = "Assets"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.InternalError(c, err)
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}
	for idx := range assets {
		for col, value := range exportRow(&assets[idx]) {
			cell, _ := excelize.CoordinatesToCellName(col+1, idx+2)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"assets_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		// headers are already out; nothing left to send the client
		log.Printf("write xlsx export: %v", err)
	}
}

package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"law_catalog_app_go/models"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// BuildOptionSetWorkbook builds an Excel workbook with one sheet for a set's
// items (deleted included, so the export is a full administrative view) and
// one for its audit trail
func BuildOptionSetWorkbook(db *gorm.DB, setKey string) (*bytes.Buffer, error) {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return nil, err
	}

	items, err := ListOptionItems(db, setKey, OptionItemFilter{IncludeDeleted: true})
	if err != nil {
		return nil, err
	}

	var logs []models.OptionAuditLog
	if err := db.Where("option_set_id = ?", set.ID).Order("created_at ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetItems = "Options"
	const sheetAudit = "Audit"

	f.SetSheetName("Sheet1", sheetItems)
	if _, err := f.NewSheet(sheetAudit); err != nil {
		return nil, fmt.Errorf("failed to create audit sheet: %w", err)
	}

	itemHeaders := []string{"Value", "Label", "Order", "Active", "Default", "Deleted At", "Updated At"}
	for i, header := range itemHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetItems, cell, header)
	}
	f.SetColWidth(sheetItems, "A", "G", 20)

	for row, item := range items {
		deletedAt := ""
		if item.DeletedAt.Valid {
			deletedAt = item.DeletedAt.Time.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			item.Value,
			item.Label,
			item.SortOrder,
			item.IsActive,
			item.IsDefault,
			deletedAt,
			item.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetItems, cell, v)
		}
	}

	auditHeaders := []string{"Date", "Action", "Actor", "Item ID", "Before", "After"}
	for i, header := range auditHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetAudit, cell, header)
	}
	f.SetColWidth(sheetAudit, "A", "F", 25)

	for row, entry := range logs {
		itemID := ""
		if entry.OptionItemID != nil {
			itemID = *entry.OptionItemID
		}
		values := []interface{}{
			entry.CreatedAt.Format(time.RFC3339),
			string(entry.Action),
			entry.ActorName,
			itemID,
			entry.Before,
			entry.After,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetAudit, cell, v)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheetItems, "A1", "G1", headerStyle)
	f.SetCellStyle(sheetAudit, "A1", "F1", headerStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write excel buffer: %w", err)
	}
	return buf, nil
}

// WriteOptionSetCSV streams a set's items as CSV (non-deleted only, the
// picker-facing view)
func WriteOptionSetCSV(db *gorm.DB, setKey string, w io.Writer) error {
	items, err := ListOptionItems(db, setKey, OptionItemFilter{})
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"value", "label", "order", "is_active", "is_default"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.Value,
			item.Label,
			strconv.Itoa(item.SortOrder),
			strconv.FormatBool(item.IsActive),
			strconv.FormatBool(item.IsDefault),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

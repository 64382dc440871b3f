package services

import (
	"encoding/json"
	"law_catalog_app_go/models"
	"log"
	"time"

	"gorm.io/gorm"
)

// logCatalogEvent writes one audit row for a catalog mutation. The write is
// best-effort: a failure is logged but never propagated, and the primary
// mutation is not rolled back. It runs synchronously so callers observe the
// audit row immediately after the mutating call returns.
func logCatalogEvent(
	db *gorm.DB,
	actor *models.User,
	optionSetID string,
	optionItemID *string,
	action models.OptionAuditAction,
	before interface{},
	after interface{},
) {
	var beforeJSON, afterJSON string

	if before != nil {
		if bytes, err := json.Marshal(before); err == nil {
			beforeJSON = string(bytes)
		}
	}
	if after != nil {
		if bytes, err := json.Marshal(after); err == nil {
			afterJSON = string(bytes)
		}
	}

	auditLog := models.OptionAuditLog{
		OptionSetID:  optionSetID,
		OptionItemID: optionItemID,
		Action:       action,
		Before:       beforeJSON,
		After:        afterJSON,
	}

	if actor != nil {
		auditLog.ActorUserID = &actor.ID
		auditLog.ActorName = actor.Name
	}

	if err := db.Create(&auditLog).Error; err != nil {
		log.Printf("[AUDIT] Failed to record %s on option set %s: %v", action, optionSetID, err)
	}
}

// GetOptionItemHistory retrieves the audit trail for a single option item
func GetOptionItemHistory(db *gorm.DB, optionItemID string) ([]models.OptionAuditLog, error) {
	var logs []models.OptionAuditLog
	err := db.Where("option_item_id = ?", optionItemID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// OptionAuditFilters contains filter options for catalog audit queries
type OptionAuditFilters struct {
	ActorUserID string
	Action      string
	DateFrom    time.Time
	DateTo      time.Time
}

// GetOptionSetAuditLogs retrieves paginated audit logs for one option set
func GetOptionSetAuditLogs(
	db *gorm.DB,
	optionSetKey string,
	filters OptionAuditFilters,
	page, pageSize int,
) ([]models.OptionAuditLog, int64, error) {
	set, err := resolveOptionSet(db, optionSetKey)
	if err != nil {
		return nil, 0, err
	}

	query := db.Model(&models.OptionAuditLog{}).Where("option_set_id = ?", set.ID)

	if filters.ActorUserID != "" {
		query = query.Where("actor_user_id = ?", filters.ActorUserID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.OptionAuditLog
	offset := (page - 1) * pageSize
	err = query.Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}

package services

import (
	"law_catalog_app_go/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetOptionItemHistory(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	createTestSet(t, db, "historia")

	item, err := CreateOptionItem(db, actor, "historia", OptionItemDraft{Label: "Item", Value: "item"})
	assert.NoError(t, err)
	newLabel := "Item Editado"
	_, err = UpdateOptionItem(db, actor, "historia", item.ID, OptionItemUpdates{Label: &newLabel})
	assert.NoError(t, err)

	history, err := GetOptionItemHistory(db, item.ID)
	assert.NoError(t, err)
	assert.Len(t, history, 2)
	for _, entry := range history {
		assert.Equal(t, item.ID, *entry.OptionItemID)
	}
}

func TestGetOptionSetAuditLogs(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	other := models.User{Name: "Bia", Email: "bia@firm.test", Password: "x", Role: "staff"}
	db.Create(&other)
	createTestSet(t, db, "auditoria")

	item, err := CreateOptionItem(db, actor, "auditoria", OptionItemDraft{Label: "Um", Value: "um"})
	assert.NoError(t, err)
	_, err = ToggleOptionItemActive(db, &other, "auditoria", item.ID, false)
	assert.NoError(t, err)
	assert.NoError(t, DeleteOptionItem(db, actor, "auditoria", item.ID))

	t.Run("Unfiltered", func(t *testing.T) {
		logs, total, err := GetOptionSetAuditLogs(db, "auditoria", OptionAuditFilters{}, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, logs, 3)
	})

	t.Run("ByActor", func(t *testing.T) {
		logs, total, err := GetOptionSetAuditLogs(db, "auditoria", OptionAuditFilters{ActorUserID: other.ID}, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, models.OptionAuditActionDeactivate, logs[0].Action)
	})

	t.Run("ByAction", func(t *testing.T) {
		_, total, err := GetOptionSetAuditLogs(db, "auditoria", OptionAuditFilters{Action: "DELETE"}, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("ByDateRange", func(t *testing.T) {
		_, total, err := GetOptionSetAuditLogs(db, "auditoria",
			OptionAuditFilters{DateFrom: time.Now().Add(time.Hour)}, 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("Pagination", func(t *testing.T) {
		page1, total, err := GetOptionSetAuditLogs(db, "auditoria", OptionAuditFilters{}, 1, 2)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, page1, 2)

		page2, _, err := GetOptionSetAuditLogs(db, "auditoria", OptionAuditFilters{}, 2, 2)
		assert.NoError(t, err)
		assert.Len(t, page2, 1)
	})

	t.Run("UnknownSet", func(t *testing.T) {
		_, _, err := GetOptionSetAuditLogs(db, "missing", OptionAuditFilters{}, 1, 20)
		assert.ErrorIs(t, err, ErrOptionSetNotFound)
	})
}

func TestAuditLogImmutability(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	createTestSet(t, db, "imutavel")

	item, err := CreateOptionItem(db, actor, "imutavel", OptionItemDraft{Label: "Um", Value: "um"})
	assert.NoError(t, err)

	var log models.OptionAuditLog
	assert.NoError(t, db.Where("option_item_id = ?", item.ID).First(&log).Error)

	assert.Error(t, db.Model(&log).Update("action", "TAMPERED").Error)
	assert.Error(t, db.Delete(&log).Error)
}

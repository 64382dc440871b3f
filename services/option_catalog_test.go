package services

import (
	"encoding/json"
	"law_catalog_app_go/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.OptionSet{}, &models.OptionItem{}, &models.OptionAuditLog{}, &models.OptionVersion{}, &models.User{})
	return db
}

func createTestSet(t *testing.T, db *gorm.DB, key string) *models.OptionSet {
	set, err := CreateOptionSet(db, key, "Test Set "+key, "")
	assert.NoError(t, err)
	return set
}

func createTestActor(db *gorm.DB) *models.User {
	actor := models.User{Name: "Ana Reviewer", Email: "ana@firm.test", Password: "x", Role: "admin"}
	db.Create(&actor)
	return &actor
}

func TestCreateOptionItem(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	createTestSet(t, db, "status")

	t.Run("Success", func(t *testing.T) {
		item, err := CreateOptionItem(db, actor, "status", OptionItemDraft{Label: "Aberto", Value: "aberto"})
		assert.NoError(t, err)
		assert.NotEmpty(t, item.ID)
		assert.True(t, item.IsActive)
		assert.False(t, item.IsDeleted())
	})

	t.Run("AppendsSortOrder", func(t *testing.T) {
		item, err := CreateOptionItem(db, actor, "status", OptionItemDraft{Label: "Fechado", Value: "fechado"})
		assert.NoError(t, err)
		assert.Equal(t, 1, item.SortOrder) // one past the first item's 0
	})

	t.Run("EmptyLabelRejected", func(t *testing.T) {
		_, err := CreateOptionItem(db, actor, "status", OptionItemDraft{Label: "  ", Value: "x"})
		assert.ErrorIs(t, err, ErrOptionLabelRequired)
	})

	t.Run("EmptyValueRejected", func(t *testing.T) {
		_, err := CreateOptionItem(db, actor, "status", OptionItemDraft{Label: "Sem Valor"})
		assert.ErrorIs(t, err, ErrOptionValueRequired)
	})

	t.Run("ValueConflictWithinSet", func(t *testing.T) {
		_, err := CreateOptionItem(db, actor, "status", OptionItemDraft{Label: "Duplicado", Value: "aberto"})
		assert.ErrorIs(t, err, ErrOptionValueTaken)
	})

	t.Run("SameValueInOtherSet", func(t *testing.T) {
		createTestSet(t, db, "other")
		item, err := CreateOptionItem(db, actor, "other", OptionItemDraft{Label: "Aberto", Value: "aberto"})
		assert.NoError(t, err)
		assert.NotNil(t, item)
	})

	t.Run("UnknownSet", func(t *testing.T) {
		_, err := CreateOptionItem(db, actor, "missing", OptionItemDraft{Label: "X", Value: "x"})
		assert.ErrorIs(t, err, ErrOptionSetNotFound)
	})

	t.Run("InactiveDraft", func(t *testing.T) {
		inactive := false
		item, err := CreateOptionItem(db, actor, "status", OptionItemDraft{Label: "Oculto", Value: "oculto", IsActive: &inactive})
		assert.NoError(t, err)
		assert.False(t, item.IsActive)

		var stored models.OptionItem
		db.First(&stored, "id = ?", item.ID)
		assert.False(t, stored.IsActive)
	})

	t.Run("MetaEncoded", func(t *testing.T) {
		item, err := CreateOptionItem(db, actor, "status", OptionItemDraft{
			Label: "Com Meta", Value: "com-meta",
			Meta: map[string]interface{}{"color": "red"},
		})
		assert.NoError(t, err)

		var meta map[string]interface{}
		assert.NoError(t, json.Unmarshal([]byte(item.Meta), &meta))
		assert.Equal(t, "red", meta["color"])
	})
}

func TestListOptionItems(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	createTestSet(t, db, "prioridade")

	order := func(n int) *int { return &n }
	mk := func(label, value string, sortOrder int) *models.OptionItem {
		item, err := CreateOptionItem(db, actor, "prioridade", OptionItemDraft{Label: label, Value: value, SortOrder: order(sortOrder)})
		assert.NoError(t, err)
		return item
	}

	mk("Alta", "alta", 2)
	mk("Baixa", "baixa", 1)
	hidden := mk("Oculta", "oculta", 3)
	removed := mk("Removida", "removida", 4)

	_, err := ToggleOptionItemActive(db, actor, "prioridade", hidden.ID, false)
	assert.NoError(t, err)
	assert.NoError(t, DeleteOptionItem(db, actor, "prioridade", removed.ID))

	t.Run("DefaultExcludesDeleted", func(t *testing.T) {
		items, err := ListOptionItems(db, "prioridade", OptionItemFilter{})
		assert.NoError(t, err)
		assert.Len(t, items, 3)
		assert.Equal(t, "baixa", items[0].Value)
		assert.Equal(t, "alta", items[1].Value)
		assert.Equal(t, "oculta", items[2].Value)
	})

	t.Run("ActiveOnly", func(t *testing.T) {
		items, err := ListOptionItems(db, "prioridade", OptionItemFilter{ActiveOnly: true})
		assert.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("IncludeDeleted", func(t *testing.T) {
		items, err := ListOptionItems(db, "prioridade", OptionItemFilter{IncludeDeleted: true})
		assert.NoError(t, err)
		assert.Len(t, items, 4)
	})

	t.Run("LabelTiebreak", func(t *testing.T) {
		createTestSet(t, db, "ties")
		mkTie := func(label, value string) {
			five := 5
			_, err := CreateOptionItem(db, actor, "ties", OptionItemDraft{Label: label, Value: value, SortOrder: &five})
			assert.NoError(t, err)
		}
		mkTie("Zebra", "zebra")
		mkTie("Água", "agua")
		mkTie("Banana", "banana")

		items, err := ListOptionItems(db, "ties", OptionItemFilter{})
		assert.NoError(t, err)
		assert.Equal(t, []string{"agua", "banana", "zebra"},
			[]string{items[0].Value, items[1].Value, items[2].Value})
	})

	t.Run("EmptySet", func(t *testing.T) {
		createTestSet(t, db, "vazio")
		items, err := ListOptionItems(db, "vazio", OptionItemFilter{})
		assert.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestUpdateOptionItem(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	createTestSet(t, db, "tipo")

	item, err := CreateOptionItem(db, actor, "tipo", OptionItemDraft{Label: "Original", Value: "original"})
	assert.NoError(t, err)
	other, err := CreateOptionItem(db, actor, "tipo", OptionItemDraft{Label: "Outro", Value: "outro"})
	assert.NoError(t, err)

	t.Run("PartialUpdate", func(t *testing.T) {
		newLabel := "Renomeado"
		updated, err := UpdateOptionItem(db, actor, "tipo", item.ID, OptionItemUpdates{Label: &newLabel})
		assert.NoError(t, err)
		assert.Equal(t, "Renomeado", updated.Label)
		assert.Equal(t, "original", updated.Value) // untouched
	})

	t.Run("ValueConflict", func(t *testing.T) {
		taken := "outro"
		_, err := UpdateOptionItem(db, actor, "tipo", item.ID, OptionItemUpdates{Value: &taken})
		assert.ErrorIs(t, err, ErrOptionValueTaken)
	})

	t.Run("KeepOwnValue", func(t *testing.T) {
		same := "original"
		_, err := UpdateOptionItem(db, actor, "tipo", item.ID, OptionItemUpdates{Value: &same})
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		label := "X"
		_, err := UpdateOptionItem(db, actor, "tipo", "missing-id", OptionItemUpdates{Label: &label})
		assert.ErrorIs(t, err, ErrOptionItemNotFound)
	})

	t.Run("DeletedItemNotUpdatable", func(t *testing.T) {
		assert.NoError(t, DeleteOptionItem(db, actor, "tipo", other.ID))
		label := "Ressuscitado"
		_, err := UpdateOptionItem(db, actor, "tipo", other.ID, OptionItemUpdates{Label: &label})
		assert.ErrorIs(t, err, ErrOptionItemNotFound)
	})
}

func TestDeleteAndRestoreOptionItem(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	createTestSet(t, db, "fase")

	item, err := CreateOptionItem(db, actor, "fase", OptionItemDraft{Label: "Inicial", Value: "inicial"})
	assert.NoError(t, err)

	t.Run("SoftDelete", func(t *testing.T) {
		assert.NoError(t, DeleteOptionItem(db, actor, "fase", item.ID))

		visible, err := ListOptionItems(db, "fase", OptionItemFilter{})
		assert.NoError(t, err)
		assert.Empty(t, visible)

		all, err := ListOptionItems(db, "fase", OptionItemFilter{IncludeDeleted: true})
		assert.NoError(t, err)
		assert.Len(t, all, 1)
		assert.True(t, all[0].IsDeleted())
		// All other fields untouched
		assert.Equal(t, "Inicial", all[0].Label)
		assert.Equal(t, "inicial", all[0].Value)
		assert.True(t, all[0].IsActive)
	})

	t.Run("DoubleDeleteRejected", func(t *testing.T) {
		err := DeleteOptionItem(db, actor, "fase", item.ID)
		assert.ErrorIs(t, err, ErrOptionItemDeleted)
	})

	t.Run("Restore", func(t *testing.T) {
		restored, err := RestoreOptionItem(db, actor, "fase", item.ID)
		assert.NoError(t, err)
		assert.False(t, restored.IsDeleted())

		visible, err := ListOptionItems(db, "fase", OptionItemFilter{})
		assert.NoError(t, err)
		assert.Len(t, visible, 1)
	})

	t.Run("RestoreNotDeleted", func(t *testing.T) {
		_, err := RestoreOptionItem(db, actor, "fase", item.ID)
		assert.ErrorIs(t, err, ErrOptionItemNotDeleted)
	})

	t.Run("RestoreBlockedByValueReuse", func(t *testing.T) {
		assert.NoError(t, DeleteOptionItem(db, actor, "fase", item.ID))
		_, err := CreateOptionItem(db, actor, "fase", OptionItemDraft{Label: "Novo Inicial", Value: "inicial"})
		assert.NoError(t, err) // deleted items do not reserve their value

		_, err = RestoreOptionItem(db, actor, "fase", item.ID)
		assert.ErrorIs(t, err, ErrOptionValueTaken)
	})
}

func TestToggleOptionItemActive(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	createTestSet(t, db, "canal")

	item, err := CreateOptionItem(db, actor, "canal", OptionItemDraft{Label: "WhatsApp", Value: "whatsapp"})
	assert.NoError(t, err)

	deactivated, err := ToggleOptionItemActive(db, actor, "canal", item.ID, false)
	assert.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	reactivated, err := ToggleOptionItemActive(db, actor, "canal", item.ID, true)
	assert.NoError(t, err)
	assert.True(t, reactivated.IsActive)

	var actions []string
	db.Model(&models.OptionAuditLog{}).
		Where("option_item_id = ? AND action IN ?", item.ID, []string{"ACTIVATE", "DEACTIVATE"}).
		Order("created_at ASC").
		Pluck("action", &actions)
	assert.Equal(t, []string{"DEACTIVATE", "ACTIVATE"}, actions)
}

func TestReorderOptionItems(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	createTestSet(t, db, "ordem")

	var ids []string
	for _, value := range []string{"a", "b", "c"} {
		item, err := CreateOptionItem(db, actor, "ordem", OptionItemDraft{Label: value, Value: value})
		assert.NoError(t, err)
		ids = append(ids, item.ID)
	}

	// Reverse the ordering
	reversed := []string{ids[2], ids[1], ids[0]}

	t.Run("AppliesPositions", func(t *testing.T) {
		assert.NoError(t, ReorderOptionItems(db, actor, "ordem", reversed))

		items, err := ListOptionItems(db, "ordem", OptionItemFilter{})
		assert.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"},
			[]string{items[0].Value, items[1].Value, items[2].Value})
	})

	t.Run("Idempotent", func(t *testing.T) {
		assert.NoError(t, ReorderOptionItems(db, actor, "ordem", reversed))

		items, err := ListOptionItems(db, "ordem", OptionItemFilter{})
		assert.NoError(t, err)
		assert.Equal(t, []string{"c", "b", "a"},
			[]string{items[0].Value, items[1].Value, items[2].Value})
	})

	t.Run("SetLevelAuditRow", func(t *testing.T) {
		var logs []models.OptionAuditLog
		db.Where("action = ?", models.OptionAuditActionReorder).Find(&logs)
		assert.Len(t, logs, 2)
		assert.Nil(t, logs[0].OptionItemID)

		var payload map[string][]string
		assert.NoError(t, json.Unmarshal([]byte(logs[0].After), &payload))
		assert.Equal(t, reversed, payload["ordered_ids"])
	})

	t.Run("UnknownIDPartialSuccess", func(t *testing.T) {
		err := ReorderOptionItems(db, actor, "ordem", []string{ids[0], "missing", ids[1]})
		assert.ErrorIs(t, err, ErrOptionItemNotFound)

		// Known rows were still repositioned
		items, listErr := ListOptionItems(db, "ordem", OptionItemFilter{})
		assert.NoError(t, listErr)
		assert.Equal(t, "a", items[0].Value)
	})
}

func TestAuditTrailCompleteness(t *testing.T) {
	db := setupCatalogTestDB()
	actor := createTestActor(db)
	set := createTestSet(t, db, "trilha")

	item, err := CreateOptionItem(db, actor, "trilha", OptionItemDraft{Label: "Um", Value: "um"})
	assert.NoError(t, err)

	newLabel := "Um Editado"
	_, err = UpdateOptionItem(db, actor, "trilha", item.ID, OptionItemUpdates{Label: &newLabel})
	assert.NoError(t, err)

	_, err = ToggleOptionItemActive(db, actor, "trilha", item.ID, false)
	assert.NoError(t, err)

	assert.NoError(t, DeleteOptionItem(db, actor, "trilha", item.ID))

	var logs []models.OptionAuditLog
	db.Where("option_set_id = ?", set.ID).Order("created_at ASC, id ASC").Find(&logs)
	assert.Len(t, logs, 4)

	// One audit row per successful mutation
	gotActions := []models.OptionAuditAction{}
	for _, l := range logs {
		gotActions = append(gotActions, l.Action)
	}
	assert.ElementsMatch(t,
		[]models.OptionAuditAction{
			models.OptionAuditActionCreate,
			models.OptionAuditActionUpdate,
			models.OptionAuditActionDeactivate,
			models.OptionAuditActionDelete,
		}, gotActions)

	for _, l := range logs {
		assert.Equal(t, actor.ID, *l.ActorUserID)
		assert.Equal(t, actor.Name, l.ActorName)
		assert.Equal(t, item.ID, *l.OptionItemID)
	}

	// CREATE has no before, DELETE has no after
	var createLog, updateLog, deleteLog models.OptionAuditLog
	db.Where("option_set_id = ? AND action = ?", set.ID, "CREATE").First(&createLog)
	db.Where("option_set_id = ? AND action = ?", set.ID, "UPDATE").First(&updateLog)
	db.Where("option_set_id = ? AND action = ?", set.ID, "DELETE").First(&deleteLog)

	assert.Empty(t, createLog.Before)
	assert.NotEmpty(t, createLog.After)
	assert.Empty(t, deleteLog.After)

	var before, after map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(updateLog.Before), &before))
	assert.NoError(t, json.Unmarshal([]byte(updateLog.After), &after))
	assert.Equal(t, "Um", before["label"])
	assert.Equal(t, "Um Editado", after["label"])

	// Failed mutations leave no audit rows
	_, err = CreateOptionItem(db, actor, "trilha", OptionItemDraft{Label: ""})
	assert.Error(t, err)
	var count int64
	db.Model(&models.OptionAuditLog{}).Where("option_set_id = ?", set.ID).Count(&count)
	assert.Equal(t, int64(4), count)
}

func TestAnonymousActorAudit(t *testing.T) {
	db := setupCatalogTestDB()
	createTestSet(t, db, "anonimo")

	item, err := CreateOptionItem(db, nil, "anonimo", OptionItemDraft{Label: "Sem Autor", Value: "sem-autor"})
	assert.NoError(t, err)

	var log models.OptionAuditLog
	db.Where("option_item_id = ?", item.ID).First(&log)
	assert.Nil(t, log.ActorUserID)
	assert.Empty(t, log.ActorName)
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"law_catalog_app_go/models"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// Catalog-related errors
var (
	ErrOptionSetNotFound    = errors.New("option set not found")
	ErrOptionItemNotFound   = errors.New("option item not found")
	ErrOptionValueTaken     = errors.New("option value already in use in this set")
	ErrOptionLabelRequired  = errors.New("option label is required")
	ErrOptionValueRequired  = errors.New("option value is required")
	ErrOptionItemDeleted    = errors.New("option item is already deleted")
	ErrOptionItemNotDeleted = errors.New("option item is not deleted")
)

// labelCollator provides locale-aware label comparison for the sort tiebreak.
// Catalog labels are Brazilian Portuguese display text.
var labelCollator = collate.New(language.BrazilianPortuguese)

// OptionItemFilter controls which items ListOptionItems returns
type OptionItemFilter struct {
	ActiveOnly     bool
	IncludeDeleted bool
}

// OptionItemDraft carries the fields for creating a new option item.
// Value must be provided by the caller (e.g. slugified from the label);
// the catalog does not derive it.
type OptionItemDraft struct {
	Label     string                 `json:"label"`
	Value     string                 `json:"value"`
	SortOrder *int                   `json:"order"`
	IsActive  *bool                  `json:"is_active"`
	IsDefault bool                   `json:"is_default"`
	Meta      map[string]interface{} `json:"meta"`
}

// OptionItemUpdates carries partial updates for an existing option item.
// Nil fields are left unchanged.
type OptionItemUpdates struct {
	Label     *string                `json:"label"`
	Value     *string                `json:"value"`
	SortOrder *int                   `json:"order"`
	IsDefault *bool                  `json:"is_default"`
	Meta      map[string]interface{} `json:"meta"`
}

// resolveOptionSet looks up an option set by its unique key
func resolveOptionSet(db *gorm.DB, key string) (*models.OptionSet, error) {
	var set models.OptionSet
	if err := db.Where("key = ?", key).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionSetNotFound
		}
		return nil, fmt.Errorf("failed to resolve option set %q: %w", key, err)
	}
	return &set, nil
}

// GetOptionSets returns all option sets ordered by key
func GetOptionSets(db *gorm.DB) ([]models.OptionSet, error) {
	var sets []models.OptionSet
	err := db.Order("key ASC").Find(&sets).Error
	return sets, err
}

// GetOptionSetByKey returns one option set resolved by its key
func GetOptionSetByKey(db *gorm.DB, key string) (*models.OptionSet, error) {
	return resolveOptionSet(db, key)
}

// CreateOptionSet registers a new catalog. Keys are unique and immutable.
func CreateOptionSet(db *gorm.DB, key, label, description string) (*models.OptionSet, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("option set key is required")
	}
	if strings.TrimSpace(label) == "" {
		return nil, ErrOptionLabelRequired
	}

	var count int64
	db.Model(&models.OptionSet{}).Where("key = ?", key).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("option set %q already exists", key)
	}

	set := models.OptionSet{Key: key, Label: label, Description: description}
	if err := db.Create(&set).Error; err != nil {
		return nil, fmt.Errorf("failed to create option set: %w", err)
	}
	return &set, nil
}

// ListOptionItems returns the items of an option set sorted by sort order
// ascending, with a locale-aware label comparison as tiebreak. Returns an
// empty slice (not an error) when the set has no matching items.
func ListOptionItems(db *gorm.DB, setKey string, filter OptionItemFilter) ([]models.OptionItem, error) {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return nil, err
	}

	query := db.Where("option_set_id = ?", set.ID)
	if filter.IncludeDeleted {
		query = db.Unscoped().Where("option_set_id = ?", set.ID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var items []models.OptionItem
	if err := query.Order("sort_order ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list option items: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return labelCollator.CompareString(items[i].Label, items[j].Label) < 0
	})

	return items, nil
}

// valueInUse reports whether a non-deleted item in the set already carries
// the given value. Soft-deleted items do not reserve their value.
func valueInUse(db *gorm.DB, setID, value, excludeItemID string) bool {
	query := db.Model(&models.OptionItem{}).
		Where("option_set_id = ? AND value = ?", setID, value)
	if excludeItemID != "" {
		query = query.Where("id <> ?", excludeItemID)
	}

	var count int64
	query.Count(&count)
	return count > 0
}

// CreateOptionItem adds a new item to an option set and records a CREATE
// audit row attributed to the actor (nil for unauthenticated contexts)
func CreateOptionItem(db *gorm.DB, actor *models.User, setKey string, draft OptionItemDraft) (*models.OptionItem, error) {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(draft.Label) == "" {
		return nil, ErrOptionLabelRequired
	}
	if strings.TrimSpace(draft.Value) == "" {
		return nil, ErrOptionValueRequired
	}
	if valueInUse(db, set.ID, draft.Value, "") {
		return nil, ErrOptionValueTaken
	}

	item := models.OptionItem{
		OptionSetID: set.ID,
		Label:       draft.Label,
		Value:       draft.Value,
		IsActive:    true,
		IsDefault:   draft.IsDefault,
	}

	if draft.IsActive != nil {
		item.IsActive = *draft.IsActive
	}

	if draft.SortOrder != nil {
		item.SortOrder = *draft.SortOrder
	} else {
		// Append at the end of the current ordering
		item.SortOrder = nextSortOrder(db, set.ID)
	}

	if draft.Meta != nil {
		bytes, err := json.Marshal(draft.Meta)
		if err != nil {
			return nil, fmt.Errorf("failed to encode item meta: %w", err)
		}
		item.Meta = string(bytes)
	}

	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create option item: %w", err)
	}

	// GORM fills the column default for zero-valued fields on create, so an
	// explicitly inactive draft needs a follow-up update
	if !item.IsActive {
		if err := db.Model(&item).Update("is_active", false).Error; err != nil {
			return nil, fmt.Errorf("failed to set option item inactive: %w", err)
		}
	}

	logCatalogEvent(db, actor, set.ID, &item.ID, models.OptionAuditActionCreate, nil, item)
	return &item, nil
}

// nextSortOrder returns a sort order just past the set's current maximum
func nextSortOrder(db *gorm.DB, setID string) int {
	var last models.OptionItem
	err := db.Where("option_set_id = ?", setID).
		Order("sort_order DESC").
		First(&last).Error
	if err != nil {
		return 0
	}
	return last.SortOrder + 1
}

// loadOptionItem fetches a non-deleted item of the given set
func loadOptionItem(db *gorm.DB, setID, itemID string) (*models.OptionItem, error) {
	var item models.OptionItem
	err := db.Where("id = ? AND option_set_id = ?", itemID, setID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionItemNotFound
		}
		return nil, fmt.Errorf("failed to load option item: %w", err)
	}
	return &item, nil
}

// UpdateOptionItem applies partial updates to a non-deleted item and records
// an UPDATE audit row with before/after snapshots. Updates on soft-deleted
// items are rejected as not found.
func UpdateOptionItem(db *gorm.DB, actor *models.User, setKey, itemID string, updates OptionItemUpdates) (*models.OptionItem, error) {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return nil, err
	}

	item, err := loadOptionItem(db, set.ID, itemID)
	if err != nil {
		return nil, err
	}
	before := *item

	if updates.Label != nil {
		if strings.TrimSpace(*updates.Label) == "" {
			return nil, ErrOptionLabelRequired
		}
		item.Label = *updates.Label
	}
	if updates.Value != nil {
		if strings.TrimSpace(*updates.Value) == "" {
			return nil, ErrOptionValueRequired
		}
		if *updates.Value != before.Value && valueInUse(db, set.ID, *updates.Value, item.ID) {
			return nil, ErrOptionValueTaken
		}
		item.Value = *updates.Value
	}
	if updates.SortOrder != nil {
		item.SortOrder = *updates.SortOrder
	}
	if updates.IsDefault != nil {
		item.IsDefault = *updates.IsDefault
	}
	if updates.Meta != nil {
		bytes, err := json.Marshal(updates.Meta)
		if err != nil {
			return nil, fmt.Errorf("failed to encode item meta: %w", err)
		}
		item.Meta = string(bytes)
	}

	if err := db.Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update option item: %w", err)
	}

	logCatalogEvent(db, actor, set.ID, &item.ID, models.OptionAuditActionUpdate, before, *item)
	return item, nil
}

// DeleteOptionItem soft-deletes an item, leaving all other fields untouched.
// Deleting an already deleted item fails explicitly rather than stacking a
// second DELETE audit row.
func DeleteOptionItem(db *gorm.DB, actor *models.User, setKey, itemID string) error {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return err
	}

	var item models.OptionItem
	err = db.Unscoped().Where("id = ? AND option_set_id = ?", itemID, set.ID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionItemNotFound
		}
		return fmt.Errorf("failed to load option item: %w", err)
	}
	if item.IsDeleted() {
		return ErrOptionItemDeleted
	}
	before := item

	if err := db.Delete(&item).Error; err != nil {
		return fmt.Errorf("failed to delete option item: %w", err)
	}

	logCatalogEvent(db, actor, set.ID, &item.ID, models.OptionAuditActionDelete, before, nil)
	return nil
}

// RestoreOptionItem clears the soft delete marker of a deleted item
func RestoreOptionItem(db *gorm.DB, actor *models.User, setKey, itemID string) (*models.OptionItem, error) {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return nil, err
	}

	var item models.OptionItem
	err = db.Unscoped().Where("id = ? AND option_set_id = ?", itemID, set.ID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOptionItemNotFound
		}
		return nil, fmt.Errorf("failed to load option item: %w", err)
	}
	if !item.IsDeleted() {
		return nil, ErrOptionItemNotDeleted
	}
	before := item

	// A restored value may have been taken by a newer item in the meantime
	if valueInUse(db, set.ID, item.Value, item.ID) {
		return nil, ErrOptionValueTaken
	}

	if err := db.Unscoped().Model(&item).Update("deleted_at", nil).Error; err != nil {
		return nil, fmt.Errorf("failed to restore option item: %w", err)
	}
	item.DeletedAt = gorm.DeletedAt{}

	logCatalogEvent(db, actor, set.ID, &item.ID, models.OptionAuditActionRestore, before, item)
	return &item, nil
}

// ToggleOptionItemActive flips an item's visibility in pickers and records
// an ACTIVATE or DEACTIVATE audit row
func ToggleOptionItemActive(db *gorm.DB, actor *models.User, setKey, itemID string, isActive bool) (*models.OptionItem, error) {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return nil, err
	}

	item, err := loadOptionItem(db, set.ID, itemID)
	if err != nil {
		return nil, err
	}
	before := *item

	item.IsActive = isActive
	if err := db.Model(item).Update("is_active", isActive).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle option item: %w", err)
	}

	action := models.OptionAuditActionDeactivate
	if isActive {
		action = models.OptionAuditActionActivate
	}
	logCatalogEvent(db, actor, set.ID, &item.ID, action, before, *item)
	return item, nil
}

// ReorderOptionItems assigns sort order by position in the given id list.
// Rows are updated one by one with no cross-row transaction: a mid-sequence
// failure leaves earlier rows reordered (partial success, matching the
// last-writer-wins model of the rest of the catalog). All ids are attempted
// before the first error is returned, and a single set-level REORDER audit
// row records the requested ordering.
func ReorderOptionItems(db *gorm.DB, actor *models.User, setKey string, orderedIDs []string) error {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return err
	}

	var firstErr error
	for i, id := range orderedIDs {
		result := db.Model(&models.OptionItem{}).
			Where("id = ? AND option_set_id = ?", id, set.ID).
			Update("sort_order", i)
		if result.Error != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to reorder option item %s: %w", id, result.Error)
		}
		if result.Error == nil && result.RowsAffected == 0 && firstErr == nil {
			firstErr = ErrOptionItemNotFound
		}
	}

	logCatalogEvent(db, actor, set.ID, nil, models.OptionAuditActionReorder, nil,
		map[string]interface{}{"ordered_ids": orderedIDs})
	return firstErr
}

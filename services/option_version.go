package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"law_catalog_app_go/models"

	"gorm.io/gorm"
)

// Version-related errors
var (
	ErrOptionVersionNotFound = errors.New("option version not found")
)

// SnapshotOptionSet captures the current non-deleted items of a set (active
// and inactive) as a new version with a per-set monotonic version number
func SnapshotOptionSet(db *gorm.DB, actor *models.User, setKey string) (*models.OptionVersion, error) {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return nil, err
	}

	items, err := ListOptionItems(db, setKey, OptionItemFilter{})
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	version := models.OptionVersion{
		OptionSetID: set.ID,
		Version:     nextVersionNumber(db, set.ID),
		Snapshot:    string(snapshot),
	}
	if actor != nil {
		version.ActorUserID = &actor.ID
	}

	if err := db.Create(&version).Error; err != nil {
		return nil, fmt.Errorf("failed to create option version: %w", err)
	}
	return &version, nil
}

// nextVersionNumber returns one past the highest version recorded for a set
func nextVersionNumber(db *gorm.DB, setID string) int {
	var last models.OptionVersion
	err := db.Where("option_set_id = ?", setID).
		Order("version DESC").
		First(&last).Error
	if err != nil {
		return 1
	}
	return last.Version + 1
}

// ListOptionVersions returns a set's versions, most recent first
func ListOptionVersions(db *gorm.DB, setKey string) ([]models.OptionVersion, error) {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return nil, err
	}

	var versions []models.OptionVersion
	err = db.Where("option_set_id = ?", set.ID).
		Order("version DESC").
		Find(&versions).Error
	return versions, err
}

// RestoreOptionSetVersion brings a set's items back to a recorded snapshot:
// snapshot items are upserted (un-deleting them if needed) and current items
// absent from the snapshot are soft-deleted. One set-level RESTORE audit row
// records the restored version number.
func RestoreOptionSetVersion(db *gorm.DB, actor *models.User, setKey string, versionNumber int) error {
	set, err := resolveOptionSet(db, setKey)
	if err != nil {
		return err
	}

	var version models.OptionVersion
	err = db.Where("option_set_id = ? AND version = ?", set.ID, versionNumber).
		First(&version).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOptionVersionNotFound
		}
		return fmt.Errorf("failed to load option version: %w", err)
	}

	var snapshot []models.OptionItem
	if err := json.Unmarshal([]byte(version.Snapshot), &snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot for version %d: %w", versionNumber, err)
	}

	inSnapshot := make(map[string]bool, len(snapshot))
	for _, snap := range snapshot {
		inSnapshot[snap.ID] = true

		var existing models.OptionItem
		err := db.Unscoped().
			Where("id = ? AND option_set_id = ?", snap.ID, set.ID).
			First(&existing).Error

		switch {
		case err == nil:
			fields := map[string]interface{}{
				"label":      snap.Label,
				"value":      snap.Value,
				"sort_order": snap.SortOrder,
				"is_active":  snap.IsActive,
				"is_default": snap.IsDefault,
				"meta":       snap.Meta,
				"deleted_at": nil,
			}
			if err := db.Unscoped().Model(&existing).Updates(fields).Error; err != nil {
				return fmt.Errorf("failed to restore option item %s: %w", snap.ID, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Item was hard-removed since the snapshot; recreate it with
			// its original id so audit history still lines up
			recreated := snap
			recreated.OptionSetID = set.ID
			recreated.DeletedAt = gorm.DeletedAt{}
			if err := db.Create(&recreated).Error; err != nil {
				return fmt.Errorf("failed to recreate option item %s: %w", snap.ID, err)
			}
			if !recreated.IsActive {
				if err := db.Model(&recreated).Update("is_active", false).Error; err != nil {
					return fmt.Errorf("failed to recreate option item %s: %w", snap.ID, err)
				}
			}
		default:
			return fmt.Errorf("failed to load option item %s: %w", snap.ID, err)
		}
	}

	// Items created after the snapshot are hidden again via soft delete
	var current []models.OptionItem
	if err := db.Where("option_set_id = ?", set.ID).Find(&current).Error; err != nil {
		return fmt.Errorf("failed to list current items: %w", err)
	}
	for _, item := range current {
		if inSnapshot[item.ID] {
			continue
		}
		if err := db.Delete(&item).Error; err != nil {
			return fmt.Errorf("failed to retire option item %s: %w", item.ID, err)
		}
	}

	logCatalogEvent(db, actor, set.ID, nil, models.OptionAuditActionRestore, nil,
		map[string]interface{}{"version": versionNumber})
	return nil
}

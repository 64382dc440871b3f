package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionItem represents one selectable entry within an OptionSet
type OptionItem struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"` // Soft delete marker; deleted items stay queryable

	// Set relationship
	OptionSetID string    `gorm:"type:uuid;not null;index:idx_option_items_set_order" json:"option_set_id"`
	OptionSet   OptionSet `gorm:"foreignKey:OptionSetID" json:"option_set,omitempty"`

	// Item metadata
	Label     string `gorm:"not null" json:"label"`                                            // Display text
	Value     string `gorm:"not null;index" json:"value"`                                      // Machine slug, unique within its set among non-deleted items
	SortOrder int    `gorm:"not null;default:0;index:idx_option_items_set_order" json:"order"` // Primary sort key, need not be contiguous
	IsActive  bool   `gorm:"not null;default:true" json:"is_active"`                           // Inactive items are hidden from pickers but retained
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`
	Meta      string `gorm:"type:text" json:"meta,omitempty"` // JSON encoded open key/value bag
}

// BeforeCreate hook to generate UUID
func (oi *OptionItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return nil
}

// IsDeleted reports whether the item carries a soft delete marker
func (oi OptionItem) IsDeleted() bool {
	return oi.DeletedAt.Valid
}

// TableName specifies the table name for OptionItem model
func (OptionItem) TableName() string {
	return "option_items"
}

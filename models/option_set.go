package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionSet represents a named catalog of selectable values backing one
// logical field across the application (e.g. "objeto-procedimento")
type OptionSet struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Set metadata
	Key         string `gorm:"uniqueIndex;not null" json:"key"` // Unique human-readable slug, immutable after creation
	Label       string `gorm:"not null" json:"label"`           // Display name
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Items []OptionItem `gorm:"foreignKey:OptionSetID" json:"items,omitempty"`
}

// BeforeCreate hook to generate UUID
func (os *OptionSet) BeforeCreate(tx *gorm.DB) error {
	if os.ID == "" {
		os.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for OptionSet model
func (OptionSet) TableName() string {
	return "option_sets"
}

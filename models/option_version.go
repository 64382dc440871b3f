package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionVersion is a point-in-time full capture of an OptionSet's items,
// kept to support restoring an entire catalog to a previous state
type OptionVersion struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OptionSetID string  `gorm:"type:uuid;not null;index:idx_option_versions_set;uniqueIndex:uq_option_versions_set_version" json:"option_set_id"`
	Version     int     `gorm:"not null;uniqueIndex:uq_option_versions_set_version" json:"version"` // Monotonically increasing per set
	Snapshot    string  `gorm:"type:text;not null" json:"snapshot"`                                 // JSON encoded item list
	ActorUserID *string `gorm:"type:uuid" json:"actor_user_id,omitempty"`

	// Relationships
	OptionSet *OptionSet `gorm:"foreignKey:OptionSetID" json:"-"`
	ActorUser *User      `gorm:"foreignKey:ActorUserID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (ov *OptionVersion) BeforeCreate(tx *gorm.DB) error {
	if ov.ID == "" {
		ov.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for OptionVersion model
func (OptionVersion) TableName() string {
	return "option_versions"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OptionAuditAction represents the type of catalog operation performed
type OptionAuditAction string

const (
	OptionAuditActionCreate     OptionAuditAction = "CREATE"
	OptionAuditActionUpdate     OptionAuditAction = "UPDATE"
	OptionAuditActionDelete     OptionAuditAction = "DELETE"
	OptionAuditActionRestore    OptionAuditAction = "RESTORE"
	OptionAuditActionActivate   OptionAuditAction = "ACTIVATE"
	OptionAuditActionDeactivate OptionAuditAction = "DEACTIVATE"
	OptionAuditActionReorder    OptionAuditAction = "REORDER"
)

// OptionAuditLog represents an immutable record of a catalog mutation
type OptionAuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_option_audit_created_at" json:"created_at"`

	// Target catalog entities
	OptionSetID  string  `gorm:"type:uuid;not null;index:idx_option_audit_set" json:"option_set_id"`
	OptionItemID *string `gorm:"type:uuid;index:idx_option_audit_item" json:"option_item_id,omitempty"` // NULL for set-level actions (REORDER, version restore)

	// Actor identification
	ActorUserID *string `gorm:"type:uuid;index:idx_option_audit_actor" json:"actor_user_id,omitempty"` // NULL for unauthenticated contexts
	ActorName   string  `json:"actor_name,omitempty"`                                                  // Denormalized for historical accuracy

	// Operation details
	Action OptionAuditAction `gorm:"not null;index:idx_option_audit_action" json:"action"`
	Before string            `gorm:"type:text" json:"before,omitempty"` // JSON encoded snapshot of prior state
	After  string            `gorm:"type:text" json:"after,omitempty"`  // JSON encoded snapshot of resulting state

	// Relationships (for reading, not for data integrity)
	OptionSet  *OptionSet  `gorm:"foreignKey:OptionSetID" json:"-"`
	OptionItem *OptionItem `gorm:"foreignKey:OptionItemID" json:"-"`
	ActorUser  *User       `gorm:"foreignKey:ActorUserID" json:"-"`
}

// BeforeCreate generates UUID
func (a *OptionAuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of audit logs (immutability)
func (a *OptionAuditLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any updates
}

// BeforeDelete prevents deletion of audit logs (immutability)
func (a *OptionAuditLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound // Prevent any deletes
}

// TableName specifies the table name
func (OptionAuditLog) TableName() string {
	return "option_audit_logs"
}

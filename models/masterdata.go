package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllowedDomain restricts which email domains may register. While the
// table is empty, every domain is accepted.
type AllowedDomain struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Domain    string    `gorm:"uniqueIndex;not null;size:255" json:"domain"`
}

func (d *AllowedDomain) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// AdminEmail marks an address as an administrator. Admin-ness is looked
// up per request, so revoking an email takes effect immediately.
type AdminEmail struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `gorm:"uniqueIndex;not null;size:320" json:"email"`
}

func (a *AdminEmail) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

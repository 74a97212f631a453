package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Unit struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	Users     []User    `gorm:"foreignKey:UnitID" json:"users,omitempty"`
	Projects  []Project `gorm:"foreignKey:UnitID" json:"projects,omitempty"`
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

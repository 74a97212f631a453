package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID        string     `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Name      string     `gorm:"not null;size:200" json:"name"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	SortOrder int        `gorm:"default:0" json:"sort_order"`
	UnitID    *string    `gorm:"type:uuid;index" json:"unit_id"`
	Unit      *Unit      `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
	Items     []WorkItem `gorm:"foreignKey:ProjectID" json:"items,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// WorkItem is a fillable line inside a project. Only active items of
// active projects show up on an employee's sheet.
type WorkItem struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ProjectID string    `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Name      string    `gorm:"not null;size:200" json:"name"`
	Type      *string   `gorm:"size:50" json:"type"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
}

func (i *WorkItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeEntry is one employee's allocation for one work item on one day,
// in percentage points recorded to one decimal. A zero allocation is
// represented by the row's absence, never by a zero value.
type TimeEntry struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     string    `gorm:"type:uuid;not null;index:idx_time_entries_user_date" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date       time.Time `gorm:"not null;type:date;index:idx_time_entries_user_date" json:"date"`
	WorkItemID string    `gorm:"type:uuid;not null;index" json:"work_item_id"`
	WorkItem   *WorkItem `gorm:"foreignKey:WorkItemID" json:"work_item,omitempty"`
	Value      float64   `gorm:"not null" json:"value"`
}

func (e *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

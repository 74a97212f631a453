package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyHoliday applies to every employee.
type CompanyHoliday struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Date      time.Time `gorm:"not null;type:date;uniqueIndex" json:"date"`
	Name      string    `gorm:"size:200" json:"name"`
}

func (h *CompanyHoliday) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// PersonalHolidayName labels every employee-elected day.
const PersonalHolidayName = "個人休"

// PersonalHoliday is a single employee's elected non-working day.
type PersonalHoliday struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_personal_holiday_user_date" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date      time.Time `gorm:"not null;type:date;uniqueIndex:idx_personal_holiday_user_date" json:"date"`
	Name      string    `gorm:"size:200" json:"name"`
}

func (h *PersonalHoliday) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// NewPersonalHoliday builds an elected day with the standard label. Every
// creation path goes through here so the label is never left blank.
func NewPersonalHoliday(userID string, date time.Time) PersonalHoliday {
	return PersonalHoliday{UserID: userID, Date: date, Name: PersonalHolidayName}
}

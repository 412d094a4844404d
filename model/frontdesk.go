package model

import (
	"time"

	"gorm.io/gorm"
)

// FrontDeskLog is one visitor entry in the front-desk register.
type FrontDeskLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	VisitorName  string         `gorm:"not null" json:"visitor_name"`
	VisitorPhone string         `gorm:"type:varchar(20)" json:"visitor_phone"`
	Purpose      string         `gorm:"type:text;not null" json:"purpose"`
	LoggedByID   uint           `gorm:"not null;index" json:"logged_by_id"` // staff on duty
	TimeIn       time.Time      `gorm:"not null;index" json:"time_in"`
	TimeOut      *time.Time     `json:"time_out"`
	Notes        string         `gorm:"type:text" json:"notes"`

	// Relationships
	LoggedBy User `gorm:"foreignKey:LoggedByID" json:"logged_by,omitempty"`
}

// TableName specifies the table name for FrontDeskLog
func (FrontDeskLog) TableName() string {
	return "front_desk_logs"
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a portal account. Applicants, students, staff and
// admins all share this table; domain records (Applicant, Student,
// Staff) hang off it one-to-one.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	FirstName    string         `gorm:"not null" json:"first_name"`
	LastName     string         `gorm:"not null" json:"last_name"`
	Phone        string         `gorm:"type:varchar(20)" json:"phone"`
	Role         Role           `gorm:"type:varchar(20);default:'applicant'" json:"role"`
	TokenVersion int            `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens

	// Relationships
	Applicant      *Applicant          `gorm:"foreignKey:UserID" json:"applicant,omitempty"`
	Student        *Student            `gorm:"foreignKey:UserID" json:"student,omitempty"`
	Staff          *Staff              `gorm:"foreignKey:UserID" json:"staff,omitempty"`
	Invoices       []Invoice           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Payments       []Payment           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications  []UserNotification  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AdminAuditLog  []AdminAuditLog     `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// FullName returns the display name used on invoices and payslips.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

package model

import "time"

// AdminAuditLog is the audit trail for privileged mutations: session
// activation, admission decisions, invoice overrides and payroll runs.
// OldValue/NewValue are jsonb and must always hold valid JSON.
type AdminAuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AdminID    uint      `gorm:"not null;index" json:"admin_id"`
	Action     string    `gorm:"type:varchar(100);not null" json:"action"` // e.g. "applicant_admit", "payroll_run"
	Resource   string    `gorm:"type:varchar(100)" json:"resource"`
	ResourceID uint      `json:"resource_id"`
	OldValue   string    `gorm:"type:jsonb" json:"old_value"`
	NewValue   string    `gorm:"type:jsonb" json:"new_value"`
	IPAddress  string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`

	Admin User `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"admin,omitempty"`
}

// TableName specifies the table name for AdminAuditLog
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}

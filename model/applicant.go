package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicantStatus tracks an application through the admission pipeline.
// The progression is monotonic in practice: draft → pending_payment →
// submitted → screening → admitted/rejected → enrolled.
type ApplicantStatus string

const (
	ApplicantStatusDraft          ApplicantStatus = "draft"
	ApplicantStatusPendingPayment ApplicantStatus = "pending_payment"
	ApplicantStatusSubmitted      ApplicantStatus = "submitted"
	ApplicantStatusScreening      ApplicantStatus = "screening"
	ApplicantStatusAdmitted       ApplicantStatus = "admitted"
	ApplicantStatusRejected       ApplicantStatus = "rejected"
	ApplicantStatusEnrolled       ApplicantStatus = "enrolled"
)

// ApplicationMode distinguishes UTME entry (level 100) from direct
// entry (level 200).
const (
	ApplicationModeUTME = "UTME"
	ApplicationModeDE   = "DE"
)

// Applicant is the one-to-one admission record for a user account.
type Applicant struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
	UserID             uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	SessionID          uint            `gorm:"not null;index" json:"session_id"`
	Status             ApplicantStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	ApplicationMode    string          `gorm:"type:varchar(10);default:'UTME'" json:"application_mode"`
	ProgrammeChoice1ID uint            `gorm:"index" json:"programme_choice_1_id"`
	DateOfBirth        *time.Time      `json:"date_of_birth"`
	Gender             string          `gorm:"type:varchar(10)" json:"gender"`
	StateOfOrigin      string          `gorm:"type:varchar(50)" json:"state_of_origin"`
	LGAOfOrigin        string          `gorm:"type:varchar(50)" json:"lga_of_origin"`
	Address            string          `gorm:"type:text" json:"address"`
	Metadata           datatypes.JSON  `gorm:"type:jsonb" json:"metadata,omitempty"` // O-level results, JAMB score, next of kin

	// Relationships
	User             User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Session          AcademicSession     `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	ProgrammeChoice1 Programme           `gorm:"foreignKey:ProgrammeChoice1ID" json:"programme_choice_1,omitempty"`
	Documents        []ApplicantDocument `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

// TableName specifies the table name for Applicant
func (Applicant) TableName() string {
	return "applicants"
}

// DocumentStatus is the verification state of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// ApplicantDocument records one uploaded attachment. Only the
// (type, path, status) tuple lives here; bytes live in blob storage.
type ApplicantDocument struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	ApplicantID uint           `gorm:"not null;index" json:"applicant_id"`
	Type        string         `gorm:"type:varchar(50);not null" json:"type"` // birth_certificate, olevel_result, jamb_result, passport
	Path        string         `gorm:"not null" json:"path"`                  // storage key
	Status      DocumentStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Remark      string         `gorm:"type:text" json:"remark"` // reviewer note on rejection

	// Relationships
	Applicant Applicant `gorm:"foreignKey:ApplicantID" json:"-"`
}

// TableName specifies the table name for ApplicantDocument
func (ApplicantDocument) TableName() string {
	return "applicant_documents"
}

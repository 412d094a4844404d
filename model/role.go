package model

// Role is the portal-wide role assigned to a user account
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
	RoleApplicant Role = "applicant"
	RoleStudent   Role = "student"
)

// Capability is a single permission evaluated once per operation.
// Handlers never compare role strings directly; they ask the policy.
type Capability string

const (
	CapManageSessions   Capability = "manage_sessions"
	CapManageAcademics  Capability = "manage_academics" // faculties, departments, programmes, courses
	CapManageFees       Capability = "manage_fees"
	CapManageAdmissions Capability = "manage_admissions"
	CapManagePayroll    Capability = "manage_payroll"
	CapRecordScores     Capability = "record_scores"
	CapRegisterCourses  Capability = "register_courses"
	CapApplyAdmission   Capability = "apply_admission"
	CapFrontDesk        Capability = "front_desk"
	CapViewReports      Capability = "view_reports"
)

// rolePolicy is the single source of truth for who may do what.
var rolePolicy = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapManageSessions:   true,
		CapManageAcademics:  true,
		CapManageFees:       true,
		CapManageAdmissions: true,
		CapManagePayroll:    true,
		CapRecordScores:     true,
		CapFrontDesk:        true,
		CapViewReports:      true,
	},
	RoleStaff: {
		CapManageAdmissions: true,
		CapRecordScores:     true,
		CapFrontDesk:        true,
		CapViewReports:      true,
	},
	RoleApplicant: {
		CapApplyAdmission: true,
	},
	RoleStudent: {
		CapRegisterCourses: true,
	},
}

// Can reports whether the role is granted the capability.
func (r Role) Can(c Capability) bool {
	caps, ok := rolePolicy[r]
	if !ok {
		return false
	}
	return caps[c]
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleApplicant, RoleStudent:
		return true
	}
	return false
}

package services

import "errors"

// Sentinel errors surfaced by the business workflows. Handlers map
// these onto HTTP responses; anything else is treated as internal.
var (
	// Fee resolution
	ErrNoApplicableFees = errors.New("no applicable fee configurations for this student and session")

	// Session lifecycle
	ErrSemesterMismatch = errors.New("semester does not belong to the given session")
	ErrSessionNotFound  = errors.New("academic session not found")
	ErrSemesterNotFound = errors.New("semester not found")

	// Course registration
	ErrRegistrationDisabled = errors.New("course registration is not enabled for this session")
	ErrSchoolFeesUnpaid     = errors.New("school fees for the current session have not been paid")
	ErrRegistrationClosed   = errors.New("the registration window for this semester is closed")
	ErrPastSemesterLocked   = errors.New("registration into a past semester is locked")
	ErrUnitCapExceeded      = errors.New("selected courses exceed the programme's credit unit cap")
	ErrNoCoursesSelected    = errors.New("no courses selected")

	// Enrollment
	ErrApplicantNotAdmitted = errors.New("applicant has not been offered admission")
	ErrApplicantNotFound    = errors.New("applicant not found")

	// Payments
	ErrVerificationFailed = errors.New("payment could not be verified with the gateway")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")

	// Admission pipeline
	ErrInvalidStatusChange  = errors.New("invalid applicant status transition")
	ErrApplicationsClosed   = errors.New("applications are not open for this session")
	ErrApplicationFeeUnpaid = errors.New("application fee has not been paid")
	ErrAcceptanceFeeUnpaid  = errors.New("acceptance fee has not been paid")

	// Payroll
	ErrPayrollAlreadyRun = errors.New("payroll has already been run for this period")
	ErrNoActiveStaff     = errors.New("no active staff to pay")
)

package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
)

// applicantTransitions is the allowed status graph. The progression is
// monotonic: an applicant never moves backwards.
var applicantTransitions = map[model.ApplicantStatus][]model.ApplicantStatus{
	model.ApplicantStatusDraft:          {model.ApplicantStatusPendingPayment, model.ApplicantStatusSubmitted},
	model.ApplicantStatusPendingPayment: {model.ApplicantStatusSubmitted},
	model.ApplicantStatusSubmitted:      {model.ApplicantStatusScreening},
	model.ApplicantStatusScreening:      {model.ApplicantStatusAdmitted, model.ApplicantStatusRejected},
	model.ApplicantStatusAdmitted:       {model.ApplicantStatusEnrolled},
}

// CanTransition reports whether from → to is a legal status move.
func CanTransition(from, to model.ApplicantStatus) bool {
	for _, next := range applicantTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AdmissionService drives an applicant through intake, screening and
// the admit/reject decision. Enrollment itself belongs to the
// enrollment pipeline; this service stops at "admitted".
type AdmissionService struct {
	db            *gorm.DB
	invoices      *InvoiceService
	enrollment    *EnrollmentService
	notifications *NotificationService
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(db *gorm.DB, invoices *InvoiceService, enrollment *EnrollmentService, notifications *NotificationService) *AdmissionService {
	return &AdmissionService{db: db, invoices: invoices, enrollment: enrollment, notifications: notifications}
}

// StartApplicationRequest carries the applicant's intake form.
type StartApplicationRequest struct {
	UserID          uint
	SessionID       uint
	ProgrammeID     uint
	ApplicationMode string
	Gender          string
	StateOfOrigin   string
	LGAOfOrigin     string
	Address         string
}

// StartApplication opens a draft application and bills the application
// fee. Idempotent per user and session: an existing applicant row is
// returned untouched.
func (s *AdmissionService) StartApplication(ctx context.Context, req StartApplicationRequest) (*model.Applicant, error) {
	var session model.AcademicSession
	if err := s.db.WithContext(ctx).First(&session, req.SessionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !session.ApplicationsEnabled {
		return nil, ErrApplicationsClosed
	}

	var existing model.Applicant
	err := s.db.WithContext(ctx).Where("user_id = ?", req.UserID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to check for existing application: %w", err)
	}

	var programme model.Programme
	if err := s.db.WithContext(ctx).Preload("Department").First(&programme, req.ProgrammeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to load programme: %w", err)
	}

	applicant := model.Applicant{
		UserID:             req.UserID,
		SessionID:          session.ID,
		Status:             model.ApplicantStatusDraft,
		ApplicationMode:    req.ApplicationMode,
		ProgrammeChoice1ID: programme.ID,
		Gender:             req.Gender,
		StateOfOrigin:      req.StateOfOrigin,
		LGAOfOrigin:        req.LGAOfOrigin,
		Address:            req.Address,
	}
	if err := s.db.WithContext(ctx).Create(&applicant).Error; err != nil {
		return nil, fmt.Errorf("failed to create applicant: %w", err)
	}

	// Bill the application fee; a missing fee rule means applications
	// are free for this session and the applicant stays in draft.
	placement := placementFor(&programme, StartingLevel(req.ApplicationMode))
	_, err = s.invoices.Generate(ctx, req.UserID, placement, session.ID, model.FeeTypeApplication)
	switch err {
	case nil:
		if err := s.transition(ctx, &applicant, model.ApplicantStatusPendingPayment); err != nil {
			return nil, err
		}
	case ErrNoApplicableFees:
		// free application, stays draft until submitted
	default:
		return nil, err
	}

	return &applicant, nil
}

// Submit finalizes the form. The application-fee invoice, when one was
// generated, must be settled first.
func (s *AdmissionService) Submit(ctx context.Context, userID uint) (*model.Applicant, error) {
	applicant, err := s.loadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if applicant.Status == model.ApplicantStatusPendingPayment {
		var paidCount int64
		if err := s.db.WithContext(ctx).Model(&model.Invoice{}).
			Where("user_id = ? AND session_id = ? AND type = ? AND status = ?",
				userID, applicant.SessionID, model.FeeTypeApplication, model.InvoiceStatusPaid).
			Count(&paidCount).Error; err != nil {
			return nil, fmt.Errorf("failed to check application fee: %w", err)
		}
		if paidCount == 0 {
			return nil, ErrApplicationFeeUnpaid
		}
	}

	if err := s.transition(ctx, applicant, model.ApplicantStatusSubmitted); err != nil {
		return nil, err
	}

	s.notifications.Notify(ctx, userID, model.NotificationTypeInfo, model.NotificationCategoryApplication,
		"Application submitted", "Your application has been received and is awaiting screening.")
	return applicant, nil
}

// MoveToScreening is the admissions office picking up a submission.
func (s *AdmissionService) MoveToScreening(ctx context.Context, applicantID uint) (*model.Applicant, error) {
	applicant, err := s.load(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, applicant, model.ApplicantStatusScreening); err != nil {
		return nil, err
	}
	return applicant, nil
}

// Admit offers admission and bills the acceptance fee.
func (s *AdmissionService) Admit(ctx context.Context, applicantID uint) (*model.Applicant, error) {
	applicant, err := s.load(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, applicant, model.ApplicantStatusAdmitted); err != nil {
		return nil, err
	}

	var programme model.Programme
	if err := s.db.WithContext(ctx).Preload("Department").First(&programme, applicant.ProgrammeChoice1ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load programme: %w", err)
	}

	placement := placementFor(&programme, StartingLevel(applicant.ApplicationMode))
	_, err = s.invoices.Generate(ctx, applicant.UserID, placement, applicant.SessionID, model.FeeTypeAcceptance)
	if err != nil && err != ErrNoApplicableFees {
		return nil, err
	}

	s.notifications.Notify(ctx, applicant.UserID, model.NotificationTypeSuccess, model.NotificationCategoryAdmission,
		"Admission offered", "Congratulations! You have been offered admission. Pay your acceptance fee to enroll.")
	return applicant, nil
}

// Reject declines the application.
func (s *AdmissionService) Reject(ctx context.Context, applicantID uint, remark string) (*model.Applicant, error) {
	applicant, err := s.load(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, applicant, model.ApplicantStatusRejected); err != nil {
		return nil, err
	}

	message := "We are sorry, your application was not successful."
	if remark != "" {
		message = message + " " + remark
	}
	s.notifications.Notify(ctx, applicant.UserID, model.NotificationTypeWarning, model.NotificationCategoryAdmission,
		"Admission decision", message)
	return applicant, nil
}

// AcceptOffer is the applicant's direct acceptance. When no acceptance
// fee applies (no rule matched at admit time) enrollment runs
// immediately; otherwise the fee must be settled and the payment paths
// trigger enrollment instead.
func (s *AdmissionService) AcceptOffer(ctx context.Context, userID uint) (*model.Student, error) {
	applicant, err := s.loadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if applicant.Status != model.ApplicantStatusAdmitted {
		return nil, ErrApplicantNotAdmitted
	}

	var invoice model.Invoice
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ? AND type = ?", userID, applicant.SessionID, model.FeeTypeAcceptance).
		First(&invoice).Error
	if err == gorm.ErrRecordNotFound {
		// No fee was billed: enroll straight away.
		return s.enrollment.Enroll(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check acceptance fee: %w", err)
	}

	if invoice.Status != model.InvoiceStatusPaid {
		return nil, ErrAcceptanceFeeUnpaid
	}
	return s.enrollment.Enroll(ctx, userID)
}

func (s *AdmissionService) load(ctx context.Context, applicantID uint) (*model.Applicant, error) {
	var applicant model.Applicant
	if err := s.db.WithContext(ctx).First(&applicant, applicantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrApplicantNotFound
		}
		return nil, fmt.Errorf("failed to load applicant: %w", err)
	}
	return &applicant, nil
}

func (s *AdmissionService) loadByUser(ctx context.Context, userID uint) (*model.Applicant, error) {
	var applicant model.Applicant
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&applicant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrApplicantNotFound
		}
		return nil, fmt.Errorf("failed to load applicant: %w", err)
	}
	return &applicant, nil
}

func (s *AdmissionService) transition(ctx context.Context, applicant *model.Applicant, to model.ApplicantStatus) error {
	if !CanTransition(applicant.Status, to) {
		return ErrInvalidStatusChange
	}
	if err := s.db.WithContext(ctx).Model(&model.Applicant{}).
		Where("id = ?", applicant.ID).
		Update("status", to).Error; err != nil {
		return fmt.Errorf("failed to update applicant status: %w", err)
	}
	applicant.Status = to
	return nil
}

// placementFor builds the fee-resolution placement for a programme.
func placementFor(programme *model.Programme, level int) StudentPlacement {
	return StudentPlacement{
		FacultyID:    programme.Department.FacultyID,
		DepartmentID: programme.DepartmentID,
		ProgrammeID:  programme.ID,
		Level:        level,
	}
}

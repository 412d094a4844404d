package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/services"
)

const jobTimeout = 5 * time.Minute

// ReconcilePendingPayments re-verifies gateway payments that never got
// a callback. Verify is idempotent so a racing webhook is harmless.
func (m *CronManager) ReconcilePendingPayments() {
	jobName := "reconcile_pending_payments"

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := time.Now().Add(-15 * time.Minute)

	var pending []model.Payment
	err := m.db.WithContext(ctx).
		Where("status = ? AND gateway_reference <> '' AND created_at < ?", model.PaymentStatusPending, cutoff).
		Order("created_at ASC").
		Limit(100).
		Find(&pending).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query pending payments: %w", err))
		return
	}

	if len(pending) == 0 {
		m.logJobComplete(jobName, "No pending payments to reconcile")
		return
	}

	confirmed := 0
	unsettled := 0
	failed := 0
	for i := range pending {
		_, err := m.payments.Verify(ctx, pending[i].GatewayReference)
		switch {
		case err == nil:
			confirmed++
		case errors.Is(err, services.ErrVerificationFailed):
			unsettled++
		default:
			failed++
		}
	}

	m.logJobComplete(jobName, fmt.Sprintf("Reconciled %d payments: %d confirmed, %d unsettled, %d errors",
		len(pending), confirmed, unsettled, failed))
}

// CleanupOldData removes expired and stale housekeeping records.
func (m *CronManager) CleanupOldData() {
	jobName := "cleanup_old_data"

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := time.Now()
	totalCleaned := int64(0)

	// Expired JWT blacklist entries are dead weight once the token
	// itself can no longer validate.
	result := m.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to clean token blacklist: %w", result.Error))
		return
	}
	totalCleaned += result.RowsAffected

	// Password reset tokens that expired or were consumed.
	result = m.db.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", now).
		Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to clean password resets: %w", result.Error))
		return
	}
	totalCleaned += result.RowsAffected

	// Pending payments that were initialized but never completed.
	result = m.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.PaymentStatusPending, now.AddDate(0, 0, -7)).
		Delete(&model.Payment{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to clean abandoned payments: %w", result.Error))
		return
	}
	totalCleaned += result.RowsAffected

	// Read notifications older than six months.
	result = m.db.WithContext(ctx).
		Where("read = ? AND created_at < ?", true, now.AddDate(0, -6, 0)).
		Delete(&model.UserNotification{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to clean notifications: %w", result.Error))
		return
	}
	totalCleaned += result.RowsAffected

	// Cron logs older than 90 days.
	result = m.db.WithContext(ctx).
		Where("created_at < ?", now.AddDate(0, 0, -90)).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to clean cron logs: %w", result.Error))
		return
	}
	totalCleaned += result.RowsAffected

	m.logJobComplete(jobName, fmt.Sprintf("Cleaned up %d total records", totalCleaned))
}

// RemindUnpaidApplications nudges applicants still sitting on an
// unpaid application fee. Reminders stop after two weeks of silence.
func (m *CronManager) RemindUnpaidApplications() {
	jobName := "remind_unpaid_applications"

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	var applicants []model.Applicant
	err := m.db.WithContext(ctx).
		Where("status = ? AND updated_at > ?", model.ApplicantStatusPendingPayment, time.Now().AddDate(0, 0, -14)).
		Find(&applicants).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query unpaid applications: %w", err))
		return
	}

	if len(applicants) == 0 {
		m.logJobComplete(jobName, "No unpaid applications to remind")
		return
	}

	for i := range applicants {
		m.notifications.Notify(ctx, applicants[i].UserID,
			model.NotificationTypeWarning,
			model.NotificationCategoryApplication,
			"Application fee pending",
			"Your application fee is still unpaid. Pay the fee to submit your application.")
	}

	m.logJobComplete(jobName, fmt.Sprintf("Reminded %d applicants", len(applicants)))
}

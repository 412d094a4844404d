package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/Auwalkay/uni-portal/config"
)

// ReportStore runs read-only reporting aggregates over a plain
// database/sql connection. Reports join across many tables and are
// easier to keep honest as raw SQL than as GORM chains.
type ReportStore struct {
	db *sql.DB
}

// StartReportStore opens the reporting connection.
func StartReportStore() (*ReportStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	connectStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv.DB_HOST, getEnv.DB_PORT, getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD, getEnv.DB_NAME, getEnv.DB_SSL_MODE,
	)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		return nil, err
	}

	log.Println("Successfully connected reporting store to PostgreSQL.")
	return &ReportStore{db: db}, nil
}

// Close closes the reporting connection.
func (s *ReportStore) Close() error {
	return s.db.Close()
}

// AdmissionFunnelRow is one applicant-status bucket for a session.
type AdmissionFunnelRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// AdmissionFunnel counts applicants per status for one session.
func (s *ReportStore) AdmissionFunnel(ctx context.Context, sessionID uint) ([]AdmissionFunnelRow, error) {
	query := `
		SELECT status, COUNT(*)
		FROM applicants
		WHERE session_id = $1 AND deleted_at IS NULL
		GROUP BY status
		ORDER BY status;
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	funnel := []AdmissionFunnelRow{}
	for rows.Next() {
		var row AdmissionFunnelRow
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, err
		}
		funnel = append(funnel, row)
	}
	return funnel, rows.Err()
}

// RevenueRow is collected revenue for one fee type in a session.
type RevenueRow struct {
	FeeType      string  `json:"fee_type"`
	InvoiceCount int64   `json:"invoice_count"`
	Billed       float64 `json:"billed"`
	Collected    float64 `json:"collected"`
}

// RevenueBySession sums billed and collected amounts per fee type.
func (s *ReportStore) RevenueBySession(ctx context.Context, sessionID uint) ([]RevenueRow, error) {
	query := `
		SELECT type, COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(paid_amount), 0)
		FROM invoices
		WHERE session_id = $1 AND deleted_at IS NULL
		GROUP BY type
		ORDER BY type;
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	revenue := []RevenueRow{}
	for rows.Next() {
		var row RevenueRow
		if err := rows.Scan(&row.FeeType, &row.InvoiceCount, &row.Billed, &row.Collected); err != nil {
			return nil, err
		}
		revenue = append(revenue, row)
	}
	return revenue, rows.Err()
}

// EnrollmentByDepartmentRow is a per-department student head count.
type EnrollmentByDepartmentRow struct {
	Faculty    string `json:"faculty"`
	Department string `json:"department"`
	Students   int64  `json:"students"`
}

// EnrollmentByDepartment counts students per department with faculty names.
func (s *ReportStore) EnrollmentByDepartment(ctx context.Context) ([]EnrollmentByDepartmentRow, error) {
	query := `
		SELECT f.name, d.name, COUNT(st.id)
		FROM students st
		JOIN departments d ON d.id = st.department_id
		JOIN faculties f ON f.id = st.faculty_id
		WHERE st.deleted_at IS NULL
		GROUP BY f.name, d.name
		ORDER BY f.name, d.name;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []EnrollmentByDepartmentRow{}
	for rows.Next() {
		var row EnrollmentByDepartmentRow
		if err := rows.Scan(&row.Faculty, &row.Department, &row.Students); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// FrontDeskDailyRow is one day's visitor count.
type FrontDeskDailyRow struct {
	Day      string `json:"day"`
	Visitors int64  `json:"visitors"`
}

// FrontDeskDaily counts front-desk entries per day over the last n days.
func (s *ReportStore) FrontDeskDaily(ctx context.Context, days int) ([]FrontDeskDailyRow, error) {
	if days <= 0 {
		days = 30
	}
	query := `
		SELECT TO_CHAR(time_in::date, 'YYYY-MM-DD'), COUNT(*)
		FROM front_desk_logs
		WHERE time_in >= NOW() - ($1 || ' days')::interval AND deleted_at IS NULL
		GROUP BY time_in::date
		ORDER BY time_in::date DESC;
	`
	rows, err := s.db.QueryContext(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FrontDeskDailyRow{}
	for rows.Next() {
		var row FrontDeskDailyRow
		if err := rows.Scan(&row.Day, &row.Visitors); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

package report

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Auwalkay/uni-portal/database"
	"github.com/Auwalkay/uni-portal/utils/response"
)

// ReportHandler serves administrative reports. The queries run over a
// dedicated database/sql pool, not the ORM connection.
type ReportHandler struct {
	reports *database.ReportStore
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *database.ReportStore) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func sessionIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("session_id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// AdmissionFunnel handles GET /api/v1/reports/admission-funnel?session_id=
func (h *ReportHandler) AdmissionFunnel(c *fiber.Ctx) error {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return response.BadRequest(c, "session_id is required")
	}

	rows, err := h.reports.AdmissionFunnel(c.Context(), sessionID)
	if err != nil {
		return response.InternalServerError(c, "Failed to build admission funnel")
	}
	return response.Success(c, rows)
}

// Revenue handles GET /api/v1/reports/revenue?session_id=
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return response.BadRequest(c, "session_id is required")
	}

	rows, err := h.reports.RevenueBySession(c.Context(), sessionID)
	if err != nil {
		return response.InternalServerError(c, "Failed to build revenue report")
	}
	return response.Success(c, rows)
}

// EnrollmentByDepartment handles GET /api/v1/reports/enrollment
func (h *ReportHandler) EnrollmentByDepartment(c *fiber.Ctx) error {
	rows, err := h.reports.EnrollmentByDepartment(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build enrollment report")
	}
	return response.Success(c, rows)
}

// FrontDeskDaily handles GET /api/v1/reports/front-desk?days=
func (h *ReportHandler) FrontDeskDaily(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", "30"))
	if err != nil || days < 1 || days > 365 {
		days = 30
	}

	rows, err := h.reports.FrontDeskDaily(c.Context(), days)
	if err != nil {
		return response.InternalServerError(c, "Failed to build front desk report")
	}
	return response.Success(c, rows)
}

package student

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/utils/middleware"
	"github.com/Auwalkay/uni-portal/utils/response"
)

// StudentHandler serves the student directory.
type StudentHandler struct {
	db *gorm.DB
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{db: db}
}

// ListStudents handles GET /api/v1/students (staff only)
func (h *StudentHandler) ListStudents(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.Query("per_page", "25"))
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	query := h.db.Model(&model.Student{})
	if departmentID := c.Query("department_id"); departmentID != "" {
		query = query.Where("department_id = ?", departmentID)
	}
	if facultyID := c.Query("faculty_id"); facultyID != "" {
		query = query.Where("faculty_id = ?", facultyID)
	}
	if programmeID := c.Query("programme_id"); programmeID != "" {
		query = query.Where("programme_id = ?", programmeID)
	}
	if level := c.Query("level"); level != "" {
		query = query.Where("current_level = ?", level)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("matric_number ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count students")
	}

	var students []model.Student
	if err := query.Preload("User").Preload("Programme").Preload("Department").
		Order("matric_number").
		Limit(perPage).Offset((page - 1) * perPage).
		Find(&students).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch students")
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return response.Paginated(c, students, response.PaginationMeta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
	})
}

// GetStudent handles GET /api/v1/students/:id (staff only)
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	var student model.Student
	if err := h.db.Preload("User").Preload("Programme").
		Preload("Department.Faculty").Preload("AdmittedSession").
		First(&student, c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Student not found")
		}
		return response.InternalServerError(c, "Failed to fetch student")
	}
	return response.Success(c, student)
}

// GetMyRecord handles GET /api/v1/students/me
func (h *StudentHandler) GetMyRecord(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var student model.Student
	if err := h.db.Preload("Programme").Preload("Department.Faculty").
		Preload("AdmittedSession").
		Where("user_id = ?", userID).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "No student record found")
		}
		return response.InternalServerError(c, "Failed to fetch student record")
	}
	return response.Success(c, student)
}

package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Auwalkay/uni-portal/model"
	"github.com/Auwalkay/uni-portal/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	// Run seeds in order (respecting foreign key constraints)
	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedSession(); err != nil {
		return fmt.Errorf("failed to seed academic session: %w", err)
	}

	if err := s.SeedFaculties(); err != nil {
		return fmt.Errorf("failed to seed faculties: %w", err)
	}

	if err := s.SeedCourses(); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	if err := s.SeedFeeConfigurations(); err != nil {
		return fmt.Errorf("failed to seed fee configurations: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "registrar@uniportal.edu.ng"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe123!"
		log.Println("⚠️  ADMIN_PASSWORD not set, using default. Change it immediately.")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Portal",
		LastName:     "Administrator",
		Role:         model.RoleAdmin,
	}
	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("👤 Created admin user %s", email)
	return nil
}

// SeedSession creates the current academic session with two semesters.
func (s *Seeder) SeedSession() error {
	var count int64
	if err := s.db.Model(&model.AcademicSession{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Academic sessions already exist, skipping...")
		return nil
	}

	year := time.Now().Year()
	session := model.AcademicSession{
		Name:                fmt.Sprintf("%d/%d", year, year+1),
		StartsOn:            time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC),
		EndsOn:              time.Date(year+1, time.August, 31, 0, 0, 0, 0, time.UTC),
		IsCurrent:           true,
		RegistrationEnabled: true,
		ApplicationsEnabled: true,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return err
	}

	semesters := []model.Semester{
		{SessionID: session.ID, Name: "First Semester", Ordinal: 1, IsCurrent: true},
		{SessionID: session.ID, Name: "Second Semester", Ordinal: 2},
	}
	if err := s.db.Create(&semesters).Error; err != nil {
		return err
	}

	log.Printf("📅 Created session %s with %d semesters", session.Name, len(semesters))
	return nil
}

// SeedFaculties creates a starter faculty tree.
func (s *Seeder) SeedFaculties() error {
	var count int64
	if err := s.db.Model(&model.Faculty{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Faculties already exist, skipping...")
		return nil
	}

	faculties := []struct {
		name        string
		code        string
		departments []struct {
			name       string
			code       string
			programmes []string
		}
	}{
		{
			name: "Faculty of Science", code: "SCI",
			departments: []struct {
				name       string
				code       string
				programmes []string
			}{
				{name: "Computer Science", code: "CSC", programmes: []string{"B.Sc. Computer Science"}},
				{name: "Mathematics", code: "MTH", programmes: []string{"B.Sc. Mathematics"}},
			},
		},
		{
			name: "Faculty of Management Sciences", code: "MGS",
			departments: []struct {
				name       string
				code       string
				programmes []string
			}{
				{name: "Accounting", code: "ACC", programmes: []string{"B.Sc. Accounting"}},
			},
		},
	}

	for _, f := range faculties {
		faculty := model.Faculty{Name: f.name, Code: f.code, IsActive: true}
		if err := s.db.Create(&faculty).Error; err != nil {
			return err
		}
		for _, d := range f.departments {
			department := model.Department{FacultyID: faculty.ID, Name: d.name, Code: d.code, IsActive: true}
			if err := s.db.Create(&department).Error; err != nil {
				return err
			}
			for _, p := range d.programmes {
				programme := model.Programme{
					DepartmentID:   department.ID,
					Name:           p,
					Type:           model.ProgrammeTypeUG,
					MaxCreditUnits: model.DefaultMaxCreditUnits,
					IsActive:       true,
				}
				if err := s.db.Create(&programme).Error; err != nil {
					return err
				}
			}
		}
	}

	log.Printf("🏛️  Created %d faculties", len(faculties))
	return nil
}

// SeedCourses creates starter 100-level courses for Computer Science.
func (s *Seeder) SeedCourses() error {
	var count int64
	if err := s.db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Courses already exist, skipping...")
		return nil
	}

	var csc model.Department
	if err := s.db.Where("code = ?", "CSC").First(&csc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Println("⏭️  No CSC department, skipping course seed...")
			return nil
		}
		return err
	}

	courses := []model.Course{
		{DepartmentID: csc.ID, Code: "CSC101", Title: "Introduction to Computer Science", Level: 100, SemesterCode: "1", Units: 3, IsCompulsory: true, IsActive: true},
		{DepartmentID: csc.ID, Code: "CSC102", Title: "Introduction to Programming", Level: 100, SemesterCode: "2", Units: 3, IsCompulsory: true, IsActive: true},
		{DepartmentID: csc.ID, Code: "MTH101", Title: "Elementary Mathematics I", Level: 100, SemesterCode: "1", Units: 3, IsCompulsory: true, IsActive: true},
		{DepartmentID: csc.ID, Code: "GST101", Title: "Use of English I", Level: 100, SemesterCode: "1", Units: 2, IsCompulsory: false, IsActive: true},
	}
	if err := s.db.Create(&courses).Error; err != nil {
		return err
	}

	log.Printf("📚 Created %d courses", len(courses))
	return nil
}

// SeedFeeConfigurations creates the baseline fee rules for the current
// session: a global school fee plus an application and acceptance fee.
func (s *Seeder) SeedFeeConfigurations() error {
	var count int64
	if err := s.db.Model(&model.FeeConfiguration{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("⏭️  Fee configurations already exist, skipping...")
		return nil
	}

	var session model.AcademicSession
	if err := s.db.Where("is_current = ?", true).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Println("⏭️  No current session, skipping fee seed...")
			return nil
		}
		return err
	}

	fees := []model.FeeConfiguration{
		{SessionID: session.ID, Type: model.FeeTypeApplication, Amount: 5000, IsCompulsory: true},
		{SessionID: session.ID, Type: model.FeeTypeAcceptance, Amount: 25000, IsCompulsory: true},
		{SessionID: session.ID, Type: model.FeeTypeSchool, Amount: 75000, IsCompulsory: true},
	}
	if err := s.db.Create(&fees).Error; err != nil {
		return err
	}

	log.Printf("💰 Created %d fee configurations for %s", len(fees), session.Name)
	return nil
}

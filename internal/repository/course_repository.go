package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/pkg/backend"
)

const (
	coursesTable = "courses"
	modulesTable = "modules"
)

// CourseRepository reads courses and modules from the backend data service.
type CourseRepository struct {
	data        backend.DataSource
	moduleOrder string
}

// NewCourseRepository creates a repository. moduleOrder is the column modules are sorted by;
// an empty value keeps the backend's row order.
func NewCourseRepository(data backend.DataSource, moduleOrder string) *CourseRepository {
	return &CourseRepository{data: data, moduleOrder: moduleOrder}
}

// List returns all courses, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	q := backend.From(coursesTable).
		Select(models.CourseColumns...).
		Order("created_at", true)
	var courses []models.Course
	if err := r.data.Select(ctx, q, &courses); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID returns a single course. A missing row surfaces as sql.ErrNoRows.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	q := backend.From(coursesTable).
		Select(models.CourseColumns...).
		Eq("id", id).
		One()
	var course models.Course
	if err := r.data.Select(ctx, q, &course); err != nil {
		return nil, fmt.Errorf("find course %d: %w", id, err)
	}
	return &course, nil
}

// ListModules returns the modules of a course.
func (r *CourseRepository) ListModules(ctx context.Context, courseID int64) ([]models.Module, error) {
	q := backend.From(modulesTable).
		Select(models.ModuleColumns...).
		Eq("course_id", courseID)
	if r.moduleOrder != "" {
		q = q.Order(r.moduleOrder, false)
	}
	var modules []models.Module
	if err := r.data.Select(ctx, q, &modules); err != nil {
		return nil, fmt.Errorf("list modules for course %d: %w", courseID, err)
	}
	return modules, nil
}

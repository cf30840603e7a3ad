package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-portal/internal/middleware"
	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/service"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
	"github.com/noah-isme/course-portal/pkg/response"
)

type courseService interface {
	Configured() bool
	List(ctx context.Context) []models.Course
	Detail(ctx context.Context, id int64) (*models.CourseDetail, error)
}

type manifestService interface {
	Manifest(ctx context.Context, id int64, format service.ExportFormat) (*service.Manifest, error)
}

// CourseHandler exposes the course views as JSON.
type CourseHandler struct {
	courses courseService
	exports manifestService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses courseService, exports manifestService) *CourseHandler {
	return &CourseHandler{courses: courses, exports: exports}
}

// List godoc
// @Summary List courses
// @Description Newest first. Backend failures produce an empty list.
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses := h.courses.List(c.Request.Context())
	if abandoned(c, nil) {
		return
	}
	middleware.SetMeta(c, "count", len(courses))
	response.JSON(c, http.StatusOK, courses, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Course detail with modules and PDF materials
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := courseIDParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "course not found"))
		return
	}
	detail, err := h.courses.Detail(c.Request.Context(), id)
	if abandoned(c, err) {
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "module_count", detail.ModuleCount)
	response.JSON(c, http.StatusOK, detail, middleware.ExtractMeta(c))
}

// Materials godoc
// @Summary Download the material manifest of a course
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Course ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/materials [get]
func (h *CourseHandler) Materials(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	id, ok := courseIDParam(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "course not found"))
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	manifest, err := h.exports.Manifest(c.Request.Context(), id, format)
	if abandoned(c, err) {
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, manifest.Filename, manifest.ContentType, manifest.Body)
}

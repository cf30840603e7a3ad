package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/course-portal/internal/models"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

// PageConfig carries the presentation settings of the HTML views.
type PageConfig struct {
	Title         string
	EnrollmentURL string
}

var pageMessages = map[string]string{
	appErrors.ErrNotFound.Code:          "Курсът не е намерен",
	appErrors.ErrNotConfigured.Code:     "Базата данни не е конфигурирана",
	appErrors.ErrCourseFetchFailed.Code: "Грешка при зареждане на курса",
}

const defaultPageMessage = "Грешка при свързване с базата данни"

// PageHandler renders the server-side HTML views.
type PageHandler struct {
	courses courseService
	cfg     PageConfig
	logger  *zap.Logger
}

// NewPageHandler constructs the handler. Templates must be registered on the engine.
func NewPageHandler(courses courseService, cfg PageConfig, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Title == "" {
		cfg.Title = "Курсове"
	}
	return &PageHandler{courses: courses, cfg: cfg, logger: logger}
}

type indexPage struct {
	PageTitle     string
	EnrollmentURL string
	Courses       []models.Course
}

type coursePage struct {
	PageTitle   string
	Course      models.Course
	Modules     []models.Module
	ModuleCount int
}

type errorPage struct {
	PageTitle string
	Message   string
}

// Index renders the course list. An unconfigured or failing backend shows the empty state.
func (h *PageHandler) Index(c *gin.Context) {
	courses := h.courses.List(c.Request.Context())
	if abandoned(c, nil) {
		return
	}
	c.HTML(http.StatusOK, "index.html", indexPage{
		PageTitle:     h.cfg.Title,
		EnrollmentURL: h.cfg.EnrollmentURL,
		Courses:       courses,
	})
}

// Course renders one course with its module dialog.
func (h *PageHandler) Course(c *gin.Context) {
	id, ok := courseIDParam(c)
	if !ok {
		h.renderError(c, appErrors.Clone(appErrors.ErrNotFound, "course not found"))
		return
	}
	detail, err := h.courses.Detail(c.Request.Context(), id)
	if abandoned(c, err) {
		return
	}
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.HTML(http.StatusOK, "course.html", coursePage{
		PageTitle:   detail.Course.Title,
		Course:      detail.Course,
		Modules:     detail.Modules,
		ModuleCount: detail.ModuleCount,
	})
}

// NotFound renders the error page for unmatched routes.
func (h *PageHandler) NotFound(c *gin.Context) {
	h.renderError(c, appErrors.ErrNotFound)
}

func (h *PageHandler) renderError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	message, ok := pageMessages[appErr.Code]
	if !ok {
		message = defaultPageMessage
		h.logger.Error("unexpected error rendering page", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.HTML(appErr.Status, "error.html", errorPage{PageTitle: h.cfg.Title, Message: message})
}

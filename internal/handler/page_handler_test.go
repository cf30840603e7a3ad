package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal/internal/models"
	"github.com/noah-isme/course-portal/internal/web"
	appErrors "github.com/noah-isme/course-portal/pkg/errors"
)

func newPageRouter(t *testing.T, courses courseService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates("bg")
	require.NoError(t, err)

	h := NewPageHandler(courses, PageConfig{Title: "Курсове", EnrollmentURL: "https://braingym.digital/login/index.php"}, nil)
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.GET("/", h.Index)
	router.GET("/course/:id", h.Course)
	router.NoRoute(h.NotFound)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPageHandlerIndexListsCourses(t *testing.T) {
	router := newPageRouter(t, &fakeCourseSrv{configured: true, courses: []models.Course{{ID: 3, Title: "Excel за начинаещи"}, {ID: 1, Title: "Word"}}})

	rec := get(router, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `href="/course/3"`)
	assert.Contains(t, body, "Excel за начинаещи")
	assert.Less(t, strings.Index(body, "/course/3"), strings.Index(body, "/course/1"))
	assert.Contains(t, body, `href="https://braingym.digital/login/index.php" target="_blank"`)
	assert.NotContains(t, body, "Няма налични курсове в момента")
}

func TestPageHandlerIndexEmptyState(t *testing.T) {
	router := newPageRouter(t, &fakeCourseSrv{})

	rec := get(router, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Няма налични курсове в момента")
	assert.NotContains(t, body, "конфигурирана")
}

func TestPageHandlerCourseWithModules(t *testing.T) {
	router := newPageRouter(t, &fakeCourseSrv{configured: true, detail: sampleCourseDetail()})

	rec := get(router, "/course/7")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Дигитални умения")
	assert.Contains(t, body, "5 март 2024 г.")
	assert.Contains(t, body, "Модули налице (2)")
	assert.Contains(t, body, `href="#modules"`)
	assert.Contains(t, body, "Модул 1")
	assert.Contains(t, body, "Модул 2")
	assert.Contains(t, body, "PDF материали (2)")
	assert.Contains(t, body, "PDF документ #2")
	assert.Contains(t, body, `href="https://cdn.example.com/pdfs/course-7/module-1/intro.pdf" target="_blank"`)
	assert.Contains(t, body, "Няма налични PDF материали за този модул")
	assert.Equal(t, 2, strings.Count(body, "<details"))
}

func TestPageHandlerCourseWithoutModules(t *testing.T) {
	detail := sampleCourseDetail()
	detail.Modules = []models.Module{}
	detail.ModuleCount = 0
	router := newPageRouter(t, &fakeCourseSrv{configured: true, detail: detail})

	rec := get(router, "/course/7")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Няма налични модули")
	assert.Contains(t, body, "Модулите за този курс ще бъдат добавени скоро")
	assert.NotContains(t, body, `href="#modules"`)
	assert.NotContains(t, body, "<details")
}

func TestPageHandlerCourseErrors(t *testing.T) {
	cases := []struct {
		name    string
		path    string
		err     error
		status  int
		message string
	}{
		{"not found", "/course/99", appErrors.Clone(appErrors.ErrNotFound, "course not found"), http.StatusNotFound, "Курсът не е намерен"},
		{"invalid id", "/course/abc", nil, http.StatusNotFound, "Курсът не е намерен"},
		{"not configured", "/course/7", appErrors.ErrNotConfigured, http.StatusServiceUnavailable, "Базата данни не е конфигурирана"},
		{"fetch failed", "/course/7", appErrors.ErrCourseFetchFailed, http.StatusBadGateway, "Грешка при зареждане на курса"},
		{"unexpected", "/course/7", assert.AnError, http.StatusInternalServerError, "Грешка при свързване с базата данни"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newPageRouter(t, &fakeCourseSrv{detailErr: tc.err})

			rec := get(router, tc.path)

			assert.Equal(t, tc.status, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, tc.message)
			assert.Contains(t, body, "Назад към курсовете")
		})
	}
}

func TestPageHandlerCourseCancelled(t *testing.T) {
	router := newPageRouter(t, &fakeCourseSrv{detailErr: context.Canceled})

	rec := get(router, "/course/7")

	assert.Equal(t, statusClientClosedRequest, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestPageHandlerUnknownRoute(t *testing.T) {
	router := newPageRouter(t, &fakeCourseSrv{})

	rec := get(router, "/no/such/page")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Назад към курсовете")
}
